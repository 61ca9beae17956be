// Package encoding performs the remux and convert operations.
//
// The engine runs one file at a time because the encoder is treated as a
// single exclusive hardware resource. Each operation carries its own
// fallback chain: remux retries once with AAC audio, convert retries once
// with CPU filtering and may re-encode once more at a lower quality when
// the output outgrew its source. Outputs are validated by re-probing
// before the source is ever touched; any failure deletes the partial
// output and leaves the source as it was.
package encoding
