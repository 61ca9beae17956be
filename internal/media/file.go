package media

import (
	"path/filepath"
	"strings"
)

const (
	// TargetCodec is the codec every processed file ends up encoded with.
	TargetCodec = "hevc"
	// TargetExtension is the container every processed file ends up in.
	TargetExtension = "mp4"
	// CodecMarker is the filename token stamped onto outputs so a later
	// scan recognizes them without probing.
	CodecMarker = "x265"
)

// VideoFile identifies a candidate file discovered by a directory walk.
type VideoFile struct {
	Path      string
	Name      string
	Extension string
}

// NewVideoFile builds a VideoFile from an absolute path.
func NewVideoFile(path string) VideoFile {
	return VideoFile{
		Path:      path,
		Name:      filepath.Base(path),
		Extension: strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")),
	}
}

// HasCodecMarker reports whether the filename already carries the codec
// marker as its penultimate dotted token ("clip.x265.mp4").
func (f VideoFile) HasCodecMarker() bool {
	stem := strings.TrimSuffix(f.Name, filepath.Ext(f.Name))
	return strings.HasSuffix(strings.ToLower(stem), "."+CodecMarker) ||
		strings.EqualFold(stem, CodecMarker)
}

// IsTargetCodec reports whether codec names the target video codec.
func IsTargetCodec(codec string) bool {
	switch strings.ToLower(codec) {
	case "hevc", "h265":
		return true
	}
	return false
}

// IsTargetContainer reports whether ext names the target container.
func IsTargetContainer(ext string) bool {
	return strings.EqualFold(ext, TargetExtension)
}

// OutputPath computes the deterministic output path for a source file:
// the stem gains the codec marker and the container becomes mp4. The
// result always differs from the source path, because sources that
// already carry the marker in the target container are classified away
// before any path is computed.
func OutputPath(path string) string {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, stem+"."+CodecMarker+"."+TargetExtension)
}

// MarkerPath computes the rename target for a file that is already in
// the target codec and container but lacks the marker.
func MarkerPath(path string) string {
	return OutputPath(path)
}
