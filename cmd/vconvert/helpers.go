package main

import (
	"fmt"

	"vconvert/internal/preflight"
)

func preflightError(r preflight.Result) error {
	return fmt.Errorf("preflight %s: %s", r.Name, r.Detail)
}
