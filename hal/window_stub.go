//go:build !tinygo && !cgo

package hal

import (
	"errors"
	"image"
)

func RunWindow(_ string, _ int, _ func(Input) (*image.RGBA, error)) error {
	return errors.New("window mode requires cgo (build/run with CGO_ENABLED=1)")
}
