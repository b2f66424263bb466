//go:build !linux

package engine

import (
	"os"

	"github.com/pkg/errors"
)

func openUring(f *os.File, entries uint32) (File, error) {
	return nil, errors.New("uring engine is only supported on Linux")
}
