package engine

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Open creates a fresh, empty backing file and returns it behind the
// requested engine. The file is left on disk after Close.
func Open(p Params) (File, error) {
	f, err := create(p)
	if err != nil {
		return nil, err
	}
	switch p.Engine {
	case "", "sync":
		return f, nil
	case "uring":
		uf, err := openUring(f, p.Entries)
		if err != nil {
			f.Close()
			return nil, err
		}
		return uf, nil
	default:
		f.Close()
		return nil, errors.Errorf("unknown engine %q", p.Engine)
	}
}

func create(p Params) (*os.File, error) {
	dir := p.Dir
	if dir == "" {
		dir = os.TempDir()
	}
	prefix := p.Prefix
	if prefix == "" {
		prefix = "bench"
	}
	name := filepath.Join(dir, fmt.Sprintf("microbench_%s_%s.bin", prefix, uuid.NewString()[:8]))

	flags := os.O_RDWR | os.O_CREATE | os.O_EXCL
	if p.Append {
		flags |= os.O_APPEND
	}
	f, err := os.OpenFile(name, flags, 0644)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create backing file")
	}
	return f, nil
}
