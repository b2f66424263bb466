package engine

import (
	"io"
)

// File is the handle a Driver executes its access pattern against. Reads and
// writes happen at the current position, as with read(2) and write(2).
type File interface {
	io.ReadWriteSeeker
	io.Closer
	Name() string
}

// Params describes the backing file for one driver.
type Params struct {
	Engine  string // "sync" or "uring"
	Dir     string // Directory for the backing file; empty means os.TempDir()
	Prefix  string // File name prefix, usually the pattern name
	Append  bool   // Open with O_APPEND
	Entries uint32 // io_uring submission queue size; 0 means 4
}

// Pattern is a disk access pattern.
type Pattern string

const (
	Sequential Pattern = "sequential"
	Append     Pattern = "append"
	Random     Pattern = "random"
)

// Patterns lists every pattern in sweep order.
var Patterns = []Pattern{Sequential, Append, Random}

func (p Pattern) WriteOp() string { return string(p) + ".write" }
func (p Pattern) ReadOp() string  { return string(p) + ".read" }

// NeedsAppend reports whether the pattern's handle is opened in append mode.
func (p Pattern) NeedsAppend() bool { return p == Append }
