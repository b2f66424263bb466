package engine

import (
	"github.com/pkg/errors"

	"github.com/runningwild/microbench/pkg/gen"
	"github.com/runningwild/microbench/pkg/stats"
)

// Driver runs one access pattern against a file it owns.
type Driver struct {
	f         File
	pattern   Pattern
	blockSize int
	src       *gen.Source

	written int64 // Bytes written by the last trial
	read    int64 // Bytes read by the last trial
}

func NewDriver(f File, pattern Pattern, blockSize int, src *gen.Source) (*Driver, error) {
	if blockSize <= 0 {
		return nil, errors.Errorf("invalid block size: %d", blockSize)
	}
	switch pattern {
	case Sequential, Append, Random:
	default:
		return nil, errors.Errorf("unknown pattern %q", pattern)
	}
	return &Driver{f: f, pattern: pattern, blockSize: blockSize, src: src}, nil
}

func (d *Driver) Pattern() Pattern { return d.pattern }

func (d *Driver) File() File { return d.f }

// Bytes returns the bytes written and read by the last trial.
func (d *Driver) Bytes() (written, read int64) { return d.written, d.read }

func (d *Driver) Close() error { return d.f.Close() }

// Trial runs one write phase and one read phase over n blocks and records
// both durations in t under the pattern's write and read operation names.
func (d *Driver) Trial(t *stats.Table, n int) error {
	d.written, d.read = 0, 0
	content := d.src.Bytes(n * d.blockSize)
	buf := make([]byte, d.blockSize)

	var offsets []int64
	if d.pattern == Random {
		offsets = d.src.Offsets(n, d.blockSize)
	}

	err := stats.Measure(t, d.pattern.WriteOp(), n, func() error {
		if offsets != nil {
			return d.writeAt(content, offsets)
		}
		return d.writeSequential(content, n)
	})
	if err != nil {
		return errors.Wrapf(err, "%s n=%d", d.pattern.WriteOp(), n)
	}

	if err := SeekTo(d.f, 0); err != nil {
		return err
	}

	err = stats.Measure(t, d.pattern.ReadOp(), n, func() error {
		if offsets != nil {
			return d.readAt(buf, offsets)
		}
		return d.readSequential(buf, n)
	})
	return errors.Wrapf(err, "%s n=%d", d.pattern.ReadOp(), n)
}

func (d *Driver) block(content []byte, i int) []byte {
	return content[i*d.blockSize : (i+1)*d.blockSize]
}

func (d *Driver) writeSequential(content []byte, n int) error {
	for i := 0; i < n; i++ {
		w, err := WriteFull(d.f, d.block(content, i))
		d.written += int64(w)
		if err != nil {
			return err
		}
	}
	return nil
}

func (d *Driver) readSequential(buf []byte, n int) error {
	for i := 0; i < n; i++ {
		r, err := ReadFull(d.f, buf)
		d.read += int64(r)
		if err != nil {
			return err
		}
	}
	return nil
}

// writeAt writes block i at offsets[i]. The read phase replays the same
// offsets so both phases see one random order.
func (d *Driver) writeAt(content []byte, offsets []int64) error {
	for i, off := range offsets {
		if err := SeekTo(d.f, off); err != nil {
			return err
		}
		w, err := WriteFull(d.f, d.block(content, i))
		d.written += int64(w)
		if err != nil {
			return err
		}
	}
	return nil
}

func (d *Driver) readAt(buf []byte, offsets []int64) error {
	for _, off := range offsets {
		if err := SeekTo(d.f, off); err != nil {
			return err
		}
		r, err := ReadFull(d.f, buf)
		d.read += int64(r)
		if err != nil {
			return err
		}
	}
	return nil
}
