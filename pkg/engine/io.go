package engine

import (
	"io"

	"github.com/pkg/errors"
)

var (
	// ErrZeroWrite means a write call accepted no bytes. It is not retried.
	ErrZeroWrite = errors.New("write accepted zero bytes")
	// ErrSeek means an absolute seek failed or landed on a negative offset.
	ErrSeek = errors.New("seek failed")
)

// WriteFull writes all of buf at the current position, looping on partial
// writes. It stops at the first zero-byte write and reports ErrZeroWrite.
func WriteFull(f io.Writer, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := f.Write(buf[total:])
		total += n
		if err != nil {
			return total, errors.Wrapf(err, "write failed after %d of %d bytes", total, len(buf))
		}
		if n == 0 {
			return total, errors.Wrapf(ErrZeroWrite, "after %d of %d bytes", total, len(buf))
		}
	}
	return total, nil
}

// ReadFull reads len(buf) bytes from the current position, looping on short
// reads. A zero-byte read is end of file: the count so far is returned with
// a nil error.
func ReadFull(f io.Reader, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := f.Read(buf[total:])
		total += n
		if err == io.EOF || (err == nil && n == 0) {
			return total, nil
		}
		if err != nil {
			return total, errors.Wrapf(err, "read failed after %d of %d bytes", total, len(buf))
		}
	}
	return total, nil
}

// SeekTo moves to the absolute offset off.
func SeekTo(f io.Seeker, off int64) error {
	pos, err := f.Seek(off, io.SeekStart)
	if err != nil {
		return errors.Wrapf(ErrSeek, "seek to %d: %v", off, err)
	}
	if pos < 0 {
		return errors.Wrapf(ErrSeek, "seek to %d returned %d", off, pos)
	}
	return nil
}
