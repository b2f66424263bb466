//go:build linux

package engine

import (
	"errors"
	"fmt"
	"os"
	"syscall"

	"github.com/godzie44/go-uring/uring"
	"golang.org/x/sys/unix"
)

// atCursor asks the kernel to use, and advance, the file position, so a
// uringFile keeps read(2)/write(2) semantics including O_APPEND.
const atCursor = ^uint64(0)

// uringFile submits each read and write as a single SQE and waits for its
// completion before returning.
type uringFile struct {
	f    *os.File
	fd   uintptr
	ring *uring.Ring
}

func openUring(f *os.File, entries uint32) (*uringFile, error) {
	if entries == 0 {
		entries = 4
	}
	ring, err := uring.New(entries)
	if err != nil {
		return nil, fmt.Errorf("failed to setup io_uring: %v", err)
	}
	return &uringFile{f: f, fd: f.Fd(), ring: ring}, nil
}

func (u *uringFile) Name() string { return u.f.Name() }

func (u *uringFile) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	return u.do(uring.Write(u.fd, p, atCursor))
}

func (u *uringFile) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	return u.do(uring.Read(u.fd, p, atCursor))
}

func (u *uringFile) Seek(offset int64, whence int) (int64, error) {
	return unix.Seek(int(u.fd), offset, whence)
}

func (u *uringFile) Close() error {
	rerr := u.ring.Close()
	ferr := u.f.Close()
	if rerr != nil {
		return rerr
	}
	return ferr
}

func (u *uringFile) do(op uring.Operation) (int, error) {
	if err := u.ring.QueueSQE(op, 0, 0); err != nil {
		return 0, err
	}
	for {
		_, err := u.ring.Submit()
		if err == nil {
			break
		}
		if !isEINTR(err) {
			return 0, err
		}
	}

	var cqe *uring.CQEvent
	var err error
	for {
		cqe, err = u.ring.WaitCQEvents(1)
		if err == nil || !isEINTR(err) {
			break
		}
	}
	if err != nil {
		return 0, err
	}
	res := cqe.Res
	u.ring.SeenCQE(cqe)
	if res < 0 {
		return 0, syscall.Errno(-res)
	}
	return int(res), nil
}

func isEINTR(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, syscall.EINTR) {
		return true
	}
	var sysErr *os.SyscallError
	if errors.As(err, &sysErr) {
		return sysErr.Err == syscall.EINTR
	}
	return false
}
