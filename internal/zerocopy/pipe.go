// Package zerocopy provides the bulk transfer primitives of the
// in-place transform scheduler: size-capped, unidirectional file-to-file
// copies that prefer the cheapest kernel-assisted transfer available
// (splice(2), sendfile(2)) over a userspace read/write loop.
//
// It also exposes Pipe, a thin wrapper around an anonymous pipe that
// reports its kernel buffer size. The pump scheduler uses a Pipe's
// buffer size only for diagnostics: when the scheduler detects a
// deadlock (§4.3 of the design), the error names the pipe's kernel
// buffer size (F_GETPIPE_SZ on Linux) alongside the stalled endpoint's
// offsets, where the original C implementation reports PIPE_BUF.
package zerocopy

import (
	"os"
	"syscall"

	"github.com/pkg/errors"
)

// A Pipe is a buffered, unidirectional data channel backed by os.Pipe.
type Pipe struct {
	R, W *os.File
	rrc  syscall.RawConn
	wrc  syscall.RawConn
}

// NewPipe creates a new pipe.
func NewPipe() (*Pipe, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, errors.Wrap(err, "pipe")
	}
	rrc, err := r.SyscallConn()
	if err != nil {
		return nil, err
	}
	wrc, err := w.SyscallConn()
	if err != nil {
		return nil, err
	}
	return &Pipe{R: r, W: w, rrc: rrc, wrc: wrc}, nil
}

// BufferSize returns the pipe's kernel buffer size in bytes.
func (p *Pipe) BufferSize() (int, error) {
	return p.bufferSize()
}

// SetBufferSize sets the pipe's buffer size to n.
func (p *Pipe) SetBufferSize(n int) error {
	return p.setBufferSize(n)
}

// CloseRead closes the read side of the pipe.
func (p *Pipe) CloseRead() error {
	return p.R.Close()
}

// CloseWrite closes the write side of the pipe.
func (p *Pipe) CloseWrite() error {
	return p.W.Close()
}

// Close closes both sides of the pipe.
func (p *Pipe) Close() error {
	err := p.R.Close()
	err1 := p.W.Close()
	if err != nil {
		return err
	}
	return err1
}
