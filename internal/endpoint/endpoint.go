// Package endpoint classifies an open file descriptor the way the pump
// scheduler needs: its stream kind, its preferred I/O block size, and, for
// regular files, its current logical size and (device, inode) identity.
package endpoint

import (
	"os"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Kind tags the underlying stream type of an Endpoint.
type Kind int

const (
	// KindRegular is a regular file.
	KindRegular Kind = iota
	// KindPipe is a pipe or FIFO.
	KindPipe
	// KindChar is a character device (including a terminal).
	KindChar
	// KindOther is anything else (socket, block device, directory, ...).
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindRegular:
		return "regular"
	case KindPipe:
		return "pipe"
	case KindChar:
		return "char"
	default:
		return "other"
	}
}

// fallbackBlockSize is used when the filesystem reports an implausible
// block size (zero or negative, or above 16 MiB). It is 64 KiB, not the
// 4096-byte PIPE_BUF.
const fallbackBlockSize = 64 * 1024

// Endpoint is a handle onto an open byte stream: a file plus the metadata
// the pump scheduler and the bulk transfer selector need to make scheduling
// decisions without calling fstat again on every iteration.
type Endpoint struct {
	File      *os.File
	Kind      Kind
	BlockSize int64
	Size      int64 // logical size; only meaningful when Kind == KindRegular
	Dev       uint64
	Ino       uint64
}

// New classifies f via fstat and returns its Endpoint.
func New(f *os.File) (*Endpoint, error) {
	var st unix.Stat_t
	if err := unix.Fstat(int(f.Fd()), &st); err != nil {
		return nil, errors.Wrapf(err, "fstat %s", f.Name())
	}

	e := &Endpoint{
		File: f,
		Dev:  uint64(st.Dev),
		Ino:  st.Ino,
	}

	switch st.Mode & unix.S_IFMT {
	case unix.S_IFREG:
		e.Kind = KindRegular
		e.Size = st.Size
	case unix.S_IFIFO:
		e.Kind = KindPipe
	case unix.S_IFCHR:
		e.Kind = KindChar
	default:
		e.Kind = KindOther
	}

	e.BlockSize = int64(st.Blksize)
	if e.BlockSize <= 0 || e.BlockSize > 16*1024*1024 {
		e.BlockSize = fallbackBlockSize
	}

	return e, nil
}

// SameFile reports whether a and b designate the same regular file by
// (device, inode) identity. This is the overwrite decision of the data
// model: true only when both endpoints are regular files.
func SameFile(a, b *Endpoint) bool {
	if a.Kind != KindRegular || b.Kind != KindRegular {
		return false
	}
	return a.Dev == b.Dev && a.Ino == b.Ino
}

// Refresh re-stats the endpoint's current logical size. Callers that need
// the freshest size immediately before acting on it call this explicitly
// rather than relying on the value New captured earlier.
func (e *Endpoint) Refresh() error {
	var st unix.Stat_t
	if err := unix.Fstat(int(e.File.Fd()), &st); err != nil {
		return errors.Wrapf(err, "fstat %s", e.File.Name())
	}
	e.Size = st.Size
	return nil
}
