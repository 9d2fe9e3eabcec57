package zerocopy

import (
	"io"
	"os"

	"github.com/pkg/errors"
)

// copyBufSize is the scratch buffer size for the byte-copy primitive. It
// matches the historical PIPE_BUF used by the original implementation.
const copyBufSize = 4096

// CopyN is the byte-copy primitive (spec §4.1): a portable read/write
// loop. It transfers at most cap bytes from src to dst, stopping early at
// end-of-input. Short writes are loop continuations, not errors.
func CopyN(dst, src *os.File, cap int64) (int64, error) {
	if cap <= 0 {
		return 0, nil
	}
	buf := make([]byte, copyBufSize)
	var transferred int64
	for transferred < cap {
		toRead := int64(len(buf))
		if remaining := cap - transferred; remaining < toRead {
			toRead = remaining
		}
		n, err := src.Read(buf[:toRead])
		if n > 0 {
			if _, werr := writeAll(dst, buf[:n]); werr != nil {
				return transferred, errors.Wrap(werr, "write")
			}
			transferred += int64(n)
		}
		if err != nil {
			if err == io.EOF {
				return transferred, nil
			}
			return transferred, errors.Wrap(err, "read")
		}
		if n == 0 {
			return transferred, nil
		}
	}
	return transferred, nil
}

// writeAll writes the whole of b to dst, looping over short writes the
// way the original pump loop does ("short writes are not errors but loop
// continuations").
func writeAll(dst *os.File, b []byte) (int, error) {
	total := 0
	for total < len(b) {
		n, err := dst.Write(b[total:])
		total += n
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, io.ErrShortWrite
		}
	}
	return total, nil
}
