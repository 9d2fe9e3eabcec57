//go:build !linux

package zerocopy

import "os"

// SpliceN degrades to the byte-copy primitive on platforms without
// splice(2).
func SpliceN(dst, src *os.File, cap int64) (int64, error) {
	return CopyN(dst, src, cap)
}

// SendFileN degrades to the byte-copy primitive on platforms without
// sendfile(2).
func SendFileN(dst, src *os.File, cap int64) (int64, error) {
	return CopyN(dst, src, cap)
}
