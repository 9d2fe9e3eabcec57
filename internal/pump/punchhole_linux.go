//go:build linux

package pump

import "golang.org/x/sys/unix"

// punchHoleAt deallocates the extent [offset, offset+n) of the input
// file while preserving its logical length, ported from ow.c's
// fallocate(fd, FALLOC_FL_PUNCH_HOLE | FALLOC_FL_KEEP_SIZE, ipos, sz)
// call. Failure here is fatal, per spec §4.5.
func (p *Pump) punchHoleAt(offset int64, n int) error {
	return unix.Fallocate(int(p.inFile.Fd()), unix.FALLOC_FL_PUNCH_HOLE|unix.FALLOC_FL_KEEP_SIZE, offset, int64(n))
}
