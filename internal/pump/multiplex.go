package pump

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// interestSet is the "arm each descriptor for readiness" step of spec
// §4.3 step 3, one bit per endpoint/direction.
type interestSet struct {
	ifRead  bool
	cwWrite bool
	crRead  bool
	ofWrite bool
}

func (s interestSet) empty() bool {
	return !s.ifRead && !s.cwWrite && !s.crRead && !s.ofWrite
}

// wait is the multiplex-wait of spec §4.3 step 5: a single poll(2) call
// across whichever of the four descriptors are armed, with no timeout.
// poll(2) is used instead of select(2) because it does not require
// hand-maintained fd_set bitmaps, and golang.org/x/sys/unix carries it
// uniformly across the POSIX platforms this tool targets.
func (p *Pump) wait(want interestSet) (interestSet, error) {
	var fds []unix.PollFd
	var tags []func(revents int16)

	add := func(fd int, events int16, tag func(int16)) {
		fds = append(fds, unix.PollFd{Fd: int32(fd), Events: events})
		tags = append(tags, tag)
	}

	var ready interestSet

	if want.ifRead {
		add(int(p.inFile.Fd()), unix.POLLIN, func(rev int16) {
			ready.ifRead = rev&(unix.POLLIN|unix.POLLHUP|unix.POLLERR) != 0
		})
	}
	if want.cwWrite {
		add(int(p.childIn.Fd()), unix.POLLOUT, func(rev int16) {
			ready.cwWrite = rev&(unix.POLLOUT|unix.POLLHUP|unix.POLLERR) != 0
		})
	}
	if want.crRead {
		add(int(p.childOut.Fd()), unix.POLLIN, func(rev int16) {
			ready.crRead = rev&(unix.POLLIN|unix.POLLHUP|unix.POLLERR) != 0
		})
	}
	if want.ofWrite {
		add(int(p.outFile.Fd()), unix.POLLOUT, func(rev int16) {
			ready.ofWrite = rev&(unix.POLLOUT|unix.POLLHUP|unix.POLLERR) != 0
		})
	}

	for {
		n, err := unix.Poll(fds, -1)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return interestSet{}, errors.Wrap(err, "poll")
		}
		if n == 0 {
			continue
		}
		break
	}

	for i, pfd := range fds {
		if pfd.Revents != 0 {
			tags[i](pfd.Revents)
		}
	}
	return ready, nil
}
