//go:build !linux

package zerocopy

import "errors"

func (p *Pipe) bufferSize() (int, error) {
	return 0, errors.New("pipe buffer size query not supported on this platform")
}

func (p *Pipe) setBufferSize(n int) error {
	return errors.New("pipe buffer size not configurable on this platform")
}
