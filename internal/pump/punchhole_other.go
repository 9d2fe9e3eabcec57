//go:build !linux

package pump

import "errors"

func (p *Pump) punchHoleAt(offset int64, n int) error {
	return errors.New("punch-hole mode is not supported on this platform")
}
