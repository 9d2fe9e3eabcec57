package pump

import (
	"github.com/pkg/errors"
)

// Run drives the transfer to completion (spec §4.3's per-iteration
// procedure) or returns a fatal error: an I/O failure on one of the four
// primitive operations, or a *BufferExhaustedError on deadlock.
func (p *Pump) Run() (Result, error) {
	for {
		done, err := p.step()
		if err != nil {
			p.log.Error().Err(err).
				Int64("ipos", p.ipos).Int64("opos", p.opos).
				Msg("pump aborting")
			return p.result(), err
		}
		if done {
			return p.result(), nil
		}
	}
}

func (p *Pump) result() Result {
	return Result{BytesWritten: p.opos, BytesRead: p.ipos}
}

// step performs one iteration of the per-iteration procedure: close
// gate, termination check, interest set, deadlock detection,
// multiplex-wait, and exactly one action. It returns done=true when the
// termination predicate (spec §4.3 step 2) fires.
func (p *Pump) step() (done bool, err error) {
	// 1. Close gate.
	if p.ieof && p.inBuf.used == 0 && !p.iclosed {
		if err := p.childIn.Close(); err != nil {
			return false, errors.Wrap(err, "close child stdin")
		}
		p.iclosed = true
	}

	// 2. Termination.
	if p.oeof && p.outBuf.used == 0 {
		return true, nil
	}

	// 3. Interest set.
	want := p.interest()

	// 4. Deadlock detection.
	if want.empty() {
		return false, p.deadlockError()
	}

	// 5. Multiplex-wait.
	ready, err := p.wait(want)
	if err != nil {
		return false, err
	}

	// 6. Action selection: CW write, then CR read, then IF read, then OF write.
	switch {
	case ready.cwWrite:
		return false, p.writeChildIn()
	case ready.crRead:
		return false, p.readChildOut()
	case ready.ifRead:
		return false, p.readInput()
	case ready.ofWrite:
		return false, p.writeOutput()
	default:
		// Spurious wakeup (e.g. only POLLNVAL or POLLPRI set; HUP/ERR
		// already count as ready above); loop and re-evaluate.
		return false, nil
	}
}

// interest implements spec §4.3 step 3's four arming predicates.
func (p *Pump) interest() interestSet {
	var s interestSet
	s.ifRead = !p.ieof && p.inBuf.free() > 0
	s.cwWrite = p.inBuf.used > 0 && !p.iclosed
	s.crRead = !p.oeof && p.outBuf.free() > 0
	s.ofWrite = p.outBuf.used > 0 && (!p.overwrite || p.appendMode || p.ieof || p.ipos > p.opos)
	return s
}
