package pump

import (
	"io"

	"github.com/pkg/errors"
)

// readInput implements spec §4.3's "Read from IF": read up to
// capacity-used bytes into in_buf[used:], clamping the request in
// overwrite+append mode so the pump never re-reads bytes the coprocess
// itself has already appended past the captured original size.
func (p *Pump) readInput() error {
	toRead := p.inBuf.free()
	if p.overwrite && p.appendMode {
		remaining := p.originalInputSize - p.ipos
		if remaining < 0 {
			remaining = 0
		}
		if int64(toRead) > remaining {
			toRead = int(remaining)
		}
	}
	if toRead == 0 {
		p.ieof = true
		return nil
	}

	n, err := p.inFile.Read(p.inBuf.fillSlice()[:toRead])
	if err != nil && n == 0 {
		if isEOF(err) {
			p.ieof = true
			return nil
		}
		return errors.Wrapf(err, "read %s", p.inPath)
	}
	if n == 0 {
		p.ieof = true
		return nil
	}

	if p.punchHole {
		if err := p.punchHoleAt(p.ipos, n); err != nil {
			return errors.Wrapf(err, "fallocate %s", p.inPath)
		}
	}

	p.ipos += int64(n)
	p.inBuf.grow(n)
	return nil
}

// writeChildIn implements spec §4.3's "Write to CW": write in_buf.used
// bytes; partial writes shift the remainder to the buffer's origin.
func (p *Pump) writeChildIn() error {
	n, err := p.childIn.Write(p.inBuf.drainSlice(p.inBuf.used))
	if n > 0 {
		p.inBuf.consume(n)
	}
	if err != nil {
		return errors.Wrap(err, "write child stdin")
	}
	return nil
}

// readChildOut implements spec §4.3's "Read from CR".
func (p *Pump) readChildOut() error {
	n, err := p.childOut.Read(p.outBuf.fillSlice())
	if err != nil && n == 0 {
		if isEOF(err) {
			p.oeof = true
			return nil
		}
		return errors.Wrap(err, "read child stdout")
	}
	if n == 0 {
		p.oeof = true
		return nil
	}
	p.outBuf.grow(n)
	return nil
}

// writeOutput implements spec §4.3's "Write to OF": clamp wsize to the
// read frontier while overwriting and not yet at input EOF, never
// writing past bytes that have actually been read.
func (p *Pump) writeOutput() error {
	wsize := p.outBuf.used
	if p.overwrite && !p.appendMode && !p.ieof {
		if remaining := p.ipos - p.opos; int64(wsize) > remaining {
			wsize = int(remaining)
		}
	}
	if wsize == 0 {
		// Nothing safe to write yet; the caller's interest predicate
		// should have prevented this, but guard against a spurious call.
		return nil
	}

	n, err := p.outFile.Write(p.outBuf.drainSlice(wsize))
	if n > 0 {
		p.outBuf.consume(n)
		p.opos += int64(n)
	}
	if err != nil {
		return errors.Wrapf(err, "write %s", p.outPath)
	}
	return nil
}

func isEOF(err error) bool {
	return err == io.EOF
}
