package pump

import "fmt"

// BufferExhaustedError reports the deadlock condition of spec §4.3 step 4:
// the interest set is empty while the termination predicate is false.
// Both endpoints' identities and byte offsets are included, the same
// diagnostic detail the original C implementation prints before exiting.
type BufferExhaustedError struct {
	InPath, OutPath       string
	Ipos, Opos            int64
	InBufUsed, OutBufUsed int
	InBufCap, OutBufCap   int
	PipeBufferSize        int
}

func (e *BufferExhaustedError) Error() string {
	return fmt.Sprintf(
		"buffer exhausted: %s(%d) -> coprocess (buffer=%d/%d) | %s(%d) <- coprocess (buffer=%d/%d, pipe buffer=%d)",
		e.InPath, e.Ipos, e.InBufUsed, e.InBufCap,
		e.OutPath, e.Opos, e.OutBufUsed, e.OutBufCap,
		e.PipeBufferSize,
	)
}

func (p *Pump) deadlockError() error {
	return &BufferExhaustedError{
		InPath:         p.inPath,
		OutPath:        p.outPath,
		Ipos:           p.ipos,
		Opos:           p.opos,
		InBufUsed:      p.inBuf.used,
		OutBufUsed:     p.outBuf.used,
		InBufCap:       p.inBuf.capacity(),
		OutBufCap:      p.outBuf.capacity(),
		PipeBufferSize: p.pipeBufSize,
	}
}
