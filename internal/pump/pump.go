// Package pump implements the duplex transform scheduler of spec §4.3:
// a single-threaded event loop multiplexing four endpoints (input file,
// output file, pipe-to-child, pipe-from-child) through two bounded
// buffers, enforcing the read-ahead safety invariant that licenses
// output writes only when they cannot overtake unread input.
package pump

import (
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Config is the collaborator-provided input to the scheduler (spec §6).
type Config struct {
	InFile, OutFile   *os.File
	InPath, OutPath   string
	InBlockSize       int64
	OutBlockSize      int64
	ChildIn           *os.File // write end of the pipe feeding the child's stdin
	ChildOut          *os.File // read end of the pipe draining the child's stdout
	PipeBufferSize    int      // best-effort, for diagnostics only; 0 if unknown
	Overwrite         bool     // both endpoints are the same regular file
	Append            bool
	OriginalInputSize int64 // valid only when Overwrite && Append
	InitialOutputSize int64 // output file's size at entry; used to seed opos when Append
	PunchHole         bool
	Log               zerolog.Logger
}

// Result reports the outcome of a completed pump run.
type Result struct {
	BytesWritten int64 // final opos
	BytesRead    int64 // final ipos
}

// Pump holds all scheduler state: the two buffers, the four position/flag
// variables, and the configuration captured at construction. One Pump
// instance drives exactly one transform from entry to exit; it is not
// reused.
type Pump struct {
	inFile, outFile, childIn, childOut *os.File
	inPath, outPath                    string
	pipeBufSize                        int

	inBuf, outBuf *buffer

	ipos, opos int64
	ieof, oeof bool
	iclosed    bool

	overwrite, appendMode bool
	originalInputSize     int64
	punchHole             bool

	log zerolog.Logger
}

// New builds a Pump ready to Run. Buffers and counters are created here
// and destroyed implicitly when Run returns (spec §3 lifecycle).
func New(cfg Config) *Pump {
	p := &Pump{
		inFile:            cfg.InFile,
		outFile:           cfg.OutFile,
		childIn:           cfg.ChildIn,
		childOut:          cfg.ChildOut,
		inPath:            cfg.InPath,
		outPath:           cfg.OutPath,
		pipeBufSize:       cfg.PipeBufferSize,
		inBuf:             newBuffer(cfg.InBlockSize),
		outBuf:            newBuffer(cfg.OutBlockSize),
		overwrite:         cfg.Overwrite,
		appendMode:        cfg.Append,
		originalInputSize: cfg.OriginalInputSize,
		punchHole:         cfg.PunchHole,
		log:               cfg.Log,
	}
	if p.appendMode {
		p.opos = cfg.InitialOutputSize
	}
	return p
}
