// Package modeselect implements the mode selector of spec §4.4: given
// the parsed configuration, it picks pass-through, exec replacement, or
// the full duplex pump, and drives whichever is chosen to completion.
package modeselect

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/mako10k/ow/internal/coprocess"
	"github.com/mako10k/ow/internal/endpoint"
	"github.com/mako10k/ow/internal/finalize"
	"github.com/mako10k/ow/internal/owconfig"
	"github.com/mako10k/ow/internal/pump"
	"github.com/mako10k/ow/internal/transfer"
)

// Result is what cmd/ow needs to decide its own os.Exit code.
type Result struct {
	BytesWritten int64
	ExitCode     int
}

// Run selects and executes one of the three paths of spec §4.4.
//
// argv is the child command vector; an empty argv selects pass-through.
// ExecReplace never returns on success (it replaces the process image),
// so this function only returns once a result is known: either a
// completed pass-through or full-pump run, or a failed exec replacement.
func Run(cfg owconfig.Config, argv []string, in, out *endpoint.Endpoint, log zerolog.Logger) (Result, error) {
	overwrite := endpoint.SameFile(in, out)

	switch {
	case len(argv) == 0:
		return runPassThrough(cfg, in, out, overwrite)
	case !overwrite && !cfg.PunchHole && cfg.RenameTo == "":
		// Exec replacement: spec §4.4b. Does not return on success.
		err := coprocess.ExecReplace(argv, in.File, out.File)
		return Result{}, errors.Wrap(err, "exec replacement")
	default:
		return runFullPump(cfg, argv, in, out, overwrite, log)
	}
}

// runPassThrough implements spec §4.4a: no child command, run the bulk
// transfer selector directly. A non-append regular output is truncated to
// zero before copying, except when overwrite is set: truncating a file
// before reading from it would destroy the very bytes the transfer is
// about to read.
func runPassThrough(cfg owconfig.Config, in, out *endpoint.Endpoint, overwrite bool) (Result, error) {
	if !overwrite && !cfg.Append && out.Kind == endpoint.KindRegular {
		if err := out.File.Truncate(0); err != nil {
			return Result{}, errors.Wrapf(err, "truncate %s", cfg.OutputPath)
		}
	}

	const unbounded = int64(1)<<63 - 1
	n, err := transfer.Run(out, in, cfg.Append, unbounded)
	if err != nil {
		return Result{BytesWritten: n}, errors.Wrap(err, "bulk transfer")
	}
	return Result{BytesWritten: n, ExitCode: 0}, nil
}

// runFullPump implements spec §4.4c: launch the coprocess on two fresh
// pipes and drive internal/pump.Run, then finalize per spec §4.5 and §7.
func runFullPump(cfg owconfig.Config, argv []string, in, out *endpoint.Endpoint, overwrite bool, log zerolog.Logger) (Result, error) {
	pipeSizeHint := in.BlockSize
	if out.BlockSize > pipeSizeHint {
		pipeSizeHint = out.BlockSize
	}
	child, err := coprocess.StartPiped(argv, nil, int(pipeSizeHint))
	if err != nil {
		return Result{}, errors.Wrap(err, "launch coprocess")
	}

	pipeBufSize, _ := child.In.BufferSize() // best-effort; 0 on platforms without it

	var originalInputSize int64
	if overwrite && cfg.Append {
		// Re-stat immediately before the pump starts reading: in.Size was
		// captured at process entry and may be stale by the time the
		// coprocess has actually launched.
		if err := in.Refresh(); err != nil {
			return Result{}, errors.Wrap(err, "refresh input size")
		}
		originalInputSize = in.Size
	}

	p := pump.New(pump.Config{
		InFile:            in.File,
		OutFile:           out.File,
		InPath:            cfg.InputPath,
		OutPath:           cfg.OutputPath,
		InBlockSize:       in.BlockSize,
		OutBlockSize:      out.BlockSize,
		ChildIn:           child.In.W,
		ChildOut:          child.Out.R,
		PipeBufferSize:    pipeBufSize,
		Overwrite:         overwrite,
		Append:            cfg.Append,
		OriginalInputSize: originalInputSize,
		InitialOutputSize: out.Size,
		PunchHole:         cfg.PunchHole,
		Log:               log,
	})

	pumpResult, pumpErr := p.Run()

	// spec §5 scoped acquisition: close our ends regardless of pumpErr.
	closeErr := in.File.Close()
	_ = child.Out.R.Close()
	if pumpErr != nil {
		return Result{BytesWritten: pumpResult.BytesWritten}, errors.Wrap(pumpErr, "pump")
	}
	if closeErr != nil {
		return Result{BytesWritten: pumpResult.BytesWritten}, errors.Wrapf(closeErr, "close %s", cfg.InputPath)
	}

	exitCode, err := coprocess.Wait(child.Cmd)
	if err != nil {
		return Result{BytesWritten: pumpResult.BytesWritten}, errors.Wrap(err, "reap coprocess")
	}

	decision := finalize.Decide(exitCode, pumpResult.BytesWritten)
	if decision.Commit {
		if err := finalize.Commit(out.File, overwrite, pumpResult.BytesWritten, cfg.OutputPath, cfg.RenameTo); err != nil {
			return Result{BytesWritten: pumpResult.BytesWritten}, errors.Wrap(err, "finalize")
		}
	}

	return Result{BytesWritten: pumpResult.BytesWritten, ExitCode: decision.ExitCode}, nil
}
