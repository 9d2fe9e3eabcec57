package main

import (
	"os"

	"github.com/pkg/errors"

	"github.com/mako10k/ow/internal/endpoint"
	"github.com/mako10k/ow/internal/modeselect"
	"github.com/mako10k/ow/internal/owconfig"
	"github.com/mako10k/ow/internal/owlog"
)

var errInoutConflict = errors.New("cannot combine --inout with --input or --output")

// run wires the CLI flags to the internal packages: open the endpoints,
// validate the configuration, select and drive a mode, and translate the
// result into a process exit code. Apart from main, it is the only
// function in this repository that calls os.Exit.
func run(f *cliFlags, argv []string) error {
	cfg, err := buildConfig(f)
	if err != nil {
		return err
	}

	log := owlog.New(f.verbose)

	inFile, err := openInput(cfg)
	if err != nil {
		return err
	}
	outFile, err := openOutput(cfg)
	if err != nil {
		inFile.Close()
		return err
	}

	in, err := endpoint.New(inFile)
	if err != nil {
		return errors.Wrap(err, "classify input")
	}
	out, err := endpoint.New(outFile)
	if err != nil {
		return errors.Wrap(err, "classify output")
	}

	if err := owconfig.Validate(&cfg, owconfig.OutputStat{
		Regular: out.Kind == endpoint.KindRegular,
		Dev:     out.Dev,
		Ino:     out.Ino,
	}); err != nil {
		return err
	}

	result, err := modeselect.Run(cfg, argv, in, out, log)
	if err != nil {
		log.Error().Err(err).
			Str("input", cfg.InputPath).
			Str("output", cfg.OutputPath).
			Int64("bytesWritten", result.BytesWritten).
			Msg("ow failed")
		os.Exit(1)
	}
	os.Exit(result.ExitCode)
	return nil
}

func openInput(cfg owconfig.Config) (*os.File, error) {
	if cfg.InputPath == "" {
		return os.Stdin, nil
	}
	flags := os.O_RDONLY
	if cfg.PunchHole {
		flags = os.O_RDWR
	}
	f, err := os.OpenFile(cfg.InputPath, flags, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", cfg.InputPath)
	}
	return f, nil
}

func openOutput(cfg owconfig.Config) (*os.File, error) {
	if cfg.OutputPath == "" {
		return os.Stdout, nil
	}
	flags := os.O_WRONLY | os.O_CREATE
	if cfg.Append {
		flags |= os.O_APPEND
	}
	f, err := os.OpenFile(cfg.OutputPath, flags, 0o666)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", cfg.OutputPath)
	}
	return f, nil
}
