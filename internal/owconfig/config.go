// Package owconfig holds the explicit configuration structure the pump
// scheduler and its collaborators consume. No package in this repository
// reads ambient global state (flag.CommandLine, environment variables,
// etc.) once a Config has been built, except internal/coprocess, which
// looks the child command up on PATH and hands the process environment to
// it; cmd/ow is the only place argv is read.
package owconfig

import (
	"os"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Config carries the options (spec §6) passed in as collaborator-provided
// input to the core: the input and output paths, whether output is
// opened in append mode, whether punch-hole is requested, and the rename
// target, if any. Whether input and output are the same file is not a
// field here: internal/modeselect computes it from the two endpoints.
type Config struct {
	InputPath  string
	OutputPath string
	RenameTo   string
	Append     bool
	PunchHole  bool
}

// OutputStat is the subset of the output endpoint's identity Validate
// needs: whether it is a regular file, and its (device, inode) pair.
type OutputStat struct {
	Regular bool
	Dev     uint64
	Ino     uint64
}

// Validate performs the pre-validation an external collaborator is
// responsible for before the core ever runs: reject append to a
// non-regular output, and pre-validate a requested rename target (same
// filesystem, not a directory, not the same inode as the output).
func Validate(cfg *Config, out OutputStat) error {
	if cfg.Append && !out.Regular {
		return errors.New("cannot append to non regular file")
	}
	if cfg.RenameTo == "" {
		return nil
	}
	if !out.Regular {
		return errors.New("cannot rename non regular output")
	}

	var renameSt unix.Stat_t
	err := unix.Lstat(cfg.RenameTo, &renameSt)
	if err != nil {
		if !os.IsNotExist(err) {
			return errors.Wrapf(err, "lstat %s", cfg.RenameTo)
		}
		return nil // target does not exist yet; rename(2) will create it
	}

	if renameSt.Mode&unix.S_IFMT == unix.S_IFDIR {
		return errors.Errorf("cannot rename to directory %s", cfg.RenameTo)
	}
	if out.Dev != uint64(renameSt.Dev) {
		return errors.Errorf("cannot rename across filesystems: %s", cfg.RenameTo)
	}
	if out.Ino == renameSt.Ino {
		return errors.New("cannot rename to same file")
	}
	return nil
}
