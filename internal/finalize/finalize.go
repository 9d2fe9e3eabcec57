// Package finalize implements the commit/truncate/rename/exit-status
// logic of spec §4.5: what happens after the pump has finished and the
// coprocess has been reaped. The pass-through bulk transfer does not use
// it.
package finalize

import (
	"os"

	"github.com/pkg/errors"
)

// Decision is the outcome of Decide: whether to commit the output
// (truncate + rename) and the exit code the process should adopt.
type Decision struct {
	Commit   bool
	ExitCode int
}

// Decide implements spec §7's coprocess-failure / coprocess-partial
// split, ported from ow.c's `if (opos > 0 || ret_status == EXIT_SUCCESS)`
// guard: commit actions fire when the coprocess exited cleanly, or when
// it exited non-zero but still produced output. A non-zero exit with no
// output at all leaves the original file untouched.
func Decide(exitCode int, opos int64) Decision {
	return Decision{
		Commit:   exitCode == 0 || opos > 0,
		ExitCode: exitCode,
	}
}

// Commit performs the commit actions of spec §4.5: when overwriting,
// truncate the output to opos bytes (dropping any tail left over from a
// shorter transformed stream), close the output, and rename it to
// target if a rename was requested.
func Commit(outFile *os.File, overwrite bool, opos int64, outPath, renameTo string) error {
	if overwrite {
		if err := outFile.Truncate(opos); err != nil {
			return errors.Wrapf(err, "truncate %s", outPath)
		}
	}
	if err := outFile.Close(); err != nil {
		return errors.Wrapf(err, "close %s", outPath)
	}
	if renameTo != "" {
		if outPath == "" {
			return errors.New("cannot rename: output has no path (stdout)")
		}
		if err := os.Rename(outPath, renameTo); err != nil {
			return errors.Wrapf(err, "rename %s to %s", outPath, renameTo)
		}
	}
	return nil
}
