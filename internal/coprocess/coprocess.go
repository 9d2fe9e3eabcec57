// Package coprocess launches the external program the pump scheduler
// transforms data through. This is the fork/exec-equivalent machinery
// the core is deliberately kept out of: internal/pump only ever consumes
// a pair of pipe endpoints already wired to a running coprocess, so that
// boundary holds in the code, not just in prose.
package coprocess

import (
	"os"
	"os/exec"

	"github.com/pkg/errors"

	"github.com/mako10k/ow/internal/zerocopy"
)

// Piped is a coprocess connected to the parent via two anonymous pipes:
// the parent writes transform input to In.W and reads transformed output
// from Out.R. The child's stdin/stdout are the opposite ends.
type Piped struct {
	Cmd *exec.Cmd
	In  *zerocopy.Pipe // In.W is the pump's childIn; In.R is the child's stdin
	Out *zerocopy.Pipe // Out.R is the pump's childOut; Out.W is the child's stdout
}

// StartPiped launches argv[0] with argv[1:] as arguments, wired to two
// fresh pipes, and returns once the child has started. This is the
// "full pump" launch path of the mode selector (spec §4.4c). pipeBufSize,
// if positive, is applied to both pipes as a sizing hint so the child's
// stdin/stdout buffers match the endpoints' own block size; the hint is
// best-effort and silently ignored on platforms or kernels that reject it.
func StartPiped(argv []string, extraFiles []*os.File, pipeBufSize int) (*Piped, error) {
	in, err := zerocopy.NewPipe()
	if err != nil {
		return nil, errors.Wrap(err, "stdin pipe")
	}
	out, err := zerocopy.NewPipe()
	if err != nil {
		in.Close()
		return nil, errors.Wrap(err, "stdout pipe")
	}
	if pipeBufSize > 0 {
		_ = in.SetBufferSize(pipeBufSize)
		_ = out.SetBufferSize(pipeBufSize)
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdin = in.R
	cmd.Stdout = out.W
	cmd.Stderr = os.Stderr
	cmd.ExtraFiles = extraFiles

	if err := cmd.Start(); err != nil {
		in.Close()
		out.Close()
		return nil, errors.Wrapf(err, "exec %s", argv[0])
	}

	// The child now holds its own copies of the far ends; close ours so
	// that EOF propagates correctly once the child exits.
	if err := in.CloseRead(); err != nil {
		return nil, errors.Wrap(err, "close child stdin read end")
	}
	if err := out.CloseWrite(); err != nil {
		return nil, errors.Wrap(err, "close child stdout write end")
	}

	return &Piped{Cmd: cmd, In: in, Out: out}, nil
}

// Wait reaps the coprocess and returns its exit code. A non-zero exit
// code that comes from the process actually running (as opposed to a
// launch failure) is not itself treated as a Go error: the caller
// (internal/finalize) decides what to do with it.
func Wait(cmd *exec.Cmd) (exitCode int, err error) {
	err = cmd.Wait()
	if err == nil {
		return 0, nil
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		return exitErr.ExitCode(), nil
	}
	return -1, errors.Wrap(err, "wait")
}

// ExecReplace execs argv[0] with argv[1:] as arguments in the current
// process, with stdin and stdout redirected to in and out. It never
// returns on success: this is the "exec replacement" path of spec §4.4b,
// ported from ow.c's dup2(fds[0], STDIN_FILENO); dup2(fds[1],
// STDOUT_FILENO); execvp(...) sequence.
func ExecReplace(argv []string, in, out *os.File) error {
	if err := dup2(int(in.Fd()), int(os.Stdin.Fd())); err != nil {
		return errors.Wrap(err, "dup2 stdin")
	}
	if err := dup2(int(out.Fd()), int(os.Stdout.Fd())); err != nil {
		return errors.Wrap(err, "dup2 stdout")
	}
	path, err := exec.LookPath(argv[0])
	if err != nil {
		return errors.Wrapf(err, "lookpath %s", argv[0])
	}
	return execve(path, argv)
}
