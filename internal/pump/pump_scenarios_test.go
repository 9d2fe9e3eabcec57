package pump

import (
	"os"
	"os/exec"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// startCoprocess launches name(args...) wired to two pipes, mimicking
// internal/coprocess.StartPiped without importing it (that package in
// turn imports internal/zerocopy, and pulling it in here would make this
// a cross-package integration test rather than a unit test of the
// scheduler alone).
func startCoprocess(t *testing.T, name string, args ...string) (cmd *exec.Cmd, childIn, childOut *os.File) {
	t.Helper()
	inR, inW, err := os.Pipe()
	require.NoError(t, err)
	outR, outW, err := os.Pipe()
	require.NoError(t, err)

	cmd = exec.Command(name, args...)
	cmd.Stdin = inR
	cmd.Stdout = outW
	require.NoError(t, cmd.Start())

	require.NoError(t, inR.Close())
	require.NoError(t, outW.Close())
	t.Cleanup(func() { cmd.Wait() })

	return cmd, inW, outR
}

func startCat(t *testing.T, args ...string) (cmd *exec.Cmd, childIn, childOut *os.File) {
	t.Helper()
	return startCoprocess(t, "cat", args...)
}

func TestPumpDistinctFilesThroughCat(t *testing.T) {
	require := require.New(t)

	srcPath := t.TempDir() + "/src"
	require.NoError(os.WriteFile(srcPath, []byte("the quick brown fox"), 0o644))
	inFile, err := os.Open(srcPath)
	require.NoError(err)
	defer inFile.Close()

	dstPath := t.TempDir() + "/dst"
	outFile, err := os.Create(dstPath)
	require.NoError(err)
	defer outFile.Close()

	_, childIn, childOut := startCat(t)
	defer childOut.Close()

	p := New(Config{
		InFile:       inFile,
		OutFile:      outFile,
		InPath:       srcPath,
		OutPath:      dstPath,
		InBlockSize:  4096,
		OutBlockSize: 4096,
		ChildIn:      childIn,
		ChildOut:     childOut,
		Overwrite:    false,
		Log:          zerolog.Nop(),
	})

	result, err := p.Run()
	require.NoError(err)
	require.EqualValues(19, result.BytesWritten)
	require.EqualValues(19, result.BytesRead)

	got, err := os.ReadFile(dstPath)
	require.NoError(err)
	require.Equal("the quick brown fox", string(got))
}

func TestPumpOverwriteNeverOvertakesReadFrontier(t *testing.T) {
	require := require.New(t)

	path := t.TempDir() + "/inplace"
	content := "0123456789abcdefghijklmnopqrstuvwxyz"
	require.NoError(os.WriteFile(path, []byte(content), 0o644))

	inFile, err := os.Open(path)
	require.NoError(err)
	defer inFile.Close()
	outFile, err := os.OpenFile(path, os.O_RDWR, 0)
	require.NoError(err)
	defer outFile.Close()

	_, childIn, childOut := startCat(t)
	defer childOut.Close()

	p := New(Config{
		InFile:       inFile,
		OutFile:      outFile,
		InPath:       path,
		OutPath:      path,
		InBlockSize:  4, // force many small iterations so the gate is exercised repeatedly
		OutBlockSize: 4,
		ChildIn:      childIn,
		ChildOut:     childOut,
		Overwrite:    true,
		Log:          zerolog.Nop(),
	})

	result, err := p.Run()
	require.NoError(err)
	require.EqualValues(len(content), result.BytesWritten)

	got, err := os.ReadFile(path)
	require.NoError(err)
	require.Equal(content, string(got))
}

func TestPumpAppendSeedsOutputPositionAtEntrySize(t *testing.T) {
	require := require.New(t)

	path := t.TempDir() + "/appendtarget"
	require.NoError(os.WriteFile(path, []byte("existing-"), 0o644))

	inFile, err := os.Open(path)
	require.NoError(err)
	defer inFile.Close()
	outFile, err := os.OpenFile(path, os.O_RDWR|os.O_APPEND, 0)
	require.NoError(err)
	defer outFile.Close()

	_, childIn, childOut := startCat(t)
	defer childOut.Close()

	p := New(Config{
		InFile:            inFile,
		OutFile:           outFile,
		InPath:            path,
		OutPath:           path,
		InBlockSize:       8,
		OutBlockSize:      8,
		ChildIn:           childIn,
		ChildOut:          childOut,
		Overwrite:         true,
		Append:            true,
		OriginalInputSize: 9, // len("existing-")
		InitialOutputSize: 9,
		Log:               zerolog.Nop(),
	})

	require.EqualValues(9, p.opos)

	result, err := p.Run()
	require.NoError(err)
	require.EqualValues(9+9, result.BytesWritten)

	got, err := os.ReadFile(path)
	require.NoError(err)
	require.Equal("existing-existing-", string(got))
}

// TestPumpDeadlockOnStuckOverwriteGate exercises step()'s deadlock branch
// directly: an overwrite transform where both buffers are full, input is
// not yet at EOF, and the read frontier has not advanced past the write
// frontier, so none of the four arming predicates can fire. This mirrors
// the circular stall a single-file transform hits when the coprocess's
// own internal buffering backs up; constructing it through real pipes
// would require racing actual kernel buffer sizes, so the state is set up
// directly on a Pump built the same way New does.
func TestPumpDeadlockOnStuckOverwriteGate(t *testing.T) {
	require := require.New(t)

	inFile, outFile, childIn, childOut := deadlockTestFiles(t)

	p := New(Config{
		InFile:       inFile,
		OutFile:      outFile,
		InPath:       "in",
		OutPath:      "out",
		InBlockSize:  4,
		OutBlockSize: 4,
		ChildIn:      childIn,
		ChildOut:     childOut,
		Overwrite:    true,
		Log:          zerolog.Nop(),
	})

	// Fill both buffers; freeze both frontiers at the same offset so the
	// overwrite safety gate refuses to let ofWrite fire, and mark the
	// child-stdin side closed so a full input buffer can't drain either.
	p.inBuf.grow(p.inBuf.capacity())
	p.outBuf.grow(p.outBuf.capacity())
	p.ipos = 4
	p.opos = 4
	p.iclosed = true

	_, err := p.Run()
	require.Error(err)
	var deadlock *BufferExhaustedError
	require.ErrorAs(err, &deadlock)
	require.Equal("in", deadlock.InPath)
	require.Equal("out", deadlock.OutPath)
}

func deadlockTestFiles(t *testing.T) (inFile, outFile, childIn, childOut *os.File) {
	t.Helper()
	inFile, err := os.CreateTemp(t.TempDir(), "in")
	require.NoError(t, err)
	outFile, err = os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)

	_, childInW, err := os.Pipe()
	require.NoError(t, err)
	childOutR, _, err := os.Pipe()
	require.NoError(t, err)

	t.Cleanup(func() {
		inFile.Close()
		outFile.Close()
		childInW.Close()
		childOutR.Close()
	})
	return inFile, outFile, childInW, childOutR
}
