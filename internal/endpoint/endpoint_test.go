package endpoint

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewClassifiesRegularFile(t *testing.T) {
	require := require.New(t)

	f, err := os.CreateTemp(t.TempDir(), "endpoint")
	require.NoError(err)
	defer f.Close()
	_, err = f.Write([]byte("hello"))
	require.NoError(err)

	e, err := New(f)
	require.NoError(err)
	require.Equal(KindRegular, e.Kind)
	require.Equal(int64(5), e.Size)
	require.NotZero(e.BlockSize)
}

func TestNewClassifiesPipe(t *testing.T) {
	require := require.New(t)

	r, w, err := os.Pipe()
	require.NoError(err)
	defer r.Close()
	defer w.Close()

	e, err := New(r)
	require.NoError(err)
	require.Equal(KindPipe, e.Kind)
}

func TestSameFileRequiresBothRegular(t *testing.T) {
	require := require.New(t)

	path := t.TempDir() + "/f"
	f, err := os.Create(path)
	require.NoError(err)
	defer f.Close()

	a, err := New(f)
	require.NoError(err)

	f2, err := os.Open(path)
	require.NoError(err)
	defer f2.Close()
	b, err := New(f2)
	require.NoError(err)

	require.True(SameFile(a, b))

	r, w, err := os.Pipe()
	require.NoError(err)
	defer r.Close()
	defer w.Close()
	pipeEnd, err := New(r)
	require.NoError(err)

	require.False(SameFile(a, pipeEnd))
}

func TestRefreshPicksUpGrowth(t *testing.T) {
	require := require.New(t)

	f, err := os.CreateTemp(t.TempDir(), "endpoint")
	require.NoError(err)
	defer f.Close()

	e, err := New(f)
	require.NoError(err)
	require.Zero(e.Size)

	_, err = f.Write([]byte("more bytes"))
	require.NoError(err)
	require.NoError(e.Refresh())
	require.Equal(int64(10), e.Size)
}
