//go:build linux

package zerocopy

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetBufferSize(t *testing.T) {
	require := require.New(t)

	n := 32 * 4096
	p, err := NewPipe()
	require.NoError(err)
	defer p.Close()

	require.NoError(p.SetBufferSize(n))
	got, err := p.BufferSize()
	require.NoError(err)
	require.Equal(n, got)
}
