package pump

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBufferFillDrainConsume(t *testing.T) {
	require := require.New(t)

	b := newBuffer(8)
	require.Equal(8, b.capacity())
	require.Equal(8, b.free())

	copy(b.fillSlice(), "abcd")
	b.grow(4)
	require.Equal(4, b.free())

	drained := b.drainSlice(2)
	require.Equal("ab", string(drained))

	b.consume(2)
	require.Equal(2, b.used)
	require.Equal("cd", string(b.data[:b.used]))
	require.Equal(6, b.free())
}
