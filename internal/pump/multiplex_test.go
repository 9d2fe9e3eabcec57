package pump

import (
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestWaitReportsReadableInput(t *testing.T) {
	require := require.New(t)

	inR, inW, err := os.Pipe()
	require.NoError(err)
	defer inR.Close()
	defer inW.Close()

	_, err = inW.WriteString("x")
	require.NoError(err)

	p := New(Config{
		InFile:  inR,
		OutFile: inW, // unused by this call; any *os.File satisfies the field
		Log:     zerolog.Nop(),
	})

	ready, err := p.wait(interestSet{ifRead: true})
	require.NoError(err)
	require.True(ready.ifRead)
}

func TestInterestSetEmpty(t *testing.T) {
	require := require.New(t)
	require.True(interestSet{}.empty())
	require.False(interestSet{ifRead: true}.empty())
}
