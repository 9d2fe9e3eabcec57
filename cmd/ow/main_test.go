package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildConfigPlainFlags(t *testing.T) {
	require := require.New(t)

	cfg, err := buildConfig(&cliFlags{input: "in", output: "out", append: true})
	require.NoError(err)
	require.Equal("in", cfg.InputPath)
	require.Equal("out", cfg.OutputPath)
	require.True(cfg.Append)
}

func TestBuildConfigInoutSetsBothPaths(t *testing.T) {
	require := require.New(t)

	cfg, err := buildConfig(&cliFlags{inout: "both"})
	require.NoError(err)
	require.Equal("both", cfg.InputPath)
	require.Equal("both", cfg.OutputPath)
}

func TestBuildConfigInoutConflictsWithInput(t *testing.T) {
	require := require.New(t)

	_, err := buildConfig(&cliFlags{inout: "both", input: "in"})
	require.ErrorIs(err, errInoutConflict)
}

func TestBuildConfigInoutConflictsWithOutput(t *testing.T) {
	require := require.New(t)

	_, err := buildConfig(&cliFlags{inout: "both", output: "out"})
	require.ErrorIs(err, errInoutConflict)
}
