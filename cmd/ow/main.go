// Command ow runs an external program as a coprocess and pipes a file's
// contents through it, writing the transformed output back to the same
// file or to a different file.
//
// This front end handles flag parsing only; every scheduling decision is
// made by the internal packages it wires together. It does not parse
// shell-style redirect tokens ("<", ">", "<>", "<>>"); input, output, and
// rename targets are plain flags instead.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mako10k/ow/internal/owconfig"
)

type cliFlags struct {
	input     string
	output    string
	inout     string
	rename    string
	append    bool
	punchhole bool
	verbose   bool
}

func newRootCommand() *cobra.Command {
	flags := &cliFlags{}

	cmd := &cobra.Command{
		Use:   "ow [options] -- cmd [arg ...]",
		Short: "Pipe a file through a coprocess, safely, even in place.",
		Long: `ow runs cmd as a coprocess and transfers the contents of an input file
through it, writing the transformed bytes to an output file. Input and
output may be the same file: ow's scheduler guarantees the write
position never overtakes the read position.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(flags, args)
		},
	}

	cmd.Flags().StringVarP(&flags.input, "input", "i", "", "input file")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file")
	cmd.Flags().StringVarP(&flags.inout, "inout", "f", "", "input/output file")
	cmd.Flags().StringVarP(&flags.rename, "rename", "r", "", "rename output file on success")
	cmd.Flags().BoolVarP(&flags.append, "append", "a", false, "append mode")
	cmd.Flags().BoolVarP(&flags.punchhole, "punchhole", "p", false, "punch-hole already-read input extents")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "write debug diagnostics to stderr")

	return cmd
}

func buildConfig(f *cliFlags) (owconfig.Config, error) {
	cfg := owconfig.Config{
		InputPath:  f.input,
		OutputPath: f.output,
		RenameTo:   f.rename,
		Append:     f.append,
		PunchHole:  f.punchhole,
	}
	if f.inout != "" {
		if f.input != "" || f.output != "" {
			return cfg, errInoutConflict
		}
		cfg.InputPath = f.inout
		cfg.OutputPath = f.inout
	}
	return cfg, nil
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ow:", err)
		os.Exit(1)
	}
}
