package main

import (
	"github.com/spf13/cobra"
)

// newRootCmd assembles the rprcli command tree, the way the pack's only
// cobra-ambient example assembles its own root command from subcommands
// registered in init-style constructors.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "rprcli",
		Short:         "Debug/demo driver for the row pattern recognition engine",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(newCheckCmd())
	root.AddCommand(newRunCmd())
	root.AddCommand(newTraceCmd())

	return root
}
