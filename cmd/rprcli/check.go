package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rprcore/rpr/pattern"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <pattern>",
		Short: "Compile a pattern and print its flattened element table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := pattern.Compile(args[0])
			if err != nil {
				var pe *pattern.ParseError
				if errors.As(err, &pe) {
					fmt.Fprintf(cmd.OutOrStdout(), "parse error at offset %d: %s\n", pe.Offset, pe.Reason)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "variables: %v\n", p.Variables())
			fmt.Fprintf(cmd.OutOrStdout(), "max depth: %d, reluctant: %v\n", p.MaxDepth(), p.Reluctant())
			fmt.Fprint(cmd.OutOrStdout(), p.String())
			return nil
		},
	}
}
