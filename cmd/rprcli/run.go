package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rprcore/rpr"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <pattern> <rows.csv>",
		Short: "Feed a CSV row stream through the engine and print emitted matches",
		Args:  cobra.ExactArgs(2),
	}
	skip, output := addEmitFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := parseEmitConfig(*skip, *output)
		if err != nil {
			return err
		}
		p, err := rpr.Compile(args[0])
		if err != nil {
			return err
		}
		rows, err := readRows(args[1])
		if err != nil {
			return err
		}

		m := rpr.NewMatcher(p, cfg)
		out := cmd.OutOrStdout()
		for i, row := range rows {
			emissions, _, err := m.ProcessRow(i, row)
			if err != nil {
				return err
			}
			for _, e := range emissions {
				fmt.Fprintf(out, "context=%d start=%d end=%d paths=%v\n", e.ContextID, e.MatchStart, e.MatchEnd, e.Paths)
			}
		}
		return nil
	}
	return cmd
}
