package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rprcore/rpr"
)

func newTraceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trace <pattern> <rows.csv>",
		Short: "Like run, but print the diagnostic snapshot after every row",
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
			emissions, snap, err := m.ProcessRow(i, row)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "row %d input=%v\n", snap.Row, snap.Input)
			for _, c := range snap.Contexts {
				fmt.Fprintf(out, "  context=%d start=%d end=%d completed=%v live=%d done=%d\n",
					c.ID, c.MatchStart, c.MatchEnd, c.IsCompleted, c.LiveStateCount, c.CompletedCount)
			}
			for _, a := range snap.Absorptions {
				fmt.Fprintf(out, "  absorbed: %d <- %d\n", a.EarlierID, a.LaterID)
			}
			if snap.StateMerges > 0 || snap.DeadStates > 0 || snap.DiscardedStates > 0 {
				fmt.Fprintf(out, "  merges=%d dead=%d discarded=%d\n", snap.StateMerges, snap.DeadStates, snap.DiscardedStates)
			}
			for _, e := range emissions {
				fmt.Fprintf(out, "  emit: context=%d start=%d end=%d paths=%v\n", e.ContextID, e.MatchStart, e.MatchEnd, e.Paths)
			}
		}
		return nil
	}
	return cmd
}
