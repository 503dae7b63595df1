package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rprcore/rpr/emit"
)

// addEmitFlags registers the --skip/--output flags shared by run and trace.
func addEmitFlags(cmd *cobra.Command) (skip, output *string) {
	skip = cmd.Flags().String("skip", "past-last", "overlap policy: past-last|to-next")
	output = cmd.Flags().String("output", "one-row", "row policy: one-row|all-rows")
	return
}

func parseEmitConfig(skip, output string) (emit.Config, error) {
	cfg := emit.DefaultConfig()
	switch skip {
	case "past-last":
		cfg.SkipMode = emit.SkipPastLast
	case "to-next":
		cfg.SkipMode = emit.SkipToNext
	default:
		return cfg, fmt.Errorf("unknown --skip value %q (want past-last|to-next)", skip)
	}
	switch output {
	case "one-row":
		cfg.OutputMode = emit.OutputOneRow
	case "all-rows":
		cfg.OutputMode = emit.OutputAllRows
	default:
		return cfg, fmt.Errorf("unknown --output value %q (want one-row|all-rows)", output)
	}
	return cfg, cfg.Validate()
}
