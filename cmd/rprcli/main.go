// Command rprcli is a thin cobra-based harness over the rpr library: it
// owns no matching logic of its own, only argument parsing, CSV reading,
// and text rendering of the library's own result/diagnostic types.
package main

import (
	"context"

	"github.com/spf13/cobra"
)

func main() {
	cobra.CheckErr(newRootCmd().ExecuteContext(context.Background()))
}
