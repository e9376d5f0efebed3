// dashgen builds the issues dashboard JSON documents and serves the local
// dashboard pages during development.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "dashgen",
		Short: "Issues dashboard generators and dev server",
		Long: `dashgen pulls issue data from a GitHub repository, buckets issues into
content-quality categories and writes the dashboard JSON consumed by the
static pages in docs/. The serve subcommand hosts those pages locally with
endpoints to re-run the generators.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newMetaCmd())
	root.AddCommand(newIssuesCmd())
	root.AddCommand(newServeCmd())
	return root
}
