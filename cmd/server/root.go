// file: cmd/server/root.go
package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "cowgnition-mcp",
		Short:   "An MCP server runtime",
		Version: version + " (" + commitHash + ", " + buildDate + ")",
	}
	root.AddCommand(newServeCmd())
	return root
}
