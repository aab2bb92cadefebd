package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/aretw0/tauribridge"
	"github.com/aretw0/tauribridge/pkg/adapters/mcp"
	"github.com/aretw0/tauribridge/pkg/shutdown"
	"github.com/spf13/cobra"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the MCP tools the server exposes",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		bridge := tauribridge.New()
		defer bridge.Shutdown(shutdown.CauseExplicit, nil)

		out := cmd.OutOrStdout()
		if asJSON {
			var tools []any
			for _, d := range bridge.Commands() {
				tools = append(tools, mcp.Tool(d))
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(tools)
		}

		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		for _, d := range bridge.Commands() {
			fmt.Fprintf(w, "%s\t%s\n", d.Name, d.Description)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(toolsCmd)
	toolsCmd.Flags().Bool("json", false, "Print the tool schemas as JSON")
}
