package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/tauribridge"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of tauri-mcp",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "tauri-mcp version %s\n", strings.TrimSpace(tauribridge.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
