package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tauri-mcp",
	Short: "tauri-mcp drives Tauri applications for MCP clients",
	Long: `tauri-mcp launches tauri-driver, opens WebDriver sessions against Tauri
applications and exposes browser-automation commands as MCP tools.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "tauri-mcp.yaml", "Configuration file (YAML or JSON)")
	rootCmd.PersistentFlags().StringSlice("env-file", []string{".env"}, "Dotenv files loaded before the environment is read")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: text or json")
	rootCmd.PersistentFlags().String("store", "", "Record store: memory, file or redis")
	rootCmd.PersistentFlags().String("driver-path", "", "Path to the tauri-driver binary")
}
