package main

import (
	"fmt"

	"github.com/aretw0/tauribridge/pkg/config"
	"github.com/spf13/cobra"
)

var reapCmd = &cobra.Command{
	Use:   "reap",
	Short: "Kill tauri-driver processes left behind by a crashed server",
	Long: `Reads the driver records kept in the configured store and kills the process
group of every recorded tauri-driver whose owning server is gone.

Only the file and redis stores survive a crash; the memory store has nothing to reap.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		if cfg.Store.Kind == config.StoreMemory {
			fmt.Fprintln(cmd.OutOrStdout(), "memory store: no driver records to reap")
			return nil
		}

		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer store.close(cmd.Context())

		n, err := newSupervisor(cfg, store, logger).ReapStale(cmd.Context())
		fmt.Fprintf(cmd.OutOrStdout(), "Reaped %d stale tauri-driver process group(s)\n", n)
		return err
	},
}

func init() {
	rootCmd.AddCommand(reapCmd)
}
