package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"docbridge/internal/application/commands"
)

var gcCmd = &cobra.Command{
	Use:   "gc",
	Short: "Garbage-collect stale identity mappings",
	Long: `Remove identity mappings whose local file no longer exists, whose
doc is no longer a configured target, or whose stored key is corrupt.

Example:
  docbridge gc`,
	RunE: func(cmd *cobra.Command, args []string) error {
		gc := commands.NewGCCommand(vault, mappings, cfg.SyncTargets(), log)
		removed, err := gc.Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Printf("Removed %d stale mappings\n", removed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(gcCmd)
}
