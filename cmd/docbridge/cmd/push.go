package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"docbridge/internal/adapters/clickup"
	"docbridge/internal/application/commands"
)

var pushCmd = &cobra.Command{
	Use:   "push [file]",
	Short: "Upload local files to their remote docs",
	Long: `Upload markdown files to the remote docs of all configured sync
targets. With a file argument, only that file is synced (the same path
the on-save watcher takes).

Examples:
  docbridge push
  docbridge push notes/work/meeting.md`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		api := clickup.New(clickup.Config{
			APIKey:      cfg.APIKey,
			WorkspaceID: cfg.WorkspaceID,
			Logger:      log,
		})

		if len(args) == 1 {
			pushFile := commands.NewPushFileCommand(
				vault, api, mappings, credentials(), cfg.SyncTargets(), args[0], log)
			ok, err := pushFile.Execute(ctx)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("failed to sync %s", args[0])
			}
			fmt.Printf("Synced %s\n", args[0])
			return nil
		}

		pushAll := commands.NewPushAllCommand(
			vault, api, mappings, credentials(), cfg.SyncTargets(), log)
		report, err := pushAll.Execute(ctx)
		if err != nil {
			return err
		}
		for _, tr := range report.Targets {
			label := tr.Target.Folder
			if label == "" {
				label = "(vault root)"
			}
			if tr.Err != nil {
				fmt.Printf("%s -> %s: fetch failed: %v\n", label, tr.Target.DocID, tr.Err)
				continue
			}
			fmt.Printf("%s -> %s: %d synced, %d errors\n",
				label, tr.Target.DocID, tr.Stats.Success, tr.Stats.Errors)
		}
		fmt.Printf("Total: %d synced, %d errors\n",
			report.Total.Success, report.Total.Errors)
		if report.Total.Errors > 0 {
			return fmt.Errorf("%d files failed to sync", report.Total.Errors)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pushCmd)
}
