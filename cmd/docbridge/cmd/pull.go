package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"docbridge/internal/adapters/clickup"
	"docbridge/internal/application"
	"docbridge/internal/application/commands"
	"docbridge/internal/domain"
)

var pullPageID string

var pullCmd = &cobra.Command{
	Use:   "pull <doc-id|target-folder>",
	Short: "Download a remote doc into its target folder",
	Long: `Download the pages of a remote doc into the local folder of the
matching sync target, mirroring page nesting as subfolders. The argument
is either a doc id or the folder of a configured target.

With --page, only the children of that page are downloaded.

Examples:
  docbridge pull abc-123
  docbridge pull notes/work --page 5678`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := findTarget(args[0])
		if err != nil {
			return err
		}
		api := clickup.New(clickup.Config{
			APIKey:      cfg.APIKey,
			WorkspaceID: cfg.WorkspaceID,
			Logger:      log,
		})
		pull := commands.NewPullCommand(
			vault, api, mappings, credentials(), target, pullPageID, log)
		stats, err := pull.Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Printf("Downloaded %d pages, %d errors\n", stats.Success, stats.Errors)
		if stats.Errors > 0 {
			return fmt.Errorf("%d pages failed to download", stats.Errors)
		}
		return nil
	},
}

// findTarget resolves the pull argument against the configured targets,
// matching doc id first, then folder.
func findTarget(arg string) (domain.SyncTarget, error) {
	targets := cfg.SyncTargets()
	for _, t := range targets {
		if t.Actionable() && t.DocID == arg {
			return t, nil
		}
	}
	want := (domain.SyncTarget{Folder: arg}).NormalizedFolder()
	for _, t := range targets {
		if t.Actionable() && t.NormalizedFolder() == want {
			return t, nil
		}
	}
	return domain.SyncTarget{}, &application.ValidationError{
		Field:   "target",
		Message: fmt.Sprintf("no sync target matches %q", arg),
	}
}

func init() {
	pullCmd.Flags().StringVar(&pullPageID, "page", "", "download only the children of this page id")
	rootCmd.AddCommand(pullCmd)
}
