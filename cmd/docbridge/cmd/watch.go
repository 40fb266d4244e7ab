package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"docbridge/internal/adapters/clickup"
	"docbridge/internal/application/commands"
	"docbridge/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the vault and sync files as they are saved",
	Long: `Watch the vault for markdown writes and push each changed file to
its sync target. Requires sync_on_save to be enabled in the config.
Runs until interrupted.

Example:
  docbridge watch`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.SyncOnSave {
			log.Warn("sync_on_save is disabled in the config, nothing to do")
			return nil
		}
		api := clickup.New(clickup.Config{
			APIKey:      cfg.APIKey,
			WorkspaceID: cfg.WorkspaceID,
			Logger:      log,
		})

		w, err := watcher.New(vault.Root())
		if err != nil {
			return err
		}
		if err := w.Start(); err != nil {
			return err
		}
		defer w.Stop()
		log.Info("watching vault", zap.String("root", vault.Root()))

		ctx, stop := signal.NotifyContext(context.Background(),
			os.Interrupt, syscall.SIGTERM)
		defer stop()

		// Pushes run sequentially through this single loop; concurrent
		// writers to the same mapping key could race and duplicate pages.
		for {
			select {
			case <-ctx.Done():
				log.Info("shutting down")
				return nil
			case err := <-w.Errors():
				log.Error("watch error", zap.Error(err))
			case event := <-w.Events():
				push := commands.NewPushFileCommand(
					vault, api, mappings, credentials(), cfg.SyncTargets(), event.Path, log)
				ok, err := push.Execute(ctx)
				switch {
				case err != nil:
					log.Warn("file not synced",
						zap.String("file", event.Path), zap.Error(err))
				case ok:
					log.Info("file synced", zap.String("file", event.Path))
				}
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
