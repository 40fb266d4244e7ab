package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"docbridge/internal/adapters/filesystem"
	"docbridge/internal/adapters/sqlite"
	"docbridge/internal/application"
	"docbridge/internal/config"
	"docbridge/internal/logging"
)

var (
	configPath string
	logLevel   string

	cfg      *config.Config
	vault    *filesystem.Vault
	mappings *sqlite.Store
	log      *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "docbridge",
	Short: "Sync a Markdown vault with remote Docs",
	Long: `docbridge keeps a local vault of Markdown notes in sync with remote
Docs reachable through the ClickUp API.

Files map to pages through a durable identity mapping that survives
renames and restarts; folder structure maps to page nesting. Sync passes
are idempotent in both directions.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "version" {
			return nil
		}
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}
		log = logging.New(cfg.LogLevel)

		vault = filesystem.New(cfg.Vault)
		mappings, err = sqlite.Open(vault.Root())
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if mappings != nil {
			mappings.Close()
		}
		if log != nil {
			log.Sync()
		}
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath(), "path to the config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override configured log level")
}

func credentials() application.Credentials {
	return application.Credentials{
		APIKey:      cfg.APIKey,
		WorkspaceID: cfg.WorkspaceID,
	}
}
