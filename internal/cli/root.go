// Package cli wires the sidenote commands: the interactive panel, a
// single-shot ask, commit review, and config management.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sidenote/sidenote/pkg/config"
	"github.com/sidenote/sidenote/pkg/logging"
	"github.com/sidenote/sidenote/pkg/secrets"
)

var (
	// Version information (set by build)
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"

	// Global flags
	cfgFile string
	verbose bool

	// Global config, loaded once in PersistentPreRunE
	cfg    *config.Config
	logger logging.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "sidenote",
	Short: "sidenote - an assistant panel for your editor sessions",
	Long: `sidenote is a workspace-aware AI assistant panel. It snapshots your
working tree, resolves your custom GPT personas, and streams model
responses into an interactive panel.

Start the panel:
  sidenote

Ask a single question:
  sidenote ask "what does pkg/session do?"

Review the last commit:
  sidenote review`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfgFile != "" {
			cfg, err = config.LoadFile(cfgFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if cfg.Chat.APIKey == "" {
			cfg.Chat.APIKey = secrets.DefaultChain().Get("api_key")
		}

		level := cfg.Logging.Level
		if verbose {
			level = "debug"
		}
		logger = logging.NewZapLogger(logging.Config{
			Level:  logging.ParseLevel(level),
			Format: cfg.Logging.Format,
		})
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPanel(cmd.Context())
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.sidenote/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(configCmd)
}

// versionCmd shows version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("sidenote %s\n", Version)
		fmt.Printf("Build: %s\n", BuildTime)
		fmt.Printf("Commit: %s\n", GitCommit)
	},
}
