package cli

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sidenote/sidenote/pkg/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage sidenote configuration",
	Long: `View and edit sidenote configuration.

Commands:
  show    - Display current configuration
  edit    - Open configuration in editor
  reset   - Reset to default configuration
  path    - Show configuration file paths
  set     - Set a configuration value`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showConfig()
	},
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit configuration in your editor",
	RunE: func(cmd *cobra.Command, args []string) error {
		return editConfig()
	},
}

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset configuration to defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		return resetConfig()
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file paths",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showConfigPaths()
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the global config file.

Keys:
  base_url       - Chat API base URL
  default_model  - Default model for chat turns
  custom_gpts    - Comma-separated custom GPT ids
  gpt_endpoint   - Custom GPT listing endpoint (empty disables remote resolution)
  workspace_root - Workspace root for context snapshots
  log_level      - Log level (debug, info, warn, error)

Examples:
  sidenote config set default_model gpt-4o
  sidenote config set custom_gpts gertrude,ida,archivist`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setConfigValue(args[0], args[1])
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configResetCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configSetCmd)
}

func showConfig() error {
	redacted := *cfg
	if redacted.Chat.APIKey != "" {
		redacted.Chat.APIKey = "(set)"
	}

	data, err := yaml.Marshal(&redacted)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	fmt.Println("# sidenote configuration")
	fmt.Println("# Location:", config.GlobalConfigPath())
	fmt.Println()
	fmt.Print(string(data))

	return nil
}

func editConfig() error {
	configPath := config.GlobalConfigPath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := config.Save(cfg); err != nil {
			return fmt.Errorf("failed to create config: %w", err)
		}
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vim"
	}

	cmd := exec.Command(editor, configPath)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd.Run()
}

func resetConfig() error {
	defaults := config.Default()

	if err := config.Save(&defaults); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println("Configuration reset to defaults")
	fmt.Println("Saved to:", config.GlobalConfigPath())

	return nil
}

func showConfigPaths() error {
	globalDir, projectDir := config.ConfigPaths()

	fmt.Println("Configuration Paths:")
	fmt.Println()
	fmt.Println("Global config directory:", globalDir)
	fmt.Println("Global config file:     ", config.GlobalConfigPath())
	fmt.Println()
	fmt.Println("Project config directory:", projectDir)
	fmt.Println("Project config file:     ", config.ProjectConfigPath())
	fmt.Println()
	fmt.Println("The project config (if present) overrides global settings.")

	fmt.Println()
	fmt.Println("Status:")
	if _, err := os.Stat(config.GlobalConfigPath()); err == nil {
		fmt.Println("  Global config: exists")
	} else {
		fmt.Println("  Global config: not found")
	}
	if _, err := os.Stat(config.ProjectConfigPath()); err == nil {
		fmt.Println("  Project config: exists")
	} else {
		fmt.Println("  Project config: not found")
	}

	return nil
}

func setConfigValue(key, value string) error {
	switch key {
	case "base_url":
		cfg.Chat.BaseURL = value
	case "default_model":
		cfg.Chat.DefaultModel = value
	case "custom_gpts":
		cfg.Personas.List = value
	case "gpt_endpoint":
		v := value
		cfg.Personas.Endpoint = &v
	case "workspace_root":
		cfg.Workspace.Root = value
	case "log_level":
		cfg.Logging.Level = value
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("Set %s = %s\n", key, value)
	return nil
}
