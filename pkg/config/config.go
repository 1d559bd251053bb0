package config

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ChatConfig holds model backend configuration. APIKey selects the backend:
// when empty the panel runs against the simulated backend.
type ChatConfig struct {
	APIKey       string   `yaml:"api_key" json:"api_key"`
	BaseURL      string   `yaml:"base_url" json:"base_url"`
	Models       []string `yaml:"models" json:"models"`
	DefaultModel string   `yaml:"default_model" json:"default_model"`
}

// PersonaConfig holds custom GPT resolution configuration.
//
// Endpoint is a pointer so a configured-but-empty override ("endpoint: \"\"")
// can be told apart from an absent one. An absent override skips remote
// resolution entirely; providers without a custom-GPT listing would otherwise
// be hit on every panel activation.
type PersonaConfig struct {
	Endpoint *string `yaml:"endpoint" json:"endpoint"`
	List     string  `yaml:"list" json:"list"` // comma-separated fallback ids
}

// WorkspaceConfig bounds the context snapshot attached to each chat turn.
// Pinned names the workspace-relative files whose contents ride along as the
// open-document set when no editor supplies one.
type WorkspaceConfig struct {
	Root             string   `yaml:"root" json:"root"`
	MaxFiles         int      `yaml:"max_files" json:"max_files"`
	MaxOpenFiles     int      `yaml:"max_open_files" json:"max_open_files"`
	MaxOpenFileBytes int      `yaml:"max_open_file_bytes" json:"max_open_file_bytes"`
	Pinned           []string `yaml:"pinned" json:"pinned"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`   // debug, info, warn, error
	Format string `yaml:"format" json:"format"` // json, text
}

// MetricsConfig holds the optional prometheus exporter settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Address string `yaml:"address" json:"address"`
}

// Config holds the complete sidenote configuration.
type Config struct {
	Chat      ChatConfig      `yaml:"chat" json:"chat"`
	Personas  PersonaConfig   `yaml:"personas" json:"personas"`
	Workspace WorkspaceConfig `yaml:"workspace" json:"workspace"`
	Logging   LoggingConfig   `yaml:"logging" json:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics" json:"metrics"`
}

// Default returns the default configuration for local use.
func Default() Config {
	wd, _ := os.Getwd()
	return Config{
		Chat: ChatConfig{
			BaseURL:      "https://api.openai.com/v1",
			Models:       []string{"gpt-4o", "gpt-4o-mini", "o3-mini", "custom-endpoint"},
			DefaultModel: "gpt-4o-mini",
		},
		Workspace: WorkspaceConfig{
			Root:             wd,
			MaxFiles:         20,
			MaxOpenFiles:     5,
			MaxOpenFileBytes: 10000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Address: "127.0.0.1:9187",
		},
	}
}

// ConfigPaths returns the global and project config directories.
func ConfigPaths() (globalDir, projectDir string) {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	globalDir = filepath.Join(home, ".sidenote")
	projectDir = ".sidenote"
	return
}

// GlobalConfigPath returns the path to the global config file
func GlobalConfigPath() string {
	globalDir, _ := ConfigPaths()
	return filepath.Join(globalDir, "config.yaml")
}

// ProjectConfigPath returns the path to the project config file
func ProjectConfigPath() string {
	_, projectDir := ConfigPaths()
	return filepath.Join(projectDir, "config.yaml")
}

// Load reads configuration once at process start: defaults, then the global
// file, then the project file, then environment overrides. Components receive
// the result by injection and never re-read it.
func Load() (*Config, error) {
	cfg := Default()

	if err := loadYAML(GlobalConfigPath(), &cfg); err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if err := loadYAML(ProjectConfigPath(), &cfg); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	applyEnvOverrides(&cfg)
	return &cfg, nil
}

// LoadFile reads a single config file over the defaults; used by tests and
// the --config flag.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := loadYAML(path, &cfg); err != nil {
		return nil, err
	}
	applyEnvOverrides(&cfg)
	return &cfg, nil
}

func loadYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SIDENOTE_API_KEY"); v != "" {
		cfg.Chat.APIKey = v
	}
	if v := os.Getenv("SIDENOTE_BASE_URL"); v != "" {
		cfg.Chat.BaseURL = v
	}
	if v := os.Getenv("SIDENOTE_DEFAULT_MODEL"); v != "" {
		cfg.Chat.DefaultModel = v
	}
	if v := os.Getenv("SIDENOTE_CUSTOM_GPTS"); v != "" {
		cfg.Personas.List = v
	}
	if v, ok := os.LookupEnv("SIDENOTE_CUSTOM_GPT_ENDPOINT"); ok {
		cfg.Personas.Endpoint = &v
	}
	if v := os.Getenv("SIDENOTE_WORKSPACE_ROOT"); v != "" {
		cfg.Workspace.Root = v
	}
	if v := os.Getenv("SIDENOTE_PINNED_FILES"); v != "" {
		cfg.Workspace.Pinned = splitList(v)
	}
	if v := os.Getenv("SIDENOTE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

func splitList(v string) []string {
	var out []string
	for _, tok := range strings.Split(v, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// Save writes configuration to the global config file.
func Save(cfg *Config) error {
	globalDir, _ := ConfigPaths()
	if err := os.MkdirAll(globalDir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(GlobalConfigPath(), data, 0644)
}
