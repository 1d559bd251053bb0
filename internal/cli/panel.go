package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sidenote/sidenote/internal/cli/tui"
	"github.com/sidenote/sidenote/pkg/chat"
	"github.com/sidenote/sidenote/pkg/config"
	"github.com/sidenote/sidenote/pkg/logging"
	"github.com/sidenote/sidenote/pkg/metrics"
	"github.com/sidenote/sidenote/pkg/persona"
	"github.com/sidenote/sidenote/pkg/session"
	"github.com/sidenote/sidenote/pkg/transport"
	"github.com/sidenote/sidenote/pkg/workspace"
)

// reloadingSource re-reads configuration on every Load so persona overrides
// edited in the config file take effect on the next reload, without
// restarting the panel.
type reloadingSource struct {
	cfgFile string
	apiKey  string
	logger  logging.Logger
}

func (s *reloadingSource) Load(ctx context.Context) ([]persona.Persona, string) {
	fresh, err := reloadConfig(s.cfgFile)
	if err != nil {
		s.logger.Warn("config reload failed, keeping previous persona settings", logging.Err(err))
		fresh = cfg
	}
	return persona.NewSource(fresh.Personas, s.apiKey, s.logger).Load(ctx)
}

func reloadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

// newSnapshotBuilder assembles the context snapshot builder from the loaded
// config, with pinned files standing in for the editor's open documents.
func newSnapshotBuilder() *workspace.Builder {
	return workspace.NewBuilder(cfg.Workspace.Root,
		workspace.WithMaxFiles(cfg.Workspace.MaxFiles),
		workspace.WithMaxOpenFiles(cfg.Workspace.MaxOpenFiles),
		workspace.WithMaxOpenFileBytes(cfg.Workspace.MaxOpenFileBytes),
		workspace.WithOpenFileSource(&workspace.PinnedFileSource{
			Root:  cfg.Workspace.Root,
			Paths: cfg.Workspace.Pinned,
		}),
		workspace.WithLogger(logger),
	)
}

// runPanel builds the session stack and hands it to the bubbletea panel.
func runPanel(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	backend := chat.New(cfg.Chat, logger)

	builder := newSnapshotBuilder()

	source := &reloadingSource{cfgFile: cfgFile, apiKey: cfg.Chat.APIKey, logger: logger}

	var recorder metrics.Recorder = metrics.Nop{}
	if cfg.Metrics.Enabled {
		prom := metrics.NewPrometheus()
		recorder = prom
		go func() {
			if err := prom.Serve(cfg.Metrics.Address); err != nil {
				logger.Warn("metrics exporter stopped", logging.Err(err))
			}
		}()
	}

	bus := transport.NewChannelTransport(64)
	defer bus.Close()

	controller := session.New(session.Options{
		Models:       cfg.Chat.Models,
		DefaultModel: cfg.Chat.DefaultModel,
		Backend:      backend,
		Snapshots:    builder,
		Personas:     source,
		Transport:    bus,
		Logger:       logger,
		Metrics:      recorder,
	})
	controller.Start(ctx)

	watchPaths := []string{config.GlobalConfigPath(), config.ProjectConfigPath()}
	if cfgFile != "" {
		watchPaths = []string{cfgFile}
	}
	if watcher, err := config.NewWatcher(logger, watchPaths...); err == nil {
		defer watcher.Close()
		go watcher.Run(ctx, func(path string) {
			logger.Info("config changed, reloading personas", logging.String("path", path))
			controller.ReloadPersonas(ctx)
		})
	} else {
		logger.Warn("config watcher unavailable", logging.Err(err))
	}

	model := tui.New(ctx, controller, bus, logger)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("panel exited with error: %w", err)
	}
	return nil
}
