// Command uvq runs the UVQ terminal client: a live Bitcoin market
// dashboard with payment-timing calculators backed by the UVQ analysis
// service.
//
// Usage:
//
//	uvq --backend http://localhost:8000
//	uvq --config uvq.yaml
//	uvq --setup   (interactive configuration wizard)
//
// Environment:
//
//	UVQ_BACKEND_URL overrides the backend base URL.
package main

import (
	"context"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/universiq/uvq/config"
	"github.com/universiq/uvq/internal/clients"
	"github.com/universiq/uvq/internal/services/market"
	"github.com/universiq/uvq/internal/services/pipeline"
	"github.com/universiq/uvq/internal/setup"
	"github.com/universiq/uvq/internal/storage/recommendations"
	"github.com/universiq/uvq/internal/tui"
	"github.com/universiq/uvq/internal/web"
)

func main() {
	cfg, err := config.Get()
	if err != nil {
		log.Fatal(err)
	}

	if cfg.Setup {
		if err := setup.RunWizard(config.DefaultConfigPath); err != nil {
			log.Fatal(err)
		}
		return
	}

	logger, err := newLogger(cfg.LogPath)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	backend := clients.NewBackendClient(cfg.BackendURL)
	store := market.NewStore()
	poller := market.NewPoller(backend, store, cfg.PollInterval, logger)

	journal, err := recommendations.NewWALStore(cfg.WALDir)
	if err != nil {
		logger.Fatal("failed to open recommendation journal", zap.Error(err))
	}
	defer journal.Close()

	pipe := pipeline.New(backend, store, journal, logger)
	nav := tui.NewNavigator()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return poller.Run(ctx)
	})

	if cfg.WebAddr != "" {
		srv := web.NewServer(cfg.WebAddr, store, journal, logger)
		g.Go(func() error {
			logger.Info("web dashboard listening", zap.String("addr", cfg.WebAddr))
			if len(cfg.WebDomains) > 0 {
				return srv.StartWithAutoTLS(ctx, cfg.WebDomains, cfg.CertCacheDir)
			}
			return srv.Start(ctx)
		})
	}

	program := tea.NewProgram(tui.NewModel(nav, store, pipe, logger), tea.WithAltScreen())
	g.Go(func() error {
		_, err := program.Run()
		// quitting the UI tears everything down, poller included
		cancel()
		return err
	})
	g.Go(func() error {
		<-ctx.Done()
		program.Quit()
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("client exited with error", zap.Error(err))
	}
}

// newLogger writes to a file: the TUI owns the terminal.
func newLogger(path string) (*zap.Logger, error) {
	if path == "" {
		path = "uvq.log"
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	return cfg.Build()
}
