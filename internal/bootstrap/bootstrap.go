package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	hclog "github.com/hashicorp/go-hclog"

	analysisinadapter "vgdesk/internal/modules/analysis/adapter/in"
	analysisoutadapter "vgdesk/internal/modules/analysis/adapter/out"
	analysisusecase "vgdesk/internal/modules/analysis/usecase"
	batchinadapter "vgdesk/internal/modules/batch/adapter/in"
	batchoutadapter "vgdesk/internal/modules/batch/adapter/out"
	batchusecase "vgdesk/internal/modules/batch/usecase"
	historyinadapter "vgdesk/internal/modules/history/adapter/in"
	historyoutadapter "vgdesk/internal/modules/history/adapter/out"
	historyusecase "vgdesk/internal/modules/history/usecase"
	identityinadapter "vgdesk/internal/modules/identity/adapter/in"
	identityoutadapter "vgdesk/internal/modules/identity/adapter/out"
	identityservice "vgdesk/internal/modules/identity/service"
	identityusecase "vgdesk/internal/modules/identity/usecase"
	settingsinadapter "vgdesk/internal/modules/settings/adapter/in"
	settingsoutadapter "vgdesk/internal/modules/settings/adapter/out"
	settingsusecase "vgdesk/internal/modules/settings/usecase"
	"vgdesk/internal/platform/clock"
	"vgdesk/internal/platform/config"
	"vgdesk/internal/platform/id"
	"vgdesk/internal/platform/kv"
	"vgdesk/internal/platform/logging"
	"vgdesk/internal/platform/playback"
	uiapp "vgdesk/internal/ui/app"
)

type App struct {
	Config  config.Config
	Logger  hclog.Logger
	Backend string

	IdentityCLI identityinadapter.CLIHandler
	HistoryCLI  historyinadapter.CLIHandler
	SettingsCLI settingsinadapter.CLIHandler
	AnalysisCLI analysisinadapter.CLIHandler
	AnalysisTUI analysisinadapter.TUIHandler
	BatchCLI    batchinadapter.CLIHandler
	BatchTUI    batchinadapter.TUIHandler

	store    kv.Store
	registry *playback.Registry
	server   *playback.Server
}

// New wires every module against the configured store and restores the
// persisted session so commands run as the signed-in user.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	return NewWithOutput(ctx, cfg, os.Stderr)
}

func NewWithOutput(ctx context.Context, cfg config.Config, logOutput io.Writer) (*App, error) {
	logger := logging.New(logging.Options{Level: cfg.LogLevel, JSON: cfg.LogJSON, Output: logOutput})
	clk := clock.SystemClock{}
	ids := id.UUID{}

	resolver := kv.NewResolver(cfg, logger.Named("store"))
	store, err := resolver.Store(ctx)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", resolver.Backend(), err)
	}
	logger.Debug("store opened", "backend", resolver.Backend())

	identityUC := identityusecase.NewInteractor(identityservice.NewIdentityService(
		clk,
		ids,
		identityoutadapter.NewBcryptHasher(0),
		identityoutadapter.NewKVUserStore(store),
		identityoutadapter.NewKVSessionStore(store),
		identityoutadapter.NewKVFlusher(store),
	))
	if account, ok, err := identityUC.Restore(ctx); err != nil {
		logger.Warn("restore session", "error", err)
	} else if ok {
		logger.Debug("session restored", "user", account.ID)
	}

	historyUC := historyusecase.NewInteractor(clk, ids, historyoutadapter.NewKVHistoryStore(store))
	settingsUC := settingsusecase.NewInteractor(
		settingsoutadapter.NewKVSettingsStore(store),
		settingsoutadapter.NewIdentityViewer(identityUC),
	)

	registry := playback.NewRegistry(ids)
	inference := analysisoutadapter.NewHTTPInference(cfg.Endpoint, cfg.HTTPTimeout)
	launcher := playback.OSLauncher{}

	analysisUC := analysisusecase.NewInteractor(analysisusecase.Deps{
		Inference: inference,
		URLs:      registry,
		History:   analysisoutadapter.NewHistoryRecorder(historyUC),
		Viewer:    analysisoutadapter.NewIdentityViewer(identityUC),
		Launcher:  launcher,
		Reports:   analysisoutadapter.NewMarkdownReportWriter(cfg.DataDir),
		Clock:     clk,
		Logger:    logger,
	})
	batchUC := batchusecase.NewInteractor(batchusecase.Deps{
		Inference:   inference,
		URLs:        registry,
		Checkpoints: batchoutadapter.NewKVCheckpointStore(store),
		Launcher:    launcher,
		Clock:       clk,
		Logger:      logger,
	})

	return &App{
		Config:      cfg,
		Logger:      logger,
		Backend:     resolver.Backend(),
		IdentityCLI: identityinadapter.NewCLIHandler(identityUC),
		HistoryCLI:  historyinadapter.NewCLIHandler(historyUC),
		SettingsCLI: settingsinadapter.NewCLIHandler(settingsUC),
		AnalysisCLI: analysisinadapter.NewCLIHandler(analysisUC),
		AnalysisTUI: analysisinadapter.NewTUIHandler(analysisUC),
		BatchCLI:    batchinadapter.NewCLIHandler(batchUC),
		BatchTUI:    batchinadapter.NewTUIHandler(batchUC, cfg.VideoExts),
		store:       store,
		registry:    registry,
		server:      playback.NewServer(registry, logger.Named("playback")),
	}, nil
}

// StartPlayback serves registered videos on cfg.PlaybackAddr. Object URLs
// created afterwards point at the server.
func (a *App) StartPlayback() (string, error) {
	return a.server.Start(a.Config.PlaybackAddr)
}

// Publish registers paths with the playback server and returns their URLs.
func (a *App) Publish(paths []string) ([]string, error) {
	urls := make([]string, 0, len(paths))
	for _, p := range paths {
		url, err := a.registry.Create(p)
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func (a *App) Close(ctx context.Context) error {
	var errs []error
	if err := a.server.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := a.store.Save(ctx); err != nil {
		errs = append(errs, err)
	}
	if closer, ok := a.store.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func RunTUI(app *App) error {
	if base, err := app.StartPlayback(); err != nil {
		app.Logger.Warn("playback server unavailable", "error", err)
	} else {
		app.Logger.Debug("playback server started", "base", base)
	}
	defer func() { _ = app.Close(context.Background()) }()

	viewer := uiapp.Viewer{}
	if account, ok := app.IdentityCLI.Whoami(); ok {
		viewer = uiapp.Viewer{ID: account.ID, Name: account.Name}
	}
	model := uiapp.NewModel(viewer, app.AnalysisTUI, app.BatchTUI, app.HistoryCLI)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
