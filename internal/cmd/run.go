package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/Alia5/padlink/connector"
	"github.com/Alia5/padlink/internal/app"
	"github.com/Alia5/padlink/internal/configpaths"
	"github.com/Alia5/padlink/internal/display"
	"github.com/Alia5/padlink/internal/input"
	"github.com/Alia5/padlink/internal/input/evdev"
	"github.com/Alia5/padlink/internal/log"
	"github.com/Alia5/padlink/internal/server/api"
	"github.com/Alia5/padlink/internal/server/api/auth"
	"github.com/Alia5/padlink/internal/server/api/handler"
	"github.com/Alia5/padlink/link"
	"github.com/Alia5/padlink/translator"
)

const keyFileName = "padlink.key.txt"

// InputConfig selects where controller input comes from.
type InputConfig struct {
	Driver string       `help:"Input source; stream takes frames from the control API only" enum:"evdev,stream" default:"evdev" env:"PADLINK_INPUT_DRIVER"`
	Evdev  evdev.Config `embed:""`
}

// Run is the main command: read the gamepad, translate, send to the board.
type Run struct {
	Link    LinkConfig       `embed:"" prefix:"link."`
	Input   InputConfig      `embed:"" prefix:"input."`
	Display display.Config   `embed:"" prefix:"display."`
	Api     api.ServerConfig `embed:"" prefix:"api."`
}

// Run is called by Kong when the run command is executed.
func (r *Run) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return r.Start(ctx, logger, rawLogger)
}

// Start runs until ctx is done.
func (r *Run) Start(ctx context.Context, logger *slog.Logger, rawLogger log.RawLogger) error {
	if r.Input.Driver == "stream" && r.Api.Addr == "" {
		return errors.New("--input.driver=stream needs the control API; set --api.addr")
	}

	deps, release, err := r.Link.deps(logger)
	if err != nil {
		return fmt.Errorf("link setup: %w", err)
	}
	defer release()

	console := display.NewConsole(os.Stdout, r.Display)
	deps.Notifier = console

	slot := &link.Slot{}
	conn := connector.New(r.Link.connectorConfig(), deps, slot, r.Link.Session, logger, rawLogger)
	tr := translator.New(slot, console, logger)
	a := app.New(conn, tr, logger)

	var sources []input.Source
	if r.Input.Driver == "evdev" {
		sources = append(sources, evdev.NewSource(r.Input.Evdev, logger))
	}

	if r.Api.Addr != "" {
		srv, err := r.startAPI(ctx, a, slot, logger)
		if err != nil {
			return err
		}
		defer srv.Close()
	}

	logger.Info("starting padlink", "transport", r.Link.Transport, "filter", r.Link.NameFilter, "input", r.Input.Driver)
	return a.Run(ctx, sources...)
}

func (r *Run) startAPI(ctx context.Context, a *app.App, slot *link.Slot, logger *slog.Logger) (*api.Server, error) {
	cfg := r.Api
	if !cfg.NoAuth {
		pwd, err := loadOrCreateKey(logger)
		if err != nil {
			return nil, err
		}
		cfg.Password = pwd
	}
	srv, err := api.New(cfg, logger)
	if err != nil {
		return nil, err
	}
	rt := srv.Router()
	rt.Register("ping", handler.Ping())
	rt.Register("link/state", handler.LinkState(a))
	rt.Register("link/connect", handler.LinkConnect(a))
	rt.Register("link/stats", handler.LinkStats(slot))
	rt.RegisterStream("input", handler.InputStream(ctx, a.Frames()))
	if err := srv.Start(); err != nil {
		logger.Error("failed to start API server", "error", err)
		return nil, err
	}
	return srv, nil
}

// loadOrCreateKey reads the API password from the config dir, generating
// one on first use.
func loadOrCreateKey(logger *slog.Logger) (string, error) {
	dir, err := configpaths.DefaultConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve key file path: %w", err)
	}
	path := filepath.Join(dir, keyFileName)
	if pwd, err := os.ReadFile(path); err == nil {
		if s := strings.TrimSpace(string(pwd)); s != "" {
			return s, nil
		}
	}
	pwd, err := auth.GenerateKey()
	if err != nil {
		return "", fmt.Errorf("failed to generate new API password: %w", err)
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config dir for key file: %w", err)
	}
	if err := os.WriteFile(path, []byte(pwd), 0o600); err != nil {
		return "", fmt.Errorf("failed to write new API password to file: %w", err)
	}
	logger.Info("Generated API password", "path", path)
	logger.Info("-------------------------------------")
	logger.Info(pwd)
	logger.Info("-------------------------------------")
	logger.Info("You can change this password at any time by editing the file")
	return pwd, nil
}
