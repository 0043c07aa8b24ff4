package main

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/ConorOBrien-Foxx/Maverick/pkg/driver"
	"github.com/ConorOBrien-Foxx/Maverick/pkg/registry"
)

// session carries what every mode needs: settings, logger and registry.
type session struct {
	cfg    driver.Config
	logger *slog.Logger
	reg    *registry.Registry
}

func newSession(opts *cliOptions, stderr io.Writer) (*session, error) {
	cfg, err := driver.LoadConfig(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.hasPrec {
		cfg.Precision = opts.precision
	}
	if opts.alwaysPrint {
		cfg.AlwaysPrint = true
	}
	if opts.trace {
		cfg.Trace = true
	}
	logger := newLogger(stderr, cfg.Trace)
	if cfg.Path != "" {
		logger.Debug("config loaded", "path", cfg.Path)
	}
	reg, err := registry.New(cfg.RegistryConfig())
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, logger: logger, reg: reg}, nil
}

func newLogger(w io.Writer, trace bool) *slog.Logger {
	level := slog.LevelWarn
	if trace {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
