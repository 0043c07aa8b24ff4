package driver

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Source is program text plus a name for diagnostics.
type Source struct {
	Name string
	Text string
}

// Inline wraps program text given on the command line.
func Inline(text string) *Source {
	return &Source{Name: "<exec>", Text: text}
}

// Loader acquires program text from local files or git references.
type Loader struct {
	Git    *GitFetcher
	Logger *slog.Logger
}

// NewLoader builds a loader whose git cache lives under cfg.CacheDir.
func NewLoader(cfg Config, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{
		Git:    &GitFetcher{CacheDir: cfg.CacheDir, Logger: logger},
		Logger: logger,
	}
}

// Load reads the program named by ref.
func (l *Loader) Load(ctx context.Context, ref string) (*Source, error) {
	if ref == "" {
		return nil, fmt.Errorf("driver: no program file given")
	}
	if IsGitRef(ref) {
		gitRef, err := ParseGitRef(ref)
		if err != nil {
			return nil, err
		}
		if l.Git == nil {
			return nil, fmt.Errorf("driver: git sources are not configured")
		}
		data, err := l.Git.Fetch(ctx, gitRef)
		if err != nil {
			return nil, err
		}
		return &Source{Name: gitRef.String(), Text: string(data)}, nil
	}
	abs, err := filepath.Abs(ref)
	if err != nil {
		return nil, fmt.Errorf("driver: resolve %s: %w", ref, err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("driver: no such file `%s`", ref)
		}
		return nil, fmt.Errorf("driver: read %s: %w", ref, err)
	}
	if l.Logger != nil {
		l.Logger.Debug("loaded program file", "path", abs, "bytes", len(data))
	}
	return &Source{Name: ref, Text: string(data)}, nil
}
