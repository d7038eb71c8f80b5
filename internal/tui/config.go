package tui

import (
	"context"
	"image"

	"github.com/Veraticus/corrosion-lens/internal/session"
	"github.com/Veraticus/corrosion-lens/internal/tui/themes"
)

// HeatmapFetcher downloads the visualization behind an outcome's display URL.
type HeatmapFetcher interface {
	Fetch(ctx context.Context, displayURL string) (image.Image, error)
}

// Config holds TUI configuration.
type Config struct {
	Context  context.Context
	Theme    themes.Theme
	Session  *session.Session
	Fetcher  HeatmapFetcher
	StartDir string
	Width    int
	Height   int
	ShowHelp bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Context:  context.Background(),
		Theme:    themes.Default,
		StartDir: ".",
		Width:    80,
		Height:   24,
	}
}

// WithSession sets the classification session.
func WithSession(s *session.Session) Option {
	return func(c *Config) {
		c.Session = s
	}
}

// WithFetcher sets the heatmap fetcher. Without one the heatmap URL is shown
// but the image is not downloaded.
func WithFetcher(f HeatmapFetcher) Option {
	return func(c *Config) {
		c.Fetcher = f
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithStartDir sets the directory the file picker opens in.
func WithStartDir(dir string) Option {
	return func(c *Config) {
		if dir != "" {
			c.StartDir = dir
		}
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithContext sets the context used for network calls.
func WithContext(ctx context.Context) Option {
	return func(c *Config) {
		if ctx != nil {
			c.Context = ctx
		}
	}
}
