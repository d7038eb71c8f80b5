package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// New creates a TUI model from options.
func New(opts ...Option) (Model, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Session == nil {
		return Model{}, fmt.Errorf("session is required")
	}
	return newModel(cfg), nil
}

// Run starts the interactive classifier and blocks until the user quits or
// ctx is canceled.
func Run(ctx context.Context, opts ...Option) error {
	opts = append(opts, WithContext(ctx))
	m, err := New(opts...)
	if err != nil {
		return err
	}

	program := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
