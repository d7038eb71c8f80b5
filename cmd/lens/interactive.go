package main

import (
	"github.com/Veraticus/corrosion-lens/internal/classifier"
	"github.com/Veraticus/corrosion-lens/internal/common"
	"github.com/Veraticus/corrosion-lens/internal/config"
	"github.com/Veraticus/corrosion-lens/internal/heatmap"
	"github.com/Veraticus/corrosion-lens/internal/session"
	"github.com/Veraticus/corrosion-lens/internal/tui"
	"github.com/Veraticus/corrosion-lens/internal/tui/themes"
	"github.com/spf13/cobra"
)

func (a *app) runInteractive(cmd *cobra.Command, _ []string) error {
	cfg := config.Load(a.v)
	client, err := classifier.NewHTTPClient(cfg.Classifier)
	if err != nil {
		return err
	}

	common.LogInfo("Starting interactive classifier", common.Fields{
		"endpoint": client.Endpoint().Redacted(),
		"theme":    cfg.UI.Theme,
	})

	return tui.Run(cmd.Context(),
		tui.WithSession(session.New(client)),
		tui.WithFetcher(heatmap.NewFetcher(cfg.Classifier.Endpoint, cfg.Classifier.Token, cfg.Classifier.Timeout)),
		tui.WithTheme(themes.GetTheme(cfg.UI.Theme)),
		tui.WithStartDir(cfg.UI.StartDir),
	)
}
