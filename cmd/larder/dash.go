package main

import (
	"github.com/spf13/cobra"

	"github.com/larder-dev/larder/internal/prefs"
	"github.com/larder-dev/larder/internal/reconcile"
	"github.com/larder-dev/larder/internal/scanner"
	"github.com/larder-dev/larder/internal/tui"
	"github.com/larder-dev/larder/internal/tui/themes"
)

func dashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dash",
		Short: "Open the interactive dashboard",
		Long: `The dashboard shows the full pantry grid with live stock bars,
category filters, the shopping list and barcode capture. Quantity
changes apply instantly and roll back if the server rejects them.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			notifier := tui.NewProgramNotifier()

			pipeline, client, store, err := initPipeline(ctx,
				reconcile.WithNotifier(notifier),
				reconcile.WithRenderer(notifier.Render),
			)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			manager := prefs.New(store, client)

			return tui.Run(tui.Config{
				Pipeline:  pipeline,
				Predictor: client,
				Scanner:   scanner.New(client),
				Icons:     store,
				Prefs:     manager,
				Notifier:  notifier,
				Theme:     themes.GetTheme(manager.Theme(ctx)),
			})
		},
	}
}
