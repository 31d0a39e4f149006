package main

import (
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/larder-dev/larder/internal/cli"
	"github.com/larder-dev/larder/internal/export"
	"github.com/larder-dev/larder/internal/model"
	"github.com/larder-dev/larder/internal/prefs"
	"github.com/larder-dev/larder/internal/viewmodel"
)

func shoppingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "shopping",
		Aliases: []string{"shopping-list"},
		Short:   "View and export the shopping list",
		Long:    `The shopping list is derived server-side from current stock, minimums and usage forecasts.`,
	}

	cmd.AddCommand(listShoppingCmd())
	cmd.AddCommand(exportShoppingCmd())

	return cmd
}

func listShoppingCmd() *cobra.Command {
	var share bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show what needs buying",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			pipeline, client, store, err := initPipeline(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := pipeline.RefreshShoppingList(ctx); err != nil {
				return err
			}
			entries := pipeline.Store().ShoppingList()

			if share {
				manager := prefs.New(store, client)
				fmt.Println(export.ShareText(entries, manager.Language(ctx)))
				return nil
			}

			if len(entries) == 0 {
				fmt.Println(cli.SuccessStyle.Render("Nothing to buy. Pantry is stocked."))
				return nil
			}

			fmt.Println(cli.TitleStyle.Render("Shopping List"))

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintln(w, "ITEM\tNEEDED\tURGENCY\tDIFFICULTY\tBUY BY")
			for _, entry := range entries {
				if entry.Needed <= 0 {
					continue
				}

				buyBy := ""
				if entry.DaysRemaining != nil && *entry.DaysRemaining < model.UnboundedDays {
					buyBy = fmt.Sprintf("~%.0f days", *entry.DaysRemaining)
				}

				fmt.Fprintf(w, "%s\t%s %s\t%s\t%s\t%s\n",
					entry.Name,
					viewmodel.FormatQuantity(entry.Needed),
					entry.Unit,
					cli.UrgencyStyle(entry.Urgency).Render(string(entry.Urgency)),
					entry.Difficulty.Label(),
					buyBy)
			}

			return nil
		},
	}

	cmd.Flags().BoolVarP(&share, "share", "s", false, "print as shareable text instead of a table")
	return cmd
}

func exportShoppingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Export the shopping list to Google Sheets",
		Long: `Writes the current shopping list to a Google Sheets spreadsheet.
Credentials come from LARDER_SHEETS_* environment variables; either a
service account key or an OAuth2 client with a refresh token.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			config := export.DefaultSheetsConfig()
			if err := config.LoadFromEnv(); err != nil {
				return err
			}
			if err := config.Validate(); err != nil {
				return err
			}

			pipeline, _, store, err := initPipeline(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := pipeline.RefreshShoppingList(ctx); err != nil {
				return err
			}
			entries := pipeline.Store().ShoppingList()

			writer, err := export.NewSheetsWriter(ctx, config, slog.Default())
			if err != nil {
				return err
			}

			if err := writer.Write(ctx, entries); err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render(
				fmt.Sprintf("Exported %d entries to %q.", len(entries), config.SpreadsheetName)))
			return nil
		},
	}
}
