package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/larder-dev/larder/internal/cli"
	"github.com/larder-dev/larder/internal/scanner"
	"github.com/larder-dev/larder/internal/viewmodel"
)

func scanCmd() *cobra.Command {
	var add bool

	cmd := &cobra.Command{
		Use:   "scan <image>",
		Short: "Identify a product from a barcode photo",
		Long: `Sends a photo of a product barcode to the server for identification
and prints the suggested item. With --add the suggestion is saved as a
new item right away.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			pipeline, client, store, err := initPipeline(ctx, notifyToTerminal())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			result, err := scanner.New(client).IdentifyFile(ctx, args[0])
			if err != nil {
				return err
			}

			if err := pipeline.RefreshCategories(ctx); err != nil {
				return err
			}

			draft, ok := scanner.Suggestion(result)
			if !ok {
				reason := result.Error
				if reason == "" {
					reason = "product not recognised"
				}
				fmt.Println(cli.WarningStyle.Render("No suggestion: " + reason))
				return nil
			}

			if id, matched := viewmodel.MatchCategory(pipeline.Store().Categories(), result.SuggestedCategory); matched {
				draft.CategoryID = &id
			}

			fmt.Println(cli.TitleStyle.Render("Suggested item"))
			fmt.Printf("  name: %s\n", draft.Name)
			fmt.Printf("  unit: %s\n", draft.Unit)
			if draft.Barcode != "" {
				fmt.Printf("  barcode: %s\n", draft.Barcode)
			}
			if result.SuggestedCategory != "" {
				fmt.Printf("  category: %s\n", result.SuggestedCategory)
			}

			if !add {
				fmt.Println(cli.InfoStyle.Render("Run again with --add to save it, or use 'larder items add'."))
				return nil
			}

			draft.MinimumQuantity = viewmodel.IncrementStep(draft.Unit)
			if err := pipeline.SaveItem(ctx, nil, draft); err != nil {
				return err
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&add, "add", false, "save the suggested item immediately")
	return cmd
}
