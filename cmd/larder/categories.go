package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/larder-dev/larder/internal/cli"
	"github.com/larder-dev/larder/internal/model"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage item categories",
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			pipeline, _, store, err := initPipeline(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := pipeline.RefreshAll(ctx); err != nil {
				return err
			}

			categories := pipeline.Store().Categories()
			if len(categories) == 0 {
				fmt.Println(cli.InfoStyle.Render("No categories yet. Use 'larder categories add' to create one."))
				return nil
			}

			counts := make(map[int]int)
			for _, item := range pipeline.Store().Items() {
				if item.CategoryID != nil {
					counts[*item.CategoryID]++
				}
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintln(w, "ID\tICON\tNAME\tITEMS")
			for _, cat := range categories {
				fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", cat.ID, cat.Icon, cat.Name, counts[cat.ID])
			}

			return nil
		},
	}
}

func addCategoryCmd() *cobra.Command {
	var icon, color string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			pipeline, _, store, err := initPipeline(ctx, notifyToTerminal())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			draft := model.CategoryDraft{
				Name:  args[0],
				Icon:  icon,
				Color: color,
			}

			category, err := pipeline.CreateCategory(ctx, draft)
			if err != nil {
				return err
			}

			if err := store.TouchIcon(ctx, category.Icon); err != nil {
				fmt.Fprintln(os.Stderr, cli.WarningStyle.Render("could not record icon use"))
			}

			fmt.Println(cli.SuccessStyle.Render(
				fmt.Sprintf("Added category %s %s (ID %d).", category.Icon, category.Name, category.ID)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&icon, "icon", "i", "📦", "category icon (emoji)")
	cmd.Flags().StringVar(&color, "color", "#4ade80", "category color (hex)")
	return cmd
}
