package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/larder-dev/larder/internal/cli"
	"github.com/larder-dev/larder/internal/model"
	"github.com/larder-dev/larder/internal/viewmodel"
)

func itemsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items",
		Short: "Manage tracked items",
		Long:  `List, add, edit and delete items, and step quantities as stock is used or restocked.`,
	}

	cmd.AddCommand(listItemsCmd())
	cmd.AddCommand(addItemCmd())
	cmd.AddCommand(editItemCmd())
	cmd.AddCommand(deleteItemCmd())
	cmd.AddCommand(stepItemCmd("use", "Use stock", -1))
	cmd.AddCommand(stepItemCmd("restock", "Add stock", 1))

	return cmd
}

func listItemsCmd() *cobra.Command {
	var withPredictions bool
	var categoryID int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all items",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			pipeline, client, store, err := initPipeline(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := pipeline.RefreshAll(ctx); err != nil {
				return err
			}

			if cmd.Flags().Changed("category") {
				pipeline.SetFilter(&categoryID)
			}

			items := pipeline.Store().FilteredItems()
			if len(items) == 0 {
				fmt.Println(cli.InfoStyle.Render("No items yet. Use 'larder items add' to create one."))
				return nil
			}

			predictions := make(map[int]model.Prediction, len(items))
			if withPredictions {
				bar := progressbar.Default(int64(len(items)), "fetching forecasts")
				for _, item := range items {
					if p, predErr := client.Prediction(ctx, item.ID); predErr == nil {
						predictions[item.ID] = *p
					}
					_ = bar.Add(1)
				}
			}

			stats := viewmodel.AggregateStats(pipeline.Store().Items())
			fmt.Println(cli.TitleStyle.Render(fmt.Sprintf(
				"Pantry: %d items (%d ok, %d low, %d out)",
				stats.Total(), stats.OK, stats.Attention, stats.Critical)))

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintln(w, "ID\tNAME\tQUANTITY\tSTOCK\tSTATUS")
			for _, item := range items {
				badge := viewmodel.StockBadge(item)
				if p, ok := predictions[item.ID]; ok {
					badge = viewmodel.PredictionBadge(item, p)
				}

				fmt.Fprintf(w, "%d\t%s\t%s/%s %s\t%.0f%%\t%s\n",
					item.ID,
					item.Name,
					viewmodel.FormatQuantity(item.CurrentQuantity),
					viewmodel.FormatQuantity(item.MinimumQuantity),
					item.Unit,
					viewmodel.ProgressPercent(item),
					cli.UrgencyStyle(badge.Urgency).Render(badge.Text))
			}

			return nil
		},
	}

	cmd.Flags().BoolVarP(&withPredictions, "predict", "p", false, "fetch purchase forecasts per item")
	cmd.Flags().IntVarP(&categoryID, "category", "c", 0, "filter by category ID")
	return cmd
}

func addItemCmd() *cobra.Command {
	var draftFlags itemDraftFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a new item",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			draft, err := draftFlags.draft()
			if err != nil {
				return err
			}

			pipeline, _, store, err := initPipeline(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := pipeline.SaveItem(ctx, nil, draft); err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Added %s.", draft.Name)))
			return nil
		},
	}

	draftFlags.register(cmd)
	return cmd
}

func editItemCmd() *cobra.Command {
	var draftFlags itemDraftFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid item ID %q", args[0])
			}

			pipeline, _, store, err := initPipeline(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := pipeline.RefreshItems(ctx); err != nil {
				return err
			}

			current, ok := pipeline.Store().Item(id)
			if !ok {
				return fmt.Errorf("no item with ID %d", id)
			}

			draft, err := draftFlags.merge(cmd, current)
			if err != nil {
				return err
			}

			if err := pipeline.SaveItem(ctx, &id, draft); err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Updated %s.", draft.Name)))
			return nil
		},
	}

	draftFlags.register(cmd)
	return cmd
}

func deleteItemCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid item ID %q", args[0])
			}

			pipeline, _, store, err := initPipeline(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := pipeline.RefreshItems(ctx); err != nil {
				return err
			}

			if err := pipeline.DeleteItem(ctx, id); err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render("Item deleted."))
			return nil
		},
	}
}

// stepItemCmd builds the quantity-step commands. The step runs through
// the reconciliation pipeline, so a failed persist rolls local state
// back to the server's truth before the command reports.
func stepItemCmd(use, short string, sign float64) *cobra.Command {
	var amount float64

	cmd := &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid item ID %q", args[0])
			}

			pipeline, _, store, err := initPipeline(ctx, notifyToTerminal())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := pipeline.RefreshItems(ctx); err != nil {
				return err
			}

			item, ok := pipeline.Store().Item(id)
			if !ok {
				return fmt.Errorf("no item with ID %d", id)
			}

			delta := amount
			if delta == 0 {
				delta = viewmodel.IncrementStep(item.Unit)
			}

			if _, err := pipeline.AdjustQuantity(ctx, id, sign*delta); err != nil {
				return err
			}

			updated, _ := pipeline.Store().Item(id)
			fmt.Printf("%s: %s %s\n", updated.Name,
				viewmodel.FormatQuantity(updated.CurrentQuantity), updated.Unit)
			return nil
		},
	}

	cmd.Flags().Float64VarP(&amount, "amount", "a", 0, "step amount (default: one unit step)")
	return cmd
}

// itemDraftFlags collects the item form fields as flags.
type itemDraftFlags struct {
	name       string
	unit       string
	notes      string
	barcode    string
	difficulty string
	period     string
	current    float64
	minimum    float64
	rate       float64
	categoryID int
}

func (f *itemDraftFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.name, "name", "n", "", "item name")
	cmd.Flags().StringVarP(&f.unit, "unit", "u", "", "unit of measure (kg, l, un, ...)")
	cmd.Flags().Float64Var(&f.current, "current", 0, "current quantity")
	cmd.Flags().Float64Var(&f.minimum, "minimum", 0, "minimum quantity")
	cmd.Flags().IntVarP(&f.categoryID, "category", "c", 0, "category ID")
	cmd.Flags().StringVarP(&f.difficulty, "difficulty", "d", "easy", "restock difficulty (easy, medium, hard)")
	cmd.Flags().Float64Var(&f.rate, "rate", 0, "usage rate")
	cmd.Flags().StringVar(&f.period, "period", "weekly", "usage period (daily, weekly, monthly)")
	cmd.Flags().StringVar(&f.notes, "notes", "", "free-form notes")
	cmd.Flags().StringVar(&f.barcode, "barcode", "", "product barcode")
}

// draft builds a full draft from the flags, for add.
func (f *itemDraftFlags) draft() (model.ItemDraft, error) {
	difficulty, err := parseDifficulty(f.difficulty)
	if err != nil {
		return model.ItemDraft{}, err
	}

	draft := model.ItemDraft{
		Name:            f.name,
		Unit:            f.unit,
		Notes:           f.notes,
		Barcode:         f.barcode,
		CurrentQuantity: f.current,
		MinimumQuantity: f.minimum,
		Difficulty:      difficulty,
		UsagePeriod:     model.UsagePeriod(f.period),
	}
	if f.categoryID > 0 {
		draft.CategoryID = &f.categoryID
	}
	if f.rate > 0 {
		draft.UsageRate = &f.rate
	}
	return draft, nil
}

// merge overlays only the flags the user actually set onto an existing
// item, for edit.
func (f *itemDraftFlags) merge(cmd *cobra.Command, item model.Item) (model.ItemDraft, error) {
	draft := model.ItemDraft{
		Name:            item.Name,
		Unit:            item.Unit,
		Notes:           item.Notes,
		Barcode:         item.Barcode,
		CategoryID:      item.CategoryID,
		UsageRate:       item.UsageRate,
		UsagePeriod:     item.UsagePeriod,
		CurrentQuantity: item.CurrentQuantity,
		MinimumQuantity: item.MinimumQuantity,
		Difficulty:      item.Difficulty,
	}

	flags := cmd.Flags()
	if flags.Changed("name") {
		draft.Name = f.name
	}
	if flags.Changed("unit") {
		draft.Unit = f.unit
	}
	if flags.Changed("notes") {
		draft.Notes = f.notes
	}
	if flags.Changed("barcode") {
		draft.Barcode = f.barcode
	}
	if flags.Changed("current") {
		draft.CurrentQuantity = f.current
	}
	if flags.Changed("minimum") {
		draft.MinimumQuantity = f.minimum
	}
	if flags.Changed("category") {
		draft.CategoryID = &f.categoryID
	}
	if flags.Changed("rate") {
		draft.UsageRate = &f.rate
	}
	if flags.Changed("period") {
		draft.UsagePeriod = model.UsagePeriod(f.period)
	}
	if flags.Changed("difficulty") {
		difficulty, err := parseDifficulty(f.difficulty)
		if err != nil {
			return model.ItemDraft{}, err
		}
		draft.Difficulty = difficulty
	}

	return draft, nil
}

func parseDifficulty(raw string) (model.Difficulty, error) {
	switch raw {
	case "easy", "":
		return model.DifficultyEasy, nil
	case "medium":
		return model.DifficultyMedium, nil
	case "hard":
		return model.DifficultyHard, nil
	default:
		return 0, fmt.Errorf("invalid difficulty %q: must be easy, medium or hard", raw)
	}
}
