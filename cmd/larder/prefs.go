package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/larder-dev/larder/internal/cli"
)

func prefsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Manage local preferences",
		Long: `Preferences live in the local database and apply immediately.
Theme and language changes are also mirrored to your remote profile when
the server is reachable.`,
	}

	cmd.AddCommand(showPrefsCmd())
	cmd.AddCommand(setThemeCmd())
	cmd.AddCommand(setLanguageCmd())
	cmd.AddCommand(setNotifyCmd())

	return cmd
}

func showPrefsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current preferences",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			manager, store, err := initPrefs(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			fmt.Printf("theme: %s\n", manager.Theme(ctx))
			fmt.Printf("language: %s\n", manager.Language(ctx))
			fmt.Printf("low-stock alerts: %t\n", manager.LowStockAlerts())
			fmt.Printf("reminders: %t\n", manager.RemindersEnabled(ctx))
			return nil
		},
	}
}

func setThemeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "theme <auto|dark|light>",
		Short: "Set the color theme",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			manager, store, err := initPrefs(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := manager.SetTheme(ctx, args[0]); err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Theme set to %s.", args[0])))
			return nil
		},
	}
}

func setLanguageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "language <pt|en>",
		Short: "Set the display language",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			manager, store, err := initPrefs(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := manager.SetLanguage(ctx, args[0]); err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Language set to %s.", args[0])))
			return nil
		},
	}
}

func setNotifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "notify <low-stock|reminders> <true|false>",
		Short: "Toggle notification kinds",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			enabled, err := strconv.ParseBool(args[1])
			if err != nil {
				return fmt.Errorf("invalid value %q: expected true or false", args[1])
			}

			manager, store, err := initPrefs(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			switch args[0] {
			case "low-stock":
				err = manager.SetLowStockAlerts(ctx, enabled)
			case "reminders":
				err = manager.SetRemindersEnabled(ctx, enabled)
			default:
				return fmt.Errorf("unknown notification kind %q: expected low-stock or reminders", args[0])
			}
			if err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("%s notifications set to %t.", args[0], enabled)))
			return nil
		},
	}
}
