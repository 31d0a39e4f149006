package main

import (
	"fmt"
	"os"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/larder-dev/larder/internal/cli"
	"github.com/larder-dev/larder/internal/model"
)

func profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "View and update your profile",
	}

	cmd.AddCommand(showProfileCmd())
	cmd.AddCommand(updateProfileCmd())

	return cmd
}

func showProfileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the signed-in profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			pipeline, _, store, err := initPipeline(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := pipeline.LoadProfile(ctx); err != nil {
				return err
			}
			profile := pipeline.Store().Profile()

			fmt.Println(cli.TitleStyle.Render("Profile"))

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "Username\t%s\n", profile.Username)
			fmt.Fprintf(w, "Display name\t%s\n", valueOrDash(profile.DisplayName))
			fmt.Fprintf(w, "Phone\t%s\n", valueOrDash(profile.PhoneNumber))
			fmt.Fprintf(w, "Theme\t%s\n", valueOrDash(profile.Theme))
			fmt.Fprintf(w, "Language\t%s\n", valueOrDash(profile.Language))

			return nil
		},
	}
}

func updateProfileCmd() *cobra.Command {
	var displayName, phone string
	var changePassword bool

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update profile fields",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			pipeline, _, store, err := initPipeline(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			var patch model.ProfilePatch
			flags := cmd.Flags()
			if flags.Changed("display-name") {
				patch.DisplayName = &displayName
			}
			if flags.Changed("phone") {
				patch.PhoneNumber = &phone
			}

			if changePassword {
				password, promptErr := promptNewPassword()
				if promptErr != nil {
					return promptErr
				}
				patch.Password = &password
			}

			if patch == (model.ProfilePatch{}) {
				return fmt.Errorf("nothing to update: pass --display-name, --phone or --password")
			}

			if _, err := pipeline.UpdateProfile(ctx, patch); err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render("Profile updated."))
			return nil
		},
	}

	cmd.Flags().StringVar(&displayName, "display-name", "", "display name")
	cmd.Flags().StringVar(&phone, "phone", "", "phone number")
	cmd.Flags().BoolVar(&changePassword, "password", false, "prompt for a new password")
	return cmd
}

func promptNewPassword() (string, error) {
	fmt.Print("New password: ")
	first, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	fmt.Print("Repeat password: ")
	second, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	if string(first) != string(second) {
		return "", fmt.Errorf("passwords do not match")
	}
	if len(first) == 0 {
		return "", fmt.Errorf("password cannot be empty")
	}

	return string(first), nil
}

func valueOrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
