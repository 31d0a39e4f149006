package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/larder-dev/larder/internal/cli"
)

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and discard the stored session",
		RunE: func(_ *cobra.Command, _ []string) error {
			sess, err := initSession()
			if err != nil {
				return err
			}

			if err := sess.Clear(); err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render("Signed out."))
			return nil
		},
	}
}
