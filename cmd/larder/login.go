package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/larder-dev/larder/internal/cli"
)

func loginCmd() *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the tracker server",
		Long:  `Exchange a username and password for a session token and store it locally.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, sess, err := initClient()
			if err != nil {
				return err
			}

			if username == "" {
				fmt.Print("Username: ")
				reader := bufio.NewReader(os.Stdin)
				line, readErr := reader.ReadString('\n')
				if readErr != nil {
					return fmt.Errorf("failed to read username: %w", readErr)
				}
				username = strings.TrimSpace(line)
			}
			if username == "" {
				return fmt.Errorf("username is required")
			}

			fmt.Print("Password: ")
			passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
			fmt.Println()
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}

			token, err := client.Login(cmd.Context(), username, string(passwordBytes))
			if err != nil {
				return err
			}

			if err := sess.Save(token); err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Signed in as %s.", username)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "username to sign in with")
	return cmd
}
