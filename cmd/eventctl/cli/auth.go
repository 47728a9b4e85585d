package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"eventdesk/internal/remote"
	"eventdesk/internal/session"

	"github.com/spf13/cobra"
)

func NewLoginCommand(app *App) *cobra.Command {
	var email string
	var passwordStdin bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session token",
		Long:  "Exchanges email and password for a session token and stores it in the token file. The password is read from EVENTCTL_PASSWORD or, with --password-stdin, from standard input.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				return errors.New("--email is required")
			}
			password, err := readPassword(cmd, app.password, passwordStdin)
			if err != nil {
				return err
			}

			token, err := app.Client.Login(cmd.Context(), remote.LoginRequest{Email: email, Password: password})
			if err != nil {
				if remote.IsAuth(err) {
					return errors.New("invalid email or password")
				}
				return errors.New(remote.Message(err))
			}
			if token == "" {
				return errors.New("the events API did not return a token")
			}
			if err := app.Creds.Set(token); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", email)
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from standard input")

	return cmd
}

func readPassword(cmd *cobra.Command, configured string, fromStdin bool) (string, error) {
	if !fromStdin {
		if configured != "" {
			return configured, nil
		}
		return "", errors.New("no password: set EVENTCTL_PASSWORD or use --password-stdin")
	}
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", errors.New("empty password")
	}
	return password, nil
}

func NewLogoutCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Creds.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func NewWhoamiCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the account behind the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := app.token()
			if err != nil {
				return err
			}
			user, err := app.Client.Profile(cmd.Context(), token)
			if err != nil {
				return app.checkAuth(err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Name:    %s\n", user.Name)
			fmt.Fprintf(out, "Email:   %s\n", user.Email)
			if subject := session.Subject(token); subject != "" {
				fmt.Fprintf(out, "Subject: %s\n", subject)
			}
			return nil
		},
	}
}
