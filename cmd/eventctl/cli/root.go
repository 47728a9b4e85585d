// Package cli implements eventctl, the command line client for the events
// API.
package cli

import (
	"errors"
	"fmt"
	"io"

	"eventdesk/internal/remote"
	"eventdesk/internal/session"
	"eventdesk/pkg/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type VersionInfo struct {
	Version string
	Commit  string
}

var errNotLoggedIn = errors.New("not logged in, run \"eventctl login\" first")

// App is the state shared by every command once configuration is loaded.
type App struct {
	Client *remote.Client
	Creds  session.Credentials
	Log    *logger.Logger

	password string
}

// token returns the stored credential or errNotLoggedIn.
func (a *App) token() (string, error) {
	token, ok := a.Creds.Token()
	if !ok {
		return "", errNotLoggedIn
	}
	return token, nil
}

// checkAuth drops the stored credential when the API rejected it.
func (a *App) checkAuth(err error) error {
	if !remote.IsAuth(err) {
		return err
	}
	if clearErr := a.Creds.Clear(); clearErr != nil {
		a.Log.WithError(clearErr).Warn("failed to remove token file")
	}
	return errors.New("session expired, run \"eventctl login\" again")
}

// NewRootCommand builds eventctl with every subcommand attached.
func NewRootCommand(info VersionInfo) *cobra.Command {
	var path string
	v := viper.New()
	setDefaults(v)
	app := &App{}

	cmd := &cobra.Command{
		Use:           "eventctl",
		Short:         "Command line client for the events API",
		Long:          "eventctl lists, searches and manages events on the events API using the same filter rules as the web front end.",
		SilenceErrors: true,
		SilenceUsage:  true,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(v, path); err != nil {
				return err
			}
			return app.configure(v, cmd.ErrOrStderr())
		},
	}

	cmd.PersistentFlags().StringVar(&path, "config", "", "config file (default is ./eventctl.yaml)")
	cmd.PersistentFlags().String("api-url", "", "events API base URL")
	cmd.PersistentFlags().String("token-file", "", "where the session token is stored")
	cmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")

	_ = v.BindPFlag(keyAPIURL, cmd.PersistentFlags().Lookup("api-url"))
	_ = v.BindPFlag(keyTokenFile, cmd.PersistentFlags().Lookup("token-file"))
	_ = v.BindPFlag(keyLogLevel, cmd.PersistentFlags().Lookup("log-level"))

	cmd.Version = fmt.Sprintf("%s.%s", info.Version, info.Commit)

	cmd.AddCommand(NewLoginCommand(app))
	cmd.AddCommand(NewLogoutCommand(app))
	cmd.AddCommand(NewWhoamiCommand(app))
	cmd.AddCommand(NewEventsCommand(app))

	return cmd
}

func (a *App) configure(v *viper.Viper, stderr io.Writer) error {
	a.Log = logger.NewWithWriter(stderr, logger.ParseLevel(v.GetString(keyLogLevel)), false, false)

	baseURL := v.GetString(keyAPIURL)
	if baseURL == "" {
		return errors.New("api.url is not configured")
	}
	a.Client = remote.New(remote.Config{
		BaseURL:     baseURL,
		Timeout:     v.GetDuration(keyAPITimeout),
		TokenHeader: v.GetString(keyTokenHeader),
	})
	a.Creds = session.NewFileCredentials(v.GetString(keyTokenFile))
	a.password = v.GetString(keyPassword)
	return nil
}
