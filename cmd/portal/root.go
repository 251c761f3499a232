package main

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"workportal/internal/client"
	"workportal/internal/platform/config"
	"workportal/internal/portal/localstore"
	"workportal/internal/portal/session"
)

// portal is the state shared by every command of one invocation.
type portal struct {
	serverURL string
	statePath string
	timezone  string
	timeout   time.Duration

	session  *session.Manager
	location *time.Location
}

func newRootCmd() *cobra.Command {
	cfg := config.Load()
	p := &portal{}

	cmd := &cobra.Command{
		Use:           "portal",
		Short:         "Daily work reporting portal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return p.open(cmd)
		},
	}
	cmd.PersistentFlags().StringVar(&p.serverURL, "server", cfg.PortalURL, "Portal server URL (PORTAL_URL)")
	cmd.PersistentFlags().StringVar(&p.statePath, "state", "", "State file (default $XDG_CONFIG_HOME/workportal/state.yaml)")
	cmd.PersistentFlags().StringVar(&p.timezone, "timezone", cfg.Timezone, "Timezone used for today's date")
	cmd.PersistentFlags().DurationVar(&p.timeout, "timeout", 30*time.Second, "HTTP timeout for server calls")

	cmd.AddCommand(
		newLoginCmd(p),
		newSignupCmd(p),
		newLogoutCmd(p),
		newWhoamiCmd(p),
		newThemeCmd(p),
		newDirectoryCmd(p),
		newManagersCmd(p),
		newSubmitCmd(p),
		newReportsCmd(p),
		newSummaryCmd(p),
		newEditCmd(p),
		newDeleteCmd(p),
		newAttendanceCmd(p),
	)
	return cmd
}

func (p *portal) open(cmd *cobra.Command) error {
	api, err := client.New(p.serverURL, client.WithHTTPClient(&http.Client{Timeout: p.timeout}))
	if err != nil {
		return err
	}
	path := p.statePath
	if path == "" {
		if path, err = localstore.DefaultPath(); err != nil {
			return err
		}
	}
	p.location = time.UTC
	if p.timezone != "" {
		loc, err := time.LoadLocation(p.timezone)
		if err != nil {
			return fmt.Errorf("invalid --timezone: %w", err)
		}
		p.location = loc
	}
	p.session = session.New(api, localstore.Open(path))
	p.session.Restore(cmd.Context())
	return nil
}

// signedIn returns the authorized client or a hint to log in.
func (p *portal) signedIn() (*client.Client, error) {
	api, err := p.session.Authorized()
	if errors.Is(err, session.ErrNotAuthenticated) {
		return nil, errors.New("not logged in: run `portal login` first")
	}
	return api, err
}

func (p *portal) today() string {
	return time.Now().In(p.location).Format("2006-01-02")
}
