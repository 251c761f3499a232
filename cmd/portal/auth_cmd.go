package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"workportal/internal/domain/auth"
	"workportal/internal/portal/session"
)

func readLine(in io.Reader, out io.Writer, prompt string) (string, error) {
	fmt.Fprint(out, prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newLoginCmd(p *portal) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				var err error
				if password, err = readLine(cmd.InOrStdin(), cmd.OutOrStdout(), "Password: "); err != nil {
					return err
				}
			}
			res := p.session.Login(cmd.Context(), email, password)
			if !res.OK {
				return errors.New(res.Message)
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Message)
			return printIdentity(cmd, p.session)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account email (required)")
	cmd.Flags().StringVar(&password, "password", "", "Password (prompted when empty)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newSignupCmd(p *portal) *cobra.Command {
	var profile session.Profile
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			if profile.Password == "" {
				var err error
				if profile.Password, err = readLine(cmd.InOrStdin(), cmd.OutOrStdout(), "Password: "); err != nil {
					return err
				}
			}
			res := p.session.Signup(cmd.Context(), profile)
			if !res.OK {
				return errors.New(res.Message)
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Message)
			return printIdentity(cmd, p.session)
		},
	}
	cmd.Flags().StringVar(&profile.Name, "name", "", "Full name (required)")
	cmd.Flags().StringVar(&profile.Email, "email", "", "Account email (required)")
	cmd.Flags().StringVar(&profile.Password, "password", "", "Password (prompted when empty)")
	cmd.Flags().StringVar(&profile.Role, "role", auth.RoleEmployee, "employee or manager")
	cmd.Flags().StringVar(&profile.Department, "department", "", "Home department")
	cmd.Flags().StringVar(&profile.Team, "team", "", "Home team")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newLogoutCmd(p *portal) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			p.session.Logout()
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newWhoamiCmd(p *portal) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := printIdentity(cmd, p.session); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Server: %s\n", p.session.Public().BaseURL())
			return nil
		},
	}
}

func printIdentity(cmd *cobra.Command, sess *session.Manager) error {
	user, ok := sess.Identity()
	if !ok {
		return errors.New("not logged in")
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s <%s> (%s)\n", user.Name, user.Email, user.Role)
	if user.Department != "" {
		fmt.Fprintf(out, "%s / %s\n", user.Department, user.Team)
	}
	return nil
}

func newThemeCmd(p *portal) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark]",
		Short:     "Show or set the preferred theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{session.ThemeLight, session.ThemeDark},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if err := p.session.SetTheme(args[0]); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), p.session.Theme())
			return nil
		},
	}
}
