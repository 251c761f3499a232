package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"workportal/internal/domain/directory"
	"workportal/internal/domain/workreports"
	"workportal/internal/portal/resolver"
	"workportal/internal/portal/submission"
)

// parseTasks reads "details=status" flags. The text after the last "=" is a
// status only when it names one of statuses; otherwise the whole flag is the
// details and the status defaults to WIP.
func parseTasks(flags, statuses []string) ([]workreports.Task, error) {
	tasks := make([]workreports.Task, 0, len(flags))
	for _, raw := range flags {
		details, status := raw, directory.StatusWIP
		if i := strings.LastIndex(raw, "="); i >= 0 {
			if known, ok := matchStatus(raw[i+1:], statuses); ok {
				details, status = raw[:i], known
			}
		}
		details = strings.TrimSpace(details)
		if details == "" {
			return nil, fmt.Errorf("task %q has no details", raw)
		}
		tasks = append(tasks, workreports.Task{Details: details, Status: status})
	}
	return tasks, nil
}

func matchStatus(value string, statuses []string) (string, bool) {
	value = strings.TrimSpace(value)
	for _, s := range statuses {
		if strings.EqualFold(s, value) {
			return s, true
		}
	}
	return "", false
}

func newDirectoryCmd(p *portal) *cobra.Command {
	return &cobra.Command{
		Use:   "directory",
		Short: "List departments, teams and reporting managers",
		RunE: func(cmd *cobra.Command, args []string) error {
			identity, _ := p.session.Identity()
			res := resolver.New(p.session.Public(), identity)
			if err := res.Fetch(cmd.Context()); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning:", err)
			}
			out := cmd.OutOrStdout()
			for _, dept := range res.Departments() {
				fmt.Fprintln(out, dept)
				for _, team := range res.TeamsFor(dept) {
					fmt.Fprintf(out, "  %s: %s\n", team, strings.Join(res.ManagersFor(dept, team), ", "))
				}
			}
			fmt.Fprintf(out, "Escalation: %s\n", strings.Join(res.Escalation(), ", "))
			fmt.Fprintf(out, "Statuses: %s\n", strings.Join(res.StatusOptions(), ", "))
			return nil
		},
	}
}

func newManagersCmd(p *portal) *cobra.Command {
	return &cobra.Command{
		Use:   "managers",
		Short: "List registered manager accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := p.signedIn()
			if err != nil {
				return err
			}
			managers, err := api.Managers(cmd.Context())
			if err != nil {
				return p.session.Observe(err)
			}
			out := cmd.OutOrStdout()
			for _, m := range managers {
				fmt.Fprintf(out, "%s <%s>\n", m.Name, m.Email)
			}
			fmt.Fprintf(out, "%d manager(s)\n", len(managers))
			return nil
		},
	}
}

func newSubmitCmd(p *portal) *cobra.Command {
	var (
		name, date, department, team, manager string
		taskSpecs                             []string
	)
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit today's work report",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := p.signedIn(); err != nil {
				return err
			}
			identity, _ := p.session.Identity()
			res := resolver.New(p.session.Public(), identity)
			if err := res.Fetch(cmd.Context()); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning:", err)
			}

			sel := res.Defaults()
			if department != "" {
				if sel.Locked && department != sel.Department {
					return fmt.Errorf("department is fixed to %s by your profile", sel.Department)
				}
				sel = sel.WithDepartment(department)
			}
			if team != "" {
				if sel.Locked && team != sel.Team {
					return fmt.Errorf("team is fixed to %s by your profile", sel.Team)
				}
				sel = sel.WithTeam(team)
			}
			if manager != "" {
				sel = sel.WithManager(manager)
			} else if sel.Manager == "" {
				if managers := res.ManagersFor(sel.Department, sel.Team); len(managers) > 0 {
					sel = sel.WithManager(managers[0])
				}
			}

			if name == "" {
				name = identity.Name
			}
			if date == "" {
				date = p.today()
			}
			statuses := res.StatusOptions()
			if len(statuses) == 0 {
				statuses = directory.DefaultStatusOptions()
			}
			tasks, err := parseTasks(taskSpecs, statuses)
			if err != nil {
				return err
			}

			draft := submission.NewDraft(name, sel, date)
			for i, task := range tasks {
				id := draft.Tasks()[0].ID
				if i > 0 {
					id = draft.AddTask()
				}
				if err := draft.UpdateTask(id, task.Details, task.Status); err != nil {
					return err
				}
			}

			outcome := submission.NewSubmitter(p.session, res.StatusOptions()).Submit(cmd.Context(), draft)
			for _, issue := range outcome.Issues {
				fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %s\n", issue.Field, issue.Reason)
			}
			if !outcome.OK {
				return errors.New(outcome.Message)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (id %s)\n", outcome.Message, outcome.ReportID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Employee name (defaults to your profile)")
	cmd.Flags().StringVar(&date, "date", "", "Report date YYYY-MM-DD (defaults to today)")
	cmd.Flags().StringVar(&department, "department", "", "Department")
	cmd.Flags().StringVar(&team, "team", "", "Team")
	cmd.Flags().StringVar(&manager, "manager", "", "Reporting manager")
	cmd.Flags().StringArrayVar(&taskSpecs, "task", nil, `Task as "details=status" (repeatable)`)
	return cmd
}
