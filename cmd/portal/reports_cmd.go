package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"workportal/internal/client"
	"workportal/internal/domain/directory"
	"workportal/internal/domain/workreports"
	"workportal/internal/portal/board"
	"workportal/internal/portal/resolver"
)

const tableDetailsWidth = 60

type filterFlags struct {
	department, team, manager, from, to string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.department, "department", "", "Filter by department")
	cmd.Flags().StringVar(&f.team, "team", "", "Filter by team")
	cmd.Flags().StringVar(&f.manager, "manager", "", "Filter by reporting manager")
	cmd.Flags().StringVar(&f.from, "from", "", "From date YYYY-MM-DD")
	cmd.Flags().StringVar(&f.to, "to", "", "To date YYYY-MM-DD")
}

func (f *filterFlags) filters() board.Filters {
	return board.Filters{}.
		WithDepartment(f.department).
		WithTeam(f.team).
		WithManager(f.manager).
		WithDates(f.from, f.to)
}

// resolve builds the filters and checks department, team and manager against
// the directory. An unreachable directory skips the checks.
func (f *filterFlags) resolve(cmd *cobra.Command, p *portal) (board.Filters, error) {
	filters := f.filters()
	if f.department == "" && f.team == "" && f.manager == "" {
		return filters, nil
	}
	identity, _ := p.session.Identity()
	res := resolver.New(p.session.Public(), identity)
	if err := res.Fetch(cmd.Context()); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning:", err)
	}
	dir := res.Directory()
	if len(dir) == 0 {
		return filters, nil
	}

	if !directory.IsSentinel(filters.Department) && !slices.Contains(res.Departments(), filters.Department) {
		return board.Filters{}, fmt.Errorf("unknown department %q", filters.Department)
	}
	if !directory.IsSentinel(filters.Team) {
		if directory.IsSentinel(filters.Department) {
			return board.Filters{}, errors.New("--team needs --department")
		}
		if !slices.Contains(board.TeamChoices(dir, filters), filters.Team) {
			return board.Filters{}, fmt.Errorf("unknown team %q in %s", filters.Team, filters.Department)
		}
	}
	if !directory.IsSentinel(filters.Manager) {
		choices := board.ManagerChoices(dir, filters)
		if directory.IsSentinel(filters.Team) {
			choices = res.AllManagers()
		}
		choices = append(choices, res.Escalation()...)
		if !slices.Contains(choices, filters.Manager) {
			return board.Filters{}, fmt.Errorf("unknown reporting manager %q", filters.Manager)
		}
	}
	return filters, nil
}

func newReportsCmd(p *portal) *cobra.Command {
	var (
		filters     filterFlags
		format, out string
	)
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "List or export reports (managers see the team, employees their own)",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := p.signedIn()
			if err != nil {
				return err
			}
			f, err := filters.resolve(cmd, p)
			if err != nil {
				return err
			}
			if format != "table" {
				var file client.File
				if p.session.IsManager() {
					b := board.New(p.session)
					if err := b.Refresh(cmd.Context(), f); err != nil {
						return err
					}
					file, err = b.Export(cmd.Context(), format)
				} else {
					file, err = api.ExportReports(cmd.Context(), format, f.Query())
					err = p.session.Observe(err)
				}
				if err != nil {
					return err
				}
				return writeFile(cmd, out, file)
			}

			var reports []workreports.Report
			if p.session.IsManager() {
				b := board.New(p.session)
				if err := b.Refresh(cmd.Context(), f); err != nil {
					return err
				}
				reports = b.Reports()
			} else {
				reports, err = api.ListReports(cmd.Context(), f.Query())
				if err != nil {
					return p.session.Observe(err)
				}
			}
			printReports(cmd.OutOrStdout(), reports)
			return nil
		},
	}
	filters.register(cmd)
	cmd.Flags().StringVar(&format, "format", "table", "table, csv, pdf or xlsx")
	cmd.Flags().StringVar(&out, "out", "", "Output file for exports (defaults to the server's file name)")
	return cmd
}

func printReports(w io.Writer, reports []workreports.Report) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\t"+strings.Join(workreports.RowHeader, "\t"))
	for _, r := range reports {
		for _, row := range workreports.TableRows([]workreports.Report{r}, tableDetailsWidth) {
			fmt.Fprintln(tw, r.ID+"\t"+strings.Join(row.Fields(), "\t"))
		}
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "%d report(s)\n", len(reports))
}

func writeFile(cmd *cobra.Command, path string, file client.File) error {
	if path == "" {
		path = file.Name
	}
	if path == "" {
		return errors.New("no output file name: use --out")
	}
	if path == "-" {
		_, err := cmd.OutOrStdout().Write(file.Body)
		return err
	}
	if err := os.WriteFile(path, file.Body, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes)\n", path, len(file.Body))
	return nil
}

func newSummaryCmd(p *portal) *cobra.Command {
	var filters filterFlags
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Summarize team reports by status (managers only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := p.signedIn(); err != nil {
				return err
			}
			f, err := filters.resolve(cmd, p)
			if err != nil {
				return err
			}
			b := board.New(p.session)
			if err := b.Refresh(cmd.Context(), f); err != nil {
				return err
			}
			s := b.Summary()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Total reports: %d\n", s.TotalReports)
			statuses := make([]string, 0, len(s.CountsByStatus))
			for status := range s.CountsByStatus {
				statuses = append(statuses, status)
			}
			sort.Strings(statuses)
			for _, status := range statuses {
				fmt.Fprintf(out, "  %s: %d\n", status, s.CountsByStatus[status])
			}
			return nil
		},
	}
	filters.register(cmd)
	return cmd
}

func newEditCmd(p *portal) *cobra.Command {
	var taskSpecs []string
	cmd := &cobra.Command{
		Use:   "edit <report-id>",
		Short: "Replace a report's tasks (managers only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := p.signedIn(); err != nil {
				return err
			}
			tasks, err := parseTasks(taskSpecs, directory.DefaultStatusOptions())
			if err != nil {
				return err
			}
			if len(tasks) == 0 {
				return errors.New("at least one --task is required")
			}
			b := board.New(p.session)
			if err := b.Refresh(cmd.Context(), board.Filters{}); err != nil {
				return err
			}
			if err := b.StartEdit(args[0]); err != nil {
				return err
			}
			for i, t := range tasks {
				if err := b.SetTask(i, t.Details, t.Status); err != nil {
					return err
				}
			}
			for len(b.EditTasks()) > len(tasks) {
				if err := b.RemoveTask(len(b.EditTasks()) - 1); err != nil {
					return err
				}
			}
			if err := b.SaveEdit(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Report updated successfully")
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&taskSpecs, "task", nil, `Task as "details=status" (repeatable)`)
	return cmd
}

func newDeleteCmd(p *portal) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <report-id>",
		Short: "Delete a report after confirmation (managers only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := p.signedIn(); err != nil {
				return err
			}
			b := board.New(p.session)
			if err := b.Refresh(cmd.Context(), board.Filters{}); err != nil {
				return err
			}
			if err := b.RequestDelete(args[0]); err != nil {
				return err
			}
			confirmed := yes
			if !confirmed {
				answer, err := readLine(cmd.InOrStdin(), cmd.OutOrStdout(), "Are you sure you want to delete this report? [y/N] ")
				if err != nil && !errors.Is(err, io.EOF) {
					return err
				}
				answer = strings.ToLower(strings.TrimSpace(answer))
				confirmed = answer == "y" || answer == "yes"
			}
			if err := b.ConfirmDelete(cmd.Context(), confirmed); err != nil {
				return err
			}
			if confirmed {
				fmt.Fprintln(cmd.OutOrStdout(), "Report deleted successfully")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Delete cancelled")
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
