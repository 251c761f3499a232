package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newAttendanceCmd(p *portal) *cobra.Command {
	var date, pdfPath string
	cmd := &cobra.Command{
		Use:   "attendance",
		Short: "Show who reported per manager for a day (managers only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := p.signedIn()
			if err != nil {
				return err
			}
			if date == "" {
				date = p.today()
			}
			if pdfPath != "" {
				file, err := api.AttendancePDF(cmd.Context(), date)
				if err != nil {
					return p.session.Observe(err)
				}
				if err := os.WriteFile(pdfPath, file.Body, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", pdfPath, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", pdfPath)
				return nil
			}

			summary, err := api.Attendance(cmd.Context(), date)
			if err != nil {
				return p.session.Observe(err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Attendance for %s\n", summary.Date)
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "Manager\tTotal\tPresent\tAbsent\tPresent employees")
			for _, manager := range summary.Managers() {
				m := summary.Summary[manager]
				fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\n", manager, m.TotalResources, m.Present, m.Absent, strings.Join(m.PresentEmployees, ", "))
			}
			totals := summary.Totals()
			fmt.Fprintf(tw, "Total\t%d\t%d\t%d\t\n", totals.TotalResources, totals.Present, totals.Absent)
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Date YYYY-MM-DD (defaults to today)")
	cmd.Flags().StringVar(&pdfPath, "pdf", "", "Write the summary as a PDF to this file")
	return cmd
}
