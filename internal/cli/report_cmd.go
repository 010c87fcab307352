package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/looply/looply-backend/internal/eod/domain"
	"github.com/spf13/cobra"
)

func newStatsCmd(app *App) *cobra.Command {
	var companyID, date string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show dashboard numbers for a company",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := app.connect(cmd.Context())
			if err != nil {
				return err
			}

			var stats *domain.DashboardStats
			if date == "" {
				if date, err = svc.EOD.Today(cmd.Context(), companyID); err != nil {
					return err
				}
			}
			if stats, err = svc.EOD.StatsForDate(cmd.Context(), companyID, date); err != nil {
				return err
			}

			st := app.styles()
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, st.render(st.header, fmt.Sprintf("EOD stats for %s on %s", companyID, date)))
			rows := []struct {
				label string
				value string
			}{
				{"Submitted", fmt.Sprintf("%d", stats.TotalSubmissions)},
				{"Pending", fmt.Sprintf("%d", stats.PendingEODs)},
				{"Active employees", fmt.Sprintf("%d", stats.ActiveEmployees)},
				{"Average hours", fmt.Sprintf("%.2f", stats.AverageHours)},
			}
			for _, r := range rows {
				fmt.Fprintf(out, "  %-18s %s\n", st.render(st.dim, r.label), st.render(st.value, r.value))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&companyID, "company", "", "company ID")
	cmd.Flags().StringVar(&date, "date", "", "YYYY-MM-DD (defaults to today in the company's timezone)")
	_ = cmd.MarkFlagRequired("company")
	return cmd
}

func newExportCmd(app *App) *cobra.Command {
	var (
		companyID string
		filter    domain.Filter
		status    string
		output    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a company's reports as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := app.connect(cmd.Context())
			if err != nil {
				return err
			}

			filter.Status = domain.Status(status)
			csv, err := svc.EOD.ExportCSV(cmd.Context(), companyID, filter)
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				if !strings.HasSuffix(csv, "\n") {
					csv += "\n"
				}
				_, err = fmt.Fprint(cmd.OutOrStdout(), csv)
				return err
			}
			if err := os.WriteFile(output, []byte(csv), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			st := app.styles()
			fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", st.render(st.dim, "wrote"), output)
			return nil
		},
	}

	cmd.Flags().StringVar(&companyID, "company", "", "company ID")
	cmd.Flags().StringVar(&filter.EmployeeID, "employee", "", "only this employee")
	cmd.Flags().StringVar(&filter.StartDate, "from", "", "first date, YYYY-MM-DD")
	cmd.Flags().StringVar(&filter.EndDate, "to", "", "last date, YYYY-MM-DD")
	cmd.Flags().StringVar(&status, "status", "", "draft or submitted")
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write (default stdout)")
	_ = cmd.MarkFlagRequired("company")
	return cmd
}
