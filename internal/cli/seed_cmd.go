package cli

import (
	"fmt"
	"sort"

	"github.com/looply/looply-backend/internal/seed"
	"github.com/looply/looply-backend/pkg/config"
	"github.com/spf13/cobra"
)

func newSeedCmd(app *App) *cobra.Command {
	var employeeMode bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the Acme Inc demo company, replacing earlier demo data",
		RunE: func(cmd *cobra.Command, args []string) error {
			if config.IsProductionLike() {
				return fmt.Errorf("refusing to seed demo data in %s", config.GetEnvironment())
			}

			svc, err := app.connect(cmd.Context())
			if err != nil {
				return err
			}

			res, err := svc.Seeder.Seed(cmd.Context(), seed.Options{EmployeeMode: employeeMode})
			if err != nil {
				return err
			}

			st := app.styles()
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, st.render(st.header, fmt.Sprintf("Seeded %s: %d employees, %d reports", res.CompanyID, res.Employees, res.Reports)))
			fmt.Fprintf(out, "  employer login  %s / %s\n", st.render(st.value, seed.EmployerEmail), st.render(st.value, seed.DemoPassword))

			names := make([]string, 0, len(res.AccessCodes))
			for name := range res.AccessCodes {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(out, "  %-20s %s\n", st.render(st.dim, name), st.render(st.value, res.AccessCodes[name]))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&employeeMode, "employee-mode", false, "also load a personal history and today's draft for the demo employee")
	return cmd
}
