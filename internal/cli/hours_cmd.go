package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/looply/looply-backend/internal/eod/domain"
	"github.com/spf13/cobra"
)

func newHoursCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "hours SHIFT [SHIFT...]",
		Short: "Compute worked hours for shifts written as START-END[/BREAK]",
		Example: `  looplyctl hours 08:00-16:00/60
  looplyctl hours 09:00-12:00 14:00-18:00/15
  looplyctl hours 22:00-06:00/30`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shifts := make([]domain.WorkShift, 0, len(args))
			for _, arg := range args {
				s, err := parseShiftArg(arg)
				if err != nil {
					return err
				}
				shifts = append(shifts, s)
			}

			total, err := domain.ComputeHours(shifts)
			if err != nil {
				return err
			}

			st := app.styles()
			out := cmd.OutOrStdout()
			for _, s := range shifts {
				h, _ := domain.ShiftHours(s)
				fmt.Fprintf(out, "%s  %s\n", st.render(st.dim, domain.FormatShift(s)), st.render(st.value, fmt.Sprintf("%.2fh", h)))
			}
			fmt.Fprintf(out, "%s %s\n", st.render(st.header, "Total:"), st.render(st.value, fmt.Sprintf("%.2fh", total)))
			return nil
		},
	}
}

// parseShiftArg reads START-END or START-END/BREAK
func parseShiftArg(arg string) (domain.WorkShift, error) {
	var s domain.WorkShift

	span, brk, hasBreak := strings.Cut(arg, "/")
	start, end, ok := strings.Cut(span, "-")
	if !ok {
		return s, fmt.Errorf("shift %q: expected START-END[/BREAK]", arg)
	}
	s.StartTime = strings.TrimSpace(start)
	s.EndTime = strings.TrimSpace(end)

	if hasBreak {
		minutes, err := strconv.Atoi(strings.TrimSpace(brk))
		if err != nil {
			return s, fmt.Errorf("shift %q: break must be whole minutes", arg)
		}
		s.BreakMinutes = minutes
	}
	return s, nil
}
