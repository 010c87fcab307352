package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	eodservice "github.com/looply/looply-backend/internal/eod/service"
	"github.com/looply/looply-backend/internal/seed"
	"github.com/spf13/cobra"
)

// Services are the storage-backed collaborators some commands need
type Services struct {
	EOD    *eodservice.EODService
	Seeder *seed.Seeder
}

// App holds what commands run against. Connect is called lazily so that
// commands like hours work without any storage configured.
type App struct {
	Connect func(ctx context.Context) (*Services, error)
	Styled  bool

	services *Services
}

func (a *App) connect(ctx context.Context) (*Services, error) {
	if a.services != nil {
		return a.services, nil
	}
	if a.Connect == nil {
		return nil, fmt.Errorf("no storage configured")
	}
	s, err := a.Connect(ctx)
	if err != nil {
		return nil, fmt.Errorf("connecting to storage: %w", err)
	}
	a.services = s
	return s, nil
}

// NewRootCmd creates the top-level "looplyctl" command
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "looplyctl",
		Short:         "Operate a Looply deployment from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newHoursCmd(app),
		newStatsCmd(app),
		newExportCmd(app),
		newSeedCmd(app),
	)

	return root
}

var (
	colorHeader = lipgloss.Color("86")
	colorValue  = lipgloss.Color("170")
	colorDim    = lipgloss.Color("241")
)

type styles struct {
	enabled bool
	header  lipgloss.Style
	value   lipgloss.Style
	dim     lipgloss.Style
}

func (a *App) styles() styles {
	return styles{
		enabled: a.Styled,
		header:  lipgloss.NewStyle().Foreground(colorHeader).Bold(true),
		value:   lipgloss.NewStyle().Foreground(colorValue),
		dim:     lipgloss.NewStyle().Foreground(colorDim),
	}
}

func (s styles) render(style lipgloss.Style, text string) string {
	if !s.enabled {
		return text
	}
	return style.Render(text)
}
