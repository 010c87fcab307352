package main

import (
	"context"
	"fmt"
	"os"
	_ "time/tzdata"

	"github.com/looply/looply-backend/internal/app"
	"github.com/looply/looply-backend/internal/cli"
	"github.com/looply/looply-backend/internal/seed"
	"github.com/looply/looply-backend/pkg/config"
	"github.com/looply/looply-backend/pkg/kvstore"
	"github.com/looply/looply-backend/pkg/logger"
	"github.com/looply/looply-backend/pkg/messaging"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()
	var closeStore func() error

	a := &cli.App{
		Styled: isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()),
		Connect: func(ctx context.Context) (*cli.Services, error) {
			cfg, err := config.Load("looplyctl")
			if err != nil {
				return nil, err
			}
			log := logger.NewWithWriter("looplyctl", cfg.Server.Environment, os.Stderr)

			store, err := kvstore.Open(ctx, &cfg.Storage, log)
			if err != nil {
				return nil, err
			}
			closeStore = store.Close

			wired := app.New(cfg, store, messaging.NopPublisher{}, log)
			return &cli.Services{
				EOD:    wired.EOD,
				Seeder: seed.NewSeeder(wired.Users, wired.Companies, wired.Employees, wired.Reports, log),
			}, nil
		},
	}

	err := cli.NewRootCmd(a).ExecuteContext(ctx)
	if closeStore != nil {
		closeStore()
	}
	return err
}
