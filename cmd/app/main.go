package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/TechnologicNick/scrap-mechanic-casino/internal"
	pkgconfig "github.com/TechnologicNick/scrap-mechanic-casino/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadWithDefaults(cmd.String("config"), "", cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func main() {
	cmd := &cli.Command{
		Name:  "casino",
		Usage: "Values uploaded save files and converts their inventory into ledger credits",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file",
				Value:   "config/config.yaml",
				Sources: cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "value",
				Usage:     "Validate save files and print their credit value without depositing",
				ArgsUsage: "<save.db> [more...]",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					paths := cmd.Args().Slice()
					if len(paths) == 0 {
						return fmt.Errorf("at least one save file is required")
					}
					cfg, err := loadConfig(cmd)
					if err != nil {
						return err
					}
					return internal.ValueFiles(ctx, paths, internal.WithConfig(cfg))
				},
			},
			{
				Name:      "deposit",
				Usage:     "Validate a save file and credit its value to an account",
				ArgsUsage: "<save.db>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "account",
						Usage: "Account to credit (defaults to the intake account)",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() != 1 {
						return fmt.Errorf("exactly one save file is required")
					}
					cfg, err := loadConfig(cmd)
					if err != nil {
						return err
					}
					return internal.DepositFile(ctx, cmd.Args().First(), cmd.String("account"),
						internal.WithConfig(cfg))
				},
			},
			{
				Name:  "watch",
				Usage: "Watch the intake directory and deposit save files as they appear",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg, err := loadConfig(cmd)
					if err != nil {
						return err
					}
					if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
						return fmt.Errorf("app run error: %w", err)
					}
					return nil
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
