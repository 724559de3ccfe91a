// Package internal provides the main application initialization and runtime
// logic: the intake watcher daemon and the one-shot value/deposit commands.
package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/TechnologicNick/scrap-mechanic-casino/internal/apperr"
	"github.com/TechnologicNick/scrap-mechanic-casino/internal/deposit"
	"github.com/TechnologicNick/scrap-mechanic-casino/internal/intake"
	"github.com/TechnologicNick/scrap-mechanic-casino/internal/ledger"
)

// newApplication applies options and sets up the logger.
func newApplication(opts []Option) (*application, error) {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if app.logger == nil {
		app.logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: app.config.App.LogLevel.Level,
		}))
	}
	slog.SetDefault(app.logger)
	return app, nil
}

// pipeline builds the deposit pipeline from the validated config.
func (a *application) pipeline() (*deposit.Pipeline, error) {
	policy, err := a.config.Policy.Policy()
	if err != nil {
		return nil, fmt.Errorf("build policy: %w", err)
	}
	table, err := a.config.PriceTable()
	if err != nil {
		return nil, fmt.Errorf("build price table: %w", err)
	}
	return deposit.NewPipeline(policy, table, a.logger), nil
}

// Run starts the intake watcher daemon and blocks until a shutdown signal
// or a fatal error.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg, logger := app.config, app.logger

	logger.Info("Configuration loaded",
		slog.String("ledger_path", cfg.Ledger.Path),
		slog.String("intake_path", cfg.Intake.Path),
		slog.String("intake_account", cfg.Intake.Account),
		slog.String("log_level", cfg.App.LogLevel.Level.String()))

	if err := os.MkdirAll(cfg.Intake.Path, 0o755); err != nil {
		return fmt.Errorf("create intake dir: %w", err)
	}

	led, err := ledger.Open(cfg.Ledger.Path)
	if err != nil {
		return fmt.Errorf("init ledger: %w", err)
	}
	defer led.Close()

	pipe, err := app.pipeline()
	if err != nil {
		return err
	}

	watcher := intake.New(pipe, led, cfg.Intake.Account, cfg.Intake.Path, 0, logger)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return watcher.Watch(gCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Watcher stopped successfully")
	return nil
}

// ValueFiles values each save file concurrently (every run opens its own
// store) and prints one JSON report per file, in argument order. It returns
// an error if any file failed validation.
func ValueFiles(ctx context.Context, paths []string, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	pipe, err := app.pipeline()
	if err != nil {
		return err
	}

	outcomes := make([]*deposit.Outcome, len(paths))
	readErrs := make([]error, len(paths))

	g, _ := errgroup.WithContext(ctx)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			data, err := os.ReadFile(path)
			if err != nil {
				readErrs[i] = err
				return nil
			}
			outcomes[i] = pipe.Run(data)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	var failed bool
	for i, path := range paths {
		report := map[string]any{"file": path}
		switch {
		case readErrs[i] != nil:
			report["error"] = readErrs[i].Error()
			failed = true
		case outcomes[i].Err != nil:
			report["state"] = outcomes[i].State.String()
			report["error"] = outcomes[i].Err.Error()
			if outcomes[i].SeedKnown {
				report["seed"] = outcomes[i].Seed
			}
			failed = true
		default:
			report["state"] = outcomes[i].State.String()
			report["result"] = outcomes[i].Result
		}
		if err := enc.Encode(report); err != nil {
			return err
		}
	}
	if failed {
		return fmt.Errorf("one or more save files failed validation")
	}
	return nil
}

// DepositFile values one save file and submits it to the ledger for the
// given account.
func DepositFile(ctx context.Context, path, account string, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	if account == "" {
		account = app.config.Intake.Account
	}
	pipe, err := app.pipeline()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read save file: %w", err)
	}
	out := pipe.Run(data)
	if out.Err != nil {
		return fmt.Errorf("save file rejected: %w", out.Err)
	}
	if out.Result.TotalCredits == 0 {
		app.logger.Warn("deposit: save has zero credit value, seed will be consumed anyway",
			slog.Uint64("seed", uint64(out.Result.Seed)))
	}

	led, err := ledger.Open(app.config.Ledger.Path)
	if err != nil {
		return fmt.Errorf("init ledger: %w", err)
	}
	defer led.Close()

	if err := led.SubmitDeposit(ctx, account, out.Result.Seed, out.Result.TotalCredits); err != nil {
		if errors.Is(err, apperr.ErrAlreadyRedeemed) {
			return fmt.Errorf("this save file has already been deposited: %w", err)
		}
		return fmt.Errorf("submit deposit: %w", err)
	}

	app.logger.Info("deposit: credited",
		slog.String("account", account),
		slog.Uint64("seed", uint64(out.Result.Seed)),
		slog.Uint64("total_credits", out.Result.TotalCredits))
	return nil
}
