// Package intake watches a drop directory and deposits save files as they
// appear. Processed files are moved to deposited/ or rejected/ so the drop
// directory only ever holds work in flight.
package intake

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/TechnologicNick/scrap-mechanic-casino/internal/apperr"
	"github.com/TechnologicNick/scrap-mechanic-casino/internal/deposit"
	"github.com/TechnologicNick/scrap-mechanic-casino/internal/ledger"
)

const (
	depositedDir = "deposited"
	rejectedDir  = "rejected"

	// Saves arrive in multiple writes; a file is only read once no event
	// has touched it for this long.
	defaultSettle = 500 * time.Millisecond
)

// Watcher runs the deposit pipeline on every .db file dropped into root.
type Watcher struct {
	pipeline *deposit.Pipeline
	ledger   ledger.Submitter
	account  string
	root     string
	settle   time.Duration
	logger   *slog.Logger
}

// New builds a watcher depositing into account via sub. A non-positive
// settle falls back to the default write-quiet window.
func New(pipeline *deposit.Pipeline, sub ledger.Submitter, account, root string, settle time.Duration, logger *slog.Logger) *Watcher {
	if settle <= 0 {
		settle = defaultSettle
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		pipeline: pipeline,
		ledger:   sub,
		account:  account,
		root:     root,
		settle:   settle,
		logger:   logger,
	}
}

// Watch processes drop-directory events until ctx is cancelled. Files
// already present at startup are picked up first.
func (w *Watcher) Watch(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	for _, sub := range []string{depositedDir, rejectedDir} {
		if err := os.MkdirAll(filepath.Join(w.root, sub), 0o755); err != nil {
			return err
		}
	}
	if err := fw.Add(w.root); err != nil {
		return err
	}

	w.logger.Info("intake: started", slog.String("root", w.root))

	ready := make(chan string)
	pending := make(map[string]*time.Timer)
	defer func() {
		for _, t := range pending {
			t.Stop()
		}
	}()

	schedule := func(path string) {
		if t, ok := pending[path]; ok {
			t.Reset(w.settle)
			return
		}
		pending[path] = time.AfterFunc(w.settle, func() {
			select {
			case ready <- path:
			case <-ctx.Done():
			}
		})
	}

	// Pick up anything dropped while the watcher was down.
	entries, err := os.ReadDir(w.root)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".db") {
			schedule(filepath.Join(w.root, e.Name()))
		}
	}

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("intake: stopped")
			return nil

		case path := <-ready:
			delete(pending, path)
			w.process(ctx, path)

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !strings.HasSuffix(ev.Name, ".db") {
				continue
			}
			if filepath.Dir(ev.Name) != filepath.Clean(w.root) {
				continue
			}
			schedule(ev.Name)

		case watchErr, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("intake: watcher error", slog.String("error", watchErr.Error()))
		}
	}
}

// process values one dropped file and submits the result.
func (w *Watcher) process(ctx context.Context, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		w.logger.Warn("intake: read failed", slog.String("path", path), slog.String("error", err.Error()))
		return
	}
	sum := sha256.Sum256(data)
	log := w.logger.With(
		slog.String("file", filepath.Base(path)),
		slog.String("checksum", hex.EncodeToString(sum[:8])))

	out := w.pipeline.Run(data)
	if out.Err != nil {
		log.Warn("intake: save rejected", slog.String("error", out.Err.Error()))
		w.move(path, rejectedDir, log)
		return
	}

	err = w.ledger.SubmitDeposit(ctx, w.account, out.Result.Seed, out.Result.TotalCredits)
	switch {
	case errors.Is(err, apperr.ErrAlreadyRedeemed):
		log.Warn("intake: save already deposited", slog.Uint64("seed", uint64(out.Result.Seed)))
		w.move(path, rejectedDir, log)
	case err != nil:
		log.Error("intake: ledger submit failed", slog.String("error", err.Error()))
		w.move(path, rejectedDir, log)
	default:
		log.Info("intake: deposited",
			slog.Uint64("seed", uint64(out.Result.Seed)),
			slog.Uint64("total_credits", out.Result.TotalCredits))
		w.move(path, depositedDir, log)
	}
}

func (w *Watcher) move(path, sub string, log *slog.Logger) {
	dst := filepath.Join(w.root, sub, filepath.Base(path))
	if err := os.Rename(path, dst); err != nil {
		log.Warn("intake: move failed", slog.String("error", err.Error()))
	}
}
