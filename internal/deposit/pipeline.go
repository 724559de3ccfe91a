// Package deposit orchestrates validation of an uploaded save archive:
// open the store, gate on savegame version and game mode, decode every
// container, and aggregate inventory into a credit total. The first unmet
// precondition ends the run; nothing is retried and aggregation never runs
// after a failed gate.
package deposit

import (
	"fmt"
	"log/slog"

	"github.com/TechnologicNick/scrap-mechanic-casino/internal/apperr"
	"github.com/TechnologicNick/scrap-mechanic-casino/internal/savegame"
	"github.com/TechnologicNick/scrap-mechanic-casino/internal/valuation"
)

// State is a pipeline run's progress marker.
type State int

const (
	StateIdle State = iota
	StateStoreOpened
	StateVersionChecked
	StateModeChecked
	StateItemsAggregated
	StateReady
	StateFailed
)

var stateNames = [...]string{
	"idle",
	"store_opened",
	"version_checked",
	"mode_checked",
	"items_aggregated",
	"ready",
	"failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// Policy configures the redeemability gates. The version range is inclusive
// on both ends.
type Policy struct {
	VersionMin   int
	VersionMax   int
	AllowedModes []savegame.GameMode
}

func (p Policy) allows(mode savegame.GameMode) bool {
	for _, m := range p.AllowedModes {
		if m == mode {
			return true
		}
	}
	return false
}

// VersionError reports a savegame version outside the supported range.
type VersionError struct {
	Found, Min, Max int
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("savegame version %d outside supported range %d..%d", e.Found, e.Min, e.Max)
}

func (e *VersionError) Unwrap() error { return apperr.ErrUnsupportedVersion }

// ModeError reports a game mode outside the redeemable set.
type ModeError struct {
	Found savegame.GameMode
}

func (e *ModeError) Error() string {
	return fmt.Sprintf("game mode %s is not redeemable", e.Found)
}

func (e *ModeError) Unwrap() error { return apperr.ErrDisallowedMode }

// Outcome is the result of one pipeline run. Seed is read together with
// version and mode right after the store opens, so SeedKnown is true even
// when a later gate fails and callers can still surface the seed.
type Outcome struct {
	State     State
	Seed      uint32
	SeedKnown bool
	Result    *valuation.DepositResult
	Err       error
}

// Pipeline values uploaded saves. One Pipeline serves the whole process;
// each Run opens its own Store, so concurrent runs do not interfere.
type Pipeline struct {
	policy Policy
	prices *valuation.PriceTable
	logger *slog.Logger
}

// NewPipeline builds a pipeline from policy and prices.
func NewPipeline(policy Policy, prices *valuation.PriceTable, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{policy: policy, prices: prices, logger: logger}
}

// Run validates one uploaded save image and produces its deposit value.
// The store is released on every exit path.
func (p *Pipeline) Run(data []byte) *Outcome {
	out := &Outcome{State: StateIdle}

	store, err := savegame.Open(data)
	if err != nil {
		return p.fail(out, err)
	}
	defer store.Close()
	out.State = StateStoreOpened

	meta, err := store.Metadata()
	if err != nil {
		return p.fail(out, err)
	}
	out.Seed, out.SeedKnown = meta.Seed, true

	if meta.Version < p.policy.VersionMin || meta.Version > p.policy.VersionMax {
		return p.fail(out, &VersionError{Found: meta.Version, Min: p.policy.VersionMin, Max: p.policy.VersionMax})
	}
	out.State = StateVersionChecked

	if !p.policy.allows(meta.Mode) {
		return p.fail(out, &ModeError{Found: meta.Mode})
	}
	out.State = StateModeChecked

	containers, err := store.Containers()
	if err != nil {
		return p.fail(out, err)
	}
	total, items := valuation.Aggregate(containers, p.prices)
	out.State = StateItemsAggregated

	out.Result = &valuation.DepositResult{
		Seed:         meta.Seed,
		TotalCredits: total,
		LineItems:    items,
	}
	out.State = StateReady

	p.logger.Info("deposit: save valued",
		slog.Uint64("seed", uint64(meta.Seed)),
		slog.Uint64("total_credits", total),
		slog.Int("line_items", len(items)))

	return out
}

// fail logs the state the run died in and moves it to the absorbing state.
func (p *Pipeline) fail(out *Outcome, err error) *Outcome {
	p.logger.Warn("deposit: save rejected",
		slog.String("state", out.State.String()),
		slog.String("error", err.Error()))
	out.State = StateFailed
	out.Err = err
	return out
}
