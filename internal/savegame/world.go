package savegame

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/TechnologicNick/scrap-mechanic-casino/internal/apperr"
)

// GameMode is the world's game-mode flag.
type GameMode int

// Known game modes. Only values on a policy allow-list are redeemable.
const (
	ModeCreative GameMode = iota
	ModeChallenge
	ModeSurvival
	ModeCustom
)

var modeNames = map[GameMode]string{
	ModeCreative:  "creative",
	ModeChallenge: "challenge",
	ModeSurvival:  "survival",
	ModeCustom:    "custom",
}

func (m GameMode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseGameMode maps a config name to a mode value.
func ParseGameMode(s string) (GameMode, error) {
	for m, name := range modeNames {
		if name == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("savegame: unknown game mode %q", s)
}

// WorldMetadata is the singleton world row.
type WorldMetadata struct {
	Version int
	Seed    uint32
	Tick    uint32
	Mode    GameMode
}

// Metadata reads the singleton world row in one query.
func (s *Store) Metadata() (*WorldMetadata, error) {
	var m WorldMetadata
	err := s.conn.QueryRow(`SELECT savegameversion, seed, gametick, flags FROM Game`).
		Scan(&m.Version, &m.Seed, &m.Tick, &m.Mode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("savegame: read world row: %w", apperr.ErrMissingWorldRow)
		}
		return nil, fmt.Errorf("savegame: read world row: %w", err)
	}
	return &m, nil
}

// scalar reads a single world column; an absent row is ErrMissingWorldRow.
func (s *Store) scalar(query string, dst any) error {
	if err := s.conn.QueryRow(query).Scan(dst); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("savegame: read world row: %w", apperr.ErrMissingWorldRow)
		}
		return fmt.Errorf("savegame: read world row: %w", err)
	}
	return nil
}

// Version returns the savegame format version.
func (s *Store) Version() (int, error) {
	var v int
	err := s.scalar(`SELECT savegameversion FROM Game`, &v)
	return v, err
}

// Seed returns the world seed.
func (s *Store) Seed() (uint32, error) {
	var v uint32
	err := s.scalar(`SELECT seed FROM Game`, &v)
	return v, err
}

// Tick returns the simulation tick.
func (s *Store) Tick() (uint32, error) {
	var v uint32
	err := s.scalar(`SELECT gametick FROM Game`, &v)
	return v, err
}

// Mode returns the game-mode flag.
func (s *Store) Mode() (GameMode, error) {
	var v GameMode
	err := s.scalar(`SELECT flags FROM Game`, &v)
	return v, err
}

// SetSeed overwrites the world seed. Editing surface only; deposit never
// mutates the upload.
func (s *Store) SetSeed(seed uint32) error {
	_, err := s.exec("set seed", `UPDATE Game SET seed = ?`, seed)
	return err
}

// SetTick overwrites the simulation tick.
func (s *Store) SetTick(tick uint32) error {
	_, err := s.exec("set gametick", `UPDATE Game SET gametick = ?`, tick)
	return err
}

// SetMode overwrites the game-mode flag.
func (s *Store) SetMode(mode GameMode) error {
	_, err := s.exec("set game mode", `UPDATE Game SET flags = ?`, int(mode))
	return err
}
