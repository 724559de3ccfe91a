package savegame

import (
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/TechnologicNick/scrap-mechanic-casino/internal/apperr"
	"github.com/TechnologicNick/scrap-mechanic-casino/internal/saveformat"
)

// Player records live in the generic-data table under a fixed world id and
// flags value.
const (
	playerWorldID = 65534
	playerFlags   = 3
)

// keyBlob encodes a record key the way the save stores it: a u32
// little-endian blob, not an integer column.
func keyBlob(key uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, key)
	return b
}

// placeholders returns "?, ?, ..." for n parameters.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// Containers decodes every container row, ordered by row id ascending. The
// order is deterministic across repeated calls on the same store.
func (s *Store) Containers() ([]*saveformat.Container, error) {
	rows, err := s.conn.Query(`SELECT id, data FROM Container ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("savegame: read containers: %w", err)
	}
	defer rows.Close()

	var out []*saveformat.Container
	for rows.Next() {
		var id int64
		var blob []byte
		if err := rows.Scan(&id, &blob); err != nil {
			return nil, fmt.Errorf("savegame: scan container: %w", err)
		}
		c, err := saveformat.DecodeContainer(blob, id)
		if err != nil {
			return nil, fmt.Errorf("savegame: container %d: %w", id, err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("savegame: read containers: %w", err)
	}
	return out, nil
}

// Container decodes a single container row.
func (s *Store) Container(id int64) (*saveformat.Container, error) {
	var blob []byte
	err := s.conn.QueryRow(`SELECT data FROM Container WHERE id = ?`, id).Scan(&blob)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("savegame: container %d: %w", id, apperr.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("savegame: container %d: %w", id, err)
	}
	return saveformat.DecodeContainer(blob, id)
}

// UpdateContainer re-encodes the container over its row.
func (s *Store) UpdateContainer(c *saveformat.Container) error {
	_, err := s.exec(fmt.Sprintf("update container %d", c.ID),
		`UPDATE Container SET data = ? WHERE id = ?`, saveformat.EncodeContainer(c), c.ID)
	return err
}

// DeleteContainers removes the given rows and returns how many existed.
func (s *Store) DeleteContainers(ids ...int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	res, err := s.conn.Exec(
		`DELETE FROM Container WHERE id IN (`+placeholders(len(ids))+`)`, args...)
	if err != nil {
		return 0, fmt.Errorf("savegame: delete containers: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("savegame: delete containers: %w", err)
	}
	return n, nil
}

// PlayerRecords decodes every player blob, ordered by record key ascending.
func (s *Store) PlayerRecords() ([]*saveformat.PlayerRecord, error) {
	rows, err := s.conn.Query(
		`SELECT data FROM GenericData WHERE worldId = ? AND flags = ? ORDER BY key ASC`,
		playerWorldID, playerFlags)
	if err != nil {
		return nil, fmt.Errorf("savegame: read players: %w", err)
	}
	defer rows.Close()

	var out []*saveformat.PlayerRecord
	for rows.Next() {
		var blob []byte
		if err := rows.Scan(&blob); err != nil {
			return nil, fmt.Errorf("savegame: scan player: %w", err)
		}
		p, err := saveformat.DecodePlayerRecord(blob)
		if err != nil {
			return nil, fmt.Errorf("savegame: player record: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("savegame: read players: %w", err)
	}
	return out, nil
}

// UpdatePlayer replaces the row matching old's composite key with rec.
func (s *Store) UpdatePlayer(old, rec *saveformat.PlayerRecord) error {
	_, err := s.exec(fmt.Sprintf("update player %d", old.Key), `
		UPDATE GenericData SET uid = ?, key = ?, worldId = ?, flags = ?, data = ?
		WHERE uid = ? AND key = ? AND worldId = ? AND flags = ?`,
		rec.Owner.Bytes(), keyBlob(rec.Key), rec.WorldID, rec.Flags, saveformat.EncodePlayerRecord(rec),
		old.Owner.Bytes(), keyBlob(old.Key), old.WorldID, old.Flags)
	return err
}

// DeletePlayers removes the player rows with the given keys and returns how
// many existed.
func (s *Store) DeletePlayers(keys ...uint32) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	args := []any{playerWorldID, playerFlags}
	for _, k := range keys {
		args = append(args, keyBlob(k))
	}
	res, err := s.conn.Exec(
		`DELETE FROM GenericData WHERE worldId = ? AND flags = ? AND key IN (`+placeholders(len(keys))+`)`,
		args...)
	if err != nil {
		return 0, fmt.Errorf("savegame: delete players: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("savegame: delete players: %w", err)
	}
	return n, nil
}
