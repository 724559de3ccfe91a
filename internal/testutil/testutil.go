// Package testutil builds throwaway save archives for tests. A save is a
// real SQLite database image, so fixtures go through the sqlite driver.
package testutil

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/TechnologicNick/scrap-mechanic-casino/internal/saveformat"
	"github.com/TechnologicNick/scrap-mechanic-casino/internal/uid"
)

const saveSchemaSQL = `
CREATE TABLE Game (
	savegameversion INTEGER,
	flags           INTEGER,
	seed            INTEGER,
	gametick        INTEGER
);

CREATE TABLE Container (
	id   INTEGER PRIMARY KEY,
	data BLOB
);

CREATE TABLE GenericData (
	uid     BLOB,
	key     BLOB,
	worldId INTEGER,
	flags   INTEGER,
	data    BLOB
);
`

// PlayerRow is one raw GenericData row.
type PlayerRow struct {
	UID     []byte
	Key     []byte
	WorldID int
	Flags   int
	Data    []byte
}

// Save describes a fixture save archive.
type Save struct {
	NoWorldRow bool
	Version    int
	Seed       uint32
	Tick       uint32
	Mode       int
	Containers map[int64][]byte
	Players    []PlayerRow
}

// Build writes the fixture to a temp SQLite file and returns its image bytes.
func (s Save) Build(t *testing.T) []byte {
	t.Helper()

	path := filepath.Join(t.TempDir(), "save.db")
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("open fixture db: %v", err)
	}
	defer conn.Close()

	if _, err := conn.Exec(saveSchemaSQL); err != nil {
		t.Fatalf("apply save schema: %v", err)
	}

	if !s.NoWorldRow {
		_, err := conn.Exec(
			`INSERT INTO Game (savegameversion, flags, seed, gametick) VALUES (?, ?, ?, ?)`,
			s.Version, s.Mode, s.Seed, s.Tick)
		if err != nil {
			t.Fatalf("insert world row: %v", err)
		}
	}

	for id, blob := range s.Containers {
		if _, err := conn.Exec(`INSERT INTO Container (id, data) VALUES (?, ?)`, id, blob); err != nil {
			t.Fatalf("insert container %d: %v", id, err)
		}
	}

	for _, p := range s.Players {
		_, err := conn.Exec(
			`INSERT INTO GenericData (uid, key, worldId, flags, data) VALUES (?, ?, ?, ?, ?)`,
			p.UID, p.Key, p.WorldID, p.Flags, p.Data)
		if err != nil {
			t.Fatalf("insert player row: %v", err)
		}
	}

	if err := conn.Close(); err != nil {
		t.Fatalf("close fixture db: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture db: %v", err)
	}
	return data
}

// Stack builds an item stack from a textual identifier.
func Stack(t *testing.T, id string, qty uint16, extra []byte) saveformat.ItemStack {
	t.Helper()
	u, err := uid.Parse(id)
	if err != nil {
		t.Fatalf("parse stack id: %v", err)
	}
	return saveformat.ItemStack{ID: u, Quantity: qty, Extra: extra}
}

// ContainerBlob encodes stacks into a container blob with the current
// format tag.
func ContainerBlob(stacks ...saveformat.ItemStack) []byte {
	return saveformat.EncodeContainer(&saveformat.Container{Tag: 1, Stacks: stacks})
}
