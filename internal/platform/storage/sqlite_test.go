package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAppliesMigrationsIdempotently(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "confetti.db")
	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()

	for _, table := range []string{"conferences", "sessions", "speakers", "session_speakers", "bookmarks"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, table)
	}
}

func TestWithinRollsBackOnError(t *testing.T) {
	t.Parallel()
	db, err := Open(filepath.Join(t.TempDir(), "confetti.db"))
	require.NoError(t, err)
	defer db.Close()

	boom := errors.New("boom")
	err = Within(context.Background(), db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT INTO bookmarks (conference_id, user_id, session_id, created_at) VALUES ('c', '', 's', 'now')`); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM bookmarks`).Scan(&n))
	assert.Zero(t, n)
}
