package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateCreatesAtomsTable(t *testing.T) {
	conn, err := OpenMemory(nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, Migrate(conn, nil))

	var name string
	err = conn.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='atoms'").Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "atoms", name)
}

func TestMigrateIsIdempotent(t *testing.T) {
	conn, err := OpenMemory(nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, Migrate(conn, nil))
	require.NoError(t, Migrate(conn, nil))

	var count int
	err = conn.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 3, count) // 000, 001, 002
}

func TestNodeIdentityUnique(t *testing.T) {
	conn, err := OpenMemory(nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, Migrate(conn, nil))

	insert := `INSERT INTO atoms (id, kind, type, name, tv, av) VALUES (?, 'node', 'ConceptNode', 'cat', '{}', '{}')`
	_, err = conn.Exec(insert, "id-1")
	require.NoError(t, err)
	_, err = conn.Exec(insert, "id-2")
	assert.Error(t, err, "duplicate (space,type,name) node must violate unique index")
}

func TestIsDatabaseClosed(t *testing.T) {
	conn, err := OpenMemory(nil)
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	err = conn.Ping()
	assert.True(t, IsDatabaseClosed(err))
	assert.False(t, IsDatabaseClosed(nil))
}
