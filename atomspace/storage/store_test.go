package storage

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/chimera/atomspace"
	"github.com/teranos/chimera/db"
	"github.com/teranos/chimera/errors"
	"github.com/teranos/chimera/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	handle, err := db.OpenMemory(logger.Logger)
	require.NoError(t, err)
	t.Cleanup(func() { handle.Close() })
	require.NoError(t, db.Migrate(handle, logger.Logger))
	return NewStore(handle)
}

func buildSpace() *atomspace.AtomSpace {
	space := atomspace.NewAtomSpace()
	cat := space.Add(atomspace.Concept("cat"))
	cat.AV.Stimulate(1.5)
	animal := space.Add(atomspace.Concept("animal"))
	space.Add(atomspace.Inheritance(cat, animal))
	return space
}

func TestSaveAndLoadSpace(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveSpace(ctx, "main", buildSpace()))

	count, err := store.CountAtoms(ctx, "main")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	loaded, err := store.LoadSpace(ctx, "main")
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.Size())

	cat, err := loaded.GetNode(atomspace.TypeConceptNode, "cat")
	require.NoError(t, err)
	assert.InDelta(t, 1.5, cat.AV.STI, 1e-9)
	require.Len(t, cat.Incoming(), 1)
	assert.Equal(t, atomspace.TypeInheritanceLink, cat.Incoming()[0].Type)
}

func TestSaveSpaceReplaces(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveSpace(ctx, "main", buildSpace()))

	smaller := atomspace.NewAtomSpace()
	smaller.Add(atomspace.Concept("only"))
	require.NoError(t, store.SaveSpace(ctx, "main", smaller))

	count, err := store.CountAtoms(ctx, "main")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSpacesAreIsolated(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveSpace(ctx, "a", buildSpace()))
	other := atomspace.NewAtomSpace()
	other.Add(atomspace.Concept("solo"))
	require.NoError(t, store.SaveSpace(ctx, "b", other))

	names, err := store.Spaces(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)

	deleted, err := store.DeleteSpace(ctx, "a")
	require.NoError(t, err)
	assert.EqualValues(t, 3, deleted)

	count, err := store.CountAtoms(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSaveAtomUpserts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	num := atomspace.Number(42)
	require.NoError(t, store.SaveAtom(ctx, "main", num))

	num.TV.Strength = 0.25
	require.NoError(t, store.SaveAtom(ctx, "main", num))

	count, err := store.CountAtoms(ctx, "main")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	loaded, err := store.LoadSpace(ctx, "main")
	require.NoError(t, err)
	got, err := loaded.GetNode(atomspace.TypeNumberNode, "42")
	require.NoError(t, err)
	assert.InDelta(t, 42, got.Value, 1e-9)
	assert.InDelta(t, 0.25, got.TV.Strength, 1e-9)
}

func TestDeleteAtomCascadesThroughLinks(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	space := atomspace.NewAtomSpace()
	cat := space.Add(atomspace.Concept("cat"))
	animal := space.Add(atomspace.Concept("animal"))
	inh := space.Add(atomspace.Inheritance(cat, animal))
	space.Add(atomspace.Not(inh))
	require.NoError(t, store.SaveSpace(ctx, "main", space))

	// Removing the node takes the inheritance link and the link over it.
	deleted, err := store.DeleteAtom(ctx, "main", cat.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, deleted)

	loaded, err := store.LoadSpace(ctx, "main")
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Size())
	_, err = loaded.GetNode(atomspace.TypeConceptNode, "animal")
	assert.NoError(t, err)
}

func TestDeleteAtomMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.DeleteAtom(context.Background(), "main", "no-such-id")
	assert.True(t, errors.IsAtomNotFound(err))
}

func TestNumberValueSurvivesRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	space := atomspace.NewAtomSpace()
	space.Add(atomspace.Number(3.14159))
	require.NoError(t, store.SaveSpace(ctx, "main", space))

	loaded, err := store.LoadSpace(ctx, "main")
	require.NoError(t, err)
	got, err := loaded.GetNode(atomspace.TypeNumberNode, "3.14159")
	require.NoError(t, err)
	assert.InDelta(t, 3.14159, got.Value, 1e-9)
}

func TestLoadMissingLinkTarget(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.db.ExecContext(ctx, `
		INSERT INTO atoms (id, kind, type, name, outgoing, tv, av, space, created_at)
		VALUES ('l1', 'link', 'InheritanceLink', '', '["missing"]',
		        '{"strength":1,"confidence":0.9,"count":1,"kind":"simple"}',
		        '{"sti":0,"lti":0,"vlti":false}', 'main', '2026-01-01T00:00:00Z')`)
	require.NoError(t, err)

	_, err = store.LoadSpace(ctx, "main")
	assert.True(t, errors.IsAtomNotFound(err))
}

func TestSaveSpaceBeginError(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	mock.ExpectBegin().WillReturnError(errors.New("disk gone"))

	store := NewStore(mockDB)
	err = store.SaveSpace(context.Background(), "main", atomspace.NewAtomSpace())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "beginning save transaction")
	assert.NoError(t, mock.ExpectationsWereMet())
}
