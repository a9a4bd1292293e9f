// Package storage persists atomspace contents to SQLite.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/teranos/chimera/atomspace"
	"github.com/teranos/chimera/errors"
	"github.com/teranos/chimera/logger"
)

// Store persists atoms for named spaces in a SQLite database that has had
// the schema migrations applied.
type Store struct {
	db *sql.DB
}

// NewStore wraps an open database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// SaveSpace replaces the stored contents of the named space with the current
// contents of the atomspace, atomically.
func (s *Store) SaveSpace(ctx context.Context, name string, space *atomspace.AtomSpace) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning save transaction")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM atoms WHERE space = ?`, name); err != nil {
		return errors.Wrapf(err, "clearing space %q", name)
	}

	atoms := space.Atoms()
	// Nodes before links keeps loads resolvable in insertion order.
	for pass := 0; pass < 2; pass++ {
		for _, atom := range atoms {
			if (pass == 0) != atom.IsNode() {
				continue
			}
			if err := insertAtom(ctx, tx, name, atom); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "committing save transaction")
	}
	logger.Debugw("space saved", "space", name, "atoms", len(atoms))
	return nil
}

// SaveAtom upserts a single atom into the named space. A link's targets must
// already be stored or added in the same session, or the next LoadSpace fails.
func (s *Store) SaveAtom(ctx context.Context, space string, atom *atomspace.Atom) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning save transaction")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM atoms WHERE space = ? AND id = ?`, space, atom.ID); err != nil {
		return errors.Wrapf(err, "replacing atom %s", atom.ID)
	}
	if err := insertAtom(ctx, tx, space, atom); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "committing save transaction")
	}
	return nil
}

// DeleteAtom removes the atom and, transitively, every stored link that
// references it, so no stored link is left with a dangling target. It returns
// the number of rows deleted.
func (s *Store) DeleteAtom(ctx context.Context, space, id string) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, errors.Wrap(err, "beginning delete transaction")
	}
	defer tx.Rollback()

	var deleted int64
	seen := make(map[string]bool)
	worklist := []string{id}
	for len(worklist) > 0 {
		cur := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		if seen[cur] {
			continue
		}
		seen[cur] = true

		referrers, err := linksReferencing(ctx, tx, space, cur)
		if err != nil {
			return 0, err
		}
		worklist = append(worklist, referrers...)

		res, err := tx.ExecContext(ctx, `DELETE FROM atoms WHERE space = ? AND id = ?`, space, cur)
		if err != nil {
			return 0, errors.Wrapf(err, "deleting atom %s", cur)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, errors.Wrap(err, "reading rows affected")
		}
		if cur == id && n == 0 {
			return 0, errors.Wrapf(errors.ErrAtomNotFound, "id %s", id)
		}
		deleted += n
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "committing delete transaction")
	}
	return deleted, nil
}

func linksReferencing(ctx context.Context, tx *sql.Tx, space, id string) ([]string, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT id FROM atoms
		WHERE space = ? AND kind = 'link'
		AND EXISTS (SELECT 1 FROM json_each(atoms.outgoing) WHERE json_each.value = ?)`,
		space, id)
	if err != nil {
		return nil, errors.Wrapf(err, "finding links referencing %s", id)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var linkID string
		if err := rows.Scan(&linkID); err != nil {
			return nil, errors.Wrap(err, "scanning link id")
		}
		ids = append(ids, linkID)
	}
	return ids, rows.Err()
}

func insertAtom(ctx context.Context, tx *sql.Tx, space string, atom *atomspace.Atom) error {
	var outgoing []byte
	if atom.IsLink() {
		ids := make([]string, 0, atom.Arity())
		for _, target := range atom.Outgoing {
			ids = append(ids, target.ID)
		}
		var err error
		outgoing, err = json.Marshal(ids)
		if err != nil {
			return errors.Wrapf(err, "encoding outgoing set of %s", atom.ID)
		}
	}
	tv, err := json.Marshal(atom.TV)
	if err != nil {
		return errors.Wrapf(err, "encoding truth value of %s", atom.ID)
	}
	av, err := json.Marshal(atom.AV)
	if err != nil {
		return errors.Wrapf(err, "encoding attention value of %s", atom.ID)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO atoms (id, kind, type, name, outgoing, tv, av, value, space, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		atom.ID, string(atom.Kind), atom.Type, atom.Name, nullable(outgoing), string(tv), string(av),
		atom.Value, space, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return errors.Wrapf(err, "inserting atom %s", atom.ID)
	}
	return nil
}

func nullable(b []byte) any {
	if len(b) == 0 {
		// Match the schema default: outgoing is NOT NULL DEFAULT '[]',
		// so nodes store an empty JSON array rather than SQL NULL.
		return "[]"
	}
	return string(b)
}

// LoadSpace reads the named space back into a fresh atomspace.
func (s *Store) LoadSpace(ctx context.Context, name string) (*atomspace.AtomSpace, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, type, name, outgoing, tv, av, value
		FROM atoms WHERE space = ?
		ORDER BY rowid`, name)
	if err != nil {
		return nil, errors.Wrapf(err, "querying space %q", name)
	}
	defer rows.Close()

	space := atomspace.NewAtomSpace()
	byID := make(map[string]*atomspace.Atom)
	type pendingLink struct {
		atom    *atomspace.Atom
		targets []string
	}
	var links []pendingLink

	for rows.Next() {
		var (
			id, kind, atomType string
			atomName           sql.NullString
			outgoing           sql.NullString
			tvJSON, avJSON     string
			value              float64
		)
		if err := rows.Scan(&id, &kind, &atomType, &atomName, &outgoing, &tvJSON, &avJSON, &value); err != nil {
			return nil, errors.Wrap(err, "scanning atom row")
		}

		var tv atomspace.TruthValue
		if err := json.Unmarshal([]byte(tvJSON), &tv); err != nil {
			return nil, errors.Wrapf(err, "decoding truth value of %s", id)
		}
		var av atomspace.AttentionValue
		if err := json.Unmarshal([]byte(avJSON), &av); err != nil {
			return nil, errors.Wrapf(err, "decoding attention value of %s", id)
		}

		switch atomspace.Kind(kind) {
		case atomspace.KindNode:
			atom := atomspace.NewNode(atomType, atomName.String)
			atom.ID = id
			atom.TV = tv
			atom.AV = av
			atom.Value = value
			space.Add(atom)
			byID[id] = atom
		case atomspace.KindLink:
			var targetIDs []string
			if outgoing.Valid {
				if err := json.Unmarshal([]byte(outgoing.String), &targetIDs); err != nil {
					return nil, errors.Wrapf(err, "decoding outgoing set of %s", id)
				}
			}
			atom := atomspace.NewLink(atomType)
			atom.ID = id
			atom.TV = tv
			atom.AV = av
			links = append(links, pendingLink{atom: atom, targets: targetIDs})
			byID[id] = atom
		default:
			return nil, errors.Newf("unknown atom kind %q for %s", kind, id)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterating atom rows")
	}

	for _, pl := range links {
		for _, tid := range pl.targets {
			target, ok := byID[tid]
			if !ok {
				return nil, errors.Wrapf(errors.ErrAtomNotFound, "link %s target %s", pl.atom.ID, tid)
			}
			pl.atom.Outgoing = append(pl.atom.Outgoing, target)
		}
		space.Add(pl.atom)
	}

	logger.Debugw("space loaded", "space", name, "atoms", space.Size())
	return space, nil
}

// DeleteSpace removes every stored atom of the named space. It returns the
// number of rows deleted.
func (s *Store) DeleteSpace(ctx context.Context, name string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM atoms WHERE space = ?`, name)
	if err != nil {
		return 0, errors.Wrapf(err, "deleting space %q", name)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "reading rows affected")
	}
	return n, nil
}

// CountAtoms returns the number of stored atoms in the named space.
func (s *Store) CountAtoms(ctx context.Context, name string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM atoms WHERE space = ?`, name).Scan(&count)
	if err != nil {
		return 0, errors.Wrapf(err, "counting atoms in space %q", name)
	}
	return count, nil
}

// Spaces lists the names of all stored spaces.
func (s *Store) Spaces(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT space FROM atoms ORDER BY space`)
	if err != nil {
		return nil, errors.Wrap(err, "listing spaces")
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errors.Wrap(err, "scanning space name")
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
