package atomspace

import (
	"encoding/json"

	"github.com/teranos/chimera/errors"
)

// atomRecord is the flat wire form of an atom. Outgoing targets are
// referenced by ID so the snapshot stays acyclic.
type atomRecord struct {
	ID       string         `json:"id"`
	Kind     Kind           `json:"kind"`
	Type     string         `json:"type"`
	Name     string         `json:"name,omitempty"`
	Outgoing []string       `json:"outgoing,omitempty"`
	TV       TruthValue     `json:"tv"`
	AV       AttentionValue `json:"av"`
	Value    float64        `json:"value,omitempty"`
}

// snapshot is the serialized form of a whole space.
type snapshot struct {
	Atoms []atomRecord `json:"atoms"`
}

// MarshalJSON serializes the space as a flat list of atom records.
func (s *AtomSpace) MarshalJSON() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := snapshot{Atoms: make([]atomRecord, 0, len(s.byID))}
	// Nodes first so links always resolve on load.
	for _, atom := range s.byID {
		if atom.IsNode() {
			snap.Atoms = append(snap.Atoms, recordOf(atom))
		}
	}
	for _, atom := range s.byID {
		if atom.IsLink() {
			snap.Atoms = append(snap.Atoms, recordOf(atom))
		}
	}
	return json.Marshal(snap)
}

func recordOf(atom *Atom) atomRecord {
	rec := atomRecord{
		ID:   atom.ID,
		Kind: atom.Kind,
		Type: atom.Type,
		Name: atom.Name,
		TV:    atom.TV,
		AV:    atom.AV,
		Value: atom.Value,
	}
	for _, target := range atom.Outgoing {
		rec.Outgoing = append(rec.Outgoing, target.ID)
	}
	return rec
}

// UnmarshalJSON replaces the space contents with the snapshot. Links whose
// targets are missing from the snapshot fail the load.
func (s *AtomSpace) UnmarshalJSON(data []byte) error {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return errors.Wrap(err, "decoding atomspace snapshot")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.byID = make(map[string]*Atom)
	s.byType = make(map[string][]*Atom)
	s.byName = make(map[nodeKey]*Atom)
	if s.FocusThreshold == 0 {
		s.FocusThreshold = DefaultFocusThreshold
	}

	// Two passes: materialize atoms, then resolve link targets. The snapshot
	// writer emits nodes first but loads tolerate any ordering.
	pending := make(map[string][]string, len(snap.Atoms))
	for _, rec := range snap.Atoms {
		atom := &Atom{
			ID:   rec.ID,
			Kind: rec.Kind,
			Type: rec.Type,
			Name: rec.Name,
			TV:    rec.TV,
			AV:    rec.AV,
			Value: rec.Value,
		}
		s.byID[atom.ID] = atom
		s.byType[atom.Type] = append(s.byType[atom.Type], atom)
		if atom.IsNode() {
			s.byName[nodeKey{atom.Type, atom.Name}] = atom
		} else {
			pending[atom.ID] = rec.Outgoing
		}
	}
	for linkID, targetIDs := range pending {
		link := s.byID[linkID]
		for _, tid := range targetIDs {
			target, ok := s.byID[tid]
			if !ok {
				return errors.Wrapf(errors.ErrAtomNotFound, "link %s target %s", linkID, tid)
			}
			link.Outgoing = append(link.Outgoing, target)
			target.addIncoming(link)
		}
	}
	return nil
}
