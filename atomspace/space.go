package atomspace

import (
	"sync"

	"github.com/teranos/chimera/errors"
	"github.com/teranos/chimera/logger"
)

// EventKind identifies an observer notification.
type EventKind string

const (
	EventAdd    EventKind = "add"
	EventRemove EventKind = "remove"
	EventUpdate EventKind = "update"
	EventClear  EventKind = "clear"
)

// Event is delivered to observers on space mutations. Atom is nil for clear
// events.
type Event struct {
	Kind EventKind
	Atom *Atom
}

// Observer receives space mutation events. Callbacks run synchronously under
// the space lock and must not call back into the space.
type Observer func(Event)

// nodeKey identifies a node by type and name for deduplication.
type nodeKey struct {
	atomType string
	name     string
}

// DefaultFocusThreshold is the minimum STI for attentional focus membership.
const DefaultFocusThreshold = 0.5

// AtomSpace is a concurrency-safe hypergraph store indexed by ID, by type,
// and by (type, name) for nodes.
type AtomSpace struct {
	mu        sync.RWMutex
	byID      map[string]*Atom
	byType    map[string][]*Atom
	byName    map[nodeKey]*Atom
	observers []Observer

	// FocusThreshold gates AttentionalFocus membership.
	FocusThreshold float64
}

// NewAtomSpace creates an empty space with the default focus threshold.
func NewAtomSpace() *AtomSpace {
	return &AtomSpace{
		byID:           make(map[string]*Atom),
		byType:         make(map[string][]*Atom),
		byName:         make(map[nodeKey]*Atom),
		FocusThreshold: DefaultFocusThreshold,
	}
}

// Observe registers an observer for mutation events.
func (s *AtomSpace) Observe(fn Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

func (s *AtomSpace) notify(ev Event) {
	for _, fn := range s.observers {
		fn(ev)
	}
}

// Add inserts an atom. Nodes are deduplicated by (type, name): adding a node
// that already exists merges truth values via revision and returns the
// existing atom. Links register themselves in the incoming set of each
// target; targets not yet present are added first.
func (s *AtomSpace) Add(atom *Atom) *Atom {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked(atom)
}

func (s *AtomSpace) addLocked(atom *Atom) *Atom {
	if atom.IsNode() {
		key := nodeKey{atom.Type, atom.Name}
		if existing, ok := s.byName[key]; ok {
			existing.TV = existing.TV.Merge(atom.TV)
			s.notify(Event{Kind: EventUpdate, Atom: existing})
			return existing
		}
		s.byName[key] = atom
	} else {
		for i, target := range atom.Outgoing {
			atom.Outgoing[i] = s.addLocked(target)
		}
		for _, target := range atom.Outgoing {
			target.addIncoming(atom)
		}
	}
	if _, ok := s.byID[atom.ID]; ok {
		return atom
	}
	s.byID[atom.ID] = atom
	s.byType[atom.Type] = append(s.byType[atom.Type], atom)
	s.notify(Event{Kind: EventAdd, Atom: atom})
	return atom
}

// Get returns the atom with the given ID.
func (s *AtomSpace) Get(id string) (*Atom, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	atom, ok := s.byID[id]
	if !ok {
		return nil, errors.Wrapf(errors.ErrAtomNotFound, "id %s", id)
	}
	return atom, nil
}

// GetNode returns the node with the given type and name.
func (s *AtomSpace) GetNode(atomType, name string) (*Atom, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	atom, ok := s.byName[nodeKey{atomType, name}]
	if !ok {
		return nil, errors.Wrapf(errors.ErrAtomNotFound, "%s %q", atomType, name)
	}
	return atom, nil
}

// Remove deletes an atom and recursively removes links that reference it.
func (s *AtomSpace) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(id)
}

func (s *AtomSpace) removeLocked(id string) error {
	atom, ok := s.byID[id]
	if !ok {
		return errors.Wrapf(errors.ErrAtomNotFound, "id %s", id)
	}
	// Links referencing this atom become dangling; remove them first.
	for _, in := range atom.Incoming() {
		if _, live := s.byID[in.ID]; live {
			if err := s.removeLocked(in.ID); err != nil {
				return err
			}
		}
	}
	if atom.IsNode() {
		delete(s.byName, nodeKey{atom.Type, atom.Name})
	} else {
		for _, target := range atom.Outgoing {
			target.removeIncoming(atom)
		}
	}
	delete(s.byID, id)
	typed := s.byType[atom.Type]
	for i, a := range typed {
		if a == atom {
			s.byType[atom.Type] = append(typed[:i], typed[i+1:]...)
			break
		}
	}
	if len(s.byType[atom.Type]) == 0 {
		delete(s.byType, atom.Type)
	}
	s.notify(Event{Kind: EventRemove, Atom: atom})
	return nil
}

// Clear removes every atom.
func (s *AtomSpace) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID = make(map[string]*Atom)
	s.byType = make(map[string][]*Atom)
	s.byName = make(map[nodeKey]*Atom)
	s.notify(Event{Kind: EventClear})
}

// Size returns the number of atoms in the space.
func (s *AtomSpace) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// AtomsByType returns all atoms of the given type.
func (s *AtomSpace) AtomsByType(atomType string) []*Atom {
	s.mu.RLock()
	defer s.mu.RUnlock()
	typed := s.byType[atomType]
	out := make([]*Atom, len(typed))
	copy(out, typed)
	return out
}

// Atoms returns every atom in the space.
func (s *AtomSpace) Atoms() []*Atom {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Atom, 0, len(s.byID))
	for _, atom := range s.byID {
		out = append(out, atom)
	}
	return out
}

// Stimulate boosts the STI of the atom with the given ID.
func (s *AtomSpace) Stimulate(id string, amount float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	atom, ok := s.byID[id]
	if !ok {
		return errors.Wrapf(errors.ErrAtomNotFound, "id %s", id)
	}
	atom.AV.Stimulate(amount)
	s.notify(Event{Kind: EventUpdate, Atom: atom})
	return nil
}

// DecayAttention decays STI across the whole space.
func (s *AtomSpace) DecayAttention(rate float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, atom := range s.byID {
		atom.AV.Decay(rate)
	}
	logger.Debugw("attention decayed", "rate", rate, "atoms", len(s.byID))
}

// AttentionalFocus returns atoms whose STI meets the focus threshold.
func (s *AtomSpace) AttentionalFocus() []*Atom {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var focus []*Atom
	for _, atom := range s.byID {
		if atom.AV.STI >= s.FocusThreshold {
			focus = append(focus, atom)
		}
	}
	return focus
}
