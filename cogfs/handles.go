package cogfs

import (
	"encoding/json"
	"sync"

	"github.com/teranos/chimera/atomspace"
	"github.com/teranos/chimera/errors"
)

// atomHandle exposes a single atom. Reads return its JSON representation,
// writes patch its truth and attention values.
type atomHandle struct {
	atom *atomspace.Atom
}

type atomPatch struct {
	TV *atomspace.TruthValue     `json:"tv,omitempty"`
	AV *atomspace.AttentionValue `json:"av,omitempty"`
}

func (h *atomHandle) Read() ([]byte, error) {
	return json.Marshal(newAtomView(h.atom))
}

func (h *atomHandle) Write(data []byte) (int, error) {
	var patch atomPatch
	if err := json.Unmarshal(data, &patch); err != nil {
		return 0, errors.Wrap(err, "decoding atom patch")
	}
	if patch.TV != nil {
		h.atom.TV = *patch.TV
	}
	if patch.AV != nil {
		h.atom.AV = *patch.AV
	}
	return len(data), nil
}

func (h *atomHandle) Stat() (Stat, error) {
	data, err := h.Read()
	if err != nil {
		return Stat{}, err
	}
	return Stat{
		Type:       "atom",
		AtomType:   h.atom.Type,
		ID:         h.atom.ID,
		Size:       len(data),
		STI:        h.atom.AV.STI,
		Confidence: h.atom.TV.Confidence,
	}, nil
}

// atomView is the JSON shape of a single atom served by the filesystem.
type atomView struct {
	ID       string                   `json:"id"`
	Kind     atomspace.Kind           `json:"kind"`
	Type     string                   `json:"type"`
	Name     string                   `json:"name,omitempty"`
	Outgoing []string                 `json:"outgoing,omitempty"`
	TV       atomspace.TruthValue     `json:"tv"`
	AV       atomspace.AttentionValue `json:"av"`
}

func newAtomView(atom *atomspace.Atom) atomView {
	view := atomView{
		ID:   atom.ID,
		Kind: atom.Kind,
		Type: atom.Type,
		Name: atom.Name,
		TV:   atom.TV,
		AV:   atom.AV,
	}
	for _, target := range atom.Outgoing {
		view.Outgoing = append(view.Outgoing, target.ID)
	}
	return view
}

// queryHandle accepts a JSON query on write and serves the results on read.
// A query is {"type": "<atom type>"}; an empty object matches everything.
type queryHandle struct {
	space *atomspace.AtomSpace

	mu        sync.Mutex
	lastQuery string
	results   []*atomspace.Atom
}

func (h *queryHandle) Read() ([]byte, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	views := make([]atomView, len(h.results))
	for i, atom := range h.results {
		views[i] = newAtomView(atom)
	}
	return json.Marshal(views)
}

func (h *queryHandle) Write(data []byte) (int, error) {
	var query struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &query); err != nil {
		return 0, errors.Wrap(err, "decoding query")
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastQuery = string(data)
	if query.Type != "" {
		h.results = h.space.AtomsByType(query.Type)
	} else {
		h.results = h.space.Atoms()
	}
	return len(data), nil
}

func (h *queryHandle) Stat() (Stat, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return Stat{
		Type:      "query",
		LastQuery: h.lastQuery,
		Results:   len(h.results),
	}, nil
}

// procHandle serves a process status document.
type procHandle struct {
	kernel Provider
	pid    int
}

func (h *procHandle) Read() ([]byte, error) {
	info, err := h.kernel.ProcInfo(h.pid)
	if err != nil {
		return nil, err
	}
	return json.Marshal(info)
}

func (h *procHandle) Write([]byte) (int, error) {
	return 0, errors.New("process status is read-only")
}

func (h *procHandle) Stat() (Stat, error) {
	data, err := h.Read()
	if err != nil {
		return Stat{}, err
	}
	return Stat{Type: "proc", Size: len(data)}, nil
}

// kernelHandle serves kernel version or stats documents.
type kernelHandle struct {
	kernel Provider
	field  string
}

func (h *kernelHandle) Read() ([]byte, error) {
	if h.field == "version" {
		return json.Marshal(map[string]string{"version": h.kernel.KernelVersion()})
	}
	return json.Marshal(h.kernel.KernelStats())
}

func (h *kernelHandle) Write([]byte) (int, error) {
	return 0, errors.New("kernel info is read-only")
}

func (h *kernelHandle) Stat() (Stat, error) {
	data, err := h.Read()
	if err != nil {
		return Stat{}, err
	}
	return Stat{Type: "kernel", Size: len(data)}, nil
}
