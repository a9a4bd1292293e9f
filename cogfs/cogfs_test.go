package cogfs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/chimera/atomspace"
	"github.com/teranos/chimera/errors"
)

type fakeProvider struct {
	pids []int
}

func (f *fakeProvider) ProcInfo(pid int) (any, error) {
	for _, p := range f.pids {
		if p == pid {
			return map[string]any{"pid": pid, "state": "ready"}, nil
		}
	}
	return nil, errors.Wrapf(errors.ErrProcNotFound, "pid %d", pid)
}

func (f *fakeProvider) ProcPIDs() []int        { return f.pids }
func (f *fakeProvider) KernelVersion() string  { return "0.0.0-test" }
func (f *fakeProvider) KernelStats() any       { return map[string]int{"inferences": 3} }

func newTestFS() (*FS, *atomspace.AtomSpace) {
	space := atomspace.NewAtomSpace()
	return New(space, &fakeProvider{pids: []int{1, 2}}), space
}

func TestReadAtomNode(t *testing.T) {
	fs, space := newTestFS()
	cat := space.Add(atomspace.Concept("cat"))
	cat.AV.Stimulate(2)

	data, err := fs.Read("/atomspace/nodes/ConceptNode/cat")
	require.NoError(t, err)

	var view struct {
		ID   string  `json:"id"`
		Type string  `json:"type"`
		Name string  `json:"name"`
		AV   struct{ STI float64 `json:"sti"` } `json:"av"`
	}
	require.NoError(t, json.Unmarshal(data, &view))
	assert.Equal(t, cat.ID, view.ID)
	assert.Equal(t, "cat", view.Name)
	assert.InDelta(t, 2.0, view.AV.STI, 1e-9)
}

func TestReadLinkByID(t *testing.T) {
	fs, space := newTestFS()
	link := space.Add(atomspace.Inheritance(atomspace.Concept("a"), atomspace.Concept("b")))

	data, err := fs.Read("/atomspace/links/" + link.ID)
	require.NoError(t, err)
	assert.Contains(t, string(data), "InheritanceLink")

	stat, err := fs.Stat("/atomspace/links/" + link.ID)
	require.NoError(t, err)
	assert.Equal(t, "atom", stat.Type)
	assert.Equal(t, link.ID, stat.ID)
}

func TestWritePatchesAtom(t *testing.T) {
	fs, space := newTestFS()
	space.Add(atomspace.Concept("cat"))

	patch := `{"tv": {"strength": 0.25, "confidence": 0.5, "count": 1, "kind": "simple"}}`
	n, err := fs.Write("/atomspace/nodes/ConceptNode/cat", []byte(patch))
	require.NoError(t, err)
	assert.Equal(t, len(patch), n)

	cat, err := space.GetNode(atomspace.TypeConceptNode, "cat")
	require.NoError(t, err)
	assert.InDelta(t, 0.25, cat.TV.Strength, 1e-9)
	assert.InDelta(t, 0.5, cat.TV.Confidence, 1e-9)
}

func TestQueryHandle(t *testing.T) {
	fs, space := newTestFS()
	space.Add(atomspace.Concept("a"))
	space.Add(atomspace.Concept("b"))
	space.Add(atomspace.Predicate("p"))

	_, err := fs.Write("/atomspace/query", []byte(`{"type": "ConceptNode"}`))
	require.NoError(t, err)

	data, err := fs.Read("/atomspace/query")
	require.NoError(t, err)
	var results []json.RawMessage
	require.NoError(t, json.Unmarshal(data, &results))
	assert.Len(t, results, 2)

	stat, err := fs.Stat("/atomspace/query")
	require.NoError(t, err)
	assert.Equal(t, 2, stat.Results)
	assert.Contains(t, stat.LastQuery, "ConceptNode")

	// Empty query matches everything.
	_, err = fs.Write("/atomspace/query", []byte(`{}`))
	require.NoError(t, err)
	stat, err = fs.Stat("/atomspace/query")
	require.NoError(t, err)
	assert.Equal(t, 3, stat.Results)
}

func TestProcAndKernelHandles(t *testing.T) {
	fs, _ := newTestFS()

	data, err := fs.Read("/proc/1/status")
	require.NoError(t, err)
	assert.Contains(t, string(data), `"pid":1`)

	_, err = fs.Read("/proc/99/status")
	assert.ErrorIs(t, err, errors.ErrProcNotFound)

	data, err = fs.Read("/kernel/version")
	require.NoError(t, err)
	assert.Contains(t, string(data), "0.0.0-test")

	data, err = fs.Read("/kernel/stats")
	require.NoError(t, err)
	assert.Contains(t, string(data), "inferences")

	_, err = fs.Write("/kernel/stats", []byte("{}"))
	assert.Error(t, err)
}

func TestReadDir(t *testing.T) {
	fs, space := newTestFS()
	space.Add(atomspace.Concept("cat"))
	space.Add(atomspace.Concept("dog"))
	space.Add(atomspace.Predicate("chases"))

	root, err := fs.ReadDir("/")
	require.NoError(t, err)
	assert.Equal(t, []string{"atomspace", "proc", "kernel"}, root)

	top, err := fs.ReadDir("/atomspace")
	require.NoError(t, err)
	assert.Contains(t, top, "nodes")
	assert.Contains(t, top, "query")

	types, err := fs.ReadDir("/atomspace/nodes")
	require.NoError(t, err)
	assert.Equal(t, []string{"ConceptNode", "PredicateNode"}, types)

	names, err := fs.ReadDir("/atomspace/nodes/ConceptNode")
	require.NoError(t, err)
	assert.Equal(t, []string{"cat", "dog"}, names)

	pids, err := fs.ReadDir("/proc")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, pids)
}

func TestInvalidPaths(t *testing.T) {
	fs, _ := newTestFS()

	_, err := fs.Read("/nope")
	assert.ErrorIs(t, err, errors.ErrInvalidPath)

	_, err = fs.Read("/atomspace/nodes/ConceptNode/missing")
	assert.True(t, errors.IsAtomNotFound(err))

	_, err = fs.Resolve("/proc/abc/status")
	assert.ErrorIs(t, err, errors.ErrInvalidPath)

	_, err = fs.ReadDir("/atomspace/links/deep/dir")
	assert.ErrorIs(t, err, errors.ErrInvalidPath)
}
