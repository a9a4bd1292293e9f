// Package cogfs exposes atomspace and kernel state as a path-addressed
// virtual filesystem:
//
//	/atomspace/nodes/<type>/<name>
//	/atomspace/links/<id>
//	/atomspace/query
//	/proc/<pid>/status
//	/kernel/version
//	/kernel/stats
package cogfs

import (
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/teranos/chimera/atomspace"
	"github.com/teranos/chimera/errors"
)

// Provider supplies the kernel-side state the filesystem serves. It is
// implemented by the cognitive kernel.
type Provider interface {
	ProcInfo(pid int) (any, error)
	ProcPIDs() []int
	KernelVersion() string
	KernelStats() any
}

// Stat describes a filesystem entry.
type Stat struct {
	Type       string  `json:"type"`
	AtomType   string  `json:"atom_type,omitempty"`
	ID         string  `json:"id,omitempty"`
	Size       int     `json:"size"`
	STI        float64 `json:"sti,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
	LastQuery  string  `json:"last_query,omitempty"`
	Results    int     `json:"result_count,omitempty"`
}

// Handle is an open filesystem entry.
type Handle interface {
	Read() ([]byte, error)
	Write(data []byte) (int, error)
	Stat() (Stat, error)
}

// FS is the cognitive filesystem over an atomspace and kernel provider.
type FS struct {
	space   *atomspace.AtomSpace
	kernel  Provider
	queryMu sync.Mutex
	query   *queryHandle
}

// New mounts a filesystem over the given space and provider.
func New(space *atomspace.AtomSpace, kernel Provider) *FS {
	return &FS{
		space:  space,
		kernel: kernel,
		query:  &queryHandle{space: space},
	}
}

// Resolve maps a path to a handle.
func (fs *FS) Resolve(path string) (Handle, error) {
	parts := splitPath(path)

	switch {
	case len(parts) == 2 && parts[0] == "atomspace" && parts[1] == "query":
		return fs.query, nil

	case len(parts) == 4 && parts[0] == "atomspace" && parts[1] == "nodes":
		atom, err := fs.space.GetNode(parts[2], parts[3])
		if err != nil {
			return nil, err
		}
		return &atomHandle{atom: atom}, nil

	case len(parts) == 3 && parts[0] == "atomspace" && parts[1] == "links":
		atom, err := fs.space.Get(parts[2])
		if err != nil {
			return nil, err
		}
		return &atomHandle{atom: atom}, nil

	case len(parts) == 3 && parts[0] == "proc" && parts[2] == "status":
		pid, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInvalidPath, "bad pid %q", parts[1])
		}
		return &procHandle{kernel: fs.kernel, pid: pid}, nil

	case len(parts) == 2 && parts[0] == "kernel":
		switch parts[1] {
		case "version":
			return &kernelHandle{kernel: fs.kernel, field: "version"}, nil
		case "stats":
			return &kernelHandle{kernel: fs.kernel, field: "stats"}, nil
		}
	}

	return nil, errors.Wrapf(errors.ErrInvalidPath, "path %q", path)
}

// Read reads the entry at path.
func (fs *FS) Read(path string) ([]byte, error) {
	handle, err := fs.Resolve(path)
	if err != nil {
		return nil, err
	}
	return handle.Read()
}

// Write writes data to the entry at path and returns the bytes consumed.
func (fs *FS) Write(path string, data []byte) (int, error) {
	handle, err := fs.Resolve(path)
	if err != nil {
		return 0, err
	}
	return handle.Write(data)
}

// Stat stats the entry at path.
func (fs *FS) Stat(path string) (Stat, error) {
	handle, err := fs.Resolve(path)
	if err != nil {
		return Stat{}, err
	}
	return handle.Stat()
}

// ReadDir lists the entries of a directory path.
func (fs *FS) ReadDir(path string) ([]string, error) {
	parts := splitPath(path)

	switch {
	case len(parts) == 0:
		return []string{"atomspace", "proc", "kernel"}, nil

	case parts[0] == "atomspace":
		switch len(parts) {
		case 1:
			return []string{"nodes", "links", "query", "inference", "attention"}, nil
		case 2:
			if parts[1] == "nodes" {
				seen := make(map[string]bool)
				for _, atom := range fs.space.Atoms() {
					if atom.IsNode() {
						seen[atom.Type] = true
					}
				}
				types := make([]string, 0, len(seen))
				for t := range seen {
					types = append(types, t)
				}
				sort.Strings(types)
				return types, nil
			}
		case 3:
			if parts[1] == "nodes" {
				var names []string
				for _, atom := range fs.space.AtomsByType(parts[2]) {
					names = append(names, atom.Name)
				}
				sort.Strings(names)
				return names, nil
			}
		}

	case parts[0] == "proc" && len(parts) == 1:
		pids := fs.kernel.ProcPIDs()
		sort.Ints(pids)
		names := make([]string, len(pids))
		for i, pid := range pids {
			names[i] = strconv.Itoa(pid)
		}
		return names, nil

	case parts[0] == "kernel" && len(parts) == 1:
		return []string{"version", "stats"}, nil
	}

	return nil, errors.Wrapf(errors.ErrInvalidPath, "path %q", path)
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}
