// Package kernel implements the cognitive kernel: process management over an
// atomspace, attention-driven scheduling, a virtual filesystem view, and
// inference exposed as syscalls.
package kernel

import (
	"context"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/mem"

	"github.com/teranos/chimera/atomspace"
	"github.com/teranos/chimera/cogfs"
	"github.com/teranos/chimera/errors"
	"github.com/teranos/chimera/logger"
	"github.com/teranos/chimera/onto"
	"github.com/teranos/chimera/pln"
)

// Version of the kernel, recorded in the space at boot.
const Version = "0.1.0"

// waitPollInterval is how often Wait re-checks a process's state.
const waitPollInterval = 10 * time.Millisecond

// Stats are the kernel's monotonically increasing counters.
type Stats struct {
	ProcessesCreated       int64 `json:"processes_created"`
	ProcessesTerminated    int64 `json:"processes_terminated"`
	InferencesPerformed    int64 `json:"inferences_performed"`
	AttentionCycles        int64 `json:"attention_cycles"`
	OntogeneticGenerations int64 `json:"ontogenetic_generations"`
}

// Status is a point-in-time snapshot of the kernel.
type Status struct {
	Name          string  `json:"name"`
	Version       string  `json:"version"`
	Uptime        float64 `json:"uptime_seconds"`
	Running       bool    `json:"running"`
	AtomSpaceSize int     `json:"atomspace_size"`
	ProcessCount  int     `json:"process_count"`
	Stats         Stats   `json:"stats"`
	HostMemory    *Memory `json:"host_memory,omitempty"`
}

// Memory reports host memory pressure from gopsutil.
type Memory struct {
	TotalBytes  uint64  `json:"total_bytes"`
	UsedBytes   uint64  `json:"used_bytes"`
	UsedPercent float64 `json:"used_percent"`
}

// SyscallArgs carries the parameters of a kernel syscall. Unused fields stay
// zero; each call reads only what it needs.
type SyscallArgs struct {
	Rule     string   `json:"rule,omitempty"`
	Premises []string `json:"premises,omitempty"`
	AtomID   string   `json:"atom_id,omitempty"`
	Amount   float64  `json:"amount,omitempty"`
	AtomType string   `json:"atom_type,omitempty"`
}

// Syscall names.
const (
	SysInfer  = "infer"
	SysAttend = "attend"
	SysQuery  = "query"
	SysEvolve = "evolve"
)

// Kernel is the cognitive kernel: it owns the atomspace, schedules cognitive
// processes by attention, and dispatches inference and evolution syscalls.
type Kernel struct {
	Name      string
	Space     *atomspace.AtomSpace
	Scheduler *Scheduler
	FS        *cogfs.FS
	PLN       *pln.Engine
	Bridge    *onto.Bridge

	bootTime time.Time
	running  bool

	mu      sync.Mutex
	nextPID int
	stats   Stats
}

// New assembles a kernel with its atomspace, scheduler, filesystem, PLN
// engine, and ontogenetic bridge, and plants the kernel identity atoms.
func New(name string, maxTreeOrder int) *Kernel {
	space := atomspace.NewAtomSpace()
	scheduler := NewScheduler()

	k := &Kernel{
		Name:      name,
		Space:     space,
		Scheduler: scheduler,
		PLN:       pln.NewEngine(space),
		Bridge:    onto.NewBridge(space, maxTreeOrder),
		bootTime:  time.Now(),
		nextPID:   1,
	}
	k.FS = cogfs.New(space, k)
	k.initKernelSpace()
	return k
}

// ProcStatus is the JSON view of a process served through the filesystem.
type ProcStatus struct {
	PID             int     `json:"pid"`
	Name            string  `json:"name"`
	State           string  `json:"state"`
	Priority        int     `json:"priority"`
	Effective       float64 `json:"effective_priority"`
	STI             float64 `json:"sti"`
	CPUSeconds      float64 `json:"cpu_seconds"`
	InferenceCount  int     `json:"inference_count"`
	AttentionCycles int     `json:"attention_cycles"`
	ParentPID       int     `json:"parent_pid,omitempty"`
}

// ProcInfo implements cogfs.Provider.
func (k *Kernel) ProcInfo(pid int) (any, error) {
	proc, err := k.Scheduler.Proc(pid)
	if err != nil {
		return nil, err
	}
	return ProcStatus{
		PID:             proc.PID,
		Name:            proc.Name,
		State:           proc.State().String(),
		Priority:        int(proc.Priority),
		Effective:       proc.EffectivePriority(),
		STI:             proc.Attention.STI,
		CPUSeconds:      proc.CPUTime().Seconds(),
		InferenceCount:  proc.InferenceCount,
		AttentionCycles: proc.AttentionCycles,
		ParentPID:       proc.ParentPID,
	}, nil
}

// ProcPIDs implements cogfs.Provider.
func (k *Kernel) ProcPIDs() []int {
	procs := k.Scheduler.Procs()
	pids := make([]int, len(procs))
	for i, proc := range procs {
		pids[i] = proc.PID
	}
	return pids
}

// KernelVersion implements cogfs.Provider.
func (k *Kernel) KernelVersion() string { return Version }

// KernelStats implements cogfs.Provider.
func (k *Kernel) KernelStats() any { return k.StatsSnapshot() }

func (k *Kernel) initKernelSpace() {
	kernelNode := atomspace.Concept("Kernel_" + k.Name)
	kernelNode.TV = atomspace.SimpleTruth(1.0, 1.0)
	kernelNode.AV = atomspace.AttentionValue{STI: 100, LTI: 100, VLTI: true}
	kernelNode = k.Space.Add(kernelNode)

	versionNode := k.Space.Add(atomspace.Concept("Version_" + Version))
	k.Space.Add(atomspace.Inheritance(versionNode, kernelNode))
}

// Boot marks the kernel running.
func (k *Kernel) Boot() {
	k.mu.Lock()
	k.running = true
	k.bootTime = time.Now()
	k.mu.Unlock()

	logger.Infow("kernel booted",
		"name", k.Name,
		"version", Version,
		"atomspace_size", k.Space.Size(),
	)
}

// Shutdown terminates every process and stops the kernel.
func (k *Kernel) Shutdown() {
	k.mu.Lock()
	k.running = false
	k.mu.Unlock()

	for _, proc := range k.Scheduler.Procs() {
		_ = k.Kill(proc.PID)
	}
	logger.Infow("kernel shutdown", "name", k.Name, "stats", k.StatsSnapshot())
}

func (k *Kernel) allocatePID() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	pid := k.nextPID
	k.nextPID++
	return pid
}

// Fork creates a cognitive process bound to fn and registers it with the
// scheduler in the ready state.
func (k *Kernel) Fork(name string, fn ProcFunc) *Proc {
	proc := &Proc{
		PID:       k.allocatePID(),
		Name:      name,
		Priority:  PriorityNormal,
		Attention: atomspace.AttentionValue{STI: 50, LTI: 10},
		Truth:     atomspace.SimpleTruth(1.0, 0.9),
		CreatedAt: time.Now(),
		fn:        fn,
	}
	k.Scheduler.Add(proc)

	k.mu.Lock()
	k.stats.ProcessesCreated++
	k.mu.Unlock()

	logger.Debugw("process forked", "pid", proc.PID, "name", name)
	return proc
}

// Exec runs a process's bound function synchronously, capturing its result
// or error and accumulating cpu time. The process ends terminated either way.
func (k *Kernel) Exec(ctx context.Context, proc *Proc) (any, error) {
	if proc.fn == nil {
		proc.setState(StateTerminated)
		return nil, errors.Newf("process %d has no bound function", proc.PID)
	}

	start := time.Now()
	proc.setState(StateRunning)
	result, err := proc.fn(ctx)
	proc.finish(result, err, time.Since(start))

	k.mu.Lock()
	k.stats.ProcessesTerminated++
	k.mu.Unlock()

	return result, err
}

// Wait blocks until the process terminates or the context is done, and
// returns the process's captured result.
func (k *Kernel) Wait(ctx context.Context, pid int) (any, error) {
	ticker := time.NewTicker(waitPollInterval)
	defer ticker.Stop()

	for {
		proc, err := k.Scheduler.Proc(pid)
		if err != nil {
			return nil, err
		}
		if proc.State() == StateTerminated {
			return proc.Result()
		}

		select {
		case <-ctx.Done():
			return nil, errors.Wrapf(errors.ErrTimeout, "waiting for pid %d", pid)
		case <-ticker.C:
		}
	}
}

// Kill terminates a process immediately.
func (k *Kernel) Kill(pid int) error {
	proc, err := k.Scheduler.Proc(pid)
	if err != nil {
		return err
	}
	if !proc.terminate() {
		return nil
	}

	k.mu.Lock()
	k.stats.ProcessesTerminated++
	k.mu.Unlock()

	logger.Debugw("process killed", "pid", pid)
	return nil
}

// Syscall dispatches a kernel system call by name.
//
// infer  — PLN inference; returns the conclusion atom ID.
// attend — stimulate an atom; returns the new STI.
// query  — atoms by type; returns []*atomspace.Atom.
// evolve — run ontogenetic evolution; returns the best kernel.
func (k *Kernel) Syscall(ctx context.Context, call string, args SyscallArgs) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "syscall aborted")
	}

	switch call {
	case SysInfer:
		conclusion, err := k.PLN.Infer(args.Rule, args.Premises)
		if err != nil {
			return nil, err
		}
		k.mu.Lock()
		k.stats.InferencesPerformed++
		k.mu.Unlock()
		return conclusion, nil

	case SysAttend:
		amount := args.Amount
		if amount == 0 {
			amount = 10
		}
		if err := k.Space.Stimulate(args.AtomID, amount); err != nil {
			return nil, err
		}
		k.mu.Lock()
		k.stats.AttentionCycles++
		k.mu.Unlock()
		atom, err := k.Space.Get(args.AtomID)
		if err != nil {
			return nil, err
		}
		return atom.AV.STI, nil

	case SysQuery:
		return k.Space.AtomsByType(args.AtomType), nil

	case SysEvolve:
		population := k.Bridge.EvolvePopulation(10, 5, 0.1, 0.1)
		k.mu.Lock()
		k.stats.OntogeneticGenerations += 5
		k.mu.Unlock()
		return population[0], nil

	default:
		return nil, errors.Wrapf(errors.ErrUnknownSyscall, "syscall %q", call)
	}
}

// StatsSnapshot returns a copy of the kernel counters.
func (k *Kernel) StatsSnapshot() Stats {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.stats
}

// Status reports the kernel's current state. Host memory is best-effort and
// omitted when gopsutil cannot read it.
func (k *Kernel) Status() Status {
	k.mu.Lock()
	running := k.running
	stats := k.stats
	uptime := time.Since(k.bootTime).Seconds()
	k.mu.Unlock()

	status := Status{
		Name:          k.Name,
		Version:       Version,
		Uptime:        uptime,
		Running:       running,
		AtomSpaceSize: k.Space.Size(),
		ProcessCount:  k.Scheduler.Len(),
		Stats:         stats,
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		status.HostMemory = &Memory{
			TotalBytes:  vm.Total,
			UsedBytes:   vm.Used,
			UsedPercent: vm.UsedPercent,
		}
	}
	return status
}
