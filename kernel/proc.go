package kernel

import (
	"context"
	"sync"
	"time"

	"github.com/teranos/chimera/atomspace"
)

// ProcState is the lifecycle state of a cognitive process.
type ProcState int

const (
	StateNascent ProcState = iota
	StateReady
	StateRunning
	StateWaiting
	StateInferring
	StateAttending
	StateSleeping
	StateTerminated
)

var procStateNames = map[ProcState]string{
	StateNascent:    "nascent",
	StateReady:      "ready",
	StateRunning:    "running",
	StateWaiting:    "waiting",
	StateInferring:  "inferring",
	StateAttending:  "attending",
	StateSleeping:   "sleeping",
	StateTerminated: "terminated",
}

func (s ProcState) String() string {
	if name, ok := procStateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Priority is the base scheduling class of a process. Lower runs first.
type Priority int

const (
	PriorityCritical Priority = iota
	PriorityRealtime
	PriorityHigh
	PriorityNormal
	PriorityLow
	PriorityIdle
)

// ProcFunc is the work bound to a cognitive process.
type ProcFunc func(ctx context.Context) (any, error)

// Proc is a cognitive process: a schedulable unit carrying attention and
// truth values alongside its execution state. Scheduling fields (Attention,
// Priority) are guarded by the scheduler that owns the proc; execution state
// is guarded by the proc's own mutex so Exec, Wait, and the scheduler can
// touch the same proc concurrently.
type Proc struct {
	PID      int
	Name     string
	Priority Priority

	Attention atomspace.AttentionValue
	Truth     atomspace.TruthValue
	GoalAtom  string

	InferenceCount  int
	AttentionCycles int
	CreatedAt       time.Time

	ParentPID   int
	ChildrenPID []int

	fn ProcFunc

	mu      sync.Mutex
	state   ProcState
	cpuTime time.Duration
	result  any
	err     error
}

// State returns the current lifecycle state.
func (p *Proc) State() ProcState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Proc) setState(s ProcState) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
}

// transition moves the proc from one state to another atomically, reporting
// whether the proc was in the expected state.
func (p *Proc) transition(from, to ProcState) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != from {
		return false
	}
	p.state = to
	return true
}

// finish captures the outcome of a run, accumulates cpu time, and terminates
// the proc in one critical section so Wait never observes a terminated proc
// without its result.
func (p *Proc) finish(result any, err error, elapsed time.Duration) {
	p.mu.Lock()
	p.result = result
	p.err = err
	p.cpuTime += elapsed
	p.state = StateTerminated
	p.mu.Unlock()
}

// terminate moves the proc to the terminated state, reporting whether it was
// still live.
func (p *Proc) terminate() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == StateTerminated {
		return false
	}
	p.state = StateTerminated
	return true
}

// CPUTime returns the accumulated run time.
func (p *Proc) CPUTime() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cpuTime
}

// EffectivePriority folds attention into the base priority: stimulated
// processes float toward the front of the queue. Clamped at 0.
func (p *Proc) EffectivePriority() float64 {
	effective := float64(p.Priority) - p.Attention.STI/100
	if effective < 0 {
		return 0
	}
	return effective
}

// Result returns the captured outcome of a terminated process.
func (p *Proc) Result() (any, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.result, p.err
}
