package kernel

import (
	"container/heap"
	"sync"

	"github.com/teranos/chimera/errors"
)

// schedEntry is a snapshot of a proc's effective priority at enqueue time.
// Re-stimulated procs get a fresh entry; popped entries whose proc is no
// longer ready are discarded lazily.
type schedEntry struct {
	priority float64
	pid      int
}

type schedQueue []schedEntry

func (q schedQueue) Len() int { return len(q) }
func (q schedQueue) Less(i, j int) bool {
	if q[i].priority != q[j].priority {
		return q[i].priority < q[j].priority
	}
	return q[i].pid < q[j].pid
}
func (q schedQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *schedQueue) Push(x any)   { *q = append(*q, x.(schedEntry)) }
func (q *schedQueue) Pop() any {
	old := *q
	n := len(old)
	entry := old[n-1]
	*q = old[:n-1]
	return entry
}

// Scheduler orders cognitive processes by attention-weighted priority.
type Scheduler struct {
	mu      sync.Mutex
	queue   schedQueue
	procs   map[int]*Proc
	running *Proc
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{procs: make(map[int]*Proc)}
}

// Add registers a process and marks it ready.
func (s *Scheduler) Add(proc *Proc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.procs[proc.PID] = proc
	proc.setState(StateReady)
	heap.Push(&s.queue, schedEntry{priority: proc.EffectivePriority(), pid: proc.PID})
}

// Next pops the highest-priority ready process, or nil when the queue has
// none. Entries for procs that are no longer ready are skipped.
func (s *Scheduler) Next() *Proc {
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.queue.Len() > 0 {
		entry := heap.Pop(&s.queue).(schedEntry)
		proc, ok := s.procs[entry.pid]
		if !ok || !proc.transition(StateReady, StateRunning) {
			continue
		}
		s.running = proc
		return proc
	}
	return nil
}

// Preempt returns a running process to the ready queue.
func (s *Scheduler) Preempt(proc *Proc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !proc.transition(StateRunning, StateReady) {
		return
	}
	heap.Push(&s.queue, schedEntry{priority: proc.EffectivePriority(), pid: proc.PID})
	if s.running == proc {
		s.running = nil
	}
}

// Block parks a process in the waiting state.
func (s *Scheduler) Block(proc *Proc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	proc.setState(StateWaiting)
	if s.running == proc {
		s.running = nil
	}
}

// Unblock returns a waiting process to the ready queue.
func (s *Scheduler) Unblock(pid int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	proc, ok := s.procs[pid]
	if !ok {
		return errors.Wrapf(errors.ErrProcNotFound, "pid %d", pid)
	}
	if !proc.transition(StateWaiting, StateReady) {
		return nil
	}
	heap.Push(&s.queue, schedEntry{priority: proc.EffectivePriority(), pid: proc.PID})
	return nil
}

// StimulateProc boosts a process's attention and requeues it if ready, so
// the boost takes effect on the next scheduling decision.
func (s *Scheduler) StimulateProc(pid int, amount float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	proc, ok := s.procs[pid]
	if !ok {
		return errors.Wrapf(errors.ErrProcNotFound, "pid %d", pid)
	}
	proc.Attention.Stimulate(amount)
	if proc.State() == StateReady {
		heap.Push(&s.queue, schedEntry{priority: proc.EffectivePriority(), pid: proc.PID})
	}
	return nil
}

// DecayAll decays attention across every process.
func (s *Scheduler) DecayAll(rate float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, proc := range s.procs {
		proc.Attention.Decay(rate)
	}
}

// Proc returns the process with the given pid.
func (s *Scheduler) Proc(pid int) (*Proc, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	proc, ok := s.procs[pid]
	if !ok {
		return nil, errors.Wrapf(errors.ErrProcNotFound, "pid %d", pid)
	}
	return proc, nil
}

// Procs returns a snapshot of all registered processes.
func (s *Scheduler) Procs() []*Proc {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Proc, 0, len(s.procs))
	for _, proc := range s.procs {
		out = append(out, proc)
	}
	return out
}

// Len returns the number of registered processes.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.procs)
}
