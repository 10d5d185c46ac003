// Package worker implements the per-printer I/O worker (spec C8): a
// single-owner actor over a serial stream that multiplexes line-framed
// reads, a bounded command queue, a broadcast of raw firmware lines, a
// mutable printer-state model, and a FIFO of print jobs. It also houses
// the firmware-line printer-state parser (spec C9).
package worker

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// ToolAxis is one tool's (or the bed's) temperature and position reading,
// per spec.md §3.
type ToolAxis struct {
	Temp, Target float64
	PWM          uint8
	X, Y, Z, E   float64
}

// PrinterState is the printer-state model a worker maintains from firmware
// lines (spec C9's target).
type PrinterState struct {
	Tools     map[int]ToolAxis
	Bed       ToolAxis
	FanSpeed  uint8
	Ready     bool
	LastError *string
}

func newPrinterState() PrinterState {
	return PrinterState{Tools: make(map[int]ToolAxis)}
}

// clone deep-copies the state so a Snapshot can never alias the worker's
// live copy.
func (s PrinterState) clone() PrinterState {
	next := s
	next.Tools = make(map[int]ToolAxis, len(s.Tools))
	for k, v := range s.Tools {
		next.Tools[k] = v
	}
	return next
}

// sharedState is a mutex-protected PrinterState: written only by the
// owning worker's read branch, read by anyone via Snapshot (spec.md §4.6,
// §5).
type sharedState struct {
	mu    sync.RWMutex
	state PrinterState
}

func newSharedState() *sharedState {
	return &sharedState{state: newPrinterState()}
}

// Snapshot returns a read-only copy of the current printer state.
func (s *sharedState) Snapshot() PrinterState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

func (s *sharedState) mutate(fn func(*PrinterState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state)
}

// JobStatusKind is the terminal-or-not state of a Job.
type JobStatusKind int

const (
	JobQueued JobStatusKind = iota
	JobRunning
	JobCompleted
	JobFailed
)

func (k JobStatusKind) String() string {
	switch k {
	case JobQueued:
		return "queued"
	case JobRunning:
		return "running"
	case JobCompleted:
		return "completed"
	case JobFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// JobStatus carries JobFailed's reason alongside the kind.
type JobStatus struct {
	Kind   JobStatusKind
	Reason string
}

// Job is one queued/running/finished print (spec.md §3).
type Job struct {
	ID          uuid.UUID
	PrinterID   string
	GCodeFileID uuid.UUID
	Status      JobStatus
	CreatedAt   time.Time
	StartedAt   *time.Time
	FinishedAt  *time.Time
}

// JobLogEntry is one timestamped line recorded against a running job.
type JobLogEntry struct {
	Timestamp time.Time
	Message   string
}

// jobQueue is the worker-owned FIFO of jobs dispatched to this printer,
// plus at most one job currently running, mutex-protected per spec.md §5.
type jobQueue struct {
	mu      sync.Mutex
	items   []Job
	current *Job
}

func newJobQueue() *jobQueue { return &jobQueue{} }

func (q *jobQueue) push(j Job) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, j)
}

// startNext pops the head job, marks it Running, and sets it as current.
// Returns false if a job is already running or the queue is empty.
func (q *jobQueue) startNext(now time.Time) (Job, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.current != nil || len(q.items) == 0 {
		return Job{}, false
	}
	j := q.items[0]
	q.items = q.items[1:]
	j.Status = JobStatus{Kind: JobRunning}
	j.StartedAt = &now
	q.current = &j
	return j, true
}

// finishCurrent transitions the current job to a terminal status and
// clears it. Returns false if no job is running.
func (q *jobQueue) finishCurrent(status JobStatus, now time.Time) (Job, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.current == nil {
		return Job{}, false
	}
	j := *q.current
	j.Status = status
	j.FinishedAt = &now
	q.current = nil
	return j, true
}

// Current returns the currently running job, if any.
func (q *jobQueue) Current() (Job, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.current == nil {
		return Job{}, false
	}
	return *q.current, true
}

// Snapshot returns a read-only copy of the queued (not yet running) jobs.
func (q *jobQueue) Snapshot() []Job {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Job, len(q.items))
	copy(out, q.items)
	return out
}
