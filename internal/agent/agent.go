// Package agent implements the per-host aggregate (spec C10): named
// printers, uploaded G-code blobs, jobs, a job queue, and job logs.
package agent

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/printctl/printctl-go/internal/errs"
	"github.com/printctl/printctl-go/internal/serialio"
	"github.com/printctl/printctl-go/internal/worker"
)

// GCodeFile is an uploaded G-code blob, kept verbatim.
type GCodeFile struct {
	ID    uuid.UUID
	Name  string
	Bytes []byte
}

// Agent is one host's aggregate of printers, jobs, and uploaded files.
// All maps are mutex-protected; the job scheduler runs on its own
// goroutine started by Run.
type Agent struct {
	name     string
	registry *serialio.Registry
	logger   *slog.Logger

	mu          sync.Mutex
	printers    map[string]*worker.Worker
	gcodeFiles  map[uuid.UUID]GCodeFile
	jobs        map[uuid.UUID]worker.Job
	jobPrinter  map[uuid.UUID]string
	jobLogs     map[uuid.UUID][]worker.JobLogEntry
	jobQueue    []uuid.UUID
	schedWakeup chan struct{}
}

// New returns an Agent with no printers, files, or jobs registered.
func New(name string, registry *serialio.Registry, logger *slog.Logger) *Agent {
	if logger == nil {
		logger = slog.Default()
	}
	return &Agent{
		name:        name,
		registry:    registry,
		logger:      logger,
		printers:    make(map[string]*worker.Worker),
		gcodeFiles:  make(map[uuid.UUID]GCodeFile),
		jobs:        make(map[uuid.UUID]worker.Job),
		jobPrinter:  make(map[uuid.UUID]string),
		jobLogs:     make(map[uuid.UUID][]worker.JobLogEntry),
		schedWakeup: make(chan struct{}, 1),
	}
}

// AvailableDevices delegates to the serial device registry (C7).
func (a *Agent) AvailableDevices() ([]serialio.DeviceInfo, error) {
	return a.registry.List()
}

// StartPrinter opens a worker for path at baud and registers it under
// name. A prior worker under the same name is gracefully stopped first.
func (a *Agent) StartPrinter(name, path string, baud int) error {
	w := worker.New(name, path, baud, a.registry, a.logger)

	a.mu.Lock()
	prior, hadPrior := a.printers[name]
	a.mu.Unlock()

	if hadPrior {
		prior.Stop()
	}

	a.mu.Lock()
	a.printers[name] = w
	a.mu.Unlock()

	go w.Run()
	return nil
}

// Printer returns the worker registered under name, if any.
func (a *Agent) Printer(name string) (*worker.Worker, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	w, ok := a.printers[name]
	return w, ok
}

// UploadGCode assigns a fresh id to bytes and keeps them verbatim.
func (a *Agent) UploadGCode(name string, bytes []byte) uuid.UUID {
	id := uuid.New()
	a.mu.Lock()
	a.gcodeFiles[id] = GCodeFile{ID: id, Name: name, Bytes: bytes}
	a.mu.Unlock()
	return id
}

// CreateJob enqueues a new Job targeting printerID with gcodeFileID's
// content and returns its id.
func (a *Agent) CreateJob(printerID string, gcodeFileID uuid.UUID) (uuid.UUID, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.printers[printerID]; !ok {
		return uuid.Nil, errs.New(errs.KindNotConnected, "Agent.CreateJob", fmt.Errorf("unknown printer %q", printerID))
	}
	if _, ok := a.gcodeFiles[gcodeFileID]; !ok {
		return uuid.Nil, errs.New(errs.KindNotConnected, "Agent.CreateJob", fmt.Errorf("unknown gcode file %s", gcodeFileID))
	}

	id := uuid.New()
	job := worker.Job{
		ID:          id,
		PrinterID:   printerID,
		GCodeFileID: gcodeFileID,
		Status:      worker.JobStatus{Kind: worker.JobQueued},
		CreatedAt:   time.Now(),
	}
	a.jobs[id] = job
	a.jobPrinter[id] = printerID
	a.jobQueue = append(a.jobQueue, id)

	select {
	case a.schedWakeup <- struct{}{}:
	default:
	}

	return id, nil
}

// ListJobs returns every job known to the agent.
func (a *Agent) ListJobs() []worker.Job {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]worker.Job, 0, len(a.jobs))
	for _, j := range a.jobs {
		out = append(out, j)
	}
	return out
}

// GetJob returns one job by id.
func (a *Agent) GetJob(id uuid.UUID) (worker.Job, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	j, ok := a.jobs[id]
	return j, ok
}

// GetJobLogs returns the recorded log entries for a job.
func (a *Agent) GetJobLogs(id uuid.UUID) []worker.JobLogEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]worker.JobLogEntry, len(a.jobLogs[id]))
	copy(out, a.jobLogs[id])
	return out
}

func (a *Agent) setJob(j worker.Job) {
	a.mu.Lock()
	a.jobs[j.ID] = j
	a.mu.Unlock()
}

func (a *Agent) appendLog(id uuid.UUID, msg string) {
	a.mu.Lock()
	a.jobLogs[id] = append(a.jobLogs[id], worker.JobLogEntry{Timestamp: time.Now(), Message: msg})
	a.mu.Unlock()
}
