package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/printctl/printctl-go/internal/worker"
)

// writeAckTimeout bounds how long the scheduler waits for the firmware
// "ok" acknowledging one written line, per spec.md §7.
const writeAckTimeout = 30 * time.Second

// dispatchPollInterval is the scheduler's fallback tick, in case a
// schedWakeup signal is coalesced away while the queue is non-empty.
const dispatchPollInterval = 500 * time.Millisecond

// Run drives the agent's job scheduler until ctx is cancelled: it pops
// the head of the job queue whose target printer is idle, streams the
// G-code file's lines to that printer's worker one at a time, waiting
// for each line's firmware acknowledgement, and records per-line log
// entries as the worker's broadcast yields lines (spec.md §4.8).
func (a *Agent) Run(ctx context.Context) {
	ticker := time.NewTicker(dispatchPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.dispatchNext(ctx)
		case <-a.schedWakeup:
			a.dispatchNext(ctx)
		}
	}
}

// dispatchNext starts at most one queued job whose printer is currently
// idle. It is safe to call repeatedly; a non-dispatchable queue head is
// left in place for a future idle printer.
func (a *Agent) dispatchNext(ctx context.Context) {
	job, w, content, ok := a.popDispatchable()
	if !ok {
		return
	}
	go a.runJob(ctx, job, w, content)
}

func (a *Agent) popDispatchable() (worker.Job, *worker.Worker, []byte, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for i, id := range a.jobQueue {
		job, ok := a.jobs[id]
		if !ok {
			continue
		}
		w, ok := a.printers[job.PrinterID]
		if !ok {
			continue
		}
		if _, running := w.CurrentJob(); running {
			continue
		}
		file, ok := a.gcodeFiles[job.GCodeFileID]
		if !ok {
			continue
		}

		a.jobQueue = append(a.jobQueue[:i:i], a.jobQueue[i+1:]...)
		return job, w, file.Bytes, true
	}
	return worker.Job{}, nil, nil, false
}

func (a *Agent) runJob(ctx context.Context, job worker.Job, w *worker.Worker, content []byte) {
	w.QueueJob(job)
	w.StartNextJob()
	a.markRunning(job.ID, w)

	sub := w.Subscribe()
	defer w.Unsubscribe(sub)

	lines := strings.Split(string(content), "\n")
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if err := w.Write([]byte(line + "\n")); err != nil {
			a.finishJob(job.ID, w, worker.JobFailed, fmt.Sprintf("write failed: %v", err))
			return
		}
		a.appendLog(job.ID, "> "+line)

		acked, failed := a.waitForAck(ctx, job.ID, w, sub)
		if failed {
			return
		}
		if !acked {
			return
		}
	}

	a.finishJob(job.ID, w, worker.JobCompleted, "")
}

// waitForAck blocks until the firmware's next "ok" line, a firmware
// error (which the worker itself already turned this job into Failed
// over), or writeAckTimeout elapses. ok reports whether an "ok" line was
// observed; failed reports whether the job has already been terminated
// (by this call or by the worker) and the caller must stop.
func (a *Agent) waitForAck(ctx context.Context, jobID uuid.UUID, w *worker.Worker, sub chan worker.LineEvent) (ok bool, failed bool) {
	deadline := time.After(writeAckTimeout)
	for {
		select {
		case <-ctx.Done():
			a.finishJob(jobID, w, worker.JobFailed, "cancelled while waiting for acknowledgement")
			return false, true

		case <-deadline:
			a.appendLog(jobID, "timed out waiting for acknowledgement")
			a.finishJob(jobID, w, worker.JobFailed, "timed out waiting for acknowledgement")
			return false, true

		case ev, chOK := <-sub:
			if !chOK {
				a.finishJob(jobID, w, worker.JobFailed, "line subscription closed")
				return false, true
			}
			if ev.Lagged {
				continue
			}
			a.appendLog(jobID, "< "+ev.Line)
			if strings.HasPrefix(ev.Line, "ok") {
				return true, false
			}
			if strings.Contains(ev.Line, "Error") {
				a.finishJob(jobID, nil, worker.JobFailed, ev.Line)
				return false, true
			}
		}
	}
}

func (a *Agent) markRunning(jobID uuid.UUID, w *worker.Worker) {
	current, ok := w.CurrentJob()
	if !ok || current.ID != jobID {
		return
	}
	a.mu.Lock()
	job, ok := a.jobs[jobID]
	a.mu.Unlock()
	if !ok {
		return
	}
	job.Status = current.Status
	job.StartedAt = current.StartedAt
	a.setJob(job)
}

// finishJob terminates jobID with kind/reason on both the agent's record
// and, if w is non-nil and still tracking it, the worker's own queue.
func (a *Agent) finishJob(jobID uuid.UUID, w *worker.Worker, kind worker.JobStatusKind, reason string) {
	if w != nil {
		if kind == worker.JobFailed {
			w.FailJob(reason)
		} else {
			w.CompleteJob()
		}
	}

	a.mu.Lock()
	job, ok := a.jobs[jobID]
	a.mu.Unlock()
	if !ok {
		return
	}
	now := time.Now()
	job.Status = worker.JobStatus{Kind: kind, Reason: reason}
	job.FinishedAt = &now
	a.setJob(job)
}
