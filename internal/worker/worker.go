package worker

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/printctl/printctl-go/internal/errs"
	"github.com/printctl/printctl-go/internal/serialio"
)

// disconnectedRetryInterval is how long the worker waits before retrying
// an open after its stream drops, per spec.md §4.6.
const disconnectedRetryInterval = 200 * time.Millisecond

// readChunkSize is the buffer size used for each raw port read.
const readChunkSize = 1024

// CommandKind tags which operation a Command carries out.
type CommandKind int

const (
	CommandWrite CommandKind = iota
	CommandQueueJob
	CommandStartNextJob
	CommandCompleteJob
	CommandFailJob
)

// Command is one request submitted to a Worker's owning goroutine. Exactly
// one of the optional fields is populated per Kind. Result, if non-nil,
// receives the command's outcome (nil on success) once the worker has
// handled it.
type Command struct {
	Kind    CommandKind
	Payload []byte
	Job     Job
	Reason  string
	Result  chan error
}

// Worker owns a single open serial stream exclusively: all reads, writes,
// and state mutation happen on its one goroutine, per spec.md §4.6 (the
// single-owner actor pattern), grounded on the teacher's PacketRouter,
// generalized from SACP-packet framing to line framing and from a
// request/response map to the line broadcast above.
type Worker struct {
	printerID string
	registry  *serialio.Registry
	path      string
	baud      int

	state    *sharedState
	jobs     *jobQueue
	lines    *lineBroadcast
	commands chan Command
	done     chan struct{}
	stopped  int32

	logger *slog.Logger
}

// New creates a Worker bound to path/baud but does not open the port; call
// Run to start its owning goroutine.
func New(printerID, path string, baud int, registry *serialio.Registry, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{
		printerID: printerID,
		registry:  registry,
		path:      path,
		baud:      baud,
		state:     newSharedState(),
		jobs:      newJobQueue(),
		lines:     newLineBroadcast(),
		commands:  make(chan Command, 32),
		done:      make(chan struct{}),
		logger:    logger.With("printer_id", printerID, "path", path),
	}
}

// Snapshot returns the worker's current printer state.
func (w *Worker) Snapshot() PrinterState { return w.state.Snapshot() }

// Jobs returns the worker's currently queued jobs.
func (w *Worker) Jobs() []Job { return w.jobs.Snapshot() }

// Subscribe returns a channel of future firmware lines.
func (w *Worker) Subscribe() chan LineEvent { return w.lines.Subscribe() }

// Unsubscribe releases a channel returned by Subscribe.
func (w *Worker) Unsubscribe(ch chan LineEvent) { w.lines.Unsubscribe(ch) }

// Write enqueues raw bytes for transmission to the printer and blocks
// until the worker has attempted the write.
func (w *Worker) Write(payload []byte) error {
	result := make(chan error, 1)
	w.commands <- Command{Kind: CommandWrite, Payload: payload, Result: result}
	return <-result
}

// QueueJob appends job to this worker's FIFO.
func (w *Worker) QueueJob(job Job) {
	w.commands <- Command{Kind: CommandQueueJob, Job: job}
}

// StartNextJob signals the worker to pop and begin its next queued job.
func (w *Worker) StartNextJob() {
	w.commands <- Command{Kind: CommandStartNextJob}
}

// CompleteJob marks the currently running job Completed.
func (w *Worker) CompleteJob() {
	w.commands <- Command{Kind: CommandCompleteJob}
}

// FailJob marks the currently running job Failed with reason.
func (w *Worker) FailJob(reason string) {
	w.commands <- Command{Kind: CommandFailJob, Reason: reason}
}

// CurrentJob returns the job currently running on this worker, if any.
func (w *Worker) CurrentJob() (Job, bool) { return w.jobs.Current() }

// Stop signals the worker's goroutine to exit and blocks until it does.
func (w *Worker) Stop() {
	atomic.StoreInt32(&w.stopped, 1)
	<-w.done
}

// Done reports when the worker's goroutine has exited.
func (w *Worker) Done() <-chan struct{} { return w.done }

// Run opens the serial stream and drives the worker's read/command loop
// until Stop is called. A failed open or a dropped stream is retried after
// disconnectedRetryInterval. Run is meant to be launched in its own
// goroutine.
func (w *Worker) Run() {
	defer close(w.done)
	defer w.lines.closeAll()

	for atomic.LoadInt32(&w.stopped) == 0 {
		stream, err := w.registry.Open(w.path, w.baud)
		if err != nil {
			w.logger.Warn("open failed, retrying", "error", err)
			w.rejectWhileDisconnected(disconnectedRetryInterval)
			continue
		}
		w.runConnected(stream)
	}
}

// rejectWhileDisconnected drains the command channel for wait, failing
// fast any write that arrives rather than leaving it queued until the
// stream reopens (spec.md §4.6/§7: "Disconnected: Write/ReadLine fail
// fast"). Job-bookkeeping commands still apply while disconnected.
func (w *Worker) rejectWhileDisconnected(wait time.Duration) {
	timer := time.NewTimer(wait)
	defer timer.Stop()
	for {
		select {
		case <-timer.C:
			return
		case cmd := <-w.commands:
			w.onCommand(nil, cmd)
		}
	}
}

func (w *Worker) runConnected(stream *serialio.Stream) {
	defer stream.Close()

	lineCh := make(chan string, 64)
	readErrCh := make(chan error, 1)
	go readLines(stream, lineCh, readErrCh)

	for {
		select {
		case line, ok := <-lineCh:
			if !ok {
				return
			}
			w.onLine(line)

		case err := <-readErrCh:
			w.logger.Warn("serial read failed", "error", err)
			return

		case cmd := <-w.commands:
			w.onCommand(stream, cmd)

		case <-time.After(disconnectedRetryInterval):
			if atomic.LoadInt32(&w.stopped) != 0 {
				return
			}
		}

		if atomic.LoadInt32(&w.stopped) != 0 {
			return
		}
	}
}

// readLines reads fixed-size chunks from r, splits them into
// newline-terminated records across arbitrary read boundaries, and
// forwards each trimmed line on lineCh. It is a free function, not a
// Worker method, so the line-framing logic is testable against a plain
// io.Reader without an open serial port.
func readLines(r io.Reader, lineCh chan<- string, errCh chan<- error) {
	defer close(lineCh)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, readChunkSize), readChunkSize*4)
	scanner.Split(bufio.ScanLines)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n \t")
		if line == "" {
			continue
		}
		lineCh <- line
	}
	if err := scanner.Err(); err != nil {
		errCh <- err
	}
}

func (w *Worker) onLine(line string) {
	var becameError bool
	w.state.mutate(func(s *PrinterState) {
		before := s.LastError
		applyFirmwareLine(s, line)
		becameError = s.LastError != nil && (before == nil || *before != *s.LastError)
	})
	w.lines.Publish(line)

	if becameError {
		if _, ok := w.jobs.finishCurrent(JobStatus{Kind: JobFailed, Reason: line}, startedAtNow()); ok {
			w.logger.Warn("job failed on firmware error", "reason", line)
		}
	}
}

func (w *Worker) onCommand(stream *serialio.Stream, cmd Command) {
	switch cmd.Kind {
	case CommandWrite:
		var err error
		if stream == nil {
			err = errs.New(errs.KindDisconnected, "Worker.Write", fmt.Errorf("printer %s is disconnected", w.printerID))
		} else if _, werr := stream.Write(cmd.Payload); werr != nil {
			err = errs.New(errs.KindIO, "Worker.Write", werr)
		}
		if cmd.Result != nil {
			cmd.Result <- err
		}

	case CommandQueueJob:
		job := cmd.Job
		job.Status = JobStatus{Kind: JobQueued}
		w.jobs.push(job)

	case CommandStartNextJob:
		w.jobs.startNext(startedAtNow())

	case CommandCompleteJob:
		w.jobs.finishCurrent(JobStatus{Kind: JobCompleted}, startedAtNow())

	case CommandFailJob:
		w.jobs.finishCurrent(JobStatus{Kind: JobFailed, Reason: cmd.Reason}, startedAtNow())

	default:
		if cmd.Result != nil {
			cmd.Result <- fmt.Errorf("worker: unknown command kind %d", cmd.Kind)
		}
	}
}

func startedAtNow() time.Time { return time.Now() }
