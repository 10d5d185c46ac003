package worker

import (
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/printctl/printctl-go/internal/errs"
	"github.com/printctl/printctl-go/internal/serialio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pieceReader yields each byte slice in pieces on successive Read calls,
// regardless of line boundaries, to exercise framing across arbitrary
// read boundaries (spec.md §8 scenario 4).
type pieceReader struct {
	pieces [][]byte
	idx    int
}

func (p *pieceReader) Read(buf []byte) (int, error) {
	if p.idx >= len(p.pieces) {
		return 0, io.EOF
	}
	n := copy(buf, p.pieces[p.idx])
	p.idx++
	return n, nil
}

func collectLines(t *testing.T, r io.Reader) []string {
	t.Helper()
	lineCh := make(chan string, 64)
	errCh := make(chan error, 1)
	readLines(r, lineCh, errCh)
	var out []string
	for l := range lineCh {
		out = append(out, l)
	}
	select {
	case err := <-errCh:
		require.NoError(t, err)
	default:
	}
	return out
}

func TestReadLinesAcrossArbitraryBoundaries(t *testing.T) {
	r := &pieceReader{pieces: [][]byte{
		[]byte("ok T:20"),
		[]byte("0.0 /0.0\n"),
		[]byte("X:1.0 Y:"),
		[]byte("2.0 Z:3.0\n"),
	}}
	lines := collectLines(t, r)
	require.Len(t, lines, 2)
	assert.Equal(t, "ok T:200.0 /0.0", lines[0])
	assert.Equal(t, "X:1.0 Y:2.0 Z:3.0", lines[1])
}

func TestReadLinesTrimsCRAndWhitespace(t *testing.T) {
	r := &pieceReader{pieces: [][]byte{[]byte("ok  \r\n")}}
	lines := collectLines(t, r)
	require.Len(t, lines, 1)
	assert.Equal(t, "ok", lines[0])
}

func TestApplyFirmwareLineTemperatureReport(t *testing.T) {
	state := newPrinterState()
	state.Tools[0] = ToolAxis{}
	applyFirmwareLine(&state, "T:205.2/210.0 B:60.0/60.0")
	assert.InDelta(t, 205.2, state.Tools[0].Temp, 1e-9)
	assert.InDelta(t, 210.0, state.Tools[0].Target, 1e-9)
	assert.InDelta(t, 60.0, state.Bed.Temp, 1e-9)
	assert.False(t, state.Ready)
}

func TestApplyFirmwareLineTemperatureReportSpacedForm(t *testing.T) {
	state := newPrinterState()
	state.Tools[0] = ToolAxis{}
	state.Tools[1] = ToolAxis{}
	applyFirmwareLine(&state, "T0:200.0 /210.0 T1:205.0 /215.0 B:60.0 /60.0")
	assert.InDelta(t, 200.0, state.Tools[0].Temp, 1e-9)
	assert.InDelta(t, 210.0, state.Tools[0].Target, 1e-9)
	assert.InDelta(t, 205.0, state.Tools[1].Temp, 1e-9)
	assert.InDelta(t, 215.0, state.Tools[1].Target, 1e-9)
	assert.InDelta(t, 60.0, state.Bed.Temp, 1e-9)
	assert.InDelta(t, 60.0, state.Bed.Target, 1e-9)
}

func TestApplyFirmwareLineOkDoesNotParseTemperature(t *testing.T) {
	state := newPrinterState()
	applyFirmwareLine(&state, "ok T:205.2/210.0")
	assert.True(t, state.Ready)
	assert.Empty(t, state.Tools)
}

func TestApplyFirmwareLineErrorSetsLastError(t *testing.T) {
	state := newPrinterState()
	applyFirmwareLine(&state, "Error:Thermal Runaway")
	require.NotNil(t, state.LastError)
	assert.Equal(t, "Error:Thermal Runaway", *state.LastError)
}

func TestApplyFirmwareLinePositionAndFan(t *testing.T) {
	state := newPrinterState()
	state.Tools[0] = ToolAxis{}
	applyFirmwareLine(&state, "X:10.0 Y:20.0 Z:5.0 E:1.5 FAN0 speed:128")
	assert.InDelta(t, 10.0, state.Tools[0].X, 1e-9)
	assert.InDelta(t, 20.0, state.Tools[0].Y, 1e-9)
	assert.Equal(t, uint8(128), state.FanSpeed)
}

func TestApplyFirmwareLineFanSpeedClamped(t *testing.T) {
	state := newPrinterState()
	applyFirmwareLine(&state, "FAN0 speed:999")
	assert.Equal(t, uint8(255), state.FanSpeed)
}

func TestWriteFailsFastWhileDisconnected(t *testing.T) {
	w := New("printer-test", "/dev/printctl-test-nonexistent", 115200, serialio.NewRegistry(), nil)
	go w.Run()
	defer w.Stop()

	done := make(chan error, 1)
	go func() { done <- w.Write([]byte("G28\n")) }()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.Equal(t, errs.KindDisconnected, errs.KindOf(err))
	case <-time.After(2 * time.Second):
		t.Fatal("Write did not fail fast while disconnected")
	}
}

func TestJobQueueLifecycle(t *testing.T) {
	q := newJobQueue()
	job := Job{ID: uuid.New(), Status: JobStatus{Kind: JobQueued}, CreatedAt: time.Now()}
	q.push(job)

	_, ok := q.Current()
	assert.False(t, ok)

	started, ok := q.startNext(time.Now())
	require.True(t, ok)
	assert.Equal(t, JobRunning, started.Status.Kind)
	require.NotNil(t, started.StartedAt)

	_, ok = q.startNext(time.Now())
	assert.False(t, ok, "cannot start a second job while one is running")

	finished, ok := q.finishCurrent(JobStatus{Kind: JobCompleted}, time.Now())
	require.True(t, ok)
	assert.Equal(t, JobCompleted, finished.Status.Kind)

	_, ok = q.Current()
	assert.False(t, ok)
}

func TestJobQueueFailureRecordsReason(t *testing.T) {
	q := newJobQueue()
	q.push(Job{ID: uuid.New()})
	_, ok := q.startNext(time.Now())
	require.True(t, ok)

	finished, ok := q.finishCurrent(JobStatus{Kind: JobFailed, Reason: "nozzle jam"}, time.Now())
	require.True(t, ok)
	assert.Equal(t, JobFailed, finished.Status.Kind)
	assert.Equal(t, "nozzle jam", finished.Status.Reason)
}

func TestLineBroadcastDeliversToAllSubscribers(t *testing.T) {
	b := newLineBroadcast()
	a := b.Subscribe()
	c := b.Subscribe()

	b.Publish("ok")

	assert.Equal(t, LineEvent{Line: "ok"}, <-a)
	assert.Equal(t, LineEvent{Line: "ok"}, <-c)
}

func TestLineBroadcastLaggedSubscriberIsClosed(t *testing.T) {
	b := newLineBroadcast()
	slow := b.Subscribe()

	for i := 0; i < lineBroadcastCapacity+1; i++ {
		b.Publish("line")
	}

	var lastEvent LineEvent
	for ev := range slow {
		lastEvent = ev
	}
	assert.True(t, lastEvent.Lagged)
}

func TestLineBroadcastUnsubscribeIsIdempotent(t *testing.T) {
	b := newLineBroadcast()
	ch := b.Subscribe()
	b.Unsubscribe(ch)
	assert.NotPanics(t, func() { b.Unsubscribe(ch) })
}
