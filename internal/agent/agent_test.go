package agent

import (
	"testing"

	"github.com/google/uuid"
	"github.com/printctl/printctl-go/internal/errs"
	"github.com/printctl/printctl-go/internal/serialio"
	"github.com/printctl/printctl-go/internal/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAgent() *Agent {
	return New("bench1", serialio.NewRegistry(), nil)
}

func TestCreateJobUnknownPrinterFails(t *testing.T) {
	a := newTestAgent()
	gcodeID := a.UploadGCode("part.gcode", []byte("G28\n"))

	_, err := a.CreateJob("printer-x", gcodeID)
	require.Error(t, err)
	assert.Equal(t, errs.KindNotConnected, errs.KindOf(err))
}

func TestCreateJobUnknownGCodeFileFails(t *testing.T) {
	a := newTestAgent()
	a.printers["printer-1"] = worker.New("printer-1", "/dev/null", 115200, a.registry, nil)

	_, err := a.CreateJob("printer-1", uuid.New())
	require.Error(t, err)
}

func TestCreateJobSucceedsAndQueues(t *testing.T) {
	a := newTestAgent()
	a.printers["printer-1"] = worker.New("printer-1", "/dev/null", 115200, a.registry, nil)
	gcodeID := a.UploadGCode("part.gcode", []byte("G28\n"))

	jobID, err := a.CreateJob("printer-1", gcodeID)
	require.NoError(t, err)

	job, ok := a.GetJob(jobID)
	require.True(t, ok)
	assert.Equal(t, worker.JobQueued, job.Status.Kind)
	assert.Len(t, a.ListJobs(), 1)
}

func TestPopDispatchableReturnsQueuedJobForIdlePrinter(t *testing.T) {
	a := newTestAgent()
	a.printers["printer-1"] = worker.New("printer-1", "/dev/null", 115200, a.registry, nil)
	gcodeID := a.UploadGCode("part.gcode", []byte("G28\n"))
	jobID, err := a.CreateJob("printer-1", gcodeID)
	require.NoError(t, err)

	job, w, content, ok := a.popDispatchable()
	require.True(t, ok)
	assert.Equal(t, jobID, job.ID)
	assert.NotNil(t, w)
	assert.Equal(t, []byte("G28\n"), content)

	// The queue is drained; a second pop finds nothing.
	_, _, _, ok = a.popDispatchable()
	assert.False(t, ok)
}

func TestGetJobLogsEmptyForUnknownJob(t *testing.T) {
	a := newTestAgent()
	assert.Empty(t, a.GetJobLogs(uuid.New()))
}
