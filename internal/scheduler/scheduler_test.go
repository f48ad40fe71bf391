package scheduler

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/advisor/pkg/logger"
)

type countingJob struct {
	name string
	runs atomic.Int32
	err  error
}

func (j *countingJob) Run() error {
	j.runs.Add(1)
	return j.err
}

func (j *countingJob) Name() string { return j.name }

func TestAddJob_InvalidSchedule(t *testing.T) {
	log := logger.New(logger.Config{Level: "error", Pretty: false})
	s := New(log)

	err := s.AddJob("not a schedule", &countingJob{name: "bad"})
	assert.Error(t, err)
}

func TestScheduledJobRuns(t *testing.T) {
	log := logger.New(logger.Config{Level: "error", Pretty: false})
	s := New(log)

	job := &countingJob{name: "tick"}
	require.NoError(t, s.AddJob("@every 100ms", job))

	s.Start()
	defer s.Stop()

	deadline := time.After(2 * time.Second)
	for job.runs.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("job never ran")
		case <-time.After(20 * time.Millisecond):
		}
	}
}

func TestRunNow(t *testing.T) {
	log := logger.New(logger.Config{Level: "error", Pretty: false})
	s := New(log)

	job := &countingJob{name: "manual"}
	require.NoError(t, s.RunNow(job))
	assert.Equal(t, int32(1), job.runs.Load())

	failing := &countingJob{name: "failing", err: fmt.Errorf("boom")}
	assert.Error(t, s.RunNow(failing))
}
