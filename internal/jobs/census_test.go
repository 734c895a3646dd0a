package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/opendesk/support-storage-go/internal/model"
)

type mockCensusSource struct {
	calls atomic.Int64
	err   error
}

func (m *mockCensusSource) KeyCensus(ctx context.Context) (*model.KeyCensus, error) {
	m.calls.Add(1)
	if m.err != nil {
		return nil, m.err
	}
	return &model.KeyCensus{SessionsActive: 2, ContextsActive: 1}, nil
}

func TestCensusJobRunsImmediatelyAndOnTicks(t *testing.T) {
	source := &mockCensusSource{}
	job := NewCensusJob(source, 20*time.Millisecond)

	job.Start()
	time.Sleep(70 * time.Millisecond)
	job.Stop()

	// one immediate run plus at least two ticks
	assert.GreaterOrEqual(t, source.calls.Load(), int64(3))
}

func TestCensusJobStops(t *testing.T) {
	source := &mockCensusSource{}
	job := NewCensusJob(source, 10*time.Millisecond)

	job.Start()
	time.Sleep(25 * time.Millisecond)
	job.Stop()
	time.Sleep(20 * time.Millisecond)

	stopped := source.calls.Load()
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, stopped, source.calls.Load())
}

func TestCensusJobSurvivesErrors(t *testing.T) {
	source := &mockCensusSource{err: errors.New("cache down")}
	job := NewCensusJob(source, 10*time.Millisecond)

	job.Start()
	time.Sleep(35 * time.Millisecond)
	job.Stop()

	assert.GreaterOrEqual(t, source.calls.Load(), int64(2))
}
