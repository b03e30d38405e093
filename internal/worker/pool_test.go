package worker

import (
	"context"
	stderrors "errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type funcJob struct {
	name string
	run  func(context.Context) error
}

func (j *funcJob) Name() string                  { return j.name }
func (j *funcJob) Run(ctx context.Context) error { return j.run(ctx) }

func TestPool_RunsSubmittedJobs(t *testing.T) {
	p := NewPool(2, 8)
	p.Start(context.Background())

	var ran atomic.Int32
	done := make(chan struct{}, 3)
	for i := 0; i < 3; i++ {
		err := p.Submit(&funcJob{name: "count", run: func(context.Context) error {
			ran.Add(1)
			done <- struct{}{}
			return nil
		}})
		require.NoError(t, err)
	}

	for i := 0; i < 3; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("job did not run")
		}
	}
	p.Stop()
	assert.Equal(t, int32(3), ran.Load())
}

func TestPool_SubmitFullQueue(t *testing.T) {
	p := NewPool(1, 1)

	noop := &funcJob{name: "noop", run: func(context.Context) error { return nil }}
	require.NoError(t, p.Submit(noop))
	assert.Equal(t, 1, p.QueueSize())
	assert.ErrorIs(t, p.Submit(noop), ErrQueueFull)
}

func TestPool_SubmitAfterStop(t *testing.T) {
	p := NewPool(1, 1)
	p.Start(context.Background())
	p.Stop()
	p.Stop()

	err := p.Submit(&funcJob{name: "late", run: func(context.Context) error { return nil }})
	assert.ErrorIs(t, err, ErrStopped)
}

func TestPool_SurvivesFailingAndPanickingJobs(t *testing.T) {
	p := NewPool(1, 4)
	p.Start(context.Background())
	defer p.Stop()

	require.NoError(t, p.Submit(&funcJob{name: "fail", run: func(context.Context) error {
		return stderrors.New("boom")
	}}))
	require.NoError(t, p.Submit(&funcJob{name: "panic", run: func(context.Context) error {
		panic("kaboom")
	}}))

	done := make(chan struct{})
	require.NoError(t, p.Submit(&funcJob{name: "after", run: func(context.Context) error {
		close(done)
		return nil
	}}))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not survive earlier jobs")
	}
}
