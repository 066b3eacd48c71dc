package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestQueueProcessesJobs(t *testing.T) {
	done := make(chan string, 1)
	q := NewQueue("mail", func(ctx context.Context, job Job) error {
		done <- job.Payload.(string)
		return nil
	}, QueueConfig{Workers: 2})
	q.Start(context.Background())
	defer q.Stop()

	id, err := q.Enqueue(context.Background(), Job{Type: "novedad", Payload: "hello"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	select {
	case got := <-done:
		assert.Equal(t, "hello", got)
	case <-time.After(2 * time.Second):
		t.Fatal("job not processed")
	}
}

func TestQueueRetriesThenReportsFailure(t *testing.T) {
	var attempts atomic.Int32
	failed := make(chan Job, 1)
	q := NewQueue("mail", func(ctx context.Context, job Job) error {
		attempts.Add(1)
		return errors.New("smtp down")
	}, QueueConfig{
		MaxRetries: 2,
		RetryDelay: 5 * time.Millisecond,
		OnFailure:  func(j Job, err error) { failed <- j },
	})
	q.Start(context.Background())
	defer q.Stop()

	_, err := q.Enqueue(context.Background(), Job{ID: "job-1"})
	require.NoError(t, err)

	select {
	case j := <-failed:
		assert.Equal(t, "job-1", j.ID)
		assert.Equal(t, 3, j.Attempt)
		assert.Equal(t, int32(3), attempts.Load())
	case <-time.After(2 * time.Second):
		t.Fatal("failure hook not called")
	}
}

func TestQueueRejectsWhenStopped(t *testing.T) {
	q := NewQueue("mail", func(ctx context.Context, job Job) error { return nil }, QueueConfig{})
	_, err := q.Enqueue(context.Background(), Job{})
	assert.ErrorIs(t, err, ErrQueueClosed)

	q.Start(context.Background())
	q.Stop()
	_, err = q.Enqueue(context.Background(), Job{})
	assert.ErrorIs(t, err, ErrQueueClosed)
}

func TestQueuePermanentErrorSkipsRetries(t *testing.T) {
	var attempts atomic.Int32
	failed := make(chan error, 1)
	q := NewQueue("mail", func(ctx context.Context, job Job) error {
		attempts.Add(1)
		return Permanent(errors.New("bad payload"))
	}, QueueConfig{MaxRetries: 5, RetryDelay: time.Millisecond, OnFailure: func(j Job, err error) { failed <- err }})
	q.Start(context.Background())
	defer q.Stop()

	_, err := q.Enqueue(context.Background(), Job{})
	require.NoError(t, err)

	select {
	case err := <-failed:
		assert.True(t, IsPermanent(err))
		assert.EqualError(t, err, "bad payload")
	case <-time.After(2 * time.Second):
		t.Fatal("failure hook not called")
	}
	assert.Equal(t, int32(1), attempts.Load())
	assert.Equal(t, Stats{Failed: 1}, q.Stats())
}

func TestQueueBackoffIsCapped(t *testing.T) {
	q := NewQueue("mail", nil, QueueConfig{RetryDelay: 100 * time.Millisecond, MaxRetryDelay: time.Second})

	assert.Equal(t, 100*time.Millisecond, q.backoff(1))
	assert.Equal(t, 200*time.Millisecond, q.backoff(2))
	assert.Equal(t, 800*time.Millisecond, q.backoff(4))
	assert.Equal(t, time.Second, q.backoff(5))
	assert.Equal(t, time.Second, q.backoff(40))
}

func TestPermanentNil(t *testing.T) {
	assert.NoError(t, Permanent(nil))
	assert.False(t, IsPermanent(errors.New("x")))
}
