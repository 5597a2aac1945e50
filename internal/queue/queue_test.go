package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"atlas/internal/metrics"
	"atlas/pkg/log"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(broker Broker) *Server {
	conf := viper.New()
	conf.Set("queue.concurrency", 2)
	return NewServer(conf, broker, log.NewNop(), metrics.NewMetrics())
}

func TestServer_TimeLimit(t *testing.T) {
	s := newTestServer(NewLocalBroker())
	s.Handle("import_backup", func(ctx context.Context, job *Job) (*Report, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}, 50*time.Millisecond)

	var hooked *Completion
	s.OnComplete(func(ctx context.Context, c *Completion) { hooked = c })

	job, err := NewJob("import_backup", map[string]string{"env": "prod"}, time.Now())
	require.NoError(t, err)
	c := s.Process(context.Background(), job)

	var timeout *TimeoutError
	require.True(t, errors.As(c.Err, &timeout))
	assert.Equal(t, "timeout", c.Status)
	assert.Same(t, c, hooked)
}

func TestServer_HandlerIgnoresCancel(t *testing.T) {
	s := newTestServer(NewLocalBroker())
	release := make(chan struct{})
	defer close(release)
	s.Handle("stuck", func(ctx context.Context, job *Job) (*Report, error) {
		<-release
		return nil, nil
	}, 20*time.Millisecond)

	job, err := NewJob("stuck", nil, time.Now())
	require.NoError(t, err)

	start := time.Now()
	c := s.Process(context.Background(), job)
	assert.Equal(t, "timeout", c.Status)
	assert.Less(t, time.Since(start), time.Second)
}

func TestServer_FailureAndPanic(t *testing.T) {
	s := newTestServer(NewLocalBroker())
	s.Handle("fail", func(ctx context.Context, job *Job) (*Report, error) {
		return nil, errors.New("boom")
	}, 0)
	s.Handle("panic", func(ctx context.Context, job *Job) (*Report, error) {
		panic("bad")
	}, 0)

	job, _ := NewJob("fail", nil, time.Now())
	c := s.Process(context.Background(), job)
	assert.Equal(t, "failed", c.Status)
	assert.EqualError(t, c.Err, "boom")

	job, _ = NewJob("panic", nil, time.Now())
	c = s.Process(context.Background(), job)
	assert.Equal(t, "failed", c.Status)
	assert.Contains(t, c.Err.Error(), "panic")

	job, _ = NewJob("unknown", nil, time.Now())
	c = s.Process(context.Background(), job)
	assert.Equal(t, "failed", c.Status)
}

func TestServer_ActorPropagates(t *testing.T) {
	s := newTestServer(NewLocalBroker())
	var actor string
	s.Handle("whoami", func(ctx context.Context, job *Job) (*Report, error) {
		actor = ActorFromContext(ctx)
		return &Report{Title: "ok"}, nil
	}, 0)

	job, _ := NewJob("whoami", nil, time.Now(), WithActor("jdoe"))
	c := s.Process(context.Background(), job)
	require.NoError(t, c.Err)
	assert.Equal(t, "jdoe", actor)
	assert.Equal(t, "ok", c.Report.Title)
}

func TestClient_SubmitDelay(t *testing.T) {
	broker := NewLocalBroker()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	broker.now = func() time.Time { return now }
	c := &client{broker: broker, logger: log.NewNop(), now: func() time.Time { return now }}

	ctx := ContextWithActor(context.Background(), "jdoe")
	id, err := c.Submit(ctx, "cron_run", map[string]int64{"instance_id": 1}, WithDelay(time.Hour))
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, 1, broker.Len(DefaultQueue))

	job, err := broker.Dequeue(context.Background(), DefaultQueue, 10*time.Millisecond)
	require.NoError(t, err)
	assert.Nil(t, job)

	now = now.Add(time.Hour)
	job, err = broker.Dequeue(context.Background(), DefaultQueue, 10*time.Millisecond)
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.Equal(t, id, job.ID)
	assert.Equal(t, "jdoe", job.Actor)

	var args struct {
		InstanceID int64 `json:"instance_id"`
	}
	require.NoError(t, job.Bind(&args))
	assert.Equal(t, int64(1), args.InstanceID)
}

func TestServer_StartStop(t *testing.T) {
	broker := NewLocalBroker()
	s := newTestServer(broker)
	s.poll = 10 * time.Millisecond

	ran := make(chan string, 1)
	s.Handle("ping", func(ctx context.Context, job *Job) (*Report, error) {
		ran <- job.ID
		return nil, nil
	}, 0)

	go func() { _ = s.Start(context.Background()) }()

	job, _ := NewJob("ping", nil, time.Now())
	require.NoError(t, broker.Enqueue(context.Background(), job))

	select {
	case id := <-ran:
		assert.Equal(t, job.ID, id)
	case <-time.After(2 * time.Second):
		t.Fatal("job was not processed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
}
