package queue

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Broker 存放待执行任务，Dequeue 在 wait 内没有任务时返回 (nil, nil)
type Broker interface {
	Enqueue(ctx context.Context, job *Job) error
	Dequeue(ctx context.Context, queue string, wait time.Duration) (*Job, error)
	Close() error
}

// LocalBroker 进程内队列，单进程部署和测试使用
type LocalBroker struct {
	mu     sync.Mutex
	jobs   map[string][]*Job
	notify chan struct{}
	now    func() time.Time
}

func NewLocalBroker() *LocalBroker {
	return &LocalBroker{
		jobs:   make(map[string][]*Job),
		notify: make(chan struct{}, 1),
		now:    time.Now,
	}
}

func (b *LocalBroker) Enqueue(ctx context.Context, job *Job) error {
	b.mu.Lock()
	q := append(b.jobs[job.Queue], job)
	sort.SliceStable(q, func(i, j int) bool { return q[i].ETA.Before(q[j].ETA) })
	b.jobs[job.Queue] = q
	b.mu.Unlock()

	select {
	case b.notify <- struct{}{}:
	default:
	}
	return nil
}

func (b *LocalBroker) Dequeue(ctx context.Context, queue string, wait time.Duration) (*Job, error) {
	deadline := time.NewTimer(wait)
	defer deadline.Stop()
	for {
		job, next := b.pop(queue)
		if job != nil {
			return job, nil
		}
		var retry *time.Timer
		var retryC <-chan time.Time
		if next > 0 {
			retry = time.NewTimer(next)
			retryC = retry.C
		}
		select {
		case <-ctx.Done():
			stopTimer(retry)
			return nil, ctx.Err()
		case <-deadline.C:
			stopTimer(retry)
			return nil, nil
		case <-b.notify:
			stopTimer(retry)
		case <-retryC:
		}
	}
}

// pop 取出一个到期任务，没有时返回最近一个任务的剩余等待时间
func (b *LocalBroker) pop(queue string) (*Job, time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	q := b.jobs[queue]
	if len(q) == 0 {
		return nil, 0
	}
	now := b.now()
	if q[0].ETA.After(now) {
		return nil, q[0].ETA.Sub(now)
	}
	job := q[0]
	b.jobs[queue] = q[1:]
	return job, 0
}

// Len 某个队列中的任务数，包含未到期的
func (b *LocalBroker) Len(queue string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.jobs[queue])
}

func (b *LocalBroker) Close() error {
	return nil
}

func stopTimer(t *time.Timer) {
	if t != nil {
		t.Stop()
	}
}
