package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "atlas:queue:"

// promoteScript 把到期的延迟任务移入就绪列表，ZREM 成功才 LPUSH，多个 worker 并发时不会重复
var promoteScript = redis.NewScript(`
local due = redis.call('ZRANGEBYSCORE', KEYS[1], '-inf', ARGV[1], 'LIMIT', 0, 100)
local moved = 0
for _, v in ipairs(due) do
  if redis.call('ZREM', KEYS[1], v) == 1 then
    redis.call('LPUSH', KEYS[2], v)
    moved = moved + 1
  end
end
return moved
`)

// RedisBroker 就绪任务在 list 中，延迟任务在按 ETA 排序的 zset 中
type RedisBroker struct {
	rdb *redis.Client
	now func() time.Time
}

func NewRedisBroker(rdb *redis.Client) *RedisBroker {
	return &RedisBroker{rdb: rdb, now: time.Now}
}

func readyKey(queue string) string   { return keyPrefix + queue }
func delayedKey(queue string) string { return keyPrefix + queue + ":delayed" }

func (b *RedisBroker) Enqueue(ctx context.Context, job *Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job %s: %w", job.ID, err)
	}
	if job.ETA.After(b.now()) {
		err = b.rdb.ZAdd(ctx, delayedKey(job.Queue), redis.Z{
			Score:  float64(job.ETA.UnixMilli()),
			Member: payload,
		}).Err()
	} else {
		err = b.rdb.LPush(ctx, readyKey(job.Queue), payload).Err()
	}
	if err != nil {
		return fmt.Errorf("enqueue job %s: %w", job.ID, err)
	}
	return nil
}

func (b *RedisBroker) Dequeue(ctx context.Context, queue string, wait time.Duration) (*Job, error) {
	now := strconv.FormatInt(b.now().UnixMilli(), 10)
	if err := promoteScript.Run(ctx, b.rdb, []string{delayedKey(queue), readyKey(queue)}, now).Err(); err != nil {
		return nil, fmt.Errorf("promote delayed jobs: %w", err)
	}
	res, err := b.rdb.BRPop(ctx, wait, readyKey(queue)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("dequeue %s: %w", queue, err)
	}
	var job Job
	if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
		return nil, fmt.Errorf("decode job: %w", err)
	}
	return &job, nil
}

func (b *RedisBroker) Close() error {
	return b.rdb.Close()
}
