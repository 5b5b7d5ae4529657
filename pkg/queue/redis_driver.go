package queue

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	readyKey   = "sweetshop:queue:jobs"
	delayedKey = "sweetshop:queue:delayed"

	popTimeout      = 5 * time.Second
	promoteInterval = time.Second
)

// RedisDriver makes the queue survive restarts. Ready jobs sit in a list
// (LPUSH/BRPOP); delayed jobs sit in a sorted set scored by the Unix time
// they become due, with a background promoter moving them over.
type RedisDriver struct {
	rdb *redis.Client
	ctx context.Context
}

// NewRedisDriver wraps the given client (share the one from pkg/cache) and
// starts the delayed-job promoter.
func NewRedisDriver(rdb *redis.Client) *RedisDriver {
	d := &RedisDriver{rdb: rdb, ctx: context.Background()}
	go d.promoteLoop()
	return d
}

func (d *RedisDriver) Push(payload []byte) error {
	if err := d.rdb.LPush(d.ctx, readyKey, payload).Err(); err != nil {
		return fmt.Errorf("queue/redis: push: %w", err)
	}
	return nil
}

// Pop blocks up to popTimeout for the next job. (nil, nil) means the wait
// timed out; the consumer loops and tries again.
func (d *RedisDriver) Pop(ctx context.Context) ([]byte, error) {
	res, err := d.rdb.BRPop(ctx, popTimeout, readyKey).Result()
	switch {
	case err == redis.Nil:
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("queue/redis: pop: %w", err)
	case len(res) < 2:
		return nil, nil
	}
	// BRPOP returns [key, value].
	return []byte(res[1]), nil
}

// PushDelayed parks the payload until delay has elapsed.
func (d *RedisDriver) PushDelayed(payload []byte, delay time.Duration) error {
	member := redis.Z{
		Score:  float64(time.Now().Add(delay).Unix()),
		Member: string(payload),
	}
	if err := d.rdb.ZAdd(d.ctx, delayedKey, member).Err(); err != nil {
		return fmt.Errorf("queue/redis: push delayed: %w", err)
	}
	return nil
}

func (d *RedisDriver) promoteLoop() {
	ticker := time.NewTicker(promoteInterval)
	defer ticker.Stop()
	for now := range ticker.C {
		d.promoteDue(now)
	}
}

// promoteDue moves every job whose due time has passed onto the ready list.
func (d *RedisDriver) promoteDue(now time.Time) {
	due, err := d.rdb.ZRangeByScore(d.ctx, delayedKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatInt(now.Unix(), 10),
	}).Result()
	if err != nil || len(due) == 0 {
		return
	}
	pipe := d.rdb.Pipeline()
	for _, job := range due {
		pipe.ZRem(d.ctx, delayedKey, job)
		pipe.LPush(d.ctx, readyKey, []byte(job))
	}
	_, _ = pipe.Exec(d.ctx)
}
