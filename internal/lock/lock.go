// Package lock provides a named mutual-exclusion lock with a bounded wait,
// guarding the weekly read-decide-write critical section against overlapping
// scheduled and user-triggered requests.
package lock

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrTimeout reports that the lock could not be acquired within the wait
// window. Callers treat this as fatal for the request.
var ErrTimeout = errors.New("lock wait timed out")

const (
	keyPrefix    = "goalreport:lock:"
	pollInterval = 100 * time.Millisecond
)

// Locker acquires a named lock, returning a release function that must run
// on every exit path.
type Locker interface {
	Acquire(ctx context.Context, name string, wait time.Duration) (func(), error)
}

// RedisLocker implements Locker with SET NX and a uuid ownership token, so a
// crashed holder expires via TTL and release never deletes another holder's
// lock.
type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisLocker creates a locker whose acquired locks expire after ttl.
func NewRedisLocker(client *redis.Client, ttl time.Duration) *RedisLocker {
	return &RedisLocker{client: client, ttl: ttl}
}

// releaseScript deletes the lock only while we still own it.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// Acquire polls SET NX until it wins or the wait window closes.
func (l *RedisLocker) Acquire(ctx context.Context, name string, wait time.Duration) (func(), error) {
	key := keyPrefix + name
	token := uuid.New().String()
	deadline := time.Now().Add(wait)

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			release := func() {
				releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = releaseScript.Run(releaseCtx, l.client, []string{key}, token).Err()
			}
			return release, nil
		}

		if time.Now().After(deadline) {
			return nil, ErrTimeout
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}

// LocalLocker implements Locker in-process. It backs tests and single-node
// deployments without Redis.
type LocalLocker struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

// NewLocalLocker creates an in-process locker.
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{slots: make(map[string]chan struct{})}
}

func (l *LocalLocker) slot(name string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch, ok := l.slots[name]
	if !ok {
		ch = make(chan struct{}, 1)
		l.slots[name] = ch
	}
	return ch
}

// Acquire takes the named slot or fails with ErrTimeout after wait.
func (l *LocalLocker) Acquire(ctx context.Context, name string, wait time.Duration) (func(), error) {
	ch := l.slot(name)

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case ch <- struct{}{}:
		return func() { <-ch }, nil
	case <-timer.C:
		return nil, ErrTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
