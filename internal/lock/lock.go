package lock

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/typeshelf/typeshelf/backend/go-services/pkg/logger"
)

var log = logger.Component("lock")

// Locker serializes writers of a shared resource. Lock blocks until the lock is
// held or ctx is done; the returned func releases it.
type Locker interface {
	Lock(ctx context.Context) (unlock func(), err error)
}

// Local is an in-process Locker. A buffered channel is used instead of
// sync.Mutex so that waiting respects ctx.
type Local struct {
	once sync.Once
	ch   chan struct{}
}

func NewLocal() *Local {
	l := &Local{}
	l.init()
	return l
}

func (l *Local) init() {
	l.once.Do(func() { l.ch = make(chan struct{}, 1) })
}

func (l *Local) Lock(ctx context.Context) (func(), error) {
	l.init()
	select {
	case l.ch <- struct{}{}:
		var released sync.Once
		return func() { released.Do(func() { <-l.ch }) }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// releaseScript deletes the key only while it still holds our token, so a
// holder whose TTL expired cannot release somebody else's lock.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis is a single-instance Redis lock (SET NX PX + token-checked release).
// It serializes writers across processes that share one group data file.
type Redis struct {
	client *redis.Client
	key    string
	ttl    time.Duration
	retry  time.Duration
}

func NewRedis(client *redis.Client, key string, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &Redis{client: client, key: key, ttl: ttl, retry: 20 * time.Millisecond}
}

var ErrNoClient = errors.New("redis lock: nil client")

func (r *Redis) Lock(ctx context.Context) (func(), error) {
	if r.client == nil {
		return nil, ErrNoClient
	}
	token, err := newToken()
	if err != nil {
		return nil, err
	}
	for {
		ok, err := r.client.SetNX(ctx, r.key, token, r.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("redis lock %s: %w", r.key, err)
		}
		if ok {
			break
		}
		t := time.NewTimer(r.retry)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}
	var released sync.Once
	return func() {
		released.Do(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := releaseScript.Run(ctx, r.client, []string{r.key}, token).Err(); err != nil {
				log.Warnf("release %s: %v", r.key, err)
			}
		})
	}, nil
}

func newToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
