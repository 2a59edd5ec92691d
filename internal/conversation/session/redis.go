package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix = "chat:session:"
	lockKeyPrefix    = "chat:session:lock:"
	lockPollInterval = 50 * time.Millisecond
)

// unlockScript deletes the lock only when it is still held by the caller.
var unlockScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end
`)

// RedisStore persists sessions in Redis so conversations survive restarts
// and can be shared across replicas.
type RedisStore struct {
	client     *redis.Client
	sessionTTL time.Duration
	lockTTL    time.Duration
}

// NewRedisStore wraps an existing Redis client.
func NewRedisStore(client *redis.Client, sessionTTL, lockTTL time.Duration) *RedisStore {
	return &RedisStore{
		client:     client,
		sessionTTL: sessionTTL,
		lockTTL:    lockTTL,
	}
}

func (r *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	data, err := r.client.Get(ctx, sessionKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", id, err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", id, err)
	}
	return &sess, nil
}

func (r *RedisStore) Put(ctx context.Context, id string, sess *Session) error {
	sess.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session %s: %w", id, err)
	}
	if err := r.client.Set(ctx, sessionKeyPrefix+id, data, r.sessionTTL).Err(); err != nil {
		return fmt.Errorf("failed to save session %s: %w", id, err)
	}
	return nil
}

// Lock acquires a per-session lock with SETNX and a random token, polling
// until the lock is free or the context is done. The token guards against
// releasing a lock acquired by another caller after expiry.
func (r *RedisStore) Lock(ctx context.Context, id string) (UnlockFunc, error) {
	key := lockKeyPrefix + id
	token := uuid.New().String()

	for {
		ok, err := r.client.SetNX(ctx, key, token, r.lockTTL).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire lock for session %s: %w", id, err)
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockPollInterval):
		}
	}

	return func() {
		// Best effort: an expired lock is already released.
		unlockScript.Run(context.Background(), r.client, []string{key}, token)
	}, nil
}
