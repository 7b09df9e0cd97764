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

// releaseScript deletes a guard only while it still holds the caller's token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// DefaultStateTTL is how long a session's state outlives its last update.
const DefaultStateTTL = 24 * time.Hour

// RedisStore shares sessions between server workers through Redis.
// Guards are SET NX keys with a TTL so a crashed worker cannot wedge a session.
type RedisStore struct {
	client   redis.UniversalClient
	prefix   string
	lockTTL  time.Duration
	stateTTL time.Duration
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithPrefix sets the key prefix. Defaults to "learnpath:session:".
func WithPrefix(p string) RedisOption {
	return func(s *RedisStore) { s.prefix = p }
}

// WithLockTTL sets the guard TTL.
func WithLockTTL(d time.Duration) RedisOption {
	return func(s *RedisStore) { s.lockTTL = d }
}

// WithStateTTL sets the state TTL.
func WithStateTTL(d time.Duration) RedisOption {
	return func(s *RedisStore) { s.stateTTL = d }
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client redis.UniversalClient, opts ...RedisOption) *RedisStore {
	s := &RedisStore{
		client:   client,
		prefix:   "learnpath:session:",
		lockTTL:  DefaultLockTTL,
		stateTTL: DefaultStateTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DialRedis connects to addr and verifies the connection with PING.
func DialRedis(ctx context.Context, addr, password string, db int, opts ...RedisOption) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return NewRedisStore(rdb, opts...), nil
}

func (s *RedisStore) lockKey(id string) string  { return s.prefix + id + ":lock" }
func (s *RedisStore) stateKey(id string) string { return s.prefix + id + ":state" }

// Acquire claims the guard for id with SET NX, storing a fresh token.
func (s *RedisStore) Acquire(ctx context.Context, id string) (string, error) {
	token := uuid.NewString()
	ok, err := s.client.SetNX(ctx, s.lockKey(id), token, s.lockTTL).Result()
	if err != nil {
		return "", fmt.Errorf("acquire session %s: %w", id, err)
	}
	if !ok {
		return "", ErrBusy
	}
	return token, nil
}

// Release deletes the guard for id if it still holds token.
func (s *RedisStore) Release(ctx context.Context, id, token string) error {
	if err := releaseScript.Run(ctx, s.client, []string{s.lockKey(id)}, token).Err(); err != nil {
		return fmt.Errorf("release session %s: %w", id, err)
	}
	return nil
}

// Save stores state as JSON, refreshing its TTL.
func (s *RedisStore) Save(ctx context.Context, id string, state State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode session state: %w", err)
	}
	if err := s.client.Set(ctx, s.stateKey(id), data, s.stateTTL).Err(); err != nil {
		return fmt.Errorf("save session %s: %w", id, err)
	}
	return nil
}

// Load reads the state for id.
func (s *RedisStore) Load(ctx context.Context, id string) (State, bool, error) {
	var state State
	data, err := s.client.Get(ctx, s.stateKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return state, false, nil
	}
	if err != nil {
		return state, false, fmt.Errorf("load session %s: %w", id, err)
	}
	if err := json.Unmarshal(data, &state); err != nil {
		return state, false, fmt.Errorf("decode session %s: %w", id, err)
	}
	return state, true, nil
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
