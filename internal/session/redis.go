package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	playerrors "github.com/jscyril/golang_music_quiz/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// DefaultRedisTTL bounds how long an abandoned session is kept
const DefaultRedisTTL = 7 * 24 * time.Hour

// RedisStore keeps the snapshot of one profile under a single key
type RedisStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisStore creates a store for profile on an existing client
func NewRedisStore(client *redis.Client, profile string, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultRedisTTL
	}
	return &RedisStore{
		client: client,
		key:    RedisKey(profile),
		ttl:    ttl,
	}
}

// RedisKey returns the key a profile's snapshot is stored under
func RedisKey(profile string) string {
	if profile == "" {
		profile = "default"
	}
	return "quiz:session:" + profile
}

// ConnectRedis opens a client and checks the connection
func ConnectRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return client, nil
}

// Save writes the snapshot and refreshes its expiry
func (s *RedisStore) Save(ctx context.Context, snap Snapshot) error {
	data, err := snap.Marshal()
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Load reads the snapshot
func (s *RedisStore) Load(ctx context.Context) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, playerrors.ErrNoSnapshot
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	return data, nil
}

// Clear deletes the snapshot
func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
