package user

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"zenboard/internal/metrics"
)

const (
	nextIDKey = "user:next_id"
	idSetKey  = "user:ids"

	connectTimeout = 2 * time.Second
)

// RedisStore persists user records in redis. Each user lives in a hash at
// user:<id> with the id tracked in a set for listing; ids are allocated from
// a single INCR counter, which gives the uniqueness invariant.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to redis and verifies the connection with a ping.
func NewRedisStore(addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	return &RedisStore{client: client}, nil
}

// NewRedisStoreFromClient wraps an existing client, used by tests.
func NewRedisStoreFromClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Close releases the underlying redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ping checks connectivity, used by the readiness probe.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func recordKey(id int64) string {
	return fmt.Sprintf("user:%d", id)
}

// Create implements Store.
func (s *RedisStore) Create(ctx context.Context, name string) (User, error) {
	id, err := s.client.Incr(ctx, nextIDKey).Result()
	if err != nil {
		metrics.RecordStoreOperation("create", false)
		return User{}, fmt.Errorf("failed to allocate user id: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, recordKey(id), "name", name)
	pipe.SAdd(ctx, idSetKey, id)
	if _, err := pipe.Exec(ctx); err != nil {
		metrics.RecordStoreOperation("create", false)
		return User{}, fmt.Errorf("failed to store user %d: %w", id, err)
	}

	metrics.RecordStoreOperation("create", true)
	return User{ID: id, Name: name}, nil
}

// List implements Store.
func (s *RedisStore) List(ctx context.Context) ([]User, error) {
	rawIDs, err := s.client.SMembers(ctx, idSetKey).Result()
	if err != nil {
		metrics.RecordStoreOperation("list", false)
		return nil, fmt.Errorf("failed to list user ids: %w", err)
	}

	users := make([]User, 0, len(rawIDs))
	for _, raw := range rawIDs {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}

		name, err := s.client.HGet(ctx, recordKey(id), "name").Result()
		if errors.Is(err, redis.Nil) {
			// Record deleted between SMEMBERS and HGET; skip it.
			continue
		}
		if err != nil {
			metrics.RecordStoreOperation("list", false)
			return nil, fmt.Errorf("failed to load user %d: %w", id, err)
		}

		users = append(users, User{ID: id, Name: name})
	}

	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })

	metrics.RecordStoreOperation("list", true)
	return users, nil
}

// Get implements Store.
func (s *RedisStore) Get(ctx context.Context, id int64) (User, error) {
	name, err := s.client.HGet(ctx, recordKey(id), "name").Result()
	if errors.Is(err, redis.Nil) {
		metrics.RecordStoreOperation("get", false)
		return User{}, ErrNotFound
	}
	if err != nil {
		metrics.RecordStoreOperation("get", false)
		return User{}, fmt.Errorf("failed to load user %d: %w", id, err)
	}

	metrics.RecordStoreOperation("get", true)
	return User{ID: id, Name: name}, nil
}

// Update implements Store.
func (s *RedisStore) Update(ctx context.Context, id int64, name string) error {
	exists, err := s.client.Exists(ctx, recordKey(id)).Result()
	if err != nil {
		metrics.RecordStoreOperation("update", false)
		return fmt.Errorf("failed to check user %d: %w", id, err)
	}
	if exists == 0 {
		metrics.RecordStoreOperation("update", false)
		return ErrNotFound
	}

	if err := s.client.HSet(ctx, recordKey(id), "name", name).Err(); err != nil {
		metrics.RecordStoreOperation("update", false)
		return fmt.Errorf("failed to update user %d: %w", id, err)
	}

	metrics.RecordStoreOperation("update", true)
	return nil
}

// Delete implements Store.
func (s *RedisStore) Delete(ctx context.Context, id int64) error {
	deleted, err := s.client.Del(ctx, recordKey(id)).Result()
	if err != nil {
		metrics.RecordStoreOperation("delete", false)
		return fmt.Errorf("failed to delete user %d: %w", id, err)
	}
	if deleted == 0 {
		metrics.RecordStoreOperation("delete", false)
		return ErrNotFound
	}

	if err := s.client.SRem(ctx, idSetKey, id).Err(); err != nil {
		metrics.RecordStoreOperation("delete", false)
		return fmt.Errorf("failed to remove user %d from index: %w", id, err)
	}

	metrics.RecordStoreOperation("delete", true)
	return nil
}
