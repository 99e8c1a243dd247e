package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	id "tonetags/pkg/domain"
	"tonetags/pkg/platform/sentinel"
)

// Redis key prefix for preference records
const standardsKeyPrefix = "tonetags:stds:"

// RedisStore persists preference lists as JSON arrays, one key per user.
// SET overwrites, so the last write wins.
type RedisStore struct {
	client *redis.Client
}

// NewRedis constructs a Redis-backed preference store.
func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func standardsKey(userID id.UserID) string {
	return standardsKeyPrefix + userID.String()
}

func (s *RedisStore) Find(ctx context.Context, userID id.UserID) ([]string, error) {
	raw, err := s.client.Get(ctx, standardsKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find standards: %w", err)
	}

	var standards []string
	if err := json.Unmarshal(raw, &standards); err != nil {
		return nil, fmt.Errorf("decode standards for %s: %w", userID, errors.Join(sentinel.ErrCorrupt, err))
	}
	if standards == nil {
		standards = []string{}
	}
	return standards, nil
}

func (s *RedisStore) Upsert(ctx context.Context, userID id.UserID, standards []string) error {
	if standards == nil {
		standards = []string{}
	}
	raw, err := json.Marshal(standards)
	if err != nil {
		return fmt.Errorf("encode standards: %w", err)
	}
	if err := s.client.Set(ctx, standardsKey(userID), raw, 0).Err(); err != nil {
		return fmt.Errorf("upsert standards: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, userID id.UserID) error {
	if err := s.client.Del(ctx, standardsKey(userID)).Err(); err != nil {
		return fmt.Errorf("delete standards: %w", err)
	}
	return nil
}
