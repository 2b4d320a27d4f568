package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"autoapply/internal/domain"
)

const (
	profileKey  = "autoapply:profile"
	settingsKey = "autoapply:settings"
)

// RedisStore persists the profile and settings records as JSON values. It is
// the coordinator's backing store; nothing else reads these keys.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(addr string) *RedisStore {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	return &RedisStore{client: rdb}
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// LoadProfile returns the stored profile, or nil when none has been saved.
func (s *RedisStore) LoadProfile(ctx context.Context) (*domain.UserProfile, error) {
	raw, err := s.client.Get(ctx, profileKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	var p domain.UserProfile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode stored profile: %w", err)
	}
	return &p, nil
}

func (s *RedisStore) SaveProfile(ctx context.Context, p domain.UserProfile) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := s.client.Set(ctx, profileKey, raw, 0).Err(); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// LoadSettings returns the stored settings record, or nil when none exists.
func (s *RedisStore) LoadSettings(ctx context.Context) (*domain.Settings, error) {
	raw, err := s.client.Get(ctx, settingsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	var st domain.Settings
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, fmt.Errorf("decode stored settings: %w", err)
	}
	return &st, nil
}

func (s *RedisStore) SaveSettings(ctx context.Context, st domain.Settings) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := s.client.Set(ctx, settingsKey, raw, 0).Err(); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
