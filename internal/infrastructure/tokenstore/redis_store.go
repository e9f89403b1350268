package tokenstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/sellerbridge/backend/internal/domain/seller"
)

const credentialKey = "sellerbridge:marketplace:credential"

// RedisStore persists the credential in Redis so that multiple
// instances (or ephemeral containers) share the same token state.
// The key carries no TTL since the refresh token outlives any access
// token and must survive idle periods.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore creates a Redis-backed credential store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, key: credentialKey}
}

var _ Store = (*RedisStore)(nil)

// Load fetches and decodes the stored credential.
func (s *RedisStore) Load(ctx context.Context) (*seller.Credential, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoCredential
		}
		return nil, fmt.Errorf("redis get credential: %w", err)
	}

	var cred seller.Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return nil, fmt.Errorf("decode stored credential: %w", err)
	}
	if cred.AccessToken == "" {
		return nil, ErrNoCredential
	}
	return &cred, nil
}

// Save overwrites the stored credential.
func (s *RedisStore) Save(ctx context.Context, cred *seller.Credential) error {
	if cred == nil {
		return fmt.Errorf("save credential: nil credential")
	}

	data, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("encode credential: %w", err)
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set credential: %w", err)
	}
	return nil
}

// Clear removes the stored credential.
func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redis del credential: %w", err)
	}
	return nil
}
