package auth

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"studenthub/internal/cache"
)

const refreshTokenKeyPrefix = "refresh_token:"

// RefreshTokenStore defines server-side refresh token storage. A refresh
// token is usable only while its ID is present in the store, which is what
// makes logout effective.
type RefreshTokenStore interface {
	Store(ctx context.Context, tokenID string, userID uint, ttl time.Duration) error
	Get(ctx context.Context, tokenID string) (userID uint, err error)
	Delete(ctx context.Context, tokenID string) error
}

// TokenStore keeps refresh token IDs in Redis with a TTL matching the token
// expiry.
type TokenStore struct {
	cache *cache.Client
}

var _ RefreshTokenStore = (*TokenStore)(nil)

// NewTokenStore creates a new token store.
func NewTokenStore(cache *cache.Client) *TokenStore {
	return &TokenStore{cache: cache}
}

// Store records a refresh token ID for the user.
func (s *TokenStore) Store(ctx context.Context, tokenID string, userID uint, ttl time.Duration) error {
	key := refreshTokenKeyPrefix + tokenID
	payload := strconv.FormatUint(uint64(userID), 10)
	return s.cache.Set(ctx, key, []byte(payload), ttl)
}

// Get returns the user a refresh token was issued to, or an error when the
// token is unknown or revoked.
func (s *TokenStore) Get(ctx context.Context, tokenID string) (uint, error) {
	key := refreshTokenKeyPrefix + tokenID
	data, err := s.cache.Get(ctx, key)
	if err != nil || data == nil {
		return 0, fmt.Errorf("refresh token not found")
	}
	userID, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt refresh token entry: %w", err)
	}
	return uint(userID), nil
}

// Delete revokes a refresh token.
func (s *TokenStore) Delete(ctx context.Context, tokenID string) error {
	return s.cache.Delete(ctx, refreshTokenKeyPrefix+tokenID)
}
