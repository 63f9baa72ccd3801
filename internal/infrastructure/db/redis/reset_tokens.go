package redis

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/campusdesk/accounts/internal/core/domain"
	"github.com/campusdesk/accounts/internal/core/ports"
)

const resetTokenBytes = 32

// ResetTokenStore keeps password reset tokens in Redis. Only the SHA-256 of a
// token is stored, so a leaked keyspace does not leak usable tokens. The
// hashed keys of an identity are indexed under identity_resets:<identity_id>.
type ResetTokenStore struct {
	client redis.UniversalClient
}

var _ ports.ResetTokenStore = (*ResetTokenStore)(nil)

func NewResetTokenStore(client redis.UniversalClient) *ResetTokenStore {
	return &ResetTokenStore{client: client}
}

func identityResetsKey(identityID string) string { return "identity_resets:" + identityID }

func resetKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "reset:" + hex.EncodeToString(sum[:])
}

// Issue creates a token for identityID that expires after ttl.
func (s *ResetTokenStore) Issue(ctx context.Context, identityID string, ttl time.Duration) (string, error) {
	raw := make([]byte, resetTokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(raw)

	key := resetKey(token)
	indexKey := identityResetsKey(identityID)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key, identityID, ttl)
		pipe.SAdd(ctx, indexKey, key)
		pipe.Expire(ctx, indexKey, ttl)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("store reset token: %w", err)
	}
	return token, nil
}

// Resolve returns the identity a live token was issued for without using it up.
func (s *ResetTokenStore) Resolve(ctx context.Context, token string) (string, error) {
	id, err := s.client.Get(ctx, resetKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domain.ErrInvalidResetToken
		}
		return "", fmt.Errorf("resolve reset token: %w", err)
	}
	return id, nil
}

// Consume deletes token atomically. Of two concurrent redemptions only one
// succeeds.
func (s *ResetTokenStore) Consume(ctx context.Context, token string) error {
	key := resetKey(token)
	identityID, err := s.client.GetDel(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.ErrInvalidResetToken
		}
		return fmt.Errorf("consume reset token: %w", err)
	}
	_ = s.client.SRem(ctx, identityResetsKey(identityID), key).Err()
	return nil
}

// RevokeAll deletes every outstanding token of identityID. It is called
// whenever the identity's password changes.
func (s *ResetTokenStore) RevokeAll(ctx context.Context, identityID string) error {
	indexKey := identityResetsKey(identityID)
	keys, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return fmt.Errorf("list reset tokens: %w", err)
	}

	keys = append(keys, indexKey)
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("revoke reset tokens: %w", err)
	}
	return nil
}
