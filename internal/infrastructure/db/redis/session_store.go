package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/campusdesk/accounts/internal/core/domain"
	"github.com/campusdesk/accounts/internal/core/ports"
)

// SessionStore keeps sessions as JSON under session:<id>, with a per-identity
// index set under identity_sessions:<identity_id> so that every session of an
// identity can be ended at once.
type SessionStore struct {
	client redis.UniversalClient
}

var _ ports.SessionStore = (*SessionStore)(nil)

func NewSessionStore(client redis.UniversalClient) *SessionStore {
	return &SessionStore{client: client}
}

func sessionKey(id string) string { return "session:" + id }

func identitySessionsKey(identityID string) string { return "identity_sessions:" + identityID }

func (s *SessionStore) Save(ctx context.Context, session *domain.Session, ttl time.Duration) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	indexKey := identitySessionsKey(session.IdentityID)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, sessionKey(session.ID), payload, ttl)
		pipe.SAdd(ctx, indexKey, session.ID)
		// The index lives as long as the newest session.
		pipe.Expire(ctx, indexKey, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	data, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &session, nil
}

// Delete removes a session. Deleting a missing session is not an error.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	session, err := s.Get(ctx, id)
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return nil
	case err != nil:
		return err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, sessionKey(id))
		pipe.SRem(ctx, identitySessionsKey(session.IdentityID), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *SessionStore) DeleteForIdentity(ctx context.Context, identityID string) error {
	indexKey := identitySessionsKey(identityID)
	ids, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return fmt.Errorf("list identity sessions: %w", err)
	}

	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, sessionKey(id))
	}
	keys = append(keys, indexKey)

	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("delete identity sessions: %w", err)
	}
	return nil
}
