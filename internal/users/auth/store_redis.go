// Copyright (c) 2026 Plume. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/plume/internal/platform/apperr"
	"github.com/taibuivan/plume/internal/platform/constants"
)

// # Session Repository

// RedisSessionRepository implements [SessionRepository] on Redis.
//
// # Key Layout
//
//   - auth:session:<tokenHash>       JSON session, expires with the session
//   - auth:user_sessions:<userID>    set of the user's token hashes
type RedisSessionRepository struct {
	client redis.UniversalClient
	now    func() time.Time
}

// NewSessionRepository creates a Redis-backed [SessionRepository].
func NewSessionRepository(client redis.UniversalClient) *RedisSessionRepository {
	return &RedisSessionRepository{client: client, now: time.Now}
}

func sessionKey(tokenHash string) string {
	return constants.RedisPrefixSession + tokenHash
}

func userSessionsKey(userID string) string {
	return constants.RedisPrefixUserSession + userID
}

/*
Create stores the session and indexes it under its user.

Returns:
  - error: Serialization or connectivity errors
*/
func (repository *RedisSessionRepository) Create(context context.Context, session *Session) error {
	ttl := session.ExpiresAt.Sub(repository.now())
	if ttl <= 0 {
		return fmt.Errorf("redis_session_create_failed: session %s already expired", session.ID)
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("redis_session_encode_failed: %w", err)
	}

	_, err = repository.client.TxPipelined(context, func(pipe redis.Pipeliner) error {
		pipe.Set(context, sessionKey(session.TokenHash), payload, ttl)
		pipe.SAdd(context, userSessionsKey(session.UserID), session.TokenHash)
		pipe.Expire(context, userSessionsKey(session.UserID), RefreshTokenTTL)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis_session_create_failed: %w", err)
	}

	return nil
}

/*
Consume atomically takes a live session out of the store. Of two concurrent
calls with the same hash only one gets the session.

Returns:
  - *Session: The consumed session
  - error: apperr.NotFound if absent, expired or already consumed
*/
func (repository *RedisSessionRepository) Consume(context context.Context, tokenHash string) (*Session, error) {
	payload, err := repository.client.GetDel(context, sessionKey(tokenHash)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperr.NotFound("Session")
		}
		return nil, fmt.Errorf("redis_session_consume_failed: %w", err)
	}

	session := &Session{}
	if err := json.Unmarshal(payload, session); err != nil {
		return nil, fmt.Errorf("redis_session_decode_failed: %w", err)
	}

	if err := repository.client.SRem(context, userSessionsKey(session.UserID), tokenHash).Err(); err != nil {
		return nil, fmt.Errorf("redis_session_unindex_failed: %w", err)
	}

	return session, nil
}

// DeleteAll removes every session indexed under userID.
func (repository *RedisSessionRepository) DeleteAll(context context.Context, userID string) error {
	hashes, err := repository.client.SMembers(context, userSessionsKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("redis_session_list_failed: %w", err)
	}

	keys := make([]string, 0, len(hashes)+1)
	for _, hash := range hashes {
		keys = append(keys, sessionKey(hash))
	}
	keys = append(keys, userSessionsKey(userID))

	if err := repository.client.Del(context, keys...).Err(); err != nil {
		return fmt.Errorf("redis_session_delete_all_failed: %w", err)
	}
	return nil
}
