/*
Copyright 2025 Wayfind Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cenkalti/backoff/v4"
	pkgerrors "github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/wayfindhq/wayfind/model"
)

// writeMaxElapsed bounds how long a remote write keeps retrying before the
// dual store gives up and leans on the local copy.
const writeMaxElapsed = 2 * time.Second

// RedisStore is the remote tier of the session store, backed by Redis.
// Sessions are stored as JSON under "recovery_<sessionId>" with a TTL that
// matches the session's expiry, so the remote side self-cleans.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore builds a RedisStore around an existing client.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// Save serializes the session and writes it with a short bounded backoff.
// Transient connection errors are retried; a still-failing write surfaces
// to the dual store, which degrades it to a warning.
func (r *RedisStore) Save(ctx context.Context, session *model.RecoverySession) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to serialize recovery session")
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		ttl = time.Minute
	}

	operation := func() error {
		return r.client.Set(ctx, SessionKey(session.SessionID), payload, ttl).Err()
	}

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = writeMaxElapsed
	if err := backoff.Retry(operation, backoff.WithContext(policy, ctx)); err != nil {
		return pkgerrors.Wrapf(err, "failed to write recovery session %s to redis", session.SessionID)
	}
	return nil
}

// Get loads and reconstitutes a session. A missing key or an unparsable
// payload both read as not found.
func (r *RedisStore) Get(ctx context.Context, sessionID string) (*model.RecoverySession, error) {
	payload, err := r.client.Get(ctx, SessionKey(sessionID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrSessionNotFound
		}
		return nil, pkgerrors.Wrapf(err, "failed to read recovery session %s from redis", sessionID)
	}

	var session model.RecoverySession
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, ErrSessionNotFound
	}
	return &session, nil
}

// Delete removes the session key. Deleting an absent key is not an error.
func (r *RedisStore) Delete(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, SessionKey(sessionID)).Err()
}
