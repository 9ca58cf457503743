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
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wayfindhq/wayfind/model"
)

// ErrSessionNotFound is returned when a session is absent from a storage
// tier. An expired or unparsable session is reported the same way.
var ErrSessionNotFound = errors.New("recovery session not found or expired")

// KeyPrefix is the storage key namespace for recovery sessions.
const KeyPrefix = "recovery_"

// SessionKey builds the storage key for a session id.
func SessionKey(sessionID string) string {
	return KeyPrefix + sessionID
}

// SessionStore is one storage tier for recovery sessions.
type SessionStore interface {
	Save(ctx context.Context, session *model.RecoverySession) error
	Get(ctx context.Context, sessionID string) (*model.RecoverySession, error)
	Delete(ctx context.Context, sessionID string) error
}

// DualStore composes the remote store with the local fallback into the
// two-tier strategy the recovery engine relies on:
//
//   - writes go to the remote first, then unconditionally to the local
//     fallback; a remote failure is logged, never raised, and the local
//     copy stays authoritative until the remote write can be retried;
//   - reads prefer the remote copy and fall back to the local one on any
//     remote error, never merging the two;
//   - expiry is evaluated lazily on every read, and an expired session is
//     evicted from the local tier on sight.
type DualStore struct {
	remote SessionStore
	local  SessionStore
	now    func() time.Time
}

// NewDualStore wires a remote store and a local fallback together.
func NewDualStore(remote, local SessionStore) *DualStore {
	return &DualStore{remote: remote, local: local, now: time.Now}
}

// WithClock overrides the store's clock. Tests use this to force expiry.
func (d *DualStore) WithClock(now func() time.Time) *DualStore {
	d.now = now
	return d
}

// Save writes the session to both tiers. Only the local write can fail the
// call; the remote write degrades to a warning.
func (d *DualStore) Save(ctx context.Context, session *model.RecoverySession) error {
	if err := d.remote.Save(ctx, session); err != nil {
		logrus.Warnf("remote session store write failed for %s, local copy is authoritative: %v", session.SessionID, err)
	}
	return d.local.Save(ctx, session)
}

// Get loads a session remote-first with local fallback. Expired sessions
// are treated as absent and evicted from the local tier.
func (d *DualStore) Get(ctx context.Context, sessionID string) (*model.RecoverySession, error) {
	session, err := d.remote.Get(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, ErrSessionNotFound) {
			logrus.Warnf("remote session store read failed for %s, falling back to local: %v", sessionID, err)
		}
		session, err = d.local.Get(ctx, sessionID)
		if err != nil {
			return nil, err
		}
	}

	if session.IsExpired(d.now()) {
		if delErr := d.local.Delete(ctx, sessionID); delErr != nil {
			logrus.Warnf("failed to evict expired session %s from local store: %v", sessionID, delErr)
		}
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Delete clears the session from both tiers. The remote deletion failure is
// logged; the local one decides the outcome.
func (d *DualStore) Delete(ctx context.Context, sessionID string) error {
	if err := d.remote.Delete(ctx, sessionID); err != nil && !errors.Is(err, ErrSessionNotFound) {
		logrus.Warnf("remote session store delete failed for %s: %v", sessionID, err)
	}
	if err := d.local.Delete(ctx, sessionID); err != nil && !errors.Is(err, ErrSessionNotFound) {
		return err
	}
	return nil
}
