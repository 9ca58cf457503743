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
	"sync"

	"github.com/wayfindhq/wayfind/model"
)

// LocalStore is the in-process fallback tier: a plain string key-value map
// holding serialized sessions under "recovery_<sessionId>". It keeps the
// same wire format as the remote tier (JSON with ISO-8601 dates) so either
// copy can reconstitute a session on its own.
type LocalStore struct {
	mu    sync.RWMutex
	items map[string]string
}

// NewLocalStore creates an empty local fallback store.
func NewLocalStore() *LocalStore {
	return &LocalStore{items: make(map[string]string)}
}

// Save serializes the session into the map.
func (l *LocalStore) Save(_ context.Context, session *model.RecoverySession) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.items[SessionKey(session.SessionID)] = string(payload)
	return nil
}

// Get reconstitutes a session from its serialized form. A parse failure is
// treated as not found and the corrupt entry is dropped.
func (l *LocalStore) Get(_ context.Context, sessionID string) (*model.RecoverySession, error) {
	l.mu.RLock()
	payload, ok := l.items[SessionKey(sessionID)]
	l.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}

	var session model.RecoverySession
	if err := json.Unmarshal([]byte(payload), &session); err != nil {
		l.mu.Lock()
		delete(l.items, SessionKey(sessionID))
		l.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	return &session, nil
}

// Delete removes the session entry. Deleting an absent key is a no-op.
func (l *LocalStore) Delete(_ context.Context, sessionID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.items, SessionKey(sessionID))
	return nil
}

// Put injects a raw serialized entry. Tests use this to simulate corrupt
// or stale local data.
func (l *LocalStore) Put(key, payload string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items[key] = payload
}

// Len reports how many entries the store currently holds.
func (l *LocalStore) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}
