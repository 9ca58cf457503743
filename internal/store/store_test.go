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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayfindhq/wayfind/model"
)

// failingStore simulates an unreachable remote tier.
type failingStore struct {
	err error
}

func (f *failingStore) Save(context.Context, *model.RecoverySession) error { return f.err }
func (f *failingStore) Get(context.Context, string) (*model.RecoverySession, error) {
	return nil, f.err
}
func (f *failingStore) Delete(context.Context, string) error { return f.err }

func testSession(id string, ttl time.Duration) *model.RecoverySession {
	now := time.Now()
	return &model.RecoverySession{
		SessionID:        id,
		UserID:           "usr_1",
		FailurePoint:     model.StepBusinessType,
		FailureReason:    "network connection lost",
		FailureTimestamp: now,
		PreservedData:    model.OnboardingData{"business_name": "Acme Stores"},
		CanRecover:       true,
		ExpiresAt:        now.Add(ttl),
	}
}

func TestSessionKey(t *testing.T) {
	assert.Equal(t, "recovery_rcv_123", SessionKey("rcv_123"))
}

func TestDualStoreWritesBothTiers(t *testing.T) {
	remote := NewLocalStore()
	local := NewLocalStore()
	dual := NewDualStore(remote, local)

	require.NoError(t, dual.Save(context.Background(), testSession("rcv_1", time.Hour)))

	assert.Equal(t, 1, remote.Len())
	assert.Equal(t, 1, local.Len())
}

func TestDualStoreRemoteWriteFailureIsNotRaised(t *testing.T) {
	remote := &failingStore{err: errors.New("connection refused")}
	local := NewLocalStore()
	dual := NewDualStore(remote, local)

	// The remote outage degrades to a warning; the local copy is written
	// and the call succeeds.
	require.NoError(t, dual.Save(context.Background(), testSession("rcv_1", time.Hour)))
	assert.Equal(t, 1, local.Len())

	session, err := dual.Get(context.Background(), "rcv_1")
	require.NoError(t, err)
	assert.Equal(t, "rcv_1", session.SessionID)
}

func TestDualStoreReadsRemoteFirst(t *testing.T) {
	remote := NewLocalStore()
	local := NewLocalStore()
	dual := NewDualStore(remote, local)

	remoteCopy := testSession("rcv_1", time.Hour)
	remoteCopy.RecoveryAttempts = 2
	require.NoError(t, remote.Save(context.Background(), remoteCopy))

	localCopy := testSession("rcv_1", time.Hour)
	localCopy.RecoveryAttempts = 1
	require.NoError(t, local.Save(context.Background(), localCopy))

	session, err := dual.Get(context.Background(), "rcv_1")
	require.NoError(t, err)
	assert.Equal(t, 2, session.RecoveryAttempts, "the remote copy wins, never merged")
}

func TestDualStoreFallsBackToLocal(t *testing.T) {
	remote := &failingStore{err: errors.New("connection refused")}
	local := NewLocalStore()
	dual := NewDualStore(remote, local)

	require.NoError(t, local.Save(context.Background(), testSession("rcv_1", time.Hour)))

	session, err := dual.Get(context.Background(), "rcv_1")
	require.NoError(t, err)
	assert.Equal(t, "rcv_1", session.SessionID)
}

func TestDualStoreExpiredSessionIsEvicted(t *testing.T) {
	remote := NewLocalStore()
	local := NewLocalStore()
	dual := NewDualStore(remote, local)

	require.NoError(t, dual.Save(context.Background(), testSession("rcv_1", time.Hour)))

	dual.WithClock(func() time.Time { return time.Now().Add(2 * time.Hour) })

	_, err := dual.Get(context.Background(), "rcv_1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Equal(t, 0, local.Len(), "the expired local copy must be evicted on read")
}

func TestDualStoreDelete(t *testing.T) {
	remote := NewLocalStore()
	local := NewLocalStore()
	dual := NewDualStore(remote, local)

	require.NoError(t, dual.Save(context.Background(), testSession("rcv_1", time.Hour)))
	require.NoError(t, dual.Delete(context.Background(), "rcv_1"))

	assert.Equal(t, 0, remote.Len())
	assert.Equal(t, 0, local.Len())
}

func TestLocalStoreRoundTrip(t *testing.T) {
	local := NewLocalStore()
	ctx := context.Background()

	session := testSession("rcv_1", time.Hour)
	require.NoError(t, local.Save(ctx, session))

	loaded, err := local.Get(ctx, "rcv_1")
	require.NoError(t, err)
	assert.Equal(t, session.SessionID, loaded.SessionID)
	assert.Equal(t, "Acme Stores", loaded.PreservedData["business_name"])
	// Timestamps survive the ISO-8601 round trip.
	assert.WithinDuration(t, session.ExpiresAt, loaded.ExpiresAt, time.Second)
}

func TestLocalStoreMissingSession(t *testing.T) {
	local := NewLocalStore()

	_, err := local.Get(context.Background(), "rcv_missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestLocalStoreCorruptEntryReadsAsNotFound(t *testing.T) {
	local := NewLocalStore()
	local.Put(SessionKey("rcv_1"), "{not json")

	_, err := local.Get(context.Background(), "rcv_1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Equal(t, 0, local.Len(), "the corrupt entry must be dropped")
}

func TestLocalStoreDeleteAbsentIsNoop(t *testing.T) {
	local := NewLocalStore()
	assert.NoError(t, local.Delete(context.Background(), "rcv_missing"))
}
