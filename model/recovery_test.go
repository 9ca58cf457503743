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

package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStateDerivation(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		session RecoverySession
		want    SessionState
	}{
		{
			"fresh session is active",
			RecoverySession{CanRecover: true, ExpiresAt: now.Add(time.Hour)},
			SessionActive,
		},
		{
			"past expiry wins over everything",
			RecoverySession{CanRecover: true, RecoveryAttempts: 3, ExpiresAt: now.Add(-time.Minute)},
			SessionExpired,
		},
		{
			"ceiling reached reads as exhausted",
			RecoverySession{CanRecover: false, RecoveryAttempts: 3, ExpiresAt: now.Add(time.Hour)},
			SessionExhausted,
		},
		{
			"flagged unrecoverable before the ceiling",
			RecoverySession{CanRecover: false, RecoveryAttempts: 1, ExpiresAt: now.Add(time.Hour)},
			SessionUnrecoverable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.session.State(now))
		})
	}
}

func TestSessionWireFormat(t *testing.T) {
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	session := RecoverySession{
		SessionID:        "rcv_1",
		UserID:           "usr_1",
		FailurePoint:     StepBusinessType,
		FailureReason:    "network error",
		FailureTimestamp: ts,
		PreservedData:    OnboardingData{"business_name": "Acme Stores"},
		CanRecover:       true,
		ExpiresAt:        ts.Add(24 * time.Hour),
	}

	payload, err := json.Marshal(&session)
	require.NoError(t, err)

	var wire map[string]interface{}
	require.NoError(t, json.Unmarshal(payload, &wire))

	// Storage keys are camelCase and timestamps are ISO-8601.
	assert.Equal(t, "rcv_1", wire["sessionId"])
	assert.Equal(t, "usr_1", wire["userId"])
	assert.Equal(t, "business_type", wire["failurePoint"])
	assert.Equal(t, "2025-06-01T12:00:00Z", wire["failureTimestamp"])
	assert.NotContains(t, wire, "lastRecoveryAttempt", "unset attempt time is omitted")
}

func TestOnboardingDataCloneIsIndependent(t *testing.T) {
	original := OnboardingData{"business_name": "Acme Stores"}
	clone := original.Clone()
	clone["business_name"] = "Changed"

	assert.Equal(t, "Acme Stores", original["business_name"])

	var empty OnboardingData
	assert.NotNil(t, empty.Clone())
}

func TestNextStepInOrder(t *testing.T) {
	assert.Equal(t, StepBusinessType, NextStepInOrder(StepBusinessProfile))
	assert.Equal(t, StepWelcome, NextStepInOrder(StepPlanSelection))
	assert.Equal(t, StepID(""), NextStepInOrder(StepWelcome))
	assert.Equal(t, StepID(""), NextStepInOrder("payment_details"))
}

func TestProfileNormalizedDefaults(t *testing.T) {
	p := BusinessProfile{}.Normalized()

	assert.Equal(t, 1, p.EmployeeCount)
	assert.Equal(t, 1, p.LocationCount)
	assert.Equal(t, BusinessTypeRetail, p.BusinessType)
	assert.Equal(t, BusinessSizeSmall, p.BusinessSize)

	full := BusinessProfile{
		EmployeeCount: 50,
		LocationCount: 3,
		BusinessType:  BusinessTypeIndustry,
		BusinessSize:  BusinessSizeLarge,
	}.Normalized()
	assert.Equal(t, 50, full.EmployeeCount)
	assert.Equal(t, BusinessTypeIndustry, full.BusinessType)
}
