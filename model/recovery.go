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

import "time"

// MaxRecoveryAttempts is the hard ceiling on recovery attempts per session.
const MaxRecoveryAttempts = 3

// RecoverySessionTTL is how long a failed-onboarding session stays
// resumable after the failure.
const RecoverySessionTTL = 24 * time.Hour

// SessionState is the derived lifecycle state of a recovery session. Only
// Active and Recovering accept further attempts; the rest are terminal.
type SessionState string

const (
	SessionActive        SessionState = "active"
	SessionRecovering    SessionState = "recovering"
	SessionResolved      SessionState = "resolved"
	SessionExhausted     SessionState = "exhausted"
	SessionExpired       SessionState = "expired"
	SessionUnrecoverable SessionState = "unrecoverable"
)

// RecoverySession is the persisted record of an onboarding failure. It is
// written to both the remote store and the local fallback on creation,
// mutated only by attempt bookkeeping, and cleared from both tiers on
// successful resume or on expiry. JSON tags define the wire/storage shape;
// time fields serialize as ISO-8601.
type RecoverySession struct {
	SessionID           string         `json:"sessionId"`
	UserID              string         `json:"userId"`
	FailurePoint        StepID         `json:"failurePoint"`
	FailureReason       string         `json:"failureReason"`
	FailureTimestamp    time.Time      `json:"failureTimestamp"`
	RecoveryAttempts    int            `json:"recoveryAttempts"`
	LastRecoveryAttempt *time.Time     `json:"lastRecoveryAttempt,omitempty"`
	PreservedData       OnboardingData `json:"preservedData"`
	CanRecover          bool           `json:"canRecover"`
	ExpiresAt           time.Time      `json:"expiresAt"`
}

// IsExpired reports whether the session is past its expiry timestamp.
// Expiry is evaluated lazily at read time; an expired session is treated as
// absent regardless of which storage tier still holds it.
func (s *RecoverySession) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// AttemptsExhausted reports whether the bounded attempt counter has hit the
// ceiling. Once exhausted, CanRecover must be forced false.
func (s *RecoverySession) AttemptsExhausted() bool {
	return s.RecoveryAttempts >= MaxRecoveryAttempts
}

// State derives the lifecycle state from the session's counters and clock.
func (s *RecoverySession) State(now time.Time) SessionState {
	switch {
	case s.IsExpired(now):
		return SessionExpired
	case s.AttemptsExhausted():
		return SessionExhausted
	case !s.CanRecover:
		return SessionUnrecoverable
	default:
		return SessionActive
	}
}

// FailureType buckets a failure reason into the recovery taxonomy.
type FailureType string

const (
	FailureValidation FailureType = "validation"
	FailureNetwork    FailureType = "network"
	FailureTimeout    FailureType = "timeout"
	FailureServer     FailureType = "server"
	FailureUnknown    FailureType = "unknown"
)

// FailureSeverity grades how disruptive a failure is.
type FailureSeverity string

const (
	SeverityLow      FailureSeverity = "low"
	SeverityMedium   FailureSeverity = "medium"
	SeverityHigh     FailureSeverity = "high"
	SeverityCritical FailureSeverity = "critical"
)

// FailureAnalysis is the derived classification of a failure reason. It is
// computed per attempt and never stored.
type FailureAnalysis struct {
	Type             FailureType     `json:"type"`
	Severity         FailureSeverity `json:"severity"`
	Recoverable      bool            `json:"recoverable"`
	SuggestedActions []string        `json:"suggested_actions"`
	DataLossRisk     bool            `json:"data_loss_risk"`
	AffectedFields   []string        `json:"affected_fields,omitempty"`
}

// StrategyKind is the recovery approach chosen for a failure.
type StrategyKind string

const (
	StrategyRetry  StrategyKind = "retry"
	StrategySkip   StrategyKind = "skip"
	StrategyReset  StrategyKind = "reset"
	StrategyManual StrategyKind = "manual"
)

// DataPreservation states how much of the preserved payload a strategy keeps.
type DataPreservation string

const (
	PreserveFull    DataPreservation = "full"
	PreservePartial DataPreservation = "partial"
	PreserveNone    DataPreservation = "none"
)

// UserAction is what the strategy needs from the user before it can run.
type UserAction string

const (
	ActionNone           UserAction = "none"
	ActionConfirm        UserAction = "confirm"
	ActionInput          UserAction = "input"
	ActionContactSupport UserAction = "contact_support"
)

// RecoveryStrategy is the derived plan for recovering from a failure.
type RecoveryStrategy struct {
	Kind             StrategyKind     `json:"kind"`
	Description      string           `json:"description"`
	EstimatedMinutes int              `json:"estimated_minutes"`
	DataPreservation DataPreservation `json:"data_preservation"`
	RequiredAction   UserAction       `json:"required_action"`
}

// RecoveryResult is the outcome of one recovery attempt.
type RecoveryResult struct {
	Success      bool              `json:"success"`
	SessionID    string            `json:"session_id"`
	Strategy     *RecoveryStrategy `json:"strategy,omitempty"`
	Analysis     *FailureAnalysis  `json:"analysis,omitempty"`
	ResumedStep  StepID            `json:"resumed_step,omitempty"`
	RestoredData OnboardingData    `json:"restored_data,omitempty"`
	Error        string            `json:"error,omitempty"`
}
