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
package wayfind

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wayfindhq/wayfind/config"
	"github.com/wayfindhq/wayfind/internal/notification"
	"github.com/wayfindhq/wayfind/internal/store"
	"github.com/wayfindhq/wayfind/model"
)

// RecoveryEngine is the failure-recovery state machine. On an onboarding
// failure it captures a session with the user's partial data, classifies
// the failure reason, selects and executes a bounded recovery strategy, and
// persists the session across a remote store with a local fallback.
//
// Sessions move Active -> (attempt in flight) -> Resolved | Exhausted |
// Expired | Unrecoverable; the last four are terminal and accept no further
// attempts. The attempt ceiling is re-evaluated on every call, never cached.
type RecoveryEngine struct {
	sessions store.SessionStore
	gateway  RemoteGateway
	now      func() time.Time
}

// NewRecoveryEngine wires the engine to its session store and the remote
// onboarding boundary.
func NewRecoveryEngine(sessions store.SessionStore, gateway RemoteGateway) *RecoveryEngine {
	return &RecoveryEngine{sessions: sessions, gateway: gateway, now: time.Now}
}

// WithClock overrides the engine's clock for tests.
func (r *RecoveryEngine) WithClock(now func() time.Time) *RecoveryEngine {
	r.now = now
	return r
}

func (r *RecoveryEngine) maxAttempts() int {
	if cnf, err := config.Fetch(); err == nil && cnf.Recovery.MaxAttempts > 0 {
		return cnf.Recovery.MaxAttempts
	}
	return model.MaxRecoveryAttempts
}

func (r *RecoveryEngine) sessionTTL() time.Duration {
	if cnf, err := config.Fetch(); err == nil && cnf.Recovery.SessionTTLHours > 0 {
		return time.Duration(cnf.Recovery.SessionTTLHours) * time.Hour
	}
	return model.RecoverySessionTTL
}

// CreateSession captures an onboarding failure as a new recovery session
// and persists it to both storage tiers. Creation always succeeds from the
// caller's perspective: a remote write failure is logged and the local copy
// stays authoritative.
func (r *RecoveryEngine) CreateSession(ctx context.Context, userID string, failedStep model.StepID, reason string, partialData model.OnboardingData) *model.RecoverySession {
	now := r.now()
	session := &model.RecoverySession{
		SessionID:        model.GenerateUUIDWithSuffix("rcv"),
		UserID:           userID,
		FailurePoint:     failedStep,
		FailureReason:    reason,
		FailureTimestamp: now,
		RecoveryAttempts: 0,
		PreservedData:    partialData.Clone(),
		CanRecover:       true,
		ExpiresAt:        now.Add(r.sessionTTL()),
	}

	if err := r.sessions.Save(ctx, session); err != nil {
		// Local persistence failing too means the session lives only in
		// memory for this call; the caller still gets a usable session.
		logrus.Errorf("failed to persist recovery session %s: %v", session.SessionID, err)
	}

	if err := SendWebhook(NewWebhook{Event: EventRecoveryCreated, Payload: session}); err != nil {
		logrus.Warnf("failed to enqueue recovery webhook for %s: %v", session.SessionID, err)
	}

	logrus.Infof("Created recovery session %s for user %s at step %s", session.SessionID, userID, failedStep)
	return session
}

// GetSession loads a session by id, remote-first with local fallback.
// Expired sessions read as absent.
func (r *RecoveryEngine) GetSession(ctx context.Context, sessionID string) (*model.RecoverySession, error) {
	return r.sessions.Get(ctx, sessionID)
}

// AttemptRecovery executes one bounded recovery attempt. The attempt
// counter is incremented after strategy execution completes, whether or not
// the strategy itself succeeded, so a crash mid-strategy does not silently
// consume an attempt. Callers must not invoke this concurrently for the
// same session id.
func (r *RecoveryEngine) AttemptRecovery(ctx context.Context, sessionID string) model.RecoveryResult {
	session, err := r.sessions.Get(ctx, sessionID)
	if err != nil {
		return model.RecoveryResult{
			Success:   false,
			SessionID: sessionID,
			Error:     "recovery session not found or expired",
		}
	}

	// The ceiling is re-evaluated on every call. This path mutates nothing:
	// exhaustion side effects fired when the counter reached the ceiling.
	if session.RecoveryAttempts >= r.maxAttempts() {
		return model.RecoveryResult{
			Success:   false,
			SessionID: sessionID,
			Error:     fmt.Sprintf("maximum recovery attempts exceeded (%d)", r.maxAttempts()),
		}
	}

	if !session.CanRecover {
		return model.RecoveryResult{
			Success:   false,
			SessionID: sessionID,
			Error:     "session is marked unrecoverable",
		}
	}

	analysis := AnalyzeFailure(session.FailureReason)
	strategy := SelectStrategy(analysis, session.RecoveryAttempts)

	result := r.executeStrategy(ctx, session, strategy)
	result.SessionID = sessionID
	result.Analysis = &analysis
	result.Strategy = &strategy

	// Counter bookkeeping is ordered after strategy execution and applies
	// regardless of the strategy's own outcome.
	session.RecoveryAttempts++
	attemptedAt := r.now()
	session.LastRecoveryAttempt = &attemptedAt
	if session.RecoveryAttempts >= r.maxAttempts() {
		r.markExhausted(ctx, session)
	}
	if err := r.sessions.Save(ctx, session); err != nil {
		logrus.Errorf("failed to persist attempt bookkeeping for session %s: %v", session.SessionID, err)
	}

	return result
}

// executeStrategy runs the chosen strategy against the session.
func (r *RecoveryEngine) executeStrategy(ctx context.Context, session *model.RecoverySession, strategy model.RecoveryStrategy) model.RecoveryResult {
	switch strategy.Kind {
	case model.StrategyRetry:
		if r.gateway != nil {
			if err := r.gateway.Resume(ctx, session.UserID, session.FailurePoint, session.PreservedData); err != nil {
				return model.RecoveryResult{
					Success: false,
					Error:   fmt.Sprintf("retry failed: %v", err),
				}
			}
		}
		return model.RecoveryResult{
			Success:      true,
			ResumedStep:  session.FailurePoint,
			RestoredData: session.PreservedData.Clone(),
		}

	case model.StrategySkip:
		next := model.NextStepInOrder(session.FailurePoint)
		if next == "" {
			return model.RecoveryResult{Success: false, Error: "no step to skip to"}
		}
		return model.RecoveryResult{
			Success:      true,
			ResumedStep:  next,
			RestoredData: session.PreservedData.Clone(),
		}

	case model.StrategyReset:
		return model.RecoveryResult{
			Success:      true,
			ResumedStep:  model.StepOrder[0],
			RestoredData: reduceToEssentials(session.PreservedData),
		}

	case model.StrategyManual:
		notification.NotifyError(fmt.Errorf("recovery session %s requires manual intervention: %s", session.SessionID, session.FailureReason))
		return model.RecoveryResult{
			Success: false,
			Error:   fmt.Sprintf("manual intervention required, contact support with session id %s", session.SessionID),
		}
	}

	return model.RecoveryResult{Success: false, Error: fmt.Sprintf("unknown recovery strategy %s", strategy.Kind)}
}

// ResumeFromFailure merges extra data over the session's preserved payload
// (extra wins on conflicts) and re-invokes the remote resume operation. On
// success the session is cleared from both storage tiers; on failure it is
// left untouched and no nested recovery session is created.
func (r *RecoveryEngine) ResumeFromFailure(ctx context.Context, sessionID string, extra model.OnboardingData) (model.RecoveryResult, error) {
	session, err := r.sessions.Get(ctx, sessionID)
	if err != nil {
		return model.RecoveryResult{Success: false, SessionID: sessionID, Error: "recovery session not found or expired"}, err
	}

	merged := session.PreservedData.Clone()
	for k, v := range extra {
		merged[k] = v
	}

	if err := r.gateway.Resume(ctx, session.UserID, session.FailurePoint, merged); err != nil {
		return model.RecoveryResult{
			Success:   false,
			SessionID: sessionID,
			Error:     fmt.Sprintf("resume failed: %v", err),
		}, err
	}

	if err := r.sessions.Delete(ctx, sessionID); err != nil {
		logrus.Warnf("failed to clear resolved session %s: %v", sessionID, err)
	}
	if err := SendWebhook(NewWebhook{Event: EventRecoveryResolved, Payload: map[string]interface{}{"session_id": sessionID, "user_id": session.UserID}}); err != nil {
		logrus.Warnf("failed to enqueue recovery webhook for %s: %v", sessionID, err)
	}

	return model.RecoveryResult{
		Success:      true,
		SessionID:    sessionID,
		ResumedStep:  session.FailurePoint,
		RestoredData: merged,
	}, nil
}

// markExhausted forces CanRecover false once the ceiling is hit and raises
// the support path: without it the user has no way forward. The caller
// persists the session afterwards.
func (r *RecoveryEngine) markExhausted(_ context.Context, session *model.RecoverySession) {
	if !session.CanRecover {
		return
	}
	session.CanRecover = false
	if err := SendWebhook(NewWebhook{Event: EventRecoveryExhausted, Payload: map[string]interface{}{"session_id": session.SessionID, "user_id": session.UserID}}); err != nil {
		logrus.Warnf("failed to enqueue recovery webhook for %s: %v", session.SessionID, err)
	}
	notification.NotifyError(fmt.Errorf("recovery session %s exhausted all attempts for user %s", session.SessionID, session.UserID))
}

// reduceToEssentials keeps only the fields a reset restart can trust.
func reduceToEssentials(data model.OnboardingData) model.OnboardingData {
	reduced := model.OnboardingData{}
	if name, ok := data["business_name"]; ok {
		reduced["business_name"] = name
	}
	if industry, ok := data["industry"]; ok {
		reduced["industry"] = industry
	}
	return reduced
}

// failure classification keyword tables, checked in fixed precedence:
// validation first, then network, then timeout, then server. Anything else
// is unknown. Classification is a substring heuristic over the reason text;
// a structured error-code boundary would supersede it if the remote
// contract ever carries codes.
var (
	validationKeywords = []string{"validation", "invalid", "required", "must be"}
	networkKeywords    = []string{"network", "connection", "offline", "unreachable", "fetch"}
	timeoutKeywords    = []string{"timeout", "timed out", "deadline"}
	serverKeywords     = []string{"server", "500", "502", "503", "internal", "unavailable"}
)

// knownFields are the wizard fields a validation failure message may name.
var knownFields = []string{
	"business_name", "industry", "employee_count", "location_count",
	"business_type", "business_size", "monthly_transactions",
	"monthly_revenue", "selected_tier",
}

// AnalyzeFailure classifies a failure reason string into the recovery
// taxonomy using case-insensitive keyword matching.
func AnalyzeFailure(reason string) model.FailureAnalysis {
	lower := strings.ToLower(reason)

	switch {
	case containsAny(lower, validationKeywords):
		return model.FailureAnalysis{
			Type:        model.FailureValidation,
			Severity:    model.SeverityLow,
			Recoverable: true,
			SuggestedActions: []string{
				"Correct the highlighted fields",
				"Resubmit the step",
			},
			AffectedFields: fieldsMentioned(lower),
		}
	case containsAny(lower, networkKeywords):
		return model.FailureAnalysis{
			Type:        model.FailureNetwork,
			Severity:    model.SeverityMedium,
			Recoverable: true,
			SuggestedActions: []string{
				"Check your internet connection",
				"Retry the step",
			},
		}
	case containsAny(lower, timeoutKeywords):
		return model.FailureAnalysis{
			Type:        model.FailureTimeout,
			Severity:    model.SeverityMedium,
			Recoverable: true,
			SuggestedActions: []string{
				"Retry in a moment",
			},
		}
	case containsAny(lower, serverKeywords):
		return model.FailureAnalysis{
			Type:        model.FailureServer,
			Severity:    model.SeverityHigh,
			Recoverable: true,
			SuggestedActions: []string{
				"Retry shortly",
				"Contact support if the problem persists",
			},
		}
	default:
		return model.FailureAnalysis{
			Type:         model.FailureUnknown,
			Severity:     model.SeverityCritical,
			Recoverable:  false,
			DataLossRisk: true,
			SuggestedActions: []string{
				"Contact support",
			},
		}
	}
}

// SelectStrategy maps a failure analysis and the attempts so far to a
// recovery strategy.
func SelectStrategy(analysis model.FailureAnalysis, attempts int) model.RecoveryStrategy {
	switch analysis.Type {
	case model.FailureValidation:
		return model.RecoveryStrategy{
			Kind:             model.StrategyRetry,
			Description:      "Correct the flagged fields and resubmit the step",
			EstimatedMinutes: 2,
			DataPreservation: model.PreserveFull,
			RequiredAction:   model.ActionInput,
		}
	case model.FailureNetwork, model.FailureTimeout:
		return model.RecoveryStrategy{
			Kind:             model.StrategyRetry,
			Description:      "Retry the failed step with your saved data",
			EstimatedMinutes: 1,
			DataPreservation: model.PreserveFull,
			RequiredAction:   model.ActionNone,
		}
	case model.FailureServer:
		if attempts < 2 {
			return model.RecoveryStrategy{
				Kind:             model.StrategyRetry,
				Description:      "Wait for the service to recover, then retry",
				EstimatedMinutes: 5,
				DataPreservation: model.PreserveFull,
				RequiredAction:   model.ActionNone,
			}
		}
		return model.RecoveryStrategy{
			Kind:             model.StrategyManual,
			Description:      "Repeated server failures, contact support to finish onboarding",
			EstimatedMinutes: 30,
			DataPreservation: model.PreservePartial,
			RequiredAction:   model.ActionContactSupport,
		}
	default:
		return model.RecoveryStrategy{
			Kind:             model.StrategyReset,
			Description:      "Restart onboarding keeping your business name and industry",
			EstimatedMinutes: 10,
			DataPreservation: model.PreservePartial,
			RequiredAction:   model.ActionConfirm,
		}
	}
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func fieldsMentioned(lowerReason string) []string {
	var fields []string
	for _, f := range knownFields {
		if strings.Contains(lowerReason, f) {
			fields = append(fields, f)
		}
	}
	return fields
}
