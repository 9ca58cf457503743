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
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/wayfindhq/wayfind/internal/apierror"
	"github.com/wayfindhq/wayfind/model"
)

const (
	plansCacheKey = "wayfind:plans"
	plansCacheTTL = 5 * time.Minute
)

// OnboardingStatus is a snapshot of where a user stands in the wizard.
type OnboardingStatus struct {
	UserID           string         `json:"user_id"`
	CurrentStep      model.StepID   `json:"current_step"`
	CompletedSteps   []model.StepID `json:"completed_steps"`
	ProgressPercent  int            `json:"progress_percent"`
	RemainingMinutes int            `json:"remaining_minutes"`
	Done             bool           `json:"done"`
}

// StepSubmission is the outcome of submitting a step. When the remote save
// fails a recovery session is created first and surfaced here so the client
// can offer resume instead of losing the user's input.
type StepSubmission struct {
	Validation        model.ValidationResult `json:"validation"`
	Saved             bool                   `json:"saved"`
	NextStep          model.StepID           `json:"next_step,omitempty"`
	RecoverySessionID string                 `json:"recovery_session_id,omitempty"`
}

// StartOnboarding returns the initial status for a user with no completed
// steps.
func (w *Wayfind) StartOnboarding(userID string) OnboardingStatus {
	return w.Status(userID, nil)
}

// Status computes the wizard snapshot from the completed step list. The core
// holds no per-user state; the caller owns the completed list.
func (w *Wayfind) Status(userID string, completed []model.StepID) OnboardingStatus {
	next, hasNext := w.steps.NextStep(completed)
	status := OnboardingStatus{
		UserID:           userID,
		CompletedSteps:   completed,
		ProgressPercent:  w.steps.Progress(completed),
		RemainingMinutes: w.steps.EstimateRemaining(completed),
		Done:             !hasNext,
	}
	if hasNext {
		status.CurrentStep = next
	}
	return status
}

// SubmitStep validates a step payload and persists it through the gateway.
// Dependency gating and local validation fail fast without touching the
// remote. A remote save failure creates a recovery session so the payload
// survives the error.
func (w *Wayfind) SubmitStep(ctx context.Context, userID string, step model.StepID, completed []model.StepID, data model.OnboardingData) (StepSubmission, error) {
	if _, ok := w.steps.Definition(step); !ok {
		return StepSubmission{}, apierror.NewAPIError(apierror.ErrBadRequest, fmt.Sprintf("unknown onboarding step: %s", step), step)
	}
	if !w.steps.CanAccessStep(step, completed) {
		return StepSubmission{}, apierror.NewAPIError(apierror.ErrConflict, fmt.Sprintf("step %s has unmet dependencies", step), completed)
	}

	result := w.steps.ValidateStep(step, data)
	if !result.IsValid {
		return StepSubmission{Validation: result}, nil
	}

	if err := w.gateway.SaveProgress(ctx, userID, step, data); err != nil {
		session := w.recovery.CreateSession(ctx, userID, step, err.Error(), data)
		logrus.WithFields(logrus.Fields{
			"user_id":    userID,
			"step":       step,
			"session_id": session.SessionID,
		}).Warn("step save failed, recovery session created")
		return StepSubmission{
			Validation:        result,
			RecoverySessionID: session.SessionID,
		}, errors.Wrapf(err, "failed to save step %s", step)
	}

	sub := StepSubmission{Validation: result, Saved: true}
	if next, ok := w.steps.NextStep(append(append([]model.StepID{}, completed...), step)); ok {
		sub.NextStep = next
	}
	return sub, nil
}

// CompletionResult is returned by CompleteOnboarding.
type CompletionResult struct {
	Tier        model.Tier              `json:"tier"`
	Eligibility model.EligibilityResult `json:"eligibility"`
	Permissions model.TierCapabilities  `json:"permissions"`
}

// CompleteOnboarding commits the selected tier for the user. Eligibility is
// enforced before the remote assignment; approaching-limit warnings pass
// through in the result.
func (w *Wayfind) CompleteOnboarding(ctx context.Context, userID string, tier model.Tier, profile model.BusinessProfile) (CompletionResult, error) {
	eligibility, err := w.permissions.ValidateEligibility(tier, profile)
	if err != nil {
		return CompletionResult{}, err
	}
	if !eligibility.Eligible {
		return CompletionResult{Eligibility: eligibility}, apierror.NewAPIError(apierror.ErrNotEligible,
			fmt.Sprintf("business profile exceeds the limits of tier %s", tier), eligibility.ViolatedLimits)
	}

	caps, err := w.permissions.PermissionsFor(tier)
	if err != nil {
		return CompletionResult{}, err
	}

	if err := w.gateway.AssignTier(ctx, userID, tier); err != nil {
		return CompletionResult{}, errors.Wrapf(err, "failed to assign tier %s", tier)
	}

	go func() {
		payload := map[string]interface{}{"user_id": userID, "tier": tier}
		if err := SendWebhook(NewWebhook{Event: EventTierAssigned, Payload: payload}); err != nil {
			logrus.Error(err)
		}
		if err := SendWebhook(NewWebhook{Event: EventOnboardingCompleted, Payload: payload}); err != nil {
			logrus.Error(err)
		}
	}()

	return CompletionResult{Tier: tier, Eligibility: eligibility, Permissions: caps}, nil
}

// ChangeTier validates and commits an upgrade or downgrade for an already
// onboarded user, returning the permission diff the change implies.
func (w *Wayfind) ChangeTier(ctx context.Context, userID string, from, to model.Tier, profile model.BusinessProfile) (model.TierDiff, error) {
	if err := w.permissions.ValidateTierChange(from, to); err != nil {
		return model.TierDiff{}, err
	}
	eligibility, err := w.permissions.ValidateEligibility(to, profile)
	if err != nil {
		return model.TierDiff{}, err
	}
	if !eligibility.Eligible {
		return model.TierDiff{}, apierror.NewAPIError(apierror.ErrNotEligible,
			fmt.Sprintf("business profile exceeds the limits of tier %s", to), eligibility.ViolatedLimits)
	}
	diff, err := w.permissions.Diff(from, to)
	if err != nil {
		return model.TierDiff{}, err
	}
	if err := w.gateway.AssignTier(ctx, userID, to); err != nil {
		return model.TierDiff{}, errors.Wrapf(err, "failed to change tier from %s to %s", from, to)
	}
	return diff, nil
}

// RecommendPlan scores the profile and returns a recommendation, alongside
// the eligibility check for the recommended tier so callers can render both
// in one round trip.
func (w *Wayfind) RecommendPlan(profile model.BusinessProfile) (model.Recommendation, model.EligibilityResult) {
	rec := w.recommender.Recommend(profile)
	eligibility, err := w.permissions.ValidateEligibility(rec.Tier, profile)
	if err != nil {
		// Catalog and recommender share tier identifiers, so a miss here
		// means a fallback recommendation for a profile we cannot check.
		eligibility = model.EligibilityResult{Eligible: true}
	}
	return rec, eligibility
}

// GetAvailablePlans returns the ranked tier catalog, cached briefly to keep
// the plan page off the hot path. The catalog is static per process, but the
// cache keeps shared deployments consistent when definitions roll out.
func (w *Wayfind) GetAvailablePlans(ctx context.Context) []model.TierDefinition {
	if w.cache != nil {
		var cached []model.TierDefinition
		if err := w.cache.Get(ctx, plansCacheKey, &cached); err == nil && len(cached) > 0 {
			return cached
		}
	}
	plans := w.catalog.Definitions()
	if w.cache != nil {
		if err := w.cache.Set(ctx, plansCacheKey, plans, plansCacheTTL); err != nil {
			logrus.Warnf("failed to cache plan catalog: %v", err)
		}
	}
	return plans
}

// ResumeOnboarding completes a recovery flow: the preserved payload, merged
// with any fresh input, is replayed through the gateway and the session is
// discarded on success.
func (w *Wayfind) ResumeOnboarding(ctx context.Context, sessionID string, extra model.OnboardingData) (model.RecoveryResult, error) {
	return w.recovery.ResumeFromFailure(ctx, sessionID, extra)
}
