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

// Package wayfind is the decision core of a SaaS onboarding flow: it scores
// business profiles into tier recommendations, maps tiers to permission and
// feature sets, validates onboarding steps against a dependency-gated
// wizard, and recovers failed steps without losing user data.
package wayfind

import (
	"context"

	"github.com/wayfindhq/wayfind/internal/cache"
	"github.com/wayfindhq/wayfind/internal/store"
	"github.com/wayfindhq/wayfind/model"
)

// RemoteGateway is the opaque remote procedure boundary the core calls
// through. Every call may fail; the core never inspects anything beyond the
// textual error. Implementations live outside the core (HTTP client, RPC,
// test doubles).
type RemoteGateway interface {
	// ValidateStep asks the backend to validate a step payload. A returned
	// ValidationResult carries field-level errors; a returned error is a
	// transport failure.
	ValidateStep(ctx context.Context, step model.StepID, data model.OnboardingData) (model.ValidationResult, error)

	// SaveProgress persists a user's completed step payload.
	SaveProgress(ctx context.Context, userID string, step model.StepID, data model.OnboardingData) error

	// AssignTier commits a tier assignment for the user.
	AssignTier(ctx context.Context, userID string, tier model.Tier) error

	// Resume re-invokes a previously failed step with preserved data.
	Resume(ctx context.Context, userID string, step model.StepID, data model.OnboardingData) error
}

// Wayfind aggregates the core components. Everything is constructed once at
// application start and passed by reference; there is no global singleton
// state beyond the process configuration.
type Wayfind struct {
	catalog     *TierCatalog
	recommender *RecommendationEngine
	permissions *PermissionMapper
	steps       *StepValidator
	recovery    *RecoveryEngine
	gateway     RemoteGateway
	cache       cache.Cache
}

// NewWayfind wires the decision core together. The gateway is the remote
// onboarding boundary; sessions is the recovery session store (normally a
// DualStore); cache may be nil to disable plan caching.
func NewWayfind(gateway RemoteGateway, sessions store.SessionStore, c cache.Cache) *Wayfind {
	catalog := NewTierCatalog()
	return &Wayfind{
		catalog:     catalog,
		recommender: NewRecommendationEngine(catalog),
		permissions: NewPermissionMapper(catalog),
		steps:       NewStepValidator(),
		recovery:    NewRecoveryEngine(sessions, gateway),
		gateway:     gateway,
		cache:       c,
	}
}

// Catalog returns the immutable tier catalog.
func (w *Wayfind) Catalog() *TierCatalog { return w.catalog }

// Recommender returns the recommendation engine.
func (w *Wayfind) Recommender() *RecommendationEngine { return w.recommender }

// Permissions returns the tier/permission mapper.
func (w *Wayfind) Permissions() *PermissionMapper { return w.permissions }

// Steps returns the step validator.
func (w *Wayfind) Steps() *StepValidator { return w.steps }

// Recovery returns the recovery state machine.
func (w *Wayfind) Recovery() *RecoveryEngine { return w.recovery }
