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
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayfindhq/wayfind/model"
)

func validProfileData() model.OnboardingData {
	return model.OnboardingData{
		"business_name":  gofakeit.Company(),
		"industry":       "retail",
		"employee_count": 12,
	}
}

func TestValidateBusinessProfileStep(t *testing.T) {
	v := NewStepValidator()

	result := v.ValidateStep(model.StepBusinessProfile, validProfileData())
	assert.True(t, result.IsValid)
	assert.Empty(t, result.Errors)
}

func TestValidateBusinessProfileStepFailures(t *testing.T) {
	v := NewStepValidator()

	tests := []struct {
		name       string
		data       model.OnboardingData
		badField   string
	}{
		{"missing business name", model.OnboardingData{"industry": "retail", "employee_count": 3}, "business_name"},
		{"name too short", model.OnboardingData{"business_name": "A", "industry": "retail", "employee_count": 3}, "business_name"},
		{"missing industry", model.OnboardingData{"business_name": "Acme Stores", "employee_count": 3}, "industry"},
		{"zero employees", model.OnboardingData{"business_name": "Acme Stores", "industry": "retail", "employee_count": 0}, "employee_count"},
		{"absurd employee count", model.OnboardingData{"business_name": "Acme Stores", "industry": "retail", "employee_count": 2000000}, "employee_count"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := v.ValidateStep(model.StepBusinessProfile, tt.data)
			assert.False(t, result.IsValid)
			assert.Contains(t, result.Errors, tt.badField)
		})
	}
}

func TestValidateBusinessTypeStep(t *testing.T) {
	v := NewStepValidator()

	valid := v.ValidateStep(model.StepBusinessType, model.OnboardingData{
		"business_type": "retail",
		"business_size": "small",
	})
	assert.True(t, valid.IsValid)

	invalid := v.ValidateStep(model.StepBusinessType, model.OnboardingData{
		"business_type": "bakery",
		"business_size": "small",
	})
	assert.False(t, invalid.IsValid)
	assert.Contains(t, invalid.Errors, "business_type")
}

func TestValidateUnknownStep(t *testing.T) {
	v := NewStepValidator()

	result := v.ValidateStep("payment_details", model.OnboardingData{})
	assert.False(t, result.IsValid)
	assert.Contains(t, result.Errors, "step")
}

func TestImplausibleRevenueIsWarningNotError(t *testing.T) {
	v := NewStepValidator()

	result := v.ValidateStep(model.StepUsageExpectations, model.OnboardingData{
		"business_size":        "solo",
		"monthly_revenue":      2000000.0,
		"monthly_transactions": 100,
	})

	// A solo shop declaring two million a month is suspicious but not
	// blocking: it lands in warnings and the step stays valid.
	assert.True(t, result.IsValid)
	assert.Empty(t, result.Errors)
	assert.Contains(t, result.Warnings, "monthly_revenue")
}

func TestNegativeRevenueIsBlocking(t *testing.T) {
	v := NewStepValidator()

	result := v.ValidateStep(model.StepUsageExpectations, model.OnboardingData{
		"monthly_revenue": -50.0,
	})
	assert.False(t, result.IsValid)
	assert.Contains(t, result.Errors, "monthly_revenue")
}

func TestDependencyGating(t *testing.T) {
	v := NewStepValidator()

	assert.True(t, v.CanAccessStep(model.StepBusinessProfile, nil))
	assert.False(t, v.CanAccessStep(model.StepBusinessType, nil))
	assert.False(t, v.CanAccessStep(model.StepPlanSelection, []model.StepID{model.StepBusinessProfile}))

	completed := []model.StepID{model.StepBusinessProfile, model.StepBusinessType, model.StepUsageExpectations}
	assert.True(t, v.CanAccessStep(model.StepPlanSelection, completed))

	// Gating is list-based: order of completion does not matter.
	shuffled := []model.StepID{model.StepUsageExpectations, model.StepBusinessProfile, model.StepBusinessType}
	assert.True(t, v.CanAccessStep(model.StepPlanSelection, shuffled))

	assert.False(t, v.CanAccessStep("payment_details", completed))
}

func TestNextStepWalksTheWizard(t *testing.T) {
	v := NewStepValidator()

	next, ok := v.NextStep(nil)
	require.True(t, ok)
	assert.Equal(t, model.StepBusinessProfile, next)

	next, ok = v.NextStep([]model.StepID{model.StepBusinessProfile})
	require.True(t, ok)
	assert.Equal(t, model.StepBusinessType, next)

	all := []model.StepID{
		model.StepBusinessProfile, model.StepBusinessType,
		model.StepUsageExpectations, model.StepPlanSelection, model.StepWelcome,
	}
	_, ok = v.NextStep(all)
	assert.False(t, ok)
}

func TestProgressCountsRequiredStepsOnly(t *testing.T) {
	v := NewStepValidator()

	assert.Equal(t, 0, v.Progress(nil))
	assert.Equal(t, 25, v.Progress([]model.StepID{model.StepBusinessProfile}))
	assert.Equal(t, 50, v.Progress([]model.StepID{model.StepBusinessProfile, model.StepBusinessType}))

	// Completing the optional welcome step moves nothing.
	assert.Equal(t, 50, v.Progress([]model.StepID{model.StepBusinessProfile, model.StepBusinessType, model.StepWelcome}))

	required := []model.StepID{
		model.StepBusinessProfile, model.StepBusinessType,
		model.StepUsageExpectations, model.StepPlanSelection,
	}
	assert.Equal(t, 100, v.Progress(required))
}

func TestEstimateRemaining(t *testing.T) {
	v := NewStepValidator()

	assert.Equal(t, 14, v.EstimateRemaining(nil))
	assert.Equal(t, 9, v.EstimateRemaining([]model.StepID{model.StepBusinessProfile}))
	assert.Equal(t, 0, v.EstimateRemaining([]model.StepID{
		model.StepBusinessProfile, model.StepBusinessType,
		model.StepUsageExpectations, model.StepPlanSelection,
	}))
}
