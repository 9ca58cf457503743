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

// StepID identifies one step of the onboarding wizard. Steps form a fixed
// ordered sequence, but reachability is decided from each step's dependency
// list, not from positional index.
type StepID string

const (
	StepBusinessProfile   StepID = "business_profile"
	StepBusinessType      StepID = "business_type"
	StepUsageExpectations StepID = "usage_expectations"
	StepPlanSelection     StepID = "plan_selection"
	StepWelcome           StepID = "welcome"
)

// StepOrder is the canonical wizard sequence.
var StepOrder = []StepID{
	StepBusinessProfile,
	StepBusinessType,
	StepUsageExpectations,
	StepPlanSelection,
	StepWelcome,
}

// NextStepInOrder returns the step following the given one in the canonical
// sequence, or empty when the step is last or unknown.
func NextStepInOrder(step StepID) StepID {
	for i, s := range StepOrder {
		if s == step && i+1 < len(StepOrder) {
			return StepOrder[i+1]
		}
	}
	return ""
}

// OnboardingData is the free-form payload the wizard accumulates across
// steps. Keys are field names; values are whatever the UI submitted.
type OnboardingData map[string]interface{}

// Clone returns a shallow copy so callers can merge without aliasing the
// stored payload.
func (d OnboardingData) Clone() OnboardingData {
	out := make(OnboardingData, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// ValidationResult is the structured outcome of validating one step's data.
// Errors block advancement; warnings are advisory and never affect IsValid.
type ValidationResult struct {
	IsValid  bool                `json:"is_valid"`
	Errors   map[string][]string `json:"errors,omitempty"`
	Warnings map[string][]string `json:"warnings,omitempty"`
}

// AddError records a blocking error for a field and flips validity.
func (r *ValidationResult) AddError(field, message string) {
	if r.Errors == nil {
		r.Errors = make(map[string][]string)
	}
	r.Errors[field] = append(r.Errors[field], message)
	r.IsValid = false
}

// AddWarning records an advisory message for a field. Validity is untouched.
func (r *ValidationResult) AddWarning(field, message string) {
	if r.Warnings == nil {
		r.Warnings = make(map[string][]string)
	}
	r.Warnings[field] = append(r.Warnings[field], message)
}
