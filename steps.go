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
	"fmt"
	"math"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/wayfindhq/wayfind/model"
)

// RuleKind enumerates the step validation rule kinds. Required, min/max and
// pattern rules always produce blocking errors; custom rules may be routed
// to warnings when their message is advisory.
type RuleKind string

const (
	RuleRequired RuleKind = "required"
	RuleMin      RuleKind = "min"
	RuleMax      RuleKind = "max"
	RulePattern  RuleKind = "pattern"
	RuleCustom   RuleKind = "custom"
)

// FieldRule is one validation rule attached to a step field. Custom rules
// receive the full partial data object so they can express cross-field
// consistency checks.
type FieldRule struct {
	Field   string
	Kind    RuleKind
	Bound   float64
	Pattern *regexp.Regexp
	Message string
	Check   func(data model.OnboardingData) error
}

// StepDefinition describes one wizard step: whether it is required, which
// steps must be complete before it is reachable, its validation rules and
// how long it typically takes.
type StepDefinition struct {
	ID               model.StepID
	Title            string
	Required         bool
	Dependencies     []model.StepID
	Rules            []FieldRule
	EstimatedMinutes int
}

// StepValidator owns the wizard's step table: per-step field validation,
// dependency gating, next-step resolution and progress estimation. It is
// independent of tiers entirely.
type StepValidator struct {
	steps map[model.StepID]StepDefinition
	order []model.StepID
}

var (
	businessTypePattern = regexp.MustCompile(`^(free|renewables|retail|wholesale|industry)$`)
	businessSizePattern = regexp.MustCompile(`^(solo|small|medium|large|enterprise)$`)
	tierPattern         = regexp.MustCompile(`^(micro|small|medium|enterprise)$`)
)

// NewStepValidator builds the fixed wizard: a linear chain from business
// profile to welcome, expressed as per-step dependency lists so the gating
// logic tolerates future branching.
func NewStepValidator() *StepValidator {
	steps := []StepDefinition{
		{
			ID:       model.StepBusinessProfile,
			Title:    "Business profile",
			Required: true,
			Rules: []FieldRule{
				{Field: "business_name", Kind: RuleRequired},
				{Field: "business_name", Kind: RuleMin, Bound: 2},
				{Field: "business_name", Kind: RuleMax, Bound: 120},
				{Field: "industry", Kind: RuleRequired},
				{Field: "employee_count", Kind: RuleMin, Bound: 1},
				{Field: "employee_count", Kind: RuleMax, Bound: 1000000},
			},
			EstimatedMinutes: 5,
		},
		{
			ID:           model.StepBusinessType,
			Title:        "Business type",
			Required:     true,
			Dependencies: []model.StepID{model.StepBusinessProfile},
			Rules: []FieldRule{
				{Field: "business_type", Kind: RuleRequired},
				{Field: "business_type", Kind: RulePattern, Pattern: businessTypePattern},
				{Field: "business_size", Kind: RuleRequired},
				{Field: "business_size", Kind: RulePattern, Pattern: businessSizePattern},
			},
			EstimatedMinutes: 3,
		},
		{
			ID:           model.StepUsageExpectations,
			Title:        "Usage expectations",
			Required:     true,
			Dependencies: []model.StepID{model.StepBusinessProfile, model.StepBusinessType},
			Rules: []FieldRule{
				{Field: "monthly_transactions", Kind: RuleMin, Bound: 0},
				{Field: "monthly_revenue", Kind: RuleMin, Bound: 0},
				{
					Field: "monthly_revenue",
					Kind:  RuleCustom,
					Check: revenuePlausibility,
				},
			},
			EstimatedMinutes: 4,
		},
		{
			ID:           model.StepPlanSelection,
			Title:        "Plan selection",
			Required:     true,
			Dependencies: []model.StepID{model.StepBusinessProfile, model.StepBusinessType, model.StepUsageExpectations},
			Rules: []FieldRule{
				{Field: "selected_tier", Kind: RuleRequired},
				{Field: "selected_tier", Kind: RulePattern, Pattern: tierPattern},
			},
			EstimatedMinutes: 2,
		},
		{
			ID:               model.StepWelcome,
			Title:            "Welcome",
			Required:         false,
			Dependencies:     []model.StepID{model.StepPlanSelection},
			EstimatedMinutes: 1,
		},
	}

	v := &StepValidator{steps: make(map[model.StepID]StepDefinition, len(steps)), order: model.StepOrder}
	for _, s := range steps {
		v.steps[s.ID] = s
	}
	return v
}

// revenuePlausibility is a cross-field sanity check: revenue wildly beyond
// what the declared size bucket suggests is flagged, but only as advice.
func revenuePlausibility(data model.OnboardingData) error {
	revenue, ok := numericField(data, "monthly_revenue")
	if !ok {
		return nil
	}
	size, _ := data["business_size"].(string)
	switch model.BusinessSize(size) {
	case model.BusinessSizeSolo, model.BusinessSizeSmall:
		if revenue > 1000000 {
			return fmt.Errorf("monthly revenue seems unusually high for a %s business", size)
		}
	}
	return nil
}

// Definition returns the definition of a step.
func (v *StepValidator) Definition(step model.StepID) (StepDefinition, bool) {
	def, ok := v.steps[step]
	return def, ok
}

// ValidateStep runs the step's rules against the partial data and returns a
// structured result. Required, bound and pattern failures land in the
// errors map and block advancement; custom-rule failures whose message is
// advisory ("seems", "unusual") land in warnings instead.
func (v *StepValidator) ValidateStep(step model.StepID, data model.OnboardingData) model.ValidationResult {
	result := model.ValidationResult{IsValid: true}

	def, ok := v.steps[step]
	if !ok {
		result.AddError("step", fmt.Sprintf("unknown onboarding step %s", step))
		return result
	}

	for _, rule := range def.Rules {
		if err := applyRule(rule, data); err != nil {
			if rule.Kind == RuleCustom && isAdvisory(err.Error()) {
				result.AddWarning(rule.Field, err.Error())
				continue
			}
			result.AddError(rule.Field, err.Error())
		}
	}
	return result
}

func applyRule(rule FieldRule, data model.OnboardingData) error {
	value := data[rule.Field]

	switch rule.Kind {
	case RuleRequired:
		return validation.Validate(value, validation.Required.Error(fmt.Sprintf("%s is required", rule.Field)))
	case RuleMin, RuleMax:
		return applyBoundRule(rule, value)
	case RulePattern:
		s, ok := value.(string)
		if !ok {
			if value == nil {
				return nil // absence is the required rule's concern
			}
			return fmt.Errorf("%s must be text", rule.Field)
		}
		return validation.Validate(s, validation.Match(rule.Pattern).Error(fmt.Sprintf("%s has an invalid value", rule.Field)))
	case RuleCustom:
		if rule.Check == nil {
			return nil
		}
		return rule.Check(data)
	}
	return nil
}

// applyBoundRule interprets min/max against numbers as numeric bounds and
// against strings as length bounds.
func applyBoundRule(rule FieldRule, value interface{}) error {
	if value == nil {
		return nil
	}

	if s, ok := value.(string); ok {
		bound := int(rule.Bound)
		if rule.Kind == RuleMin {
			return validation.Validate(s, validation.Length(bound, 0).Error(fmt.Sprintf("%s must be at least %d characters", rule.Field, bound)))
		}
		return validation.Validate(s, validation.Length(0, bound).Error(fmt.Sprintf("%s must be at most %d characters", rule.Field, bound)))
	}

	number, ok := toFloat(value)
	if !ok {
		return fmt.Errorf("%s must be a number", rule.Field)
	}
	if rule.Kind == RuleMin {
		return validation.Validate(number, validation.Min(rule.Bound).Error(fmt.Sprintf("%s must be at least %v", rule.Field, rule.Bound)))
	}
	return validation.Validate(number, validation.Max(rule.Bound).Error(fmt.Sprintf("%s must be at most %v", rule.Field, rule.Bound)))
}

// isAdvisory decides whether a custom-rule message is advice rather than a
// hard failure. The heuristic keys off hedging words in the message text.
func isAdvisory(message string) bool {
	lower := strings.ToLower(message)
	return strings.Contains(lower, "seems") || strings.Contains(lower, "unusual")
}

func numericField(data model.OnboardingData, field string) (float64, bool) {
	return toFloat(data[field])
}

func toFloat(value interface{}) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// CanAccessStep reports whether every dependency of the target step is in
// the completed set. The check is list-based, not positional.
func (v *StepValidator) CanAccessStep(step model.StepID, completed []model.StepID) bool {
	def, ok := v.steps[step]
	if !ok {
		return false
	}

	done := completedSet(completed)
	for _, dep := range def.Dependencies {
		if _, ok := done[dep]; !ok {
			return false
		}
	}
	return true
}

// NextStep walks the fixed ordering and returns the first step that is both
// incomplete and accessible. The second return is false when the wizard is
// finished.
func (v *StepValidator) NextStep(completed []model.StepID) (model.StepID, bool) {
	done := completedSet(completed)
	for _, step := range v.order {
		if _, ok := done[step]; ok {
			continue
		}
		if v.CanAccessStep(step, completed) {
			return step, true
		}
	}
	return "", false
}

// Progress returns the percentage of required steps completed, rounded to
// the nearest whole number. Optional steps never count either way.
func (v *StepValidator) Progress(completed []model.StepID) int {
	done := completedSet(completed)
	total, finished := 0, 0
	for _, step := range v.order {
		def := v.steps[step]
		if !def.Required {
			continue
		}
		total++
		if _, ok := done[step]; ok {
			finished++
		}
	}
	if total == 0 {
		return 100
	}
	return int(math.Round(float64(finished) / float64(total) * 100))
}

// EstimateRemaining sums the per-step estimate of every incomplete required
// step, in minutes.
func (v *StepValidator) EstimateRemaining(completed []model.StepID) int {
	done := completedSet(completed)
	minutes := 0
	for _, step := range v.order {
		def := v.steps[step]
		if !def.Required {
			continue
		}
		if _, ok := done[step]; ok {
			continue
		}
		minutes += def.EstimatedMinutes
	}
	return minutes
}

func completedSet(completed []model.StepID) map[model.StepID]struct{} {
	done := make(map[model.StepID]struct{}, len(completed))
	for _, step := range completed {
		done[step] = struct{}{}
	}
	return done
}
