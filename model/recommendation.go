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

import "github.com/shopspring/decimal"

// TierAlternative is a runner-up tier attached to a recommendation.
// MonthlySavings is set only when the alternative is strictly cheaper than
// the recommended tier.
type TierAlternative struct {
	Tier           Tier             `json:"tier"`
	Reason         string           `json:"reason"`
	MonthlySavings *decimal.Decimal `json:"monthly_savings,omitempty"`
}

// Recommendation is the result of scoring a business profile against the
// tier catalog. It is computed fresh on every call and never persisted.
// Confidence lives in [0,1] and is capped at 0.95 to avoid false certainty.
type Recommendation struct {
	Tier         Tier              `json:"tier"`
	Confidence   float64           `json:"confidence"`
	Reasoning    []string          `json:"reasoning"`
	Alternatives []TierAlternative `json:"alternatives"`
	Fallback     bool              `json:"fallback,omitempty"`
}
