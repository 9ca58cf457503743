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

// BusinessType is the enumerated business category a prospect declares
// during onboarding. It feeds the tier affinity matrix in the
// recommendation engine.
type BusinessType string

const (
	BusinessTypeFree       BusinessType = "free"
	BusinessTypeRenewables BusinessType = "renewables"
	BusinessTypeRetail     BusinessType = "retail"
	BusinessTypeWholesale  BusinessType = "wholesale"
	BusinessTypeIndustry   BusinessType = "industry"
)

// BusinessSize is the self-declared size bucket of a prospect.
type BusinessSize string

const (
	BusinessSizeSolo       BusinessSize = "solo"
	BusinessSizeSmall      BusinessSize = "small"
	BusinessSizeMedium     BusinessSize = "medium"
	BusinessSizeLarge      BusinessSize = "large"
	BusinessSizeEnterprise BusinessSize = "enterprise"
)

// BusinessProfile is the self-reported scale snapshot of a prospective
// business. It is a pure scoring input: the recommendation engine and the
// permission mapper read it but never mutate it. Only the onboarding wizard
// fills it in as the user moves through steps.
type BusinessProfile struct {
	BusinessName        string       `json:"business_name"`
	EmployeeCount       int          `json:"employee_count"`
	LocationCount       int          `json:"location_count"`
	MonthlyTransactions int          `json:"monthly_transactions"`
	MonthlyRevenue      float64      `json:"monthly_revenue"`
	BusinessType        BusinessType `json:"business_type"`
	BusinessSize        BusinessSize `json:"business_size"`
	Industry            string       `json:"industry"`
}

// Normalized returns a copy of the profile with absent or nonsensical
// metrics replaced by conservative defaults. Scoring and eligibility checks
// never reject a profile for missing data; they default it instead.
func (p BusinessProfile) Normalized() BusinessProfile {
	out := p
	if out.EmployeeCount <= 0 {
		out.EmployeeCount = 1
	}
	if out.LocationCount <= 0 {
		out.LocationCount = 1
	}
	if out.MonthlyTransactions < 0 {
		out.MonthlyTransactions = 0
	}
	if out.MonthlyRevenue < 0 {
		out.MonthlyRevenue = 0
	}
	if out.BusinessType == "" {
		out.BusinessType = BusinessTypeRetail
	}
	if out.BusinessSize == "" {
		out.BusinessSize = BusinessSizeSmall
	}
	return out
}
