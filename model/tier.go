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

// Tier identifies one subscription level in the fixed, totally ranked set.
type Tier string

const (
	TierMicro      Tier = "micro"
	TierSmall      Tier = "small"
	TierMedium     Tier = "medium"
	TierEnterprise Tier = "enterprise"
)

// Unlimited marks a tier limit that never blocks eligibility.
const Unlimited = -1

// TierLimits holds the numeric caps of a tier. A value of Unlimited (-1)
// means the metric is uncapped at that tier. MonthlyRevenue is deliberately
// absent: revenue informs scoring but is not a hard limit.
type TierLimits struct {
	Employees    int `json:"employees"`
	Locations    int `json:"locations"`
	Transactions int `json:"transactions"`
	StorageGB    int `json:"storage_gb"`
	APICallsPerDay int `json:"api_calls_per_day"`
}

// SupportLevel is the support channel bundled with a tier.
type SupportLevel string

const (
	SupportCommunity SupportLevel = "community"
	SupportEmail     SupportLevel = "email"
	SupportPriority  SupportLevel = "priority"
	SupportDedicated SupportLevel = "dedicated"
)

// TierDefinition is one row of the tier catalog. Definitions are immutable:
// the catalog builds them once at startup and every accessor returns copies.
// Permission strings may carry a wildcard suffix ":*", which grants every
// permission sharing the prefix.
type TierDefinition struct {
	Tier         Tier            `json:"tier"`
	Rank         int             `json:"rank"`
	DisplayName  string          `json:"display_name"`
	MonthlyPrice decimal.Decimal `json:"monthly_price"`
	AnnualPrice  decimal.Decimal `json:"annual_price"`
	Limits       TierLimits      `json:"limits"`
	Permissions  []string        `json:"permissions"`
	Features     []string        `json:"features"`
	SupportLevel SupportLevel    `json:"support_level"`
}

// TierCapabilities is the capability view of a tier returned to callers that
// only need to render or compare what a tier grants.
type TierCapabilities struct {
	Tier         Tier         `json:"tier"`
	Permissions  []string     `json:"permissions"`
	Features     []string     `json:"features"`
	Limits       TierLimits   `json:"limits"`
	SupportLevel SupportLevel `json:"support_level"`
}

// TierDiff is the pure set difference between two tiers' grants.
type TierDiff struct {
	AddedPermissions   []string `json:"added_permissions"`
	RemovedPermissions []string `json:"removed_permissions"`
	UnchangedPermissions []string `json:"unchanged_permissions"`
	AddedFeatures      []string `json:"added_features"`
	RemovedFeatures    []string `json:"removed_features"`
	UnchangedFeatures  []string `json:"unchanged_features"`
}

// LimitCheck reports one metric measured against a tier limit.
type LimitCheck struct {
	Metric  string  `json:"metric"`
	Current int     `json:"current"`
	Limit   int     `json:"limit"`
	Usage   float64 `json:"usage"` // fraction of the limit consumed
	Message string  `json:"message"`
}

// EligibilityResult is the outcome of validating a profile against a tier's
// hard limits. Violations block tier assignment; approaching limits are
// advisory only.
type EligibilityResult struct {
	Eligible          bool         `json:"eligible"`
	ViolatedLimits    []LimitCheck `json:"violated_limits,omitempty"`
	ApproachingLimits []LimitCheck `json:"approaching_limits,omitempty"`
}
