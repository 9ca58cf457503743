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
	"github.com/shopspring/decimal"

	"github.com/wayfindhq/wayfind/model"
)

// TierCatalog is the static, immutable table of tier definitions. It is
// built once and acts as a pure lookup keyed by tier identity; nothing
// mutates a definition after construction. Each tier's permission and
// feature sets are strict supersets of the tier ranked immediately below.
type TierCatalog struct {
	tiers  map[model.Tier]model.TierDefinition
	ranked []model.Tier
}

// NewTierCatalog builds the fixed catalog of Micro, Small, Medium and
// Enterprise tiers.
func NewTierCatalog() *TierCatalog {
	micro := model.TierDefinition{
		Tier:         model.TierMicro,
		Rank:         0,
		DisplayName:  "Micro",
		MonthlyPrice: decimal.NewFromFloat(9.99),
		AnnualPrice:  decimal.NewFromFloat(99.00),
		Limits: model.TierLimits{
			Employees:      5,
			Locations:      1,
			Transactions:   500,
			StorageGB:      1,
			APICallsPerDay: 1000,
		},
		Permissions: []string{
			"pos:basic:read",
			"pos:basic:write",
			"reports:daily:read",
			"profile:*",
		},
		Features: []string{
			"basic_pos",
			"daily_reports",
		},
		SupportLevel: model.SupportCommunity,
	}

	small := model.TierDefinition{
		Tier:         model.TierSmall,
		Rank:         1,
		DisplayName:  "Small",
		MonthlyPrice: decimal.NewFromFloat(29.99),
		AnnualPrice:  decimal.NewFromFloat(299.00),
		Limits: model.TierLimits{
			Employees:      25,
			Locations:      3,
			Transactions:   5000,
			StorageGB:      10,
			APICallsPerDay: 10000,
		},
		Permissions: append(append([]string{}, micro.Permissions...),
			"pos:advanced:read",
			"inventory:*",
			"reports:standard:*",
		),
		Features: append(append([]string{}, micro.Features...),
			"inventory_tracking",
			"weekly_reports",
			"multi_register",
		),
		SupportLevel: model.SupportEmail,
	}

	medium := model.TierDefinition{
		Tier:         model.TierMedium,
		Rank:         2,
		DisplayName:  "Medium",
		MonthlyPrice: decimal.NewFromFloat(99.99),
		AnnualPrice:  decimal.NewFromFloat(999.00),
		Limits: model.TierLimits{
			Employees:      100,
			Locations:      10,
			Transactions:   50000,
			StorageGB:      100,
			APICallsPerDay: 100000,
		},
		Permissions: append(append([]string{}, small.Permissions...),
			"pos:advanced:write",
			"analytics:*",
			"api:*",
			"locations:*",
		),
		Features: append(append([]string{}, small.Features...),
			"advanced_analytics",
			"multi_location",
			"api_access",
		),
		SupportLevel: model.SupportPriority,
	}

	enterprise := model.TierDefinition{
		Tier:         model.TierEnterprise,
		Rank:         3,
		DisplayName:  "Enterprise",
		MonthlyPrice: decimal.NewFromFloat(299.99),
		AnnualPrice:  decimal.NewFromFloat(2999.00),
		Limits: model.TierLimits{
			Employees:      model.Unlimited,
			Locations:      model.Unlimited,
			Transactions:   model.Unlimited,
			StorageGB:      model.Unlimited,
			APICallsPerDay: model.Unlimited,
		},
		Permissions: append(append([]string{}, medium.Permissions...),
			"admin:*",
			"audit:*",
			"sso:*",
		),
		Features: append(append([]string{}, medium.Features...),
			"sso",
			"audit_log",
			"custom_integrations",
			"dedicated_account_manager",
		),
		SupportLevel: model.SupportDedicated,
	}

	catalog := &TierCatalog{
		tiers: map[model.Tier]model.TierDefinition{
			model.TierMicro:      micro,
			model.TierSmall:      small,
			model.TierMedium:     medium,
			model.TierEnterprise: enterprise,
		},
		ranked: []model.Tier{model.TierMicro, model.TierSmall, model.TierMedium, model.TierEnterprise},
	}
	return catalog
}

// Get returns the definition for a tier. The second return is false for an
// unknown tier identity.
func (c *TierCatalog) Get(tier model.Tier) (model.TierDefinition, bool) {
	def, ok := c.tiers[tier]
	return def, ok
}

// Ranked returns the tiers in ascending rank order (cheapest first).
func (c *TierCatalog) Ranked() []model.Tier {
	out := make([]model.Tier, len(c.ranked))
	copy(out, c.ranked)
	return out
}

// Rank returns a tier's position in the total ranking, or -1 when unknown.
func (c *TierCatalog) Rank(tier model.Tier) int {
	if def, ok := c.tiers[tier]; ok {
		return def.Rank
	}
	return -1
}

// Definitions returns all tier definitions in ascending rank order.
func (c *TierCatalog) Definitions() []model.TierDefinition {
	out := make([]model.TierDefinition, 0, len(c.ranked))
	for _, tier := range c.ranked {
		out = append(out, c.tiers[tier])
	}
	return out
}

// typeAffinity weighs how naturally a business type sits on each tier.
// Values live in [0,1]; a weight of zero removes the tier from contention
// for that type entirely.
var typeAffinity = map[model.Tier]map[model.BusinessType]float64{
	model.TierMicro: {
		model.BusinessTypeFree:       1.0,
		model.BusinessTypeRenewables: 0.7,
		model.BusinessTypeRetail:     0.8,
		model.BusinessTypeWholesale:  0.5,
		model.BusinessTypeIndustry:   0.4,
	},
	model.TierSmall: {
		model.BusinessTypeFree:       0.6,
		model.BusinessTypeRenewables: 0.9,
		model.BusinessTypeRetail:     1.0,
		model.BusinessTypeWholesale:  0.8,
		model.BusinessTypeIndustry:   0.6,
	},
	model.TierMedium: {
		model.BusinessTypeFree:       0.3,
		model.BusinessTypeRenewables: 0.8,
		model.BusinessTypeRetail:     0.9,
		model.BusinessTypeWholesale:  1.0,
		model.BusinessTypeIndustry:   0.9,
	},
	model.TierEnterprise: {
		model.BusinessTypeFree:       0.1,
		model.BusinessTypeRenewables: 0.6,
		model.BusinessTypeRetail:     0.7,
		model.BusinessTypeWholesale:  0.9,
		model.BusinessTypeIndustry:   1.0,
	},
}

// sizeMultiplier boosts or dampens a tier's score for a declared size
// bucket. The matrix is matched exhaustively; unknown buckets fall back to
// a neutral multiplier rather than a silent zero.
var sizeMultiplier = map[model.Tier]map[model.BusinessSize]float64{
	model.TierMicro: {
		model.BusinessSizeSolo:       1.3,
		model.BusinessSizeSmall:      0.9,
		model.BusinessSizeMedium:     0.5,
		model.BusinessSizeLarge:      0.3,
		model.BusinessSizeEnterprise: 0.1,
	},
	model.TierSmall: {
		model.BusinessSizeSolo:       0.8,
		model.BusinessSizeSmall:      1.2,
		model.BusinessSizeMedium:     0.8,
		model.BusinessSizeLarge:      0.4,
		model.BusinessSizeEnterprise: 0.2,
	},
	model.TierMedium: {
		model.BusinessSizeSolo:       0.4,
		model.BusinessSizeSmall:      0.8,
		model.BusinessSizeMedium:     1.2,
		model.BusinessSizeLarge:      1.0,
		model.BusinessSizeEnterprise: 0.5,
	},
	model.TierEnterprise: {
		model.BusinessSizeSolo:       0.1,
		model.BusinessSizeSmall:      0.3,
		model.BusinessSizeMedium:     0.7,
		model.BusinessSizeLarge:      1.2,
		model.BusinessSizeEnterprise: 1.4,
	},
}

const neutralMultiplier = 0.6

// TypeAffinity returns the affinity weight for a tier and business type.
func TypeAffinity(tier model.Tier, businessType model.BusinessType) float64 {
	if row, ok := typeAffinity[tier]; ok {
		if w, ok := row[businessType]; ok {
			return w
		}
	}
	return neutralMultiplier
}

// SizeMultiplier returns the size-bucket multiplier for a tier.
func SizeMultiplier(tier model.Tier, size model.BusinessSize) float64 {
	if row, ok := sizeMultiplier[tier]; ok {
		if m, ok := row[size]; ok {
			return m
		}
	}
	return neutralMultiplier
}
