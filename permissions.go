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
	"sort"
	"strings"

	"github.com/wayfindhq/wayfind/internal/apierror"
	"github.com/wayfindhq/wayfind/model"
)

// approachingThreshold is the fraction of a limit at which eligibility
// checks start warning without blocking.
const approachingThreshold = 0.8

// PermissionMapper resolves tiers into concrete capability sets, diffs
// tiers, matches wildcard permissions and validates profile eligibility.
// All operations are pure lookups over the immutable catalog.
type PermissionMapper struct {
	catalog *TierCatalog
}

// NewPermissionMapper builds a mapper over the given catalog.
func NewPermissionMapper(catalog *TierCatalog) *PermissionMapper {
	return &PermissionMapper{catalog: catalog}
}

// PermissionsFor returns the permission/feature/limit bundle of a tier.
func (m *PermissionMapper) PermissionsFor(tier model.Tier) (model.TierCapabilities, error) {
	def, ok := m.catalog.Get(tier)
	if !ok {
		return model.TierCapabilities{}, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("unknown tier %s", tier), nil)
	}
	return model.TierCapabilities{
		Tier:         def.Tier,
		Permissions:  append([]string{}, def.Permissions...),
		Features:     append([]string{}, def.Features...),
		Limits:       def.Limits,
		SupportLevel: def.SupportLevel,
	}, nil
}

// HasPermission reports whether a granted set satisfies a required
// permission, by exact match or wildcard-prefix match. A granted permission
// ending in ":*" satisfies every permission sharing the prefix up to and
// including the final segment.
func (m *PermissionMapper) HasPermission(granted []string, required string) bool {
	for _, grant := range granted {
		if grant == required {
			return true
		}
		if strings.HasSuffix(grant, ":*") {
			prefix := strings.TrimSuffix(grant, "*")
			if strings.HasPrefix(required, prefix) {
				return true
			}
		}
	}
	return false
}

// Diff computes the pure set difference between two tiers' grants:
// added = to - from, removed = from - to, unchanged = from ∩ to.
func (m *PermissionMapper) Diff(from, to model.Tier) (model.TierDiff, error) {
	fromDef, ok := m.catalog.Get(from)
	if !ok {
		return model.TierDiff{}, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("unknown tier %s", from), nil)
	}
	toDef, ok := m.catalog.Get(to)
	if !ok {
		return model.TierDiff{}, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("unknown tier %s", to), nil)
	}

	diff := model.TierDiff{}
	diff.AddedPermissions, diff.RemovedPermissions, diff.UnchangedPermissions = diffSets(fromDef.Permissions, toDef.Permissions)
	diff.AddedFeatures, diff.RemovedFeatures, diff.UnchangedFeatures = diffSets(fromDef.Features, toDef.Features)
	return diff, nil
}

func diffSets(from, to []string) (added, removed, unchanged []string) {
	fromSet := make(map[string]struct{}, len(from))
	for _, s := range from {
		fromSet[s] = struct{}{}
	}
	toSet := make(map[string]struct{}, len(to))
	for _, s := range to {
		toSet[s] = struct{}{}
	}

	added = []string{}
	removed = []string{}
	unchanged = []string{}
	for s := range toSet {
		if _, ok := fromSet[s]; ok {
			unchanged = append(unchanged, s)
		} else {
			added = append(added, s)
		}
	}
	for s := range fromSet {
		if _, ok := toSet[s]; !ok {
			removed = append(removed, s)
		}
	}
	sort.Strings(added)
	sort.Strings(removed)
	sort.Strings(unchanged)
	return added, removed, unchanged
}

// ValidateEligibility compares the profile's scale metrics against a tier's
// hard limits. Metrics at or beyond a limit produce violations and make the
// profile ineligible; metrics within 80% of a limit produce advisory
// warnings. Unlimited metrics always pass. Eligibility failure blocks tier
// assignment only; browsing a tier's features is never gated.
func (m *PermissionMapper) ValidateEligibility(tier model.Tier, profile model.BusinessProfile) (model.EligibilityResult, error) {
	def, ok := m.catalog.Get(tier)
	if !ok {
		return model.EligibilityResult{}, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("unknown tier %s", tier), nil)
	}

	p := profile.Normalized()
	result := model.EligibilityResult{Eligible: true}

	checks := []struct {
		metric  string
		current int
		limit   int
	}{
		{"employees", p.EmployeeCount, def.Limits.Employees},
		{"locations", p.LocationCount, def.Limits.Locations},
		{"transactions", p.MonthlyTransactions, def.Limits.Transactions},
	}

	for _, c := range checks {
		if c.limit == model.Unlimited {
			continue
		}
		usage := float64(c.current) / float64(c.limit)
		check := model.LimitCheck{
			Metric:  c.metric,
			Current: c.current,
			Limit:   c.limit,
			Usage:   usage,
		}
		switch {
		case c.current > c.limit:
			check.Message = fmt.Sprintf("%s count %d exceeds the %s limit of %d", c.metric, c.current, def.DisplayName, c.limit)
			result.ViolatedLimits = append(result.ViolatedLimits, check)
			result.Eligible = false
		case usage >= approachingThreshold:
			check.Message = fmt.Sprintf("%s count %d is close to the %s limit of %d", c.metric, c.current, def.DisplayName, c.limit)
			result.ApproachingLimits = append(result.ApproachingLimits, check)
		}
	}
	return result, nil
}

// IsValidUpgrade reports whether moving from one tier to another is a
// strict upgrade in the total ranking.
func (m *PermissionMapper) IsValidUpgrade(from, to model.Tier) bool {
	fromRank, toRank := m.catalog.Rank(from), m.catalog.Rank(to)
	if fromRank < 0 || toRank < 0 {
		return false
	}
	return toRank > fromRank
}

// IsValidDowngrade reports whether moving from one tier to another is a
// strict downgrade.
func (m *PermissionMapper) IsValidDowngrade(from, to model.Tier) bool {
	fromRank, toRank := m.catalog.Rank(from), m.catalog.Rank(to)
	if fromRank < 0 || toRank < 0 {
		return false
	}
	return toRank < fromRank
}

// ValidateTierChange rejects any assignment that is neither a valid upgrade
// nor a valid downgrade. Re-assigning the current tier is an explicit
// no-op error, never silently accepted.
func (m *PermissionMapper) ValidateTierChange(from, to model.Tier) error {
	if m.catalog.Rank(from) < 0 {
		return apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("unknown tier %s", from), nil)
	}
	if m.catalog.Rank(to) < 0 {
		return apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("unknown tier %s", to), nil)
	}
	if from == to {
		return apierror.NewAPIError(apierror.ErrConflict, fmt.Sprintf("already on tier %s, change is a no-op", to), nil)
	}
	return nil
}
