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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayfindhq/wayfind/internal/apierror"
	"github.com/wayfindhq/wayfind/model"
)

func newTestMapper() *PermissionMapper {
	return NewPermissionMapper(NewTierCatalog())
}

func TestPermissionsForUnknownTier(t *testing.T) {
	mapper := newTestMapper()

	_, err := mapper.PermissionsFor("platinum")
	require.Error(t, err)

	apiErr, ok := err.(apierror.APIError)
	require.True(t, ok)
	assert.Equal(t, apierror.ErrNotFound, apiErr.Code)
}

func TestPermissionsForReturnsCopies(t *testing.T) {
	mapper := newTestMapper()

	caps, err := mapper.PermissionsFor(model.TierMicro)
	require.NoError(t, err)

	caps.Permissions[0] = "tampered"

	again, err := mapper.PermissionsFor(model.TierMicro)
	require.NoError(t, err)
	assert.NotEqual(t, "tampered", again.Permissions[0])
}

func TestHasPermissionWildcard(t *testing.T) {
	mapper := newTestMapper()

	tests := []struct {
		name     string
		granted  []string
		required string
		want     bool
	}{
		{"exact match", []string{"pos:basic:read"}, "pos:basic:read", true},
		{"wildcard tail", []string{"inventory:*"}, "inventory:items:write", true},
		{"wildcard single segment", []string{"profile:*"}, "profile:read", true},
		{"wildcard does not cross prefix", []string{"inventory:*"}, "analytics:read", false},
		{"prefix without wildcard is not a grant", []string{"pos:basic"}, "pos:basic:read", false},
		{"no grants", nil, "pos:basic:read", false},
		{"wildcard matches deeper nesting", []string{"api:*"}, "api:keys:rotate:force", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mapper.HasPermission(tt.granted, tt.required))
		})
	}
}

func TestDiffUpgradeAndDowngradeAreMirrors(t *testing.T) {
	mapper := newTestMapper()

	up, err := mapper.Diff(model.TierSmall, model.TierMedium)
	require.NoError(t, err)
	down, err := mapper.Diff(model.TierMedium, model.TierSmall)
	require.NoError(t, err)

	assert.Equal(t, up.AddedPermissions, down.RemovedPermissions)
	assert.Equal(t, up.RemovedPermissions, down.AddedPermissions)
	assert.Equal(t, up.UnchangedPermissions, down.UnchangedPermissions)
	assert.Equal(t, up.AddedFeatures, down.RemovedFeatures)
	assert.Equal(t, up.RemovedFeatures, down.AddedFeatures)
}

func TestDiffUpgradeOnlyAdds(t *testing.T) {
	mapper := newTestMapper()

	diff, err := mapper.Diff(model.TierMicro, model.TierSmall)
	require.NoError(t, err)

	// Tiers are strict supersets, so an upgrade never removes anything.
	assert.Empty(t, diff.RemovedPermissions)
	assert.Empty(t, diff.RemovedFeatures)
	assert.Contains(t, diff.AddedPermissions, "inventory:*")
	assert.Contains(t, diff.AddedFeatures, "inventory_tracking")
	assert.Contains(t, diff.UnchangedPermissions, "pos:basic:read")
}

func TestDiffSameTierIsEmptyChange(t *testing.T) {
	mapper := newTestMapper()

	diff, err := mapper.Diff(model.TierSmall, model.TierSmall)
	require.NoError(t, err)

	assert.Empty(t, diff.AddedPermissions)
	assert.Empty(t, diff.RemovedPermissions)
	assert.Len(t, diff.UnchangedPermissions, 7)
}

func TestValidateEligibilityViolation(t *testing.T) {
	mapper := newTestMapper()

	profile := model.BusinessProfile{
		EmployeeCount:       150,
		LocationCount:       2,
		MonthlyTransactions: 100,
	}

	result, err := mapper.ValidateEligibility(model.TierSmall, profile)
	require.NoError(t, err)

	assert.False(t, result.Eligible)
	require.Len(t, result.ViolatedLimits, 1)
	assert.Equal(t, "employees", result.ViolatedLimits[0].Metric)
	assert.Equal(t, 150, result.ViolatedLimits[0].Current)
	assert.Equal(t, 25, result.ViolatedLimits[0].Limit)
}

func TestValidateEligibilityApproachingWarning(t *testing.T) {
	mapper := newTestMapper()

	profile := model.BusinessProfile{
		EmployeeCount:       20, // 80% of the Small limit of 25
		LocationCount:       1,
		MonthlyTransactions: 100,
	}

	result, err := mapper.ValidateEligibility(model.TierSmall, profile)
	require.NoError(t, err)

	assert.True(t, result.Eligible)
	require.Len(t, result.ApproachingLimits, 1)
	assert.Equal(t, "employees", result.ApproachingLimits[0].Metric)
}

func TestValidateEligibilityEnterpriseNeverBlocks(t *testing.T) {
	mapper := newTestMapper()

	profile := model.BusinessProfile{
		EmployeeCount:       1000000,
		LocationCount:       5000,
		MonthlyTransactions: 100000000,
	}

	result, err := mapper.ValidateEligibility(model.TierEnterprise, profile)
	require.NoError(t, err)
	assert.True(t, result.Eligible)
	assert.Empty(t, result.ViolatedLimits)
	assert.Empty(t, result.ApproachingLimits)
}

func TestUpgradeDowngradeDirection(t *testing.T) {
	mapper := newTestMapper()

	assert.True(t, mapper.IsValidUpgrade(model.TierMicro, model.TierEnterprise))
	assert.False(t, mapper.IsValidUpgrade(model.TierEnterprise, model.TierMicro))
	assert.False(t, mapper.IsValidUpgrade(model.TierSmall, model.TierSmall))

	assert.True(t, mapper.IsValidDowngrade(model.TierMedium, model.TierMicro))
	assert.False(t, mapper.IsValidDowngrade(model.TierMicro, model.TierMedium))

	assert.False(t, mapper.IsValidUpgrade("platinum", model.TierSmall))
	assert.False(t, mapper.IsValidDowngrade(model.TierSmall, "platinum"))
}

func TestValidateTierChangeSameTierConflicts(t *testing.T) {
	mapper := newTestMapper()

	err := mapper.ValidateTierChange(model.TierSmall, model.TierSmall)
	require.Error(t, err)

	apiErr, ok := err.(apierror.APIError)
	require.True(t, ok)
	assert.Equal(t, apierror.ErrConflict, apiErr.Code)

	assert.NoError(t, mapper.ValidateTierChange(model.TierSmall, model.TierMedium))
}
