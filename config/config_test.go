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

package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAndAddDefaults(t *testing.T) {
	cnf := &Configuration{}
	require.NoError(t, cnf.validateAndAddDefaults())

	assert.Equal(t, "Wayfind Server", cnf.ProjectName)
	assert.Equal(t, DEFAULT_PORT, cnf.Server.Port)
	assert.Equal(t, DEFAULT_MAX_RECOVERY_ATTEMPTS, cnf.Recovery.MaxAttempts)
	assert.Equal(t, DEFAULT_SESSION_TTL_HOURS, cnf.Recovery.SessionTTLHours)
}

func TestRecoveryAttemptsClampedToCeiling(t *testing.T) {
	cnf := &Configuration{Recovery: RecoveryConfig{MaxAttempts: 10}}
	require.NoError(t, cnf.validateAndAddDefaults())

	assert.Equal(t, DEFAULT_MAX_RECOVERY_ATTEMPTS, cnf.Recovery.MaxAttempts)
}

func TestRecoveryAttemptsMayBeLowered(t *testing.T) {
	cnf := &Configuration{Recovery: RecoveryConfig{MaxAttempts: 1}}
	require.NoError(t, cnf.validateAndAddDefaults())

	assert.Equal(t, 1, cnf.Recovery.MaxAttempts)
}

func TestRateLimitCleanupDefault(t *testing.T) {
	rps := 10.0
	cnf := &Configuration{RateLimit: RateLimitConfig{RequestsPerSecond: &rps}}
	require.NoError(t, cnf.validateAndAddDefaults())

	require.NotNil(t, cnf.RateLimit.CleanupIntervalSec)
	assert.Equal(t, 10800, *cnf.RateLimit.CleanupIntervalSec)
}

func TestEnvOverrides(t *testing.T) {
	require.NoError(t, os.Setenv("WAYFIND_SERVER_PORT", "7001"))
	require.NoError(t, os.Setenv("WAYFIND_REDIS_DNS", "localhost:6379"))
	defer func() {
		_ = os.Unsetenv("WAYFIND_SERVER_PORT")
		_ = os.Unsetenv("WAYFIND_REDIS_DNS")
	}()

	require.NoError(t, loadConfigFromFile("no-such-file.json"))

	cnf, err := Fetch()
	require.NoError(t, err)
	assert.Equal(t, "7001", cnf.Server.Port)
	assert.Equal(t, "localhost:6379", cnf.Redis.Dns)
}

func TestMockConfigAppliesDefaults(t *testing.T) {
	MockConfig(&Configuration{})

	cnf, err := Fetch()
	require.NoError(t, err)
	assert.Equal(t, DEFAULT_PORT, cnf.Server.Port)
	assert.Equal(t, DEFAULT_MAX_RECOVERY_ATTEMPTS, cnf.Recovery.MaxAttempts)
}
