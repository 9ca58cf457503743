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
	"encoding/json"
	"errors"
	"log"
	"os"
	"strings"
	"sync/atomic"

	"github.com/kelseyhightower/envconfig"

	"github.com/sirupsen/logrus"
)

const (
	DEFAULT_PORT = "5002"

	// Recovery policy defaults. Config can lower the attempt ceiling but
	// never raise it past the built-in bound.
	DEFAULT_MAX_RECOVERY_ATTEMPTS = 3
	DEFAULT_SESSION_TTL_HOURS     = 24
)

var ConfigStore atomic.Value

type ServerConfig struct {
	Secure    bool   `json:"secure" envconfig:"WAYFIND_SERVER_SECURE"`
	SecretKey string `json:"secret_key" envconfig:"WAYFIND_SERVER_SECRET_KEY"`
	Port      string `json:"port" envconfig:"WAYFIND_SERVER_PORT"`
}

type RedisConfig struct {
	Dns string `json:"dns" envconfig:"WAYFIND_REDIS_DNS"`
}

// GatewayConfig points at the onboarding backend the decision core calls
// through for persistence, remote validation and tier assignment.
type GatewayConfig struct {
	BaseURL   string `json:"base_url" envconfig:"WAYFIND_GATEWAY_BASE_URL"`
	AuthToken string `json:"auth_token" envconfig:"WAYFIND_GATEWAY_AUTH_TOKEN"`
}

// RecoveryConfig tunes the recovery state machine. MaxAttempts may be set
// below the built-in ceiling; values above it are clamped on load.
type RecoveryConfig struct {
	MaxAttempts     int `json:"max_attempts" envconfig:"WAYFIND_RECOVERY_MAX_ATTEMPTS"`
	SessionTTLHours int `json:"session_ttl_hours" envconfig:"WAYFIND_RECOVERY_SESSION_TTL_HOURS"`
}

// RateLimitConfig enables request throttling on the HTTP surface. Nil
// fields leave rate limiting disabled.
type RateLimitConfig struct {
	RequestsPerSecond  *float64 `json:"requests_per_second" envconfig:"WAYFIND_RATE_LIMIT_RPS"`
	Burst              *int     `json:"burst" envconfig:"WAYFIND_RATE_LIMIT_BURST"`
	CleanupIntervalSec *int     `json:"cleanup_interval_sec" envconfig:"WAYFIND_RATE_LIMIT_CLEANUP_INTERVAL_SEC"`
}

type SlackWebhook struct {
	WebhookUrl string `json:"webhook_url"`
}

type Notification struct {
	Slack   SlackWebhook `json:"slack"`
	Webhook struct {
		Url     string            `json:"url"`
		Headers map[string]string `json:"headers"`
	} `json:"webhook"`
}

type Configuration struct {
	ProjectName  string          `json:"project_name" envconfig:"WAYFIND_PROJECT_NAME"`
	Server       ServerConfig    `json:"server"`
	Redis        RedisConfig     `json:"redis"`
	Gateway      GatewayConfig   `json:"gateway"`
	Recovery     RecoveryConfig  `json:"recovery"`
	RateLimit    RateLimitConfig `json:"rate_limit"`
	Notification Notification    `json:"notification"`
}

func loadConfigFromFile(file string) error {
	var cnf Configuration
	_, err := os.Stat(file)
	if err == nil {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		err = json.NewDecoder(f).Decode(&cnf)
		if err != nil {
			return err
		}

	} else if errors.Is(err, os.ErrNotExist) {
		log.Println("config json not passed, will use env variables")
	}

	// override config from environment variables
	err = envconfig.Process("wayfind", &cnf)
	if err != nil {
		return err
	}

	err = cnf.validateAndAddDefaults()
	if err != nil {
		return err
	}

	ConfigStore.Store(&cnf)
	return err
}

func InitConfig(configFile string) error {
	logger()
	return loadConfigFromFile(configFile)
}

func Fetch() (*Configuration, error) {
	config := ConfigStore.Load()
	c, ok := config.(*Configuration)
	if !ok {
		return nil, errors.New("config not loaded from file. Create a json file called wayfind.json with your config")
	}
	return c, nil
}

func (cnf *Configuration) validateAndAddDefaults() error {
	if cnf.ProjectName == "" {
		log.Println("Warning: Project name is empty. Setting a default name.")
		cnf.ProjectName = "Wayfind Server"
	}

	// Trim white spaces from fields
	cnf.ProjectName = strings.TrimSpace(cnf.ProjectName)
	cnf.Server.Port = strings.TrimSpace(cnf.Server.Port)
	cnf.Redis.Dns = strings.TrimSpace(cnf.Redis.Dns)

	// Set default value for Port if it's empty
	if cnf.Server.Port == "" {
		cnf.Server.Port = DEFAULT_PORT
		log.Printf("Warning: Port not specified in config. Setting default port: %s", DEFAULT_PORT)
	}

	if cnf.Recovery.MaxAttempts <= 0 {
		cnf.Recovery.MaxAttempts = DEFAULT_MAX_RECOVERY_ATTEMPTS
	}
	if cnf.Recovery.MaxAttempts > DEFAULT_MAX_RECOVERY_ATTEMPTS {
		log.Printf("Warning: Recovery max attempts %d exceeds the ceiling. Clamping to %d", cnf.Recovery.MaxAttempts, DEFAULT_MAX_RECOVERY_ATTEMPTS)
		cnf.Recovery.MaxAttempts = DEFAULT_MAX_RECOVERY_ATTEMPTS
	}
	if cnf.Recovery.SessionTTLHours <= 0 {
		cnf.Recovery.SessionTTLHours = DEFAULT_SESSION_TTL_HOURS
	}

	if cnf.RateLimit.RequestsPerSecond != nil && cnf.RateLimit.CleanupIntervalSec == nil {
		defaultCleanup := 10800
		cnf.RateLimit.CleanupIntervalSec = &defaultCleanup
	}

	return nil
}

// MockConfig sets a mock configuration for testing purposes.
func MockConfig(mockConfig *Configuration) {
	_ = mockConfig.validateAndAddDefaults()
	ConfigStore.Store(mockConfig)
}

func logger() {
	logger := logrus.New()
	log.SetOutput(logger.Writer())
}
