/*
Copyright 2024-2025 the Unikorn Authors.
Copyright 2026 Nscale.

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

package api

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/unikorn-cloud/sku-verifier/pkg/contract"
	"github.com/unikorn-cloud/sku-verifier/pkg/skuapi"
)

type TestConfig struct {
	BaseURL         string
	RequestTimeout  time.Duration
	TestTimeout     time.Duration
	ListSampleSize  int
	ClockSkew       time.Duration
	ValidateSchema  bool
	SkipIntegration bool
	DebugLogging    bool
	LogRequests     bool
	LogResponses    bool
}

// LoadTestConfig loads configuration from environment variables and .env files.
// Returns an error if required configuration values are missing.
func LoadTestConfig() (*TestConfig, error) {
	loadEnvFile()

	config := &TestConfig{
		BaseURL:         os.Getenv("API_BASE_URL"),
		RequestTimeout:  getDurationWithDefault("REQUEST_TIMEOUT", 30*time.Second),
		TestTimeout:     getDurationWithDefault("TEST_TIMEOUT", 5*time.Minute),
		ListSampleSize:  getIntWithDefault("LIST_SAMPLE_SIZE", 2),
		ClockSkew:       getDurationWithDefault("CLOCK_SKEW_TOLERANCE", 0),
		ValidateSchema:  getBoolWithDefault("VALIDATE_SCHEMA", true),
		SkipIntegration: getBoolWithDefault("SKIP_INTEGRATION", false),
		DebugLogging:    getBoolWithDefault("DEBUG_LOGGING", false),
		LogRequests:     getBoolWithDefault("LOG_REQUESTS", false),
		LogResponses:    getBoolWithDefault("LOG_RESPONSES", false),
	}

	// Validate required fields
	if err := validateRequiredFields(config); err != nil {
		return nil, err
	}

	return config, nil
}

// NewClient returns a SKU API client configured for the test run.
func NewClient(config *TestConfig) (*skuapi.Client, error) {
	options := []skuapi.Option{
		skuapi.WithTimeout(config.RequestTimeout),
		skuapi.WithRequestLogging(config.LogRequests),
		skuapi.WithResponseLogging(config.LogResponses),
	}

	if config.ValidateSchema {
		validator, err := contract.NewValidator(config.BaseURL)
		if err != nil {
			return nil, err
		}

		options = append(options, skuapi.WithResponseValidator(validator))
	}

	return skuapi.NewClient(config.BaseURL, options...), nil
}

// getDurationWithDefault gets a duration from environment variable or returns default.
func getDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}

	return duration
}

// getBoolWithDefault gets a boolean from environment variable or returns default.
func getBoolWithDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return boolValue
}

func getIntWithDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil || intValue < 0 {
		return defaultValue
	}

	return intValue
}

func loadEnvFile() {
	envPaths := []string{
		"../../../test/.env", // From test/api/suites directory
		"../../test/.env",    // From test/api directory
	}

	var envPath string

	for _, path := range envPaths {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				envPath = absPath
				break
			}
		}
	}

	if envPath == "" {
		// .env file not found - this is OK in CI/CD where env vars are set directly
		return
	}

	// Variables already set in the environment win over the file.
	if err := godotenv.Load(envPath); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env file from %s: %v\n", envPath, err)
	}
}

// validateRequiredFields checks that all required configuration values are set.
func validateRequiredFields(config *TestConfig) error {
	var missing []string

	required := map[string]string{
		"API_BASE_URL": config.BaseURL,
	}

	for envVar, value := range required {
		if value == "" {
			missing = append(missing, envVar)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s. Please set these environment variables or add them to a .env file, or the gh secrets", strings.Join(missing, ", "))
	}

	options := skuapi.ClientOptions{
		BaseURL: config.BaseURL,
	}

	return options.Validate()
}
