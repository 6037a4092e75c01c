// Package config has the configuration file for the app
package config

import (
	"fmt"
	"net"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Environment is the deployment environment of the service
type Environment string

const (
	EnvDevelopment Environment = "dev"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "prod"
	EnvTest        Environment = "test"
)

// ParseEnvironment maps an ENV value, including long forms, to an Environment
func ParseEnvironment(value string) (Environment, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "dev", "development":
		return EnvDevelopment, nil
	case "staging":
		return EnvStaging, nil
	case "prod", "production":
		return EnvProduction, nil
	case "test":
		return EnvTest, nil
	}
	return EnvDevelopment, fmt.Errorf("ENV must be one of: [dev staging prod test], got: %s", value)
}

func (e Environment) String() string {
	return string(e)
}

// Knowledge sources understood by the knowledge parser
const (
	SourceEmbedded = "embedded"
	SourceJSON     = "json"
	SourceYAML     = "yaml"
	SourceSQLite   = "sqlite"
	SourceTSV      = "tsv"
)

// Config holds all application configuration
type Config struct {
	Port              string
	Address           string
	Env               Environment
	LogLevel          string
	LogRetentionWeeks int   // Number of weeks to keep log files
	MaxLogFileSize    int64 // Maximum log file size in bytes
	MaxRequestBody    int64 // Maximum request body size in bytes
	MaxHeaderSize     int64 // Maximum header size in bytes

	KnowledgeSource string // embedded, json, yaml, sqlite or tsv
	KnowledgePath   string // file (json, yaml, sqlite) or directory (tsv)
	ReloadSchedule  string // gocron At() spec, e.g. "03:00" or "06:00;18:00"

	MaxDrugsPerAnalysis int
	MaxBatchSize        int
	AnalysisWorkers     int
	AllowedOrigins      []string
}

// Load loads and validates configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:              getEnvWithDefault("PORT", "8000"),
		Address:           getEnvWithDefault("ADDRESS", "127.0.0.1"),
		Env:               Environment(getEnvWithDefault("ENV", string(EnvDevelopment))),
		LogLevel:          getEnvWithDefault("LOG_LEVEL", "info"),
		LogRetentionWeeks: getIntEnvWithDefault("LOG_RETENTION_WEEKS", 4),         // 4 weeks default
		MaxLogFileSize:    getInt64EnvWithDefault("MAX_LOG_FILE_SIZE", 104857600), // 100MB default
		MaxRequestBody:    getInt64EnvWithDefault("MAX_REQUEST_BODY", 1048576),    // 1MB default
		MaxHeaderSize:     getInt64EnvWithDefault("MAX_HEADER_SIZE", 1048576),     // 1MB default

		KnowledgeSource: strings.ToLower(getEnvWithDefault("KNOWLEDGE_SOURCE", SourceEmbedded)),
		KnowledgePath:   getEnvWithDefault("KNOWLEDGE_PATH", ""),
		ReloadSchedule:  getEnvWithDefault("RELOAD_SCHEDULE", "03:00"),

		MaxDrugsPerAnalysis: getIntEnvWithDefault("MAX_DRUGS_PER_ANALYSIS", 20),
		MaxBatchSize:        getIntEnvWithDefault("MAX_BATCH_SIZE", 50),
		AnalysisWorkers:     getIntEnvWithDefault("ANALYSIS_WORKERS", 4),
		AllowedOrigins:      splitList(getEnvWithDefault("ALLOWED_ORIGINS", "*")),
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// validateConfig validates all configuration values
func validateConfig(cfg *Config) error {
	if err := validatePort(cfg.Port); err != nil {
		return fmt.Errorf("invalid PORT: %w", err)
	}

	if err := validateAddress(cfg.Address); err != nil {
		return fmt.Errorf("invalid ADDRESS: %w", err)
	}

	if err := validateEnv(&cfg.Env); err != nil {
		return fmt.Errorf("invalid ENV: %w", err)
	}

	if err := validateLogLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	if err := validateSizeLimit(cfg.MaxRequestBody, "MAX_REQUEST_BODY"); err != nil {
		return fmt.Errorf("invalid MAX_REQUEST_BODY: %w", err)
	}

	if err := validateSizeLimit(cfg.MaxHeaderSize, "MAX_HEADER_SIZE"); err != nil {
		return fmt.Errorf("invalid MAX_HEADER_SIZE: %w", err)
	}

	if err := validateLogRetentionWeeks(cfg.LogRetentionWeeks); err != nil {
		return fmt.Errorf("invalid LOG_RETENTION_WEEKS: %w", err)
	}

	if err := validateMaxLogFileSize(cfg.MaxLogFileSize); err != nil {
		return fmt.Errorf("invalid MAX_LOG_FILE_SIZE: %w", err)
	}

	if err := validateKnowledgeSource(cfg.KnowledgeSource, cfg.KnowledgePath); err != nil {
		return fmt.Errorf("invalid KNOWLEDGE_SOURCE: %w", err)
	}

	if _, err := ParseReloadTimes(cfg.ReloadSchedule); err != nil {
		return fmt.Errorf("invalid RELOAD_SCHEDULE: %w", err)
	}

	if err := validateRange(cfg.MaxDrugsPerAnalysis, 2, 100, "MAX_DRUGS_PER_ANALYSIS"); err != nil {
		return err
	}

	if err := validateRange(cfg.MaxBatchSize, 1, 1000, "MAX_BATCH_SIZE"); err != nil {
		return err
	}

	if err := validateRange(cfg.AnalysisWorkers, 1, 64, "ANALYSIS_WORKERS"); err != nil {
		return err
	}

	return nil
}

// ParseReloadTimes parses a "HH:MM;HH:MM" reload schedule into minutes
// after midnight, sorted
func ParseReloadTimes(schedule string) ([]int, error) {
	if strings.TrimSpace(schedule) == "" {
		return nil, fmt.Errorf("cannot be empty")
	}

	var minutes []int
	for _, part := range strings.Split(schedule, ";") {
		t, err := time.Parse("15:04", strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("%q is not a HH:MM time", part)
		}
		minutes = append(minutes, t.Hour()*60+t.Minute())
	}
	sort.Ints(minutes)
	return minutes, nil
}

// validatePort validates the PORT environment variable
func validatePort(port string) error {
	if port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}

	portNum, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("PORT must be a valid number: %w", err)
	}

	if portNum < 1 || portNum > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}

	// Check for privileged ports
	if portNum < 1024 {
		return fmt.Errorf("PORT %d is privileged (less than 1024), use ports 1024-65535", portNum)
	}

	return nil
}

// validateAddress validates the ADDRESS environment variable
func validateAddress(address string) error {
	if address == "" {
		return fmt.Errorf("ADDRESS cannot be empty")
	}

	if address == "127.0.0.1" || address == "::1" || address == "localhost" {
		return nil
	}

	ip := net.ParseIP(address)
	if ip == nil {
		return fmt.Errorf("ADDRESS must be a valid IP address or 'localhost', got: %s", address)
	}

	// Only loopback, private ranges and the unspecified address (containers) are accepted
	if !ip.IsLoopback() && !ip.IsPrivate() && !ip.IsUnspecified() {
		return fmt.Errorf("ADDRESS %s is a public IP, consider using private network ranges for security", address)
	}

	return nil
}

// validateEnv validates the ENV environment variable and normalizes long forms
func validateEnv(env *Environment) error {
	if *env == "" {
		return fmt.Errorf("ENV cannot be empty")
	}

	parsed, err := ParseEnvironment(string(*env))
	if err != nil {
		return err
	}
	*env = parsed
	return nil
}

// validateLogLevel validates the LOG_LEVEL environment variable
func validateLogLevel(logLevel string) error {
	if logLevel == "" {
		return fmt.Errorf("LOG_LEVEL cannot be empty")
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	logLevel = strings.ToLower(logLevel)

	for _, level := range validLevels {
		if logLevel == level {
			return nil
		}
	}

	return fmt.Errorf("LOG_LEVEL must be one of: %v, got: %s", validLevels, logLevel)
}

// validateSizeLimit validates size limit configuration values
func validateSizeLimit(size int64, configName string) error {
	if size <= 0 {
		return fmt.Errorf("%s must be positive, got: %d", configName, size)
	}

	if size > 100*1024*1024 { // 100MB
		return fmt.Errorf("%s is too large (max 100MB), got: %d bytes", configName, size)
	}

	return nil
}

// validateLogRetentionWeeks validates the LOG_RETENTION_WEEKS environment variable
func validateLogRetentionWeeks(weeks int) error {
	if weeks <= 0 {
		return fmt.Errorf("LOG_RETENTION_WEEKS must be positive, got: %d", weeks)
	}

	if weeks > 52 { // 1 year maximum
		return fmt.Errorf("LOG_RETENTION_WEEKS is too large (max 52 weeks), got: %d", weeks)
	}

	return nil
}

// validateMaxLogFileSize validates the MAX_LOG_FILE_SIZE environment variable
func validateMaxLogFileSize(size int64) error {
	if size <= 0 {
		return fmt.Errorf("MAX_LOG_FILE_SIZE must be positive, got: %d", size)
	}

	// Minimum 1MB, maximum 1GB
	if size < 1024*1024 {
		return fmt.Errorf("MAX_LOG_FILE_SIZE is too small (min 1MB), got: %d bytes", size)
	}

	if size > 1024*1024*1024 {
		return fmt.Errorf("MAX_LOG_FILE_SIZE is too large (max 1GB), got: %d bytes", size)
	}

	return nil
}

// validateKnowledgeSource checks the source name and that file based sources have a path
func validateKnowledgeSource(source, path string) error {
	switch source {
	case SourceEmbedded:
		return nil
	case SourceJSON, SourceYAML, SourceSQLite, SourceTSV:
		if strings.TrimSpace(path) == "" {
			return fmt.Errorf("KNOWLEDGE_PATH is required for source %q", source)
		}
		return nil
	}

	return fmt.Errorf("KNOWLEDGE_SOURCE must be one of: %v, got: %s",
		[]string{SourceEmbedded, SourceJSON, SourceYAML, SourceSQLite, SourceTSV}, source)
}

func validateRange(value, min, max int, configName string) error {
	if value < min || value > max {
		return fmt.Errorf("invalid %s: must be between %d and %d, got: %d", configName, min, max, value)
	}
	return nil
}

// getEnvWithDefault gets an environment variable with a default value
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnvWithDefault gets an environment variable as int with a default value
func getIntEnvWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getInt64EnvWithDefault gets an environment variable as int64 with a default value
func getInt64EnvWithDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// GetEnvVars returns a list of all expected environment variables
func GetEnvVars() []string {
	return []string{
		"PORT",
		"ADDRESS",
		"ENV",
		"LOG_LEVEL",
		"LOG_RETENTION_WEEKS",
		"MAX_LOG_FILE_SIZE",
		"MAX_REQUEST_BODY",
		"MAX_HEADER_SIZE",
		"KNOWLEDGE_SOURCE",
		"KNOWLEDGE_PATH",
		"RELOAD_SCHEDULE",
		"MAX_DRUGS_PER_ANALYSIS",
		"MAX_BATCH_SIZE",
		"ANALYSIS_WORKERS",
		"ALLOWED_ORIGINS",
	}
}
