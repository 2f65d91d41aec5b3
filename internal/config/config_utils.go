package config

import (
	"fmt"
	"log"
	"os"
	"strings"
)

func (c *Config) applyFallbacks() {
	c.applyServerAPIKeyFallbacks()
	c.applyTLSDefaults()
	c.applyObservabilityDefaults()

	if c.Matching.Concurrency <= 0 {
		c.Matching.Concurrency = 1
	}
}

// applyServerAPIKeyFallbacks reads a comma separated key list from the
// environment, since viper does not split env values into slices.
func (c *Config) applyServerAPIKeyFallbacks() {
	if len(c.Server.APIKeys) > 0 {
		return
	}
	if raw := os.Getenv(EnvPrefix + "_SERVER_APIKEYS"); raw != "" {
		c.Server.APIKeys = splitAndTrim(raw)
	}
}

func (c *Config) applyTLSDefaults() {
	if c.Server.TLS.Mode == "" {
		c.Server.TLS.Mode = "disabled"
	}
	if c.Server.TLS.Mode == "mutual" && c.Server.TLS.ClientAuthPolicy == "" {
		c.Server.TLS.ClientAuthPolicy = "require"
	}
	if c.Server.TLS.MinVersion == "" && c.Server.TLS.Mode != "disabled" {
		c.Server.TLS.MinVersion = "1.2"
	}
}

func (c *Config) applyObservabilityDefaults() {
	if c.Observability.ServiceName == "" {
		c.Observability.ServiceName = "careerfit"
	}
	if c.Observability.ServiceInstance == "" {
		c.Observability.ServiceInstance = generateServiceInstanceID(c.Observability.ServiceName)
	}
	if c.App.LogLevel == "debug" && !c.Observability.ConsoleOutput {
		c.Observability.ConsoleOutput = true
	}
}

func generateServiceInstanceID(serviceName string) string {
	if hostname, err := os.Hostname(); err == nil {
		return fmt.Sprintf("%s-%s", serviceName, hostname)
	}
	return fmt.Sprintf("%s-1", serviceName)
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks if the configuration is valid. A missing oracle API key is
// not an error here: grading and matching with stored weights work without it.
func (c *Config) Validate() error {
	if c.AI.Timeout <= 0 {
		return fmt.Errorf("AI timeout must be positive")
	}
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	for name, threshold := range map[string]int{
		"quiz.courseThreshold":      c.Quiz.CourseThreshold,
		"quiz.applicationThreshold": c.Quiz.ApplicationThreshold,
	} {
		if threshold < 0 || threshold > 100 {
			return fmt.Errorf("%s must be between 0 and 100, got %d", name, threshold)
		}
	}

	validFormats := make(map[string]bool, len(c.App.SupportedFormats))
	for _, format := range c.App.SupportedFormats {
		validFormats[format] = true
	}
	if !validFormats[c.App.DefaultFormat] {
		return fmt.Errorf("invalid default format: %s", c.App.DefaultFormat)
	}

	if err := c.ValidateTLSConfig(); err != nil {
		return fmt.Errorf("TLS configuration error: %w", err)
	}
	return nil
}

// logConfigurationSources prints a summary of where settings came from.
// Secrets are masked.
func (c *Config) logConfigurationSources(configFileUsed string) {
	if configFileUsed != "" {
		log.Printf("[CONFIG] Config file: %s", configFileUsed)
	} else {
		log.Println("[CONFIG] Config file: none")
	}

	for _, name := range []string{"AI_APIKEY", "AI_MODEL", "SERVER_PORT", "SERVER_HOST", "APP_LOGLEVEL", "STORE_PATH", "VAULT_ENABLED"} {
		envVar := EnvPrefix + "_" + name
		value := os.Getenv(envVar)
		if value == "" {
			continue
		}
		if strings.Contains(strings.ToLower(envVar), "key") {
			value = "***MASKED***"
		}
		log.Printf("[CONFIG]   %s=%s", envVar, value)
	}

	apiKey := "***NOT SET***"
	if c.AI.APIKey != "" {
		apiKey = "***CONFIGURED***"
	}
	log.Printf("[CONFIG] AI: provider=%s model=%s key=%s", c.AI.Provider, c.AI.Model, apiKey)
	log.Printf("[CONFIG] Matching: concurrency=%d normalizeCase=%t cache=%t",
		c.Matching.Concurrency, c.Matching.NormalizeCase, c.Matching.CacheEnabled)
	log.Printf("[CONFIG] Quiz thresholds: course=%d application=%d", c.Quiz.CourseThreshold, c.Quiz.ApplicationThreshold)
	log.Printf("[CONFIG] Server: %s:%s tls=%s", c.Server.Host, c.Server.Port, c.Server.TLS.Mode)
	log.Printf("[CONFIG] Store: %q Vault: %t Observability: %t", c.Store.Path, c.Vault.Enabled, c.Observability.Enabled)
}
