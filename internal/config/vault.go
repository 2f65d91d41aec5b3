package config

import (
	"fmt"
	"os"
	"strings"

	"careerfit/internal/errors"

	"github.com/hashicorp/vault/api"
)

// VaultConfig holds Vault connection configuration
type VaultConfig struct {
	Enabled   bool         `mapstructure:"enabled"`
	Address   string       `mapstructure:"address"`
	Token     string       `mapstructure:"token"`
	TokenFile string       `mapstructure:"tokenFile"`
	Namespace string       `mapstructure:"namespace"`
	Secrets   VaultSecrets `mapstructure:"secrets"`
}

// VaultSecrets names the KVv2 paths holding secrets
type VaultSecrets struct {
	// APIKeys holds a comma separated "keys" field used for server auth.
	APIKeys string `mapstructure:"apiKeys"`
	// GeminiKey holds an "api_key" field for the oracle.
	GeminiKey string `mapstructure:"geminiKey"`
}

// secretReader is the part of the Vault logical API used here
type secretReader interface {
	Read(path string) (*api.Secret, error)
}

// VaultClient reads KVv2 secrets
type VaultClient struct {
	reader secretReader
	logger *errors.Logger
}

// NewVaultClient connects to Vault. It returns nil when Vault is disabled.
func NewVaultClient(cfg VaultConfig, logger *errors.Logger) (*VaultClient, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	apiCfg := api.DefaultConfig()
	if cfg.Address != "" {
		apiCfg.Address = cfg.Address
	}
	client, err := api.NewClient(apiCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}
	if cfg.Namespace != "" {
		client.SetNamespace(cfg.Namespace)
	}

	token, err := resolveVaultToken(cfg)
	if err != nil {
		return nil, err
	}
	client.SetToken(token)

	health, err := client.Sys().Health()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to vault: %w", err)
	}
	if logger != nil {
		logger.Info("Connected to Vault", "address", apiCfg.Address, "version", health.Version, "sealed", health.Sealed)
	}

	return &VaultClient{reader: client.Logical(), logger: logger}, nil
}

func resolveVaultToken(cfg VaultConfig) (string, error) {
	token := cfg.Token
	if token == "" && cfg.TokenFile != "" {
		raw, err := os.ReadFile(cfg.TokenFile)
		if err != nil {
			return "", fmt.Errorf("failed to read vault token file: %w", err)
		}
		token = strings.TrimSpace(string(raw))
	}
	if token == "" {
		return "", fmt.Errorf("vault token is required when vault is enabled")
	}
	return token, nil
}

// GetString reads key from the KVv2 secret at path
func (vc *VaultClient) GetString(path, key string) (string, error) {
	secret, err := vc.reader.Read(path)
	if err != nil {
		return "", fmt.Errorf("failed to read secret from %s: %w", path, err)
	}
	if secret == nil || secret.Data == nil {
		return "", fmt.Errorf("secret not found at path: %s", path)
	}

	data, ok := secret.Data["data"].(map[string]any)
	if !ok {
		return "", fmt.Errorf("secret at %s is not in KVv2 format (missing 'data' field)", path)
	}
	value, ok := data[key]
	if !ok {
		return "", fmt.Errorf("key '%s' not found in secret %s", key, path)
	}
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("value for key '%s' is not a string in secret %s", key, path)
	}

	if vc.logger != nil {
		vc.logger.Debug("Secret read from Vault", "path", path, "key", key, "masked_value", maskSecret(s))
	}
	return s, nil
}

func maskSecret(s string) string {
	switch {
	case len(s) > 8:
		return s[:4] + "****" + s[len(s)-4:]
	case s != "":
		return "****"
	}
	return ""
}

// ApplyVaultSecrets loads the oracle key and server API keys from Vault
func ApplyVaultSecrets(cfg *Config, logger *errors.Logger) error {
	if !cfg.Vault.Enabled {
		return nil
	}

	client, err := NewVaultClient(cfg.Vault, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize vault client: %w", err)
	}
	return applySecrets(client, cfg, logger)
}

func applySecrets(client *VaultClient, cfg *Config, logger *errors.Logger) error {
	if path := cfg.Vault.Secrets.APIKeys; path != "" {
		raw, err := client.GetString(path, "keys")
		if err != nil {
			return fmt.Errorf("failed to load API keys from vault: %w", err)
		}
		if keys := splitAndTrim(raw); len(keys) > 0 {
			cfg.Server.APIKeys = keys
			if logger != nil {
				logger.Info("API keys loaded from Vault", "count", len(keys))
			}
		}
	}

	if path := cfg.Vault.Secrets.GeminiKey; path != "" {
		key, err := client.GetString(path, "api_key")
		if err != nil {
			return fmt.Errorf("failed to load Gemini API key from vault: %w", err)
		}
		if key != "" {
			applyGeminiKeyToConfig(cfg, key)
			if logger != nil {
				logger.Info("Gemini API key loaded from Vault")
			}
		}
	}
	return nil
}

// applyGeminiKeyToConfig sets the global key and every operation key that
// was not configured explicitly
func applyGeminiKeyToConfig(cfg *Config, key string) {
	cfg.AI.APIKey = key
	for _, op := range []*OperationAIConfig{&cfg.AI.Weights, &cfg.AI.Courses, &cfg.AI.Path} {
		if op.APIKey == "" {
			op.APIKey = key
		}
	}
}
