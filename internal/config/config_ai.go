package config

import "fmt"

// Operation names an oracle-backed operation.
type Operation string

const (
	OperationWeights Operation = "weights"
	OperationCourses Operation = "courses"
	OperationPath    Operation = "path"
)

// Operations lists every oracle-backed operation.
var Operations = []Operation{OperationWeights, OperationCourses, OperationPath}

// applyOperationDefaults fills unset operation fields from the global AI config
func (c *Config) applyOperationDefaults(opCfg *OperationAIConfig) {
	if opCfg.Provider == "" {
		opCfg.Provider = c.AI.Provider
	}
	if opCfg.Model == "" {
		opCfg.Model = c.AI.Model
	}
	if opCfg.Timeout == nil {
		timeout := c.AI.Timeout
		opCfg.Timeout = &timeout
	}
	if opCfg.APIKey == "" {
		opCfg.APIKey = c.AI.APIKey
	}
	if opCfg.MaxRetries == nil {
		retries := c.AI.MaxRetries
		opCfg.MaxRetries = &retries
	}
	if opCfg.Temperature == nil {
		temperature := c.AI.Temperature
		opCfg.Temperature = &temperature
	}
	if opCfg.UseSystemPrompts == nil {
		useSystem := c.AI.UseSystemPrompts
		opCfg.UseSystemPrompts = &useSystem
	}
}

// GetOperationConfig returns the resolved oracle configuration of op
func (c *Config) GetOperationConfig(op Operation) (OperationAIConfig, error) {
	var cfg OperationAIConfig
	switch op {
	case OperationWeights:
		return c.GetWeightsConfig(), nil
	case OperationCourses:
		cfg = c.AI.Courses
	case OperationPath:
		cfg = c.AI.Path
	default:
		return cfg, fmt.Errorf("unknown operation: %s", op)
	}
	c.applyOperationDefaults(&cfg)
	return cfg, nil
}

// GetWeightsConfig returns the weight assignment config. Retries are forced
// to zero: a failed attempt falls back to equal weights instead.
func (c *Config) GetWeightsConfig() OperationAIConfig {
	cfg := c.AI.Weights
	c.applyOperationDefaults(&cfg)
	zero := 0
	cfg.MaxRetries = &zero
	return cfg
}

// GetCoursesConfig returns the course recommendation config
func (c *Config) GetCoursesConfig() OperationAIConfig {
	cfg, _ := c.GetOperationConfig(OperationCourses)
	return cfg
}

// GetPathConfig returns the learning path config
func (c *Config) GetPathConfig() OperationAIConfig {
	cfg, _ := c.GetOperationConfig(OperationPath)
	return cfg
}

// Prompts returns the store of prompts loaded from files. It is never nil.
func (c *Config) Prompts() *PromptStore {
	if c.prompts == nil {
		c.prompts = NewPromptStore()
	}
	return c.prompts
}
