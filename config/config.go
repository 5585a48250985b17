// Package config provides file and environment configuration loading for the
// shopflow server and CLI.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// envPrefix namespaces the environment variables read by Load.
const envPrefix = "SHOPFLOW_"

// ServerConfig configures the HTTP front door.
type ServerConfig struct {
	Addr string `koanf:"addr"`
}

// ModelConfig selects the chat model powering the collaborators.
type ModelConfig struct {
	// Provider is "openai" or "anthropic".
	Provider string `koanf:"provider"`
	// Name overrides the provider's default model id.
	Name string `koanf:"name"`
	// Temperature applies to all completions.
	Temperature float64 `koanf:"temperature"`
}

// QdrantConfig configures the vector store connection.
type QdrantConfig struct {
	Host       string `koanf:"host"`
	Port       int    `koanf:"port"`
	UseTLS     bool   `koanf:"use_tls"`
	APIKey     string `koanf:"api_key"`
	VectorSize uint64 `koanf:"vector_size"`
}

// CollectionsConfig names the product and FAQ collections.
type CollectionsConfig struct {
	Products string `koanf:"products"`
	FAQ      string `koanf:"faq"`
}

// WorkflowConfig tunes the orchestration engine.
type WorkflowConfig struct {
	// MaxAttempts bounds the retrieval+evaluation retry loop per turn.
	MaxAttempts int `koanf:"max_attempts"`
	// MaxConcurrentTurns limits simultaneous turn execution; 0 is unlimited.
	MaxConcurrentTurns int `koanf:"max_concurrent_turns"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	// Level is debug, info, warn or error.
	Level string `koanf:"level"`
	// Format is json or text.
	Format string `koanf:"format"`
}

// Config is the full server configuration.
type Config struct {
	Server      ServerConfig      `koanf:"server"`
	Model       ModelConfig       `koanf:"model"`
	Qdrant      QdrantConfig      `koanf:"qdrant"`
	Collections CollectionsConfig `koanf:"collections"`
	Workflow    WorkflowConfig    `koanf:"workflow"`
	Logging     LoggingConfig     `koanf:"logging"`
}

// Load reads configuration with the following precedence (highest first):
//  1. Environment variables (SHOPFLOW_SERVER_ADDR, SHOPFLOW_QDRANT_HOST, ...)
//  2. The YAML file at configPath, if it exists
//  3. Built-in defaults
//
// Environment variables map to config keys by splitting on the first
// underscore after the prefix: SHOPFLOW_SERVER_ADDR -> server.addr,
// SHOPFLOW_WORKFLOW_MAX_ATTEMPTS -> workflow.max_attempts.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			content, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}
			if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("load config file %s: %w", configPath, err)
			}
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		lower := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		parts := strings.SplitN(lower, "_", 2)
		if len(parts) == 1 {
			return lower
		}
		return parts[0] + "." + parts[1]
	}), nil); err != nil {
		return nil, fmt.Errorf("load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// ApplyDefaults fills unset fields with sensible local-development values.
func (c *Config) ApplyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Model.Provider == "" {
		c.Model.Provider = "openai"
	}
	if c.Model.Temperature == 0 {
		c.Model.Temperature = 0.7
	}
	if c.Qdrant.Host == "" {
		c.Qdrant.Host = "localhost"
	}
	if c.Qdrant.Port == 0 {
		c.Qdrant.Port = 6334
	}
	if c.Qdrant.VectorSize == 0 {
		c.Qdrant.VectorSize = 1536
	}
	if c.Collections.Products == "" {
		c.Collections.Products = "products"
	}
	if c.Collections.FAQ == "" {
		c.Collections.FAQ = "faq"
	}
	if c.Workflow.MaxAttempts == 0 {
		c.Workflow.MaxAttempts = 2
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
}

// Validate rejects configurations the server cannot run with.
func (c *Config) Validate() error {
	switch c.Model.Provider {
	case "openai", "anthropic":
	default:
		return fmt.Errorf("unknown model provider %q (want openai or anthropic)", c.Model.Provider)
	}
	if c.Qdrant.Port <= 0 || c.Qdrant.Port > 65535 {
		return fmt.Errorf("invalid qdrant port: %d", c.Qdrant.Port)
	}
	if c.Workflow.MaxAttempts < 1 {
		return fmt.Errorf("workflow max_attempts must be at least 1")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("unknown log format %q", c.Logging.Format)
	}
	return nil
}
