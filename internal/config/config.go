package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/swarmchat/swarmchat/internal/domain"
)

// Config holds all application configuration
type Config struct {
	Limits  LimitsConfig  `mapstructure:"limits"`
	LLM     LLMConfig     `mapstructure:"llm"`
	Bridge  BridgeConfig  `mapstructure:"bridge"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// LimitsConfig bounds session and message state.
type LimitsConfig struct {
	MaxSessions           int `mapstructure:"max_sessions"`
	MaxMessagesPerSession int `mapstructure:"max_messages_per_session"`
	MaxTitleLength        int `mapstructure:"max_title_length"`
	MaxContentLength      int `mapstructure:"max_content_length"`
	MaxSystemPromptLength int `mapstructure:"max_system_prompt_length"`
}

// Limits converts the configured bounds into the domain representation,
// falling back to defaults for non-positive values.
func (c LimitsConfig) Limits() domain.Limits {
	l := domain.DefaultLimits()
	if c.MaxSessions > 0 {
		l.MaxSessions = c.MaxSessions
	}
	if c.MaxMessagesPerSession > 0 {
		l.MaxMessagesPerSession = c.MaxMessagesPerSession
	}
	if c.MaxTitleLength > 0 {
		l.MaxTitleLength = c.MaxTitleLength
	}
	if c.MaxContentLength > 0 {
		l.MaxContentLength = c.MaxContentLength
	}
	if c.MaxSystemPromptLength > 0 {
		l.MaxSystemPromptLength = c.MaxSystemPromptLength
	}
	return l
}

type LLMConfig struct {
	DefaultProvider string       `mapstructure:"default_provider"`
	SystemPrompt    string       `mapstructure:"system_prompt"`
	UseSwarmMode    bool         `mapstructure:"use_swarm_mode"`
	Local           LocalConfig  `mapstructure:"local"`
	Hosted          HostedConfig `mapstructure:"hosted"`
}

type LocalConfig struct {
	Host         string `mapstructure:"host"`
	DefaultModel string `mapstructure:"default_model"`
}

type HostedConfig struct {
	Endpoint     string `mapstructure:"endpoint"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
}

type BridgeConfig struct {
	AutoApprove    bool          `mapstructure:"auto_approve"`
	CommandTimeout time.Duration `mapstructure:"command_timeout"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// Load reads configuration from file and environment variables
func Load() (*Config, error) {
	v := viper.New()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs/config.yaml"
	}

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
		// Config file not found, use defaults and env vars
	}

	v.AutomaticEnv()
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Limits
	v.SetDefault("limits.max_sessions", 50)
	v.SetDefault("limits.max_messages_per_session", 200)
	v.SetDefault("limits.max_title_length", 80)
	v.SetDefault("limits.max_content_length", 16384)
	v.SetDefault("limits.max_system_prompt_length", 4096)

	// LLM
	v.SetDefault("llm.default_provider", "local")
	v.SetDefault("llm.use_swarm_mode", false)
	v.SetDefault("llm.local.host", "http://localhost:11434")
	v.SetDefault("llm.local.default_model", "llama3")
	v.SetDefault("llm.hosted.endpoint", "https://api.openai.com")
	v.SetDefault("llm.hosted.default_model", "gpt-4o-mini")

	// Bridge
	v.SetDefault("bridge.auto_approve", false)
	v.SetDefault("bridge.command_timeout", "60s")

	// Logging
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

func bindEnvVars(v *viper.Viper) {
	v.BindEnv("llm.default_provider", "SWARMCHAT_PROVIDER")
	v.BindEnv("llm.local.host", "OLLAMA_HOST")
	v.BindEnv("llm.hosted.endpoint", "SWARMCHAT_ENDPOINT")
	v.BindEnv("llm.hosted.api_key", "SWARMCHAT_API_KEY")
	v.BindEnv("bridge.auto_approve", "SWARMCHAT_AUTO_APPROVE")
	v.BindEnv("logging.level", "SWARMCHAT_LOG_LEVEL")
	v.BindEnv("logging.file", "SWARMCHAT_LOG_FILE")
}
