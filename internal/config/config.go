// Package config holds the settings of the malyar service and CLI, read
// through viper from a config file, MALYAR_* environment variables and flags.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/valpere/malyar/internal/capability"
	"github.com/valpere/malyar/internal/pipeline"
	"github.com/valpere/malyar/internal/translator"
)

const EnvPrefix = "MALYAR"

type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Models      ModelsConfig      `mapstructure:"models"`
	Translation TranslationConfig `mapstructure:"translation"`
	Pipeline    PipelineConfig    `mapstructure:"pipeline"`
	Cloudflare  CloudflareConfig  `mapstructure:"cloudflare"`
	Google      GoogleConfig      `mapstructure:"google"`
	MyMemory    MyMemoryConfig    `mapstructure:"mymemory"`
	Ollama      OllamaConfig      `mapstructure:"ollama"`
	OpenAI      OpenAIConfig      `mapstructure:"openai"`
	Log         LogConfig         `mapstructure:"log"`
}

type ServerConfig struct {
	Addr              string        `mapstructure:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
}

type ModelsConfig struct {
	Translation string `mapstructure:"translation"`
	Image       string `mapstructure:"image"`
}

type TranslationConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	SourceLang string `mapstructure:"source_lang"`
	TargetLang string `mapstructure:"target_lang"`
}

type PipelineConfig struct {
	CallTimeout time.Duration `mapstructure:"call_timeout"`
}

type CloudflareConfig struct {
	AccountID string `mapstructure:"account_id"`
	APIToken  string `mapstructure:"api_token"`
	BaseURL   string `mapstructure:"base_url"`
}

type GoogleConfig struct {
	Credentials string `mapstructure:"credentials"`
	ProjectID   string `mapstructure:"project_id"`
}

type MyMemoryConfig struct {
	Email string `mapstructure:"email"`
}

type OllamaConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	File        string `mapstructure:"file"`
	Development bool   `mapstructure:"development"`
}

// SetDefaults registers every key with its default so that environment
// variables are picked up by Unmarshal even without a config file.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8787")
	v.SetDefault("server.read_header_timeout", 10*time.Second)
	v.SetDefault("server.shutdown_timeout", 15*time.Second)

	v.SetDefault("models.translation", pipeline.DefaultTranslationModel)
	v.SetDefault("models.image", pipeline.DefaultImageModel)

	v.SetDefault("translation.enabled", true)
	v.SetDefault("translation.source_lang", pipeline.AutoLang)
	v.SetDefault("translation.target_lang", pipeline.DefaultTargetLang)

	v.SetDefault("pipeline.call_timeout", time.Duration(0))

	v.SetDefault("cloudflare.account_id", "")
	v.SetDefault("cloudflare.api_token", "")
	v.SetDefault("cloudflare.base_url", capability.DefaultWorkersAIBaseURL)

	v.SetDefault("google.credentials", "")
	v.SetDefault("google.project_id", "")
	v.SetDefault("mymemory.email", "")
	v.SetDefault("ollama.base_url", translator.DefaultOllamaURL)
	v.SetDefault("ollama.model", translator.DefaultOllamaModel)
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.base_url", "")

	v.SetDefault("log.level", "")
	v.SetDefault("log.file", "")
	v.SetDefault("log.development", false)
}

// BindEnv makes MALYAR_SERVER_ADDR override server.addr, and so on.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Models.Translation) == "" && c.Translation.Enabled {
		return fmt.Errorf("models.translation must be set when translation is enabled")
	}
	if strings.TrimSpace(c.Models.Image) == "" {
		return fmt.Errorf("models.image must be set")
	}
	if c.Translation.TargetLang == "" {
		return fmt.Errorf("translation.target_lang must be set")
	}
	if c.Server.ReadHeaderTimeout <= 0 {
		return fmt.Errorf("server.read_header_timeout must be positive, got %s", c.Server.ReadHeaderTimeout)
	}
	if c.Pipeline.CallTimeout < 0 {
		return fmt.Errorf("pipeline.call_timeout must not be negative, got %s", c.Pipeline.CallTimeout)
	}
	return nil
}

// PipelineConfig maps the settings onto the pipeline.
func (c *Config) PipelineConfig() pipeline.Config {
	return pipeline.Config{
		TranslationModel:   c.Models.Translation,
		ImageModel:         c.Models.Image,
		TranslationEnabled: c.Translation.Enabled,
		SourceLang:         c.Translation.SourceLang,
		TargetLang:         c.Translation.TargetLang,
		CallTimeout:        c.Pipeline.CallTimeout,
	}
}
