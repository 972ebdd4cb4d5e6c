package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valpere/malyar/internal/pipeline"
)

func newViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	BindEnv(v)
	return v
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(newViper())
	require.NoError(t, err)

	assert.Equal(t, ":8787", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadHeaderTimeout)
	assert.Equal(t, pipeline.DefaultTranslationModel, cfg.Models.Translation)
	assert.Equal(t, pipeline.DefaultImageModel, cfg.Models.Image)
	assert.True(t, cfg.Translation.Enabled)
	assert.Equal(t, "auto", cfg.Translation.SourceLang)
	assert.Equal(t, "en", cfg.Translation.TargetLang)
	assert.Zero(t, cfg.Pipeline.CallTimeout)
	assert.Equal(t, "https://api.cloudflare.com/client/v4", cfg.Cloudflare.BaseURL)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("MALYAR_SERVER_ADDR", ":9000")
	t.Setenv("MALYAR_CLOUDFLARE_ACCOUNT_ID", "acc")
	t.Setenv("MALYAR_PIPELINE_CALL_TIMEOUT", "45s")
	t.Setenv("MALYAR_TRANSLATION_ENABLED", "false")

	cfg, err := Load(newViper())
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "acc", cfg.Cloudflare.AccountID)
	assert.Equal(t, 45*time.Second, cfg.Pipeline.CallTimeout)
	assert.False(t, cfg.Translation.Enabled)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "malyar.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
models:
  translation: google/translate
  image: openai/dall-e-3
translation:
  source_lang: zh
log:
  development: true
`), 0o644))

	v := newViper()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "google/translate", cfg.Models.Translation)
	assert.Equal(t, "openai/dall-e-3", cfg.Models.Image)
	assert.Equal(t, "zh", cfg.Translation.SourceLang)
	assert.True(t, cfg.Log.Development)
	assert.Equal(t, ":8787", cfg.Server.Addr, "unset keys keep defaults")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg, err := Load(newViper())
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty image model", func(c *Config) { c.Models.Image = " " }},
		{"empty translation model", func(c *Config) { c.Models.Translation = "" }},
		{"empty target lang", func(c *Config) { c.Translation.TargetLang = "" }},
		{"zero read header timeout", func(c *Config) { c.Server.ReadHeaderTimeout = 0 }},
		{"negative call timeout", func(c *Config) { c.Pipeline.CallTimeout = -time.Second }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	t.Run("translation model optional when disabled", func(t *testing.T) {
		cfg := valid()
		cfg.Translation.Enabled = false
		cfg.Models.Translation = ""
		assert.NoError(t, cfg.Validate())
	})
}

func TestPipelineConfig(t *testing.T) {
	cfg, err := Load(newViper())
	require.NoError(t, err)
	cfg.Pipeline.CallTimeout = time.Minute

	pc := cfg.PipelineConfig()
	assert.Equal(t, cfg.Models.Translation, pc.TranslationModel)
	assert.Equal(t, cfg.Models.Image, pc.ImageModel)
	assert.True(t, pc.TranslationEnabled)
	assert.Equal(t, "auto", pc.SourceLang)
	assert.Equal(t, "en", pc.TargetLang)
	assert.Equal(t, time.Minute, pc.CallTimeout)
}
