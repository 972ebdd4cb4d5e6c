/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

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
package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/valpere/malyar/internal/config"
	"github.com/valpere/malyar/internal/logging"
)

var version = "0.1.0"

var (
	cfgFile string

	// v is shared by all commands; flags are bound to its keys in init().
	v = viper.New()
)

var rootCmd = &cobra.Command{
	Use:   "malyar",
	Short: "Prompt-to-image service with automatic prompt translation",
	Long: `malyar turns a free-text prompt in any language into an image.

The prompt is first translated into English by a translation model, then
passed to a text-to-image model. Both models are reached by identifier:

  @cf/...        Cloudflare Workers AI (default)
  openai/...     OpenAI images API
  google/...     Google Cloud Translation
  mymemory/...   MyMemory translation
  ollama/...     local Ollama LLM translation

Use "malyar serve" to run the HTTP endpoint or "malyar generate" for a single image.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	config.SetDefaults(v)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ./malyar.yaml or $HOME/.config/malyar/malyar.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-file", "", "Also write JSON logs to this file, rotated by size")
	rootCmd.PersistentFlags().Bool("dev", false, "Human-readable debug logging")
	rootCmd.PersistentFlags().String("translation-model", "", "Translation model identifier")
	rootCmd.PersistentFlags().String("image-model", "", "Image model identifier")
	rootCmd.PersistentFlags().Duration("call-timeout", 0, "Timeout for each model call (0 = none)")

	bindFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	bindFlag("log.file", rootCmd.PersistentFlags().Lookup("log-file"))
	bindFlag("log.development", rootCmd.PersistentFlags().Lookup("dev"))
	bindFlag("models.translation", rootCmd.PersistentFlags().Lookup("translation-model"))
	bindFlag("models.image", rootCmd.PersistentFlags().Lookup("image-model"))
	bindFlag("pipeline.call_timeout", rootCmd.PersistentFlags().Lookup("call-timeout"))
}

// initConfig loads .env, then the config file, then the environment.
// Flags bound in init() take precedence over all of them.
func initConfig() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	config.BindEnv(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("malyar")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "malyar"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}
	return nil
}

func bindFlag(key string, flag *pflag.Flag) {
	if err := v.BindPFlag(key, flag); err != nil {
		panic(err)
	}
}

// loadRuntime returns the validated config and a logger built from it.
func loadRuntime() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(v)
	if err != nil {
		return nil, nil, err
	}

	logger, err := logging.New(logging.Options{
		Level:       cfg.Log.Level,
		File:        cfg.Log.File,
		Development: cfg.Log.Development,
	})
	if err != nil {
		return nil, nil, err
	}

	if f := v.ConfigFileUsed(); f != "" {
		logger.Debug("config loaded", zap.String("file", f))
	}
	return cfg, logger, nil
}
