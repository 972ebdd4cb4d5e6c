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
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/valpere/malyar/internal/capability"
	"github.com/valpere/malyar/internal/config"
	"github.com/valpere/malyar/internal/detector"
	"github.com/valpere/malyar/internal/pipeline"
	"github.com/valpere/malyar/internal/translator"
	"github.com/valpere/malyar/internal/validator"
)

// Model identifier prefixes routed to each backend.
const (
	prefixWorkersAI = "@cf/"
	prefixGoogle    = "google/"
	prefixMyMemory  = "mymemory/"
	prefixOllama    = "ollama/"
)

// buildRunner registers every backend under its model identifier prefix.
func buildRunner(cfg *config.Config) *capability.Mux {
	mux := capability.NewMux()

	mux.Handle(prefixWorkersAI, capability.NewWorkersAI(
		cfg.Cloudflare.AccountID,
		cfg.Cloudflare.APIToken,
		capability.WithBaseURL(cfg.Cloudflare.BaseURL),
	))

	if cfg.OpenAI.APIKey != "" {
		mux.Handle(capability.OpenAIModelPrefix, capability.NewOpenAIImages(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL))
	}

	mux.Handle(prefixGoogle, translator.NewRunner(
		translator.NewGoogleService(cfg.Google.Credentials, cfg.Google.ProjectID),
	))
	mux.Handle(prefixMyMemory, translator.NewRunner(
		translator.NewMyMemoryService(cfg.MyMemory.Email),
	))

	ollamaModel := cfg.Ollama.Model
	if m, ok := strings.CutPrefix(cfg.Models.Translation, prefixOllama); ok && m != "" {
		ollamaModel = m
	}
	mux.Handle(prefixOllama, translator.NewRunner(
		translator.NewOllamaTranslator(cfg.Ollama.BaseURL, ollamaModel),
	))

	return mux
}

// buildPipeline wires the runner, language detection and logging into a
// pipeline, failing fast on model identifiers no backend serves.
func buildPipeline(cfg *config.Config, logger *zap.Logger) (*pipeline.Pipeline, error) {
	mux := buildRunner(cfg)

	if !mux.Has(cfg.Models.Image) {
		return nil, fmt.Errorf("no backend for image model %q", cfg.Models.Image)
	}
	if cfg.Translation.Enabled && !mux.Has(cfg.Models.Translation) {
		return nil, fmt.Errorf("no backend for translation model %q", cfg.Models.Translation)
	}

	models := []string{cfg.Models.Image}
	if cfg.Translation.Enabled {
		models = append(models, cfg.Models.Translation)
	}
	for _, model := range models {
		if strings.HasPrefix(model, prefixWorkersAI) && (cfg.Cloudflare.AccountID == "" || cfg.Cloudflare.APIToken == "") {
			return nil, fmt.Errorf("model %q needs cloudflare.account_id and cloudflare.api_token", model)
		}
	}

	opts := []pipeline.Option{pipeline.WithLogger(logger)}
	if cfg.Translation.Enabled {
		det := detector.New(detector.WithMinimumRelativeDistance(0.1))
		opts = append(opts, pipeline.WithValidator(validator.New(det)))
		if cfg.Translation.SourceLang == pipeline.AutoLang {
			opts = append(opts, pipeline.WithDetector(det))
		}
	}

	return pipeline.New(mux, cfg.PipelineConfig(), opts...), nil
}
