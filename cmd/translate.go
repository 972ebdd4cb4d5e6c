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
	"os"

	"github.com/spf13/cobra"
)

var (
	trText   string
	trSource string
	trTarget string
)

var translateCmd = &cobra.Command{
	Use:   "translate",
	Short: "Translate a prompt with the configured translation model",
	Long: `Run only the translation stage and print the prompt the image model would get.

Useful to check a translation backend:

  malyar translate --text "кіт на даху"
  malyar translate --text "un chat" --source fr --translation-model mymemory/translate`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if trText == "" {
			return fmt.Errorf("text cannot be empty")
		}

		// Translating is the whole point here, whatever the config says.
		v.Set("translation.enabled", true)
		if trSource != "" {
			v.Set("translation.source_lang", trSource)
		}
		if trTarget != "" {
			v.Set("translation.target_lang", trTarget)
		}

		cfg, logger, err := loadRuntime()
		if err != nil {
			return err
		}
		defer logger.Sync()

		p, err := buildPipeline(cfg, logger)
		if err != nil {
			return err
		}

		res, err := p.Translate(cmd.Context(), trText)
		if err != nil {
			return fmt.Errorf("failed to translate: %w", err)
		}

		if res.Skipped {
			fmt.Fprintf(os.Stderr, "Source is already %s, not translated\n", cfg.Translation.TargetLang)
		} else if res.SourceLang != "" {
			fmt.Fprintf(os.Stderr, "Source language: %s\n", res.SourceLang)
		}
		fmt.Println(res.Text)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().StringVarP(&trText, "text", "t", "", "Text to translate (required)")
	translateCmd.Flags().StringVarP(&trSource, "source", "s", "", "Source language code, or auto")
	translateCmd.Flags().StringVar(&trTarget, "target", "", "Target language code")

	translateCmd.MarkFlagRequired("text")
}
