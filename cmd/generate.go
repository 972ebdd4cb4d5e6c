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
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/valpere/malyar/internal/params"
)

var (
	genPrompt string
	genSize   string
	genSeed   string
	genOutput string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate one image from a prompt and write it to a file",
	Long: `Run the translation and image stages once, exactly as the HTTP endpoint does.

  malyar generate --prompt "一只猫" --size 512x512 --seed 42 -o cat.png

A malformed --size falls back to 1024x1024 and a malformed --seed is ignored.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if genPrompt == "" {
			return fmt.Errorf("prompt cannot be empty")
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

		req := params.Resolve(genPrompt, genSize, genSeed)
		res, err := p.Run(cmd.Context(), req)
		if err != nil {
			return fmt.Errorf("failed to generate image: %w", err)
		}

		if err := os.MkdirAll(filepath.Dir(genOutput), 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		if err := os.WriteFile(genOutput, res.Image, 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}

		if res.Translation.Skipped {
			fmt.Fprintf(os.Stderr, "Prompt used as is\n")
		} else {
			fmt.Fprintf(os.Stderr, "Translated prompt: %s\n", res.Translation.Text)
		}
		fmt.Printf("Wrote %s (%s, %d bytes, %s)\n", genOutput, res.ContentType, len(res.Image), res.Size)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&genPrompt, "prompt", "p", "", "Image description in any language (required)")
	generateCmd.Flags().StringVar(&genSize, "size", params.DefaultSize, "Image size as WIDTHxHEIGHT")
	generateCmd.Flags().StringVar(&genSeed, "seed", "", "Integer seed (random if empty)")
	generateCmd.Flags().StringVarP(&genOutput, "output", "o", "", "Output image file (required)")

	generateCmd.MarkFlagRequired("prompt")
	generateCmd.MarkFlagRequired("output")
}
