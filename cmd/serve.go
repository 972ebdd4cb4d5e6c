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
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/valpere/malyar/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the image generation HTTP endpoint",
	Long: `Serve the generator over HTTP on every path.

  GET /                              HTML form
  GET /?prompt=...&size=WxH&seed=N   generated image (image/png)

A malformed size falls back to 1024x1024 and a malformed seed is ignored.
Model failures return status 500 with a plain-text description.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadRuntime()
		if err != nil {
			return err
		}
		defer logger.Sync()

		p, err := buildPipeline(cfg, logger)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		logger.Info("starting server",
			zap.String("version", version),
			zap.String("translation_model", cfg.Models.Translation),
			zap.String("image_model", cfg.Models.Image),
			zap.Bool("translation_enabled", cfg.Translation.Enabled))

		srv := server.New(p, logger, server.Options{
			Addr:              cfg.Server.Addr,
			ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
			ShutdownTimeout:   cfg.Server.ShutdownTimeout,
		})
		return srv.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "Listen address (default :8787)")
	bindFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}

