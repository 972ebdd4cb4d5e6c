// Package server exposes the image pipeline over HTTP: a request without a
// prompt gets the form page, a request with one gets the generated image or
// a plain-text error.
package server

import (
	"bytes"
	"context"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/valpere/malyar/internal/params"
	"github.com/valpere/malyar/internal/pipeline"
)

// ErrorPrefix starts the body of every failure response.
const ErrorPrefix = "Error generating image: "

// Generator is satisfied by *pipeline.Pipeline.
type Generator interface {
	Run(ctx context.Context, req params.GenerationRequest) (*pipeline.Result, error)
}

type Handler struct {
	gen    Generator
	logger *zap.Logger
}

func NewHandler(gen Generator, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{gen: gen, logger: logger}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	req, ok := params.FromQuery(q)
	if !ok {
		h.serveForm(w, r)
		return
	}

	log := h.logger.With(zap.String("request_id", RequestIDFrom(r.Context())))
	log.Info("generating image",
		zap.String("prompt", req.Prompt),
		zap.Stringer("size", req.Size),
		zap.Bool("seeded", req.HasSeed()))

	res, err := h.gen.Run(r.Context(), req)
	if err != nil {
		log.Error("image generation failed", zap.Error(err))
		writeError(w, err)
		return
	}

	log.Info("image generated",
		zap.String("translated_prompt", res.Translation.Text),
		zap.Bool("translation_skipped", res.Translation.Skipped),
		zap.Int("bytes", len(res.Image)))
	writeImage(w, res)
}

func (h *Handler) serveForm(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var buf bytes.Buffer
	err := renderForm(&buf, formData{
		Action:      r.URL.Path,
		Size:        q.Get(params.KeySize),
		Seed:        q.Get(params.KeySeed),
		DefaultSize: params.DefaultSize,
	})
	if err != nil {
		h.logger.Error("failed to render form", zap.Error(err))
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func writeImage(w http.ResponseWriter, res *pipeline.Result) {
	contentType := res.ContentType
	if contentType == "" {
		contentType = "image/png"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(res.Image)))
	w.WriteHeader(http.StatusOK)
	w.Write(res.Image)
}

func writeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusInternalServerError)
	w.Write([]byte(ErrorPrefix + err.Error()))
}
