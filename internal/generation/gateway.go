// Package generation is the single entry point for text, URL and image
// completions. It fixes prompt framing and sampling policy so callers only
// supply the user's payload.
package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/panyaai/panya/internal/observe"
	"github.com/panyaai/panya/internal/prune"
)

// Mode names a gateway entry point.
type Mode string

const (
	ModeText  Mode = "text"
	ModeURL   Mode = "url"
	ModeImage Mode = "multimodal-image"
)

// Request is what a backend receives. Prompt is fully framed.
type Request struct {
	Mode   Mode
	Prompt string
	// ImageBase64 is set for ModeImage; the image is JPEG.
	ImageBase64 string
}

// Model is a completion backend.
type Model interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Extractor reads the main content of a web page.
type Extractor interface {
	Extract(ctx context.Context, pageURL string) (string, error)
}

// Sampling is the fixed per-request policy applied by every backend.
type Sampling struct {
	Temperature     float32
	TopP            float32
	TopK            float32
	MaxOutputTokens int32
}

// DefaultSampling mirrors the production policy.
func DefaultSampling() Sampling {
	return Sampling{Temperature: 0.3, TopP: 0.5, TopK: 60, MaxOutputTokens: 1500}
}

type Options struct {
	// SummaryThreshold is the rune count at which text is summarised instead
	// of answered conversationally.
	SummaryThreshold int
	// PageBudget clips extracted page content before it is framed.
	PageBudget prune.Budget
	Now        func() time.Time
}

// Gateway implements the three generation entry points.
type Gateway struct {
	model     Model
	extractor Extractor
	opts      Options
	metrics   *observe.Metrics
	logger    *slog.Logger
}

func NewGateway(log *slog.Logger, model Model, extractor Extractor, opts Options, metrics *observe.Metrics) *Gateway {
	if log == nil {
		log = slog.Default()
	}
	if opts.SummaryThreshold <= 0 {
		opts.SummaryThreshold = 1000
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.PageBudget.MaxBytes <= 0 || opts.PageBudget.MaxLines <= 0 {
		opts.PageBudget = prune.DefaultBudget()
	}
	if metrics == nil {
		metrics = observe.Noop()
	}
	return &Gateway{
		model:     model,
		extractor: extractor,
		opts:      opts,
		metrics:   metrics,
		logger:    log.With(slog.String("service", "generation")),
	}
}

// TextOnly answers a plain text message.
func (g *Gateway) TextOnly(ctx context.Context, text string) (string, error) {
	prompt := ConversationPrompt(text, g.opts.Now())
	if utf8.RuneCountInString(text) >= g.opts.SummaryThreshold {
		prompt = SummaryPrompt(text)
	}
	return g.generate(ctx, Request{Mode: ModeText, Prompt: prompt})
}

// URLToText extracts the page behind pageURL and summarises it.
func (g *Gateway) URLToText(ctx context.Context, pageURL string) (string, error) {
	if g.extractor == nil {
		return "", fmt.Errorf("%w: extractor not configured", ErrContentExtraction)
	}
	content, err := g.extractor.Extract(ctx, pageURL)
	if err != nil {
		g.metrics.RecordFailure(ctx, "extraction")
		if errors.Is(err, ErrContentExtraction) {
			return "", err
		}
		return "", fmt.Errorf("%w: %w", ErrContentExtraction, err)
	}
	if strings.TrimSpace(content) == "" {
		content = EmptyExtractionText
	} else if prune.Exceeds(content, g.opts.PageBudget.MaxBytes, g.opts.PageBudget.MaxLines) {
		g.logger.Debug("clip page content", slog.Int("bytes", len(content)))
		content = prune.Clip(content, g.opts.PageBudget)
	}
	return g.generate(ctx, Request{Mode: ModeURL, Prompt: URLPrompt(content)})
}

// ImageToText describes a pre-downscaled JPEG given as base64.
func (g *Gateway) ImageToText(ctx context.Context, base64Image string) (string, error) {
	if base64Image == "" {
		return "", fmt.Errorf("%w: empty image", ErrGeneration)
	}
	return g.generate(ctx, Request{Mode: ModeImage, Prompt: ImagePrompt, ImageBase64: base64Image})
}

func (g *Gateway) generate(ctx context.Context, req Request) (string, error) {
	if g.model == nil {
		return "", fmt.Errorf("%w: model not configured", ErrGeneration)
	}
	started := time.Now()
	text, err := g.model.Generate(ctx, req)
	if err == nil && strings.TrimSpace(text) == "" {
		err = errors.New("empty response")
	}
	g.metrics.RecordGeneration(ctx, string(req.Mode), started, err)
	if err != nil {
		g.logger.Error("generation failed", slog.String("mode", string(req.Mode)), slog.Any("error", err))
		return "", fmt.Errorf("%w: %w", ErrGeneration, err)
	}
	g.logger.Debug("generation done",
		slog.String("mode", string(req.Mode)),
		slog.Duration("elapsed", time.Since(started)),
	)
	return text, nil
}
