package generation

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/go-resty/resty/v2"
	"github.com/go-shiori/go-readability"

	"github.com/panyaai/panya/internal/media"
)

const (
	extractAccept  = "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8"
	extractReferer = "https://www.google.com"
)

// ExtractorConfig controls page fetching.
type ExtractorConfig struct {
	UserAgent string
	Timeout   time.Duration
	MaxBytes  int64
}

// ReadabilityExtractor fetches a page with browser-like headers, isolates the
// article with readability and renders it as markdown.
type ReadabilityExtractor struct {
	http     *resty.Client
	maxBytes int64
	logger   *slog.Logger
}

func NewReadabilityExtractor(log *slog.Logger, cfg ExtractorConfig) *ReadabilityExtractor {
	if log == nil {
		log = slog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 5 << 20
	}
	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", extractAccept).
		SetHeader("Referer", extractReferer)
	if cfg.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.UserAgent)
	}
	return &ReadabilityExtractor{
		http:     client,
		maxBytes: cfg.MaxBytes,
		logger:   log.With(slog.String("service", "extractor")),
	}
}

func (e *ReadabilityExtractor) Extract(ctx context.Context, pageURL string) (string, error) {
	u, err := url.Parse(pageURL)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("%w: invalid url %q", ErrContentExtraction, pageURL)
	}

	resp, err := e.http.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(u.String())
	if err != nil {
		return "", fmt.Errorf("%w: fetch: %v", ErrContentExtraction, err)
	}
	body := resp.RawBody()
	defer body.Close()
	if resp.IsError() {
		return "", fmt.Errorf("%w: fetch: status %d", ErrContentExtraction, resp.StatusCode())
	}
	raw, err := media.ReadAllWithLimit(body, e.maxBytes)
	if err != nil {
		return "", fmt.Errorf("%w: read: %v", ErrContentExtraction, err)
	}

	article, err := readability.FromReader(bytes.NewReader(raw), u)
	if err != nil {
		return "", fmt.Errorf("%w: parse: %v", ErrContentExtraction, err)
	}

	content := strings.TrimSpace(article.TextContent)
	if article.Content != "" {
		md, err := htmltomarkdown.ConvertString(article.Content)
		if err != nil {
			e.logger.Warn("markdown conversion failed, using plain text", slog.Any("error", err))
		} else if strings.TrimSpace(md) != "" {
			content = strings.TrimSpace(md)
		}
	}
	e.logger.Info("extracted page",
		slog.String("host", u.Host),
		slog.String("title", article.Title),
		slog.Int("chars", len(content)),
	)
	return content, nil
}
