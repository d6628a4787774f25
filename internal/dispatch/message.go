package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/panyaai/panya/internal/cache"
	"github.com/panyaai/panya/internal/line"
	"github.com/panyaai/panya/internal/media"
	"github.com/panyaai/panya/internal/weather"
)

func (d *Dispatcher) handleMessage(ctx context.Context, log *slog.Logger, r *replier, ev *line.MessageEvent) error {
	if text, ok := ev.Content.(line.Text); ok {
		if handled, err := d.command(ctx, r, strings.TrimSpace(text.Text)); handled {
			return err
		}
	}

	if unsupported, ok := ev.Content.(line.Unsupported); ok {
		log.Debug("ignore message", slog.String("message_type", unsupported.Type))
		return nil
	}

	if err := checkContentRef(ev); err != nil {
		d.deps.Metrics.RecordFailure(ctx, "message")
		log.Warn("reject message", slog.Any("error", err))
		text := AudioFailureText
		if _, ok := ev.Content.(line.Image); ok {
			text = ImageFailureText
		}
		r.fail(ctx, text, ev.QuoteToken, line.DefaultQuickReply())
		return nil
	}

	if err := d.deps.Delivery.ShowLoading(ctx, ev.Source.UserID); err != nil {
		log.Warn("loading indicator failed", slog.Any("error", err))
	}
	if ev.MentionsSelf() && ev.Source.UserID != "" {
		r.prepend(line.DefaultQuickReply(), line.MentionAck(ev.Source.UserID, ev.QuoteToken))
	}

	var (
		answer      string
		err         error
		failureText string
	)
	switch c := ev.Content.(type) {
	case line.Text:
		answer, err = d.answerText(ctx, c.Text)
		failureText = TextFailureText
	case line.Image:
		answer, err = d.answerImage(ctx, ev.MessageID)
		failureText = ImageFailureText
		if errors.Is(err, errNoImage) {
			failureText = ImageMissingText
		}
	case line.Audio:
		answer, err = d.answerAudio(ctx, ev)
		failureText = AudioFailureText
	case line.Location:
		answer, err = d.answerLocation(ctx, c)
		failureText = LocationFailureText
		if errors.Is(err, weather.ErrLookup) {
			failureText = AirQualityErrorText
		}
	default:
		return fmt.Errorf("unhandled message content %T", ev.Content)
	}

	quick := line.DefaultQuickReply()
	if err != nil {
		d.deps.Metrics.RecordFailure(ctx, "message")
		log.Error("message pipeline failed", slog.Any("error", err))
		r.fail(ctx, failureText, ev.QuoteToken, quick)
		return nil
	}
	return r.send(ctx, quick, line.TextMessage(line.Truncate(answer), ev.QuoteToken))
}

// checkContentRef rejects media messages that cannot be fetched, before any
// network call is made for them.
func checkContentRef(ev *line.MessageEvent) error {
	switch ev.Content.(type) {
	case line.Image, line.Audio:
		if strings.TrimSpace(ev.MessageID) == "" {
			return fmt.Errorf("%w: media message has no id", ErrInvalidInput)
		}
	}
	return nil
}

// command answers the fixed keywords. It reports whether text was a command.
func (d *Dispatcher) command(ctx context.Context, r *replier, text string) (bool, error) {
	switch text {
	case CommandSystemStatus:
		snap, err := d.deps.Status.Snapshot(ctx)
		if err != nil {
			return true, fmt.Errorf("system status: %w", err)
		}
		return true, r.send(ctx, nil, line.SystemStatusCard(snap.Rows()))
	case CommandManual:
		return true, r.send(ctx, nil, line.ManualCard())
	default:
		return false, nil
	}
}

func (d *Dispatcher) answerText(ctx context.Context, text string) (string, error) {
	prompt := strings.TrimSpace(text)
	key := cache.TextKey(prompt)
	if v, ok := d.cached(ctx, cache.KindText, key); ok {
		return v, nil
	}

	answer, err := d.run(ctx, func(ctx context.Context) (string, error) {
		if isURL(prompt) {
			return d.deps.Generator.URLToText(ctx, prompt)
		}
		return d.deps.Generator.TextOnly(ctx, prompt)
	})
	if err != nil {
		return "", err
	}
	d.deps.Cache.Set(key, answer, d.opts.CacheTTL)
	return answer, nil
}

func (d *Dispatcher) answerImage(ctx context.Context, messageID string) (string, error) {
	raw, err := d.deps.Delivery.Content(ctx, messageID)
	if err != nil {
		return "", err
	}
	if len(raw) == 0 {
		return "", errNoImage
	}
	img, err := media.Downscale(raw, d.opts.Image)
	if err != nil {
		return "", err
	}

	key := cache.ImageKey(img.Fingerprint())
	if v, ok := d.cached(ctx, cache.KindImage, key); ok {
		return v, nil
	}
	answer, err := d.run(ctx, func(ctx context.Context) (string, error) {
		return d.deps.Generator.ImageToText(ctx, img.Base64())
	})
	if err != nil {
		return "", err
	}
	d.deps.Cache.Set(key, answer, d.opts.CacheTTL)
	return answer, nil
}

// answerAudio transcribes a voice message and answers the transcript.
// Answers are not cached: each recording is assumed unique.
func (d *Dispatcher) answerAudio(ctx context.Context, ev *line.MessageEvent) (string, error) {
	messageID := strings.TrimSpace(ev.MessageID)
	if messageID == "" {
		return "", fmt.Errorf("%w: audio message has no id", ErrInvalidInput)
	}
	raw, err := d.deps.Delivery.Content(ctx, messageID)
	if err != nil {
		return "", err
	}

	stamp := ev.Timestamp
	if stamp <= 0 {
		stamp = d.now().UnixMilli()
	}
	jobID := fmt.Sprintf("%d-%s", stamp, uuid.NewString()[:8])
	wavPath, err := d.deps.Transcoder.Transcode(ctx, jobID, raw)
	if err != nil {
		return "", err
	}
	defer func() { _ = os.Remove(wavPath) }()

	transcript, err := d.deps.Transcriber.Transcribe(ctx, wavPath)
	if err != nil {
		return "", err
	}
	return d.run(ctx, func(ctx context.Context) (string, error) {
		return d.deps.Generator.TextOnly(ctx, transcript)
	})
}

func (d *Dispatcher) answerLocation(ctx context.Context, loc line.Location) (string, error) {
	cond, err := d.deps.AirQuality.Nearest(ctx, loc.Latitude, loc.Longitude)
	if err != nil {
		return "", err
	}
	return weather.Report(weather.Place{
		Address:   loc.Address,
		Latitude:  loc.Latitude,
		Longitude: loc.Longitude,
	}, cond), nil
}
