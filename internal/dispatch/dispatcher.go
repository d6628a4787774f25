// Package dispatch routes decoded webhook events to the generation, speech,
// weather and status pipelines and sends exactly one reply per event.
package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/panyaai/panya/internal/cache"
	"github.com/panyaai/panya/internal/line"
	"github.com/panyaai/panya/internal/media"
	"github.com/panyaai/panya/internal/observe"
	"github.com/panyaai/panya/internal/queue"
	"github.com/panyaai/panya/internal/sysinfo"
	"github.com/panyaai/panya/internal/weather"
)

// Delivery is the messaging platform.
type Delivery interface {
	Reply(ctx context.Context, replyToken string, messages []line.Message, quick *line.QuickReply) error
	ShowLoading(ctx context.Context, chatID string) error
	Profile(ctx context.Context, userID string) (line.Profile, error)
	Content(ctx context.Context, messageID string) ([]byte, error)
}

type Generator interface {
	TextOnly(ctx context.Context, text string) (string, error)
	URLToText(ctx context.Context, pageURL string) (string, error)
	ImageToText(ctx context.Context, base64Image string) (string, error)
}

type Transcoder interface {
	Transcode(ctx context.Context, jobID string, source []byte) (string, error)
}

type Transcriber interface {
	Transcribe(ctx context.Context, path string) (string, error)
}

type AirQuality interface {
	Nearest(ctx context.Context, lat, lon float64) (weather.Conditions, error)
}

type StatusSource interface {
	Snapshot(ctx context.Context) (sysinfo.Snapshot, error)
}

// Deps are the collaborators a Dispatcher routes to. Cache and Limiter may
// be nil: a nil cache always misses and a nil limiter runs tasks directly.
type Deps struct {
	Delivery    Delivery
	Generator   Generator
	Transcoder  Transcoder
	Transcriber Transcriber
	AirQuality  AirQuality
	Status      StatusSource
	Cache       *cache.Cache
	Limiter     *queue.Limiter
	Metrics     *observe.Metrics
}

type Options struct {
	CacheTTL time.Duration
	Image    media.ImageOptions
	// Now is overridable for tests.
	Now func() time.Time
}

type Dispatcher struct {
	deps   Deps
	opts   Options
	logger *slog.Logger
}

func New(log *slog.Logger, deps Deps, opts Options) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	if deps.Metrics == nil {
		deps.Metrics = observe.Noop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Dispatcher{
		deps:   deps,
		opts:   opts,
		logger: log.With(slog.String("service", "dispatch")),
	}
}

// Dispatch handles every event of one webhook delivery concurrently. Events
// that fail to decode are answered with a failure text when their reply
// token is readable; one event's failure never affects another.
func (d *Dispatcher) Dispatch(ctx context.Context, events []json.RawMessage) {
	var g errgroup.Group
	for i, raw := range events {
		g.Go(func() error {
			ev, err := line.DecodeEvent(raw)
			if err != nil {
				d.rejectMalformed(ctx, i, raw, err)
				return nil
			}
			d.Handle(ctx, ev)
			return nil
		})
	}
	_ = g.Wait()
}

// rejectMalformed answers an event whose payload could not be decoded, if
// enough of it survives to carry a reply token.
func (d *Dispatcher) rejectMalformed(ctx context.Context, index int, raw json.RawMessage, cause error) {
	d.deps.Metrics.RecordFailure(ctx, "decode")
	err := fmt.Errorf("%w: %w", ErrInvalidInput, cause)

	head, herr := line.DecodeHeader(raw)
	if herr != nil || head.ReplyToken == "" {
		d.logger.Warn("skip undecodable event", slog.Int("index", index), slog.Any("error", err))
		return
	}
	log := d.logger.With(
		slog.String("event_type", head.Type),
		slog.String("event_id", head.WebhookEventID),
	)
	log.Warn("reject malformed event", slog.Any("error", err))

	text := GenericFailureText
	switch head.MessageType {
	case "audio":
		text = AudioFailureText
	case "image":
		text = ImageFailureText
	}
	newReplier(d.deps.Delivery, head.ReplyToken, log).fail(ctx, text, "", nil)
}

// Handle processes one event. It never panics and never returns an error:
// failures are logged and, where the reply token is still unspent, answered
// with a generic failure message.
func (d *Dispatcher) Handle(ctx context.Context, ev line.Event) {
	head := ev.Header()
	log := d.logger.With(
		slog.String("event_type", head.Type),
		slog.String("event_id", head.WebhookEventID),
		slog.String("chat_id", head.Source.ChatID()),
	)
	d.deps.Metrics.RecordEvent(ctx, head.Type)
	r := newReplier(d.deps.Delivery, head.ReplyToken, log)

	defer func() {
		if rec := recover(); rec != nil {
			d.deps.Metrics.RecordFailure(ctx, "panic")
			log.Error("event handler panicked", slog.Any("panic", rec))
			r.fail(ctx, GenericFailureText, "", nil)
		}
	}()

	if err := d.route(ctx, log, r, ev); err != nil {
		d.deps.Metrics.RecordFailure(ctx, "event")
		log.Error("event failed", slog.Any("error", err))
		r.fail(ctx, GenericFailureText, "", nil)
	}
}

func (d *Dispatcher) route(ctx context.Context, log *slog.Logger, r *replier, ev line.Event) error {
	switch e := ev.(type) {
	case *line.MessageEvent:
		return d.handleMessage(ctx, log, r, e)
	case *line.FollowEvent:
		return d.handleFollow(ctx, log, r, e)
	case *line.MemberJoinedEvent:
		return d.handleMemberJoined(ctx, log, r, e)
	case *line.UnknownEvent:
		log.Debug("ignore event")
		return nil
	default:
		return fmt.Errorf("unhandled event type %T", ev)
	}
}

// run admits task through the limiter when one is configured.
func (d *Dispatcher) run(ctx context.Context, task queue.Task) (string, error) {
	if d.deps.Limiter == nil {
		return task(ctx)
	}
	return d.deps.Limiter.Do(ctx, task)
}

func (d *Dispatcher) cached(ctx context.Context, kind cache.Kind, key string) (string, bool) {
	v, ok := d.deps.Cache.Get(key)
	d.deps.Metrics.RecordCacheLookup(ctx, string(kind), ok)
	return v, ok
}

func (d *Dispatcher) now() time.Time {
	return d.opts.Now()
}
