package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/panyaai/panya/internal/dispatch"
)

const webhookMaxBodyBytes int64 = 1 << 20 // 1 MiB

// EventDispatcher consumes the events of one webhook delivery.
type EventDispatcher interface {
	Dispatch(ctx context.Context, events []json.RawMessage)
}

// WebhookHandler receives messaging platform webhook deliveries. It
// acknowledges immediately and processes events in the background.
type WebhookHandler struct {
	logger     *slog.Logger
	dispatcher EventDispatcher
	// spawn runs the dispatch; tests replace it to run synchronously.
	spawn func(func())
}

func NewWebhookHandler(log *slog.Logger, dispatcher EventDispatcher) *WebhookHandler {
	if log == nil {
		log = slog.Default()
	}
	return &WebhookHandler{
		logger:     log.With(slog.String("handler", "webhook")),
		dispatcher: dispatcher,
		spawn:      func(fn func()) { go fn() },
	}
}

// NewWebhookServerHandler is the fx constructor taking the concrete dispatcher.
func NewWebhookServerHandler(log *slog.Logger, dispatcher *dispatch.Dispatcher) *WebhookHandler {
	return NewWebhookHandler(log, dispatcher)
}

func (h *WebhookHandler) Register(e *echo.Echo) {
	e.POST("/webhook", h.Handle)
}

type webhookPayload struct {
	Destination string          `json:"destination"`
	Events      json.RawMessage `json:"events"`
}

// Handle validates the envelope and schedules dispatch on a context that
// outlives the request.
func (h *WebhookHandler) Handle(c echo.Context) error {
	payload, err := io.ReadAll(io.LimitReader(c.Request().Body, webhookMaxBodyBytes+1))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("read body: %v", err))
	}
	if int64(len(payload)) > webhookMaxBodyBytes {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, fmt.Sprintf("payload too large: max %d bytes", webhookMaxBodyBytes))
	}

	var body webhookPayload
	if err := json.Unmarshal(payload, &body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid json body")
	}
	var events []json.RawMessage
	if len(body.Events) == 0 || json.Unmarshal(body.Events, &events) != nil || events == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "events must be an array")
	}

	if len(events) > 0 && h.dispatcher != nil {
		ctx := context.WithoutCancel(c.Request().Context())
		h.logger.Debug("webhook accepted", slog.Int("events", len(events)))
		h.spawn(func() { h.dispatcher.Dispatch(ctx, events) })
	}
	return c.NoContent(http.StatusOK)
}
