// Package line talks to the LINE Messaging API: outbound replies, profile
// and content lookups, and decoding of inbound webhook events.
package line

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/panyaai/panya/internal/media"
)

const (
	DefaultAPIBaseURL  = "https://api.line.me"
	DefaultDataBaseURL = "https://api-data.line.me"
	// MaxReplyMessages is the platform limit of messages per reply call.
	MaxReplyMessages = 5
)

type ClientConfig struct {
	ChannelAccessToken string
	APIBaseURL         string
	DataBaseURL        string
	Timeout            time.Duration
	// MaxContentBytes bounds downloaded media.
	MaxContentBytes int64
}

type Profile struct {
	UserID        string `json:"userId"`
	DisplayName   string `json:"displayName"`
	PictureURL    string `json:"pictureUrl"`
	StatusMessage string `json:"statusMessage"`
	Language      string `json:"language"`
}

type apiError struct {
	Message string `json:"message"`
	Details []struct {
		Message  string `json:"message"`
		Property string `json:"property"`
	} `json:"details"`
}

// Client is a Messaging API client.
type Client struct {
	api      *resty.Client
	data     *resty.Client
	maxBytes int64
	logger   *slog.Logger
}

func NewClient(log *slog.Logger, cfg ClientConfig) *Client {
	if log == nil {
		log = slog.Default()
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = DefaultAPIBaseURL
	}
	if cfg.DataBaseURL == "" {
		cfg.DataBaseURL = DefaultDataBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxContentBytes <= 0 {
		cfg.MaxContentBytes = 50 << 20
	}
	newResty := func(base string) *resty.Client {
		return resty.New().
			SetBaseURL(strings.TrimRight(base, "/")).
			SetTimeout(cfg.Timeout).
			SetAuthToken(cfg.ChannelAccessToken).
			SetHeader("Content-Type", "application/json")
	}
	return &Client{
		api:      newResty(cfg.APIBaseURL),
		data:     newResty(cfg.DataBaseURL),
		maxBytes: cfg.MaxContentBytes,
		logger:   log.With(slog.String("service", "line")),
	}
}

// Reply sends messages against a reply token. A non-nil quick reply menu is
// attached to the last message, which is where the platform renders it.
func (c *Client) Reply(ctx context.Context, replyToken string, messages []Message, quick *QuickReply) error {
	if strings.TrimSpace(replyToken) == "" {
		return fmt.Errorf("%w: reply token is required", ErrDelivery)
	}
	if len(messages) == 0 {
		return fmt.Errorf("%w: no messages", ErrDelivery)
	}
	if len(messages) > MaxReplyMessages {
		c.logger.Warn("reply truncated", slog.Int("messages", len(messages)))
		messages = messages[:MaxReplyMessages]
	}
	out := make([]Message, len(messages))
	copy(out, messages)
	if quick != nil {
		out[len(out)-1].QuickReply = quick
	}

	body := map[string]any{"replyToken": replyToken, "messages": out}
	return c.post(ctx, c.api, "/v2/bot/message/reply", body)
}

// ShowLoading starts the typing animation in a one-to-one chat.
func (c *Client) ShowLoading(ctx context.Context, chatID string) error {
	if strings.TrimSpace(chatID) == "" {
		return fmt.Errorf("%w: chat id is required", ErrDelivery)
	}
	return c.post(ctx, c.api, "/v2/bot/chat/loading/start", map[string]string{"chatId": chatID})
}

// Profile fetches a user's display profile.
func (c *Client) Profile(ctx context.Context, userID string) (Profile, error) {
	if strings.TrimSpace(userID) == "" {
		return Profile{}, fmt.Errorf("%w: user id is required", ErrDelivery)
	}
	var p Profile
	resp, err := c.api.R().
		SetContext(ctx).
		SetPathParam("userId", userID).
		SetResult(&p).
		SetError(&apiError{}).
		Get("/v2/bot/profile/{userId}")
	if err := checkResponse(resp, err); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Content downloads the binary payload of an image, audio or video message.
func (c *Client) Content(ctx context.Context, messageID string) ([]byte, error) {
	if strings.TrimSpace(messageID) == "" {
		return nil, fmt.Errorf("%w: message id is required", ErrDelivery)
	}
	resp, err := c.data.R().
		SetContext(ctx).
		SetPathParam("messageId", messageID).
		SetDoNotParseResponse(true).
		Get("/v2/bot/message/{messageId}/content")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDelivery, err)
	}
	body := resp.RawBody()
	defer body.Close()
	if resp.IsError() {
		return nil, fmt.Errorf("%w: content status %d", ErrDelivery, resp.StatusCode())
	}
	data, err := media.ReadAllWithLimit(body, c.maxBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: read content: %w", ErrDelivery, err)
	}
	c.logger.Debug("downloaded content", slog.String("message_id", messageID), slog.Int("bytes", len(data)))
	return data, nil
}

func (c *Client) post(ctx context.Context, client *resty.Client, path string, body any) error {
	resp, err := client.R().
		SetContext(ctx).
		SetBody(body).
		SetError(&apiError{}).
		Post(path)
	return checkResponse(resp, err)
}

func checkResponse(resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}
	if !resp.IsError() {
		return nil
	}
	msg := resp.Status()
	if apiErr, ok := resp.Error().(*apiError); ok && apiErr.Message != "" {
		msg = apiErr.Message
		for _, d := range apiErr.Details {
			msg += "; " + d.Property + ": " + d.Message
		}
	}
	return fmt.Errorf("%w: status %d: %s", ErrDelivery, resp.StatusCode(), msg)
}
