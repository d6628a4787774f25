package line

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	method string
	path   string
	auth   string
	body   []byte
}

type fakePlatform struct {
	mu       sync.Mutex
	requests []capturedRequest
	status   int
	response string
}

func (f *fakePlatform) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, capturedRequest{method: r.Method, path: r.URL.Path, auth: r.Header.Get("Authorization"), body: body})
	status, response := f.status, f.response
	f.mu.Unlock()
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, response)
}

func (f *fakePlatform) last(t *testing.T) capturedRequest {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.requests)
	return f.requests[len(f.requests)-1]
}

func (f *fakePlatform) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func newTestClient(t *testing.T, platform *fakePlatform, maxBytes int64) *Client {
	t.Helper()
	srv := httptest.NewServer(platform)
	t.Cleanup(srv.Close)
	return NewClient(nil, ClientConfig{
		ChannelAccessToken: "secret-token",
		APIBaseURL:         srv.URL,
		DataBaseURL:        srv.URL,
		MaxContentBytes:    maxBytes,
	})
}

func TestReplyAttachesQuickReplyToLastMessage(t *testing.T) {
	t.Parallel()

	platform := &fakePlatform{response: `{}`}
	client := newTestClient(t, platform, 0)

	err := client.Reply(context.Background(), "rt-1",
		[]Message{MentionAck("U1", "q1"), TextMessage("คำตอบ", "q1")},
		DefaultQuickReply())
	require.NoError(t, err)

	req := platform.last(t)
	assert.Equal(t, http.MethodPost, req.method)
	assert.Equal(t, "/v2/bot/message/reply", req.path)
	assert.Equal(t, "Bearer secret-token", req.auth)

	var body struct {
		ReplyToken string           `json:"replyToken"`
		Messages   []map[string]any `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(req.body, &body))
	assert.Equal(t, "rt-1", body.ReplyToken)
	require.Len(t, body.Messages, 2)
	assert.Equal(t, "textV2", body.Messages[0]["type"])
	assert.NotContains(t, body.Messages[0], "quickReply")
	assert.Equal(t, "คำตอบ", body.Messages[1]["text"])
	assert.Equal(t, "q1", body.Messages[1]["quoteToken"])
	assert.Contains(t, body.Messages[1], "quickReply")
}

func TestReplyRejectsMissingToken(t *testing.T) {
	t.Parallel()

	platform := &fakePlatform{}
	client := newTestClient(t, platform, 0)

	err := client.Reply(context.Background(), " ", []Message{TextMessage("x", "")}, nil)
	require.ErrorIs(t, err, ErrDelivery)
	assert.Zero(t, platform.count())
}

func TestReplySurfacesPlatformError(t *testing.T) {
	t.Parallel()

	platform := &fakePlatform{status: http.StatusBadRequest, response: `{"message":"Invalid reply token"}`}
	client := newTestClient(t, platform, 0)

	err := client.Reply(context.Background(), "used", []Message{TextMessage("x", "")}, nil)
	require.ErrorIs(t, err, ErrDelivery)
	assert.Contains(t, err.Error(), "Invalid reply token")
}

func TestShowLoading(t *testing.T) {
	t.Parallel()

	platform := &fakePlatform{response: `{}`}
	client := newTestClient(t, platform, 0)

	require.NoError(t, client.ShowLoading(context.Background(), "U1"))
	req := platform.last(t)
	assert.Equal(t, "/v2/bot/chat/loading/start", req.path)
	assert.JSONEq(t, `{"chatId":"U1"}`, string(req.body))
}

func TestProfile(t *testing.T) {
	t.Parallel()

	platform := &fakePlatform{response: `{"userId":"U1","displayName":"Somchai","pictureUrl":"https://p/1.png"}`}
	client := newTestClient(t, platform, 0)

	p, err := client.Profile(context.Background(), "U1")
	require.NoError(t, err)
	assert.Equal(t, "Somchai", p.DisplayName)
	assert.Equal(t, "https://p/1.png", p.PictureURL)
	assert.Equal(t, "/v2/bot/profile/U1", platform.last(t).path)
}

func TestContent(t *testing.T) {
	t.Parallel()

	platform := &fakePlatform{response: "binary-audio"}
	client := newTestClient(t, platform, 1024)

	data, err := client.Content(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, []byte("binary-audio"), data)
	assert.Equal(t, "/v2/bot/message/m1/content", platform.last(t).path)
}

func TestContentLimits(t *testing.T) {
	t.Parallel()

	platform := &fakePlatform{response: "0123456789"}
	client := newTestClient(t, platform, 4)

	_, err := client.Content(context.Background(), "m1")
	assert.ErrorIs(t, err, ErrDelivery)

	_, err = client.Content(context.Background(), "")
	assert.ErrorIs(t, err, ErrDelivery)
	assert.Equal(t, 1, platform.count())
}
