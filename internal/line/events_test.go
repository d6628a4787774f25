package line

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEvent(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		raw   string
		check func(t *testing.T, ev Event)
	}{
		{
			name: "text with self mention",
			raw: `{"type":"message","replyToken":"rt","timestamp":1700000000000,
				"source":{"type":"group","groupId":"G1","userId":"U1"},
				"message":{"id":"m1","type":"text","quoteToken":"q1","text":" @Panya สวัสดี ",
				"mention":{"mentionees":[{"index":0,"length":6,"type":"user","isSelf":true}]}}}`,
			check: func(t *testing.T, ev Event) {
				msg, ok := ev.(*MessageEvent)
				require.True(t, ok)
				assert.Equal(t, "rt", msg.ReplyToken)
				assert.Equal(t, int64(1700000000000), msg.Timestamp)
				assert.Equal(t, "m1", msg.MessageID)
				assert.Equal(t, "q1", msg.QuoteToken)
				assert.Equal(t, "G1", msg.Source.ChatID())
				assert.True(t, msg.MentionsSelf())
				assert.Equal(t, Text{Text: " @Panya สวัสดี "}, msg.Content)
			},
		},
		{
			name: "image",
			raw:  `{"type":"message","replyToken":"rt","source":{"type":"user","userId":"U1"},"message":{"id":"m2","type":"image","quoteToken":"q2"}}`,
			check: func(t *testing.T, ev Event) {
				msg := ev.(*MessageEvent)
				assert.Equal(t, Image{}, msg.Content)
				assert.False(t, msg.MentionsSelf())
				assert.Equal(t, "U1", msg.Source.ChatID())
			},
		},
		{
			name: "audio",
			raw:  `{"type":"message","replyToken":"rt","source":{"type":"user","userId":"U1"},"message":{"id":"m3","type":"audio","duration":4200}}`,
			check: func(t *testing.T, ev Event) {
				assert.Equal(t, Audio{Duration: 4200}, ev.(*MessageEvent).Content)
			},
		},
		{
			name: "location",
			raw: `{"type":"message","replyToken":"rt","source":{"type":"user","userId":"U1"},
				"message":{"id":"m4","type":"location","title":"Home","address":"Bangkok","latitude":13.75,"longitude":100.5}}`,
			check: func(t *testing.T, ev Event) {
				assert.Equal(t, Location{Title: "Home", Address: "Bangkok", Latitude: 13.75, Longitude: 100.5}, ev.(*MessageEvent).Content)
			},
		},
		{
			name: "sticker is unsupported",
			raw:  `{"type":"message","replyToken":"rt","source":{"type":"user","userId":"U1"},"message":{"id":"m5","type":"sticker"}}`,
			check: func(t *testing.T, ev Event) {
				assert.Equal(t, Unsupported{Type: "sticker"}, ev.(*MessageEvent).Content)
			},
		},
		{
			name: "follow unblocked",
			raw:  `{"type":"follow","replyToken":"rt","source":{"type":"user","userId":"U1"},"follow":{"isUnblocked":true}}`,
			check: func(t *testing.T, ev Event) {
				f, ok := ev.(*FollowEvent)
				require.True(t, ok)
				assert.True(t, f.IsUnblocked)
			},
		},
		{
			name: "member joined",
			raw: `{"type":"memberJoined","replyToken":"rt","source":{"type":"group","groupId":"G1"},
				"joined":{"members":[{"type":"user","userId":"U1"},{"type":"user","userId":"U2"}]}}`,
			check: func(t *testing.T, ev Event) {
				j, ok := ev.(*MemberJoinedEvent)
				require.True(t, ok)
				assert.Equal(t, []Member{{Type: "user", UserID: "U1"}, {Type: "user", UserID: "U2"}}, j.Members)
			},
		},
		{
			name: "unfollow is unknown",
			raw:  `{"type":"unfollow","source":{"type":"user","userId":"U1"}}`,
			check: func(t *testing.T, ev Event) {
				u, ok := ev.(*UnknownEvent)
				require.True(t, ok)
				assert.Equal(t, "unfollow", u.Header().Type)
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ev, err := DecodeEvent(json.RawMessage(tc.raw))
			require.NoError(t, err)
			tc.check(t, ev)
		})
	}
}

func TestDecodeEventMalformed(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{
		`"not an object"`,
		`{"type":"message","replyToken":"rt"}`,
		`{"type":"message","message":{"id":123,"type":"audio"}}`,
	} {
		_, err := DecodeEvent(json.RawMessage(raw))
		assert.ErrorIs(t, err, ErrMalformedEvent, raw)
	}
}

func TestDecodeHeaderOfRejectedEvents(t *testing.T) {
	t.Parallel()

	h, err := DecodeHeader(json.RawMessage(`{"type":"message","replyToken":"rt-1","webhookEventId":"E1","message":{"id":123,"type":"audio"}}`))
	require.NoError(t, err)
	assert.Equal(t, Header{Type: "message", ReplyToken: "rt-1", WebhookEventID: "E1", MessageType: "audio"}, h)

	h, err = DecodeHeader(json.RawMessage(`{"type":"message","replyToken":"rt-2"}`))
	require.NoError(t, err)
	assert.Equal(t, "rt-2", h.ReplyToken)
	assert.Empty(t, h.MessageType)

	_, err = DecodeHeader(json.RawMessage(`"not an object"`))
	assert.ErrorIs(t, err, ErrMalformedEvent)
}
