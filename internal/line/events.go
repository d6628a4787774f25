package line

import (
	"encoding/json"
	"fmt"
)

// Event is one inbound webhook event. The concrete type is one of
// *FollowEvent, *MemberJoinedEvent, *MessageEvent or *UnknownEvent.
type Event interface {
	Header() Base
	sealedEvent()
}

// Base carries the fields shared by every event.
type Base struct {
	Type       string
	ReplyToken string
	// Timestamp is milliseconds since the epoch.
	Timestamp      int64
	Source         Source
	WebhookEventID string
}

func (b Base) Header() Base { return b }

type Source struct {
	Type    string `json:"type"`
	UserID  string `json:"userId"`
	GroupID string `json:"groupId,omitempty"`
	RoomID  string `json:"roomId,omitempty"`
}

// ChatID is where a loading indicator or push would go.
func (s Source) ChatID() string {
	switch {
	case s.GroupID != "":
		return s.GroupID
	case s.RoomID != "":
		return s.RoomID
	default:
		return s.UserID
	}
}

type FollowEvent struct {
	Base
	IsUnblocked bool
}

type Member struct {
	Type   string `json:"type"`
	UserID string `json:"userId"`
}

type MemberJoinedEvent struct {
	Base
	Members []Member
}

type Mentionee struct {
	Index  int    `json:"index"`
	Length int    `json:"length"`
	Type   string `json:"type"`
	UserID string `json:"userId,omitempty"`
	IsSelf bool   `json:"isSelf"`
}

type MessageEvent struct {
	Base
	MessageID  string
	QuoteToken string
	Mentionees []Mentionee
	Content    Content
}

// MentionsSelf reports whether the bot itself was mentioned.
func (m *MessageEvent) MentionsSelf() bool {
	for _, mt := range m.Mentionees {
		if mt.IsSelf {
			return true
		}
	}
	return false
}

// UnknownEvent is any event type this service does not act on.
type UnknownEvent struct {
	Base
}

func (*FollowEvent) sealedEvent()       {}
func (*MemberJoinedEvent) sealedEvent() {}
func (*MessageEvent) sealedEvent()      {}
func (*UnknownEvent) sealedEvent()      {}

// Content is the type-specific message payload: Text, Image, Audio,
// Location or Unsupported.
type Content interface {
	sealedContent()
}

type Text struct {
	Text string
}

type Image struct{}

type Audio struct {
	// Duration is in milliseconds.
	Duration int64
}

type Location struct {
	Title     string
	Address   string
	Latitude  float64
	Longitude float64
}

type Unsupported struct {
	Type string
}

func (Text) sealedContent()        {}
func (Image) sealedContent()       {}
func (Audio) sealedContent()       {}
func (Location) sealedContent()    {}
func (Unsupported) sealedContent() {}

type wireEvent struct {
	Type           string `json:"type"`
	ReplyToken     string `json:"replyToken"`
	Timestamp      int64  `json:"timestamp"`
	Source         Source `json:"source"`
	WebhookEventID string `json:"webhookEventId"`
	Follow         *struct {
		IsUnblocked bool `json:"isUnblocked"`
	} `json:"follow,omitempty"`
	Joined *struct {
		Members []Member `json:"members"`
	} `json:"joined,omitempty"`
	Message *wireMessage `json:"message,omitempty"`
}

type wireMessage struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	QuoteToken string `json:"quoteToken"`
	Text       string `json:"text"`
	Mention    *struct {
		Mentionees []Mentionee `json:"mentionees"`
	} `json:"mention,omitempty"`
	Duration  int64   `json:"duration"`
	Title     string  `json:"title"`
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// DecodeEvent turns one element of the webhook "events" array into an Event.
func DecodeEvent(raw json.RawMessage) (Event, error) {
	var w wireEvent
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	base := Base{
		Type:           w.Type,
		ReplyToken:     w.ReplyToken,
		Timestamp:      w.Timestamp,
		Source:         w.Source,
		WebhookEventID: w.WebhookEventID,
	}

	switch w.Type {
	case "follow":
		ev := &FollowEvent{Base: base}
		if w.Follow != nil {
			ev.IsUnblocked = w.Follow.IsUnblocked
		}
		return ev, nil
	case "memberJoined":
		ev := &MemberJoinedEvent{Base: base}
		if w.Joined != nil {
			ev.Members = w.Joined.Members
		}
		return ev, nil
	case "message":
		if w.Message == nil {
			return nil, fmt.Errorf("%w: message event without message", ErrMalformedEvent)
		}
		return decodeMessage(base, w.Message), nil
	default:
		return &UnknownEvent{Base: base}, nil
	}
}

// Header is the part of an event that is still readable when the payload is
// not: enough to answer it.
type Header struct {
	Type           string
	ReplyToken     string
	WebhookEventID string
	// MessageType is set for message events whose message object names a type.
	MessageType string
}

type wireHeader struct {
	Type           string          `json:"type"`
	ReplyToken     string          `json:"replyToken"`
	WebhookEventID string          `json:"webhookEventId"`
	Message        json.RawMessage `json:"message"`
}

// DecodeHeader reads only the routing fields of raw. It is used after
// DecodeEvent has rejected the event.
func DecodeHeader(raw json.RawMessage) (Header, error) {
	var w wireHeader
	if err := json.Unmarshal(raw, &w); err != nil {
		return Header{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	h := Header{Type: w.Type, ReplyToken: w.ReplyToken, WebhookEventID: w.WebhookEventID}
	if len(w.Message) > 0 {
		var m struct {
			Type string `json:"type"`
		}
		if json.Unmarshal(w.Message, &m) == nil {
			h.MessageType = m.Type
		}
	}
	return h, nil
}

func decodeMessage(base Base, m *wireMessage) *MessageEvent {
	ev := &MessageEvent{
		Base:       base,
		MessageID:  m.ID,
		QuoteToken: m.QuoteToken,
	}
	if m.Mention != nil {
		ev.Mentionees = m.Mention.Mentionees
	}
	switch m.Type {
	case "text":
		ev.Content = Text{Text: m.Text}
	case "image":
		ev.Content = Image{}
	case "audio":
		ev.Content = Audio{Duration: m.Duration}
	case "location":
		ev.Content = Location{
			Title:     m.Title,
			Address:   m.Address,
			Latitude:  m.Latitude,
			Longitude: m.Longitude,
		}
	default:
		ev.Content = Unsupported{Type: m.Type}
	}
	return ev
}
