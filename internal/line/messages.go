package line

// Message is one outbound message object. Only the fields relevant to Type
// are set.
type Message struct {
	Type         string                  `json:"type"`
	Text         string                  `json:"text,omitempty"`
	AltText      string                  `json:"altText,omitempty"`
	Contents     any                     `json:"contents,omitempty"`
	PackageID    string                  `json:"packageId,omitempty"`
	StickerID    string                  `json:"stickerId,omitempty"`
	Substitution map[string]Substitution `json:"substitution,omitempty"`
	QuoteToken   string                  `json:"quoteToken,omitempty"`
	QuickReply   *QuickReply             `json:"quickReply,omitempty"`
}

// Substitution fills a {placeholder} in a textV2 message.
type Substitution struct {
	Type      string        `json:"type"`
	Mentionee MentionTarget `json:"mentionee"`
}

type MentionTarget struct {
	Type   string `json:"type"`
	UserID string `json:"userId,omitempty"`
}

type QuickReply struct {
	Items []QuickReplyItem `json:"items"`
}

type QuickReplyItem struct {
	Type   string `json:"type"`
	Action Action `json:"action"`
}

type Action struct {
	Type  string `json:"type"`
	Label string `json:"label"`
	Text  string `json:"text,omitempty"`
}

// TextMessage builds a plain text message, quoting the inbound message when
// quoteToken is set.
func TextMessage(text, quoteToken string) Message {
	return Message{Type: "text", Text: text, QuoteToken: quoteToken}
}

// TextV2Message builds a text message with {name} substitutions.
func TextV2Message(text, quoteToken string, subs map[string]Substitution) Message {
	return Message{Type: "textV2", Text: text, QuoteToken: quoteToken, Substitution: subs}
}

// MentionUser substitutes a mention of one user.
func MentionUser(userID string) Substitution {
	return Substitution{Type: "mention", Mentionee: MentionTarget{Type: "user", UserID: userID}}
}

// MentionAll substitutes an @All mention.
func MentionAll() Substitution {
	return Substitution{Type: "mention", Mentionee: MentionTarget{Type: "all"}}
}

func StickerMessage(packageID, stickerID string) Message {
	return Message{Type: "sticker", PackageID: packageID, StickerID: stickerID}
}

func FlexMessage(altText string, contents any) Message {
	return Message{Type: "flex", AltText: altText, Contents: contents}
}
