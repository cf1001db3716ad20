package models

// WebhookDelivery is the body of one webhook POST from the platform. A
// single delivery can carry multiple events.
type WebhookDelivery struct {
	Destination string  `json:"destination"`
	Events      []Event `json:"events"`
}

// Event is one inbound webhook event
type Event struct {
	Type           string          `json:"type"`
	ReplyToken     string          `json:"replyToken,omitempty"`
	Source         Source          `json:"source"`
	Timestamp      int64           `json:"timestamp"`
	WebhookEventID string          `json:"webhookEventId,omitempty"`
	Message        *MessageContent `json:"message,omitempty"`
}

// Source identifies who sent the event and where
type Source struct {
	Type    string `json:"type"`
	UserID  string `json:"userId"`
	GroupID string `json:"groupId,omitempty"`
	RoomID  string `json:"roomId,omitempty"`
}

// MessageContent is the message part of a message event
type MessageContent struct {
	ID      string   `json:"id"`
	Type    string   `json:"type"`
	Text    string   `json:"text,omitempty"`
	Mention *Mention `json:"mention,omitempty"`
}

// Mention carries the @-mention spans of a text message
type Mention struct {
	Mentionees []Mentionee `json:"mentionees"`
}

// Mentionee marks one @-mention span. Index and Length are measured in
// UTF-16 code units, 0-based from the start of the text.
type Mentionee struct {
	Index  int    `json:"index"`
	Length int    `json:"length"`
	UserID string `json:"userId,omitempty"`
	Type   string `json:"type,omitempty"`
}
