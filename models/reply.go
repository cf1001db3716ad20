package models

// TextMessage is the outgoing reply payload. Mention is only set when
// the text embeds real @-mentions.
type TextMessage struct {
	Type    string   `json:"type"`
	Text    string   `json:"text"`
	Mention *Mention `json:"mention,omitempty"`
}

// NewTextMessage builds a plain text reply
func NewTextMessage(text string) TextMessage {
	return TextMessage{Type: "text", Text: text}
}

// ReplyRequest is the body of the reply endpoint
type ReplyRequest struct {
	ReplyToken string        `json:"replyToken"`
	Messages   []TextMessage `json:"messages"`
}

// PlatformProfile is what the profile endpoints return
type PlatformProfile struct {
	DisplayName string `json:"displayName"`
	UserID      string `json:"userId,omitempty"`
	PictureURL  string `json:"pictureUrl,omitempty"`
}
