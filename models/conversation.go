package models

// ConversationKind distinguishes the three chat shapes the platform has
type ConversationKind int

const (
	ConversationDirect ConversationKind = iota
	ConversationGroup
	ConversationRoom
)

// ConversationRef names the conversation an event belongs to. It is
// decided once at ingestion and carried everywhere the store or the
// platform API is addressed, so nothing downstream re-sniffs id shapes.
type ConversationRef struct {
	Kind ConversationKind
	ID   string
}

// DeriveConversation picks the conversation key for an event source:
// group id, else room id, else the sender's user id (1:1 chat).
func DeriveConversation(src Source) ConversationRef {
	switch {
	case src.GroupID != "":
		return ConversationRef{Kind: ConversationGroup, ID: src.GroupID}
	case src.RoomID != "":
		return ConversationRef{Kind: ConversationRoom, ID: src.RoomID}
	default:
		return ConversationRef{Kind: ConversationDirect, ID: src.UserID}
	}
}
