package realtime

import "encoding/json"

// Client -> server events.
const (
	EventUserOnline  = "userOnline"
	EventJoinChat    = "joinChat"
	EventLeaveChat   = "leaveChat"
	EventTyping      = "typing"
	EventMarkAsRead  = "markAsRead"
	EventMessageRead = "messageRead"
)

// Server -> client events.
const (
	EventUpdateOnlineUsers = "updateOnlineUsers"
	EventUserTyping        = "userTyping"
	EventMessagesRead      = "messagesRead"
	EventMessageReadUpdate = "messageReadUpdate"
	EventReceiveMessage    = "receiveMessage"
	EventMessageDeleted    = "messageDeleted"
)

// Event is the wire envelope: a named event with a JSON payload. Events are
// transient; nothing on this channel is persisted.
type Event struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// NewEvent wraps payload into an envelope.
func NewEvent(name string, payload any) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{Event: name, Data: data}, nil
}

// ChannelPayload carries explicit joinChat/leaveChat requests.
type ChannelPayload struct {
	UserID int64 `json:"userId"`
}

// TypingPayload is the client's typing notice for a counterpart.
type TypingPayload struct {
	ReceiverID int64 `json:"receiverId"`
	IsTyping   bool  `json:"isTyping"`
}

// UserTypingPayload is the relayed form delivered to the counterpart.
type UserTypingPayload struct {
	UserID   int64 `json:"userId"`
	IsTyping bool  `json:"isTyping"`
}

// MarkAsReadPayload tells the original sender that the receiver has read
// the whole conversation.
type MarkAsReadPayload struct {
	SenderID   int64 `json:"senderId"`
	ReceiverID int64 `json:"receiverId"`
}

// MessageReadPayload targets a single message id.
type MessageReadPayload struct {
	MessageID int64 `json:"messageId"`
	SenderID  int64 `json:"senderId"`
}
