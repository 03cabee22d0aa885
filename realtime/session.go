package realtime

import (
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Session drives one connection: unidentified until the client announces a
// user, identified afterwards, closed when the transport drops. Events are
// handled strictly in arrival order.
type Session struct {
	id     string
	hub    *Hub
	conn   Conn
	logger *zap.Logger
	userID int64 // 0 until the userOnline announce
}

func NewSession(hub *Hub, conn Conn, logger *zap.Logger) *Session {
	return &Session{
		id:     uuid.NewString(),
		hub:    hub,
		conn:   conn,
		logger: logger,
	}
}

func (s *Session) ID() string {
	return s.id
}

// Run attaches the connection and processes inbound events until the
// transport closes, then purges presence and membership.
func (s *Session) Run() {
	s.hub.Attach(s.id, s.conn)
	defer s.hub.Remove(s.id)

	for {
		ev, err := s.conn.ReadEvent()
		if errors.Is(err, ErrMalformedEvent) {
			continue
		}
		if err != nil {
			return
		}
		s.dispatch(ev)
	}
}

// dispatch routes one inbound event. Missing or zero identifiers make the
// event a no-op rather than an error.
func (s *Session) dispatch(ev *Event) {
	switch ev.Event {
	case EventUserOnline:
		var userID int64
		if err := json.Unmarshal(ev.Data, &userID); err != nil || userID == 0 {
			return
		}
		s.userID = userID
		s.hub.Announce(s.id, userID)

	case EventJoinChat:
		var p ChannelPayload
		if err := json.Unmarshal(ev.Data, &p); err != nil || p.UserID == 0 {
			return
		}
		s.hub.Join(s.id, p.UserID)

	case EventLeaveChat:
		var p ChannelPayload
		if err := json.Unmarshal(ev.Data, &p); err != nil || p.UserID == 0 {
			return
		}
		s.hub.Leave(s.id, p.UserID)

	case EventTyping:
		var p TypingPayload
		if err := json.Unmarshal(ev.Data, &p); err != nil {
			return
		}
		// Typing relays only make sense from an identified connection.
		if p.ReceiverID == 0 || s.userID == 0 {
			return
		}
		s.hub.NotifyUser(p.ReceiverID, EventUserTyping, UserTypingPayload{
			UserID:   s.userID,
			IsTyping: p.IsTyping,
		})

	case EventMarkAsRead:
		var p MarkAsReadPayload
		if err := json.Unmarshal(ev.Data, &p); err != nil || p.SenderID == 0 {
			return
		}
		s.hub.NotifyUser(p.SenderID, EventMessagesRead, p.ReceiverID)

	case EventMessageRead:
		var p MessageReadPayload
		if err := json.Unmarshal(ev.Data, &p); err != nil || p.SenderID == 0 {
			return
		}
		s.hub.NotifyUser(p.SenderID, EventMessageReadUpdate, p.MessageID)

	default:
		s.logger.Debug("unknown event", zap.String("event", ev.Event))
	}
}
