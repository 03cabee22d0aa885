package realtime_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/AdventureDe/PinLink/realtime"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func startSession(t *testing.T, hub *realtime.Hub) (*mockConn, *realtime.Session) {
	t.Helper()
	conn := newMockConn()
	sess := realtime.NewSession(hub, conn, zap.NewNop())
	go sess.Run()
	t.Cleanup(func() { conn.Close() })
	return conn, sess
}

func waitOnline(t *testing.T, hub *realtime.Hub, userID int64) {
	t.Helper()
	require.Eventually(t, func() bool {
		_, ok := hub.Lookup(userID)
		return ok
	}, time.Second, 5*time.Millisecond, "user %d never came online", userID)
}

func TestSession_AnnounceIdentifiesConnection(t *testing.T) {
	hub := newTestHub()
	conn, sess := startSession(t, hub)

	conn.send(t, realtime.EventUserOnline, int64(7))
	waitOnline(t, hub, 7)

	connID, _ := hub.Lookup(7)
	assert.Equal(t, sess.ID(), connID)
}

func TestSession_TypingRelaysToReceiver(t *testing.T) {
	hub := newTestHub()
	alice, _ := startSession(t, hub)
	bob, _ := startSession(t, hub)

	alice.send(t, realtime.EventUserOnline, int64(1))
	bob.send(t, realtime.EventUserOnline, int64(2))
	waitOnline(t, hub, 1)
	waitOnline(t, hub, 2)

	alice.send(t, realtime.EventTyping, realtime.TypingPayload{ReceiverID: 2, IsTyping: true})

	ev := waitFor(t, bob, realtime.EventUserTyping)
	var p realtime.UserTypingPayload
	require.NoError(t, json.Unmarshal(ev.Data, &p))
	assert.Equal(t, int64(1), p.UserID)
	assert.True(t, p.IsTyping)
}

func TestSession_TypingFromUnidentifiedIsDropped(t *testing.T) {
	hub := newTestHub()
	alice, _ := startSession(t, hub)
	bob, _ := startSession(t, hub)

	bob.send(t, realtime.EventUserOnline, int64(2))
	waitOnline(t, hub, 2)

	// alice never announced; the typing event must be dropped. The
	// markAsRead that follows is processed in order, so seeing it proves
	// the typing relay was skipped rather than still in flight.
	alice.send(t, realtime.EventTyping, realtime.TypingPayload{ReceiverID: 2, IsTyping: true})
	alice.send(t, realtime.EventMarkAsRead, realtime.MarkAsReadPayload{SenderID: 2, ReceiverID: 1})

	ev := waitFor(t, bob, realtime.EventMessagesRead)
	assert.Equal(t, realtime.EventMessagesRead, ev.Event)

	select {
	case extra := <-bob.outbound:
		assert.NotEqual(t, realtime.EventUserTyping, extra.Event)
	default:
	}
}

func TestSession_MarkAsReadRelaysToSender(t *testing.T) {
	hub := newTestHub()
	alice, _ := startSession(t, hub)
	bob, _ := startSession(t, hub)

	bob.send(t, realtime.EventUserOnline, int64(2))
	waitOnline(t, hub, 2)

	alice.send(t, realtime.EventMarkAsRead, realtime.MarkAsReadPayload{SenderID: 2, ReceiverID: 1})

	ev := waitFor(t, bob, realtime.EventMessagesRead)
	var counterpart int64
	require.NoError(t, json.Unmarshal(ev.Data, &counterpart))
	assert.Equal(t, int64(1), counterpart)
}

func TestSession_SingleMessageReadRelaysToSender(t *testing.T) {
	hub := newTestHub()
	alice, _ := startSession(t, hub)
	bob, _ := startSession(t, hub)

	bob.send(t, realtime.EventUserOnline, int64(2))
	waitOnline(t, hub, 2)

	alice.send(t, realtime.EventMessageRead, realtime.MessageReadPayload{MessageID: 10, SenderID: 2})

	ev := waitFor(t, bob, realtime.EventMessageReadUpdate)
	var messageID int64
	require.NoError(t, json.Unmarshal(ev.Data, &messageID))
	assert.Equal(t, int64(10), messageID)
}

func TestSession_JoinAndLeaveChat(t *testing.T) {
	hub := newTestHub()
	conn, _ := startSession(t, hub)

	conn.send(t, realtime.EventJoinChat, realtime.ChannelPayload{UserID: 5})
	require.Eventually(t, func() bool {
		hub.NotifyUser(5, realtime.EventMessagesRead, int64(1))
		select {
		case ev := <-conn.outbound:
			return ev.Event == realtime.EventMessagesRead
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)

	conn.send(t, realtime.EventLeaveChat, realtime.ChannelPayload{UserID: 5})
	// Drain, then confirm nothing more arrives for that channel.
	require.Eventually(t, func() bool {
		hub.NotifyUser(5, realtime.EventMessageDeleted, int64(2))
		select {
		case <-conn.outbound:
			return false
		default:
			return true
		}
	}, time.Second, 10*time.Millisecond)
}

func TestSession_MalformedPayloadIsSkipped(t *testing.T) {
	hub := newTestHub()
	conn, _ := startSession(t, hub)

	conn.inbound <- realtime.Event{Event: realtime.EventUserOnline, Data: json.RawMessage(`"not a number"`)}
	conn.inbound <- realtime.Event{Event: realtime.EventTyping, Data: json.RawMessage(`{"receiverId":"x"}`)}

	// The session survives and still processes a valid announce.
	conn.send(t, realtime.EventUserOnline, int64(9))
	waitOnline(t, hub, 9)
}

func TestSession_CloseRemovesPresence(t *testing.T) {
	hub := newTestHub()
	conn, _ := startSession(t, hub)

	conn.send(t, realtime.EventUserOnline, int64(7))
	waitOnline(t, hub, 7)

	conn.Close()

	require.Eventually(t, func() bool {
		_, ok := hub.Lookup(7)
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestSession_DisconnectBroadcastsUpdatedOnlineSet(t *testing.T) {
	hub := newTestHub()
	alice, _ := startSession(t, hub)
	bob, _ := startSession(t, hub)

	alice.send(t, realtime.EventUserOnline, int64(1))
	bob.send(t, realtime.EventUserOnline, int64(2))
	waitOnline(t, hub, 1)
	waitOnline(t, hub, 2)

	alice.Close()

	require.Eventually(t, func() bool {
		_, ok := hub.Lookup(1)
		return !ok
	}, time.Second, 5*time.Millisecond)

	// Bob eventually sees an online set without alice.
	require.Eventually(t, func() bool {
		select {
		case ev := <-bob.outbound:
			if ev.Event != realtime.EventUpdateOnlineUsers {
				return false
			}
			var online []int64
			if err := json.Unmarshal(ev.Data, &online); err != nil {
				return false
			}
			return len(online) == 1 && online[0] == 2
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
}
