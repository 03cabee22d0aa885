package service_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/AdventureDe/PinLink/message/repo"
	"github.com/AdventureDe/PinLink/message/repo/model"
	"github.com/AdventureDe/PinLink/message/service"
	"github.com/AdventureDe/PinLink/realtime"
	userrepo "github.com/AdventureDe/PinLink/user/repo"
	usermodel "github.com/AdventureDe/PinLink/user/repo/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeMessageRepo keeps messages in memory with deterministic timestamps.
type fakeMessageRepo struct {
	mu     sync.Mutex
	nextID int64
	seq    int
	byID   map[int64]*model.Message
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{byID: make(map[int64]*model.Message)}
}

func (r *fakeMessageRepo) Create(_ context.Context, msg *model.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	r.seq++
	msg.ID = r.nextID
	msg.CreatedAt = time.Unix(0, 0).Add(time.Duration(r.seq) * time.Second)
	cp := *msg
	r.byID[msg.ID] = &cp
	return nil
}

func (r *fakeMessageRepo) GetByID(_ context.Context, id int64) (*model.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg, ok := r.byID[id]
	if !ok {
		return nil, repo.ErrMessageNotFound
	}
	cp := *msg
	return &cp, nil
}

func (r *fakeMessageRepo) ListBetween(_ context.Context, a, b int64) ([]*model.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Message
	for id := int64(1); id <= r.nextID; id++ {
		msg, ok := r.byID[id]
		if !ok {
			continue
		}
		if (msg.SenderID == a && msg.ReceiverID == b) || (msg.SenderID == b && msg.ReceiverID == a) {
			cp := *msg
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeMessageRepo) MarkConversationRead(_ context.Context, senderID, receiverID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var updated int64
	for _, msg := range r.byID {
		if msg.SenderID == senderID && msg.ReceiverID == receiverID && !msg.Read {
			msg.Read = true
			updated++
		}
	}
	return updated, nil
}

func (r *fakeMessageRepo) MarkRead(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if msg, ok := r.byID[id]; ok {
		msg.Read = true
	}
	return nil
}

func (r *fakeMessageRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
	return nil
}

func (r *fakeMessageRepo) ListTouching(_ context.Context, userID int64) ([]*model.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Message
	for id := r.nextID; id >= 1; id-- {
		msg, ok := r.byID[id]
		if !ok {
			continue
		}
		if msg.SenderID == userID || msg.ReceiverID == userID {
			cp := *msg
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	users map[int64]userrepo.User
}

func newFakeUserRepo(ids ...int64) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[int64]userrepo.User)}
	for _, id := range ids {
		r.users[id] = userrepo.User{
			ID:     id,
			Name:   fmt.Sprintf("user-%d", id),
			Email:  fmt.Sprintf("user-%d@example.com", id),
			Avatar: fmt.Sprintf("https://cdn.example.com/%d.png", id),
		}
	}
	return r
}

func (r *fakeUserRepo) CreateUser(_ context.Context, user *usermodel.User) error {
	r.users[user.ID] = userrepo.User{ID: user.ID, Name: user.Name, Email: user.Email, Avatar: user.Avatar}
	return nil
}

func (r *fakeUserRepo) GetUserInfo(_ context.Context, id int64) (*userrepo.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, userrepo.ErrUserNotFound
	}
	return &u, nil
}

func (r *fakeUserRepo) GetUserInfos(_ context.Context, ids []int64) ([]userrepo.User, error) {
	out := make([]userrepo.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := r.users[id]
	return ok, nil
}

type notification struct {
	userID  int64
	event   string
	payload any
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []notification
}

func (n *recordingNotifier) NotifyUser(userID int64, event string, payload any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, notification{userID: userID, event: event, payload: payload})
}

func (n *recordingNotifier) all() []notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]notification, len(n.events))
	copy(out, n.events)
	return out
}

func (n *recordingNotifier) byEvent(event string) []notification {
	var out []notification
	for _, ev := range n.all() {
		if ev.event == event {
			out = append(out, ev)
		}
	}
	return out
}

func newTestService(users ...int64) (*service.MessageService, *fakeMessageRepo, *recordingNotifier) {
	msgs := newFakeMessageRepo()
	notifier := &recordingNotifier{}
	svc := service.NewMessageService(msgs, newFakeUserRepo(users...), notifier, zap.NewNop())
	return svc, msgs, notifier
}

func TestSend_CreatesUnreadAndMirrorsToReceiver(t *testing.T) {
	svc, _, notifier := newTestService(1, 2)

	msg, err := svc.Send(context.Background(), 1, 2, "hi")
	require.NoError(t, err)
	assert.Equal(t, "hi", msg.Content)
	assert.False(t, msg.Read)
	require.NotNil(t, msg.Sender)
	require.NotNil(t, msg.Receiver)
	assert.Equal(t, int64(1), msg.Sender.UserID)
	assert.Equal(t, int64(2), msg.Receiver.UserID)
	assert.Equal(t, "user-2", msg.Receiver.Name)

	sent := notifier.byEvent(realtime.EventReceiveMessage)
	require.Len(t, sent, 1)
	assert.Equal(t, int64(2), sent[0].userID)
	assert.Equal(t, msg, sent[0].payload)
}

func TestSend_MissingContentRejectsBeforeMutation(t *testing.T) {
	svc, msgs, notifier := newTestService(1, 2)

	_, err := svc.Send(context.Background(), 1, 2, "   ")
	assert.ErrorIs(t, err, service.ErrValidation)

	_, err = svc.Send(context.Background(), 1, 0, "hi")
	assert.ErrorIs(t, err, service.ErrValidation)

	assert.Empty(t, msgs.byID)
	assert.Empty(t, notifier.all())
}

func TestSend_UnknownReceiverIsNotFound(t *testing.T) {
	svc, msgs, _ := newTestService(1)

	_, err := svc.Send(context.Background(), 1, 99, "hi")
	assert.ErrorIs(t, err, service.ErrNotFound)
	assert.Empty(t, msgs.byID)
}

func TestGetConversation_MarksReadAndNotifiesExactlyOnce(t *testing.T) {
	svc, msgs, notifier := newTestService(1, 2)

	// Two unread from 2 to 1, one from 1 to 2.
	_, err := svc.Send(context.Background(), 2, 1, "first")
	require.NoError(t, err)
	_, err = svc.Send(context.Background(), 2, 1, "second")
	require.NoError(t, err)
	_, err = svc.Send(context.Background(), 1, 2, "reply")
	require.NoError(t, err)

	history, err := svc.GetConversation(context.Background(), 1, 2)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "first", history[0].Content)
	assert.Equal(t, "reply", history[2].Content)

	for _, msg := range msgs.byID {
		if msg.SenderID == 2 && msg.ReceiverID == 1 {
			assert.True(t, msg.Read)
		}
	}

	reads := notifier.byEvent(realtime.EventMessagesRead)
	require.Len(t, reads, 1)
	assert.Equal(t, int64(2), reads[0].userID)
	assert.Equal(t, int64(1), reads[0].payload)

	// Nothing new unread: the second fetch must not notify again.
	_, err = svc.GetConversation(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Len(t, notifier.byEvent(realtime.EventMessagesRead), 1)
}

func TestGetConversation_InvalidCounterpart(t *testing.T) {
	svc, _, _ := newTestService(1)

	_, err := svc.GetConversation(context.Background(), 1, -5)
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestMarkMessageRead_SecondCallIsNoop(t *testing.T) {
	svc, _, notifier := newTestService(1, 2)
	msg, err := svc.Send(context.Background(), 1, 2, "hi")
	require.NoError(t, err)

	require.NoError(t, svc.MarkMessageRead(context.Background(), 2, msg.ID))
	updates := notifier.byEvent(realtime.EventMessageReadUpdate)
	require.Len(t, updates, 1)
	assert.Equal(t, int64(1), updates[0].userID)
	assert.Equal(t, msg.ID, updates[0].payload)

	require.NoError(t, svc.MarkMessageRead(context.Background(), 2, msg.ID))
	assert.Len(t, notifier.byEvent(realtime.EventMessageReadUpdate), 1)
}

func TestMarkMessageRead_OnlyReceiverMay(t *testing.T) {
	svc, _, _ := newTestService(1, 2)
	msg, err := svc.Send(context.Background(), 1, 2, "hi")
	require.NoError(t, err)

	err = svc.MarkMessageRead(context.Background(), 1, msg.ID)
	assert.ErrorIs(t, err, service.ErrForbidden)

	err = svc.MarkMessageRead(context.Background(), 2, 999)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestDelete_OnlySenderMay(t *testing.T) {
	svc, msgs, notifier := newTestService(1, 2)
	msg, err := svc.Send(context.Background(), 1, 2, "hi")
	require.NoError(t, err)

	err = svc.Delete(context.Background(), 2, msg.ID)
	assert.ErrorIs(t, err, service.ErrForbidden)
	_, stillThere := msgs.byID[msg.ID]
	assert.True(t, stillThere)

	require.NoError(t, svc.Delete(context.Background(), 1, msg.ID))
	_, gone := msgs.byID[msg.ID]
	assert.False(t, gone)

	deleted := notifier.byEvent(realtime.EventMessageDeleted)
	require.Len(t, deleted, 1)
	assert.Equal(t, int64(2), deleted[0].userID)
}

func TestListConversations_GroupsByCounterpart(t *testing.T) {
	svc, _, _ := newTestService(1, 2, 3)

	_, err := svc.Send(context.Background(), 2, 1, "from 2, unread")
	require.NoError(t, err)
	_, err = svc.Send(context.Background(), 2, 1, "from 2, unread too")
	require.NoError(t, err)
	_, err = svc.Send(context.Background(), 1, 3, "to 3")
	require.NoError(t, err)
	_, err = svc.Send(context.Background(), 3, 1, "from 3, unread, most recent")
	require.NoError(t, err)

	conversations, err := svc.ListConversations(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, conversations, 2)

	// Most recent activity first.
	assert.Equal(t, int64(3), conversations[0].User.UserID)
	assert.Equal(t, "from 3, unread, most recent", conversations[0].LastMessage.Content)
	assert.Equal(t, 1, conversations[0].UnreadCount)

	assert.Equal(t, int64(2), conversations[1].User.UserID)
	assert.Equal(t, "from 2, unread too", conversations[1].LastMessage.Content)
	assert.Equal(t, 2, conversations[1].UnreadCount)

	assert.True(t, conversations[0].LastActivity.After(conversations[1].LastActivity))
}
