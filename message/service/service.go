package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/AdventureDe/PinLink/message/dto"
	"github.com/AdventureDe/PinLink/message/repo"
	"github.com/AdventureDe/PinLink/message/repo/model"
	"github.com/AdventureDe/PinLink/realtime"
	userrepo "github.com/AdventureDe/PinLink/user/repo"

	"go.uber.org/zap"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrForbidden  = errors.New("forbidden")
	ErrNotFound   = errors.New("not found")
)

// Notifier pushes a named event to a user's live connections. Delivery is
// best-effort; the store mutations never depend on it.
type Notifier interface {
	NotifyUser(userID int64, event string, payload any)
}

type MessageService struct {
	repo     repo.MessageRepo
	users    userrepo.UserRepo
	notifier Notifier
	logger   *zap.Logger
}

func NewMessageService(r repo.MessageRepo, u userrepo.UserRepo, n Notifier, logger *zap.Logger) *MessageService {
	return &MessageService{
		repo:     r,
		users:    u,
		notifier: n,
		logger:   logger,
	}
}

// Send validates and persists a new unread message, then mirrors it to the
// receiver's live channel. The created record is returned whether or not
// anyone was online to receive the mirror.
func (s *MessageService) Send(ctx context.Context, senderID, receiverID int64, content string) (*dto.MessageDTO, error) {
	if strings.TrimSpace(content) == "" || receiverID <= 0 {
		return nil, fmt.Errorf("%w: content and receiver are required", ErrValidation)
	}
	exists, err := s.users.Exists(ctx, receiverID)
	if err != nil {
		return nil, fmt.Errorf("failed to check receiver: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: receiver", ErrNotFound)
	}

	msg := &model.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
		Read:       false,
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	populated, err := s.populate(ctx, msg)
	if err != nil {
		return nil, err
	}
	s.notifier.NotifyUser(receiverID, realtime.EventReceiveMessage, populated)
	s.logger.Debug("message sent",
		zap.Int64("message_id", msg.ID),
		zap.Int64("sender_id", senderID),
		zap.Int64("receiver_id", receiverID))
	return populated, nil
}

// GetConversation returns the full history with otherID oldest-first and,
// as a side effect, marks everything the counterpart sent us as read. The
// counterpart is told once, and only when something actually changed.
func (s *MessageService) GetConversation(ctx context.Context, requesterID, otherID int64) ([]*dto.MessageDTO, error) {
	if otherID <= 0 {
		return nil, fmt.Errorf("%w: invalid user id", ErrValidation)
	}

	messages, err := s.repo.ListBetween(ctx, requesterID, otherID)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}

	updated, err := s.repo.MarkConversationRead(ctx, otherID, requesterID)
	if err != nil {
		return nil, fmt.Errorf("failed to mark conversation read: %w", err)
	}
	if updated > 0 {
		s.notifier.NotifyUser(otherID, realtime.EventMessagesRead, requesterID)
	}

	return s.populateAll(ctx, messages)
}

// MarkMessageRead flips a single message to read. Only the receiver may do
// so; a second call is a no-op and emits nothing.
func (s *MessageService) MarkMessageRead(ctx context.Context, requesterID, messageID int64) error {
	if messageID <= 0 {
		return fmt.Errorf("%w: invalid message id", ErrValidation)
	}
	msg, err := s.repo.GetByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, repo.ErrMessageNotFound) {
			return fmt.Errorf("%w: message", ErrNotFound)
		}
		return fmt.Errorf("failed to load message: %w", err)
	}
	if msg.ReceiverID != requesterID {
		return fmt.Errorf("%w: not the receiver of this message", ErrForbidden)
	}
	if msg.Read {
		return nil
	}
	if err := s.repo.MarkRead(ctx, messageID); err != nil {
		return fmt.Errorf("failed to mark message read: %w", err)
	}
	s.notifier.NotifyUser(msg.SenderID, realtime.EventMessageReadUpdate, messageID)
	return nil
}

// Delete removes a message. Only the sender may do so; the receiver is told
// over the live channel.
func (s *MessageService) Delete(ctx context.Context, requesterID, messageID int64) error {
	if messageID <= 0 {
		return fmt.Errorf("%w: invalid message id", ErrValidation)
	}
	msg, err := s.repo.GetByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, repo.ErrMessageNotFound) {
			return fmt.Errorf("%w: message", ErrNotFound)
		}
		return fmt.Errorf("failed to load message: %w", err)
	}
	if msg.SenderID != requesterID {
		return fmt.Errorf("%w: not the sender of this message", ErrForbidden)
	}
	if err := s.repo.Delete(ctx, messageID); err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	s.notifier.NotifyUser(msg.ReceiverID, realtime.EventMessageDeleted, messageID)
	return nil
}

// ListConversations derives per-counterpart summaries from the requester's
// messages: last message, unread count, sorted by recency. Nothing here is
// stored; it is recomputed per request.
func (s *MessageService) ListConversations(ctx context.Context, requesterID int64) ([]*dto.ConversationDTO, error) {
	messages, err := s.repo.ListTouching(ctx, requesterID)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}

	type summary struct {
		last   *model.Message
		unread int
	}
	order := make([]int64, 0)
	byPeer := make(map[int64]*summary)
	for _, msg := range messages {
		peer := msg.SenderID
		if msg.SenderID == requesterID {
			peer = msg.ReceiverID
		}
		sum, ok := byPeer[peer]
		if !ok {
			// Input is newest-first, so the first message seen per
			// counterpart is the conversation's last message.
			sum = &summary{last: msg}
			byPeer[peer] = sum
			order = append(order, peer)
		}
		if msg.ReceiverID == requesterID && !msg.Read {
			sum.unread++
		}
	}

	peers := make([]int64, len(order))
	copy(peers, order)
	infos, err := s.userInfos(ctx, peers)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.ConversationDTO, 0, len(order))
	for _, peer := range order {
		sum := byPeer[peer]
		out = append(out, &dto.ConversationDTO{
			User:         infos[peer],
			LastMessage:  s.populateWith(sum.last, infos),
			UnreadCount:  sum.unread,
			LastActivity: sum.last.CreatedAt,
		})
	}
	return out, nil
}

func (s *MessageService) populate(ctx context.Context, msg *model.Message) (*dto.MessageDTO, error) {
	infos, err := s.userInfos(ctx, []int64{msg.SenderID, msg.ReceiverID})
	if err != nil {
		return nil, err
	}
	return s.populateWith(msg, infos), nil
}

func (s *MessageService) populateAll(ctx context.Context, messages []*model.Message) ([]*dto.MessageDTO, error) {
	ids := make([]int64, 0, 2)
	seen := make(map[int64]bool)
	for _, msg := range messages {
		for _, id := range []int64{msg.SenderID, msg.ReceiverID} {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	infos, err := s.userInfos(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.MessageDTO, 0, len(messages))
	for _, msg := range messages {
		out = append(out, s.populateWith(msg, infos))
	}
	return out, nil
}

func (s *MessageService) populateWith(msg *model.Message, infos map[int64]*dto.UserInfo) *dto.MessageDTO {
	return &dto.MessageDTO{
		ID:        msg.ID,
		Content:   msg.Content,
		Read:      msg.Read,
		CreatedAt: msg.CreatedAt,
		Sender:    infos[msg.SenderID],
		Receiver:  infos[msg.ReceiverID],
	}
}

func (s *MessageService) userInfos(ctx context.Context, ids []int64) (map[int64]*dto.UserInfo, error) {
	users, err := s.users.GetUserInfos(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load user infos: %w", err)
	}
	infos := make(map[int64]*dto.UserInfo, len(users))
	for i := range users {
		u := users[i]
		infos[u.ID] = &dto.UserInfo{
			UserID: u.ID,
			Name:   u.Name,
			Email:  u.Email,
			Avatar: u.Avatar,
		}
	}
	return infos, nil
}
