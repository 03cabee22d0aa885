package repo

import (
	"context"
	"errors"

	"github.com/AdventureDe/PinLink/message/repo/model"

	"gorm.io/gorm"
)

var ErrMessageNotFound = errors.New("message not found")

// MessageRepo 接口定义
type MessageRepo interface {
	Create(ctx context.Context, msg *model.Message) error
	GetByID(ctx context.Context, messageID int64) (*model.Message, error)
	// ListBetween returns every message exchanged between the two users,
	// oldest first.
	ListBetween(ctx context.Context, userA, userB int64) ([]*model.Message, error)
	// MarkConversationRead flips every unread message from sender to
	// receiver in one statement and reports how many rows changed.
	MarkConversationRead(ctx context.Context, senderID, receiverID int64) (int64, error)
	MarkRead(ctx context.Context, messageID int64) error
	Delete(ctx context.Context, messageID int64) error
	// ListTouching returns every message the user sent or received,
	// newest first. Conversation summaries are derived from it per
	// request; there is no conversation table.
	ListTouching(ctx context.Context, userID int64) ([]*model.Message, error)
}

type messageRepo struct {
	db *gorm.DB
}

func NewMessageRepo(db *gorm.DB) MessageRepo {
	return &messageRepo{db: db}
}

// AutoMigrate migrates the models owned by this package.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&model.Message{})
}

func (r *messageRepo) Create(ctx context.Context, msg *model.Message) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *messageRepo) GetByID(ctx context.Context, messageID int64) (*model.Message, error) {
	var msg model.Message
	if err := r.db.WithContext(ctx).Where("id = ?", messageID).First(&msg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	return &msg, nil
}

func (r *messageRepo) ListBetween(ctx context.Context, userA, userB int64) ([]*model.Message, error) {
	var messages []*model.Message
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userA, userB, userB, userA).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *messageRepo) MarkConversationRead(ctx context.Context, senderID, receiverID int64) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND read = ?", senderID, receiverID, false).
		Update("read", true)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *messageRepo) MarkRead(ctx context.Context, messageID int64) error {
	return r.db.WithContext(ctx).Model(&model.Message{}).
		Where("id = ?", messageID).
		Update("read", true).Error
}

func (r *messageRepo) Delete(ctx context.Context, messageID int64) error {
	return r.db.WithContext(ctx).Delete(&model.Message{}, messageID).Error
}

func (r *messageRepo) ListTouching(ctx context.Context, userID int64) ([]*model.Message, error) {
	var messages []*model.Message
	err := r.db.WithContext(ctx).
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at DESC, id DESC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}
