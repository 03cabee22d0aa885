package repo

import (
	"context"
	"errors"

	"github.com/AdventureDe/PinLink/pin/repo/model"

	"gorm.io/gorm"
)

var (
	ErrPinNotFound     = errors.New("pin not found")
	ErrCommentNotFound = errors.New("comment not found")
)

// PinRepo 接口定义
type PinRepo interface {
	Create(ctx context.Context, pin *model.Pin) error
	GetByID(ctx context.Context, pinID int64) (*model.Pin, error)
	ListAll(ctx context.Context) ([]*model.Pin, error)
	Update(ctx context.Context, pinID int64, title, description string) error
	Delete(ctx context.Context, pinID int64) error

	AddComment(ctx context.Context, comment *model.PinComment) error
	GetComment(ctx context.Context, commentID int64) (*model.PinComment, error)
	DeleteComment(ctx context.Context, commentID int64) error
	ListComments(ctx context.Context, pinID int64) ([]*model.PinComment, error)

	Like(ctx context.Context, pinID, userID int64) error
	Unlike(ctx context.Context, pinID, userID int64) error
	IsLiked(ctx context.Context, pinID, userID int64) (bool, error)
	ListLikers(ctx context.Context, pinID int64) ([]int64, error)
	ListLikedBy(ctx context.Context, userID int64) ([]*model.Pin, error)
}

type pinRepo struct {
	db *gorm.DB
}

func NewPinRepo(db *gorm.DB) PinRepo {
	return &pinRepo{db: db}
}

// AutoMigrate migrates the models owned by this package.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Pin{},
		&model.PinComment{},
		&model.PinLike{},
	)
}

func (r *pinRepo) Create(ctx context.Context, pin *model.Pin) error {
	return r.db.WithContext(ctx).Create(pin).Error
}

func (r *pinRepo) GetByID(ctx context.Context, pinID int64) (*model.Pin, error) {
	var pin model.Pin
	if err := r.db.WithContext(ctx).Where("id = ?", pinID).First(&pin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPinNotFound
		}
		return nil, err
	}
	return &pin, nil
}

func (r *pinRepo) ListAll(ctx context.Context) ([]*model.Pin, error) {
	var pins []*model.Pin
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&pins).Error; err != nil {
		return nil, err
	}
	return pins, nil
}

func (r *pinRepo) Update(ctx context.Context, pinID int64, title, description string) error {
	return r.db.WithContext(ctx).Model(&model.Pin{}).
		Where("id = ?", pinID).
		Updates(map[string]interface{}{"title": title, "description": description}).Error
}

// Delete removes the pin together with its comments and likes.
func (r *pinRepo) Delete(ctx context.Context, pinID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("pin_id = ?", pinID).Delete(&model.PinComment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("pin_id = ?", pinID).Delete(&model.PinLike{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Pin{}, pinID).Error
	})
}

func (r *pinRepo) AddComment(ctx context.Context, comment *model.PinComment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *pinRepo) GetComment(ctx context.Context, commentID int64) (*model.PinComment, error) {
	var comment model.PinComment
	if err := r.db.WithContext(ctx).Where("id = ?", commentID).First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return &comment, nil
}

func (r *pinRepo) DeleteComment(ctx context.Context, commentID int64) error {
	return r.db.WithContext(ctx).Delete(&model.PinComment{}, commentID).Error
}

func (r *pinRepo) ListComments(ctx context.Context, pinID int64) ([]*model.PinComment, error) {
	var comments []*model.PinComment
	err := r.db.WithContext(ctx).
		Where("pin_id = ?", pinID).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *pinRepo) Like(ctx context.Context, pinID, userID int64) error {
	return r.db.WithContext(ctx).Create(&model.PinLike{PinID: pinID, UserID: userID}).Error
}

func (r *pinRepo) Unlike(ctx context.Context, pinID, userID int64) error {
	return r.db.WithContext(ctx).
		Where("pin_id = ? AND user_id = ?", pinID, userID).
		Delete(&model.PinLike{}).Error
}

func (r *pinRepo) IsLiked(ctx context.Context, pinID, userID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.PinLike{}).
		Where("pin_id = ? AND user_id = ?", pinID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *pinRepo) ListLikers(ctx context.Context, pinID int64) ([]int64, error) {
	var userIDs []int64
	err := r.db.WithContext(ctx).Model(&model.PinLike{}).
		Where("pin_id = ?", pinID).
		Pluck("user_id", &userIDs).Error
	if err != nil {
		return nil, err
	}
	return userIDs, nil
}

func (r *pinRepo) ListLikedBy(ctx context.Context, userID int64) ([]*model.Pin, error) {
	var pins []*model.Pin
	err := r.db.WithContext(ctx).
		Joins("JOIN pin_likes ON pin_likes.pin_id = pins.id").
		Where("pin_likes.user_id = ?", userID).
		Order("pins.created_at DESC").
		Find(&pins).Error
	if err != nil {
		return nil, err
	}
	return pins, nil
}
