package repo

import (
	"context"
	"errors"

	"github.com/AdventureDe/PinLink/user/repo/model"

	"gorm.io/gorm"
)

// User 代表一个用户实体 用于数据访问操作 用于简单的函数返回 不要用于数据库操作
type User struct {
	ID     int64
	Name   string
	Email  string
	Avatar string
}

var ErrUserNotFound = errors.New("user not found")

// UserRepo 接口定义
type UserRepo interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserInfo(ctx context.Context, userID int64) (*User, error)
	GetUserInfos(ctx context.Context, userIDs []int64) ([]User, error)
	Exists(ctx context.Context, userID int64) (bool, error)
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepo {
	return &userRepo{db: db}
}

func (r *userRepo) CreateUser(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepo) GetUserInfo(ctx context.Context, userID int64) (*User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return toUser(&user), nil
}

func (r *userRepo) GetUserInfos(ctx context.Context, userIDs []int64) ([]User, error) {
	if len(userIDs) == 0 {
		return []User{}, nil
	}

	var users []model.User
	if err := r.db.WithContext(ctx).Where("id IN ?", userIDs).Find(&users).Error; err != nil {
		return nil, err
	}

	out := make([]User, 0, len(users))
	for i := range users {
		out = append(out, *toUser(&users[i]))
	}
	return out, nil
}

func (r *userRepo) Exists(ctx context.Context, userID int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func toUser(m *model.User) *User {
	return &User{
		ID:     m.ID,
		Name:   m.Name,
		Email:  m.Email,
		Avatar: m.Avatar,
	}
}
