package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/AdventureDe/PinLink/user/dto"
	"github.com/AdventureDe/PinLink/user/repo"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

type UserService struct {
	repo   repo.UserRepo
	redis  repo.UserRedis
	secret string
}

func NewUserService(r repo.UserRepo, u repo.UserRedis, secret string) *UserService {
	return &UserService{
		repo:   r,
		redis:  u,
		secret: secret,
	}
}

func GenerateToken(userID string, secret string) (string, error) {
	claims := jwt.MapClaims{
		"userID": userID,
		"exp":    time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// IssueToken mints a token for userID and records the backing session.
// Login itself (credentials, OTP, OAuth) is handled by an external service;
// this is the piece the rest of the server needs.
func (s *UserService) IssueToken(ctx context.Context, userID int64) (string, error) {
	token, err := GenerateToken(strconv.FormatInt(userID, 10), s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	session := &dto.UserSession{
		UserID:    userID,
		Token:     token,
		LoginTime: time.Now(),
	}
	if err := s.redis.SetSession(ctx, session); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	return token, nil
}

// ParseToken validates the signature and expiry and returns the user id.
func (s *UserService) ParseToken(tokenString string) (int64, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.secret), nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrInvalidToken
	}
	raw, ok := claims["userID"].(string)
	if !ok {
		return 0, ErrInvalidToken
	}
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return userID, nil
}

// Authenticate resolves a token to a user id, rejecting tokens whose
// session has been revoked.
func (s *UserService) Authenticate(ctx context.Context, tokenString string) (int64, error) {
	userID, err := s.ParseToken(tokenString)
	if err != nil {
		return 0, err
	}
	session, err := s.redis.GetSession(ctx, userID)
	if err != nil {
		return 0, ErrInvalidToken
	}
	if session.Token != tokenString {
		return 0, ErrInvalidToken
	}
	return userID, nil
}

func (s *UserService) Logout(ctx context.Context, userID int64) error {
	if err := s.redis.DelSession(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (s *UserService) GetUserInfo(ctx context.Context, userID int64) (*repo.User, error) {
	user, err := s.repo.GetUserInfo(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}
	return user, nil
}
