package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/AdventureDe/PinLink/pin/repo"
	"github.com/AdventureDe/PinLink/pin/repo/model"
	userrepo "github.com/AdventureDe/PinLink/user/repo"

	"go.uber.org/zap"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrForbidden  = errors.New("forbidden")
	ErrNotFound   = errors.New("not found")
)

// ImageStore is the external object-store/CDN collaborator. Uploads happen
// outside this process; the server only asks it to drop images when their
// pin goes away.
type ImageStore interface {
	Destroy(ctx context.Context, imageID string) error
}

// UnmanagedImageStore is the default collaborator when no object store is
// wired: deletions are logged and left to out-of-band cleanup.
type UnmanagedImageStore struct {
	Logger *zap.Logger
}

func (s UnmanagedImageStore) Destroy(_ context.Context, imageID string) error {
	if s.Logger != nil {
		s.Logger.Info("image deletion delegated to external store", zap.String("image_id", imageID))
	}
	return nil
}

type PinService struct {
	repo   repo.PinRepo
	users  userrepo.UserRepo
	images ImageStore
	logger *zap.Logger
}

func NewPinService(r repo.PinRepo, u userrepo.UserRepo, img ImageStore, logger *zap.Logger) *PinService {
	return &PinService{
		repo:   r,
		users:  u,
		images: img,
		logger: logger,
	}
}

func (s *PinService) Create(ctx context.Context, ownerID int64, title, description, imageID, imageURL string) (*model.Pin, error) {
	if strings.TrimSpace(title) == "" || imageID == "" || imageURL == "" {
		return nil, fmt.Errorf("%w: title and image are required", ErrValidation)
	}
	pin := &model.Pin{
		Title:       title,
		Description: description,
		ImageID:     imageID,
		ImageURL:    imageURL,
		OwnerID:     ownerID,
	}
	if err := s.repo.Create(ctx, pin); err != nil {
		return nil, fmt.Errorf("failed to create pin: %w", err)
	}
	return pin, nil
}

func (s *PinService) Get(ctx context.Context, pinID int64) (*model.Pin, []*model.PinComment, error) {
	pin, err := s.getPin(ctx, pinID)
	if err != nil {
		return nil, nil, err
	}
	comments, err := s.repo.ListComments(ctx, pinID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load comments: %w", err)
	}
	return pin, comments, nil
}

func (s *PinService) ListAll(ctx context.Context) ([]*model.Pin, error) {
	pins, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load pins: %w", err)
	}
	return pins, nil
}

func (s *PinService) Update(ctx context.Context, requesterID, pinID int64, title, description string) error {
	pin, err := s.getPin(ctx, pinID)
	if err != nil {
		return err
	}
	if pin.OwnerID != requesterID {
		return fmt.Errorf("%w: not the owner of this pin", ErrForbidden)
	}
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if err := s.repo.Update(ctx, pinID, title, description); err != nil {
		return fmt.Errorf("failed to update pin: %w", err)
	}
	return nil
}

func (s *PinService) Delete(ctx context.Context, requesterID, pinID int64) error {
	pin, err := s.getPin(ctx, pinID)
	if err != nil {
		return err
	}
	if pin.OwnerID != requesterID {
		return fmt.Errorf("%w: not the owner of this pin", ErrForbidden)
	}
	if err := s.repo.Delete(ctx, pinID); err != nil {
		return fmt.Errorf("failed to delete pin: %w", err)
	}
	// Best effort; the row is already gone.
	if err := s.images.Destroy(ctx, pin.ImageID); err != nil {
		s.logger.Warn("failed to destroy image", zap.String("image_id", pin.ImageID), zap.Error(err))
	}
	return nil
}

func (s *PinService) Comment(ctx context.Context, requesterID, pinID int64, text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: comment is required", ErrValidation)
	}
	if _, err := s.getPin(ctx, pinID); err != nil {
		return err
	}
	user, err := s.users.GetUserInfo(ctx, requesterID)
	if err != nil {
		return fmt.Errorf("failed to load commenter: %w", err)
	}
	comment := &model.PinComment{
		PinID:   pinID,
		UserID:  requesterID,
		Name:    user.Name,
		Comment: text,
	}
	if err := s.repo.AddComment(ctx, comment); err != nil {
		return fmt.Errorf("failed to add comment: %w", err)
	}
	return nil
}

func (s *PinService) DeleteComment(ctx context.Context, requesterID, commentID int64) error {
	comment, err := s.repo.GetComment(ctx, commentID)
	if err != nil {
		if errors.Is(err, repo.ErrCommentNotFound) {
			return fmt.Errorf("%w: comment", ErrNotFound)
		}
		return fmt.Errorf("failed to load comment: %w", err)
	}
	if comment.UserID != requesterID {
		return fmt.Errorf("%w: not the owner of this comment", ErrForbidden)
	}
	if err := s.repo.DeleteComment(ctx, commentID); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}

// ToggleLike likes the pin, or unlikes it when already liked. Returns true
// when the pin ends up liked.
func (s *PinService) ToggleLike(ctx context.Context, requesterID, pinID int64) (bool, error) {
	if _, err := s.getPin(ctx, pinID); err != nil {
		return false, err
	}
	liked, err := s.repo.IsLiked(ctx, pinID, requesterID)
	if err != nil {
		return false, fmt.Errorf("failed to check like: %w", err)
	}
	if liked {
		if err := s.repo.Unlike(ctx, pinID, requesterID); err != nil {
			return false, fmt.Errorf("failed to unlike pin: %w", err)
		}
		return false, nil
	}
	if err := s.repo.Like(ctx, pinID, requesterID); err != nil {
		return false, fmt.Errorf("failed to like pin: %w", err)
	}
	return true, nil
}

func (s *PinService) ListLikers(ctx context.Context, pinID int64) ([]userrepo.User, error) {
	if _, err := s.getPin(ctx, pinID); err != nil {
		return nil, err
	}
	userIDs, err := s.repo.ListLikers(ctx, pinID)
	if err != nil {
		return nil, fmt.Errorf("failed to load likers: %w", err)
	}
	users, err := s.users.GetUserInfos(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load liker profiles: %w", err)
	}
	return users, nil
}

func (s *PinService) getPin(ctx context.Context, pinID int64) (*model.Pin, error) {
	pin, err := s.repo.GetByID(ctx, pinID)
	if err != nil {
		if errors.Is(err, repo.ErrPinNotFound) {
			return nil, fmt.Errorf("%w: pin", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load pin: %w", err)
	}
	return pin, nil
}
