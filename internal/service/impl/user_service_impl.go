package impl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"storefront/internal/authz"
	"storefront/internal/domain"
	"storefront/internal/dto"
	"storefront/internal/observability/middleware"
	"storefront/internal/service"
	"storefront/internal/storage"
	"storefront/internal/store"
)

const MsgUserDeleted = "User has been deleted successfully"

type UserServiceImpl struct {
	store           *store.Store
	PasswordService service.PasswordService
	Images          storage.ImageStore
}

func NewUserServiceImpl(st *store.Store, passwordService service.PasswordService, images storage.ImageStore) *UserServiceImpl {
	return &UserServiceImpl{store: st, PasswordService: passwordService, Images: images}
}

func (s *UserServiceImpl) GetCurrentUser(ctx context.Context, id domain.UserID) (*domain.User, error) {
	u, err := s.store.Users().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *UserServiceImpl) List(ctx context.Context) ([]*domain.User, error) {
	return s.store.Users().List(ctx)
}

func (s *UserServiceImpl) Update(ctx context.Context, id domain.UserID, r dto.UpdateUserRequest) (*domain.User, error) {
	fields := map[string]any{}
	if r.Username != nil {
		name := strings.TrimSpace(*r.Username)
		if name == "" {
			return nil, fmt.Errorf("%w: username must not be blank", domain.ErrInvalidInput)
		}
		fields["username"] = name
	}
	if r.Password != nil {
		hash, err := s.PasswordService.Hash(*r.Password)
		if err != nil {
			return nil, err
		}
		fields["password"] = hash
	}
	if err := s.store.Users().Update(ctx, id, fields); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return s.GetCurrentUser(ctx, id)
}

func (s *UserServiceImpl) Delete(ctx context.Context, targetID domain.UserID, actor domain.Claims) (*dto.MessageResponse, error) {
	target, err := s.GetCurrentUser(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, target.ID, true); err != nil {
		return nil, err
	}

	counts, err := s.store.DeleteUserData(ctx, target.ID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	if target.ProfileImage != nil {
		s.dropImage(ctx, *target.ProfileImage)
	}

	slog.Info("user deleted",
		"user_id", target.ID,
		"actor_id", actor.ID,
		"deleted", counts,
		"request_id", middleware.RequestIDFromContext(ctx),
		"trace_id", middleware.TraceIDFromContext(ctx),
	)
	return dto.Message(MsgUserDeleted), nil
}

func (s *UserServiceImpl) SetProfileImage(ctx context.Context, id domain.UserID, file service.Upload) (*domain.User, error) {
	if file.Size > storage.MaxImageSize {
		return nil, domain.ErrFileTooLarge
	}
	if !storage.IsImageContentType(file.ContentType) {
		return nil, domain.ErrUnsupportedContentType
	}
	// The declared type is the client's claim; the bytes decide.
	contentType, body, err := storage.SniffImage(file.Body)
	if err != nil {
		return nil, err
	}
	user, err := s.GetCurrentUser(ctx, id)
	if err != nil {
		return nil, err
	}

	name := storage.NewObjectName(contentType)
	if err := s.Images.Save(ctx, name, contentType, body); err != nil {
		return nil, err
	}
	if err := s.store.Users().SetProfileImage(ctx, id, &name); err != nil {
		s.dropImage(ctx, name)
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	if user.ProfileImage != nil {
		s.dropImage(ctx, *user.ProfileImage)
	}
	user.ProfileImage = &name
	return user, nil
}

func (s *UserServiceImpl) RemoveProfileImage(ctx context.Context, id domain.UserID) (*domain.User, error) {
	user, err := s.GetCurrentUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.ProfileImage == nil {
		return nil, domain.ErrNoProfileImage
	}
	if err := s.Images.Delete(ctx, *user.ProfileImage); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}
	if err := s.store.Users().SetProfileImage(ctx, id, nil); err != nil {
		return nil, err
	}
	user.ProfileImage = nil
	return user, nil
}

func (s *UserServiceImpl) OpenProfileImage(ctx context.Context, name string) (io.ReadCloser, string, error) {
	rc, ct, err := s.Images.Open(ctx, name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidName) {
			return nil, "", domain.ErrImageNotFound
		}
		return nil, "", err
	}
	return rc, ct, nil
}

// dropImage removes a stored image that is no longer referenced.
func (s *UserServiceImpl) dropImage(ctx context.Context, name string) {
	if err := s.Images.Delete(ctx, name); err != nil && !errors.Is(err, storage.ErrNotFound) {
		slog.Warn("failed to delete profile image",
			"image", name,
			"error", err,
			"request_id", middleware.RequestIDFromContext(ctx),
			"trace_id", middleware.TraceIDFromContext(ctx),
		)
	}
}
