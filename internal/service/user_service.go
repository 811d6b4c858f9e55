package service

import (
	"context"
	"io"

	"storefront/internal/domain"
	"storefront/internal/dto"
)

// Upload is an image received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type UserService interface {
	GetCurrentUser(ctx context.Context, id domain.UserID) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, id domain.UserID, r dto.UpdateUserRequest) (*domain.User, error)
	Delete(ctx context.Context, targetID domain.UserID, actor domain.Claims) (*dto.MessageResponse, error)
	SetProfileImage(ctx context.Context, id domain.UserID, file Upload) (*domain.User, error)
	RemoveProfileImage(ctx context.Context, id domain.UserID) (*domain.User, error)
	OpenProfileImage(ctx context.Context, name string) (io.ReadCloser, string, error)
}
