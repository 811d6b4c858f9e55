package service

import (
	"context"

	"storefront/internal/domain"
	"storefront/internal/dto"
)

type AuthService interface {
	Register(ctx context.Context, r dto.RegisterRequest) (*dto.MessageResponse, error)
	Login(ctx context.Context, r dto.LoginRequest) (*dto.LoginResponse, error)
	RequestPasswordReset(ctx context.Context, email string) (*dto.MessageResponse, error)
	ValidateResetLink(ctx context.Context, userID domain.UserID, token string) (*dto.MessageResponse, error)
	ConsumeReset(ctx context.Context, r dto.ResetPasswordRequest) (*dto.MessageResponse, error)
	VerifyEmail(ctx context.Context, userID domain.UserID, token string) (*dto.MessageResponse, error)
}
