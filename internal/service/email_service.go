package service

import "context"

type EmailService interface {
	SendVerification(ctx context.Context, to string, link string) error
	SendPasswordReset(ctx context.Context, to string, link string) error
}
