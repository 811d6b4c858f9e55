package impl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"storefront/internal/domain"
	"storefront/internal/dto"
	"storefront/internal/observability/metrics"
	"storefront/internal/observability/middleware"
	"storefront/internal/service"
	"storefront/internal/store"
)

const (
	MsgVerificationSent  = "Verification token has been sent to your email, please verify your email account"
	MsgResetLinkSent     = "Password reset link has been sent to your email, please check your inbox"
	MsgValidLink         = "valid link"
	MsgPasswordReset     = "Password reset successfully, please log in"
	MsgEmailVerified     = "Your email has been verified, please log in to your account"
	dummyPasswordForHash = "storefront-timing-equalizer"
)

type AuthConfig struct {
	AppDomain    string // base of the verification link, e.g. http://localhost:5000
	ClientDomain string // base of the reset link, e.g. http://localhost:3000
}

type AuthServiceImpl struct {
	Users           userStore
	PasswordService service.PasswordService
	TService        service.TokenService
	Mailer          service.EmailService
	cfg             AuthConfig
	dummyHash       string
}

type userStore interface {
	Create(ctx context.Context, usr *domain.User) error
	GetByID(ctx context.Context, id domain.UserID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	SetVerificationToken(ctx context.Context, id domain.UserID, token string) error
	SetResetToken(ctx context.Context, id domain.UserID, token string) error
	ConsumeResetToken(ctx context.Context, id domain.UserID, token, passwordHash string) error
	MarkEmailVerified(ctx context.Context, id domain.UserID, token string) error
}

func NewAuthServiceImpl(st *store.Store, passwordService service.PasswordService, tokenService service.TokenService, mailer service.EmailService, cfg AuthConfig) (*AuthServiceImpl, error) {
	return newAuthService(st.Users(), passwordService, tokenService, mailer, cfg)
}

func newAuthService(users userStore, passwordService service.PasswordService, tokenService service.TokenService, mailer service.EmailService, cfg AuthConfig) (*AuthServiceImpl, error) {
	// Unknown emails are checked against this hash so both login failures cost the same.
	dummy, err := passwordService.Hash(dummyPasswordForHash)
	if err != nil {
		return nil, fmt.Errorf("timing equalizer hash: %w", err)
	}
	if dummy == "" {
		return nil, errors.New("timing equalizer hash: empty hash")
	}
	return &AuthServiceImpl{
		Users:           users,
		PasswordService: passwordService,
		TService:        tokenService,
		Mailer:          mailer,
		cfg: AuthConfig{
			AppDomain:    strings.TrimRight(cfg.AppDomain, "/"),
			ClientDomain: strings.TrimRight(cfg.ClientDomain, "/"),
		},
		dummyHash: dummy,
	}, nil
}

func (a *AuthServiceImpl) verificationLink(id domain.UserID, token string) string {
	return fmt.Sprintf("%s/api/users/verify-email/%d/%s", a.cfg.AppDomain, id, token)
}

func (a *AuthServiceImpl) resetLink(id domain.UserID, token string) string {
	return fmt.Sprintf("%s/reset-password/%d/%s", a.cfg.ClientDomain, id, token)
}

func (a *AuthServiceImpl) Register(ctx context.Context, r dto.RegisterRequest) (*dto.MessageResponse, error) {
	result := "success"
	defer func() {
		metrics.AuthRegistrationsTotal.WithLabelValues(result).Inc()
	}()

	if _, err := a.Users.GetByEmail(ctx, r.Email); err == nil {
		result = "duplicate"
		return nil, domain.ErrDuplicateEmail
	} else if !errors.Is(err, store.ErrRecordNotFound) {
		result = "failure"
		return nil, err
	}

	hash, err := a.PasswordService.Hash(r.Password)
	if err != nil {
		result = "failure"
		return nil, err
	}
	token, err := newSecureToken()
	if err != nil {
		result = "failure"
		return nil, err
	}

	u := &domain.User{
		Email:             r.Email,
		Password:          hash,
		Role:              domain.RoleNormalUser,
		VerificationToken: &token,
	}
	if name := strings.TrimSpace(r.Username); name != "" {
		u.Username = &name
	}
	if err := a.Users.Create(ctx, u); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			result = "duplicate"
			return nil, domain.ErrDuplicateEmail
		}
		result = "failure"
		return nil, err
	}

	slog.Info("user registered",
		"user_id", u.ID,
		"request_id", middleware.RequestIDFromContext(ctx),
		"trace_id", middleware.TraceIDFromContext(ctx),
	)

	// The account stays stored if the mail fails; login resends the link.
	if err := a.Mailer.SendVerification(ctx, u.Email, a.verificationLink(u.ID, token)); err != nil {
		result = "mail_failure"
		return nil, mailFailure(err)
	}
	return dto.Message(MsgVerificationSent), nil
}

func (a *AuthServiceImpl) Login(ctx context.Context, r dto.LoginRequest) (*dto.LoginResponse, error) {
	result := "success"
	defer func() {
		metrics.AuthLoginsTotal.WithLabelValues(result).Inc()
	}()
	reqID := middleware.RequestIDFromContext(ctx)
	traceID := middleware.TraceIDFromContext(ctx)

	user, err := a.Users.GetByEmail(ctx, r.Email)
	if err != nil {
		if !errors.Is(err, store.ErrRecordNotFound) {
			result = "failure"
			return nil, err
		}
		a.PasswordService.Verify(r.Password, a.dummyHash)
		result = "invalid_credentials"
		return nil, domain.ErrInvalidCredentials // don't leak which field failed
	}
	if !a.PasswordService.Verify(r.Password, user.Password) {
		result = "invalid_credentials"
		return nil, domain.ErrInvalidCredentials
	}

	if !user.IsAccountVerified {
		token := ""
		if user.VerificationToken != nil {
			token = *user.VerificationToken
		}
		if token == "" {
			if token, err = newSecureToken(); err != nil {
				result = "failure"
				return nil, err
			}
			if err := a.Users.SetVerificationToken(ctx, user.ID, token); err != nil {
				result = "failure"
				return nil, err
			}
		}
		if err := a.Mailer.SendVerification(ctx, user.Email, a.verificationLink(user.ID, token)); err != nil {
			result = "mail_failure"
			return nil, mailFailure(err)
		}
		result = "pending_verification"
		slog.Info("login blocked until email verified", "user_id", user.ID, "request_id", reqID, "trace_id", traceID)
		return &dto.LoginResponse{Message: MsgVerificationSent}, nil
	}

	accessToken, err := a.TService.Issue(ctx, domain.Claims{ID: user.ID, Role: user.Role})
	if err != nil {
		result = "failure"
		return nil, err
	}
	slog.Info("user logged in", "user_id", user.ID, "request_id", reqID, "trace_id", traceID)
	return &dto.LoginResponse{
		Email:       user.Email,
		Username:    user.DisplayName(),
		AccessToken: accessToken,
	}, nil
}

func (a *AuthServiceImpl) RequestPasswordReset(ctx context.Context, email string) (*dto.MessageResponse, error) {
	result := "success"
	defer func() {
		metrics.PasswordResetsTotal.WithLabelValues("request", result).Inc()
	}()

	user, err := a.Users.GetByEmail(ctx, email)
	if err != nil {
		result = "failure"
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	token, err := newSecureToken()
	if err != nil {
		result = "failure"
		return nil, err
	}
	// Overwrites any earlier pending token.
	if err := a.Users.SetResetToken(ctx, user.ID, token); err != nil {
		result = "failure"
		return nil, err
	}
	if err := a.Mailer.SendPasswordReset(ctx, user.Email, a.resetLink(user.ID, token)); err != nil {
		result = "mail_failure"
		return nil, mailFailure(err)
	}

	slog.Info("password reset requested",
		"user_id", user.ID,
		"request_id", middleware.RequestIDFromContext(ctx),
		"trace_id", middleware.TraceIDFromContext(ctx),
	)
	return dto.Message(MsgResetLinkSent), nil
}

// checkResetToken loads the user and fails with ErrInvalidLink unless the
// pending reset token equals token.
func (a *AuthServiceImpl) checkResetToken(ctx context.Context, id domain.UserID, token string) (*domain.User, error) {
	user, err := a.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, domain.ErrInvalidLink
		}
		return nil, err
	}
	if !tokenMatches(user.ResetPasswordToken, token) {
		return nil, domain.ErrInvalidLink
	}
	return user, nil
}

func (a *AuthServiceImpl) ValidateResetLink(ctx context.Context, userID domain.UserID, token string) (*dto.MessageResponse, error) {
	if _, err := a.checkResetToken(ctx, userID, token); err != nil {
		metrics.PasswordResetsTotal.WithLabelValues("check", "failure").Inc()
		return nil, err
	}
	metrics.PasswordResetsTotal.WithLabelValues("check", "success").Inc()
	return dto.Message(MsgValidLink), nil
}

func (a *AuthServiceImpl) ConsumeReset(ctx context.Context, r dto.ResetPasswordRequest) (*dto.MessageResponse, error) {
	result := "success"
	defer func() {
		metrics.PasswordResetsTotal.WithLabelValues("consume", result).Inc()
	}()

	user, err := a.checkResetToken(ctx, r.UserID, r.ResetPasswordToken)
	if err != nil {
		result = "failure"
		return nil, err
	}
	hash, err := a.PasswordService.Hash(r.NewPassword)
	if err != nil {
		result = "failure"
		return nil, err
	}
	if err := a.Users.ConsumeResetToken(ctx, user.ID, r.ResetPasswordToken, hash); err != nil {
		result = "failure"
		if errors.Is(err, store.ErrStaleToken) {
			return nil, domain.ErrInvalidLink
		}
		return nil, err
	}

	slog.Info("password reset completed",
		"user_id", user.ID,
		"request_id", middleware.RequestIDFromContext(ctx),
		"trace_id", middleware.TraceIDFromContext(ctx),
	)
	return dto.Message(MsgPasswordReset), nil
}

func (a *AuthServiceImpl) VerifyEmail(ctx context.Context, userID domain.UserID, token string) (*dto.MessageResponse, error) {
	result := "success"
	defer func() {
		metrics.EmailVerificationsTotal.WithLabelValues(result).Inc()
	}()

	user, err := a.Users.GetByID(ctx, userID)
	if err != nil {
		result = "failure"
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	if user.VerificationToken == nil || *user.VerificationToken == "" {
		result = "not_pending"
		return nil, domain.ErrNoVerificationPending
	}
	if !tokenMatches(user.VerificationToken, token) {
		result = "invalid_link"
		return nil, domain.ErrInvalidLink
	}

	if err := a.Users.MarkEmailVerified(ctx, user.ID, token); err != nil {
		if !errors.Is(err, store.ErrStaleToken) {
			result = "failure"
			return nil, err
		}
		// Lost a race with another verification or a resend.
		current, getErr := a.Users.GetByID(ctx, user.ID)
		if getErr == nil && current.VerificationToken == nil {
			result = "not_pending"
			return nil, domain.ErrNoVerificationPending
		}
		result = "invalid_link"
		return nil, domain.ErrInvalidLink
	}

	slog.Info("email verified",
		"user_id", user.ID,
		"request_id", middleware.RequestIDFromContext(ctx),
		"trace_id", middleware.TraceIDFromContext(ctx),
	)
	return dto.Message(MsgEmailVerified), nil
}
