package impl

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"storefront/internal/domain"
	"storefront/internal/jwtsigner"
	"storefront/internal/observability/metrics"
	"storefront/internal/observability/middleware"

	"github.com/golang-jwt/jwt/v5"
)

type TokenConfig struct {
	Issuer     string        // e.g. "storefront"
	AccessTTL  time.Duration // e.g. 24h
	SigningKey []byte        // HS256 secret
}

type AccessClaims struct {
	UID  domain.UserID `json:"uid"`
	Role domain.Role   `json:"role"`
	jwt.RegisteredClaims
}

type TokenServiceImpl struct {
	cfg    TokenConfig
	signer *jwtsigner.Signer
}

func NewTokenServiceHS256(cfg TokenConfig) (*TokenServiceImpl, error) {
	signer, err := jwtsigner.NewHS256(cfg.SigningKey, cfg.Issuer)
	if err != nil {
		return nil, err
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 24 * time.Hour
	}
	return &TokenServiceImpl{cfg: cfg, signer: signer}, nil
}

func (t *TokenServiceImpl) Issue(ctx context.Context, claims domain.Claims) (string, error) {
	result := "success"
	defer func() {
		metrics.TokensIssuedTotal.WithLabelValues("issue", result).Inc()
	}()

	token, err := t.signer.Sign(strconv.FormatInt(claims.ID, 10), t.cfg.AccessTTL, map[string]any{
		"uid":  claims.ID,
		"role": string(claims.Role),
	})
	if err != nil {
		result = "failure"
		return "", err
	}

	slog.Info("issued access token",
		"user_id", claims.ID,
		"role", claims.Role,
		"request_id", middleware.RequestIDFromContext(ctx),
		"trace_id", middleware.TraceIDFromContext(ctx),
	)
	return token, nil
}

func (t *TokenServiceImpl) Verify(token string) (domain.Claims, error) {
	var c AccessClaims
	if err := t.signer.Parse(token, &c); err != nil {
		metrics.TokensIssuedTotal.WithLabelValues("verify", "failure").Inc()
		return domain.Claims{}, ErrInvalidToken
	}
	if !c.Role.Valid() || c.Subject != strconv.FormatInt(c.UID, 10) {
		metrics.TokensIssuedTotal.WithLabelValues("verify", "failure").Inc()
		return domain.Claims{}, ErrInvalidToken
	}
	return domain.Claims{ID: c.UID, Role: c.Role}, nil
}
