package impl

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront/internal/domain"
)

func newTestTokenService(t *testing.T, ttl time.Duration) *TokenServiceImpl {
	t.Helper()
	svc, err := NewTokenServiceHS256(TokenConfig{Issuer: "storefront", AccessTTL: ttl, SigningKey: []byte("test-secret-0123456789")})
	if err != nil {
		t.Fatalf("new token service: %v", err)
	}
	return svc
}

func TestTokenIssueVerify(t *testing.T) {
	svc := newTestTokenService(t, time.Hour)
	want := domain.Claims{ID: 7, Role: domain.RoleAdmin}

	tok, err := svc.Issue(context.Background(), want)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	got, err := svc.Verify(tok)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestTokenVerifyRejects(t *testing.T) {
	svc := newTestTokenService(t, time.Hour)
	expiredSvc := newTestTokenService(t, time.Hour)
	expiredSvc.cfg.AccessTTL = -time.Minute

	expired, _ := expiredSvc.Issue(context.Background(), domain.Claims{ID: 1, Role: domain.RoleNormalUser})
	forged, _ := expiredSvc.signer.Sign("1", time.Hour, map[string]any{"uid": 1, "role": "superuser"})
	mismatched, _ := svc.signer.Sign("2", time.Hour, map[string]any{"uid": 1, "role": "admin"})
	valid, _ := svc.Issue(context.Background(), domain.Claims{ID: 1, Role: domain.RoleNormalUser})
	tampered := []byte(valid)
	i := len(tampered) - 10
	if tampered[i] == 'A' {
		tampered[i] = 'B'
	} else {
		tampered[i] = 'A'
	}

	for name, tok := range map[string]string{
		"expired":          expired,
		"unknown role":     forged,
		"subject mismatch": mismatched,
		"tampered":         string(tampered),
		"garbage":          "abc",
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := svc.Verify(tok); !errors.Is(err, domain.ErrUnauthenticated) {
				t.Fatalf("expected unauthenticated, got %v", err)
			}
		})
	}
}
