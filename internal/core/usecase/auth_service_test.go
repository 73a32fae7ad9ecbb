package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/atvirokodosprendimai/crewdesk/internal/core/domain"
)

type stubAPIKeyRepo struct {
	findFn func(ctx context.Context, tokenHash string) (domain.APIKey, error)
}

func (s *stubAPIKeyRepo) FindByTokenHash(ctx context.Context, tokenHash string) (domain.APIKey, error) {
	if s.findFn != nil {
		return s.findFn(ctx, tokenHash)
	}
	return domain.APIKey{}, domain.ErrNotFound
}

func (s *stubAPIKeyRepo) Upsert(context.Context, domain.APIKey) error { return nil }

func TestAuthServiceAuthenticateSuccess(t *testing.T) {
	repo := &stubAPIKeyRepo{findFn: func(_ context.Context, tokenHash string) (domain.APIKey, error) {
		if tokenHash != HashToken("token-1") {
			t.Fatalf("unexpected token hash: %s", tokenHash)
		}
		return domain.APIKey{UserID: "u-1", UserEmail: "ops@example.com", Active: true, CreatedAt: time.Now()}, nil
	}}

	svc := NewAuthService(repo)
	user, err := svc.Authenticate(context.Background(), "token-1")
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if user.UserID != "u-1" || user.Email != "ops@example.com" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestAuthServiceAuthenticateUnauthorized(t *testing.T) {
	svc := NewAuthService(&stubAPIKeyRepo{})
	_, err := svc.Authenticate(context.Background(), "")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestAuthServiceAuthenticateInactiveKey(t *testing.T) {
	repo := &stubAPIKeyRepo{findFn: func(context.Context, string) (domain.APIKey, error) {
		return domain.APIKey{UserID: "u-1", UserEmail: "ops@example.com", Active: false}, nil
	}}
	_, err := NewAuthService(repo).Authenticate(context.Background(), "token-1")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}
