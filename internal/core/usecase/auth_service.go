package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/atvirokodosprendimai/crewdesk/internal/core/domain"
	"github.com/atvirokodosprendimai/crewdesk/internal/core/ports"
)

var ErrUnauthorized = errors.New("unauthorized")

type AuthService struct {
	repo ports.APIKeyRepository
}

func NewAuthService(repo ports.APIKeyRepository) *AuthService {
	return &AuthService{repo: repo}
}

// Authenticate resolves an API token to the user it was issued for.
func (s *AuthService) Authenticate(ctx context.Context, token string) (domain.UserContext, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.UserContext{}, ErrUnauthorized
	}

	apiKey, err := s.repo.FindByTokenHash(ctx, HashToken(token))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.UserContext{}, ErrUnauthorized
		}
		return domain.UserContext{}, err
	}
	if !apiKey.Active {
		return domain.UserContext{}, ErrUnauthorized
	}
	return apiKey.User(), nil
}

func HashToken(token string) string {
	digest := sha256.Sum256([]byte(token))
	return hex.EncodeToString(digest[:])
}
