//go:build unit || e2e

package authtest

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"stay-booking/internal/domain/user"
	"stay-booking/internal/pkg/config"
	"stay-booking/internal/pkg/jwt"
)

type JWTHelper struct {
	cfg config.JWTConfig
}

func NewJWTHelper(cfg config.JWTConfig) *JWTHelper {
	return &JWTHelper{cfg: cfg}
}

func (h *JWTHelper) GenerateToken(t *testing.T, userID uuid.UUID, role user.Role) string {
	t.Helper()
	service := jwt.NewService(h.cfg.Secret, time.Hour)
	token, err := service.GenerateToken(userID, role)
	require.NoError(t, err)
	return token
}

func (h *JWTHelper) CreateExpiredToken(t *testing.T, userID uuid.UUID, role user.Role) string {
	t.Helper()
	service := jwt.NewService(h.cfg.Secret, time.Millisecond)
	token, err := service.GenerateToken(userID, role)
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	return token
}

// Identity is a caller with a signed token.
type Identity struct {
	ID    uuid.UUID
	Role  user.Role
	Token string
}

func (h *JWTHelper) NewIdentity(t *testing.T, role user.Role) Identity {
	t.Helper()
	id := uuid.New()
	return Identity{ID: id, Role: role, Token: h.GenerateToken(t, id, role)}
}

func (h *JWTHelper) IdentityFor(t *testing.T, id uuid.UUID, role user.Role) Identity {
	t.Helper()
	return Identity{ID: id, Role: role, Token: h.GenerateToken(t, id, role)}
}
