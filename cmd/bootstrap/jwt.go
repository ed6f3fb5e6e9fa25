package bootstrap

import (
	"time"

	"go.uber.org/fx"

	"stay-booking/internal/pkg/config"
	"stay-booking/internal/pkg/jwt"
)

var JWTModule = fx.Module("jwt",
	fx.Provide(
		NewJWTService,
	),
)

// only bounds tokens minted by local tooling; verification uses the token's own exp
const issuedTokenDuration = time.Hour

func NewJWTService(cfg config.Config) *jwt.Service {
	return jwt.NewService(cfg.JWT.Secret, issuedTokenDuration)
}
