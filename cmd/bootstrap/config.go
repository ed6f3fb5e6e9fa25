package bootstrap

import (
	"go.uber.org/fx"

	"stay-booking/internal/pkg/config"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
	),
)
