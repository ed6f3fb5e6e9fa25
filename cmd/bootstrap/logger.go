package bootstrap

import (
	"log/slog"

	"go.uber.org/fx"

	"stay-booking/internal/handler/middleware"
	"stay-booking/internal/pkg/config"
)

var LoggerModule = fx.Module("logger",
	fx.Provide(
		NewLogger,
	),
)

func NewLogger(cfg config.Config) *slog.Logger {
	logger := middleware.NewLogger(cfg.Log).GetSlogLogger()
	slog.SetDefault(logger)
	return logger
}
