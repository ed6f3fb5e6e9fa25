package bootstrap

import (
	"go.uber.org/fx"

	"stay-booking/internal/infra/metrics"
	"stay-booking/internal/usecase/shared"
)

var MetricsModule = fx.Module("metrics",
	fx.Provide(
		fx.Annotate(
			metrics.NewRecorder,
			fx.As(new(shared.Metrics)),
		),
	),
)
