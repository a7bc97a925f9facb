package observability

import (
	"github.com/AbdelrahmanM1/invoicemaker/internal/observability/logger"
	"github.com/AbdelrahmanM1/invoicemaker/internal/observability/metrics"
	"github.com/AbdelrahmanM1/invoicemaker/internal/observability/tracing"
	"go.uber.org/fx"
)

var Module = fx.Module("observability",
	logger.Module,
	tracing.Module,
	metrics.Module,
)
