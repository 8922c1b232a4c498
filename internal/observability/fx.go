package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/railzwaylabs/idsrvctl/internal/config"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var Module = fx.Module("observability",
	fx.Provide(NewLogger),
	fx.Provide(newRegistry),
	fx.Provide(NewMetrics),
	fx.Invoke(registerTextfileExport),
)

// WithLogger routes fx's own events through the application logger at debug
// level.
var WithLogger = fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
	l := &fxevent.ZapLogger{Logger: log.Named("fx")}
	l.UseLogLevel(zapcore.DebugLevel)
	return l
})

func newRegistry() (*prometheus.Registry, prometheus.Registerer, prometheus.Gatherer) {
	reg := prometheus.NewRegistry()
	return reg, reg, reg
}

func registerTextfileExport(lc fx.Lifecycle, cfg config.Config, reg prometheus.Gatherer, log *zap.Logger) {
	path := cfg.Metrics.Textfile
	if path == "" {
		return
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			if err := prometheus.WriteToTextfile(path, reg); err != nil {
				log.Warn("write metrics textfile", zap.String("path", path), zap.Error(err))
				return err
			}
			return nil
		},
	})
}
