package config

import "go.uber.org/fx"

// Module expects a *viper.Viper to be supplied by the caller.
var Module = fx.Module("config",
	fx.Provide(New),
)
