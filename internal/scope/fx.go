package scope

import (
	"github.com/railzwaylabs/idsrvctl/internal/scope/repository"
	"github.com/railzwaylabs/idsrvctl/internal/scope/service"
	"go.uber.org/fx"
)

var Module = fx.Module("scope.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
