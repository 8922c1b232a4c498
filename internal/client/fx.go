package client

import (
	"github.com/railzwaylabs/idsrvctl/internal/client/repository"
	"github.com/railzwaylabs/idsrvctl/internal/client/service"
	"go.uber.org/fx"
)

var Module = fx.Module("client.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
