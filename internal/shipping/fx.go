package shipping

import (
	"github.com/smallbiznis/shiptable/internal/config"
	"github.com/smallbiznis/shiptable/internal/shipping/service"
	"github.com/smallbiznis/shiptable/internal/weight"
	"go.uber.org/fx"
)

var Module = fx.Module("shipping.service",
	fx.Provide(func() *weight.Calculator { return weight.NewCalculator(nil) }),
	fx.Provide(config.NewBehaviorConfigHolder),
	fx.Provide(service.NewRegistry),
	fx.Provide(service.New),
)
