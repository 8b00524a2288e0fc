package config

import (
	"github.com/dutch-bridge/settler-svc/internal/gateway"
	jsonapi "gitlab.com/distributed_lab/json-api-connector"
	"gitlab.com/distributed_lab/kit/comfig"
	"gitlab.com/distributed_lab/kit/kv"
)

type Config interface {
	comfig.Logger

	Network() Network
	Filler() Filler
	Deposit() Deposit
	Collector() *jsonapi.Connector
	Gateway() *gateway.Gateway
}

type config struct {
	comfig.Logger
	getter kv.Getter

	networkOnce   comfig.Once
	fillerOnce    comfig.Once
	depositOnce   comfig.Once
	collectorOnce comfig.Once
	gatewayOnce   comfig.Once
}

func New(getter kv.Getter) Config {
	return &config{
		getter: getter,
		Logger: comfig.NewLogger(getter, comfig.LoggerOpts{}),
	}
}
