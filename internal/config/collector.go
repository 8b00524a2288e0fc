package config

import (
	"net/http"
	"net/url"
	"time"

	"gitlab.com/distributed_lab/figure/v3"
	jsonapi "gitlab.com/distributed_lab/json-api-connector"
	"gitlab.com/distributed_lab/kit/kv"
	"gitlab.com/distributed_lab/logan/v3/errors"
	"gitlab.com/tokend/connectors/signed"
)

// Collector returns a connector to the order-indexing service. The
// collector stores auction observations and the canonical order encodings
// that fillers fetch back as origin data at fill time.
func (c *config) Collector() *jsonapi.Connector {
	return c.collectorOnce.Do(func() interface{} {
		var cfg struct {
			Endpoint       *url.URL      `fig:"endpoint,required"`
			RequestTimeout time.Duration `fig:"request_timeout"`
		}

		err := figure.Out(&cfg).
			From(kv.MustGetStringMap(c.getter, "collector")).
			Please()
		if err != nil {
			panic(errors.Wrap(err, "failed to figure out collector"))
		}
		if cfg.RequestTimeout == 0 {
			cfg.RequestTimeout = defaultRequestTimeout
		}

		client := &http.Client{Timeout: cfg.RequestTimeout}
		return jsonapi.NewConnector(signed.NewClient(client, cfg.Endpoint))
	}).(*jsonapi.Connector)
}
