package service

import (
	"context"
	"net/url"
	"time"

	"github.com/dutch-bridge/settler-svc/internal/config"
	"github.com/dutch-bridge/settler-svc/internal/order"
	"github.com/dutch-bridge/settler-svc/internal/service/requests"
	"github.com/dutch-bridge/settler-svc/internal/settlement"
	"gitlab.com/distributed_lab/logan/v3/errors"
)

// Deposit opens one cross-chain order via the escrow and registers its
// canonical encoding with the collector, where fillers source the origin
// data required at fill time.
func Deposit(cfg config.Config) error {
	return newService(cfg).deposit(context.Background(), cfg.Deposit())
}

func (s *service) deposit(ctx context.Context, p config.Deposit) error {
	ord := order.New(
		s.gw.Sender(),
		p.InputToken, p.OutputToken,
		p.AmountIn, p.AmountOut,
		s.network.OriginDomain, s.network.DestinationDomain,
		p.DestinationSettler,
		time.Now(),
	)

	id, err := settlement.Open(ctx, s.gw, ord)
	if err != nil {
		return errors.Wrap(err, "failed to open order")
	}
	log := s.log.WithField("order_id", id.Hex())
	log.Info("order opened")

	enc, err := order.Encode(ord)
	if err != nil {
		return errors.Wrap(err, "failed to encode order")
	}

	body := requests.NewAddOrder(id, enc, s.network.ChainID)
	u, _ := url.Parse("/orders")
	err = s.collector.PostJSON(u, body, ctx, nil)
	if isConflict(err) {
		log.Warn("order already registered in collector DB, skipping it")
		return nil
	}
	return errors.Wrap(err, "failed to register order in collector service")
}
