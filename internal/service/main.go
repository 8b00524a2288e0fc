package service

import (
	"context"
	"time"

	"github.com/dutch-bridge/settler-svc/internal/config"
	"github.com/dutch-bridge/settler-svc/internal/gateway"
	"github.com/dutch-bridge/settler-svc/internal/settlement"
	jsonapi "gitlab.com/distributed_lab/json-api-connector"
	"gitlab.com/distributed_lab/logan/v3"
	"gitlab.com/distributed_lab/running"
)

type service struct {
	log       *logan.Entry
	network   config.Network
	filler    config.Filler
	gw        *gateway.Gateway
	collector *jsonapi.Connector

	store  *Store
	bidder *settlement.Bidder
	coord  *settlement.Coordinator

	// reported and filled are touched by the worker goroutine only
	reported map[uint64]string
	filled   map[uint64]bool
}

func newService(cfg config.Config) *service {
	s := &service{
		log:       cfg.Log(),
		network:   cfg.Network(),
		filler:    cfg.Filler(),
		gw:        cfg.Gateway(),
		collector: cfg.Collector(),
		store:     NewStore(),
		reported:  make(map[uint64]string),
		filled:    make(map[uint64]bool),
	}

	s.bidder = settlement.NewBidder(s.gw, s.log)
	s.coord = settlement.NewCoordinator(s.gw, s.log)
	s.coord.OnFilled(func(res settlement.Result) {
		s.filled[res.AuctionID] = true
		s.store.MarkSettled(res.AuctionID)
	})

	return s
}

func (s *service) run() error {
	s.log.Info("Service started")
	running.WithBackOff(context.Background(), s.log, "settler",
		s.worker, s.network.PollPeriod, time.Second, time.Minute)

	return nil
}

func Run(cfg config.Config) {
	if err := newService(cfg).run(); err != nil {
		panic(err)
	}
}
