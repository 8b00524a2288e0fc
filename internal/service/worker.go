package service

import (
	"context"
	"math/big"
	"time"

	"github.com/dutch-bridge/settler-svc/internal/auction"
	"github.com/dutch-bridge/settler-svc/internal/settlement"
	"gitlab.com/distributed_lab/logan/v3/errors"
)

// worker runs one poll cycle: refresh the projection of every auction,
// replace the cache wholesale, report observations to the collector and
// act on auctions this filler can bid on or fill.
func (s *service) worker(ctx context.Context) error {
	now := time.Now()

	childCtx, cancel := context.WithTimeout(ctx, s.network.RequestTimeout)
	next, err := s.gw.NextAuctionID(childCtx)
	cancel()
	if err != nil {
		return errors.Wrap(err, "failed to get auction count")
	}

	snapshots := make([]Snapshot, 0, next)
	for id := uint64(0); id < next; id++ {
		snap, err := s.fetchAuction(ctx, id, now)
		if err != nil {
			s.log.WithError(err).WithField("auction_id", id).Warn("failed to fetch auction, skipping")
			continue
		}
		if snap == nil {
			continue
		}
		snapshots = append(snapshots, *snap)
	}

	s.store.Replace(snapshots)
	s.report(ctx, snapshots)
	s.act(ctx, snapshots, now)

	return nil
}

// fetchAuction reads one auction's sub-records. A nil snapshot without an
// error means the id is a gap. An unreadable exists flag is not fatal:
// freshly created auctions may not report existence yet.
func (s *service) fetchAuction(ctx context.Context, id uint64, now time.Time) (*Snapshot, error) {
	childCtx, cancel := context.WithTimeout(ctx, s.network.RequestTimeout)
	defer cancel()

	exists, err := s.gw.AuctionExists(childCtx, id)
	if err == nil && !exists {
		return nil, nil
	}

	a, err := s.gw.GetAuction(childCtx, id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get auction")
	}

	price, err := s.gw.CurrentPrice(childCtx, id)
	if err != nil {
		// contract read failed, fall back to the local decay computation
		s.log.WithError(err).WithField("auction_id", id).Debug("failed to get current price from contract")
		price = auction.CurrentPrice(a.TimeInfo, now)
	}

	return &Snapshot{
		Auction:    a,
		State:      auction.Classify(a, now),
		Price:      price,
		ObservedAt: now,
	}, nil
}

// act bids on acceptable active auctions and drives settlement for
// auctions this filler has already won.
func (s *service) act(ctx context.Context, snapshots []Snapshot, now time.Time) {
	for _, snap := range snapshots {
		switch snap.State {
		case auction.StateActive:
			if s.filler.BidEnabled && s.priceAcceptable(snap) {
				s.tryBid(ctx, snap, now)
			}
		case auction.StateBidPlaced:
			if snap.Auction.BidInfo.Winner == s.gw.Sender() && !s.filled[snap.Auction.ID] {
				s.tryFill(ctx, snap)
			}
		}
	}
}

func (s *service) tryBid(ctx context.Context, snap Snapshot, now time.Time) {
	log := s.log.WithField("auction_id", snap.Auction.ID)

	err := s.bidder.PlaceBid(ctx, snap.Auction, now)
	switch err.(type) {
	case nil:
	case *settlement.StaleStateError:
		// lost the race, a normal outcome
		log.WithError(err).Debug("auction was won by another filler")
	default:
		log.WithError(err).Warn("failed to place bid")
	}
}

func (s *service) tryFill(ctx context.Context, snap Snapshot) {
	log := s.log.WithField("auction_id", snap.Auction.ID)

	originData, err := s.originData(ctx, snap.Auction.Parties.OrderID)
	if err != nil {
		log.WithError(err).Warn("failed to source origin order data")
		return
	}

	_, err = s.coord.Run(ctx, settlement.Request{
		Auction:    snap.Auction,
		OriginData: originData,
	})
	if err != nil {
		log.WithError(err).WithField("stage", failureStage(err)).
			Warn("failed to settle won auction")
	}
}

// failureStage names the protocol step a settlement error belongs to, so
// the operator can tell a pre-submit exit from a failed transaction.
func failureStage(err error) string {
	switch e := err.(type) {
	case *settlement.ChainCallError:
		return string(e.Stage)
	case *settlement.AllowanceError:
		return string(settlement.StageApproval)
	default:
		return string(settlement.StageValidation)
	}
}

// priceAcceptable caps the bid at minDestAmount plus the configured
// premium.
func (s *service) priceAcceptable(snap Snapshot) bool {
	limit := new(big.Int).Mul(
		snap.Auction.TokenInfo.MinDestAmount,
		big.NewInt(10000+s.filler.MaxPremiumBps),
	)
	limit.Quo(limit, big.NewInt(10000))
	return snap.Price.Cmp(limit) <= 0
}
