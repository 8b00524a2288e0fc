package service

import (
	"context"
	"math/big"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dutch-bridge/settler-svc/internal/gateway"
	"github.com/dutch-bridge/settler-svc/internal/service/requests"
	"github.com/shopspring/decimal"
	"gitlab.com/distributed_lab/json-api-connector/cerrors"
	"gitlab.com/distributed_lab/logan/v3/errors"
)

// report pushes newly observed auctions and state transitions to the
// collector. Price ticks alone are not reported, only lifecycle moves.
func (s *service) report(ctx context.Context, snapshots []Snapshot) {
	for _, snap := range snapshots {
		id := snap.Auction.ID
		state := snap.State.String()

		prev, seen := s.reported[id]
		if seen && prev == state {
			continue
		}

		var err error
		if !seen {
			err = s.addAuction(ctx, snap)
		} else {
			err = s.updateAuction(ctx, snap)
		}
		if err != nil {
			s.log.WithError(err).WithField("auction_id", id).Warn("failed to report auction")
			continue
		}
		s.reported[id] = state
	}
}

func (s *service) addAuction(ctx context.Context, snap Snapshot) error {
	log := s.log.WithField("auction_id", snap.Auction.ID)
	log.Debug("reporting new auction")

	md := s.gw.TokenMetadata(ctx, snap.Auction.TokenInfo.DestToken)
	body := requests.NewAddAuction(snap.Auction, snap.State, snap.Price, formatAmount(snap.Price, md), s.network.ChainID)
	u, _ := url.Parse("/auctions")

	err := s.collector.PostJSON(u, body, ctx, nil)
	if isConflict(err) {
		log.Warn("auction already exists in collector DB, skipping it")
		return nil
	}

	return errors.Wrap(err, "failed to add auction into collector service")
}

func (s *service) updateAuction(ctx context.Context, snap Snapshot) error {
	s.log.WithField("auction_id", snap.Auction.ID).Debug("reporting auction state change")

	body := requests.NewUpdateAuction(snap.Auction, snap.State, snap.Price)
	u, _ := url.Parse(strconv.FormatInt(s.network.ChainID, 10) + "/auctions")
	err := s.collector.PatchJSON(u, body, ctx, nil)
	return errors.Wrap(err, "failed to update auction in collector service")
}

// formatAmount renders a raw amount in human token units, e.g. "99.5 USDT".
func formatAmount(amount *big.Int, md gateway.TokenMetadata) string {
	if amount == nil {
		return "0 " + md.Symbol
	}
	return decimal.NewFromBigInt(amount, -int32(md.Decimals)).String() + " " + md.Symbol
}

func isConflict(err error) bool {
	c, ok := err.(cerrors.Error)
	return ok && c.Status() == http.StatusConflict
}
