package settlement

import (
	"context"
	"time"

	"github.com/dutch-bridge/settler-svc/internal/auction"
	"gitlab.com/distributed_lab/logan/v3"
)

// Bidder submits bids with the eligibility check in front of every chain
// interaction.
type Bidder struct {
	gw  Gateway
	log *logan.Entry
}

func NewBidder(gw Gateway, log *logan.Entry) *Bidder {
	return &Bidder{gw: gw, log: log}
}

// PlaceBid agrees to pay the auction's current price. The cached snapshot
// is checked first so obviously ineligible bids cost nothing; chain truth
// is then re-read to catch a lost race before gas is spent. The contract
// remains the sole arbiter of first-accepted-bid-wins, so a revert after
// both checks is still a normal outcome for the caller to absorb.
func (b *Bidder) PlaceBid(ctx context.Context, cached auction.Auction, now time.Time) error {
	if err := classifyForBid(cached, now); err != nil {
		return err
	}

	fresh, err := b.gw.GetAuction(ctx, cached.ID)
	if err != nil {
		return &ChainCallError{Stage: StageBid, AuctionID: cached.ID, Cause: err}
	}
	if err := classifyForBid(fresh, now); err != nil {
		return err
	}

	receipt, err := b.gw.PlaceBid(ctx, cached.ID)
	if err != nil {
		return &ChainCallError{Stage: StageBid, AuctionID: cached.ID, Cause: err}
	}

	b.log.WithFields(logan.F{
		"auction_id": cached.ID,
		"tx_hash":    receipt.TxHash.Hex(),
	}).Info("bid placed")
	return nil
}

func classifyForBid(a auction.Auction, now time.Time) error {
	switch st := auction.Classify(a, now); st {
	case auction.StateActive:
		return nil
	case auction.StateBidPlaced, auction.StateSettled:
		return &StaleStateError{AuctionID: a.ID, State: st}
	default:
		return &IneligibleStateError{AuctionID: a.ID, State: st}
	}
}
