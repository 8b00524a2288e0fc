package settlement

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/dutch-bridge/settler-svc/internal/auction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/distributed_lab/logan/v3"
)

func activeAuction() auction.Auction {
	return auction.Auction{
		ID: 3,
		TimeInfo: auction.TimeInfo{
			StartTime:  1_700_000_000,
			EndTime:    1_700_000_100,
			StartPrice: big.NewInt(108),
			EndPrice:   big.NewInt(90),
		},
	}
}

func TestBidderPlacesBid(t *testing.T) {
	gw := &mockGateway{auction: activeAuction()}
	b := NewBidder(gw, logan.New())

	now := time.Unix(1_700_000_050, 0)
	err := b.PlaceBid(context.Background(), activeAuction(), now)
	require.NoError(t, err)

	assert.Equal(t, []string{"get_auction", "place_bid"}, gw.calls, "chain truth is re-read before bidding")
}

func TestBidderRejectsIneligibleCached(t *testing.T) {
	now := time.Unix(1_700_000_050, 0)

	t.Run("upcoming", func(t *testing.T) {
		gw := &mockGateway{}
		b := NewBidder(gw, logan.New())

		err := b.PlaceBid(context.Background(), activeAuction(), time.Unix(1_699_999_999, 0))
		var ineligible *IneligibleStateError
		require.ErrorAs(t, err, &ineligible)
		assert.Empty(t, gw.calls, "ineligible bids must not touch the chain")
	})

	t.Run("already won", func(t *testing.T) {
		gw := &mockGateway{}
		b := NewBidder(gw, logan.New())

		cached := activeAuction()
		cached.BidInfo.Winner = rivalAddr

		err := b.PlaceBid(context.Background(), cached, now)
		var stale *StaleStateError
		require.ErrorAs(t, err, &stale)
		assert.Empty(t, gw.calls)
	})
}

func TestBidderLosesRace(t *testing.T) {
	// cached snapshot still looks active, chain truth already has a winner
	fresh := activeAuction()
	fresh.BidInfo.Winner = rivalAddr
	fresh.BidInfo.WinningBid = big.NewInt(99)

	gw := &mockGateway{auction: fresh}
	b := NewBidder(gw, logan.New())

	err := b.PlaceBid(context.Background(), activeAuction(), time.Unix(1_700_000_050, 0))
	var stale *StaleStateError
	require.ErrorAs(t, err, &stale)
	assert.Equal(t, auction.StateBidPlaced, stale.State)
	assert.Equal(t, []string{"get_auction"}, gw.calls, "no bid after a lost race")
}

func TestBidderChainErrors(t *testing.T) {
	now := time.Unix(1_700_000_050, 0)

	t.Run("refresh fails", func(t *testing.T) {
		gw := &mockGateway{auctionErr: assert.AnError}
		b := NewBidder(gw, logan.New())

		err := b.PlaceBid(context.Background(), activeAuction(), now)
		var chainErr *ChainCallError
		require.ErrorAs(t, err, &chainErr)
		assert.Equal(t, StageBid, chainErr.Stage)
	})

	t.Run("bid reverts", func(t *testing.T) {
		gw := &mockGateway{auction: activeAuction(), bidErr: assert.AnError}
		b := NewBidder(gw, logan.New())

		err := b.PlaceBid(context.Background(), activeAuction(), now)
		var chainErr *ChainCallError
		require.ErrorAs(t, err, &chainErr)
		assert.Equal(t, StageBid, chainErr.Stage)
		assert.ErrorIs(t, err, assert.AnError)
	})
}
