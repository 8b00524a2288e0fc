package requests

import (
	"math/big"
	"strconv"

	"github.com/dutch-bridge/settler-svc/internal/auction"
)

type UpdateAuctionRequest struct {
	Data UpdateAuction `json:"data"`
}

type UpdateAuction struct {
	Key
	Attributes UpdateAuctionAttributes `json:"attributes"`
}

type UpdateAuctionAttributes struct {
	CurrentPrice string  `json:"current_price"`
	State        string  `json:"state"`
	Winner       *string `json:"winner,omitempty"`
	WinningBid   *string `json:"winning_bid,omitempty"`
	Settled      bool    `json:"settled"`
}

func NewUpdateAuction(a auction.Auction, state auction.State, price *big.Int) UpdateAuctionRequest {
	return UpdateAuctionRequest{
		Data: UpdateAuction{
			Key: Key{
				ID:   strconv.FormatUint(a.ID, 10),
				Type: ResourceTypeAuction,
			},
			Attributes: UpdateAuctionAttributes{
				CurrentPrice: price.String(),
				State:        state.String(),
				Winner:       winnerOrNil(a),
				WinningBid:   winningBidOrNil(a),
				Settled:      a.BidInfo.Settled,
			},
		},
	}
}
