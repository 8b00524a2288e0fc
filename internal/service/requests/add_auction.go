package requests

import (
	"math/big"
	"strconv"

	"github.com/dutch-bridge/settler-svc/internal/auction"
)

type AddAuctionRequest struct {
	Data Auction `json:"data"`
}

type Auction struct {
	Key
	Attributes AuctionAttributes `json:"attributes"`
}

type AuctionAttributes struct {
	SrcChain      int64   `json:"src_chain"`
	User          string  `json:"user"`
	OrderID       string  `json:"order_id"`
	SourceToken   string  `json:"source_token"`
	SourceAmount  string  `json:"source_amount"`
	DestToken     string  `json:"dest_token"`
	MinDestAmount string  `json:"min_dest_amount"`
	StartTime     uint64  `json:"start_time"`
	EndTime       uint64  `json:"end_time"`
	StartPrice    string  `json:"start_price"`
	EndPrice      string  `json:"end_price"`
	CurrentPrice  string  `json:"current_price"`
	DisplayPrice  string  `json:"display_price"`
	State         string  `json:"state"`
	Winner        *string `json:"winner,omitempty"`
	WinningBid    *string `json:"winning_bid,omitempty"`
	Settled       bool    `json:"settled"`
}

func NewAddAuction(a auction.Auction, state auction.State, price *big.Int, displayPrice string, chainID int64) AddAuctionRequest {
	return AddAuctionRequest{
		Data: Auction{
			Key: Key{
				ID:   strconv.FormatUint(a.ID, 10),
				Type: ResourceTypeAuction,
			},
			Attributes: AuctionAttributes{
				SrcChain:      chainID,
				User:          a.Parties.User.String(),
				OrderID:       a.Parties.OrderID.Hex(),
				SourceToken:   a.TokenInfo.SourceToken.String(),
				SourceAmount:  a.TokenInfo.SourceAmount.String(),
				DestToken:     a.TokenInfo.DestToken.String(),
				MinDestAmount: a.TokenInfo.MinDestAmount.String(),
				StartTime:     a.TimeInfo.StartTime,
				EndTime:       a.TimeInfo.EndTime,
				StartPrice:    a.TimeInfo.StartPrice.String(),
				EndPrice:      a.TimeInfo.EndPrice.String(),
				CurrentPrice:  price.String(),
				DisplayPrice:  displayPrice,
				State:         state.String(),
				Winner:        winnerOrNil(a),
				WinningBid:    winningBidOrNil(a),
				Settled:       a.BidInfo.Settled,
			},
		},
	}
}

func winnerOrNil(a auction.Auction) *string {
	if !a.BidInfo.HasWinner() {
		return nil
	}
	w := a.BidInfo.Winner.String()
	return &w
}

func winningBidOrNil(a auction.Auction) *string {
	if !a.BidInfo.HasWinner() || a.BidInfo.WinningBid == nil {
		return nil
	}
	b := a.BidInfo.WinningBid.String()
	return &b
}
