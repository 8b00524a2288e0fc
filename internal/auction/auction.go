package auction

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Auction is a read-only projection of one on-chain price-discovery record.
// The settlement contract owns it; the client only refreshes the projection
// by polling and must replace it wholesale, never patch single fields.
type Auction struct {
	ID        uint64
	TokenInfo TokenInfo
	TimeInfo  TimeInfo
	BidInfo   BidInfo
	Parties   Parties
}

// TokenInfo names the escrowed source amount and the minimum the user
// accepts on the destination domain.
type TokenInfo struct {
	SourceToken   common.Address
	SourceAmount  *big.Int
	DestToken     common.Address
	MinDestAmount *big.Int
}

// TimeInfo holds the decay window. startTime <= endTime and
// startPrice >= endPrice; the price only decreases.
type TimeInfo struct {
	StartTime  uint64
	EndTime    uint64
	StartPrice *big.Int
	EndPrice   *big.Int
}

// BidInfo is mutated exactly twice on-chain: once by the accepted bid and
// once by settlement.
type BidInfo struct {
	Winner     common.Address
	WinningBid *big.Int
	Settled    bool
}

// Parties links the auction back to the depositing user and the order it
// prices.
type Parties struct {
	User    common.Address
	OrderID common.Hash
}

// HasWinner reports whether a bid has been accepted.
func (b BidInfo) HasWinner() bool {
	return b.Winner != (common.Address{})
}
