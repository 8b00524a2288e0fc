package settlement

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/dutch-bridge/settler-svc/internal/auction"
)

// Stage names the protocol step an error belongs to, so a caller can tell
// "nothing happened yet" from "a transaction may already be on chain".
type Stage string

const (
	StageValidation Stage = "validation"
	StageBid        Stage = "bid"
	StageOpen       Stage = "open"
	StageApproval   Stage = "approval"
	StageFill       Stage = "fill"
)

// IneligibleStateError means the local precondition check failed before any
// chain interaction was attempted. Cheapest possible failure; no gas spent.
type IneligibleStateError struct {
	AuctionID uint64
	State     auction.State
}

func (e *IneligibleStateError) Error() string {
	return fmt.Sprintf("auction %d is %s, not eligible", e.AuctionID, e.State)
}

// StaleStateError means chain truth moved past the locally cached
// projection, typically because another filler won the race. Recoverable
// by re-polling and re-evaluating eligibility, not by retrying the call.
type StaleStateError struct {
	AuctionID uint64
	State     auction.State
}

func (e *StaleStateError) Error() string {
	return fmt.Sprintf("auction %d is already %s on chain", e.AuctionID, e.State)
}

// AllowanceError means the approval transaction failed or was rejected.
// Fatal to the coordinator run; the caller may restart from the beginning.
type AllowanceError struct {
	AuctionID uint64
	Cause     error
}

func (e *AllowanceError) Error() string {
	return fmt.Sprintf("approval failed for auction %d: %s", e.AuctionID, e.Cause)
}

func (e *AllowanceError) Unwrap() error { return e.Cause }

// ChainCallError wraps any other gateway failure with enough context to
// decide on a retry. The underlying cause is always preserved.
type ChainCallError struct {
	Stage     Stage
	AuctionID uint64
	OrderID   common.Hash
	Cause     error
}

func (e *ChainCallError) Error() string {
	return fmt.Sprintf("chain call failed at stage %s for auction %d: %s", e.Stage, e.AuctionID, e.Cause)
}

func (e *ChainCallError) Unwrap() error { return e.Cause }
