package auction

import "time"

// State is the lifecycle position of an auction derived from its on-chain
// fields and the local clock. Transitions are driven externally by chain
// state observed through polling; Classify is a classifier, not an actor.
type State uint8

const (
	// StateUpcoming means the decay window has not opened yet.
	StateUpcoming State = iota
	// StateActive means bids are accepted at the current decayed price.
	StateActive
	// StateBidPlaced means a winner is recorded but settlement is pending.
	StateBidPlaced
	// StateEnded means the window closed with no winner. Terminal.
	StateEnded
	// StateSettled means the winning fill completed. Terminal.
	StateSettled
)

func (s State) String() string {
	switch s {
	case StateUpcoming:
		return "upcoming"
	case StateActive:
		return "active"
	case StateBidPlaced:
		return "bid_placed"
	case StateEnded:
		return "ended"
	case StateSettled:
		return "settled"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transitions are possible.
func (s State) Terminal() bool {
	return s == StateEnded || s == StateSettled
}

// Classify derives the auction state from a snapshot and the current time.
// Recorded settlement and a recorded winner take precedence over the time
// window: a bid may be placed before endTime and settled after it, and the
// clock must never override either fact.
func Classify(a Auction, now time.Time) State {
	if a.BidInfo.Settled {
		return StateSettled
	}
	if a.BidInfo.HasWinner() {
		return StateBidPlaced
	}

	ts := now.Unix()
	if ts < 0 || uint64(ts) < a.TimeInfo.StartTime {
		return StateUpcoming
	}
	if uint64(ts) > a.TimeInfo.EndTime {
		return StateEnded
	}
	return StateActive
}

// CanBid reports whether a bid submission is meaningful right now. Both
// window boundaries are inclusive. Callers must reject bids locally in any
// other state before touching the chain, to avoid fees on guaranteed
// reverts.
func CanBid(a Auction, now time.Time) bool {
	return Classify(a, now) == StateActive
}
