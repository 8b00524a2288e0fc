package auction

import (
	"math/big"
	"time"
)

// CurrentPrice computes the price the auction accepts at the given instant.
// Before startTime it is pinned to startPrice, after endTime it sticks to
// the reserve endPrice, in between it decays linearly. The multiplication
// happens before the division so truncation never loses more than one unit
// at the smallest token denomination.
//
// The caller supplies the clock and owns any skew correction against chain
// time; this function never adjusts it.
func CurrentPrice(ti TimeInfo, now time.Time) *big.Int {
	ts := now.Unix()
	if ts <= 0 || uint64(ts) <= ti.StartTime {
		return new(big.Int).Set(ti.StartPrice)
	}
	if uint64(ts) >= ti.EndTime {
		return new(big.Int).Set(ti.EndPrice)
	}

	elapsed := new(big.Int).SetUint64(uint64(ts) - ti.StartTime)
	window := new(big.Int).SetUint64(ti.EndTime - ti.StartTime)

	drop := new(big.Int).Sub(ti.StartPrice, ti.EndPrice)
	drop.Mul(drop, elapsed)
	drop.Quo(drop, window)

	return new(big.Int).Sub(ti.StartPrice, drop)
}
