package service

import (
	"math/big"
	"sort"
	"sync"
	"time"

	"github.com/dutch-bridge/settler-svc/internal/auction"
)

// Snapshot is one auction's projection as of a single poll: the on-chain
// record, its classified state and the price valid at observation time.
type Snapshot struct {
	Auction    auction.Auction
	State      auction.State
	Price      *big.Int
	ObservedAt time.Time
}

// SortOrder selects a projection ordering for consumers.
type SortOrder string

const (
	SortEndingSoon   SortOrder = "ending_soon"
	SortNewest       SortOrder = "newest"
	SortHighestPrice SortOrder = "highest_price"
)

// Store caches the latest polled projection of all auctions. The cache is
// replaced wholesale on every poll so readers never see a projection
// mixing fields from different block heights.
type Store struct {
	mu   sync.RWMutex
	byID map[uint64]Snapshot
	list []Snapshot
}

func NewStore() *Store {
	return &Store{byID: make(map[uint64]Snapshot)}
}

// Replace swaps in a complete new projection.
func (s *Store) Replace(snapshots []Snapshot) {
	byID := make(map[uint64]Snapshot, len(snapshots))
	for _, snap := range snapshots {
		byID[snap.Auction.ID] = snap
	}

	s.mu.Lock()
	s.byID = byID
	s.list = snapshots
	s.mu.Unlock()
}

func (s *Store) Get(id uint64) (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.byID[id]
	return snap, ok
}

// All returns a copy of the current projection.
func (s *Store) All() []Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Snapshot, len(s.list))
	copy(out, s.list)
	return out
}

// Sorted returns the projection in the requested order.
func (s *Store) Sorted(order SortOrder) []Snapshot {
	out := s.All()
	switch order {
	case SortEndingSoon:
		sort.Slice(out, func(i, j int) bool {
			return out[i].Auction.TimeInfo.EndTime < out[j].Auction.TimeInfo.EndTime
		})
	case SortNewest:
		sort.Slice(out, func(i, j int) bool {
			return out[i].Auction.TimeInfo.StartTime > out[j].Auction.TimeInfo.StartTime
		})
	case SortHighestPrice:
		sort.Slice(out, func(i, j int) bool {
			return out[i].Price.Cmp(out[j].Price) > 0
		})
	}
	return out
}

// MarkSettled optimistically flips one auction to settled after a
// successful local fill; the next poll confirms it from chain truth.
func (s *Store) MarkSettled(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, ok := s.byID[id]
	if !ok {
		return
	}
	snap.Auction.BidInfo.Settled = true
	snap.State = auction.StateSettled
	s.byID[id] = snap

	for i := range s.list {
		if s.list[i].Auction.ID == id {
			s.list[i] = snap
			break
		}
	}
}
