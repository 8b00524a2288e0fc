package settlement

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	ethmath "github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/core/types"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/dutch-bridge/settler-svc/internal/auction"
	"github.com/dutch-bridge/settler-svc/internal/order"
	"gitlab.com/distributed_lab/logan/v3"
	"gitlab.com/distributed_lab/logan/v3/errors"
)

// Gateway is the slice of chain access the settlement protocol needs.
// *gateway.Gateway satisfies it.
type Gateway interface {
	Sender() common.Address
	GetAuction(ctx context.Context, id uint64) (auction.Auction, error)
	PlaceBid(ctx context.Context, id uint64) (*types.Receipt, error)
	OpenOrder(ctx context.Context, o order.OnchainOrder) (*types.Receipt, error)
	Allowance(ctx context.Context, token common.Address) (*big.Int, error)
	Approve(ctx context.Context, token common.Address, amount *big.Int) (*types.Receipt, error)
	EscrowAllowance(ctx context.Context, token common.Address) (*big.Int, error)
	ApproveEscrow(ctx context.Context, token common.Address, amount *big.Int) (*types.Receipt, error)
	Fill(ctx context.Context, orderID common.Hash, originData, fillerData []byte) (*types.Receipt, error)
}

// State is the coordinator's own position in the two-phase protocol.
type State uint8

const (
	StateAwaitingApproval State = iota
	StateApproving
	StateAwaitingFill
	StateFilling
	StateFilled
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateAwaitingApproval:
		return "awaiting_approval"
	case StateApproving:
		return "approving"
	case StateAwaitingFill:
		return "awaiting_fill"
	case StateFilling:
		return "filling"
	case StateFilled:
		return "filled"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Request carries everything one fill run needs. OriginData must be the
// true canonical order encoding sourced from the order index; the
// coordinator verifies it against the auction's order id and refuses
// placeholders.
type Request struct {
	Auction    auction.Auction
	OriginData []byte
}

// Result describes a completed fill.
type Result struct {
	AuctionID uint64
	OrderID   common.Hash
	FillTx    common.Hash
}

// Coordinator drives settlement for a caller holding a winning bid:
// an idempotent allowance step, then the fill. Exactly one conditional
// approve and one fill transaction per successful run; nothing is
// submitted on a run that exits during validation. There is no automatic
// retry at any step, retries are a caller decision.
type Coordinator struct {
	gw  Gateway
	log *logan.Entry

	onFilled func(Result)

	mu      sync.Mutex
	state   State
	lastErr error
}

func NewCoordinator(gw Gateway, log *logan.Entry) *Coordinator {
	return &Coordinator{gw: gw, log: log}
}

// OnFilled registers an observer invoked after a successful fill, before
// Run returns.
func (c *Coordinator) OnFilled(fn func(Result)) {
	c.onFilled = fn
}

// State reports the coordinator's position; at failure time it tells the
// caller whether a transaction was already submitted.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Err returns the error that moved the coordinator to StateFailed, if any.
func (c *Coordinator) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Run executes one settlement attempt for req. The approval must be
// observed as included before the fill is submitted; the contract reverts
// the fill without sufficient allowance.
func (c *Coordinator) Run(ctx context.Context, req Request) (Result, error) {
	c.setState(StateAwaitingApproval)

	a := req.Auction
	log := c.log.WithFields(logan.F{
		"auction_id": a.ID,
		"order_id":   a.Parties.OrderID.Hex(),
	})

	if err := c.checkEligibility(a, req.OriginData); err != nil {
		return Result{}, c.fail(err)
	}

	skipped, err := c.ensureAllowance(ctx, a)
	if err != nil {
		return Result{}, c.fail(err)
	}
	if skipped {
		log.Debug("allowance already sufficient, skipping approval")
	}

	c.setState(StateAwaitingFill)

	fillerData := order.EncodeFillerData(c.gw.Sender())
	c.setState(StateFilling)
	receipt, err := c.gw.Fill(ctx, a.Parties.OrderID, req.OriginData, fillerData)
	if err != nil {
		return Result{}, c.fail(&ChainCallError{
			Stage:     StageFill,
			AuctionID: a.ID,
			OrderID:   a.Parties.OrderID,
			Cause:     err,
		})
	}

	c.setState(StateFilled)
	res := Result{
		AuctionID: a.ID,
		OrderID:   a.Parties.OrderID,
		FillTx:    receipt.TxHash,
	}
	log.WithField("tx_hash", res.FillTx.Hex()).Info("order filled")

	if c.onFilled != nil {
		c.onFilled(res)
	}
	return res, nil
}

func (c *Coordinator) checkEligibility(a auction.Auction, originData []byte) error {
	switch st := auction.Classify(a, time.Now()); st {
	case auction.StateSettled:
		return &StaleStateError{AuctionID: a.ID, State: st}
	case auction.StateBidPlaced:
		if a.BidInfo.Winner != c.gw.Sender() {
			return &StaleStateError{AuctionID: a.ID, State: st}
		}
	default:
		return &IneligibleStateError{AuctionID: a.ID, State: st}
	}

	if len(originData) == 0 {
		return errors.New("origin data is required: the fill needs the true encoded order bytes")
	}
	if ethcrypto.Keccak256Hash(originData) != a.Parties.OrderID {
		return errors.From(errors.New("origin data does not hash to the auction's order id"), logan.F{
			"order_id": a.Parties.OrderID.Hex(),
		})
	}
	return nil
}

// ensureAllowance queries the current allowance and tops it up only when it
// does not cover the winning bid. Idempotent: a sufficient allowance means
// no approval transaction at all.
func (c *Coordinator) ensureAllowance(ctx context.Context, a auction.Auction) (skipped bool, err error) {
	current, err := c.gw.Allowance(ctx, a.TokenInfo.DestToken)
	if err != nil {
		return false, &ChainCallError{
			Stage:     StageApproval,
			AuctionID: a.ID,
			OrderID:   a.Parties.OrderID,
			Cause:     err,
		}
	}
	if current.Cmp(a.BidInfo.WinningBid) >= 0 {
		return true, nil
	}

	c.setState(StateApproving)
	// unbounded approval so repeat fills of the same token skip this step
	if _, err = c.gw.Approve(ctx, a.TokenInfo.DestToken, ethmath.MaxBig256); err != nil {
		return false, &AllowanceError{AuctionID: a.ID, Cause: err}
	}
	return false, nil
}

func (c *Coordinator) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func (c *Coordinator) fail(err error) error {
	c.mu.Lock()
	c.state = StateFailed
	c.lastErr = err
	c.mu.Unlock()
	return err
}
