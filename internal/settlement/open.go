package settlement

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	ethmath "github.com/ethereum/go-ethereum/common/math"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/dutch-bridge/settler-svc/internal/order"
	"gitlab.com/distributed_lab/logan/v3/errors"
)

// Open deposits a new cross-chain order into the escrow and returns its
// derived identifier. The amountOut < amountIn invariant belongs to the
// upstream constructing layer; a violation reaching this point is treated
// as bad input, never submitted.
func Open(ctx context.Context, gw Gateway, o order.Order) (common.Hash, error) {
	if o.AmountIn == nil || o.AmountOut == nil {
		return common.Hash{}, errors.New("both amounts are required")
	}
	if o.AmountOut.Cmp(o.AmountIn) >= 0 {
		return common.Hash{}, errors.New("amount_out must be strictly less than amount_in")
	}

	envelope, err := order.NewOnchainOrder(o)
	if err != nil {
		return common.Hash{}, err
	}
	id := ethcrypto.Keccak256Hash(envelope.OrderData)

	// the escrow pulls the input token during open; top up its allowance
	// first, same idempotent pattern as the fill-side approval
	current, err := gw.EscrowAllowance(ctx, o.InputToken)
	if err != nil {
		return id, &ChainCallError{Stage: StageOpen, OrderID: id, Cause: err}
	}
	if current.Cmp(o.AmountIn) < 0 {
		if _, err = gw.ApproveEscrow(ctx, o.InputToken, ethmath.MaxBig256); err != nil {
			return id, &AllowanceError{Cause: err}
		}
	}

	if _, err = gw.OpenOrder(ctx, envelope); err != nil {
		return id, &ChainCallError{Stage: StageOpen, OrderID: id, Cause: err}
	}
	return id, nil
}
