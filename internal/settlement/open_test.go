package settlement

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	ethmath "github.com/ethereum/go-ethereum/common/math"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/dutch-bridge/settler-svc/internal/order"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func depositOrder() order.Order {
	return order.Order{
		Sender:             fillerAddr,
		Recipient:          fillerAddr,
		InputToken:         common.HexToAddress("0x30E9b6B0d161cBd5Ff8cf904Ff4FA43Ce66AC346"),
		OutputToken:        destToken,
		AmountIn:           big.NewInt(100),
		AmountOut:          big.NewInt(90),
		SenderNonce:        42,
		OriginDomain:       11155111,
		DestinationDomain:  299792,
		DestinationSettler: common.HexToAddress("0x04"),
		FillDeadline:       1_800_000_000,
	}
}

func TestOpenSubmitsOrder(t *testing.T) {
	gw := &mockGateway{escrowAllowance: big.NewInt(1000)}

	id, err := Open(context.Background(), gw, depositOrder())
	require.NoError(t, err)

	assert.Equal(t, []string{"escrow_allowance", "open_order"}, gw.calls)
	assert.Equal(t, ethcrypto.Keccak256Hash(gw.openedOrder.OrderData), id,
		"returned id is the hash of the submitted encoding")

	enc, err := order.Encode(depositOrder())
	require.NoError(t, err)
	assert.Equal(t, enc, gw.openedOrder.OrderData)
	assert.Equal(t, depositOrder().FillDeadline, gw.openedOrder.FillDeadline)
}

func TestOpenTopsUpEscrowAllowance(t *testing.T) {
	gw := &mockGateway{escrowAllowance: big.NewInt(99)}

	_, err := Open(context.Background(), gw, depositOrder())
	require.NoError(t, err)

	assert.Equal(t, []string{"escrow_allowance", "approve_escrow", "open_order"}, gw.calls)
	assert.Equal(t, depositOrder().InputToken, gw.approvedToken)
	assert.Equal(t, ethmath.MaxBig256, gw.approvedAmount)
}

func TestOpenRejectsBadAmounts(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*order.Order)
	}{
		{"nil amount_in", func(o *order.Order) { o.AmountIn = nil }},
		{"nil amount_out", func(o *order.Order) { o.AmountOut = nil }},
		{"equal amounts", func(o *order.Order) { o.AmountOut = big.NewInt(100) }},
		{"inverted amounts", func(o *order.Order) { o.AmountOut = big.NewInt(200) }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gw := &mockGateway{}
			o := depositOrder()
			tc.mutate(&o)

			_, err := Open(context.Background(), gw, o)
			require.Error(t, err)
			assert.Empty(t, gw.calls, "bad input must never be submitted")
		})
	}
}

func TestOpenChainFailure(t *testing.T) {
	gw := &mockGateway{escrowAllowance: big.NewInt(1000), openErr: assert.AnError}

	_, err := Open(context.Background(), gw, depositOrder())
	var chainErr *ChainCallError
	require.ErrorAs(t, err, &chainErr)
	assert.Equal(t, StageOpen, chainErr.Stage)
	assert.ErrorIs(t, err, assert.AnError)
}
