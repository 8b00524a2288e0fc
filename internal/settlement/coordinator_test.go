package settlement

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	ethmath "github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/core/types"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/dutch-bridge/settler-svc/internal/auction"
	"github.com/dutch-bridge/settler-svc/internal/order"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/distributed_lab/logan/v3"
)

var (
	fillerAddr = common.HexToAddress("0xbF59f5a5931B9013A6d3724d0D3A2a0abafe3Afc")
	rivalAddr  = common.HexToAddress("0x1111111111111111111111111111111111111111")
	destToken  = common.HexToAddress("0xb6E3F86a5CE9ac318F54C9C7Bcd6eff368DF0296")

	fillTxHash    = common.HexToHash("0x01")
	approveTxHash = common.HexToHash("0x02")
)

// mockGateway records every chain touch in order and returns canned results.
type mockGateway struct {
	calls []string

	auction    auction.Auction
	auctionErr error

	allowance       *big.Int
	allowanceErr    error
	escrowAllowance *big.Int

	approveErr error
	bidErr     error
	openErr    error
	fillErr    error

	approvedToken  common.Address
	approvedAmount *big.Int
	openedOrder    order.OnchainOrder
	fillOrderID    common.Hash
	fillOrigin     []byte
	fillFiller     []byte
}

func (m *mockGateway) Sender() common.Address { return fillerAddr }

func (m *mockGateway) GetAuction(_ context.Context, id uint64) (auction.Auction, error) {
	m.calls = append(m.calls, "get_auction")
	return m.auction, m.auctionErr
}

func (m *mockGateway) PlaceBid(_ context.Context, id uint64) (*types.Receipt, error) {
	m.calls = append(m.calls, "place_bid")
	if m.bidErr != nil {
		return nil, m.bidErr
	}
	return &types.Receipt{TxHash: approveTxHash}, nil
}

func (m *mockGateway) OpenOrder(_ context.Context, o order.OnchainOrder) (*types.Receipt, error) {
	m.calls = append(m.calls, "open_order")
	m.openedOrder = o
	if m.openErr != nil {
		return nil, m.openErr
	}
	return &types.Receipt{TxHash: approveTxHash}, nil
}

func (m *mockGateway) Allowance(_ context.Context, token common.Address) (*big.Int, error) {
	m.calls = append(m.calls, "allowance")
	if m.allowanceErr != nil {
		return nil, m.allowanceErr
	}
	return m.allowance, nil
}

func (m *mockGateway) Approve(_ context.Context, token common.Address, amount *big.Int) (*types.Receipt, error) {
	m.calls = append(m.calls, "approve")
	m.approvedToken = token
	m.approvedAmount = amount
	if m.approveErr != nil {
		return nil, m.approveErr
	}
	return &types.Receipt{TxHash: approveTxHash}, nil
}

func (m *mockGateway) EscrowAllowance(_ context.Context, token common.Address) (*big.Int, error) {
	m.calls = append(m.calls, "escrow_allowance")
	return m.escrowAllowance, nil
}

func (m *mockGateway) ApproveEscrow(_ context.Context, token common.Address, amount *big.Int) (*types.Receipt, error) {
	m.calls = append(m.calls, "approve_escrow")
	m.approvedToken = token
	m.approvedAmount = amount
	if m.approveErr != nil {
		return nil, m.approveErr
	}
	return &types.Receipt{TxHash: approveTxHash}, nil
}

func (m *mockGateway) Fill(_ context.Context, orderID common.Hash, originData, fillerData []byte) (*types.Receipt, error) {
	m.calls = append(m.calls, "fill")
	m.fillOrderID = orderID
	m.fillOrigin = originData
	m.fillFiller = fillerData
	if m.fillErr != nil {
		return nil, m.fillErr
	}
	return &types.Receipt{TxHash: fillTxHash}, nil
}

// wonRequest builds an auction won by the local filler together with the
// matching canonical origin data.
func wonRequest(t *testing.T) Request {
	t.Helper()

	enc, err := order.Encode(order.Order{
		Sender:             rivalAddr,
		Recipient:          rivalAddr,
		InputToken:         common.HexToAddress("0x03"),
		OutputToken:        destToken,
		AmountIn:           big.NewInt(100),
		AmountOut:          big.NewInt(90),
		SenderNonce:        42,
		OriginDomain:       11155111,
		DestinationDomain:  299792,
		DestinationSettler: common.HexToAddress("0x04"),
		FillDeadline:       1_800_000_000,
	})
	require.NoError(t, err)

	return Request{
		Auction: auction.Auction{
			ID: 7,
			TokenInfo: auction.TokenInfo{
				DestToken:     destToken,
				MinDestAmount: big.NewInt(90),
			},
			TimeInfo: auction.TimeInfo{
				StartTime:  1,
				EndTime:    1 << 62,
				StartPrice: big.NewInt(108),
				EndPrice:   big.NewInt(90),
			},
			BidInfo: auction.BidInfo{
				Winner:     fillerAddr,
				WinningBid: big.NewInt(500),
			},
			Parties: auction.Parties{
				User:    rivalAddr,
				OrderID: ethcrypto.Keccak256Hash(enc),
			},
		},
		OriginData: enc,
	}
}

func TestCoordinatorSkipsApprovalWhenAllowanceCovers(t *testing.T) {
	gw := &mockGateway{allowance: big.NewInt(1000)}
	c := NewCoordinator(gw, logan.New())

	var got Result
	c.OnFilled(func(r Result) { got = r })

	req := wonRequest(t)
	res, err := c.Run(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, []string{"allowance", "fill"}, gw.calls, "no approval when allowance covers the bid")
	assert.Equal(t, StateFilled, c.State())
	assert.Equal(t, req.Auction.ID, res.AuctionID)
	assert.Equal(t, req.Auction.Parties.OrderID, res.OrderID)
	assert.Equal(t, fillTxHash, res.FillTx)
	assert.Equal(t, res, got, "observer sees the same result")

	assert.Equal(t, req.Auction.Parties.OrderID, gw.fillOrderID)
	assert.Equal(t, req.OriginData, gw.fillOrigin)
	assert.Equal(t, order.EncodeFillerData(fillerAddr), gw.fillFiller)
}

func TestCoordinatorApprovesBeforeFill(t *testing.T) {
	gw := &mockGateway{allowance: big.NewInt(499)}
	c := NewCoordinator(gw, logan.New())

	_, err := c.Run(context.Background(), wonRequest(t))
	require.NoError(t, err)

	assert.Equal(t, []string{"allowance", "approve", "fill"}, gw.calls)
	assert.Equal(t, destToken, gw.approvedToken)
	assert.Equal(t, ethmath.MaxBig256, gw.approvedAmount, "unbounded approval")
	assert.Equal(t, StateFilled, c.State())
}

func TestCoordinatorEligibility(t *testing.T) {
	t.Run("settled auction", func(t *testing.T) {
		gw := &mockGateway{}
		c := NewCoordinator(gw, logan.New())

		req := wonRequest(t)
		req.Auction.BidInfo.Settled = true

		_, err := c.Run(context.Background(), req)
		var stale *StaleStateError
		require.ErrorAs(t, err, &stale)
		assert.Equal(t, auction.StateSettled, stale.State)
		assert.Empty(t, gw.calls, "nothing submitted on a validation exit")
		assert.Equal(t, StateFailed, c.State())
	})

	t.Run("won by another filler", func(t *testing.T) {
		gw := &mockGateway{}
		c := NewCoordinator(gw, logan.New())

		req := wonRequest(t)
		req.Auction.BidInfo.Winner = rivalAddr

		_, err := c.Run(context.Background(), req)
		var stale *StaleStateError
		require.ErrorAs(t, err, &stale)
		assert.Empty(t, gw.calls)
	})

	t.Run("no winner yet", func(t *testing.T) {
		gw := &mockGateway{}
		c := NewCoordinator(gw, logan.New())

		req := wonRequest(t)
		req.Auction.BidInfo.Winner = common.Address{}

		_, err := c.Run(context.Background(), req)
		var ineligible *IneligibleStateError
		require.ErrorAs(t, err, &ineligible)
		assert.Empty(t, gw.calls)
	})

	t.Run("empty origin data", func(t *testing.T) {
		gw := &mockGateway{}
		c := NewCoordinator(gw, logan.New())

		req := wonRequest(t)
		req.OriginData = nil

		_, err := c.Run(context.Background(), req)
		require.Error(t, err)
		assert.Empty(t, gw.calls)
		assert.Equal(t, StateFailed, c.State())
	})

	t.Run("origin data does not match order id", func(t *testing.T) {
		gw := &mockGateway{}
		c := NewCoordinator(gw, logan.New())

		req := wonRequest(t)
		req.OriginData = append([]byte(nil), req.OriginData...)
		req.OriginData[0] ^= 0xff

		_, err := c.Run(context.Background(), req)
		require.Error(t, err)
		assert.Empty(t, gw.calls)
	})
}

func TestCoordinatorChainFailures(t *testing.T) {
	t.Run("allowance read fails", func(t *testing.T) {
		gw := &mockGateway{allowanceErr: assert.AnError}
		c := NewCoordinator(gw, logan.New())

		_, err := c.Run(context.Background(), wonRequest(t))
		var chainErr *ChainCallError
		require.ErrorAs(t, err, &chainErr)
		assert.Equal(t, StageApproval, chainErr.Stage)
		assert.Equal(t, []string{"allowance"}, gw.calls)
	})

	t.Run("approve fails", func(t *testing.T) {
		gw := &mockGateway{allowance: big.NewInt(0), approveErr: assert.AnError}
		c := NewCoordinator(gw, logan.New())

		_, err := c.Run(context.Background(), wonRequest(t))
		var allowanceErr *AllowanceError
		require.ErrorAs(t, err, &allowanceErr)
		assert.NotContains(t, gw.calls, "fill", "fill must not run after a failed approval")
		assert.Equal(t, StateFailed, c.State())
	})

	t.Run("fill fails", func(t *testing.T) {
		gw := &mockGateway{allowance: big.NewInt(1000), fillErr: assert.AnError}
		c := NewCoordinator(gw, logan.New())

		filled := false
		c.OnFilled(func(Result) { filled = true })

		_, err := c.Run(context.Background(), wonRequest(t))
		var chainErr *ChainCallError
		require.ErrorAs(t, err, &chainErr)
		assert.Equal(t, StageFill, chainErr.Stage)
		assert.Equal(t, StateFailed, c.State())
		assert.Equal(t, err, c.Err())
		assert.False(t, filled)
	})
}
