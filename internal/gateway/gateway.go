package gateway

import (
	"context"
	"math/big"

	cache "github.com/Code-Hex/go-generics-cache"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/dutch-bridge/settler-svc/internal/auction"
	"github.com/dutch-bridge/settler-svc/internal/order"
	"gitlab.com/distributed_lab/logan/v3"
	"gitlab.com/distributed_lab/logan/v3/errors"
)

// Gateway is the single chain access point of the service: contract reads,
// transaction submission and inclusion waits. Every method takes a context
// and blocks until the call resolves; transactions, once submitted, are
// externally durable and survive caller cancellation.
type Gateway struct {
	client     *ethclient.Client
	auctionC   *bind.BoundContract
	escrowC    *bind.BoundContract
	erc20      abi.ABI
	transactor *bind.TransactOpts
	auctionAt  common.Address
	escrowAt   common.Address
	openFee    *big.Int

	tokens *cache.Cache[common.Address, TokenMetadata]
	log    *logan.Entry
}

// Opts collects everything a gateway needs; all of it comes from config,
// nothing is ambient.
type Opts struct {
	Client         *ethclient.Client
	AuctionAddress common.Address
	EscrowAddress  common.Address
	Transactor     *bind.TransactOpts
	OpenFee        *big.Int
	Log            *logan.Entry
}

func New(o Opts) *Gateway {
	auctionParsed := mustParseABI(auctionABI)
	escrowParsed := mustParseABI(escrowABI)

	return &Gateway{
		client:     o.Client,
		auctionC:   bind.NewBoundContract(o.AuctionAddress, auctionParsed, o.Client, o.Client, o.Client),
		escrowC:    bind.NewBoundContract(o.EscrowAddress, escrowParsed, o.Client, o.Client, o.Client),
		erc20:      mustParseABI(erc20ABI),
		transactor: o.Transactor,
		auctionAt:  o.AuctionAddress,
		escrowAt:   o.EscrowAddress,
		openFee:    o.OpenFee,
		tokens:     cache.New[common.Address, TokenMetadata](),
		log:        o.Log,
	}
}

// Sender is the address transactions are signed with.
func (g *Gateway) Sender() common.Address {
	return g.transactor.From
}

// NextAuctionID returns the total auction count; ids are sequential from 0.
func (g *Gateway) NextAuctionID(ctx context.Context) (uint64, error) {
	var out []interface{}
	err := g.auctionC.Call(&bind.CallOpts{Context: ctx}, &out, "nextAuctionId")
	if err != nil {
		return 0, errors.Wrap(err, "failed to call nextAuctionId")
	}
	return out[0].(*big.Int).Uint64(), nil
}

func (g *Gateway) AuctionExists(ctx context.Context, id uint64) (bool, error) {
	var out []interface{}
	err := g.auctionC.Call(&bind.CallOpts{Context: ctx}, &out, "auctionExists", new(big.Int).SetUint64(id))
	if err != nil {
		return false, errors.Wrap(err, "failed to call auctionExists", logan.F{"auction_id": id})
	}
	return out[0].(bool), nil
}

// GetAuction reads the four sub-records of one auction and assembles a
// consistent projection. All reads share the caller's context.
func (g *Gateway) GetAuction(ctx context.Context, id uint64) (auction.Auction, error) {
	a := auction.Auction{ID: id}
	opts := &bind.CallOpts{Context: ctx}
	bigID := new(big.Int).SetUint64(id)
	fields := logan.F{"auction_id": id}

	var out []interface{}
	if err := g.auctionC.Call(opts, &out, "auctionTokens", bigID); err != nil {
		return a, errors.Wrap(err, "failed to call auctionTokens", fields)
	}
	a.TokenInfo = auction.TokenInfo{
		SourceToken:   out[0].(common.Address),
		SourceAmount:  out[1].(*big.Int),
		DestToken:     out[2].(common.Address),
		MinDestAmount: out[3].(*big.Int),
	}

	out = nil
	if err := g.auctionC.Call(opts, &out, "auctionTimes", bigID); err != nil {
		return a, errors.Wrap(err, "failed to call auctionTimes", fields)
	}
	a.TimeInfo = auction.TimeInfo{
		StartTime:  out[0].(*big.Int).Uint64(),
		EndTime:    out[1].(*big.Int).Uint64(),
		StartPrice: out[2].(*big.Int),
		EndPrice:   out[3].(*big.Int),
	}

	out = nil
	if err := g.auctionC.Call(opts, &out, "auctionBids", bigID); err != nil {
		return a, errors.Wrap(err, "failed to call auctionBids", fields)
	}
	a.BidInfo = auction.BidInfo{
		Winner:     out[0].(common.Address),
		WinningBid: out[1].(*big.Int),
		Settled:    out[2].(bool),
	}

	out = nil
	if err := g.auctionC.Call(opts, &out, "auctionParties", bigID); err != nil {
		return a, errors.Wrap(err, "failed to call auctionParties", fields)
	}
	a.Parties = auction.Parties{
		User:    out[0].(common.Address),
		OrderID: common.Hash(out[1].([32]byte)),
	}

	return a, nil
}

// CurrentPrice asks the contract for the price it would accept right now.
// Callers may fall back to the local decay computation when this read
// fails; the contract stays authoritative at bid time either way.
func (g *Gateway) CurrentPrice(ctx context.Context, id uint64) (*big.Int, error) {
	var out []interface{}
	err := g.auctionC.Call(&bind.CallOpts{Context: ctx}, &out, "getCurrentPrice", new(big.Int).SetUint64(id))
	if err != nil {
		return nil, errors.Wrap(err, "failed to call getCurrentPrice", logan.F{"auction_id": id})
	}
	return out[0].(*big.Int), nil
}

// PlaceBid submits a bid at the auction's current price and waits for
// inclusion. The contract is the sole arbiter of the filler race; a revert
// here is a normal already-won outcome, not a bug.
func (g *Gateway) PlaceBid(ctx context.Context, id uint64) (*types.Receipt, error) {
	tx, err := g.auctionC.Transact(g.txOpts(ctx, nil), "placeBid", new(big.Int).SetUint64(id))
	if err != nil {
		return nil, errors.Wrap(err, "failed to submit placeBid", logan.F{"auction_id": id})
	}
	return g.waitMined(ctx, tx)
}

// Fill executes the winning settlement on the destination domain.
func (g *Gateway) Fill(ctx context.Context, orderID common.Hash, originData, fillerData []byte) (*types.Receipt, error) {
	tx, err := g.auctionC.Transact(g.txOpts(ctx, nil), "fill", [32]byte(orderID), originData, fillerData)
	if err != nil {
		return nil, errors.Wrap(err, "failed to submit fill", logan.F{"order_id": orderID.Hex()})
	}
	return g.waitMined(ctx, tx)
}

// OpenOrder deposits a new cross-chain order into the escrow, paying the
// configured protocol fee.
func (g *Gateway) OpenOrder(ctx context.Context, o order.OnchainOrder) (*types.Receipt, error) {
	tx, err := g.escrowC.Transact(g.txOpts(ctx, g.openFee), "open", o)
	if err != nil {
		return nil, errors.Wrap(err, "failed to submit open")
	}
	return g.waitMined(ctx, tx)
}

// Allowance returns how much of token the settlement contract may pull
// from the sender.
func (g *Gateway) Allowance(ctx context.Context, token common.Address) (*big.Int, error) {
	return g.allowance(ctx, token, g.auctionAt)
}

// Approve grants the settlement contract an allowance of token and waits
// for inclusion.
func (g *Gateway) Approve(ctx context.Context, token common.Address, amount *big.Int) (*types.Receipt, error) {
	return g.approve(ctx, token, g.auctionAt, amount)
}

// EscrowAllowance and ApproveEscrow are the deposit-side counterparts: the
// escrow pulls the input token when an order is opened.
func (g *Gateway) EscrowAllowance(ctx context.Context, token common.Address) (*big.Int, error) {
	return g.allowance(ctx, token, g.escrowAt)
}

func (g *Gateway) ApproveEscrow(ctx context.Context, token common.Address, amount *big.Int) (*types.Receipt, error) {
	return g.approve(ctx, token, g.escrowAt, amount)
}

func (g *Gateway) allowance(ctx context.Context, token, spender common.Address) (*big.Int, error) {
	var out []interface{}
	err := g.erc20At(token).Call(&bind.CallOpts{Context: ctx}, &out, "allowance", g.Sender(), spender)
	if err != nil {
		return nil, errors.Wrap(err, "failed to call allowance", logan.F{"token": token.Hex()})
	}
	return out[0].(*big.Int), nil
}

func (g *Gateway) approve(ctx context.Context, token, spender common.Address, amount *big.Int) (*types.Receipt, error) {
	tx, err := g.erc20At(token).Transact(g.txOpts(ctx, nil), "approve", spender, amount)
	if err != nil {
		return nil, errors.Wrap(err, "failed to submit approve", logan.F{"token": token.Hex()})
	}
	return g.waitMined(ctx, tx)
}

func (g *Gateway) erc20At(token common.Address) *bind.BoundContract {
	return bind.NewBoundContract(token, g.erc20, g.client, g.client, g.client)
}

func (g *Gateway) txOpts(ctx context.Context, value *big.Int) *bind.TransactOpts {
	opts := *g.transactor
	opts.Context = ctx
	opts.Value = value
	return &opts
}

func (g *Gateway) waitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	fields := logan.F{"tx_hash": tx.Hash().Hex()}
	receipt, err := bind.WaitMined(ctx, g.client, tx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to wait for tx inclusion", fields)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, errors.From(errors.New("transaction reverted"), fields)
	}
	return receipt, nil
}
