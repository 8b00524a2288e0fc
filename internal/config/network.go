package config

import (
	"context"
	"fmt"
	"math"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"gitlab.com/distributed_lab/figure/v3"
	"gitlab.com/distributed_lab/kit/kv"
	"gitlab.com/distributed_lab/logan/v3/errors"
)

type Network struct {
	EthClient         *ethclient.Client
	AuctionContract   common.Address
	EscrowContract    common.Address
	ChainID           int64
	OriginDomain      uint32
	DestinationDomain uint32
	PollPeriod        time.Duration
	RequestTimeout    time.Duration
	OpenFee           *big.Int
}

const defaultRequestTimeout = 10 * time.Second
const maxChainID int64 = math.MaxUint64/2 - 36

// defaultOpenFee is the protocol fee attached to escrow.open, in wei.
const defaultOpenFee = "1000000000000000"

func (c *config) Network() Network {
	return c.networkOnce.Do(func() interface{} {
		var cfg struct {
			RPC               string         `fig:"rpc,required"`
			AuctionContract   common.Address `fig:"auction_contract,required"`
			EscrowContract    common.Address `fig:"escrow_contract,required"`
			ChainID           int64          `fig:"chain_id,required"`
			OriginDomain      uint32         `fig:"origin_domain,required"`
			DestinationDomain uint32         `fig:"destination_domain,required"`
			PollPeriod        time.Duration  `fig:"poll_period,required"`
			RequestTimeout    time.Duration  `fig:"request_timeout"`
			OpenFee           string         `fig:"open_fee"`
		}

		err := figure.Out(&cfg).
			With(figure.BaseHooks, figure.EthereumHooks).
			From(kv.MustGetStringMap(c.getter, "network")).
			Please()
		if err != nil {
			panic(errors.Wrap(err, "failed to figure out network"))
		}

		if cfg.ChainID > maxChainID || cfg.ChainID <= 0 {
			panic("chain_id value out of range due to EIP 2294")
		}
		if cfg.RequestTimeout == 0 {
			cfg.RequestTimeout = defaultRequestTimeout
		}
		if cfg.OpenFee == "" {
			cfg.OpenFee = defaultOpenFee
		}
		openFee, ok := new(big.Int).SetString(cfg.OpenFee, 10)
		if !ok || openFee.Sign() < 0 {
			panic("open_fee must be a non-negative decimal wei amount")
		}

		cli, err := ethclient.Dial(cfg.RPC)
		if err != nil {
			panic(errors.Wrap(err, "failed to connect to RPC provider"))
		}

		ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
		defer cancel()
		chainID, err := cli.ChainID(ctx)
		if err != nil {
			panic(errors.Wrap(err, "failed to get chain id from RPC provider"))
		}
		if chainID.Int64() != cfg.ChainID {
			panic(fmt.Sprintf("connected to wrong network: expected chain_id=%d, got %s", cfg.ChainID, chainID))
		}

		return Network{
			EthClient:         cli,
			AuctionContract:   cfg.AuctionContract,
			EscrowContract:    cfg.EscrowContract,
			ChainID:           cfg.ChainID,
			OriginDomain:      cfg.OriginDomain,
			DestinationDomain: cfg.DestinationDomain,
			PollPeriod:        cfg.PollPeriod,
			RequestTimeout:    cfg.RequestTimeout,
			OpenFee:           openFee,
		}
	}).(Network)
}
