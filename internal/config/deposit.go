package config

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"gitlab.com/distributed_lab/figure/v3"
	"gitlab.com/distributed_lab/kit/kv"
	"gitlab.com/distributed_lab/logan/v3/errors"
)

// Deposit describes the one-shot order opened by the deposit command.
type Deposit struct {
	InputToken         common.Address
	OutputToken        common.Address
	DestinationSettler common.Address
	AmountIn           *big.Int
	AmountOut          *big.Int
}

func (c *config) Deposit() Deposit {
	return c.depositOnce.Do(func() interface{} {
		var cfg struct {
			InputToken         common.Address `fig:"input_token,required"`
			OutputToken        common.Address `fig:"output_token,required"`
			DestinationSettler common.Address `fig:"destination_settler,required"`
			AmountIn           string         `fig:"amount_in,required"`
			AmountOut          string         `fig:"amount_out,required"`
		}

		err := figure.Out(&cfg).
			With(figure.BaseHooks, figure.EthereumHooks).
			From(kv.MustGetStringMap(c.getter, "deposit")).
			Please()
		if err != nil {
			panic(errors.Wrap(err, "failed to figure out deposit"))
		}

		amountIn, ok := new(big.Int).SetString(cfg.AmountIn, 10)
		if !ok || amountIn.Sign() <= 0 {
			panic("amount_in must be a positive decimal amount")
		}
		amountOut, ok := new(big.Int).SetString(cfg.AmountOut, 10)
		if !ok || amountOut.Sign() <= 0 {
			panic("amount_out must be a positive decimal amount")
		}
		if amountOut.Cmp(amountIn) >= 0 {
			panic("amount_out must be strictly less than amount_in")
		}

		return Deposit{
			InputToken:         cfg.InputToken,
			OutputToken:        cfg.OutputToken,
			DestinationSettler: cfg.DestinationSettler,
			AmountIn:           amountIn,
			AmountOut:          amountOut,
		}
	}).(Deposit)
}
