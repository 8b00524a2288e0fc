package config

import (
	"crypto/ecdsa"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"gitlab.com/distributed_lab/figure/v3"
	"gitlab.com/distributed_lab/kit/kv"
	"gitlab.com/distributed_lab/logan/v3/errors"
)

// Filler is the identity and bidding policy of this settlement node.
type Filler struct {
	Key     *ecdsa.PrivateKey
	Address common.Address

	BidEnabled bool
	// MaxPremiumBps caps how far above the auction's reserve price the
	// node is willing to bid, in basis points of minDestAmount.
	MaxPremiumBps int64
}

func (c *config) Filler() Filler {
	return c.fillerOnce.Do(func() interface{} {
		var cfg struct {
			PrivateKey    string `fig:"private_key,required"`
			BidEnabled    bool   `fig:"bid_enabled"`
			MaxPremiumBps int64  `fig:"max_premium_bps"`
		}

		err := figure.Out(&cfg).
			From(kv.MustGetStringMap(c.getter, "filler")).
			Please()
		if err != nil {
			panic(errors.Wrap(err, "failed to figure out filler"))
		}

		if cfg.MaxPremiumBps < 0 {
			panic("max_premium_bps must not be negative")
		}

		key, err := ethcrypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
		if err != nil {
			panic(errors.Wrap(err, "failed to parse filler private key"))
		}

		return Filler{
			Key:           key,
			Address:       ethcrypto.PubkeyToAddress(key.PublicKey),
			BidEnabled:    cfg.BidEnabled,
			MaxPremiumBps: cfg.MaxPremiumBps,
		}
	}).(Filler)
}
