package gateway

import (
	"context"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

// Fallbacks applied when a token contract does not answer metadata reads.
// Policy, not scattered literals: every caller sees the same defaults.
const (
	UnknownSymbol   = "UNKNOWN"
	DefaultDecimals = uint8(18)
)

// TokenMetadata is display-level information about an ERC-20 token.
type TokenMetadata struct {
	Symbol   string
	Decimals uint8
}

// TokenMetadata resolves symbol and decimals for a token. Lookups never
// fail the caller: unreadable fields fall back to UNKNOWN/18. Fully
// resolved entries are cached forever, the metadata is immutable.
func (g *Gateway) TokenMetadata(ctx context.Context, token common.Address) TokenMetadata {
	if md, ok := g.tokens.Get(token); ok {
		return md
	}

	md := TokenMetadata{Symbol: UnknownSymbol, Decimals: DefaultDecimals}
	resolved := true
	erc20 := g.erc20At(token)
	opts := &bind.CallOpts{Context: ctx}

	var out []interface{}
	if err := erc20.Call(opts, &out, "symbol"); err != nil {
		g.log.WithError(err).WithField("token", token.Hex()).Warn("failed to get token symbol")
		resolved = false
	} else {
		md.Symbol = out[0].(string)
	}

	out = nil
	if err := erc20.Call(opts, &out, "decimals"); err != nil {
		g.log.WithError(err).WithField("token", token.Hex()).Warn("failed to get token decimals")
		resolved = false
	} else {
		md.Decimals = out[0].(uint8)
	}

	if resolved {
		g.tokens.Set(token, md)
	}
	return md
}
