package config

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/dutch-bridge/settler-svc/internal/gateway"
	"gitlab.com/distributed_lab/logan/v3/errors"
)

func (c *config) Gateway() *gateway.Gateway {
	return c.gatewayOnce.Do(func() interface{} {
		net := c.Network()
		filler := c.Filler()

		transactor, err := bind.NewKeyedTransactorWithChainID(filler.Key, big.NewInt(net.ChainID))
		if err != nil {
			panic(errors.Wrap(err, "failed to create transactor"))
		}

		return gateway.New(gateway.Opts{
			Client:         net.EthClient,
			AuctionAddress: net.AuctionContract,
			EscrowAddress:  net.EscrowContract,
			Transactor:     transactor,
			OpenFee:        net.OpenFee,
			Log:            c.Log(),
		})
	}).(*gateway.Gateway)
}
