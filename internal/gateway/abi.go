package gateway

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"gitlab.com/distributed_lab/logan/v3/errors"
)

// Minimal ABI surfaces of the three contracts the service talks to. Only
// the methods actually called are declared; the deployed contracts carry
// more.

const auctionABI = `[
  {"inputs":[],"name":"nextAuctionId","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
  {"inputs":[{"internalType":"uint256","name":"auctionId","type":"uint256"}],"name":"auctionExists","outputs":[{"internalType":"bool","name":"","type":"bool"}],"stateMutability":"view","type":"function"},
  {"inputs":[{"internalType":"uint256","name":"auctionId","type":"uint256"}],"name":"auctionTokens","outputs":[{"internalType":"address","name":"sourceToken","type":"address"},{"internalType":"uint256","name":"sourceAmount","type":"uint256"},{"internalType":"address","name":"destToken","type":"address"},{"internalType":"uint256","name":"minDestAmount","type":"uint256"}],"stateMutability":"view","type":"function"},
  {"inputs":[{"internalType":"uint256","name":"auctionId","type":"uint256"}],"name":"auctionTimes","outputs":[{"internalType":"uint256","name":"startTime","type":"uint256"},{"internalType":"uint256","name":"endTime","type":"uint256"},{"internalType":"uint256","name":"startPrice","type":"uint256"},{"internalType":"uint256","name":"endPrice","type":"uint256"}],"stateMutability":"view","type":"function"},
  {"inputs":[{"internalType":"uint256","name":"auctionId","type":"uint256"}],"name":"auctionBids","outputs":[{"internalType":"address","name":"winner","type":"address"},{"internalType":"uint256","name":"winningBid","type":"uint256"},{"internalType":"bool","name":"settled","type":"bool"}],"stateMutability":"view","type":"function"},
  {"inputs":[{"internalType":"uint256","name":"auctionId","type":"uint256"}],"name":"auctionParties","outputs":[{"internalType":"address","name":"user","type":"address"},{"internalType":"bytes32","name":"orderId","type":"bytes32"}],"stateMutability":"view","type":"function"},
  {"inputs":[{"internalType":"uint256","name":"auctionId","type":"uint256"}],"name":"getCurrentPrice","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
  {"inputs":[{"internalType":"uint256","name":"auctionId","type":"uint256"}],"name":"placeBid","outputs":[],"stateMutability":"nonpayable","type":"function"},
  {"inputs":[{"internalType":"bytes32","name":"orderId","type":"bytes32"},{"internalType":"bytes","name":"originData","type":"bytes"},{"internalType":"bytes","name":"fillerData","type":"bytes"}],"name":"fill","outputs":[],"stateMutability":"nonpayable","type":"function"}
]`

const escrowABI = `[
  {"inputs":[{"components":[{"internalType":"uint32","name":"fillDeadline","type":"uint32"},{"internalType":"bytes32","name":"orderDataType","type":"bytes32"},{"internalType":"bytes","name":"orderData","type":"bytes"}],"internalType":"struct OnchainCrossChainOrder","name":"order","type":"tuple"}],"name":"open","outputs":[],"stateMutability":"payable","type":"function"}
]`

const erc20ABI = `[
  {"inputs":[{"internalType":"address","name":"owner","type":"address"},{"internalType":"address","name":"spender","type":"address"}],"name":"allowance","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
  {"inputs":[{"internalType":"address","name":"spender","type":"address"},{"internalType":"uint256","name":"amount","type":"uint256"}],"name":"approve","outputs":[{"internalType":"bool","name":"","type":"bool"}],"stateMutability":"nonpayable","type":"function"},
  {"inputs":[],"name":"symbol","outputs":[{"internalType":"string","name":"","type":"string"}],"stateMutability":"view","type":"function"},
  {"inputs":[],"name":"decimals","outputs":[{"internalType":"uint8","name":"","type":"uint8"}],"stateMutability":"view","type":"function"}
]`

func mustParseABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(errors.Wrap(err, "failed to parse ABI"))
	}
	return parsed
}
