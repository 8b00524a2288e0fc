package order

import (
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// orderDataTypeString is the full type string of the order payload schema.
// The contracts hash the same string on their side; the envelope must carry
// keccak-256 of these exact bytes or open reverts. Note senderNonce is
// declared uint256 here even though the wire encoding packs it as uint32.
const orderDataTypeString = "OrderData(" +
	"bytes32 sender," +
	"bytes32 recipient," +
	"bytes32 inputToken," +
	"bytes32 outputToken," +
	"uint256 amountIn," +
	"uint256 amountOut," +
	"uint256 senderNonce," +
	"uint32 originDomain," +
	"uint32 destinationDomain," +
	"bytes32 destinationSettler," +
	"uint32 fillDeadline," +
	"bytes data)"

// OrderDataTypeHash identifies the order payload schema understood by the
// escrow and settlement contracts:
// 0x08d75650babf4de09c9273d48ef647876057ed91d4323f8a2e3ebc2cd8a63b5e.
var OrderDataTypeHash = ethcrypto.Keccak256Hash([]byte(orderDataTypeString))

// OnchainOrder is the envelope submitted to escrow.open: the fill deadline,
// the payload schema hash and the canonical order encoding itself.
type OnchainOrder struct {
	FillDeadline  uint32
	OrderDataType [32]byte
	OrderData     []byte
}

// NewOnchainOrder encodes the order and wraps it for submission to the
// escrow contract.
func NewOnchainOrder(o Order) (OnchainOrder, error) {
	enc, err := Encode(o)
	if err != nil {
		return OnchainOrder{}, err
	}

	return OnchainOrder{
		FillDeadline:  o.FillDeadline,
		OrderDataType: [32]byte(OrderDataTypeHash),
		OrderData:     enc,
	}, nil
}
