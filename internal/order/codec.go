package order

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"gitlab.com/distributed_lab/logan/v3/errors"
)

// The canonical wire format is a single ABI tuple with the fields in fixed
// declaration order. Address fields travel as 32-byte left-padded words so
// that re-encoding is byte-identical on every chain regardless of native
// address width. The settlement contracts compute the same bytes
// independently; any deviation here breaks fill verification.
var (
	orderTuple  abi.Arguments
	bytes32Args abi.Arguments
)

func init() {
	tuple, err := abi.NewType("tuple", "", []abi.ArgumentMarshaling{
		{Name: "sender", Type: "bytes32"},
		{Name: "recipient", Type: "bytes32"},
		{Name: "inputToken", Type: "bytes32"},
		{Name: "outputToken", Type: "bytes32"},
		{Name: "amountIn", Type: "uint256"},
		{Name: "amountOut", Type: "uint256"},
		{Name: "senderNonce", Type: "uint32"},
		{Name: "originDomain", Type: "uint32"},
		{Name: "destinationDomain", Type: "uint32"},
		{Name: "destinationSettler", Type: "bytes32"},
		{Name: "fillDeadline", Type: "uint32"},
		{Name: "data", Type: "bytes"},
	})
	if err != nil {
		panic(errors.Wrap(err, "failed to build order tuple type"))
	}
	orderTuple = abi.Arguments{{Type: tuple}}

	bytes32, err := abi.NewType("bytes32", "", nil)
	if err != nil {
		panic(errors.Wrap(err, "failed to build bytes32 type"))
	}
	bytes32Args = abi.Arguments{{Type: bytes32}}
}

type wireOrder struct {
	Sender             [32]byte
	Recipient          [32]byte
	InputToken         [32]byte
	OutputToken        [32]byte
	AmountIn           *big.Int
	AmountOut          *big.Int
	SenderNonce        uint32
	OriginDomain       uint32
	DestinationDomain  uint32
	DestinationSettler [32]byte
	FillDeadline       uint32
	Data               []byte
}

// Encode serializes the order into its canonical byte encoding.
// Pure; equal orders always yield equal bytes.
func Encode(o Order) ([]byte, error) {
	if err := o.validate(); err != nil {
		return nil, err
	}

	data := o.Data
	if data == nil {
		data = []byte{}
	}

	packed, err := orderTuple.Pack(wireOrder{
		Sender:             wordFromAddress(o.Sender),
		Recipient:          wordFromAddress(o.Recipient),
		InputToken:         wordFromAddress(o.InputToken),
		OutputToken:        wordFromAddress(o.OutputToken),
		AmountIn:           o.AmountIn,
		AmountOut:          o.AmountOut,
		SenderNonce:        o.SenderNonce,
		OriginDomain:       o.OriginDomain,
		DestinationDomain:  o.DestinationDomain,
		DestinationSettler: wordFromAddress(o.DestinationSettler),
		FillDeadline:       o.FillDeadline,
		Data:               data,
	})
	return packed, errors.Wrap(err, "failed to pack order tuple")
}

// ID derives the content-addressed order identifier:
// keccak-256 of the canonical encoding.
func ID(o Order) (common.Hash, error) {
	enc, err := Encode(o)
	if err != nil {
		return common.Hash{}, err
	}
	return ethcrypto.Keccak256Hash(enc), nil
}

// EncodeFillerData packs the filler's destination address the way the fill
// call expects it: a single left-padded bytes32 word.
func EncodeFillerData(filler common.Address) []byte {
	packed, err := bytes32Args.Pack(wordFromAddress(filler))
	if err != nil {
		// bytes32 packing of a fixed-size word cannot fail
		panic(errors.Wrap(err, "failed to pack filler data"))
	}
	return packed
}
