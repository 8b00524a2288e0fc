package order

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// MaxDataSize bounds the opaque order payload; the common case is empty.
const MaxDataSize = 4096

// DefaultFillTimeout is how long an order stays fillable after it is opened.
const DefaultFillTimeout = 24 * time.Hour

// Order is a user's intent to move value from the origin domain to the
// destination domain. It is immutable once encoded and is identified by
// the keccak-256 hash of its canonical encoding, see ID.
type Order struct {
	Sender             common.Address
	Recipient          common.Address
	InputToken         common.Address
	OutputToken        common.Address
	AmountIn           *big.Int
	AmountOut          *big.Int
	SenderNonce        uint32
	OriginDomain       uint32
	DestinationDomain  uint32
	DestinationSettler common.Address
	FillDeadline       uint32
	Data               []byte
}

// EncodingError reports an Order field that cannot be represented in the
// canonical wire format. It is fatal to the encode call and never retried.
type EncodingError struct {
	Field  string
	Reason string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("failed to encode order: %s: %s", e.Field, e.Reason)
}

// New builds an order with the conventional defaults: recipient same as
// sender, random nonce, empty payload, fill deadline 24 hours from now.
func New(sender, inputToken, outputToken common.Address, amountIn, amountOut *big.Int,
	originDomain, destinationDomain uint32, settler common.Address, now time.Time) Order {

	return Order{
		Sender:             sender,
		Recipient:          sender,
		InputToken:         inputToken,
		OutputToken:        outputToken,
		AmountIn:           amountIn,
		AmountOut:          amountOut,
		SenderNonce:        NewNonce(),
		OriginDomain:       originDomain,
		DestinationDomain:  destinationDomain,
		DestinationSettler: settler,
		FillDeadline:       uint32(now.Add(DefaultFillTimeout).Unix()),
		Data:               nil,
	}
}

// NewNonce draws a random sender nonce. Nonces provide uniqueness only,
// not sequencing, so collisions across senders are harmless.
func NewNonce() uint32 {
	var seed [4]byte
	_, _ = rand.Read(seed[:])
	h := ethcrypto.Keccak256(seed[:])
	return binary.BigEndian.Uint32(h[:4]) % 10000
}

func (o Order) validate() error {
	if err := validateAmount("amount_in", o.AmountIn); err != nil {
		return err
	}
	if err := validateAmount("amount_out", o.AmountOut); err != nil {
		return err
	}
	if len(o.Data) > MaxDataSize {
		return &EncodingError{Field: "data", Reason: fmt.Sprintf("payload exceeds %d bytes", MaxDataSize)}
	}
	return nil
}

func validateAmount(field string, v *big.Int) error {
	if v == nil {
		return &EncodingError{Field: field, Reason: "is nil"}
	}
	if v.Sign() < 0 {
		return &EncodingError{Field: field, Reason: "is negative"}
	}
	if v.BitLen() > 256 {
		return &EncodingError{Field: field, Reason: "exceeds 256 bits"}
	}
	return nil
}

// AddressFromWord converts a 32-byte left-padded word back to a native
// address. Words with a non-zero prefix do not denote a 20-byte address
// and are rejected.
func AddressFromWord(w [32]byte) (common.Address, error) {
	for _, b := range w[:12] {
		if b != 0 {
			return common.Address{}, &EncodingError{Field: "address", Reason: "not representable in 20 bytes"}
		}
	}
	return common.BytesToAddress(w[12:]), nil
}

// wordFromAddress left-zero-pads a native address to a full 32-byte word.
func wordFromAddress(a common.Address) [32]byte {
	var w [32]byte
	copy(w[12:], a.Bytes())
	return w
}
