package requests

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

type AddOrderRequest struct {
	Data Order `json:"data"`
}

type Order struct {
	Key
	Attributes OrderAttributes `json:"attributes"`
}

type OrderAttributes struct {
	SrcChain int64 `json:"src_chain"`
	// EncodedOrder is the canonical order encoding; fillers fetch it back
	// as the origin data required by the fill call.
	EncodedOrder string `json:"encoded_order"`
}

func NewAddOrder(id common.Hash, encoded []byte, chainID int64) AddOrderRequest {
	return AddOrderRequest{
		Data: Order{
			Key: Key{
				ID:   id.Hex(),
				Type: ResourceTypeOrder,
			},
			Attributes: OrderAttributes{
				SrcChain:     chainID,
				EncodedOrder: hexutil.Encode(encoded),
			},
		},
	}
}
