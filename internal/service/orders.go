package service

import (
	"context"
	"net/url"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"gitlab.com/distributed_lab/logan/v3/errors"
)

// OrderRecord is the collector's stored view of an opened order.
type OrderRecord struct {
	OrderID      string `json:"order_id"`
	SrcChain     int64  `json:"src_chain"`
	EncodedOrder string `json:"encoded_order"`
}

// originData fetches the true canonical order encoding from the collector.
// The fill call requires these exact bytes; there is no placeholder path.
func (s *service) originData(ctx context.Context, orderID common.Hash) ([]byte, error) {
	u, err := url.Parse("/orders/" + orderID.Hex())
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse url")
	}

	var rec OrderRecord
	if err := s.collector.Get(u, &rec); err != nil {
		return nil, errors.Wrap(err, "failed to get order from collector")
	}
	if rec.EncodedOrder == "" {
		return nil, errors.New("collector has no encoding for this order")
	}

	raw, err := hexutil.Decode(rec.EncodedOrder)
	if err != nil {
		return nil, errors.Wrap(err, "collector returned malformed order encoding")
	}
	return raw, nil
}
