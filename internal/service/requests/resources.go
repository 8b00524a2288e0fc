package requests

// JSON:API-ish resource envelopes understood by the collector service.

type Key struct {
	ID   string `json:"id,omitempty"`
	Type string `json:"type"`
}

const (
	ResourceTypeAuction = "auction"
	ResourceTypeOrder   = "order"
)
