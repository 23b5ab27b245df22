package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// SyncPayload is the sale snapshot pushed to the external sync relay for
// a sale created while the terminal was offline.
type SyncPayload struct {
	SaleID        string `json:"sale_id"`
	ReceiptNumber int    `json:"receipt_number"`
	OperatorID    string `json:"operator_id"`
	Total         string `json:"total"`
	PaymentMethod string `json:"payment_method"`
	CreatedAt     string `json:"created_at"` // RFC 3339
}

// SyncAck is the relay's acknowledgement. Only an accepted ack flips a
// sale from pending to synced — the backend never assumes delivery.
type SyncAck struct {
	Accepted bool   `json:"accepted"`
	Message  string `json:"message,omitempty"`
}

// SyncClient is the HTTP client for the external sale-sync relay.
// Isolating it here keeps relay failures out of the checkout path: the
// worker pool is the only caller.
type SyncClient struct {
	relayURL   string
	httpClient *http.Client
}

func NewSyncClient(relayURL string) *SyncClient {
	return &SyncClient{
		relayURL:   relayURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Push sends one sale to the relay and returns its acknowledgement.
func (c *SyncClient) Push(ctx context.Context, payload SyncPayload) (*SyncAck, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("sync: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.relayURL+"/sales", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("sync: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sync: relay unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sync: relay returned %d", resp.StatusCode)
	}

	var ack SyncAck
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		return nil, fmt.Errorf("sync: decode ack: %w", err)
	}
	return &ack, nil
}
