package commerce

import (
	"context"
	"fmt"
	"io"
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/radiusart/mint-actions/internal/mint"
)

type mintRequest struct {
	PublicKey string `json:"publicKey"`
}

// Name identifies the commerce backend as a notification sink.
func (c *Client) Name() string {
	return "commerce"
}

// NotifyMint tells the commerce backend that n.Account requested a mint of
// n.CollectionRef. The response body is ignored; only transport failures and
// non-2xx statuses are reported.
func (c *Client) NotifyMint(ctx context.Context, n mint.MintNotification) error {
	body, err := json.Marshal(mintRequest{PublicKey: n.Account})
	if err != nil {
		return fmt.Errorf("encode mint notification: %w", err)
	}

	resp, err := c.do(ctx, "mint_notify", http.MethodPost, c.endpoint("mint", n.CollectionRef), body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("mint notification for %q returned status %d", n.CollectionRef, resp.StatusCode)
	}
	return nil
}
