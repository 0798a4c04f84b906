package commerce

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	json "github.com/goccy/go-json"
	"github.com/radiusart/mint-actions/internal/mint"
	"github.com/shopspring/decimal"
)

// mintPage is the mint-page document served by the commerce backend. Price
// stays raw so that absence, null and wrong types can be told apart.
type mintPage struct {
	ImageURL    *string         `json:"imageUrl"`
	Title       *string         `json:"title"`
	Content     *string         `json:"content"`
	Description *string         `json:"description"`
	Price       json.RawMessage `json:"price"`
}

// Resolve fetches presentation data and the unit price for ref. It makes a
// single attempt; nothing is cached.
func (c *Client) Resolve(ctx context.Context, ref mint.CollectionRef) (*mint.ActionMetadata, error) {
	if ref == "" {
		return nil, mint.ErrInvalidReference
	}

	resp, err := c.do(ctx, "mint_page", http.MethodGet, c.endpoint("mint-page", ref), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: collection %q not found", mint.ErrInvalidReference, ref)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("%w: mint page returned status %d", mint.ErrUpstreamUnavailable, resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read mint page: %w", mint.ErrUpstreamUnavailable, err)
	}

	meta, err := parseMintPage(raw)
	if err != nil {
		c.logger.Warnw("Malformed mint page", "collection", ref, "error", err)
		return nil, err
	}

	c.logger.Debugw("Resolved mint page", "collection", ref, "title", meta.Title, "price", meta.UnitPrice.String())
	return meta, nil
}

func parseMintPage(raw []byte) (*mint.ActionMetadata, error) {
	var page mintPage
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, fmt.Errorf("%w: decode mint page: %v", mint.ErrUpstreamMalformed, err)
	}

	if page.ImageURL == nil {
		return nil, fmt.Errorf("%w: imageUrl is missing", mint.ErrUpstreamMalformed)
	}
	if !isAbsoluteHTTPURL(*page.ImageURL) {
		return nil, fmt.Errorf("%w: imageUrl %q is not an absolute http(s) URL", mint.ErrUpstreamMalformed, *page.ImageURL)
	}
	if page.Title == nil {
		return nil, fmt.Errorf("%w: title is missing", mint.ErrUpstreamMalformed)
	}

	description := page.Content
	if description == nil {
		description = page.Description
	}
	if description == nil {
		return nil, fmt.Errorf("%w: content is missing", mint.ErrUpstreamMalformed)
	}

	price, err := parsePrice(page.Price)
	if err != nil {
		return nil, err
	}

	return &mint.ActionMetadata{
		ImageURL:    *page.ImageURL,
		Title:       *page.Title,
		Description: *description,
		UnitPrice:   price,
	}, nil
}

// parsePrice accepts a JSON number or a numeric string.
func parsePrice(raw json.RawMessage) (decimal.Decimal, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return decimal.Zero, fmt.Errorf("%w: price is missing", mint.ErrUpstreamMalformed)
	}

	var price decimal.Decimal
	if err := price.UnmarshalJSON(trimmed); err != nil {
		return decimal.Zero, fmt.Errorf("%w: price %s is not numeric", mint.ErrUpstreamMalformed, trimmed)
	}
	return price, nil
}

func isAbsoluteHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
