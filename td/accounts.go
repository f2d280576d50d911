package td

import (
	"context"
	"fmt"
	"net/url"
)

// GetFundamentals returns instrument fundamentals for symbol.
func (c *Client) GetFundamentals(ctx context.Context, symbol string) (map[string]any, error) {
	params := url.Values{
		"symbol":     {symbol},
		"projection": {"fundamental"},
	}
	return c.get(ctx, c.baseURL+"/instruments", params)
}

// GetMovers returns the top movers for an index, e.g. "$DJI". Direction
// is "up" or "down"; change is "value" or "percent". Empty values are
// omitted and the server applies its defaults.
func (c *Client) GetMovers(ctx context.Context, index, direction, change string) (map[string]any, error) {
	params := url.Values{}
	if direction != "" {
		params.Set("direction", direction)
	}
	if change != "" {
		params.Set("change", change)
	}
	u := fmt.Sprintf("%s/marketdata/%s/movers", c.baseURL, url.PathEscape(index))
	return c.get(ctx, u, params)
}

// GetAccount returns account balances together with current positions
// and orders.
func (c *Client) GetAccount(ctx context.Context, accountID string) (map[string]any, error) {
	params := url.Values{"fields": {"positions,orders"}}
	u := fmt.Sprintf("%s/accounts/%s", c.baseURL, url.PathEscape(accountID))
	return c.get(ctx, u, params)
}
