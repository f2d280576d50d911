package td

import (
	"context"
	"net/url"
	"strings"
)

// GetQuotes issues one batched quote request and returns the decoded
// response keyed by symbol, unmodified.
func (c *Client) GetQuotes(ctx context.Context, symbols ...string) (map[string]any, error) {
	return c.quotes(ctx, symbols)
}

// GetQuoteField issues one batched quote request and projects a single
// field: the result maps each requested symbol to that field's numeric
// value. A symbol or field missing from the response is an error, never a
// silent zero.
func (c *Client) GetQuoteField(ctx context.Context, field string, symbols ...string) (map[string]float64, error) {
	body, err := c.quotes(ctx, symbols)
	if err != nil {
		return nil, err
	}

	out := make(map[string]float64, len(symbols))
	for _, symbol := range symbols {
		quote, ok := body[symbol].(map[string]any)
		if !ok {
			return nil, &FieldError{Symbol: symbol, Field: field}
		}
		value, ok := quote[field].(float64)
		if !ok {
			return nil, &FieldError{Symbol: symbol, Field: field}
		}
		out[symbol] = value
	}
	return out, nil
}

func (c *Client) quotes(ctx context.Context, symbols []string) (map[string]any, error) {
	params := url.Values{"symbol": {strings.Join(symbols, ",")}}
	return c.get(ctx, c.baseURL+"/marketdata/quotes", params)
}

func (c *Client) quoteField(ctx context.Context, symbol, field string) (float64, error) {
	values, err := c.GetQuoteField(ctx, field, symbol)
	if err != nil {
		return 0, err
	}
	return values[symbol], nil
}

// GetBidPrice returns the current bid price for symbol.
func (c *Client) GetBidPrice(ctx context.Context, symbol string) (float64, error) {
	return c.quoteField(ctx, symbol, "bidPrice")
}

// GetAskPrice returns the current ask price for symbol.
func (c *Client) GetAskPrice(ctx context.Context, symbol string) (float64, error) {
	return c.quoteField(ctx, symbol, "askPrice")
}

// GetLastPrice returns the last traded price for symbol.
func (c *Client) GetLastPrice(ctx context.Context, symbol string) (float64, error) {
	return c.quoteField(ctx, symbol, "lastPrice")
}

// GetVolatility returns the quoted volatility for symbol.
func (c *Client) GetVolatility(ctx context.Context, symbol string) (float64, error) {
	return c.quoteField(ctx, symbol, "volatility")
}
