// Package broker declares the capability interfaces a strategy layer
// depends on. Concrete broker clients implement the subset they support;
// interface satisfaction replaces runtime capability lists.
package broker

import "context"

// QuoteProvider is the level-one quote surface.
type QuoteProvider interface {
	GetBidPrice(ctx context.Context, symbol string) (float64, error)
	GetAskPrice(ctx context.Context, symbol string) (float64, error)
	GetLastPrice(ctx context.Context, symbol string) (float64, error)
	GetVolatility(ctx context.Context, symbol string) (float64, error)
}

// AccountProvider exposes brokerage account state.
type AccountProvider interface {
	GetAccount(ctx context.Context, accountID string) (map[string]any, error)
}
