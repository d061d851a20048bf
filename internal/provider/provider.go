// Package provider defines the market data capability the engine
// consumes. Implementations fetch one snapshot per symbol; any failure
// is per-symbol and non-fatal for the request that triggered it.
package provider

import (
	"context"
	"errors"
	"time"

	"github.com/danielhan/advisor/internal/contracts"
)

// ErrNoData means the provider responded but had no usable history or
// fundamentals for the symbol.
var ErrNoData = errors.New("provider: no data for symbol")

// ErrUnavailable means the provider could not be reached or answered
// with a malformed response. Timeouts map here too.
var ErrUnavailable = errors.New("provider: unavailable")

// Provider fetches a metrics snapshot for one symbol. The window is
// the trailing span used to derive historical return and volatility.
// Symbol matching is case-insensitive; implementations canonicalize.
type Provider interface {
	FetchMetrics(ctx context.Context, symbol string, window time.Duration) (contracts.InstrumentMetrics, error)
}
