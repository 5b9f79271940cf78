// Package marketdata fetches OHLCV candles from external providers.
package marketdata

import (
	"context"
	"fmt"

	"github.com/KushT00/Forex-Ultimate/internal/types"
	"github.com/KushT00/Forex-Ultimate/pkg/errors"
)

// ProviderType defines the type of market data provider.
type ProviderType string

const (
	ProviderBinance ProviderType = "binance"
	ProviderPolygon ProviderType = "polygon"
)

// Provider fetches historical candles for one symbol and timeframe.
//
// startOffset counts back from the most recent candle (0 = most recent) and
// count is the number of candles requested. Candles are returned in ascending
// time order. A provider that cannot return any usable data fails with an
// ErrCodeDataUnavailable error.
type Provider interface {
	// FetchCandles returns up to count candles ending startOffset candles
	// before the most recent one.
	FetchCandles(ctx context.Context, symbol string, timeframeMinutes int, startOffset int, count int) ([]types.Candle, error)
	// Name returns the provider identifier used in logs.
	Name() string
}

// NewProvider creates a market data provider based on the provider type.
// The apiKey is only required by providers that authenticate (polygon).
func NewProvider(providerType ProviderType, apiKey string) (Provider, error) {
	switch providerType {
	case ProviderBinance:
		return NewBinanceProvider(), nil
	case ProviderPolygon:
		if apiKey == "" {
			return nil, errors.New(errors.ErrCodeProviderKeyNeeded, "polygon provider requires an API key")
		}

		return NewPolygonProvider(apiKey), nil
	default:
		return nil, errors.Newf(errors.ErrCodeUnknownProvider, "unsupported market data provider: %s", providerType)
	}
}

// intervalForMinutes converts a timeframe in minutes to the provider-neutral
// interval notation used by Binance (1m, 5m, 15m, 30m, 1h, 4h, 1d).
func intervalForMinutes(timeframeMinutes int) (string, error) {
	switch {
	case timeframeMinutes <= 0:
		return "", errors.Newf(errors.ErrCodeInvalidTimeframe, "timeframe must be positive, got %d", timeframeMinutes)
	case timeframeMinutes < 60:
		return fmt.Sprintf("%dm", timeframeMinutes), nil
	case timeframeMinutes%1440 == 0:
		return fmt.Sprintf("%dd", timeframeMinutes/1440), nil
	case timeframeMinutes%60 == 0:
		return fmt.Sprintf("%dh", timeframeMinutes/60), nil
	default:
		return "", errors.Newf(errors.ErrCodeInvalidTimeframe, "timeframe %d minutes has no interval notation", timeframeMinutes)
	}
}
