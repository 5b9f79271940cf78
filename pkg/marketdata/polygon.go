package marketdata

import (
	"context"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"

	"github.com/KushT00/Forex-Ultimate/internal/types"
	"github.com/KushT00/Forex-Ultimate/pkg/errors"
)

// PolygonProvider fetches aggregate bars from Polygon.io.
type PolygonProvider struct {
	client *polygon.Client
}

// NewPolygonProvider creates a provider backed by the Polygon.io REST API.
func NewPolygonProvider(apiKey string) *PolygonProvider {
	return &PolygonProvider{
		client: polygon.New(apiKey),
	}
}

// Name implements the Provider interface.
func (p *PolygonProvider) Name() string {
	return string(ProviderPolygon)
}

// FetchCandles implements the Provider interface.
func (p *PolygonProvider) FetchCandles(ctx context.Context, symbol string, timeframeMinutes int, startOffset int, count int) ([]types.Candle, error) {
	if timeframeMinutes <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidTimeframe, "timeframe must be positive, got %d", timeframeMinutes)
	}

	// Request a window wide enough to cover count+startOffset bars ending
	// now. Market closures can thin the window out, so over-fetch by 2x and
	// trim below.
	span := time.Duration((count+startOffset)*timeframeMinutes*2) * time.Minute
	now := time.Now().UTC()

	//nolint:exhaustruct // third-party struct with many optional fields
	params := models.ListAggsParams{
		Ticker:     symbol,
		Multiplier: timeframeMinutes,
		Timespan:   models.Minute,
		From:       models.Millis(now.Add(-span)),
		To:         models.Millis(now),
	}.WithLimit(50000)

	iter := p.client.ListAggs(ctx, params)

	var candles []types.Candle

	for iter.Next() {
		agg := iter.Item()
		candles = append(candles, types.Candle{
			Time:   time.Time(agg.Timestamp).UTC(),
			Open:   agg.Open,
			High:   agg.High,
			Low:    agg.Low,
			Close:  agg.Close,
			Volume: agg.Volume,
		})
	}

	if iter.Err() != nil {
		return nil, errors.Wrapf(errors.ErrCodeDataUnavailable, iter.Err(), "failed to fetch %s aggregates from polygon", symbol)
	}

	if len(candles) == 0 {
		return nil, errors.Newf(errors.ErrCodeDataUnavailable, "polygon returned no aggregates for %s", symbol)
	}

	if startOffset > 0 {
		if startOffset >= len(candles) {
			return nil, errors.Newf(errors.ErrCodeDataUnavailable, "polygon returned only %d aggregates for %s, offset %d", len(candles), symbol, startOffset)
		}

		candles = candles[:len(candles)-startOffset]
	}

	if len(candles) > count {
		candles = candles[len(candles)-count:]
	}

	return candles, nil
}
