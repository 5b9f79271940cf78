package marketdata

import (
	"context"
	"strconv"
	"time"

	binance "github.com/adshao/go-binance/v2"

	"github.com/KushT00/Forex-Ultimate/internal/types"
	"github.com/KushT00/Forex-Ultimate/pkg/errors"
)

// BinanceProvider fetches klines from the public Binance market data API.
// No authentication is required for historical klines.
type BinanceProvider struct {
	client *binance.Client
}

// NewBinanceProvider creates a provider backed by the public Binance API.
func NewBinanceProvider() *BinanceProvider {
	return &BinanceProvider{
		client: binance.NewClient("", ""),
	}
}

// Name implements the Provider interface.
func (p *BinanceProvider) Name() string {
	return string(ProviderBinance)
}

// FetchCandles implements the Provider interface.
func (p *BinanceProvider) FetchCandles(ctx context.Context, symbol string, timeframeMinutes int, startOffset int, count int) ([]types.Candle, error) {
	interval, err := intervalForMinutes(timeframeMinutes)
	if err != nil {
		return nil, err
	}

	klines, err := p.client.NewKlinesService().
		Symbol(symbol).
		Interval(interval).
		Limit(count + startOffset).
		Do(ctx)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeDataUnavailable, err, "failed to fetch %s klines from binance", symbol)
	}

	if len(klines) == 0 {
		return nil, errors.Newf(errors.ErrCodeDataUnavailable, "binance returned no klines for %s", symbol)
	}

	candles := make([]types.Candle, 0, len(klines))
	for _, k := range klines {
		open, _ := strconv.ParseFloat(k.Open, 64)
		high, _ := strconv.ParseFloat(k.High, 64)
		low, _ := strconv.ParseFloat(k.Low, 64)
		closePrice, _ := strconv.ParseFloat(k.Close, 64)
		volume, _ := strconv.ParseFloat(k.Volume, 64)

		candles = append(candles, types.Candle{
			Time:   time.UnixMilli(k.OpenTime).UTC(),
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closePrice,
			Volume: volume,
		})
	}

	// Klines arrive oldest first; drop the newest startOffset candles.
	if startOffset > 0 {
		if startOffset >= len(candles) {
			return nil, errors.Newf(errors.ErrCodeDataUnavailable, "binance returned only %d klines for %s, offset %d", len(candles), symbol, startOffset)
		}

		candles = candles[:len(candles)-startOffset]
	}

	return candles, nil
}
