package indicator

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KushT00/Forex-Ultimate/internal/types"
)

type IndicatorTestSuite struct {
	suite.Suite
}

func TestIndicatorSuite(t *testing.T) {
	suite.Run(t, new(IndicatorTestSuite))
}

func (suite *IndicatorTestSuite) TestSMA() {
	values := []float64{1, 2, 3, 4, 5}

	suite.Equal(4.0, SMA(values, 3))
	suite.Equal(3.0, SMA(values, 5))
	suite.Zero(SMA(values, 6), "insufficient data")
	suite.Zero(SMA(values, 0))
}

func (suite *IndicatorTestSuite) TestSMASeries() {
	series := SMASeries([]float64{2, 4, 6, 8}, 2)

	suite.Equal([]float64{2, 3, 5, 7}, series)
}

func (suite *IndicatorTestSuite) TestSMASeriesShortWindow() {
	series := SMASeries([]float64{10, 20}, 5)

	suite.Equal([]float64{10, 15}, series)
}

func (suite *IndicatorTestSuite) TestRSIAllGains() {
	closes := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	series := RSISeries(closes, 3)

	for i, v := range series {
		suite.Equal(100.0, v, "index %d", i)
	}
}

func (suite *IndicatorTestSuite) TestRSIAllLosses() {
	closes := []float64{8, 7, 6, 5, 4, 3}
	series := RSISeries(closes, 3)

	for i := 1; i < len(series); i++ {
		suite.Zero(series[i], "index %d", i)
	}
}

func (suite *IndicatorTestSuite) TestRSIBalanced() {
	// Equal gains and losses give RS=1 and RSI=50.
	closes := []float64{10, 11, 10, 11, 10, 11, 10}
	series := RSISeries(closes, 4)

	suite.InDelta(50.0, series[len(series)-1], 1e-9)
}

func (suite *IndicatorTestSuite) TestTrueRange() {
	candles := []types.Candle{
		{High: 12, Low: 10, Close: 11},
		{High: 13, Low: 12, Close: 12.5}, // gap up: |13-11| = 2 dominates
	}

	series := TrueRangeSeries(candles)
	suite.Equal(2.0, series[0])
	suite.Equal(2.0, series[1])
}

func (suite *IndicatorTestSuite) TestATRConstantRange() {
	var candles []types.Candle
	for i := 0; i < 10; i++ {
		price := 100.0 + float64(i)
		candles = append(candles, types.Candle{
			High:  price + 1,
			Low:   price - 1,
			Close: price,
		})
	}

	atr := ATRSeries(candles, 3)
	// After the first candle every true range is |high-prevClose| = 2.
	suite.InDelta(2.0, atr[len(atr)-1], 1e-9)
}

func (suite *IndicatorTestSuite) TestSupertrendDirectionFlips() {
	var candles []types.Candle

	// Strong uptrend followed by a hard reversal.
	for i := 0; i < 20; i++ {
		price := 100.0 + float64(i)*2
		candles = append(candles, types.Candle{High: price + 0.5, Low: price - 0.5, Close: price})
	}
	for i := 0; i < 20; i++ {
		price := 138.0 - float64(i)*3
		candles = append(candles, types.Candle{High: price + 0.5, Low: price - 0.5, Close: price})
	}

	st := Supertrend(candles, 10, 3.0)

	suite.Equal(1, st.Direction[15], "uptrend holds")
	suite.Equal(-1, st.Direction[len(candles)-1], "downtrend detected after reversal")

	// The line trails below price during the uptrend.
	suite.Less(st.Line[15], candles[15].Close)
}

func (suite *IndicatorTestSuite) TestSupertrendEmpty() {
	st := Supertrend(nil, 10, 3.0)
	suite.Empty(st.Line)
	suite.Empty(st.Direction)
}
