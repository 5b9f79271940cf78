package marketdata

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KushT00/Forex-Ultimate/pkg/errors"
)

type ProviderTestSuite struct {
	suite.Suite
}

func TestProviderSuite(t *testing.T) {
	suite.Run(t, new(ProviderTestSuite))
}

func (suite *ProviderTestSuite) TestNewProviderBinance() {
	p, err := NewProvider(ProviderBinance, "")
	suite.NoError(err)
	suite.Equal("binance", p.Name())
}

func (suite *ProviderTestSuite) TestNewProviderPolygonRequiresKey() {
	_, err := NewProvider(ProviderPolygon, "")
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeProviderKeyNeeded))

	p, err := NewProvider(ProviderPolygon, "test-key")
	suite.NoError(err)
	suite.Equal("polygon", p.Name())
}

func (suite *ProviderTestSuite) TestNewProviderUnknown() {
	_, err := NewProvider(ProviderType("mt5"), "")
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeUnknownProvider))
}

func (suite *ProviderTestSuite) TestIntervalForMinutes() {
	cases := map[int]string{
		1:    "1m",
		5:    "5m",
		15:   "15m",
		30:   "30m",
		60:   "1h",
		240:  "4h",
		1440: "1d",
	}
	for minutes, want := range cases {
		got, err := intervalForMinutes(minutes)
		suite.NoError(err)
		suite.Equal(want, got)
	}
}

func (suite *ProviderTestSuite) TestIntervalForMinutesInvalid() {
	for _, minutes := range []int{0, -5, 90} {
		_, err := intervalForMinutes(minutes)
		suite.Error(err, "minutes=%d", minutes)
		suite.True(errors.HasCode(err, errors.ErrCodeInvalidTimeframe))
	}
}
