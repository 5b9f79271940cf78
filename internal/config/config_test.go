package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/KushT00/Forex-Ultimate/pkg/errors"
)

type ConfigTestSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

const validConfig = `
provider: binance
trade_log_path: data/trade_log.json
scheduler:
  workers: 10
  queue_size: 64
  drain_timeout_seconds: 30
server:
  listen_addr: ":8080"
schedules:
  - name: MA_Crossover_5min
    strategy: ma_crossover
    symbols: [XAUUSD, EURUSD, GBPUSD]
    timeframe_minutes: 5
  - name: RSI_Divergence_15min
    strategy: rsi_divergence
    symbols: [XAUUSD, EURUSD, GBPUSD]
    timeframe_minutes: 15
  - name: Supertrend_RSI_15min
    strategy: supertrend_rsi
    symbols: [XAUUSD, EURUSD]
    timeframe_minutes: 15
`

func (suite *ConfigTestSuite) TestParseValidConfig() {
	config, err := Parse([]byte(validConfig))
	suite.Require().NoError(err)

	suite.Equal("binance", config.Provider)
	suite.Equal("data/trade_log.json", config.TradeLogPath)
	suite.Equal(10, config.Scheduler.Workers)
	suite.Equal(30*time.Second, config.DrainTimeout())
	suite.Equal(":8080", config.Server.ListenAddr)
	suite.Require().Len(config.Schedules, 3)
	suite.Equal("MA_Crossover_5min", config.Schedules[0].Name)
	suite.Equal([]string{"XAUUSD", "EURUSD", "GBPUSD"}, config.Schedules[0].Symbols)
	suite.Equal(5, config.Schedules[0].TimeframeMinutes)
}

func (suite *ConfigTestSuite) TestLoadFromFile() {
	path := filepath.Join(suite.T().TempDir(), "config.yaml")
	suite.Require().NoError(os.WriteFile(path, []byte(validConfig), 0o644))

	config, err := Load(path)
	suite.Require().NoError(err)
	suite.Equal("binance", config.Provider)
}

func (suite *ConfigTestSuite) TestLoadMissingFile() {
	_, err := Load(filepath.Join(suite.T().TempDir(), "nope.yaml"))
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *ConfigTestSuite) TestInvalidYAML() {
	_, err := Parse([]byte("provider: [unclosed"))
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *ConfigTestSuite) TestUnknownProviderRejected() {
	_, err := Parse([]byte(`
provider: alpaca
trade_log_path: data/trade_log.json
schedules:
  - name: test
    strategy: ma_crossover
    symbols: [EURUSD]
    timeframe_minutes: 5
`))
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *ConfigTestSuite) TestUnknownStrategyRejected() {
	_, err := Parse([]byte(`
provider: binance
trade_log_path: data/trade_log.json
schedules:
  - name: test
    strategy: momentum
    symbols: [EURUSD]
    timeframe_minutes: 5
`))
	suite.Require().Error(err)
}

func (suite *ConfigTestSuite) TestEmptySchedulesRejected() {
	_, err := Parse([]byte(`
provider: binance
trade_log_path: data/trade_log.json
schedules: []
`))
	suite.Require().Error(err)
}

func (suite *ConfigTestSuite) TestDuplicateScheduleNameRejected() {
	_, err := Parse([]byte(`
provider: binance
trade_log_path: data/trade_log.json
schedules:
  - name: same
    strategy: ma_crossover
    symbols: [EURUSD]
    timeframe_minutes: 5
  - name: same
    strategy: rsi_divergence
    symbols: [EURUSD]
    timeframe_minutes: 15
`))
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *ConfigTestSuite) TestOversizedTimeframeRejected() {
	_, err := Parse([]byte(`
provider: binance
trade_log_path: data/trade_log.json
schedules:
  - name: test
    strategy: ma_crossover
    symbols: [EURUSD]
    timeframe_minutes: 2000
`))
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidTimeframe))
}
