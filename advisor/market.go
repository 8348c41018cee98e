// Package advisor implements the IndiCoin buy-limit advisor: portfolio
// metrics derived from BTC/USD and USD/INR price history, and a factor
// model that sizes a hard purchase limit for a user's spending balance and
// risk profile. The service surface is a small HTTP API.
package advisor

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"
)

// Candle is one observation of the two market rates.
type Candle struct {
	Time   time.Time `json:"time"`
	BTCUSD float64   `json:"btc_usd"`
	USDINR float64   `json:"usd_inr"`
}

// Metrics are the derived market inputs to the hard-limit model.
type Metrics struct {
	BTCUSD             float64 // latest BTC/USD rate
	USDINR             float64 // latest USD/INR rate
	BTCVolatility      float64 // rolling 30-period return volatility
	CurrencyVolatility float64
	Sentiment          float64 // RSI-style 0..100, high = greed
	Trend              float64 // distance from the 20-period moving average
}

// minHistory is the number of candles the rolling windows need.
const minHistory = 31

// ErrShortHistory is returned when the price history cannot fill the
// rolling windows.
var ErrShortHistory = errors.New("advisor: price history too short")

// ComputeMetrics derives model inputs from price history, oldest first.
func ComputeMetrics(history []Candle) (Metrics, error) {
	if len(history) < minHistory {
		return Metrics{}, fmt.Errorf("%w: have %d candles, need %d", ErrShortHistory, len(history), minHistory)
	}

	n := len(history)
	btc := make([]float64, n)
	inr := make([]float64, n)
	for i, c := range history {
		btc[i] = c.BTCUSD
		inr[i] = c.USDINR
	}

	m := Metrics{
		BTCUSD:             btc[n-1],
		USDINR:             inr[n-1],
		BTCVolatility:      rollingVolatility(btc, 30),
		CurrencyVolatility: rollingVolatility(inr, 30),
		Sentiment:          relativeStrength(btc, 14),
		Trend:              maTrend(btc, 20),
	}
	return m, nil
}

// rollingVolatility is the standard deviation of the last window returns,
// annualized with the sqrt(24) factor the original model uses.
func rollingVolatility(prices []float64, window int) float64 {
	returns := lastReturns(prices, window)
	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(returns) - 1)

	return math.Sqrt(variance) * math.Sqrt(24)
}

// maTrend measures how far the latest price sits above or below its
// window-period moving average.
func maTrend(prices []float64, window int) float64 {
	sum := 0.0
	for _, p := range prices[len(prices)-window:] {
		sum += p
	}
	ma := sum / float64(window)
	return (prices[len(prices)-1] - ma) / ma
}

// relativeStrength is an RSI-style sentiment proxy over the last window
// price changes: near 100 in sustained rallies, near 0 in sustained drops.
func relativeStrength(prices []float64, window int) float64 {
	deltas := prices[len(prices)-window-1:]
	var gain, loss float64
	for i := 1; i < len(deltas); i++ {
		d := deltas[i] - deltas[i-1]
		if d > 0 {
			gain += d
		} else {
			loss -= d
		}
	}
	gain /= float64(window)
	loss /= float64(window)

	if loss == 0 {
		return 100
	}
	rs := gain / loss
	return 100 - 100/(1+rs)
}

func lastReturns(prices []float64, window int) []float64 {
	start := len(prices) - window - 1
	out := make([]float64, 0, window)
	for i := start + 1; i < len(prices); i++ {
		out = append(out, prices[i]/prices[i-1]-1)
	}
	return out
}

// SyntheticHistory generates a deterministic daily price walk, used when no
// real history is supplied. BTC/USD walks in the 40k-50k band and USD/INR
// in the 82-84 band, matching the original service's fallback data.
func SyntheticHistory(days int, seed int64) []Candle {
	rng := rand.New(rand.NewSource(seed))
	start := time.Now().UTC().AddDate(0, 0, -days)

	btc := 45000.0
	inr := 83.0
	out := make([]Candle, 0, days)
	for i := 0; i < days; i++ {
		btc += rng.NormFloat64() * 800
		btc = math.Max(40000, math.Min(50000, btc))
		inr += rng.NormFloat64() * 0.15
		inr = math.Max(82, math.Min(84, inr))

		out = append(out, Candle{
			Time:   start.AddDate(0, 0, i),
			BTCUSD: btc,
			USDINR: inr,
		})
	}
	return out
}

// LoadHistory reads a JSON array of candles from a file.
func LoadHistory(path string) ([]Candle, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	var out []Candle
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	return out, nil
}
