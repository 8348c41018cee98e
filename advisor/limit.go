package advisor

import (
	"errors"
	"math"
	"strings"
)

// Profile holds the sizing parameters of one risk appetite.
type Profile struct {
	// MaxAllocation is the share of the spending balance eligible for
	// crypto purchases.
	MaxAllocation float64

	// VolatilityPenalty scales the Kelly-style volatility discount.
	VolatilityPenalty float64

	// TradeCap limits any single trade to this share of the balance.
	TradeCap float64
}

// Profiles are the supported risk appetites.
var Profiles = map[string]Profile{
	"conservative": {MaxAllocation: 0.15, VolatilityPenalty: 2.0, TradeCap: 0.15},
	"moderate":     {MaxAllocation: 0.25, VolatilityPenalty: 1.5, TradeCap: 0.20},
	"aggressive":   {MaxAllocation: 0.40, VolatilityPenalty: 1.0, TradeCap: 0.40},
}

var (
	// ErrUnknownProfile is returned for a risk profile outside Profiles.
	ErrUnknownProfile = errors.New("advisor: unknown risk profile")

	// ErrInvalidRequest is returned for a non-positive balance or negative
	// holdings.
	ErrInvalidRequest = errors.New("advisor: invalid request")
)

// Request describes a user asking for a purchase limit. Balance is
// spending power in IndiCoin, not total portfolio value.
type Request struct {
	Balance     float64 `json:"balance"`
	FirstTime   bool    `json:"first_time"`
	BTCHoldings float64 `json:"btc_holdings"`
	RiskProfile string  `json:"risk_profile"`
}

// HardLimit sizes the maximum advisable purchase for req under the given
// market conditions:
//
//  1. base allocation from the balance and profile,
//  2. reduced for existing BTC exposure (30% per 100% exposure, never
//     below 20% of base; first-time buyers skip this),
//  3. a volatility discount 1/(1+penalty*vol),
//  4. a sentiment adjustment (buy fear below 20, trim greed above 80),
//  5. a trend adjustment (caution in strong uptrends, slight lean into
//     strong downtrends),
//  6. capped by the profile's single-trade limit.
func HardLimit(req Request, m Metrics) (float64, error) {
	profile, ok := Profiles[strings.ToLower(req.RiskProfile)]
	if !ok {
		return 0, ErrUnknownProfile
	}
	if req.Balance <= 0 || req.BTCHoldings < 0 {
		return 0, ErrInvalidRequest
	}

	base := req.Balance * profile.MaxAllocation

	reduction := 1.0
	if !req.FirstTime && req.BTCHoldings > 0 {
		existing := req.BTCHoldings * m.BTCUSD / m.USDINR
		exposure := math.Min(existing/req.Balance, 2.0)
		reduction = math.Max(0.2, 1-exposure*0.3)
	}

	volatility := 1 / (1 + profile.VolatilityPenalty*m.BTCVolatility)

	sentiment := 1.0
	switch {
	case m.Sentiment < 20:
		sentiment = 1.2
	case m.Sentiment > 80:
		sentiment = 0.7
	}

	trend := 1.0
	switch {
	case m.Trend > 0.15:
		trend = 0.8
	case m.Trend < -0.15:
		trend = 1.1
	}

	limit := base * reduction * volatility * sentiment * trend
	limit = math.Min(limit, req.Balance*profile.TradeCap)
	return math.Max(0, limit), nil
}
