// Package token implements the IndiCoin ledger and policy engine: account
// balances, delegated allowances, a global supply counter, a per-transfer
// green-fund fee, and a rolling 24-hour outflow cap that throttles burns.
//
// The engine is a single in-process instance guarded by one mutation lock.
// Every operation either commits fully or fails with no state change; all
// checks run before any mutation. Mutating operations append notification
// records to an internal journal that callers can drain and forward to
// external observers.
package token

import (
	"time"

	"github.com/holiman/uint256"
)

// Token metadata.
const (
	Name     = "IndiCoin"
	Symbol   = "INDI"
	Decimals = 18
)

// GreenFundRateBps is the per-transfer fee in basis points credited to the
// green fund. Fee math truncates toward zero, so amounts below
// RateDenominator/GreenFundRateBps base units carry no fee.
const (
	GreenFundRateBps = 100
	RateDenominator  = 10000
)

// OutflowWindow is the length of one burn-throttling window.
const OutflowWindow = 24 * time.Hour

// Address is an opaque account identifier. The empty string is the null
// address; it never holds a balance and appears only in mint and burn
// transfer notifications.
type Address string

// ZeroAddress is the null address.
const ZeroAddress Address = ""

// Units converts a whole-token amount to base units (scaled by 10^18).
func Units(n uint64) *uint256.Int {
	scale := new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(Decimals))
	return new(uint256.Int).Mul(uint256.NewInt(n), scale)
}

// DefaultOutflowCap returns the initial burn cap: 1,000,000 tokens in base
// units.
func DefaultOutflowCap() *uint256.Int {
	return Units(1_000_000)
}
