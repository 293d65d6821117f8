// internal/domain/rate.go
package domain

import (
	"math/rand/v2"

	"github.com/shopspring/decimal"
)

// RateScale is the number of decimal places kept when a drifted rate is stored.
const RateScale int32 = 16

// RandomSource yields uniformly distributed integers in [0, n).
// *rand.Rand from math/rand/v2 satisfies it.
type RandomSource interface {
	IntN(n int) int
}

type globalRandom struct{}

func (globalRandom) IntN(n int) int { return rand.IntN(n) }

// DefaultRandom draws from the process-wide, goroutine-safe generator.
var DefaultRandom RandomSource = globalRandom{}

var one = decimal.NewFromInt(1)

// BuyingRate returns baseRate * (1 + commission).
func BuyingRate(baseRate, commission decimal.Decimal) decimal.Decimal {
	return baseRate.Mul(one.Add(commission))
}

// SellingRate returns baseRate * (1 - commission).
func SellingRate(baseRate, commission decimal.Decimal) decimal.Decimal {
	return baseRate.Mul(one.Sub(commission))
}

// GenerateInitialRate draws an integer uniformly from [min, max] and returns it as an exact decimal.
// Callers guarantee min <= max.
func GenerateInitialRate(src RandomSource, min, max int) decimal.Decimal {
	return decimal.NewFromInt(int64(min + src.IntN(max-min+1)))
}

// DriftPercent draws an integer percentage from [lowerPct, upperPct) and returns it as a fraction.
func DriftPercent(src RandomSource, lowerPct, upperPct int) decimal.Decimal {
	return decimal.New(int64(lowerPct+src.IntN(upperPct-lowerPct)), -2)
}

// DriftRate applies a fractional change to rate: rate * (1 + pct), rounded up to RateScale places.
// Rounding up keeps the result inside [rate*(1+pct), rate*(1+pct) + 1e-16] and above zero.
func DriftRate(rate, pct decimal.Decimal) decimal.Decimal {
	return rate.Mul(one.Add(pct)).RoundCeil(RateScale)
}
