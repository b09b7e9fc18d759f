package extract

import "math"

// ComputeDiscount derives the discount percentage for a current/original
// price pair, rounded to one decimal place. It is the only place discount
// values are produced; extractors must never author their own.
// Returns nil unless both prices are finite, the original is positive,
// and the current price is strictly below it.
func ComputeDiscount(priceCurrent, priceOriginal *float64) *float64 {
	if priceCurrent == nil || priceOriginal == nil {
		return nil
	}
	current, original := *priceCurrent, *priceOriginal
	if math.IsNaN(current) || math.IsInf(current, 0) ||
		math.IsNaN(original) || math.IsInf(original, 0) {
		return nil
	}
	if original <= 0 || current >= original {
		return nil
	}
	pct := math.Round(((original-current)/original)*1000) / 10
	return &pct
}
