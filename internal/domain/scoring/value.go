package scoring

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/okian/diamond/internal/domain/normalize"
	"github.com/okian/diamond/internal/domain/types"
)

// Value-score constants.
const (
	bustDiscountShare = 0.8
	rawTalentShare    = 0.2
	priceSensitivity  = 10
)

// priceBucket maps a true-talent floor to an expected market price in $M/yr.
type priceBucket struct {
	above float64
	price int64
}

//nolint:gochecknoglobals // fixed domain step function
var priceBuckets = []priceBucket{
	{above: 80, price: 12},
	{above: 70, price: 8},
	{above: 60, price: 5},
}

const floorPrice = 3

// TrueTalent discounts the Diamond Score by bust risk.
func TrueTalent(diamond, bustRisk float64) float64 {
	return diamond*(1-bustRisk/100)*bustDiscountShare + diamond*rawTalentShare
}

// ExpectedPrice maps true talent to the market price it should command.
func ExpectedPrice(trueTalent float64) decimal.Decimal {
	for _, b := range priceBuckets {
		if trueTalent > b.above {
			return decimal.NewFromInt(b.price)
		}
	}
	return decimal.NewFromInt(floorPrice)
}

// ValueScore compares the expected price with the observed projected price.
// A missing observed price scores neutral.
func ValueScore(diamond, bustRisk, observedPrice float64) types.Value[float64] {
	if math.IsNaN(observedPrice) || math.IsInf(observedPrice, 0) {
		return types.Fallback(normalize.NeutralScore, "missing market price")
	}
	expected := ExpectedPrice(TrueTalent(diamond, bustRisk))
	score, _ := expected.
		Sub(decimal.NewFromFloat(observedPrice)).
		Mul(decimal.NewFromInt(priceSensitivity)).
		Add(decimal.NewFromFloat(normalize.NeutralScore)).
		Float64()
	return types.Computed(normalize.Clamp(normalize.MinScore, normalize.MaxScore, score))
}
