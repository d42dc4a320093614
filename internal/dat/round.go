package dat

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// priceScale is the number of decimal places stored in raw price fields.
const priceScale = 3

// Round2 rounds v to two decimal places, half away from zero.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// ScalePrice converts a raw price field (thousandths) to a real price.
func ScalePrice(raw uint32) float64 {
	f, _ := decimal.New(int64(raw), -priceScale).Float64()
	return f
}

// roundScaledPrice scales a raw price and rounds the resulting float64 to two
// places. Rounding follows the exact binary value, so 1.005 (stored just below)
// becomes 1.0 and exact halves go to even.
func roundScaledPrice(raw uint32) float64 {
	return roundFloat2(float64(raw) / 1000)
}

func roundFloat2(v float64) float64 {
	f, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	return f
}

func roundQuotient(raw uint32, divisor float64) float64 {
	f, _ := decimal.NewFromInt(int64(raw)).Div(decimal.NewFromFloat(divisor)).Round(2).Float64()
	return f
}
