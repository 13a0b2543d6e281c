package domain

import (
	"fmt"
	"math"
)

// Cents is an amount of money in the smallest currency unit. All arithmetic
// inside the stores happens on Cents; float dollars exist only on the wire.
type Cents int64

// CentsFromDollars converts a wire-level dollar amount, rounding half away
// from zero to the nearest cent.
func CentsFromDollars(d float64) Cents {
	return Cents(math.Round(d * 100))
}

// Dollars converts back to the wire representation.
func (c Cents) Dollars() float64 {
	return float64(c) / 100
}

// String formats the amount with two decimal places for display.
func (c Cents) String() string {
	sign := ""
	v := c
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}
