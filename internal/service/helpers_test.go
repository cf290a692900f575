package service

import (
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// dec parses a decimal literal for test fixtures.
func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// decEq matches a decimal argument by numeric value, ignoring exponent
// representation.
func decEq(s string) interface{} {
	want := decimal.RequireFromString(s)
	return mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(want)
	})
}
