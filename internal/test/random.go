package test

import (
	"math/rand/v2"

	"github.com/shopspring/decimal"
)

const asciiLetters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandomASCIIString returns an alphanumeric string with length in [minLen, maxLen].
func RandomASCIIString(minLen, maxLen int) string {
	minLen = max(minLen, 1)
	maxLen = max(maxLen, minLen)
	buf := make([]byte, minLen+rand.IntN(maxLen-minLen+1))
	for i := range buf {
		buf[i] = asciiLetters[rand.IntN(len(asciiLetters))]
	}
	return string(buf)
}

// RandomPrice returns a positive price with two decimal places, at most maxUnits.
func RandomPrice(maxUnits int) decimal.Decimal {
	cents := 1 + rand.Int64N(int64(max(maxUnits, 1))*100)
	return decimal.New(cents, -2)
}
