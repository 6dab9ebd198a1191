package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Currency is the closed set of supported currencies.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyKWD Currency = "KWD"
)

// ParseCurrency maps a code to a supported currency.
func ParseCurrency(code string) (Currency, error) {
	switch Currency(code) {
	case CurrencyUSD, CurrencyEUR, CurrencyKWD:
		return Currency(code), nil
	default:
		return "", ErrUnknownCurrency
	}
}

func (c Currency) String() string {
	return string(c)
}

// Decimals returns the number of minor-unit decimal places for the currency.
func (c Currency) Decimals() int {
	if c == CurrencyKWD {
		return 3
	}
	return 2
}

func (c Currency) valid() bool {
	switch c {
	case CurrencyUSD, CurrencyEUR, CurrencyKWD:
		return true
	}
	return false
}

func (c Currency) factor() float64 {
	return math.Pow10(c.Decimals())
}

// Money is an immutable amount in a single currency, stored as integer minor
// units so sums stay exact.
type Money struct {
	units    int64
	currency Currency
}

// NewMoney builds a non-negative amount, rounding half-up to the currency's
// precision.
func NewMoney(amount float64, currency Currency) (Money, error) {
	if !currency.valid() {
		return Money{}, ErrUnknownCurrency
	}
	if amount < 0 {
		return Money{}, ErrNegativeAmount
	}
	return Money{units: roundToUnits(amount, currency.Decimals()), currency: currency}, nil
}

// roundToUnits rounds a non-negative amount half-up to the given number of
// decimal places and returns it in minor units. It goes through the shortest
// decimal representation of the float so that inputs like 1.005, which sit
// just below their nominal value in binary, still round up.
func roundToUnits(amount float64, decimals int) int64 {
	text := strconv.FormatFloat(amount, 'f', -1, 64)
	intPart, fracPart, _ := strings.Cut(text, ".")
	for len(fracPart) < decimals {
		fracPart += "0"
	}
	roundUp := len(fracPart) > decimals && fracPart[decimals] >= '5'
	units, _ := strconv.ParseInt(intPart+fracPart[:decimals], 10, 64)
	if roundUp {
		units++
	}
	return units
}

// NewMoneyFromUnits builds an amount directly from minor units.
func NewMoneyFromUnits(units int64, currency Currency) (Money, error) {
	if !currency.valid() {
		return Money{}, ErrUnknownCurrency
	}
	if units < 0 {
		return Money{}, ErrNegativeAmount
	}
	return Money{units: units, currency: currency}, nil
}

// ZeroMoney returns a zero amount in the given currency.
func ZeroMoney(currency Currency) Money {
	return Money{units: 0, currency: currency}
}

// Amount returns the value in major units.
func (m Money) Amount() float64 {
	return float64(m.units) / m.currency.factor()
}

// Units returns the value in minor units.
func (m Money) Units() int64 {
	return m.units
}

func (m Money) Currency() Currency {
	return m.currency
}

func (m Money) IsZero() bool {
	return m.units == 0
}

func (m Money) IsPositive() bool {
	return m.units > 0
}

// Add sums two amounts of the same currency.
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, ErrCurrencyMismatch
	}
	return Money{units: m.units + other.units, currency: m.currency}, nil
}

// Sub subtracts an amount of the same currency; the result may not go
// negative.
func (m Money) Sub(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, ErrCurrencyMismatch
	}
	if other.units > m.units {
		return Money{}, ErrNegativeAmount
	}
	return Money{units: m.units - other.units, currency: m.currency}, nil
}

// MulQty multiplies the amount by a non-negative count of units sold.
func (m Money) MulQty(n int) Money {
	if n < 0 {
		n = 0
	}
	return Money{units: m.units * int64(n), currency: m.currency}
}

func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.units == other.units
}

func (m Money) String() string {
	return fmt.Sprintf("%.*f %s", m.currency.Decimals(), m.Amount(), m.currency)
}
