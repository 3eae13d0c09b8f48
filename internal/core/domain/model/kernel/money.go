package kernel

import (
	"errors"
	"fmt"

	"escrow/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// MinorUnitDigits is the number of decimal places money is kept at.
const MinorUnitDigits int32 = 2

var (
	ErrNegativeAmount = errors.New("amount must not be negative")
	ErrSubMinorUnit   = errors.New("amount has more than two decimal places")
)

// Money is a non-negative amount in the single platform currency, always
// held at two decimal places. Rounding is half-up; for non-negative values
// this is what decimal.Round does.
//
// The zero value is a valid amount of 0.00.
type Money struct {
	amount decimal.Decimal
}

// NewMoney rounds d to the minor unit and rejects negative amounts.
func NewMoney(d decimal.Decimal) (Money, error) {
	if d.IsNegative() {
		return Money{}, errs.NewValueIsOutOfRangeErrorWithCause("amount", d.String(), 0, "unbounded", ErrNegativeAmount)
	}
	return Money{amount: d.Round(MinorUnitDigits)}, nil
}

// NewExactMoney is NewMoney for amounts reported by the outside world, which
// must already be whole minor units.
func NewExactMoney(d decimal.Decimal) (Money, error) {
	if !d.Equal(d.Round(MinorUnitDigits)) {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("%s: %w", d, ErrSubMinorUnit))
	}
	return NewMoney(d)
}

func MoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", err)
	}
	return NewMoney(d)
}

func MoneyFromFloat(f float64) (Money, error) {
	return NewMoney(decimal.NewFromFloat(f))
}

// MustMoney panics on invalid input. Use for constants and tests only.
func MustMoney(s string) Money {
	m, err := MoneyFromString(s)
	if err != nil {
		panic(fmt.Sprintf("kernel.MustMoney(%q): %v", s, err))
	}
	return m
}

func ZeroMoney() Money {
	return Money{amount: decimal.Zero}
}

func (m Money) Amount() decimal.Decimal {
	return m.amount
}

func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

// Sub fails instead of producing a negative amount.
func (m Money) Sub(other Money) (Money, error) {
	return NewMoney(m.amount.Sub(other.amount))
}

// MulRate multiplies by a non-negative rate and rounds half-up to the minor unit.
func (m Money) MulRate(rate decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(rate).Round(MinorUnitDigits)}
}

func (m Money) Min(other Money) Money {
	if other.LessThan(m) {
		return other
	}
	return m
}

func (m Money) Equal(other Money) bool {
	return m.amount.Equal(other.amount)
}

func (m Money) LessThan(other Money) bool {
	return m.amount.LessThan(other.amount)
}

func (m Money) GreaterThan(other Money) bool {
	return m.amount.GreaterThan(other.amount)
}

func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// String renders the amount with exactly two decimals, e.g. "120.00".
func (m Money) String() string {
	return m.amount.StringFixed(MinorUnitDigits)
}

// SumMoney adds amounts; an empty list sums to zero.
func SumMoney(amounts ...Money) Money {
	total := ZeroMoney()
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
