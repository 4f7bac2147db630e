package models

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

var errInvalidMoney = errors.New("invalid money value")

// Money is an amount in a single currency. The engine never converts between currencies;
// a zero-value currency adopts the currency of the other operand.
type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency,omitempty"`
}

func NewMoney(amount decimal.Decimal, currency string) Money {
	return Money{Amount: amount, Currency: currency}
}

func MoneyFromInt(amount int64, currency string) Money {
	return Money{Amount: decimal.NewFromInt(amount), Currency: currency}
}

func ZeroMoney(currency string) Money {
	return MoneyFromInt(0, currency)
}

func (m Money) currencyWith(o Money) string {
	if m.Currency != "" {
		return m.Currency
	}
	return o.Currency
}

func (m Money) Add(o Money) Money {
	return Money{Amount: m.Amount.Add(o.Amount), Currency: m.currencyWith(o)}
}

func (m Money) Sub(o Money) Money {
	return Money{Amount: m.Amount.Sub(o.Amount), Currency: m.currencyWith(o)}
}

func (m Money) Neg() Money {
	return Money{Amount: m.Amount.Neg(), Currency: m.Currency}
}

func (m Money) Cmp(o Money) int {
	return m.Amount.Cmp(o.Amount)
}

// Equal compares amounts only.
func (m Money) Equal(o Money) bool {
	return m.Amount.Equal(o.Amount)
}

func (m Money) IsZero() bool     { return m.Amount.IsZero() }
func (m Money) IsPositive() bool { return m.Amount.IsPositive() }
func (m Money) IsNegative() bool { return m.Amount.IsNegative() }

// ClampZero returns m, or zero when m is negative.
func (m Money) ClampZero() Money {
	if m.Amount.IsNegative() {
		return Money{Amount: decimal.Zero, Currency: m.Currency}
	}
	return m
}

// MaxMoney returns the larger operand; ties return a.
func MaxMoney(a, b Money) Money {
	if b.Cmp(a) > 0 {
		return Money{Amount: b.Amount, Currency: a.currencyWith(b)}
	}
	return Money{Amount: a.Amount, Currency: a.currencyWith(b)}
}

// Percent is part/whole as a percentage rounded to 2 places; 0 when whole is zero.
func Percent(part, whole Money) decimal.Decimal {
	if whole.Amount.IsZero() {
		return decimal.Zero
	}
	return part.Amount.Div(whole.Amount).Mul(hundred).Round(2)
}

// Format renders "MMK 1,234.50". Presentation only; aggregates keep full precision.
func (m Money) Format(places int32) string {
	s := m.Amount.StringFixed(places)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	out := b.String() + frac
	if neg {
		out = "-" + out
	}
	if m.Currency != "" {
		out = m.Currency + " " + out
	}
	return out
}

// ParseMoney accepts user-formatted strings such as "20,000", "MMK -20,000" or "Ks 1,234.50".
// Only a leading currency token, grouping commas and a leading '-' are tolerated.
func ParseMoney(s string, currency string) (Money, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	s = strings.TrimLeftFunc(s, unicode.IsLetter)
	s = strings.TrimSpace(s)

	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = strings.TrimSpace(strings.TrimPrefix(s, "-"))
	}
	if s == "" {
		return ZeroMoney(currency), errInvalidMoney
	}
	dots := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '.':
			dots++
		default:
			return ZeroMoney(currency), fmt.Errorf("%w: unexpected %q", errInvalidMoney, r)
		}
	}
	if dots > 1 || s == "." {
		return ZeroMoney(currency), errInvalidMoney
	}
	if neg {
		s = "-" + s
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return ZeroMoney(currency), err
	}
	return NewMoney(d, currency), nil
}
