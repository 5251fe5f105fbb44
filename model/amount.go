package model

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	reasonInvalidType   = "invalid value type"
	reasonInvalidValue  = "invalid value"
	reasonFractionCents = "no fractions of cents allowed"

	// divisionPrecision bounds the digits used when turning a fraction into a
	// decimal. Values that need more are not exact and get rejected.
	divisionPrecision = 16
)

// ParseAmount converts a raw split or budget value to an exact decimal with
// at most two fractional digits.
//
// Accepted inputs are strings (commas are ignored, "12.34" and "1234/100" are
// both understood), Go integers, decimal.Decimal and *big.Rat. Floating point
// values are always rejected.
//
// Example:
//
//	amount, err := model.ParseAmount("1,234.50")
func ParseAmount(v any) (decimal.Decimal, error) {
	d, err := toDecimal(v, reasonFractionCents)
	if err != nil {
		return decimal.Zero, err
	}
	if !d.Equal(d.Truncate(2)) {
		return decimal.Zero, &InvalidAmountError{Value: v, Reason: reasonFractionCents}
	}
	return d, nil
}

// ParseQuantity converts a raw share or unit count to an exact decimal.
// Quantities have no cent restriction but must still be exact.
func ParseQuantity(v any) (decimal.Decimal, error) {
	return toDecimal(v, reasonInvalidValue)
}

// MustParseAmount is like ParseAmount but panics on error.
// Use only in tests or when you're certain the amount is valid
func MustParseAmount(v any) decimal.Decimal {
	d, err := ParseAmount(v)
	if err != nil {
		panic(err)
	}
	return d
}

func toDecimal(v any, inexactReason string) (decimal.Decimal, error) {
	switch x := v.(type) {
	case decimal.Decimal:
		return x, nil
	case *decimal.Decimal:
		if x == nil {
			return decimal.Zero, &InvalidAmountError{Value: v, Reason: reasonInvalidType}
		}
		return *x, nil
	case string:
		return parseDecimalString(x, inexactReason)
	case int:
		return decimal.NewFromInt(int64(x)), nil
	case int8:
		return decimal.NewFromInt(int64(x)), nil
	case int16:
		return decimal.NewFromInt(int64(x)), nil
	case int32:
		return decimal.NewFromInt(int64(x)), nil
	case int64:
		return decimal.NewFromInt(x), nil
	case uint:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(uint64(x)), 0), nil
	case uint8:
		return decimal.NewFromInt(int64(x)), nil
	case uint16:
		return decimal.NewFromInt(int64(x)), nil
	case uint32:
		return decimal.NewFromInt(int64(x)), nil
	case uint64:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(x), 0), nil
	case *big.Int:
		if x == nil {
			return decimal.Zero, &InvalidAmountError{Value: v, Reason: reasonInvalidType}
		}
		return decimal.NewFromBigInt(x, 0), nil
	case *big.Rat:
		if x == nil {
			return decimal.Zero, &InvalidAmountError{Value: v, Reason: reasonInvalidType}
		}
		d, ok := ratToDecimal(x)
		if !ok {
			return decimal.Zero, &InvalidAmountError{Value: x.String(), Reason: inexactReason}
		}
		return d, nil
	default:
		return decimal.Zero, &InvalidAmountError{Value: v, Reason: reasonInvalidType}
	}
}

func parseDecimalString(s, inexactReason string) (decimal.Decimal, error) {
	clean := strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if clean == "" {
		return decimal.Zero, &InvalidAmountError{Value: s, Reason: reasonInvalidValue}
	}

	if strings.Contains(clean, "/") {
		r, ok := new(big.Rat).SetString(clean)
		if !ok {
			return decimal.Zero, &InvalidAmountError{Value: s, Reason: reasonInvalidValue}
		}
		d, ok := ratToDecimal(r)
		if !ok {
			return decimal.Zero, &InvalidAmountError{Value: s, Reason: inexactReason}
		}
		return d, nil
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, &InvalidAmountError{Value: s, Reason: reasonInvalidValue}
	}
	return d, nil
}

// ratToDecimal converts r when it has a terminating decimal expansion.
func ratToDecimal(r *big.Rat) (decimal.Decimal, bool) {
	num := decimal.NewFromBigInt(r.Num(), 0)
	if r.IsInt() {
		return num, true
	}
	den := decimal.NewFromBigInt(r.Denom(), 0)
	d := num.DivRound(den, divisionPrecision)
	if !d.Mul(den).Equal(num) {
		return decimal.Zero, false
	}
	return d, true
}

// FormatFraction renders d as exact fraction text ("-101/1", "1/4").
// This is the persisted representation of every amount and quantity.
func FormatFraction(d decimal.Decimal) string {
	return d.Rat().String()
}

// ParseFraction reads exact fraction text written by FormatFraction.
func ParseFraction(s string) (decimal.Decimal, error) {
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return decimal.Zero, fmt.Errorf("invalid fraction %q", s)
	}
	d, ok := ratToDecimal(r)
	if !ok {
		return decimal.Zero, fmt.Errorf("fraction %q has no exact decimal value", s)
	}
	return d, nil
}

// FormatAmount renders an amount with two decimals and thousands separators,
// e.g. "-1,234.50".
func FormatAmount(d decimal.Decimal) string {
	fixed := d.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if d.IsNegative() {
		b.WriteByte('-')
	}
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}

// FormatQuantity renders a quantity without trailing zeros, or "" for zero.
func FormatQuantity(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}
