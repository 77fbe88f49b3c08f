package onchain

import (
	"math/big"
	"strings"

	clawerr "github.com/clawnch/clawctl/pkg/errors"
)

// FormatUnits renders v scaled down by 10^decimals. Trailing fractional
// zeros are trimmed; whole values have no decimal point.
//
//	FormatUnits(big.NewInt(1500000000000000000), 18) // "1.5"
func FormatUnits(v *big.Int, decimals int) string {
	if v == nil {
		return "0"
	}
	neg := v.Sign() < 0
	digits := new(big.Int).Abs(v).String()
	if len(digits) <= decimals {
		digits = strings.Repeat("0", decimals-len(digits)+1) + digits
	}
	whole := digits[:len(digits)-decimals]
	frac := strings.TrimRight(digits[len(digits)-decimals:], "0")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString(whole)
	if frac != "" {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}

// FormatEther is FormatUnits with 18 decimals.
func FormatEther(v *big.Int) string { return FormatUnits(v, Decimals) }

// ParseUnits converts a decimal string such as "1.5" into base units.
// Digits past the given precision are rounded half away from zero.
func ParseUnits(s string, decimals int) (*big.Int, error) {
	s = strings.TrimSpace(s)
	neg := strings.HasPrefix(s, "-")
	body := strings.TrimPrefix(s, "-")

	whole, frac, _ := strings.Cut(body, ".")
	if (whole == "" && frac == "") || !allDigits(whole) || !allDigits(frac) {
		return nil, clawerr.New(clawerr.ErrCodeInvalidAmount, "invalid amount %q", s)
	}

	roundUp := false
	if len(frac) > decimals {
		roundUp = frac[decimals] >= '5'
		frac = frac[:decimals]
	} else {
		frac += strings.Repeat("0", decimals-len(frac))
	}

	v, ok := new(big.Int).SetString("0"+whole+frac, 10)
	if !ok {
		return nil, clawerr.New(clawerr.ErrCodeInvalidAmount, "invalid amount %q", s)
	}
	if roundUp {
		v.Add(v, big.NewInt(1))
	}
	if neg {
		v.Neg(v)
	}
	return v, nil
}

// ParseEther is ParseUnits with 18 decimals.
func ParseEther(s string) (*big.Int, error) { return ParseUnits(s, Decimals) }

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
