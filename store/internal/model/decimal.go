package model

import (
	"bytes"
	"encoding/json"
	"math/big"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pkg/errors"
)

const (
	// numeric(7,2)
	maxDigits        = 7
	maxDecimalPlaces = 2
)

var (
	ErrDecimalInvalid     = errors.New("A valid number is required.")
	ErrDecimalDigits      = errors.New("Ensure that there are no more than 7 digits in total.")
	ErrDecimalPlaces      = errors.New("Ensure that there are no more than 2 decimal places.")
	ErrDecimalWholeDigits = errors.New("Ensure that there are no more than 5 digits before the decimal point.")
)

// Decimal is a fixed-point number with two decimal places stored in hundredths.
type Decimal int64

func NewDecimal(units, hundredths int64) Decimal {
	return Decimal(units*100 + hundredths)
}

// ParseDecimal accepts plain decimal notation ("434.99", "45", "-1.5") that fits numeric(7,2).
func ParseDecimal(s string) (Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrDecimalInvalid
	}
	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" && frac == "" {
		return 0, ErrDecimalInvalid
	}
	if !digitsOnly(whole) || !digitsOnly(frac) {
		return 0, ErrDecimalInvalid
	}
	whole = strings.TrimLeft(whole, "0")
	frac = strings.TrimRight(frac, "0")

	switch {
	case len(whole)+len(frac) > maxDigits:
		return 0, ErrDecimalDigits
	case len(frac) > maxDecimalPlaces:
		return 0, ErrDecimalPlaces
	case len(whole) > maxDigits-maxDecimalPlaces:
		return 0, ErrDecimalWholeDigits
	}

	frac += strings.Repeat("0", maxDecimalPlaces-len(frac))
	n, err := strconv.ParseInt(whole+frac, 10, 64)
	if err != nil {
		return 0, ErrDecimalInvalid
	}
	if neg {
		n = -n
	}
	return Decimal(n), nil
}

func digitsOnly(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func (d Decimal) String() string {
	n := int64(d)
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	frac := strconv.FormatInt(n%100, 10)
	if len(frac) < 2 {
		frac = "0" + frac
	}
	return sign + strconv.FormatInt(n/100, 10) + "." + frac
}

func (d Decimal) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts both a JSON number and a JSON string.
func (d *Decimal) UnmarshalJSON(b []byte) error {
	v, err := ParseDecimal(string(bytes.Trim(b, `"`)))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

func (d Decimal) NumericValue() (pgtype.Numeric, error) {
	return pgtype.Numeric{Int: big.NewInt(int64(d)), Exp: -maxDecimalPlaces, Valid: true}, nil
}

func (d *Decimal) ScanNumeric(v pgtype.Numeric) error {
	if !v.Valid {
		return errors.New("cannot scan NULL into Decimal")
	}
	if v.NaN || v.InfinityModifier != pgtype.Finite {
		return errors.New("cannot scan non-finite numeric into Decimal")
	}
	n := new(big.Int).Set(v.Int)
	ten := big.NewInt(10)
	switch shift := int(v.Exp) + maxDecimalPlaces; {
	case shift > 0:
		n.Mul(n, new(big.Int).Exp(ten, big.NewInt(int64(shift)), nil))
	case shift < 0:
		div := new(big.Int).Exp(ten, big.NewInt(int64(-shift)), nil)
		q, r := new(big.Int).QuoRem(n, div, new(big.Int))
		// half away from zero, same as postgres round()
		twice := new(big.Int).Mul(new(big.Int).Abs(r), big.NewInt(2))
		if twice.Cmp(div) >= 0 {
			if n.Sign() < 0 {
				q.Sub(q, big.NewInt(1))
			} else {
				q.Add(q, big.NewInt(1))
			}
		}
		n = q
	}
	if !n.IsInt64() {
		return errors.New("numeric out of range for Decimal")
	}
	*d = Decimal(n.Int64())
	return nil
}

// DecimalInput keeps the raw JSON token of a decimal field so that malformed values
// surface as field validation errors instead of bind errors.
type DecimalInput string

func (d *DecimalInput) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*d = DecimalInput(s)
		return nil
	}
	*d = DecimalInput(b)
	return nil
}

func (d DecimalInput) Decimal() (Decimal, error) {
	return ParseDecimal(string(d))
}
