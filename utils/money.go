package utils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatEuro formats a price as "€2,50": two decimals with a comma as the
// decimal separator. Strings may use either "," or "." as separator and are
// read up to the end of their leading number, so "12 euro" is "€12,00".
// Values that do not start with a number are returned unchanged.
func FormatEuro(value any) string {
	var d decimal.Decimal
	switch v := value.(type) {
	case nil:
		return ""
	case decimal.Decimal:
		d = v
	case float64:
		d = decimal.NewFromFloat(v)
	case float32:
		d = decimal.NewFromFloat32(v)
	case int:
		d = decimal.NewFromInt(int64(v))
	case int64:
		d = decimal.NewFromInt(v)
	case string:
		parsed, ok := parseAmount(v)
		if !ok {
			return v
		}
		d = parsed
	case fmt.Stringer:
		s := v.String()
		parsed, ok := parseAmount(s)
		if !ok {
			return s
		}
		d = parsed
	default:
		return fmt.Sprint(value)
	}
	return "€" + strings.Replace(d.StringFixed(2), ".", ",", 1)
}

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

func parseAmount(s string) (decimal.Decimal, bool) {
	s = strings.Replace(strings.TrimSpace(s), ",", ".", 1)
	s = leadingNumber.FindString(s)
	if s == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(strings.TrimSuffix(s, "."))
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}
