package pdf

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatMoney_SeparadorMiles(t *testing.T) {
	cases := map[string]string{
		"0":        "0.00",
		"27":       "27.00",
		"999.5":    "999.50",
		"1234.567": "1,234.57",
		"1000000":  "1,000,000.00",
		"-2500.1":  "-2,500.10",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatMoney(decimal.RequireFromString(in)), "entrada %s", in)
	}
}

func TestNonEmpty_UsaRespaldo(t *testing.T) {
	assert.Equal(t, "-", nonEmpty("  ", "-"))
	assert.Equal(t, "x", nonEmpty("x", "-"))
}
