package invoice

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatVND(t *testing.T) {
	t.Parallel()

	got := FormatVND(decimal.RequireFromString("1500000.4"))
	if !strings.HasSuffix(got, " ₫") {
		t.Fatalf("expected dong suffix, got %q", got)
	}

	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, got)
	if digits != "1500000" {
		t.Fatalf("expected rounded amount 1500000, got %q (%q)", digits, got)
	}
}
