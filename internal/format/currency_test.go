package format

import (
	"testing"
)

// TestCompactCurrency 测试紧凑卢比格式
func TestCompactCurrency(t *testing.T) {
	cases := []struct {
		amount float64
		want   string
	}{
		{12345678, "₹1.2Cr"},
		{150000, "₹1.5L"},
		{500, "₹500"},
		{12500, "₹12.5K"},
		{10000000, "₹1.0Cr"},
		{100000, "₹1.0L"},
		{0, "₹0"},
		{-150000, "-₹1.5L"},
	}

	for _, c := range cases {
		got := CompactCurrency(c.amount)
		if got != c.want {
			t.Errorf("CompactCurrency(%.0f) = %q, 期望 %q", c.amount, got, c.want)
		}
	}
}

// TestCurrency 测试印度分组的完整格式
func TestCurrency(t *testing.T) {
	got := Currency(1234567.891)
	want := "₹12,34,567.89"
	if got != want {
		t.Errorf("Currency(1234567.891) = %q, 期望 %q", got, want)
	}

	got = Currency(-500)
	want = "-₹500.00"
	if got != want {
		t.Errorf("Currency(-500) = %q, 期望 %q", got, want)
	}
}

// TestPercent 测试百分比格式
func TestPercent(t *testing.T) {
	if got := Percent(12.3); got != "+12.30%" {
		t.Errorf("Percent(12.3) = %q", got)
	}
	if got := Percent(-4.5); got != "-4.50%" {
		t.Errorf("Percent(-4.5) = %q", got)
	}
}
