package format

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// 印度数字体系：1 Lakh = 1e5，1 Crore = 1e7
const (
	lakh  = 1e5
	crore = 1e7
)

// 印度区域的数字格式化器（12,34,567 分组）
var inPrinter = message.NewPrinter(language.MustParse("en-IN"))

// CompactCurrency 紧凑卢比格式：
// 12345678 -> "₹1.2Cr"，150000 -> "₹1.5L"，12500 -> "₹12.5K"，500 -> "₹500"
func CompactCurrency(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	switch {
	case amount >= crore:
		return fmt.Sprintf("%s₹%.1fCr", sign, amount/crore)
	case amount >= lakh:
		return fmt.Sprintf("%s₹%.1fL", sign, amount/lakh)
	case amount >= 1000:
		return fmt.Sprintf("%s₹%.1fK", sign, amount/1000)
	default:
		return fmt.Sprintf("%s₹%.0f", sign, amount)
	}
}

// Currency 完整卢比格式，使用 en-IN 分组：1234567.891 -> "₹12,34,567.89"
func Currency(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	formatted := inPrinter.Sprint(number.Decimal(amount,
		number.MinFractionDigits(2), number.MaxFractionDigits(2)))
	return sign + "₹" + formatted
}

// Percent 带符号的百分比格式：0.123 输入按百分点处理，12.3 -> "+12.30%"
func Percent(value float64) string {
	if math.Signbit(value) {
		return fmt.Sprintf("%.2f%%", value)
	}
	return fmt.Sprintf("+%.2f%%", value)
}
