// Package money форматирует суммы в чилийских песо.
package money

import "strconv"

// FormatCLP возвращает сумму с разделителем тысяч точкой и знаком $: 12345 -> "$12.345".
func FormatCLP(amount int64) string {
	if amount < 0 {
		return "-$" + group(strconv.FormatInt(-amount, 10))
	}
	return "$" + group(strconv.FormatInt(amount, 10))
}

// DecimalComma возвращает сумму без разделителей для CSV в формате Excel.
func DecimalComma(amount int64) string {
	return strconv.FormatInt(amount, 10)
}

func group(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	out := make([]byte, 0, n+n/3)
	head := n % 3
	if head > 0 {
		out = append(out, digits[:head]...)
	}
	for i := head; i < n; i += 3 {
		if len(out) > 0 {
			out = append(out, '.')
		}
		out = append(out, digits[i:i+3]...)
	}
	return string(out)
}
