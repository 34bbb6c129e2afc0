// Package run реализует проверку и форматирование чилийского RUN (Rol Único Nacional).
//
// Формат: 12.345.678-5. Последний символ является контрольной цифрой по модулю 11,
// значение 10 записывается как K.
package run

import (
	"regexp"
	"strings"
)

var formatRe = regexp.MustCompile(`^\d{1,2}\.\d{3}\.\d{3}-[\dkK]$`)

// Validate проверяет формат RUN и его контрольную цифру.
func Validate(run string) bool {
	if !formatRe.MatchString(run) {
		return false
	}
	clean := strip(run)
	body, dv := clean[:len(clean)-1], clean[len(clean)-1:]
	return strings.EqualFold(CheckDigit(body), dv)
}

// CheckDigit вычисляет контрольную цифру для тела RUN, состоящего только из цифр.
func CheckDigit(body string) string {
	sum, weight := 0, 2
	for i := len(body) - 1; i >= 0; i-- {
		sum += int(body[i]-'0') * weight
		weight++
		if weight > 7 {
			weight = 2
		}
	}
	switch r := 11 - sum%11; r {
	case 11:
		return "0"
	case 10:
		return "K"
	default:
		return string(rune('0' + r))
	}
}

// Format расставляет точки и дефис. Уже отформатированное значение, а также
// значения с длиной тела не 7–8 цифр возвращаются без изменений.
func Format(raw string) string {
	if formatRe.MatchString(raw) {
		return raw
	}
	clean := strip(raw)
	if len(clean) < 8 || len(clean) > 9 {
		return raw
	}
	body, dv := clean[:len(clean)-1], clean[len(clean)-1:]
	n := len(body)
	return body[:n-6] + "." + body[n-6:n-3] + "." + body[n-3:] + "-" + dv
}

// Normalize форматирует RUN и приводит контрольную цифру K к верхнему регистру.
func Normalize(raw string) string {
	return strings.ToUpper(Format(strings.TrimSpace(raw)))
}

func strip(s string) string {
	return strings.NewReplacer(".", "", "-", "").Replace(s)
}
