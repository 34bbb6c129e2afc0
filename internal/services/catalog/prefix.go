package catalog

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// basePrefixes фиксированные префиксы базовых категорий магазина.
var basePrefixes = map[string]string{
	"accesorios":           "AC",
	"decoracion":           "DE",
	"guias":                "GU",
	"juego de mesa":        "JM",
	"mods digitales":       "MD",
	"peluches":             "PE",
	"polera personalizada": "PP",
}

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// fold убирает диакритику: "Decoración" -> "Decoracion".
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// normalizeName приводит название к виду для сравнения: без диакритики,
// в нижнем регистре, с единичными пробелами.
func normalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(fold(name))), " ")
}

// letters возвращает латинские буквы названия в верхнем регистре.
func letters(name string) []byte {
	var out []byte
	for _, r := range strings.ToUpper(fold(name)) {
		if r >= 'A' && r <= 'Z' {
			out = append(out, byte(r))
		}
	}
	for len(out) < 2 {
		out = append(out, 'X')
	}
	return out
}

// prefixFor возвращает префикс для названия категории. Базовые категории
// получают фиксированный префикс, остальные первый свободный из кандидатов:
// две первые буквы, первая и третья, первая с буквой алфавита, вторая с
// буквой алфавита, иначе базовый префикс с X.
func prefixFor(name string, used map[string]bool) string {
	if p, ok := basePrefixes[normalizeName(name)]; ok && !used[p] {
		return p
	}

	l := letters(name)
	base := string(l[:2])
	if !used[base] {
		return base
	}
	if len(l) >= 3 {
		if p := string([]byte{l[0], l[2]}); !used[p] {
			return p
		}
	}
	for i := 0; i < len(alphabet); i++ {
		if p := string([]byte{l[0], alphabet[i]}); !used[p] {
			return p
		}
	}
	for i := 0; i < len(alphabet); i++ {
		if p := string([]byte{l[1], alphabet[i]}); !used[p] {
			return p
		}
	}
	return base + "X"
}

// nextCode возвращает следующий код для префикса: максимальный числовой
// суффикс среди существующих кодов плюс один, минимум три цифры.
func nextCode(prefix string, codes []string) string {
	maxN := 0
	for _, code := range codes {
		suffix, ok := strings.CutPrefix(code, prefix)
		if !ok || suffix == "" {
			continue
		}
		n, err := strconv.Atoi(suffix)
		if err != nil || n < 0 {
			continue
		}
		if n > maxN {
			maxN = n
		}
	}
	return prefix + leftPad(strconv.Itoa(maxN+1), 3)
}

func leftPad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}
