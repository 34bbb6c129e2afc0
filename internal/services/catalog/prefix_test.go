package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrefixFor(t *testing.T) {
	tests := []struct {
		name string
		in   string
		used map[string]bool
		want string
	}{
		{name: "base category keeps fixed prefix", in: "Juego De Mesa", used: map[string]bool{}, want: "JM"},
		{name: "base category case and accents", in: "decoracion", used: map[string]bool{}, want: "DE"},
		{name: "first two letters", in: "Semillas", used: map[string]bool{"AC": true}, want: "SE"},
		{name: "accents folded", in: "Ñandú", used: map[string]bool{}, want: "NA"},
		{name: "first and third letter", in: "Semillas", used: map[string]bool{"SE": true}, want: "SM"},
		{name: "first letter plus alphabet", in: "Semillas", used: map[string]bool{"SE": true, "SM": true, "SA": true}, want: "SB"},
		{name: "spaces ignored", in: "  mi  ropa ", used: map[string]bool{}, want: "MI"},
		{name: "short name padded", in: "Q", used: map[string]bool{}, want: "QX"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, prefixFor(tt.in, tt.used))
		})
	}
}

func TestPrefixFor_SecondLetterAndFallback(t *testing.T) {
	used := map[string]bool{}
	for _, c := range alphabet {
		used["S"+string(c)] = true
	}
	assert.Equal(t, "EA", prefixFor("Semillas", used))

	for _, c := range alphabet {
		used["E"+string(c)] = true
	}
	assert.Equal(t, "SEX", prefixFor("Semillas", used))
}

func TestNextCode(t *testing.T) {
	assert.Equal(t, "PE001", nextCode("PE", nil))
	assert.Equal(t, "PE003", nextCode("PE", []string{"PE001", "PE002"}))
	assert.Equal(t, "PE011", nextCode("PE", []string{"PE010", "PE002", "PEX001"}))
	assert.Equal(t, "AC1000", nextCode("AC", []string{"AC999"}))
}
