package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatCLP(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "$0"},
		{990, "$990"},
		{12345, "$12.345"},
		{1000000, "$1.000.000"},
		{-1000, "-$1.000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatCLP(tt.in))
	}
}

func TestDecimalComma(t *testing.T) {
	assert.Equal(t, "12345", DecimalComma(12345))
	assert.Equal(t, "-5", DecimalComma(-5))
}
