package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestShortAddress(t *testing.T) {
	require.Equal(t, "0x1234...cdef", ShortAddress("0x1234567890abcdef1234567890abcdef12345678cdef"))
	require.Equal(t, "0xabc", ShortAddress("0xabc"))
	require.Equal(t, "", ShortAddress(""))
}

func TestFormatNative(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0"},
		{"2500000", "2.50M"},
		{"1500", "1.50K"},
		{"12.345", "12.34"},
		{"0.5", "0.5"},
		{"0.005", "0.005"},
		{"0.00005", "0.00005"},
	}

	for _, tt := range tests {
		got := FormatNative(decimal.RequireFromString(tt.in))
		require.Equal(t, tt.want, got, "input %s", tt.in)
	}
}
