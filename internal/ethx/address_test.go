package ethx

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsHexAddress(t *testing.T) {
	require.True(t, IsHexAddress("0x2d7812b2000f995c01417e576dc123587e4b39e4"))
	require.True(t, IsHexAddress("0x2D7812B2000F995C01417E576DC123587E4B39E4"))
	require.False(t, IsHexAddress("2d7812b2000f995c01417e576dc123587e4b39e4"))
	require.False(t, IsHexAddress("0x123"))
	require.False(t, IsHexAddress("0xzz7812b2000f995c01417e576dc123587e4b39e4"))
}

func TestChecksumAddress(t *testing.T) {
	// Reference vectors from EIP-55.
	tests := []string{
		"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		"0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359",
		"0xdbF03B407c01E7cD3CBea99509d93f8DDDC8C6FB",
		"0xD1220A0cf47c7B9Be7A2E6BA89F429762e7b9aDb",
	}
	for _, want := range tests {
		require.Equal(t, want, ChecksumAddress(strings.ToLower(want)))
	}
}

func TestSameAddress(t *testing.T) {
	require.True(t, SameAddress(
		"0x2d7812b2000f995c01417e576dc123587e4b39e4",
		"0x2D7812B2000F995C01417E576DC123587E4B39E4",
	))
	require.False(t, SameAddress(
		"0x2d7812b2000f995c01417e576dc123587e4b39e4",
		"0x1111111111111111111111111111111111111111",
	))
}
