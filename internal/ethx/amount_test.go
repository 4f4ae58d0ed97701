package ethx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseUnits(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "1.5", want: "1500000000000000000"},
		{in: "0.0001", want: "100000000000000"},
		{in: "2", want: "2000000000000000000"},
		{in: ".5", want: "500000000000000000"},
		{in: "0", want: "0"},
		{in: "", wantErr: true},
		{in: "-1", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "1.0000000000000000001", wantErr: true}, // 19 fractional digits
	}

	for _, tt := range tests {
		got, err := ParseUnits(tt.in, 18)
		if tt.wantErr {
			require.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		require.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestFormatUnits(t *testing.T) {
	require.Equal(t, "1.5000", FormatUnits("1500000000000000000", 18))
	require.Equal(t, "0.0001", FormatUnits("100000000000000", 18))
	require.Equal(t, "0.0000", FormatUnits("0", 18))
	require.Equal(t, "0", FormatUnits("garbage", 18))
}

func TestAmountRoundTrip(t *testing.T) {
	base, err := ParseUnits("1.5", 18)
	require.NoError(t, err)
	require.Equal(t, "1500000000000000000", base)
	require.Equal(t, "1.5000 ETH", FormatEscrowAmount(base, ZeroAddress))
}

func TestTokenSymbol(t *testing.T) {
	require.Equal(t, "ETH", TokenSymbol(""))
	require.Equal(t, "ETH", TokenSymbol(ZeroAddress))
	require.Equal(t, "ETH", TokenSymbol("0x0000000000000000000000000000000000000000"))
	require.Equal(t, "DAI", TokenSymbol("0x6B175474E89094C44Da98b954EedeAC495271d0F"))
	require.Equal(t, "USDC", TokenSymbol("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"))
	require.Equal(t, "TOKEN", TokenSymbol("0x1111111111111111111111111111111111111111"))
}
