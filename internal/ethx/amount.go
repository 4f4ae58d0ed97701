// Package ethx holds Ethereum-flavored helpers for the escrow domain:
// base-unit amount conversion, hex addresses, EIP-55 checksums and token
// symbol resolution. Amounts are transmitted and stored as base-unit
// integer strings; conversion to decimal happens only at the display
// boundary.
package ethx

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// DisplayDecimals is the number of fractional digits shown for amounts.
const DisplayDecimals = 4

// ZeroAddress is the sentinel token address meaning the native asset.
const ZeroAddress = "0x0000000000000000000000000000000000000000"

var tokenSymbols = map[string]string{
	"0x6b175474e89094c44da98b954eedeac495271d0f": "DAI",
	"0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48": "USDC",
	"0xdac17f958d2ee523a2206206994597c13d831ec7": "USDT",
}

var ErrInvalidAmount = errors.New("invalid amount")

// ParseUnits converts a decimal amount string ("1.5") into a base-unit
// integer string using the given number of decimals (18 for ETH:
// "1500000000000000000"). The fractional part must fit into decimals
// digits.
func ParseUnits(amount string, decimals int) (string, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return "", ErrInvalidAmount
	}

	neg := false
	if strings.HasPrefix(amount, "-") {
		neg = true
		amount = amount[1:]
	}

	intPart, fracPart, _ := strings.Cut(amount, ".")
	if intPart == "" {
		intPart = "0"
	}
	if len(fracPart) > decimals {
		return "", fmt.Errorf("%w: more than %d decimal places", ErrInvalidAmount, decimals)
	}

	digits := intPart + fracPart + strings.Repeat("0", decimals-len(fracPart))

	v, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return "", ErrInvalidAmount
	}
	if neg {
		return "", fmt.Errorf("%w: negative", ErrInvalidAmount)
	}
	return v.String(), nil
}

// FormatUnits converts a base-unit integer string into a fixed-point
// decimal string with DisplayDecimals fractional digits. Invalid input
// formats as "0", mirroring the dashboard's lenient display behavior.
func FormatUnits(baseAmount string, decimals int) string {
	v, ok := new(big.Int).SetString(strings.TrimSpace(baseAmount), 10)
	if !ok {
		return "0"
	}

	den := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	r := new(big.Rat).SetFrac(v, den)
	return r.FloatString(DisplayDecimals)
}

// TokenSymbol resolves a token contract address to a display symbol.
// The zero address (or no address) means the native asset.
func TokenSymbol(tokenAddress string) string {
	addr := strings.ToLower(strings.TrimSpace(tokenAddress))
	if addr == "" || addr == ZeroAddress {
		return "ETH"
	}
	if sym, ok := tokenSymbols[addr]; ok {
		return sym
	}
	return "TOKEN"
}

// FormatEscrowAmount renders a base-unit amount with its token symbol,
// e.g. "1.5000 ETH".
func FormatEscrowAmount(baseAmount, tokenAddress string) string {
	return FormatUnits(baseAmount, 18) + " " + TokenSymbol(tokenAddress)
}
