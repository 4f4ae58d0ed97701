package wallet

import (
	"context"
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/escrowdeck/internal/common"
	"github.com/dmitrijs2005/escrowdeck/internal/logging"
)

func newTestContract(p *fakeProvider) *EscrowContract {
	c := NewEscrowContract("0x00000000000000000000000000000000000000ee", p, logging.NewDefault(false))
	c.pollInterval = time.Millisecond
	c.mineTimeout = 200 * time.Millisecond
	return c
}

func TestConfirmReceiptData(t *testing.T) {
	data := confirmReceiptData(7)

	// 4-byte selector plus a 32-byte uint256 argument.
	require.Len(t, data, 2+8+64)
	assert.Equal(t, "0x", data[:2])
	assert.Equal(t,
		"0000000000000000000000000000000000000000000000000000000000000007",
		data[10:])
}

func TestEscrowContract_ConfirmReceipt(t *testing.T) {
	p := &fakeProvider{
		txHash: "0xfeed",
		receipts: []*Receipt{
			{TransactionHash: "0xfeed", Status: "0x1", BlockNumber: "0x10"},
		},
	}
	c := newTestContract(p)

	receipt, err := c.ConfirmReceipt(context.Background(), "0xAbC", 7)
	require.NoError(t, err)
	assert.Equal(t, "0xfeed", receipt.TransactionHash)

	require.Len(t, p.sentTxs, 1)
	tx := p.sentTxs[0]
	assert.Equal(t, "0xAbC", tx.From)
	assert.Equal(t, "0x00000000000000000000000000000000000000ee", tx.To)
	assert.Equal(t, confirmReceiptData(7), tx.Data)
}

func TestEscrowContract_ConfirmReceiptNotConnected(t *testing.T) {
	c := newTestContract(&fakeProvider{})

	_, err := c.ConfirmReceipt(context.Background(), "", 7)
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestEscrowContract_ConfirmReceiptUserRejected(t *testing.T) {
	p := &fakeProvider{sendErr: &RPCError{Code: CodeUserRejected, Message: "User rejected the request"}}
	c := newTestContract(p)

	_, err := c.ConfirmReceipt(context.Background(), "0xAbC", 7)
	assert.ErrorIs(t, err, ErrRejected)
}

// encodeErrorString builds an ABI Error(string) payload for tests.
func encodeErrorString(t *testing.T, reason string) string {
	t.Helper()
	payload := make([]byte, 64+((len(reason)+31)/32)*32)
	payload[31] = 0x20
	payload[63] = byte(len(reason))
	copy(payload[64:], reason)
	return "0x" + errorStringSelector + hex.EncodeToString(payload)
}

func TestEscrowContract_NotBuyerRevert(t *testing.T) {
	p := &fakeProvider{
		sendErr: &RPCError{
			Code:    CodeInternal,
			Message: "execution reverted: Not buyer",
			Data:    encodeErrorString(t, "Not buyer"),
		},
	}
	c := newTestContract(p)

	_, err := c.ConfirmReceipt(context.Background(), "0xAbC", 7)
	assert.ErrorIs(t, err, common.ErrNotBuyer)
}

func TestEscrowContract_RevertReasonSurfacedAfterMining(t *testing.T) {
	p := &fakeProvider{
		txHash: "0xfeed",
		receipts: []*Receipt{
			{TransactionHash: "0xfeed", Status: "0x0"},
		},
		callErr: &RPCError{
			Code:    CodeInternal,
			Message: "execution reverted: Already confirmed",
		},
	}
	c := newTestContract(p)

	_, err := c.ConfirmReceipt(context.Background(), "0xAbC", 7)
	require.ErrorIs(t, err, ErrReverted)
	assert.Contains(t, err.Error(), "Already confirmed")
}

func TestEscrowContract_WaitsForMining(t *testing.T) {
	p := &fakeProvider{
		txHash: "0xfeed",
		receipts: []*Receipt{
			nil,
			nil,
			{TransactionHash: "0xfeed", Status: "0x1"},
		},
	}
	c := newTestContract(p)

	receipt, err := c.ConfirmReceipt(context.Background(), "0xAbC", 7)
	require.NoError(t, err)
	assert.True(t, receipt.Succeeded())
}

func TestEscrowContract_MineTimeout(t *testing.T) {
	p := &fakeProvider{txHash: "0xfeed"}
	c := newTestContract(p)
	c.mineTimeout = 5 * time.Millisecond

	_, err := c.ConfirmReceipt(context.Background(), "0xAbC", 7)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDecodeErrorString(t *testing.T) {
	assert.Equal(t, "Not buyer", decodeErrorString(encodeErrorString(t, "Not buyer")))
	assert.Empty(t, decodeErrorString("0xdeadbeef"))
	assert.Empty(t, decodeErrorString(""))
	assert.Empty(t, decodeErrorString("0x"+errorStringSelector+"ffff"))
}

func TestRevertReason(t *testing.T) {
	assert.Equal(t, "Not buyer", revertReason(&RPCError{
		Code: CodeInternal, Message: "execution reverted: Not buyer",
	}))
	assert.Empty(t, revertReason(assert.AnError))
	assert.Empty(t, revertReason(&RPCError{Code: CodeInternal, Message: "out of gas"}))
}
