package wallet

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/dmitrijs2005/escrowdeck/internal/common"
	"github.com/dmitrijs2005/escrowdeck/internal/ethx"
	"github.com/dmitrijs2005/escrowdeck/internal/logging"
)

// errorStringSelector is the 4-byte selector of Error(string), the
// standard revert payload.
const errorStringSelector = "08c379a0"

// EscrowContract submits confirmReceipt transactions to the on-chain
// escrow contract through the wallet provider and waits for them to be
// mined.
type EscrowContract struct {
	address      string
	provider     Provider
	log          logging.Logger
	pollInterval time.Duration
	mineTimeout  time.Duration
}

// NewEscrowContract binds the helper to a deployed contract address.
func NewEscrowContract(address string, provider Provider, log logging.Logger) *EscrowContract {
	return &EscrowContract{
		address:      address,
		provider:     provider,
		log:          log.With("component", "escrow-contract"),
		pollInterval: 2 * time.Second,
		mineTimeout:  3 * time.Minute,
	}
}

// confirmReceiptData builds calldata for confirmReceipt(uint256).
func confirmReceiptData(escrowID int64) string {
	selector := ethx.Keccak256([]byte("confirmReceipt(uint256)"))[:4]

	arg := make([]byte, 32)
	big.NewInt(escrowID).FillBytes(arg)

	return "0x" + hex.EncodeToString(selector) + hex.EncodeToString(arg)
}

// ConfirmReceipt invokes the contract's receipt-confirmation entry point
// from the given account and waits for one confirmation. The revert
// reason "Not buyer" is translated into the domain error; other revert
// reasons are passed through. On success the receipt (with the
// transaction hash) is returned.
func (c *EscrowContract) ConfirmReceipt(ctx context.Context, from string, escrowID int64) (*Receipt, error) {
	if from == "" {
		return nil, ErrNotConnected
	}

	tx := TxParams{
		From: from,
		To:   c.address,
		Data: confirmReceiptData(escrowID),
	}

	txHash, err := c.provider.SendTransaction(ctx, tx)
	if err != nil {
		return nil, c.translateRevert(classify(err))
	}

	c.log.Info(ctx, "confirm receipt submitted", "escrow_id", escrowID, "tx_hash", txHash)

	receipt, err := c.waitMined(ctx, txHash)
	if err != nil {
		return nil, err
	}

	if !receipt.Succeeded() {
		// Replay the call to surface the revert reason.
		if _, callErr := c.provider.Call(ctx, tx); callErr != nil {
			return nil, c.translateRevert(callErr)
		}
		return nil, fmt.Errorf("%w: tx %s", ErrReverted, txHash)
	}

	return receipt, nil
}

// waitMined polls for the transaction receipt until mined, timeout, or
// context cancellation.
func (c *EscrowContract) waitMined(ctx context.Context, txHash string) (*Receipt, error) {
	ctx, cancel := context.WithTimeout(ctx, c.mineTimeout)
	defer cancel()

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		receipt, err := c.provider.TransactionReceipt(ctx, txHash)
		if err != nil {
			return nil, fmt.Errorf("receipt lookup: %w", err)
		}
		if receipt != nil {
			return receipt, nil
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for tx %s: %w", txHash, ctx.Err())
		}
	}
}

// translateRevert extracts a revert reason from a provider error and maps
// known reasons onto domain errors. Unknown reasons are returned as
// ErrReverted with the reason attached; non-revert errors pass through.
func (c *EscrowContract) translateRevert(err error) error {
	reason := revertReason(err)
	if reason == "" {
		return err
	}
	if strings.Contains(reason, "Not buyer") {
		return common.ErrNotBuyer
	}
	return fmt.Errorf("%w: %s", ErrReverted, reason)
}

// revertReason pulls a human-readable revert reason out of a provider
// error: either from ABI-encoded Error(string) data or from the message
// text ("execution reverted: ...").
func revertReason(err error) string {
	var rpcErr *RPCError
	if !errors.As(err, &rpcErr) {
		return ""
	}

	if reason := decodeErrorString(rpcErr.Data); reason != "" {
		return reason
	}

	if msg, ok := strings.CutPrefix(rpcErr.Message, "execution reverted"); ok {
		return strings.TrimPrefix(strings.TrimSpace(msg), ": ")
	}
	return ""
}

// decodeErrorString decodes an ABI-encoded Error(string) payload
// (0x08c379a0 || offset || length || bytes). Returns "" when the payload
// is absent or malformed.
func decodeErrorString(data string) string {
	payload := strings.TrimPrefix(strings.TrimSpace(data), "0x")
	if !strings.HasPrefix(payload, errorStringSelector) {
		return ""
	}

	raw, err := hex.DecodeString(payload[len(errorStringSelector):])
	if err != nil || len(raw) < 64 {
		return ""
	}

	length := new(big.Int).SetBytes(raw[32:64]).Int64()
	if length < 0 || 64+length > int64(len(raw)) {
		return ""
	}
	return string(raw[64 : 64+length])
}
