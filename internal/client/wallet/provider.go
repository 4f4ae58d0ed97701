// Package wallet talks to an external EIP-1193 style signer (a
// MetaMask-compatible RPC bridge or a development node) to obtain
// accounts, request signatures and submit contract transactions. The
// signer is modelled as an injected Provider capability so the rest of
// the client is testable without a real wallet.
package wallet

import (
	"context"
	"errors"
	"fmt"
)

// Provider error codes defined by EIP-1193 / JSON-RPC.
const (
	CodeUserRejected   = 4001
	CodeRequestPending = -32002
	CodeUnknownChain   = 4902
	CodeInvalidParams  = -32602
	CodeInternal       = -32603
)

var (
	// ErrNotInstalled means no signer is reachable at the configured
	// endpoint (the CLI analog of a missing browser extension).
	ErrNotInstalled = errors.New("wallet provider not available")

	// ErrRejected means the user declined the request in the signer.
	ErrRejected = errors.New("wallet request rejected by user")

	// ErrRequestPending means the signer already has an open prompt.
	ErrRequestPending = errors.New("wallet request already pending")

	// ErrNoAccounts means the signer authorized zero accounts.
	ErrNoAccounts = errors.New("no accounts available in wallet")

	// ErrNotConnected means an operation required a connected account.
	ErrNotConnected = errors.New("wallet not connected")

	// ErrReverted means a submitted transaction was mined but reverted.
	ErrReverted = errors.New("transaction reverted")
)

// RPCError is a JSON-RPC error object returned by the provider.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("provider error %d: %s", e.Code, e.Message)
}

// UserMessage maps a provider failure to the human-readable message shown
// in the dashboard. Unrecognized codes fall back to a generic message.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrNotInstalled):
		return "Please install or start a wallet to continue"
	case errors.Is(err, ErrNoAccounts):
		return "No accounts found in wallet"
	}

	var rpcErr *RPCError
	if errors.As(err, &rpcErr) {
		switch rpcErr.Code {
		case CodeUserRejected:
			return "Please connect your wallet to continue"
		case CodeRequestPending:
			return "Wallet request already pending. Please check your wallet"
		case CodeUnknownChain:
			return "Network not found in wallet"
		case CodeInvalidParams:
			return "Wallet rejected malformed request parameters"
		case CodeInternal:
			return "Internal wallet error"
		}
	}
	return "Wallet request failed"
}

// TxParams is the transaction object submitted via eth_sendTransaction
// or replayed via eth_call.
type TxParams struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Data  string `json:"data,omitempty"`
	Value string `json:"value,omitempty"`
}

// Receipt is the subset of a transaction receipt the client consumes.
type Receipt struct {
	TransactionHash string `json:"transactionHash"`
	Status          string `json:"status"` // "0x1" success, "0x0" reverted
	BlockNumber     string `json:"blockNumber"`
}

// Succeeded reports whether the mined transaction succeeded.
func (r *Receipt) Succeeded() bool { return r.Status == "0x1" }

// Provider is the signer capability surface the client depends on.
// Implementations must be safe for concurrent use.
type Provider interface {
	// RequestAccounts asks the signer to authorize account access.
	RequestAccounts(ctx context.Context) ([]string, error)

	// Accounts returns the currently authorized accounts without prompting.
	Accounts(ctx context.Context) ([]string, error)

	// ChainID returns the signer's active chain id (hex string).
	ChainID(ctx context.Context) (string, error)

	// PersonalSign signs message with account via personal_sign.
	PersonalSign(ctx context.Context, message, account string) (string, error)

	// SwitchChain asks the signer to switch to chainID.
	SwitchChain(ctx context.Context, chainID string) error

	// SendTransaction submits tx for signing and broadcast, returning the
	// transaction hash.
	SendTransaction(ctx context.Context, tx TxParams) (string, error)

	// TransactionReceipt returns the receipt for txHash, or (nil, nil)
	// while the transaction is unmined.
	TransactionReceipt(ctx context.Context, txHash string) (*Receipt, error)

	// Call executes tx as a read-only call at the latest block.
	Call(ctx context.Context, tx TxParams) (string, error)
}
