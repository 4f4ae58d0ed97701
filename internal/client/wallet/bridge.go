package wallet

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/escrowdeck/internal/logging"
)

// Bridge holds the client's view of the wallet connection: the authorized
// account and chain id. The view is advisory only; every operation
// re-derives state from the provider rather than trusting the cache.
type Bridge struct {
	provider Provider
	log      logging.Logger

	mu      sync.RWMutex
	account string
	chainID string
}

// NewBridge wraps a provider.
func NewBridge(provider Provider, log logging.Logger) *Bridge {
	return &Bridge{provider: provider, log: log.With("component", "wallet")}
}

// Connect requests account access from the signer and caches the first
// authorized account and the active chain id. Rejection, pending prompts
// and an unreachable signer map to the package's typed errors.
func (b *Bridge) Connect(ctx context.Context) (string, error) {
	accounts, err := b.provider.RequestAccounts(ctx)
	if err != nil {
		return "", classify(err)
	}
	if len(accounts) == 0 {
		return "", ErrNoAccounts
	}

	chainID, err := b.provider.ChainID(ctx)
	if err != nil {
		b.log.Warn(ctx, "chain id unavailable", "error", err)
	}

	b.mu.Lock()
	b.account = accounts[0]
	b.chainID = chainID
	b.mu.Unlock()

	b.log.Info(ctx, "wallet connected", "account", accounts[0], "chain_id", chainID)
	return accounts[0], nil
}

// classify maps provider error codes onto the typed sentinel errors while
// keeping the original error in the chain.
func classify(err error) error {
	var rpcErr *RPCError
	if errors.As(err, &rpcErr) {
		switch rpcErr.Code {
		case CodeUserRejected:
			return errors.Join(ErrRejected, err)
		case CodeRequestPending:
			return errors.Join(ErrRequestPending, err)
		}
	}
	return err
}

// Disconnect drops the cached connection state.
func (b *Bridge) Disconnect() {
	b.mu.Lock()
	b.account = ""
	b.chainID = ""
	b.mu.Unlock()
}

// Account returns the cached connected account ("" when disconnected).
func (b *Bridge) Account() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.account
}

// ChainID returns the cached chain id ("" when unknown).
func (b *Bridge) ChainID() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.chainID
}

// Connected reports whether an account is currently authorized.
func (b *Bridge) Connected() bool { return b.Account() != "" }

// SignMessage requests a personal-message signature for the currently
// authorized account. Accounts are re-requested first so the signature
// always targets the signer's live account. On rejection or an absent
// provider it returns ("", false) and logs the reason instead of failing,
// matching the dashboard's null-on-reject contract.
func (b *Bridge) SignMessage(ctx context.Context, message string) (string, bool) {
	accounts, err := b.provider.RequestAccounts(ctx)
	if err != nil {
		b.log.Warn(ctx, "cannot sign: provider unavailable", "error", err)
		return "", false
	}
	if len(accounts) == 0 {
		b.log.Warn(ctx, "cannot sign: no accounts authorized")
		return "", false
	}

	signature, err := b.provider.PersonalSign(ctx, message, accounts[0])
	if err != nil {
		var rpcErr *RPCError
		switch {
		case errors.As(err, &rpcErr) && rpcErr.Code == CodeUserRejected:
			b.log.Warn(ctx, "signature request rejected by user")
		case errors.As(err, &rpcErr) && rpcErr.Code == CodeInvalidParams:
			b.log.Warn(ctx, "invalid parameters for personal_sign")
		default:
			b.log.Warn(ctx, "signature request failed", "error", err)
		}
		return "", false
	}
	return signature, true
}

// SwitchNetwork asks the signer to switch chains. Best effort: the result
// is a boolean, never an error.
func (b *Bridge) SwitchNetwork(ctx context.Context, chainID string) bool {
	if err := b.provider.SwitchChain(ctx, chainID); err != nil {
		var rpcErr *RPCError
		if errors.As(err, &rpcErr) && rpcErr.Code == CodeUnknownChain {
			b.log.Warn(ctx, "network not known to wallet", "chain_id", chainID)
		} else {
			b.log.Warn(ctx, "network switch failed", "chain_id", chainID, "error", err)
		}
		return false
	}

	b.mu.Lock()
	b.chainID = chainID
	b.mu.Unlock()
	return true
}

// WatchHandlers receive wallet state changes observed by Watch.
type WatchHandlers struct {
	OnAccountChanged func(account string)
	OnChainChanged   func(chainID string)
	OnDisconnect     func()
}

// Watch polls the provider for account and chain changes until ctx is
// done. An empty account list disconnects the bridge; a chain change
// resets cached state before notifying (the CLI analog of the provider
// ecosystem's reload-on-chainChanged convention).
func (b *Bridge) Watch(ctx context.Context, interval time.Duration, handlers WatchHandlers) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			b.poll(ctx, handlers)
		case <-ctx.Done():
			return
		}
	}
}

func (b *Bridge) poll(ctx context.Context, handlers WatchHandlers) {
	if !b.Connected() {
		return
	}

	pollCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	accounts, err := b.provider.Accounts(pollCtx)
	if err != nil {
		b.log.Debug(ctx, "account poll failed", "error", err)
		return
	}

	if len(accounts) == 0 {
		b.Disconnect()
		b.log.Info(ctx, "wallet disconnected")
		if handlers.OnDisconnect != nil {
			handlers.OnDisconnect()
		}
		return
	}

	b.mu.Lock()
	accountChanged := accounts[0] != b.account
	if accountChanged {
		b.account = accounts[0]
	}
	b.mu.Unlock()

	if accountChanged {
		b.log.Info(ctx, "wallet account changed", "account", accounts[0])
		if handlers.OnAccountChanged != nil {
			handlers.OnAccountChanged(accounts[0])
		}
	}

	chainID, err := b.provider.ChainID(pollCtx)
	if err != nil {
		return
	}

	b.mu.Lock()
	chainChanged := chainID != "" && chainID != b.chainID
	if chainChanged {
		b.chainID = chainID
	}
	b.mu.Unlock()

	if chainChanged {
		b.log.Info(ctx, "wallet chain changed", "chain_id", chainID)
		if handlers.OnChainChanged != nil {
			handlers.OnChainChanged(chainID)
		}
	}
}
