package cli

import (
	"context"

	"github.com/dmitrijs2005/escrowdeck/internal/client/wallet"
)

// Connect requests wallet access from the signer.
func (a *App) Connect(ctx context.Context) error {
	printlnFn("Requesting wallet connection, check your signer...")
	account, err := a.wallet.Connect(ctx)
	if err != nil {
		printlnFn(wallet.UserMessage(err))
		return err
	}
	printlnFn("Connected:", account)
	return nil
}

// SwitchChain asks the signer to switch networks: switch-chain [id].
// Without an argument the configured chain is targeted.
func (a *App) SwitchChain(ctx context.Context, args []string) error {
	chainID := a.config.ChainID
	if len(args) > 0 {
		chainID = args[0]
	}
	if a.wallet.SwitchNetwork(ctx, chainID) {
		printlnFn("Switched to chain", chainID)
	} else {
		printlnFn("Could not switch to chain", chainID)
	}
	return nil
}
