// Package cli provides the interactive escrowdeck command-line client.
//
// It wires configuration, the session store, the local cache, the REST
// gateway, the wallet bridge and an interactive REPL over the escrow
// lifecycle. Typical flow: restore the stored session (or prompt for
// credentials), start the wallet watcher, and execute user commands.
//
// Key features:
//   - Login / Register / Wallet login via signed nonce
//   - List / Show escrows with cached pages and permitted actions
//   - Release / Refund / Dispute / Submit proof
//   - Two-phase receipt confirmation through the wallet signer
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App, runREPL and the command methods for details.
package cli
