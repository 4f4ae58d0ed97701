package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
)

// getStatus renders the prompt suffix: the user's display name, an
// [admin] marker and the connected wallet account.
func (a *App) getStatus() string {
	s := ""
	if u := a.session.User(); u != nil {
		name := u.DisplayName
		if name == "" {
			name = u.Email
		}
		s = name
		if a.session.IsAdmin() {
			s += " [admin]"
		}
	}
	if a.wallet.Connected() {
		s += " " + shortAddress(a.wallet.Account())
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Root prints the banner and runs the interactive loop on stdin.
func (a *App) Root(ctx context.Context) {
	printlnFn("Welcome to the escrowdeck CLI (type 'help' for commands)")

	if a.isLoggedIn() {
		if u, err := a.auth.RefreshProfile(ctx); err == nil {
			printlnFn("Session restored for", u.Email)
		} else {
			printlnFn("Stored session is no longer valid, please log in again")
			_ = a.auth.Logout(ctx)
		}
	}

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}
