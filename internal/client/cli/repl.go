package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Register(ctx context.Context) error
	WalletLogin(ctx context.Context) error
	ForgotPassword(ctx context.Context) error
	ResetPassword(ctx context.Context) error
	List(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Create(ctx context.Context) error
	Release(ctx context.Context, args []string) error
	Refund(ctx context.Context, args []string) error
	Dispute(ctx context.Context, args []string) error
	SubmitProof(ctx context.Context, args []string) error
	ConfirmReceipt(ctx context.Context, args []string) error
	ResubmitReceipt(ctx context.Context, args []string) error
	Users(ctx context.Context, args []string) error
	Suggestions(ctx context.Context) error
	Profile(ctx context.Context) error
	UpdateProfile(ctx context.Context) error
	Whoami(ctx context.Context) error
	Connect(ctx context.Context) error
	SwitchChain(ctx context.Context, args []string) error
	Logout(ctx context.Context) error
}

// runREPL starts a read-eval-print loop for the escrow dashboard CLI.
//
// It reads a line from the provided scanner, parses the first token as
// the command, and dispatches to methods on 'a'. Unknown commands are
// reported back to the user. The loop exits on scanner EOF or when the
// user types "exit" or "quit".
//
// Before login the available commands are help, login, register,
// wallet-login, forgot-password, reset-password and exit. After login
// the escrow, user, wallet and profile commands become available.
//
// Errors returned by command handlers are printed here and the loop
// continues, so one failed command never takes down the session.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("esc> %s ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		var err error

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Escrows:  (l)ist [status] [page], show <id>, create, release <id>, refund <id>, dispute <id>")
				printlnFn("Receipts: submit-proof <id> [file], confirm-receipt <id>, resubmit-receipt <id> <tx>")
				printlnFn("Users:    users [term], suggestions, profile, update-profile, whoami")
				printlnFn("Wallet:   connect, switch-chain [id]")
				printlnFn("Session:  logout, exit")
			} else {
				printlnFn("Available commands: login, register, wallet-login, forgot-password, reset-password, exit")
			}

		case "login":
			err = a.Login(ctx)
		case "register":
			err = a.Register(ctx)
		case "wallet-login":
			err = a.WalletLogin(ctx)
		case "forgot-password":
			err = a.ForgotPassword(ctx)
		case "reset-password":
			err = a.ResetPassword(ctx)

		case "l", "list":
			err = a.List(ctx, args)
		case "show":
			err = a.Show(ctx, args)
		case "create":
			err = a.Create(ctx)
		case "release":
			err = a.Release(ctx, args)
		case "refund":
			err = a.Refund(ctx, args)
		case "dispute":
			err = a.Dispute(ctx, args)
		case "submit-proof":
			err = a.SubmitProof(ctx, args)
		case "confirm-receipt":
			err = a.ConfirmReceipt(ctx, args)
		case "resubmit-receipt":
			err = a.ResubmitReceipt(ctx, args)

		case "users":
			err = a.Users(ctx, args)
		case "suggestions":
			err = a.Suggestions(ctx)
		case "profile":
			err = a.Profile(ctx)
		case "update-profile":
			err = a.UpdateProfile(ctx)
		case "whoami":
			err = a.Whoami(ctx)

		case "connect":
			err = a.Connect(ctx)
		case "switch-chain":
			err = a.SwitchChain(ctx, args)

		case "logout":
			err = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err.Error())
		}
	}
}
