package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/escrowdeck/internal/client/services"
)

// getSimpleText, getPassword and getMultiline are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword
var getMultiline = GetMultiline

// Login prompts for email and password and authenticates.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout, "Enter password")
	if err != nil {
		return err
	}

	user, err := a.auth.Login(ctx, email, password)
	if err != nil {
		return err
	}
	printlnFn("Logged in as", user.Email)
	return nil
}

// Register prompts for the registration form and creates an account.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	displayName, err := getSimpleText(a.reader, "Enter display name", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout, "Enter password")
	if err != nil {
		return err
	}
	confirm, err := getPassword(os.Stdout, "Confirm password")
	if err != nil {
		return err
	}

	user, err := a.auth.Register(ctx, services.RegisterInput{
		Email:           email,
		Password:        password,
		ConfirmPassword: confirm,
		DisplayName:     displayName,
	})
	if err != nil {
		return err
	}
	printlnFn("Account created for", user.Email)
	return nil
}

// WalletLogin runs the challenge-response wallet flow.
func (a *App) WalletLogin(ctx context.Context) error {
	printlnFn("Requesting wallet connection, check your signer...")
	user, err := a.auth.WalletLogin(ctx)
	if err != nil {
		return err
	}
	printlnFn("Logged in as", user.Email, "via wallet", shortAddress(user.WalletAddress))
	return nil
}

// ForgotPassword requests a reset link.
func (a *App) ForgotPassword(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	msg, err := a.auth.ForgotPassword(ctx, email)
	if err != nil {
		return err
	}
	printlnFn(msg)
	return nil
}

// ResetPassword redeems a reset token for a new password.
func (a *App) ResetPassword(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	token, err := getSimpleText(a.reader, "Enter reset token", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout, "New password")
	if err != nil {
		return err
	}
	confirm, err := getPassword(os.Stdout, "Confirm password")
	if err != nil {
		return err
	}

	msg, err := a.auth.ResetPassword(ctx, email, token, password, confirm)
	if err != nil {
		return err
	}
	printlnFn(msg)
	return nil
}

// Whoami prints the current session.
func (a *App) Whoami(ctx context.Context) error {
	u := a.session.User()
	if u == nil {
		printlnFn("Not logged in")
		return nil
	}
	printlnFn(fmt.Sprintf("%s <%s>", u.DisplayName, u.Email))
	if u.WalletAddress != "" {
		printlnFn("Wallet:", u.WalletAddress)
	}
	if a.session.IsAdmin() {
		printlnFn("Role: admin")
	}
	if exp, ok := a.session.AccessTokenExpiry(); ok {
		printlnFn("Access token expires:", exp.Local().Format("2006-01-02 15:04:05"))
	}
	return nil
}

// Logout clears the local session.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	printlnFn("Logged out")
	return nil
}
