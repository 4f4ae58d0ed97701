package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/escrowdeck/internal/client/models"
	"github.com/dmitrijs2005/escrowdeck/internal/client/services"
)

// Users lists all users, or searches when a term is given.
func (a *App) Users(ctx context.Context, args []string) error {
	var (
		users []models.User
		err   error
	)
	if len(args) > 0 {
		users, err = a.users.Search(ctx, args[0])
	} else {
		users, err = a.users.All(ctx)
	}
	if err != nil {
		return err
	}
	printUsers(users)
	return nil
}

// Suggestions shows counterparty suggestions for escrow creation.
func (a *App) Suggestions(ctx context.Context) error {
	users, err := a.users.Suggestions(ctx, 10)
	if err != nil {
		return err
	}
	printUsers(users)
	return nil
}

// Profile re-fetches and prints the authenticated profile.
func (a *App) Profile(ctx context.Context) error {
	u, err := a.auth.RefreshProfile(ctx)
	if err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("%s <%s>", u.DisplayName, u.Email))
	if u.WalletAddress != "" {
		printlnFn("Wallet:", u.WalletAddress)
	}
	if u.Bio != "" {
		printlnFn("Bio:", u.Bio)
	}
	printlnFn("Verified:", u.IsVerified)
	return nil
}

// UpdateProfile prompts for the mutable profile fields. Empty answers
// leave a field unchanged.
func (a *App) UpdateProfile(ctx context.Context) error {
	displayName, err := getSimpleText(a.reader, "Display name (empty to keep)", os.Stdout)
	if err != nil {
		return err
	}
	bio, err := getMultiline(a.reader, "Bio (empty to keep)", os.Stdout)
	if err != nil {
		return err
	}
	image, err := getSimpleText(a.reader, "Profile image URL (empty to keep)", os.Stdout)
	if err != nil {
		return err
	}

	u, err := a.users.UpdateProfile(ctx, services.UpdateProfileInput{
		DisplayName:  displayName,
		Bio:          bio,
		ProfileImage: image,
	})
	if err != nil {
		return err
	}
	printlnFn("Profile updated for", u.Email)
	return nil
}
