// Package services contains the client's application services: thin
// orchestrators between the REST gateway, the wallet bridge, the session
// store and the local cache. Each service depends on small interfaces so
// tests can substitute fakes.
package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/escrowdeck/internal/client/api"
	"github.com/dmitrijs2005/escrowdeck/internal/client/models"
	"github.com/dmitrijs2005/escrowdeck/internal/common"
	"github.com/dmitrijs2005/escrowdeck/internal/logging"
	"github.com/dmitrijs2005/escrowdeck/internal/validatex"
)

// AuthAPI is the slice of the gateway used by AuthService.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*api.AuthResponse, error)
	Register(ctx context.Context, req api.RegisterRequest) (*api.AuthResponse, error)
	Nonce(ctx context.Context, walletAddress string) (string, error)
	WalletLogin(ctx context.Context, walletAddress, signature string) (*api.AuthResponse, error)
	ForgotPassword(ctx context.Context, email string) (*api.StatusResponse, error)
	ResetPassword(ctx context.Context, email, token, newPassword string) (*api.StatusResponse, error)
	Profile(ctx context.Context) (*models.User, error)
}

// WalletConnector is the slice of the wallet bridge used for login.
type WalletConnector interface {
	Connect(ctx context.Context) (string, error)
	SignMessage(ctx context.Context, message string) (string, bool)
}

// SessionWriter is the session surface AuthService mutates.
type SessionWriter interface {
	Login(user *models.User, accessToken, refreshToken string) error
	Logout() error
	SetUser(user *models.User) error
	User() *models.User
}

// CacheClearer wipes locally cached backend reads. The cache is durable
// and keyed by query only, so it must be emptied whenever the session
// identity changes or one user would be served another user's data.
type CacheClearer interface {
	Clear(ctx context.Context) error
}

// AuthService drives the authentication lifecycle.
type AuthService struct {
	api     AuthAPI
	wallet  WalletConnector
	session SessionWriter
	cache   CacheClearer
	log     logging.Logger
}

func NewAuthService(a AuthAPI, w WalletConnector, s SessionWriter, cache CacheClearer, log logging.Logger) *AuthService {
	return &AuthService{api: a, wallet: w, session: s, cache: cache, log: log.With("component", "auth")}
}

type loginForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// Login authenticates with email and password and establishes the local
// session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, error) {
	if err := validatex.Struct(loginForm{Email: email, Password: password}); err != nil {
		return nil, err
	}

	resp, err := s.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := s.session.Login(&resp.User, resp.AccessToken, resp.RefreshToken); err != nil {
		return nil, err
	}
	s.clearCache(ctx)
	s.log.Info(ctx, "logged in", "user_id", resp.User.ID)
	return &resp.User, nil
}

// RegisterInput collects the registration form.
type RegisterInput struct {
	Email           string `validate:"required,email"`
	Password        string `validate:"required,min=8"`
	ConfirmPassword string `validate:"required,eqfield=Password"`
	DisplayName     string `validate:"required,min=2,max=64"`
}

// Register creates a local-credentials account and logs in.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := validatex.Struct(in); err != nil {
		return nil, err
	}

	resp, err := s.api.Register(ctx, api.RegisterRequest{
		Email:        in.Email,
		Password:     in.Password,
		AuthProvider: string(models.ProviderLocal),
		DisplayName:  in.DisplayName,
	})
	if err != nil {
		return nil, err
	}
	if err := s.session.Login(&resp.User, resp.AccessToken, resp.RefreshToken); err != nil {
		return nil, err
	}
	s.clearCache(ctx)
	return &resp.User, nil
}

// WalletLogin runs the challenge-response wallet flow: connect, fetch a
// nonce for the account, sign it, exchange the signature for a session.
func (s *AuthService) WalletLogin(ctx context.Context) (*models.User, error) {
	account, err := s.wallet.Connect(ctx)
	if err != nil {
		return nil, err
	}

	nonce, err := s.api.Nonce(ctx, account)
	if err != nil {
		return nil, err
	}

	signature, ok := s.wallet.SignMessage(ctx, nonce)
	if !ok {
		return nil, fmt.Errorf("%w: signature not provided", common.ErrUnauthorized)
	}

	resp, err := s.api.WalletLogin(ctx, account, signature)
	if err != nil {
		return nil, err
	}
	if err := s.session.Login(&resp.User, resp.AccessToken, resp.RefreshToken); err != nil {
		return nil, err
	}
	s.clearCache(ctx)
	s.log.Info(ctx, "wallet login complete", "user_id", resp.User.ID, "wallet", account)
	return &resp.User, nil
}

// ForgotPassword requests a reset link.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	if err := validatex.Var(email, "required,email"); err != nil {
		return "", err
	}
	resp, err := s.api.ForgotPassword(ctx, email)
	if err != nil {
		return "", err
	}
	return resp.Message, nil
}

type resetForm struct {
	Email           string `validate:"required,email"`
	Token           string `validate:"required"`
	Password        string `validate:"required,min=8"`
	ConfirmPassword string `validate:"required,eqfield=Password"`
}

// ResetPassword redeems a reset token.
func (s *AuthService) ResetPassword(ctx context.Context, email, token, password, confirm string) (string, error) {
	form := resetForm{Email: email, Token: token, Password: password, ConfirmPassword: confirm}
	if err := validatex.Struct(form); err != nil {
		return "", err
	}
	resp, err := s.api.ResetPassword(ctx, email, token, password)
	if err != nil {
		return "", err
	}
	return resp.Message, nil
}

// RefreshProfile re-fetches the authenticated profile and updates the
// cached user.
func (s *AuthService) RefreshProfile(ctx context.Context) (*models.User, error) {
	if s.session.User() == nil {
		return nil, common.ErrNotLoggedIn
	}
	user, err := s.api.Profile(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.session.SetUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Logout clears local session state and the escrow cache; no backend
// call is made.
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.session.Logout(); err != nil {
		return err
	}
	s.clearCache(ctx)
	s.log.Info(ctx, "logged out")
	return nil
}

func (s *AuthService) clearCache(ctx context.Context) {
	if err := s.cache.Clear(ctx); err != nil {
		s.log.Warn(ctx, "cache clear failed", "error", err)
	}
}
