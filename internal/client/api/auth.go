package api

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/escrowdeck/internal/client/models"
)

// AuthResponse is returned by login, registration and wallet login.
type AuthResponse struct {
	User         models.User `json:"user"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
}

// StatusResponse is the generic {success, message} envelope.
type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// RegisterRequest creates a new account.
type RegisterRequest struct {
	Email         string `json:"email"`
	Password      string `json:"password,omitempty"`
	WalletAddress string `json:"walletAddress,omitempty"`
	AuthProvider  string `json:"authProvider"`
	DisplayName   string `json:"displayName"`
}

// Login authenticates with email and password. Pre-auth: no bearer, no
// refresh.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var out AuthResponse
	err := c.requestNoAuth(ctx, http.MethodPost, "/auth/login",
		map[string]string{"email": email, "password": password}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.requestNoAuth(ctx, http.MethodPost, "/auth/register", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Nonce fetches the one-time challenge the wallet must sign to prove key
// ownership.
func (c *Client) Nonce(ctx context.Context, walletAddress string) (string, error) {
	var out struct {
		Nonce string `json:"nonce"`
	}
	err := c.requestNoAuth(ctx, http.MethodPost, "/auth/nonce",
		map[string]string{"walletAddress": walletAddress}, &out)
	if err != nil {
		return "", err
	}
	return out.Nonce, nil
}

// WalletLogin exchanges a signed nonce for a session.
func (c *Client) WalletLogin(ctx context.Context, walletAddress, signature string) (*AuthResponse, error) {
	var out AuthResponse
	err := c.requestNoAuth(ctx, http.MethodPost, "/auth/metamask",
		map[string]string{"walletAddress": walletAddress, "signature": signature}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ForgotPassword requests a reset link for email.
func (c *Client) ForgotPassword(ctx context.Context, email string) (*StatusResponse, error) {
	var out StatusResponse
	err := c.requestNoAuth(ctx, http.MethodPost, "/auth/forgot-password",
		map[string]string{"email": email}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ResetPassword redeems a reset token for a new password.
func (c *Client) ResetPassword(ctx context.Context, email, token, newPassword string) (*StatusResponse, error) {
	var out StatusResponse
	err := c.requestNoAuth(ctx, http.MethodPost, "/auth/reset-password",
		map[string]string{"email": email, "token": token, "newPassword": newPassword}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
