// Package models defines the escrow dashboard's client-side data model:
// users, escrows, proofs, and the pure decision logic that derives which
// actions a viewer may take on an escrow.
package models

// AuthProvider identifies how an account authenticates.
type AuthProvider string

const (
	ProviderLocal    AuthProvider = "local"
	ProviderGoogle   AuthProvider = "google"
	ProviderGithub   AuthProvider = "github"
	ProviderMetamask AuthProvider = "metamask"
)

// User is the backend identity record cached client-side.
type User struct {
	ID            string       `json:"_id"`
	Email         string       `json:"email"`
	WalletAddress string       `json:"walletAddress,omitempty"`
	AuthProvider  AuthProvider `json:"authProvider"`
	IsVerified    bool         `json:"isVerified"`
	DisplayName   string       `json:"displayName"`
	ProfileImage  string       `json:"profileImage,omitempty"`
	Bio           string       `json:"bio,omitempty"`
	CreatedAt     string       `json:"createdAt,omitempty"`
	UpdatedAt     string       `json:"updatedAt,omitempty"`
}
