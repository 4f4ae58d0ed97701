package services

import (
	"context"

	"github.com/dmitrijs2005/escrowdeck/internal/client/api"
	"github.com/dmitrijs2005/escrowdeck/internal/client/models"
	"github.com/dmitrijs2005/escrowdeck/internal/logging"
	"github.com/dmitrijs2005/escrowdeck/internal/validatex"
)

// UserAPI is the slice of the gateway used by UserService.
type UserAPI interface {
	Users(ctx context.Context) ([]models.User, error)
	SearchUsers(ctx context.Context, term string) ([]models.User, error)
	UserSuggestions(ctx context.Context, limit int) ([]models.User, error)
	UpdateProfile(ctx context.Context, req api.UpdateProfileRequest) (*models.User, error)
}

// UserService exposes the user directory and profile updates.
type UserService struct {
	api     UserAPI
	session SessionWriter
	log     logging.Logger
}

func NewUserService(a UserAPI, session SessionWriter, log logging.Logger) *UserService {
	return &UserService{api: a, session: session, log: log.With("component", "users")}
}

// All lists every user.
func (s *UserService) All(ctx context.Context) ([]models.User, error) {
	return s.api.Users(ctx)
}

// Search finds users matching a term.
func (s *UserService) Search(ctx context.Context, term string) ([]models.User, error) {
	if err := validatex.Var(term, "required,min=1"); err != nil {
		return nil, err
	}
	return s.api.SearchUsers(ctx, term)
}

// Suggestions fetches counterparty suggestions for escrow creation.
func (s *UserService) Suggestions(ctx context.Context, limit int) ([]models.User, error) {
	return s.api.UserSuggestions(ctx, limit)
}

// UpdateProfileInput collects the mutable profile fields.
type UpdateProfileInput struct {
	DisplayName  string `validate:"omitempty,min=2,max=64"`
	Bio          string `validate:"max=500"`
	ProfileImage string `validate:"omitempty,uri"`
}

// UpdateProfile updates the profile and refreshes the cached session
// user.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	if err := validatex.Struct(in); err != nil {
		return nil, err
	}

	user, err := s.api.UpdateProfile(ctx, api.UpdateProfileRequest{
		DisplayName:  in.DisplayName,
		Bio:          in.Bio,
		ProfileImage: in.ProfileImage,
	})
	if err != nil {
		return nil, err
	}
	if err := s.session.SetUser(user); err != nil {
		return nil, err
	}
	s.log.Info(ctx, "profile updated", "user_id", user.ID)
	return user, nil
}
