package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/escrowdeck/internal/client/models"
)

// Profile fetches the authenticated user's profile.
func (c *Client) Profile(ctx context.Context) (*models.User, error) {
	var out models.User
	if err := c.request(ctx, http.MethodGet, "/users/profile", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfileRequest carries the mutable profile fields.
type UpdateProfileRequest struct {
	DisplayName  string `json:"displayName,omitempty"`
	Bio          string `json:"bio,omitempty"`
	ProfileImage string `json:"profileImage,omitempty"`
}

// UpdateProfile updates the authenticated user's profile.
func (c *Client) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*models.User, error) {
	var out models.User
	if err := c.request(ctx, http.MethodPut, "/users/profile", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Users lists all users.
func (c *Client) Users(ctx context.Context) ([]models.User, error) {
	var out []models.User
	if err := c.request(ctx, http.MethodGet, "/users", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchUsers searches users by the given term.
func (c *Client) SearchUsers(ctx context.Context, term string) ([]models.User, error) {
	q := url.Values{}
	q.Set("q", term)

	var out []models.User
	if err := c.request(ctx, http.MethodGet, "/users/searchAll", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UserSuggestions fetches counterparty suggestions for escrow creation.
func (c *Client) UserSuggestions(ctx context.Context, limit int) ([]models.User, error) {
	if limit <= 0 {
		limit = 20
	}
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))

	var out []models.User
	if err := c.request(ctx, http.MethodGet, "/users/suggestions", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
