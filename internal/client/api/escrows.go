package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/escrowdeck/internal/client/models"
)

// ListEscrowsParams filter and paginate the escrow collection.
type ListEscrowsParams struct {
	Status    string
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

// Values renders the parameters as a query string.
func (p ListEscrowsParams) Values() url.Values {
	q := url.Values{}
	if p.Status != "" {
		q.Set("status", p.Status)
	}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.SortBy != "" {
		q.Set("sortBy", p.SortBy)
	}
	if p.SortOrder != "" {
		q.Set("sortOrder", p.SortOrder)
	}
	return q
}

// CreateEscrowRequest creates a new escrow. Amount is a base-unit
// integer string.
type CreateEscrowRequest struct {
	Buyer       string `json:"buyer"`
	Seller      string `json:"seller"`
	Amount      string `json:"amount"`
	Token       string `json:"token"`
	Description string `json:"description,omitempty"`
}

// SubmitProofRequest attaches a proof-of-delivery reference.
type SubmitProofRequest struct {
	ProofURI    string `json:"proofURI"`
	Description string `json:"description,omitempty"`
}

// ListEscrows fetches one page of the escrow collection.
func (c *Client) ListEscrows(ctx context.Context, params ListEscrowsParams) (*models.EscrowPage, error) {
	var out models.EscrowPage
	if err := c.request(ctx, http.MethodGet, "/escrows", params.Values(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateEscrow creates an escrow between buyer and seller.
func (c *Client) CreateEscrow(ctx context.Context, req CreateEscrowRequest) (*models.Escrow, error) {
	var out models.Escrow
	if err := c.request(ctx, http.MethodPost, "/escrows", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ReleaseFunds releases escrowed funds to the seller.
func (c *Client) ReleaseFunds(ctx context.Context, escrowID int64) error {
	return c.request(ctx, http.MethodPost, fmt.Sprintf("/escrows/%d/release", escrowID), nil, struct{}{}, nil)
}

// RefundBuyer returns escrowed funds to the buyer.
func (c *Client) RefundBuyer(ctx context.Context, escrowID int64) error {
	return c.request(ctx, http.MethodPost, fmt.Sprintf("/escrows/%d/refund", escrowID), nil, struct{}{}, nil)
}

// RaiseDispute opens a dispute, optionally with a reason.
func (c *Client) RaiseDispute(ctx context.Context, escrowID int64, reason string) error {
	body := map[string]string{}
	if reason != "" {
		body["reason"] = reason
	}
	return c.request(ctx, http.MethodPost, fmt.Sprintf("/escrows/%d/dispute", escrowID), nil, body, nil)
}

// SubmitProof uploads the proof reference for an escrow.
func (c *Client) SubmitProof(ctx context.Context, escrowID int64, req SubmitProofRequest) error {
	return c.request(ctx, http.MethodPost, fmt.Sprintf("/escrows/%d/proof", escrowID), nil, req, nil)
}

// Proof fetches the proof record attached to an escrow.
func (c *Client) Proof(ctx context.Context, escrowID int64) (*models.Proof, error) {
	var out models.Proof
	if err := c.request(ctx, http.MethodGet, fmt.Sprintf("/escrows/%d/proof", escrowID), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ConfirmReceipt notifies the backend of an on-chain receipt
// confirmation. Only call after the chain transaction is confirmed.
func (c *Client) ConfirmReceipt(ctx context.Context, escrowID int64, transactionHash string) error {
	body := map[string]any{"escrowId": escrowID, "transactionHash": transactionHash}
	return c.request(ctx, http.MethodPost, "/escrows/receipt", nil, body, nil)
}
