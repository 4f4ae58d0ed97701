package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/escrowdeck/internal/client/api"
	"github.com/dmitrijs2005/escrowdeck/internal/client/models"
	"github.com/dmitrijs2005/escrowdeck/internal/client/repositories/escrowcache"
	"github.com/dmitrijs2005/escrowdeck/internal/client/wallet"
	"github.com/dmitrijs2005/escrowdeck/internal/common"
	"github.com/dmitrijs2005/escrowdeck/internal/ethx"
	"github.com/dmitrijs2005/escrowdeck/internal/logging"
	"github.com/dmitrijs2005/escrowdeck/internal/validatex"
)

// EscrowAPI is the slice of the gateway used by EscrowService.
type EscrowAPI interface {
	ListEscrows(ctx context.Context, params api.ListEscrowsParams) (*models.EscrowPage, error)
	CreateEscrow(ctx context.Context, req api.CreateEscrowRequest) (*models.Escrow, error)
	ReleaseFunds(ctx context.Context, escrowID int64) error
	RefundBuyer(ctx context.Context, escrowID int64) error
	RaiseDispute(ctx context.Context, escrowID int64, reason string) error
	SubmitProof(ctx context.Context, escrowID int64, req api.SubmitProofRequest) error
	Proof(ctx context.Context, escrowID int64) (*models.Proof, error)
	ConfirmReceipt(ctx context.Context, escrowID int64, transactionHash string) error
}

// ReceiptConfirmer submits the on-chain receipt confirmation.
type ReceiptConfirmer interface {
	ConfirmReceipt(ctx context.Context, from string, escrowID int64) (*wallet.Receipt, error)
}

// SessionReader is the read-only session surface used for authorization
// decisions.
type SessionReader interface {
	User() *models.User
}

// EscrowService orchestrates escrow reads and actions: cached listing,
// client-side action gating, invalidation after every mutation, and the
// two-phase receipt confirmation.
type EscrowService struct {
	api      EscrowAPI
	cache    escrowcache.Repository
	wallet   WalletConnector
	contract ReceiptConfirmer
	session  SessionReader
	cacheTTL time.Duration
	log      logging.Logger
}

func NewEscrowService(a EscrowAPI, cache escrowcache.Repository, w WalletConnector, contract ReceiptConfirmer, session SessionReader, cacheTTL time.Duration, log logging.Logger) *EscrowService {
	return &EscrowService{
		api:      a,
		cache:    cache,
		wallet:   w,
		contract: contract,
		session:  session,
		cacheTTL: cacheTTL,
		log:      log.With("component", "escrow"),
	}
}

func (s *EscrowService) viewerID() string {
	if u := s.session.User(); u != nil {
		return u.ID
	}
	return ""
}

// PermittedActions derives the action set the current user may take on e.
func (s *EscrowService) PermittedActions(e *models.Escrow) models.ActionSet {
	return models.PermittedActions(e, s.viewerID())
}

func listCacheKey(params api.ListEscrowsParams) string {
	// url.Values.Encode sorts keys, so equal parameter sets produce equal
	// keys.
	return params.Values().Encode()
}

// List returns one page of escrows, served from the local cache when a
// fresh enough entry exists. forceRefresh bypasses the cache read but
// still stores the result.
func (s *EscrowService) List(ctx context.Context, params api.ListEscrowsParams, forceRefresh bool) (*models.EscrowPage, error) {
	key := listCacheKey(params)

	if !forceRefresh {
		page, hit, err := s.cache.GetPage(ctx, key, s.cacheTTL)
		if err != nil {
			s.log.Warn(ctx, "cache read failed", "error", err)
		} else if hit {
			return page, nil
		}
	}

	page, err := s.api.ListEscrows(ctx, params)
	if err != nil {
		return nil, err
	}
	if err := s.cache.PutPage(ctx, key, page); err != nil {
		s.log.Warn(ctx, "cache write failed", "error", err)
	}
	return page, nil
}

// Find locates an escrow by its on-chain id, scanning the paginated
// collection.
func (s *EscrowService) Find(ctx context.Context, escrowID int64) (*models.Escrow, error) {
	params := api.ListEscrowsParams{Page: 1, Limit: 50}
	for {
		page, err := s.List(ctx, params, false)
		if err != nil {
			return nil, err
		}
		for i := range page.Data {
			if page.Data[i].EscrowID == escrowID {
				return &page.Data[i], nil
			}
		}
		if !page.HasNextPage {
			return nil, fmt.Errorf("escrow %d: %w", escrowID, common.ErrNotFound)
		}
		params.Page++
	}
}

// CreateEscrowInput collects the creation form. Amount is a decimal
// string converted to base units before transmission.
type CreateEscrowInput struct {
	Buyer       string `validate:"required,eth_addr_hex"`
	Seller      string `validate:"required,eth_addr_hex"`
	Amount      string `validate:"required"`
	Token       string `validate:"omitempty,eth_addr_hex"`
	Description string `validate:"max=500"`
}

// Create validates the form and creates the escrow. All cached pages are
// invalidated.
func (s *EscrowService) Create(ctx context.Context, in CreateEscrowInput) (*models.Escrow, error) {
	if err := validatex.Struct(in); err != nil {
		return nil, err
	}

	baseAmount, err := ethx.ParseUnits(in.Amount, 18)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrValidation, err)
	}

	token := in.Token
	if token == "" {
		token = ethx.ZeroAddress
	}

	escrow, err := s.api.CreateEscrow(ctx, api.CreateEscrowRequest{
		Buyer:       in.Buyer,
		Seller:      in.Seller,
		Amount:      baseAmount,
		Token:       token,
		Description: in.Description,
	})
	if err != nil {
		return nil, err
	}

	s.invalidatePages(ctx)
	s.log.Info(ctx, "escrow created", "escrow_id", escrow.EscrowID)
	return escrow, nil
}

// Release releases escrowed funds to the seller.
func (s *EscrowService) Release(ctx context.Context, e *models.Escrow) error {
	if !s.PermittedActions(e).Release {
		return s.forbidden(e, models.ActionRelease)
	}
	if err := s.api.ReleaseFunds(ctx, e.EscrowID); err != nil {
		return err
	}
	s.invalidatePages(ctx)
	return nil
}

// Refund returns escrowed funds to the buyer.
func (s *EscrowService) Refund(ctx context.Context, e *models.Escrow) error {
	if !s.PermittedActions(e).Refund {
		return s.forbidden(e, models.ActionRefund)
	}
	if err := s.api.RefundBuyer(ctx, e.EscrowID); err != nil {
		return err
	}
	s.invalidatePages(ctx)
	return nil
}

// Dispute opens a dispute on the escrow.
func (s *EscrowService) Dispute(ctx context.Context, e *models.Escrow, reason string) error {
	if !s.PermittedActions(e).Dispute {
		return s.forbidden(e, models.ActionDispute)
	}
	if err := s.api.RaiseDispute(ctx, e.EscrowID, reason); err != nil {
		return err
	}
	s.invalidatePages(ctx)
	return nil
}

// SubmitProof attaches a proof-of-delivery reference to the escrow.
func (s *EscrowService) SubmitProof(ctx context.Context, e *models.Escrow, proofURI, description string) error {
	if !s.PermittedActions(e).SubmitProof {
		return s.forbidden(e, models.ActionSubmitProof)
	}
	if err := validatex.Var(proofURI, "required,uri"); err != nil {
		return err
	}
	if err := s.api.SubmitProof(ctx, e.EscrowID, api.SubmitProofRequest{ProofURI: proofURI, Description: description}); err != nil {
		return err
	}
	s.invalidatePages(ctx)
	s.invalidateProofs(ctx, e.EscrowID)
	return nil
}

// Proof returns the proof record for an escrow, cached like page reads.
func (s *EscrowService) Proof(ctx context.Context, escrowID int64) (*models.Proof, error) {
	proof, hit, err := s.cache.GetProof(ctx, escrowID, s.cacheTTL)
	if err != nil {
		s.log.Warn(ctx, "cache read failed", "error", err)
	} else if hit {
		return proof, nil
	}

	proof, err = s.api.Proof(ctx, escrowID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.PutProof(ctx, escrowID, proof); err != nil {
		s.log.Warn(ctx, "cache write failed", "error", err)
	}
	return proof, nil
}

// ConfirmReceiptResult reports the outcome of the two-phase confirmation.
type ConfirmReceiptResult struct {
	TransactionHash string
	BackendNotified bool
}

// ConfirmReceipt runs the two-phase receipt confirmation: submit the
// on-chain transaction, wait for it to be mined, then notify the backend
// with the transaction hash. The backend call happens only after chain
// success. If the notification fails after the chain succeeded, the
// result still carries the transaction hash so the caller can reconcile
// manually via ResubmitReceipt.
func (s *EscrowService) ConfirmReceipt(ctx context.Context, e *models.Escrow) (*ConfirmReceiptResult, error) {
	if !s.PermittedActions(e).ConfirmReceipt {
		return nil, s.forbidden(e, models.ActionConfirmReceipt)
	}

	account, err := s.wallet.Connect(ctx)
	if err != nil {
		return nil, err
	}

	receipt, err := s.contract.ConfirmReceipt(ctx, account, e.EscrowID)
	if err != nil {
		return nil, err
	}

	result := &ConfirmReceiptResult{TransactionHash: receipt.TransactionHash}

	if err := s.api.ConfirmReceipt(ctx, e.EscrowID, receipt.TransactionHash); err != nil {
		s.log.Error(ctx, "receipt confirmed on chain but backend notification failed",
			"escrow_id", e.EscrowID, "tx_hash", receipt.TransactionHash, "error", err)
		return result, fmt.Errorf("receipt confirmed on chain (tx %s) but backend notification failed: %w; run resubmit-receipt to reconcile",
			receipt.TransactionHash, err)
	}

	result.BackendNotified = true
	s.invalidatePages(ctx)
	s.invalidateProofs(ctx, e.EscrowID)
	s.log.Info(ctx, "receipt confirmed", "escrow_id", e.EscrowID, "tx_hash", receipt.TransactionHash)
	return result, nil
}

// ResubmitReceipt replays the backend notification for a receipt already
// confirmed on chain.
func (s *EscrowService) ResubmitReceipt(ctx context.Context, escrowID int64, transactionHash string) error {
	if err := validatex.Var(transactionHash, "required,startswith=0x"); err != nil {
		return err
	}
	if err := s.api.ConfirmReceipt(ctx, escrowID, transactionHash); err != nil {
		return err
	}
	s.invalidatePages(ctx)
	s.invalidateProofs(ctx, escrowID)
	return nil
}

func (s *EscrowService) forbidden(e *models.Escrow, action models.Action) error {
	return fmt.Errorf("%w: %s on escrow %d (status %s)", common.ErrActionForbidden, action, e.EscrowID, e.Status)
}

func (s *EscrowService) invalidatePages(ctx context.Context) {
	if err := s.cache.InvalidatePages(ctx); err != nil {
		s.log.Warn(ctx, "page invalidation failed", "error", err)
	}
}

func (s *EscrowService) invalidateProofs(ctx context.Context, escrowID int64) {
	if err := s.cache.InvalidateProofs(ctx, escrowID); err != nil {
		s.log.Warn(ctx, "proof invalidation failed", "error", err)
	}
}
