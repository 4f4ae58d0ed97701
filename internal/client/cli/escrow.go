package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/escrowdeck/internal/client/api"
	"github.com/dmitrijs2005/escrowdeck/internal/client/models"
	"github.com/dmitrijs2005/escrowdeck/internal/client/services"
)

// List shows one page of escrows: list [status] [page]. A trailing "!"
// on the status forces a refresh past the cache ("funded!" re-fetches).
func (a *App) List(ctx context.Context, args []string) error {
	params := api.ListEscrowsParams{Page: 1, Limit: 10, SortBy: "createdAt", SortOrder: "desc"}
	forceRefresh := false

	if len(args) > 0 {
		status := args[0]
		if strings.HasSuffix(status, "!") {
			forceRefresh = true
			status = strings.TrimSuffix(status, "!")
		}
		if status != "" && status != "all" {
			params.Status = status
		}
	}
	if len(args) > 1 {
		page, err := strconv.Atoi(args[1])
		if err != nil || page < 1 {
			return fmt.Errorf("invalid page %q", args[1])
		}
		params.Page = page
	}

	page, err := a.escrows.List(ctx, params, forceRefresh)
	if err != nil {
		return err
	}
	printPage(page)
	return nil
}

// Show prints one escrow with its permitted actions and proof record.
func (a *App) Show(ctx context.Context, args []string) error {
	e, err := a.findEscrowArg(ctx, args, "show")
	if err != nil {
		return err
	}

	printEscrow(e)

	actions := a.escrows.PermittedActions(e)
	if list := actions.List(); len(list) > 0 {
		names := make([]string, len(list))
		for i, action := range list {
			names[i] = string(action)
		}
		printlnFn("Available actions:", strings.Join(names, ", "))
	}

	if e.ProofURI != "" {
		if proof, err := a.escrows.Proof(ctx, e.EscrowID); err == nil {
			printlnFn(fmt.Sprintf("Proof: %s (by %s at %s)", proof.ProofURI, proof.SubmittedBy.DisplayName, proof.SubmittedAt))
		}
	}
	return nil
}

// Create prompts for the escrow creation form.
func (a *App) Create(ctx context.Context) error {
	buyer, err := getSimpleText(a.reader, "Buyer wallet address", os.Stdout)
	if err != nil {
		return err
	}
	seller, err := getSimpleText(a.reader, "Seller wallet address", os.Stdout)
	if err != nil {
		return err
	}
	amount, err := getSimpleText(a.reader, "Amount (e.g. 1.5)", os.Stdout)
	if err != nil {
		return err
	}
	token, err := getSimpleText(a.reader, "Token address (empty for ETH)", os.Stdout)
	if err != nil {
		return err
	}
	description, err := getMultiline(a.reader, "Description", os.Stdout)
	if err != nil {
		return err
	}

	e, err := a.escrows.Create(ctx, services.CreateEscrowInput{
		Buyer:       buyer,
		Seller:      seller,
		Amount:      amount,
		Token:       token,
		Description: description,
	})
	if err != nil {
		return err
	}
	printlnFn("Escrow created with id", e.EscrowID)
	return nil
}

// Release releases escrowed funds to the seller.
func (a *App) Release(ctx context.Context, args []string) error {
	e, err := a.findEscrowArg(ctx, args, "release")
	if err != nil {
		return err
	}
	if err := a.escrows.Release(ctx, e); err != nil {
		return err
	}
	printlnFn("Funds released for escrow", e.EscrowID)
	return nil
}

// Refund returns escrowed funds to the buyer.
func (a *App) Refund(ctx context.Context, args []string) error {
	e, err := a.findEscrowArg(ctx, args, "refund")
	if err != nil {
		return err
	}
	if err := a.escrows.Refund(ctx, e); err != nil {
		return err
	}
	printlnFn("Buyer refunded for escrow", e.EscrowID)
	return nil
}

// Dispute opens a dispute, prompting for a reason.
func (a *App) Dispute(ctx context.Context, args []string) error {
	e, err := a.findEscrowArg(ctx, args, "dispute")
	if err != nil {
		return err
	}
	reason, err := getMultiline(a.reader, "Dispute reason", os.Stdout)
	if err != nil {
		return err
	}
	if err := a.escrows.Dispute(ctx, e, reason); err != nil {
		return err
	}
	printlnFn("Dispute raised for escrow", e.EscrowID)
	return nil
}

// SubmitProof attaches a proof reference: submit-proof <id> [file].
// With a file argument the document is uploaded to proof storage first;
// otherwise a URI is prompted for.
func (a *App) SubmitProof(ctx context.Context, args []string) error {
	e, err := a.findEscrowArg(ctx, args, "submit-proof")
	if err != nil {
		return err
	}

	var proofURI string
	if len(args) > 1 {
		if a.uploader == nil {
			return fmt.Errorf("proof storage is not configured, provide a URI instead")
		}
		proofURI, err = a.uploader.Upload(ctx, args[1])
		if err != nil {
			return err
		}
		printlnFn("Uploaded:", proofURI)
	} else {
		proofURI, err = getSimpleText(a.reader, "Proof URI", os.Stdout)
		if err != nil {
			return err
		}
	}

	description, err := getMultiline(a.reader, "Description", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.escrows.SubmitProof(ctx, e, proofURI, description); err != nil {
		return err
	}
	printlnFn("Proof submitted for escrow", e.EscrowID)
	return nil
}

// ConfirmReceipt runs the two-phase receipt confirmation.
func (a *App) ConfirmReceipt(ctx context.Context, args []string) error {
	e, err := a.findEscrowArg(ctx, args, "confirm-receipt")
	if err != nil {
		return err
	}

	printlnFn("Submitting confirmation on chain, check your signer...")
	result, err := a.escrows.ConfirmReceipt(ctx, e)
	if err != nil {
		if result != nil && result.TransactionHash != "" {
			printlnFn("Chain transaction succeeded:", result.TransactionHash)
		}
		return err
	}
	printlnFn("Receipt confirmed, tx", result.TransactionHash)
	return nil
}

// ResubmitReceipt replays the backend notification for an already mined
// confirmation: resubmit-receipt <id> <txhash>.
func (a *App) ResubmitReceipt(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: resubmit-receipt <id> <txhash>")
	}
	escrowID, err := parseEscrowID(args[0])
	if err != nil {
		return err
	}
	if err := a.escrows.ResubmitReceipt(ctx, escrowID, args[1]); err != nil {
		return err
	}
	printlnFn("Receipt notification resubmitted for escrow", escrowID)
	return nil
}

// findEscrowArg resolves the numeric escrow id in args[0].
func (a *App) findEscrowArg(ctx context.Context, args []string, usage string) (*models.Escrow, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("usage: %s <id>", usage)
	}
	escrowID, err := parseEscrowID(args[0])
	if err != nil {
		return nil, err
	}
	return a.escrows.Find(ctx, escrowID)
}

func parseEscrowID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 0 {
		return 0, fmt.Errorf("invalid escrow id %q", s)
	}
	return id, nil
}
