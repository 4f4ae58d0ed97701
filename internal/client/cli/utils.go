package cli

import (
	"fmt"

	"github.com/dmitrijs2005/escrowdeck/internal/client/models"
	"github.com/dmitrijs2005/escrowdeck/internal/ethx"
)

// shortAddress abbreviates a wallet address for prompts: 0x1234...abcd.
func shortAddress(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}

// displayAddress renders a wallet address in its EIP-55 mixed-case form,
// abbreviated for listings.
func displayAddress(addr string) string {
	if ethx.IsHexAddress(addr) {
		addr = ethx.ChecksumAddress(addr)
	}
	return shortAddress(addr)
}

func printPage(page *models.EscrowPage) {
	if len(page.Data) == 0 {
		printlnFn("No escrows found")
		return
	}

	for i := range page.Data {
		e := &page.Data[i]
		line := fmt.Sprintf("#%-5d %-10s %-14s buyer:%s seller:%s",
			e.EscrowID, e.Status, ethx.FormatEscrowAmount(e.Amount, e.Token),
			partyLabel(e.Buyer), partyLabel(e.Seller))
		if e.ReceiptConfirmed {
			line += " [receipt]"
		}
		if e.ProofURI != "" {
			line += " [proof]"
		}
		printlnFn(line)
	}

	printlnFn(fmt.Sprintf("Page %d/%d (%d total)", page.CurrentPage, page.TotalPages, page.TotalCount))
}

func printEscrow(e *models.Escrow) {
	printlnFn(fmt.Sprintf("Escrow #%d  %s", e.EscrowID, e.Status))
	printlnFn("Amount: ", ethx.FormatEscrowAmount(e.Amount, e.Token))
	printlnFn("Buyer:  ", partyLabel(e.Buyer))
	printlnFn("Seller: ", partyLabel(e.Seller))
	printlnFn("Arbiter:", partyLabel(e.Arbiter))
	if e.TransactionHash != "" {
		printlnFn("Funding tx:", e.TransactionHash)
	}
	if e.DisputeReason != "" {
		printlnFn("Dispute reason:", e.DisputeReason)
	}
	if e.ReceiptConfirmed {
		printlnFn("Receipt confirmed at", e.ReceiptConfirmedAt)
	}
	printlnFn("Created:", e.CreatedAt)
}

func partyLabel(p models.Party) string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	if p.Email != "" {
		return p.Email
	}
	return displayAddress(p.WalletAddress)
}

func printUsers(users []models.User) {
	if len(users) == 0 {
		printlnFn("No users found")
		return
	}
	for i := range users {
		u := &users[i]
		line := fmt.Sprintf("%-24s %s", u.DisplayName, u.Email)
		if u.WalletAddress != "" {
			line += " " + displayAddress(u.WalletAddress)
		}
		printlnFn(line)
	}
}
