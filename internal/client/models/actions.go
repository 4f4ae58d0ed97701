package models

// Action is a user-triggerable escrow operation.
type Action string

const (
	ActionRelease        Action = "release"
	ActionRefund         Action = "refund"
	ActionDispute        Action = "dispute"
	ActionSubmitProof    Action = "submit-proof"
	ActionConfirmReceipt Action = "confirm-receipt"
)

// ActionSet lists which operations the viewer may take on an escrow.
// It is derived state: recompute it from a live escrow on every use,
// never cache it across mutations.
type ActionSet struct {
	Release        bool
	Refund         bool
	Dispute        bool
	SubmitProof    bool
	ConfirmReceipt bool
}

// Allowed reports whether a given action is in the set.
func (s ActionSet) Allowed(a Action) bool {
	switch a {
	case ActionRelease:
		return s.Release
	case ActionRefund:
		return s.Refund
	case ActionDispute:
		return s.Dispute
	case ActionSubmitProof:
		return s.SubmitProof
	case ActionConfirmReceipt:
		return s.ConfirmReceipt
	}
	return false
}

// List returns the allowed actions in display order.
func (s ActionSet) List() []Action {
	var out []Action
	for _, a := range []Action{ActionRelease, ActionRefund, ActionDispute, ActionSubmitProof, ActionConfirmReceipt} {
		if s.Allowed(a) {
			out = append(out, a)
		}
	}
	return out
}

// PermittedActions maps (escrow status, viewer role) to the set of legal
// actions:
//
//	release funds:   status in {funded, disputed}, buyer or arbiter
//	refund buyer:    status in {funded, disputed}, seller or arbiter
//	raise dispute:   status in {pending, funded}, buyer or seller
//	submit proof:    status in {pending, funded}, seller, no proof yet
//	confirm receipt: status in {pending, funded}, buyer, not yet confirmed
//
// This only hides actions the backend would reject; the backend and the
// contract remain authoritative.
func PermittedActions(e *Escrow, viewerID string) ActionSet {
	isBuyer := e.IsBuyer(viewerID)
	isSeller := e.IsSeller(viewerID)
	isArbiter := e.IsArbiter(viewerID)

	active := e.Status == StatusFunded || e.Status == StatusDisputed
	open := e.Status == StatusPending || e.Status == StatusFunded

	return ActionSet{
		Release:        active && (isBuyer || isArbiter),
		Refund:         active && (isSeller || isArbiter),
		Dispute:        open && (isBuyer || isSeller),
		SubmitProof:    open && isSeller && e.ProofURI == "",
		ConfirmReceipt: open && isBuyer && !e.ReceiptConfirmed,
	}
}
