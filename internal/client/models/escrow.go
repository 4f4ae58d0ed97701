package models

// Status is the escrow lifecycle state as reported by the backend.
type Status string

const (
	StatusPending   Status = "pending"
	StatusFunded    Status = "funded"
	StatusCompleted Status = "completed"
	StatusRefunded  Status = "refunded"
	StatusDisputed  Status = "disputed"
	StatusCancelled Status = "cancelled"
)

// transitions mirrors the contract's state machine. The backend is
// authoritative; the client uses this only to explain or hide actions.
var transitions = map[Status][]Status{
	StatusPending:  {StatusFunded, StatusDisputed, StatusCancelled},
	StatusFunded:   {StatusCompleted, StatusRefunded, StatusDisputed, StatusCancelled},
	StatusDisputed: {StatusCompleted, StatusRefunded},
}

// CanTransition reports whether moving from s to next is a legal
// lifecycle step.
func (s Status) CanTransition(next Status) bool {
	for _, n := range transitions[s] {
		if n == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions are possible.
func (s Status) Terminal() bool {
	return len(transitions[s]) == 0
}

// Party is one of the three escrow participants.
type Party struct {
	ID            string `json:"_id"`
	DisplayName   string `json:"displayName"`
	Email         string `json:"email"`
	WalletAddress string `json:"walletAddress,omitempty"`
}

// Escrow is the domain transaction record. The client holds a read-mostly
// cached copy invalidated after every mutating action.
type Escrow struct {
	ID                     string `json:"_id"`
	EscrowID               int64  `json:"escrowId"`
	Buyer                  Party  `json:"buyer"`
	Seller                 Party  `json:"seller"`
	Arbiter                Party  `json:"arbiter"`
	Amount                 string `json:"amount"` // base-unit integer string
	Token                  string `json:"token"`  // contract address, zero address = native asset
	Status                 Status `json:"status"`
	TransactionHash        string `json:"transactionHash,omitempty"`
	ReleaseTransactionHash string `json:"releaseTransactionHash,omitempty"`
	RefundTransactionHash  string `json:"refundTransactionHash,omitempty"`
	DisputeReason          string `json:"disputeReason,omitempty"`
	ProofURI               string `json:"proofURI,omitempty"`
	ProofSubmittedAt       string `json:"proofSubmittedAt,omitempty"`
	ReceiptConfirmed       bool   `json:"receiptConfirmed"`
	ReceiptConfirmedAt     string `json:"receiptConfirmedAt,omitempty"`
	CreatedAt              string `json:"createdAt"`
	UpdatedAt              string `json:"updatedAt"`
}

// Role predicates: each is an equality check of the viewer's id against
// the corresponding party id.

func (e *Escrow) IsBuyer(viewerID string) bool   { return viewerID != "" && e.Buyer.ID == viewerID }
func (e *Escrow) IsSeller(viewerID string) bool  { return viewerID != "" && e.Seller.ID == viewerID }
func (e *Escrow) IsArbiter(viewerID string) bool { return viewerID != "" && e.Arbiter.ID == viewerID }

// Proof is the 0-or-1 proof-of-delivery record attached to an escrow.
type Proof struct {
	ProofURI    string     `json:"proofURI"`
	EscrowID    int64      `json:"escrowId"`
	SubmittedBy ProofParty `json:"submittedBy"`
	SubmittedAt string     `json:"submittedAt"`
	Source      string     `json:"source,omitempty"`
}

type ProofParty struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

// EscrowPage is the paginated collection envelope returned by the backend.
type EscrowPage struct {
	Data            []Escrow `json:"data"`
	CurrentPage     int      `json:"currentPage"`
	TotalPages      int      `json:"totalPages"`
	TotalCount      int      `json:"totalCount"`
	HasNextPage     bool     `json:"hasNextPage"`
	HasPreviousPage bool     `json:"hasPreviousPage"`
}
