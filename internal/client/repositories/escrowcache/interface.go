// Package escrowcache is the local read cache for escrow pages and proof
// records. Entries are whole JSON documents keyed by query shape; staleness
// is handled by age-bounded reads plus explicit invalidation after every
// mutating action.
package escrowcache

import (
	"context"
	"time"

	"github.com/dmitrijs2005/escrowdeck/internal/client/models"
)

// Repository stores cached backend reads.
type Repository interface {
	// GetPage returns the cached page for key if present and not older
	// than maxAge. The second result reports a cache hit.
	GetPage(ctx context.Context, key string, maxAge time.Duration) (*models.EscrowPage, bool, error)
	PutPage(ctx context.Context, key string, page *models.EscrowPage) error
	// InvalidatePages drops every cached page. Mutations change an unknown
	// set of pages, so the whole collection goes.
	InvalidatePages(ctx context.Context) error

	GetProof(ctx context.Context, escrowID int64, maxAge time.Duration) (*models.Proof, bool, error)
	PutProof(ctx context.Context, escrowID int64, proof *models.Proof) error
	InvalidateProofs(ctx context.Context, escrowID int64) error

	Clear(ctx context.Context) error
}
