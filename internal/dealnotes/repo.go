package dealnotes

import "context"

// Repo defines persistence operations for deal notes. Notes are never updated.
type Repo interface {
	Create(ctx context.Context, note DealNote) error
	ListByCompany(ctx context.Context, companyID string) ([]DealNote, error)
	ListUnlinked(ctx context.Context, limit int) ([]DealNote, error)
}
