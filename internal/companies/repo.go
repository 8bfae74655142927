package companies

import "context"

// Repo defines persistence operations for companies and their founders.
type Repo interface {
	List(ctx context.Context) ([]Company, error)
	GetByID(ctx context.Context, id string) (Company, error)
	GetBySlug(ctx context.Context, slug string) (Company, error)
	Create(ctx context.Context, company Company) error
	CreateFounder(ctx context.Context, founder Founder) error
	ListFounders(ctx context.Context, companyID string) ([]Founder, error)
}
