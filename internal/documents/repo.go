package documents

import (
	"context"
	"time"

	"investor-backend/internal/extract"
)

// DocumentsRepo defines persistence operations for documents.
type DocumentsRepo interface {
	Create(ctx context.Context, doc Document) error
	GetByID(ctx context.Context, id string) (Document, error)
	// UpdateExtraction stores extracted content once. It reports false when the
	// document is missing or already extracted; neither case is an error.
	UpdateExtraction(ctx context.Context, id string, result extract.Result, extractedAt time.Time) (bool, error)
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]Document, error)
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// normalizePage applies the listing defaults shared by every backend: a limit of zero or
// less means the default page size, larger limits are capped and negative offsets start at 0.
func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
