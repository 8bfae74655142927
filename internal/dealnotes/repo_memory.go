package dealnotes

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu    sync.RWMutex
	notes []DealNote

	// CompanyExists, when set, enforces the company reference the way a foreign key would.
	CompanyExists func(ctx context.Context, id string) (bool, error)
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

// Create appends a note.
func (r *MemoryRepo) Create(ctx context.Context, note DealNote) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if note.CompanyID != nil && r.CompanyExists != nil {
		ok, err := r.CompanyExists(ctx, *note.CompanyID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrCompanyNotFound
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, note)
	return nil
}

// ListByCompany returns notes for a company, newest first.
func (r *MemoryRepo) ListByCompany(ctx context.Context, companyID string) ([]DealNote, error) {
	return r.filter(ctx, 0, func(n DealNote) bool {
		return n.CompanyID != nil && *n.CompanyID == companyID
	})
}

// ListUnlinked returns notes without a company, newest first.
func (r *MemoryRepo) ListUnlinked(ctx context.Context, limit int) ([]DealNote, error) {
	return r.filter(ctx, limit, func(n DealNote) bool { return n.CompanyID == nil })
}

func (r *MemoryRepo) filter(ctx context.Context, limit int, keep func(DealNote) bool) ([]DealNote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := []DealNote{}
	for _, n := range r.notes {
		if keep(n) {
			out = append(out, n)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

var _ Repo = (*MemoryRepo)(nil)
