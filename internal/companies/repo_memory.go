package companies

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu       sync.RWMutex
	data     map[string]Company
	founders map[string][]Founder // companyID -> founders
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data:     make(map[string]Company),
		founders: make(map[string][]Founder),
	}
}

// List returns every company ordered by name.
func (r *MemoryRepo) List(ctx context.Context) ([]Company, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]Company, 0, len(r.data))
	for _, c := range r.data {
		out = append(out, c)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// GetByID returns a company by ID.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Company, error) {
	if err := ctx.Err(); err != nil {
		return Company{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.data[id]
	if !ok {
		return Company{}, ErrNotFound
	}
	return c, nil
}

// GetBySlug returns a company by slug.
func (r *MemoryRepo) GetBySlug(ctx context.Context, slug string) (Company, error) {
	if err := ctx.Err(); err != nil {
		return Company{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.data {
		if c.Slug != "" && c.Slug == slug {
			return c, nil
		}
	}
	return Company{}, ErrNotFound
}

// Create stores a new company.
func (r *MemoryRepo) Create(ctx context.Context, company Company) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[company.ID]; ok {
		return ErrConflict
	}
	for _, c := range r.data {
		if company.Slug != "" && c.Slug == company.Slug {
			return ErrConflict
		}
	}
	r.data[company.ID] = company
	return nil
}

// CreateFounder attaches a founder to an existing company.
func (r *MemoryRepo) CreateFounder(ctx context.Context, founder Founder) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[founder.CompanyID]; !ok {
		return ErrNotFound
	}
	r.founders[founder.CompanyID] = append(r.founders[founder.CompanyID], founder)
	return nil
}

// ListFounders returns the founders of a company, CEO first.
func (r *MemoryRepo) ListFounders(ctx context.Context, companyID string) ([]Founder, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Founder, len(r.founders[companyID]))
	copy(out, r.founders[companyID])
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsCEO != out[j].IsCEO {
			return out[i].IsCEO
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

var _ Repo = (*MemoryRepo)(nil)
