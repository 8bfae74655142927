package companies

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"investor-backend/internal/shared/util"
)

// Service contains business logic for companies.
type Service struct {
	Repo Repo
}

// List returns all companies.
func (s *Service) List(ctx context.Context) ([]Company, error) {
	return s.Repo.List(ctx)
}

// Get returns one company.
func (s *Service) Get(ctx context.Context, id string) (Company, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Company{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, id)
}

// Exists reports whether the company is present. Used by the upload pipeline.
func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	_, err := s.Get(ctx, id)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return false, err
}

// Create validates and stores a new company. A missing slug is derived from the name.
func (s *Service) Create(ctx context.Context, in Company) (Company, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return Company{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if in.EmployeesCount != nil && *in.EmployeesCount < 0 {
		return Company{}, fmt.Errorf("%w: employeesCount must not be negative", ErrInvalidInput)
	}
	in.Slug = strings.TrimSpace(in.Slug)
	if in.Slug == "" {
		in.Slug = util.Slugify(in.Name)
	}
	in.ID = uuid.NewString()
	in.CreatedAt = time.Now().UTC()

	if err := s.Repo.Create(ctx, in); err != nil {
		return Company{}, err
	}
	return in, nil
}

// AddFounder attaches a founder to a company.
func (s *Service) AddFounder(ctx context.Context, companyID string, in Founder) (Founder, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return Founder{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if _, err := s.Get(ctx, companyID); err != nil {
		return Founder{}, err
	}
	in.ID = uuid.NewString()
	in.CompanyID = companyID
	if err := s.Repo.CreateFounder(ctx, in); err != nil {
		return Founder{}, err
	}
	return in, nil
}

// Founders lists the founders of an existing company.
func (s *Service) Founders(ctx context.Context, companyID string) ([]Founder, error) {
	if _, err := s.Get(ctx, companyID); err != nil {
		return nil, err
	}
	return s.Repo.ListFounders(ctx, companyID)
}
