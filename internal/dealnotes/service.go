package dealnotes

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CompanyChecker reports whether a company exists.
type CompanyChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// Service contains business logic for deal notes.
type Service struct {
	Repo      Repo
	Companies CompanyChecker
}

// Create validates and stores a new note, assigning its ID and timestamp.
func (s *Service) Create(ctx context.Context, note DealNote) (DealNote, error) {
	if strings.TrimSpace(note.Summary) == "" && strings.TrimSpace(note.Content) == "" {
		return DealNote{}, fmt.Errorf("%w: summary or content is required", ErrInvalidInput)
	}
	if note.Score != nil && (*note.Score < 0 || *note.Score > 100) {
		return DealNote{}, fmt.Errorf("%w: score must be within 0..100", ErrInvalidInput)
	}
	note.ID = uuid.NewString()
	note.CreatedAt = time.Now().UTC()
	if err := s.Repo.Create(ctx, note); err != nil {
		return DealNote{}, err
	}
	return note, nil
}

// ListByCompany returns the notes attached to a company.
func (s *Service) ListByCompany(ctx context.Context, companyID string) ([]DealNote, error) {
	if s.Companies != nil {
		ok, err := s.Companies.Exists(ctx, companyID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrCompanyNotFound
		}
	}
	return s.Repo.ListByCompany(ctx, companyID)
}

// ListUnlinked returns notes awaiting triage.
func (s *Service) ListUnlinked(ctx context.Context, limit int) ([]DealNote, error) {
	return s.Repo.ListUnlinked(ctx, limit)
}
