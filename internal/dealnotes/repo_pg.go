package dealnotes

import (
	"context"
	"database/sql"

	"investor-backend/internal/shared/storage/db"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const noteColumns = `id, company_id, document_id, summary, content, score, model_version, generated_by, created_at`

// Create inserts a note.
func (r *PGRepo) Create(ctx context.Context, note DealNote) error {
	const query = `
INSERT INTO deal_notes (
    id,
    company_id,
    document_id,
    summary,
    content,
    score,
    model_version,
    generated_by,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	var score sql.NullFloat64
	if note.Score != nil {
		score = sql.NullFloat64{Float64: *note.Score, Valid: true}
	}
	_, err := r.DB.ExecContext(
		ctx,
		query,
		note.ID,
		nullStringPtr(note.CompanyID),
		nullStringPtr(note.DocumentID),
		note.Summary,
		note.Content,
		score,
		nullStringPtr(note.ModelVersion),
		nullStringPtr(note.GeneratedBy),
		note.CreatedAt,
	)
	if db.IsForeignKeyViolation(err) {
		return ErrCompanyNotFound
	}
	return err
}

// ListByCompany returns notes for a company, newest first.
func (r *PGRepo) ListByCompany(ctx context.Context, companyID string) ([]DealNote, error) {
	const query = `SELECT ` + noteColumns + `
FROM deal_notes
WHERE company_id = $1
ORDER BY created_at DESC`
	return r.query(ctx, query, companyID)
}

// ListUnlinked returns notes that are not attached to a company, newest first.
func (r *PGRepo) ListUnlinked(ctx context.Context, limit int) ([]DealNote, error) {
	if limit <= 0 {
		limit = 50
	}
	const query = `SELECT ` + noteColumns + `
FROM deal_notes
WHERE company_id IS NULL
ORDER BY created_at DESC
LIMIT $1`
	return r.query(ctx, query, limit)
}

func (r *PGRepo) query(ctx context.Context, query string, args ...any) ([]DealNote, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []DealNote{}
	for rows.Next() {
		var n DealNote
		var companyID, documentID, summary, content, modelVersion, generatedBy sql.NullString
		var score sql.NullFloat64
		if err := rows.Scan(
			&n.ID,
			&companyID,
			&documentID,
			&summary,
			&content,
			&score,
			&modelVersion,
			&generatedBy,
			&n.CreatedAt,
		); err != nil {
			return nil, err
		}
		n.CompanyID = stringPtr(companyID)
		n.DocumentID = stringPtr(documentID)
		n.Summary = summary.String
		n.Content = content.String
		n.ModelVersion = stringPtr(modelVersion)
		n.GeneratedBy = stringPtr(generatedBy)
		if score.Valid {
			n.Score = &score.Float64
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func nullStringPtr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

var _ Repo = (*PGRepo)(nil)
