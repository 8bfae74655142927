package documents

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"investor-backend/internal/extract"
	"investor-backend/internal/shared/storage/db"
)

// PGRepo implements DocumentsRepo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const documentColumns = `id, company_id, file_name, storage_path, mime_type, size_bytes, checksum, extracted_json, extracted_at, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

// Create inserts a new document.
func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO documents (
    id,
    company_id,
    file_name,
    storage_path,
    mime_type,
    size_bytes,
    checksum,
    extracted_json,
    extracted_at,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, NULL, NULL, $8)`

	var companyID sql.NullString
	if doc.CompanyID != nil {
		companyID = sql.NullString{String: *doc.CompanyID, Valid: true}
	}
	var checksum sql.NullString
	if doc.Checksum != "" {
		checksum = sql.NullString{String: doc.Checksum, Valid: true}
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		doc.ID,
		companyID,
		doc.FileName,
		doc.StoragePath,
		doc.MimeType,
		doc.SizeBytes,
		checksum,
		doc.CreatedAt,
	)
	if db.IsForeignKeyViolation(err) {
		return ErrCompanyNotFound
	}
	if db.IsInvalidTextRepresentation(err) && doc.CompanyID != nil {
		return ErrCompanyNotFound
	}
	return err
}

// GetByID fetches a document by ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Document, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = $1`, id)
	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || db.IsInvalidTextRepresentation(err) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

// UpdateExtraction stores the extracted content unless the document already has some.
func (r *PGRepo) UpdateExtraction(ctx context.Context, id string, result extract.Result, extractedAt time.Time) (bool, error) {
	payload, err := json.Marshal(result)
	if err != nil {
		return false, fmt.Errorf("encode extracted content: %w", err)
	}
	const query = `
UPDATE documents
SET extracted_json = $1, extracted_at = $2
WHERE id = $3 AND extracted_json IS NULL`
	res, err := r.DB.ExecContext(ctx, query, payload, extractedAt, id)
	if err != nil {
		if db.IsInvalidTextRepresentation(err) {
			return false, nil
		}
		return false, err
	}
	updated, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return updated > 0, nil
}

// ListByCompany lists documents of a company ordered newest-first.
func (r *PGRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]Document, error) {
	limit, offset = normalizePage(limit, offset)
	const query = `SELECT ` + documentColumns + `
FROM documents
WHERE company_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

func scanDocument(row rowScanner) (Document, error) {
	var doc Document
	var companyID sql.NullString
	var checksum sql.NullString
	var extracted []byte
	var extractedAt sql.NullTime
	if err := row.Scan(
		&doc.ID,
		&companyID,
		&doc.FileName,
		&doc.StoragePath,
		&doc.MimeType,
		&doc.SizeBytes,
		&checksum,
		&extracted,
		&extractedAt,
		&doc.CreatedAt,
	); err != nil {
		return Document{}, err
	}
	if companyID.Valid {
		id := companyID.String
		doc.CompanyID = &id
	}
	doc.Checksum = checksum.String
	if len(extracted) > 0 {
		var res extract.Result
		if err := json.Unmarshal(extracted, &res); err != nil {
			return Document{}, fmt.Errorf("document %s: %w", doc.ID, err)
		}
		doc.Extracted = &res
	}
	if extractedAt.Valid {
		doc.ExtractedAt = &extractedAt.Time
	}
	return doc, nil
}

var _ DocumentsRepo = (*PGRepo)(nil)
