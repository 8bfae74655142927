package companies

import (
	"context"
	"database/sql"
	"errors"

	"investor-backend/internal/shared/storage/db"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const companyColumns = `id, name, slug, description, sector, stage, founded_date, employees_count, website, location, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCompany(row rowScanner) (Company, error) {
	var c Company
	var slug, description, sector, stage, website, location sql.NullString
	var founded sql.NullTime
	var employees sql.NullInt64
	if err := row.Scan(
		&c.ID,
		&c.Name,
		&slug,
		&description,
		&sector,
		&stage,
		&founded,
		&employees,
		&website,
		&location,
		&c.CreatedAt,
	); err != nil {
		return Company{}, err
	}
	c.Slug = slug.String
	c.Description = description.String
	c.Sector = sector.String
	c.Stage = stage.String
	c.Website = website.String
	c.Location = location.String
	if founded.Valid {
		c.FoundedDate = &founded.Time
	}
	if employees.Valid {
		n := int(employees.Int64)
		c.EmployeesCount = &n
	}
	return c, nil
}

// List returns every company ordered by name.
func (r *PGRepo) List(ctx context.Context) ([]Company, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+companyColumns+` FROM companies ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Company{}
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetByID fetches a company by ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Company, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = $1`, id)
	c, err := scanCompany(row)
	if err != nil {
		// A malformed id cannot name a row.
		if errors.Is(err, sql.ErrNoRows) || db.IsInvalidTextRepresentation(err) {
			return Company{}, ErrNotFound
		}
		return Company{}, err
	}
	return c, nil
}

// GetBySlug fetches a company by slug.
func (r *PGRepo) GetBySlug(ctx context.Context, slug string) (Company, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+companyColumns+` FROM companies WHERE slug = $1`, slug)
	c, err := scanCompany(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Company{}, ErrNotFound
		}
		return Company{}, err
	}
	return c, nil
}

// Create inserts a new company.
func (r *PGRepo) Create(ctx context.Context, company Company) error {
	const query = `
INSERT INTO companies (
    id,
    name,
    slug,
    description,
    sector,
    stage,
    founded_date,
    employees_count,
    website,
    location,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	var founded sql.NullTime
	if company.FoundedDate != nil {
		founded = sql.NullTime{Time: *company.FoundedDate, Valid: true}
	}
	var employees sql.NullInt64
	if company.EmployeesCount != nil {
		employees = sql.NullInt64{Int64: int64(*company.EmployeesCount), Valid: true}
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		company.ID,
		company.Name,
		nullString(company.Slug),
		nullString(company.Description),
		nullString(company.Sector),
		nullString(company.Stage),
		founded,
		employees,
		nullString(company.Website),
		nullString(company.Location),
		company.CreatedAt,
	)
	if db.IsUniqueViolation(err) {
		return ErrConflict
	}
	return err
}

// CreateFounder inserts a founder row.
func (r *PGRepo) CreateFounder(ctx context.Context, founder Founder) error {
	const query = `
INSERT INTO founders (id, company_id, name, role, linkedin, bio, is_ceo)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.DB.ExecContext(
		ctx,
		query,
		founder.ID,
		founder.CompanyID,
		founder.Name,
		nullString(founder.Role),
		nullString(founder.LinkedIn),
		nullString(founder.Bio),
		founder.IsCEO,
	)
	if db.IsForeignKeyViolation(err) || db.IsInvalidTextRepresentation(err) {
		return ErrNotFound
	}
	return err
}

// ListFounders lists the founders of a company.
func (r *PGRepo) ListFounders(ctx context.Context, companyID string) ([]Founder, error) {
	const query = `
SELECT id, company_id, name, role, linkedin, bio, is_ceo
FROM founders
WHERE company_id = $1
ORDER BY is_ceo DESC, name ASC`
	rows, err := r.DB.QueryContext(ctx, query, companyID)
	if err != nil {
		if db.IsInvalidTextRepresentation(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	defer rows.Close()

	out := []Founder{}
	for rows.Next() {
		var f Founder
		var role, linkedin, bio sql.NullString
		if err := rows.Scan(&f.ID, &f.CompanyID, &f.Name, &role, &linkedin, &bio, &f.IsCEO); err != nil {
			return nil, err
		}
		f.Role = role.String
		f.LinkedIn = linkedin.String
		f.Bio = bio.String
		out = append(out, f)
	}
	return out, rows.Err()
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

var _ Repo = (*PGRepo)(nil)
