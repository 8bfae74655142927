package companies

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestPGRepoGetByIDMapsNoRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectQuery("SELECT (.+) FROM companies WHERE id = \\$1").
		WithArgs("c-1").
		WillReturnError(sql.ErrNoRows)

	repo := &PGRepo{DB: db}
	if _, err := repo.GetByID(context.Background(), "c-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDScansNullableColumns(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "name", "slug", "description", "sector", "stage", "founded_date", "employees_count", "website", "location", "created_at"}).
		AddRow("c-1", "Test Startup", "test-startup", nil, "fintech", nil, nil, int64(7), nil, nil, created)
	mock.ExpectQuery("SELECT (.+) FROM companies WHERE id = \\$1").WithArgs("c-1").WillReturnRows(rows)

	repo := &PGRepo{DB: db}
	c, err := repo.GetByID(context.Background(), "c-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if c.Slug != "test-startup" || c.Sector != "fintech" || c.Description != "" {
		t.Fatalf("unexpected company %+v", c)
	}
	if c.EmployeesCount == nil || *c.EmployeesCount != 7 {
		t.Fatalf("unexpected employees %v", c.EmployeesCount)
	}
	if c.FoundedDate != nil {
		t.Fatalf("expected nil founded date")
	}
}

func TestPGRepoCreateMapsUniqueViolation(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	company := Company{ID: "c-1", Name: "Acme", Slug: "acme", CreatedAt: time.Now().UTC()}
	mock.ExpectExec("INSERT INTO companies").
		WithArgs(company.ID, company.Name, "acme", nil, nil, nil, nil, nil, nil, nil, sqlmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	repo := &PGRepo{DB: db}
	if err := repo.Create(context.Background(), company); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCreateFounderMapsForeignKeyViolation(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectExec("INSERT INTO founders").
		WillReturnError(&pgconn.PgError{Code: "23503"})

	repo := &PGRepo{DB: db}
	err = repo.CreateFounder(context.Background(), Founder{ID: "f-1", CompanyID: "missing", Name: "Zoe"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoMalformedIDIsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	invalid := &pgconn.PgError{Code: "22P02", Message: `invalid input syntax for type uuid: "abc"`}
	mock.ExpectQuery("SELECT (.+) FROM companies WHERE id = \\$1").WithArgs("abc").WillReturnError(invalid)
	mock.ExpectQuery("SELECT (.+) FROM companies WHERE id = \\$1").WithArgs("abc").WillReturnError(invalid)
	mock.ExpectQuery("SELECT (.+) FROM founders").WithArgs("abc").WillReturnError(invalid)

	svc := &Service{Repo: &PGRepo{DB: db}}
	if _, err := svc.Get(context.Background(), "abc"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	exists, err := svc.Exists(context.Background(), "abc")
	if err != nil || exists {
		t.Fatalf("expected (false, nil), got (%v, %v)", exists, err)
	}
	if _, err := svc.Repo.ListFounders(context.Background(), "abc"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound from ListFounders, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
