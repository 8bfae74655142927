package documents

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func seedCompanyDocs(t *testing.T, repo *MemoryRepo, companyID string, n int) {
	t.Helper()
	base := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		company := companyID
		doc := Document{
			ID:        fmt.Sprintf("doc-%03d", i),
			CompanyID: &company,
			FileName:  fmt.Sprintf("memo-%d.txt", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := repo.Create(context.Background(), doc); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
}

func TestMemoryRepoListByCompanyPaging(t *testing.T) {
	repo := NewMemoryRepo()
	seedCompanyDocs(t, repo, "acme", 130)

	cases := []struct {
		name          string
		limit, offset int
		wantLen       int
		wantFirst     string
	}{
		{name: "zero limit uses default page", limit: 0, offset: 0, wantLen: 20, wantFirst: "doc-129"},
		{name: "negative limit uses default page", limit: -3, offset: 0, wantLen: 20, wantFirst: "doc-129"},
		{name: "oversized limit is capped", limit: 1000, offset: -5, wantLen: 100, wantFirst: "doc-129"},
		{name: "offset near the end", limit: 0, offset: 120, wantLen: 10, wantFirst: "doc-009"},
		{name: "offset past the end", limit: 10, offset: 500, wantLen: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			docs, err := repo.ListByCompany(context.Background(), "acme", tc.limit, tc.offset)
			if err != nil {
				t.Fatalf("ListByCompany: %v", err)
			}
			if len(docs) != tc.wantLen {
				t.Fatalf("expected %d documents, got %d", tc.wantLen, len(docs))
			}
			if tc.wantLen > 0 && docs[0].ID != tc.wantFirst {
				t.Fatalf("expected %s first, got %s", tc.wantFirst, docs[0].ID)
			}
		})
	}
}

func TestNormalizePageMatchesAcrossBackends(t *testing.T) {
	if limit, offset := normalizePage(0, -1); limit != defaultPageSize || offset != 0 {
		t.Fatalf("unexpected page (%d, %d)", limit, offset)
	}
	if limit, _ := normalizePage(maxPageSize+1, 0); limit != maxPageSize {
		t.Fatalf("expected cap %d, got %d", maxPageSize, limit)
	}
}
