package documents

import (
	"time"

	"investor-backend/internal/extract"
)

// Document is an uploaded file. StoragePath never changes after creation;
// Extracted is written at most once by the extraction task.
type Document struct {
	ID          string
	CompanyID   *string
	FileName    string
	StoragePath string
	MimeType    string
	SizeBytes   int64
	Checksum    string
	Extracted   *extract.Result
	ExtractedAt *time.Time
	CreatedAt   time.Time
}

// Pending reports whether extraction has not produced content yet.
func (d Document) Pending() bool {
	return d.Extracted == nil
}
