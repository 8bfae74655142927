package documents

import (
	"time"

	"investor-backend/internal/extract"
)

// UploadResponse is returned after a successful upload.
type UploadResponse struct {
	ID          string `json:"id"`
	StoragePath string `json:"storagePath"`
}

// DocumentResponse is the outward-facing representation of a document.
type DocumentResponse struct {
	ID          string          `json:"id"`
	CompanyID   *string         `json:"companyId"`
	FileName    string          `json:"fileName"`
	StoragePath string          `json:"storagePath"`
	MimeType    string          `json:"mimeType"`
	SizeBytes   int64           `json:"sizeBytes"`
	Checksum    string          `json:"checksum,omitempty"`
	Status      string          `json:"status"`
	Extracted   *extract.Result `json:"extracted"`
	ExtractedAt *time.Time      `json:"extractedAt,omitempty"`
	UploadedAt  time.Time       `json:"uploadedAt"`
}

const (
	statusPending   = "pending"
	statusExtracted = "extracted"
)

func toResponse(doc Document) DocumentResponse {
	status := statusExtracted
	if doc.Pending() {
		status = statusPending
	}
	return DocumentResponse{
		ID:          doc.ID,
		CompanyID:   doc.CompanyID,
		FileName:    doc.FileName,
		StoragePath: doc.StoragePath,
		MimeType:    doc.MimeType,
		SizeBytes:   doc.SizeBytes,
		Checksum:    doc.Checksum,
		Status:      status,
		Extracted:   doc.Extracted,
		ExtractedAt: doc.ExtractedAt,
		UploadedAt:  doc.CreatedAt,
	}
}
