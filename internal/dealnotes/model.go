package dealnotes

import "time"

// DealNote is a short summary record. A nil CompanyID marks the note as not yet triaged.
type DealNote struct {
	ID           string    `json:"id"`
	CompanyID    *string   `json:"companyId"`
	DocumentID   *string   `json:"documentId,omitempty"`
	Summary      string    `json:"summary"`
	Content      string    `json:"content"`
	Score        *float64  `json:"score"`
	ModelVersion *string   `json:"modelVersion,omitempty"`
	GeneratedBy  *string   `json:"generatedBy,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}
