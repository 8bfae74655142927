package documents

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"investor-backend/internal/dealnotes"
	"investor-backend/internal/extract"
	"investor-backend/internal/scheduler"
	"investor-backend/internal/shared/metrics"
	"investor-backend/internal/shared/storage/object"
	"investor-backend/internal/shared/telemetry"
	"investor-backend/internal/shared/util"
)

// GeneratedByExtraction tags deal notes synthesized from extracted text.
const GeneratedByExtraction = "document-extraction"

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeDOC  = "application/msword"
	mimeText = "text/plain"
)

var allowedMimeTypes = map[string]struct{}{
	mimePDF:  {},
	mimeDOCX: {},
	mimeDOC:  {},
	mimeText: {},
}

// PipelineConfig is the explicit configuration handed to the upload pipeline.
type PipelineConfig struct {
	Bucket            string
	KeyPrefix         string
	ExtractionTimeout time.Duration
	MaxObjectBytes    int64
}

// CompanyChecker reports whether a company exists.
type CompanyChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// NoteCreator persists synthesized deal notes.
type NoteCreator interface {
	Create(ctx context.Context, note dealnotes.DealNote) (dealnotes.DealNote, error)
}

// Service contains business logic for documents.
type Service struct {
	Store     object.ObjectStore
	Repo      DocumentsRepo
	Notes     NoteCreator
	Companies CompanyChecker
	Scheduler scheduler.Scheduler
	Config    PipelineConfig
}

// UploadInput is one file submitted for ingestion.
type UploadInput struct {
	FileName    string
	ContentType string
	CompanyID   string
	Body        io.Reader
}

// NormalizeContentType lowercases a media type and drops its parameters.
func NormalizeContentType(raw string) string {
	return strings.ToLower(strings.TrimSpace(strings.Split(raw, ";")[0]))
}

// Upload stores the file, records the document and schedules extraction, in that order.
// When scheduling fails the persisted document is returned along with ErrSchedulingFailed.
func (s *Service) Upload(ctx context.Context, in UploadInput) (Document, error) {
	contentType := NormalizeContentType(in.ContentType)
	if _, ok := allowedMimeTypes[contentType]; !ok {
		return Document{}, fmt.Errorf("%w: %s", ErrUnsupportedMediaType, in.ContentType)
	}
	bucket := strings.TrimSpace(s.Config.Bucket)
	if bucket == "" {
		return Document{}, ErrMisconfigured
	}
	if in.Body == nil {
		return Document{}, fmt.Errorf("%w: file is required", ErrInvalidInput)
	}
	fileName := strings.TrimSpace(in.FileName)
	safeName, err := util.SanitizeFileName(fileName)
	if err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var companyID *string
	if id := strings.TrimSpace(in.CompanyID); id != "" {
		if s.Companies != nil {
			ok, err := s.Companies.Exists(ctx, id)
			if err != nil {
				return Document{}, fmt.Errorf("check company: %w", err)
			}
			if !ok {
				return Document{}, ErrCompanyNotFound
			}
		}
		companyID = &id
	}

	key := object.ApplyPrefix(s.Config.KeyPrefix, strings.ReplaceAll(uuid.NewString(), "-", "")+"_"+safeName)
	hashed := util.NewHashingReader(in.Body)
	loc, size, err := s.Store.Put(ctx, bucket, key, contentType, hashed)
	if err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	doc := Document{
		ID:          uuid.NewString(),
		CompanyID:   companyID,
		FileName:    fileName,
		StoragePath: loc.String(),
		MimeType:    contentType,
		SizeBytes:   size,
		Checksum:    hashed.Sum(),
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, doc); err != nil {
		telemetry.Error("documents.record_failed", map[string]any{
			"locator":    doc.StoragePath,
			"request_id": requestIDFromContext(ctx),
			"error":      err.Error(),
		})
		if errors.Is(err, ErrCompanyNotFound) {
			return Document{}, err
		}
		return Document{}, fmt.Errorf("create document record: %w", err)
	}

	task := scheduler.Task{
		DocumentID:     doc.ID,
		StorageLocator: doc.StoragePath,
		FileName:       doc.FileName,
		RequestID:      requestIDFromContext(ctx),
		EnqueuedAt:     time.Now().UTC(),
	}
	if s.Scheduler == nil {
		return doc, fmt.Errorf("%w: no scheduler configured", ErrSchedulingFailed)
	}
	if err := s.Scheduler.Schedule(ctx, task); err != nil {
		telemetry.Error("documents.schedule_failed", map[string]any{
			"document_id": doc.ID,
			"request_id":  task.RequestID,
			"error":       err.Error(),
		})
		return doc, fmt.Errorf("%w: %v", ErrSchedulingFailed, err)
	}

	telemetry.Info("documents.uploaded", map[string]any{
		"document_id": doc.ID,
		"locator":     doc.StoragePath,
		"size_bytes":  doc.SizeBytes,
		"mime_type":   doc.MimeType,
		"request_id":  task.RequestID,
	})
	return doc, nil
}

// Get returns a document by ID.
func (s *Service) Get(ctx context.Context, id string) (Document, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Document{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, id)
}

// ListByCompany returns documents attached to a company.
func (s *Service) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]Document, error) {
	if s.Companies != nil {
		ok, err := s.Companies.Exists(ctx, companyID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrCompanyNotFound
		}
	}
	return s.Repo.ListByCompany(ctx, companyID, limit, offset)
}

// RunExtraction fetches the stored bytes, extracts text, records it on the document and
// synthesizes an unlinked deal note. A failure before the record update leaves the document pending.
// The record update and the note insert are independent writes.
func (s *Service) RunExtraction(ctx context.Context, task scheduler.Task) error {
	start := time.Now()
	metrics.IncExtractionStarted()
	ctx = WithRequestID(ctx, task.RequestID)
	if s.Config.ExtractionTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Config.ExtractionTimeout)
		defer cancel()
	}

	fields := map[string]any{
		"document_id": task.DocumentID,
		"locator":     task.StorageLocator,
		"file_name":   task.FileName,
	}
	if task.RequestID != "" {
		fields["request_id"] = task.RequestID
	}
	fail := func(stage string, err error) error {
		fields["stage"] = stage
		fields["error"] = err.Error()
		telemetry.Error("extraction.failed", fields)
		metrics.IncExtractionFailed()
		return fmt.Errorf("extraction %s document=%s: %w", stage, task.DocumentID, err)
	}

	loc, err := object.ParseLocator(task.StorageLocator)
	if err != nil {
		return fail("locator", err)
	}
	data, err := object.ReadAll(ctx, s.Store, loc, s.Config.MaxObjectBytes)
	if err != nil {
		return fail("fetch", err)
	}
	result, err := extract.Extract(ctx, data, task.FileName)
	if err != nil {
		return fail("extract", err)
	}

	updated, err := s.Repo.UpdateExtraction(ctx, task.DocumentID, result, time.Now().UTC())
	if err != nil {
		return fail("update", err)
	}
	if !updated {
		telemetry.Warn("extraction.record_unchanged", fields)
	}

	summary := extract.Summarize(result.Text)
	if extract.HasContent(summary) && s.Notes != nil {
		documentID := task.DocumentID
		generatedBy := GeneratedByExtraction
		note := dealnotes.DealNote{
			DocumentID:  &documentID,
			Summary:     summary,
			Content:     extract.Truncate(result.Text, extract.ContentRunes),
			GeneratedBy: &generatedBy,
		}
		if created, err := s.Notes.Create(ctx, note); err != nil {
			fields["note_error"] = err.Error()
			telemetry.Warn("extraction.note_failed", fields)
		} else {
			metrics.IncDealNotesCreated()
			fields["note_id"] = created.ID
		}
	}

	duration := time.Since(start)
	metrics.IncExtractionCompleted()
	metrics.ObserveExtractionDurationMs(float64(duration.Milliseconds()))
	fields["duration_ms"] = duration.Milliseconds()
	fields["text_len"] = len(result.Text)
	telemetry.Info("extraction.completed", fields)
	return nil
}
