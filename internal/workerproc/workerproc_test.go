package workerproc

import (
	"context"
	"errors"
	"testing"

	"investor-backend/internal/scheduler"
)

func TestParseMessageErrors(t *testing.T) {
	if _, _, err := ParseMessage("   "); !errors.As(err, &ErrEmptyBody{}) {
		t.Fatalf("expected ErrEmptyBody, got %v", err)
	}

	_, meta, err := ParseMessage("{not json")
	var decodeErr ErrDecode
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
	if meta.BodyLen != len("{not json") || len(meta.BodySHA) != 64 {
		t.Fatalf("unexpected meta %+v", meta)
	}

	_, _, err = ParseMessage(`{"documentId":"doc-1","requestId":"r-1"}`)
	var missing ErrMissingDocumentID
	if !errors.As(err, &missing) {
		t.Fatalf("expected ErrMissingDocumentID, got %v", err)
	}
	if missing.RequestID != "r-1" {
		t.Fatalf("expected request id to be kept, got %q", missing.RequestID)
	}
}

func TestHandleMessageRunsHandlerOnce(t *testing.T) {
	var seen []scheduler.Task
	handler := func(ctx context.Context, task scheduler.Task) error {
		seen = append(seen, task)
		return nil
	}

	body := `{"documentId":"doc-1","storageLocator":"s3://b/k.pdf","fileName":"k.pdf","requestId":"r-1","enqueuedAt":"2026-01-30T22:00:00Z","version":1}`
	if err := HandleMessage(context.Background(), handler, body); err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if len(seen) != 1 {
		t.Fatalf("expected one call, got %d", len(seen))
	}
	task := seen[0]
	if task.DocumentID != "doc-1" || task.StorageLocator != "s3://b/k.pdf" || task.FileName != "k.pdf" || task.RequestID != "r-1" {
		t.Fatalf("unexpected task %+v", task)
	}
	if task.EnqueuedAt.IsZero() {
		t.Fatal("expected enqueued time to be parsed")
	}
}

func TestHandleMessageWrapsHandlerError(t *testing.T) {
	boom := errors.New("fetch failed")
	handler := func(ctx context.Context, task scheduler.Task) error { return boom }

	err := HandleMessage(context.Background(), handler, `{"documentId":"doc-1","storageLocator":"s3://b/k"}`)
	var procErr ErrProcess
	if !errors.As(err, &procErr) {
		t.Fatalf("expected ErrProcess, got %v", err)
	}
	if procErr.DocumentID != "doc-1" || !errors.Is(err, boom) {
		t.Fatalf("unexpected process error %+v", procErr)
	}
}
