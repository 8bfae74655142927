package documents_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"investor-backend/internal/bootstrap"
	"investor-backend/internal/shared/config"
)

func newApp(t *testing.T, mutate func(*config.Config)) *bootstrap.App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		Port:              "0",
		CORSAllowOrigin:   []string{"http://localhost:5173"},
		LocalStoreDir:     t.TempDir(),
		Env:               "dev",
		ObjectStoreType:   "local",
		StorageBucket:     "deal-docs",
		StoragePrefix:     "documents",
		WorkerConcurrency: 2,
		TaskQueueSize:     8,
		ExtractionTimeout: 5 * time.Second,
		MaxUploadBytes:    1 << 20,
		MaxObjectBytes:    1 << 20,
	}
	if mutate != nil {
		mutate(&cfg)
	}

	app, err := bootstrap.Build(cfg)
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = app.Shutdown(ctx)
	})
	return app
}

func multipartBody(t *testing.T, fileName, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+fileName+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func upload(t *testing.T, router http.Handler, target, fileName, contentType string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	body, formType := multipartBody(t, fileName, contentType, data)
	req := httptest.NewRequest(http.MethodPost, target, body)
	req.Header.Set("Content-Type", formType)
	req.Header.Set("X-Request-Id", "req-upload")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

type documentPayload struct {
	ID          string `json:"id"`
	StoragePath string `json:"storagePath"`
	Status      string `json:"status"`
	Extracted   *struct {
		Text      string `json:"text"`
		Extractor string `json:"extractor"`
	} `json:"extracted"`
}

func TestDocumentsUploadAndExtract(t *testing.T) {
	app := newApp(t, nil)
	router := app.Router

	resp := upload(t, router, "/api/v1/documents/upload", "memo.txt", "text/plain", []byte("Acme is raising a seed round."))
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var created struct {
		ID          string `json:"id"`
		StoragePath string `json:"storagePath"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if created.ID == "" || !strings.HasPrefix(created.StoragePath, "file://deal-docs/documents/") {
		t.Fatalf("unexpected create response %+v", created)
	}

	var doc documentPayload
	deadline := time.Now().Add(3 * time.Second)
	for {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/documents/"+created.ID, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		if err := json.NewDecoder(rec.Body).Decode(&doc); err != nil {
			t.Fatalf("decode document: %v", err)
		}
		if doc.Status == "extracted" || time.Now().After(deadline) {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if doc.Status != "extracted" || doc.Extracted == nil {
		t.Fatalf("extraction did not complete: %+v", doc)
	}
	if doc.Extracted.Text != "Acme is raising a seed round." || doc.Extracted.Extractor != "text" {
		t.Fatalf("unexpected extracted content %+v", doc.Extracted)
	}

	// The note is written after the extraction record, so poll for it too.
	var notes []struct {
		Summary    string  `json:"summary"`
		DocumentID *string `json:"documentId"`
	}
	for {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/notes/unlinked", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		if err := json.NewDecoder(rec.Body).Decode(&notes); err != nil {
			t.Fatalf("decode notes: %v", err)
		}
		if len(notes) > 0 || time.Now().After(deadline) {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if len(notes) != 1 || notes[0].Summary != "Acme is raising a seed round." || notes[0].DocumentID == nil || *notes[0].DocumentID != created.ID {
		t.Fatalf("unexpected notes %+v", notes)
	}
}

func TestDocumentsUploadRejectsUnsupportedType(t *testing.T) {
	app := newApp(t, nil)

	resp := upload(t, app.Router, "/api/v1/documents/upload", "logo.png", "image/png", []byte{0x89, 'P', 'N', 'G'})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	var payload struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if payload.Error.Code != "unsupported_media_type" || payload.Error.Message != "unsupported content-type: image/png" {
		t.Fatalf("unexpected error %+v", payload.Error)
	}
}

func TestDocumentsUploadErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		target string
		data   []byte
		status int
		code   string
	}{
		{
			name:   "missing bucket",
			mutate: func(c *config.Config) { c.StorageBucket = "" },
			target: "/api/v1/documents/upload",
			data:   []byte("hello"),
			status: http.StatusInternalServerError,
			code:   "misconfigured",
		},
		{
			name:   "unknown company",
			target: "/api/v1/documents/upload?company_id=ghost",
			data:   []byte("hello"),
			status: http.StatusNotFound,
			code:   "not_found",
		},
		{
			name:   "too large",
			mutate: func(c *config.Config) { c.MaxUploadBytes = 64 },
			target: "/api/v1/documents/upload",
			data:   bytes.Repeat([]byte("x"), 4096),
			status: http.StatusRequestEntityTooLarge,
			code:   "payload_too_large",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app := newApp(t, tc.mutate)
			resp := upload(t, app.Router, tc.target, "memo.txt", "text/plain", tc.data)
			if resp.Code != tc.status {
				t.Fatalf("expected %d, got %d: %s", tc.status, resp.Code, resp.Body.String())
			}
			if !strings.Contains(resp.Body.String(), `"code":"`+tc.code+`"`) {
				t.Fatalf("expected code %s, got %s", tc.code, resp.Body.String())
			}
		})
	}
}

func TestDocumentsGetUnknownReturns404(t *testing.T) {
	app := newApp(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents/missing", nil)
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestDocumentsListByCompany(t *testing.T) {
	app := newApp(t, nil)
	router := app.Router

	req := httptest.NewRequest(http.MethodPost, "/api/v1/companies", strings.NewReader(`{"name":"Test Startup","description":"Demo company"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("create company: expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var company struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&company); err != nil {
		t.Fatalf("decode company: %v", err)
	}

	if resp := upload(t, router, "/api/v1/documents/upload?company_id="+company.ID, "deck.txt", "text/plain", []byte("deck")); resp.Code != http.StatusCreated {
		t.Fatalf("upload: expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/companies/"+company.ID+"/documents", nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var docs []documentPayload
	if err := json.NewDecoder(resp.Body).Decode(&docs); err != nil {
		t.Fatalf("decode documents: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected 1 document, got %d", len(docs))
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/companies/ghost/documents", nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown company, got %d", resp.Code)
	}
}
