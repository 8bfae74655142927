package documents

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"investor-backend/internal/shared/metrics"
	"investor-backend/internal/shared/server/middleware"
	"investor-backend/internal/shared/server/respond"
)

const defaultMaxUploadSize = 10 << 20 // 10MB

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc            *Service
	MaxUploadBytes int64
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUploadSize
	}
	return &Handler{Svc: svc, MaxUploadBytes: maxUploadBytes}
}

// RegisterRoutes attaches document routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents/upload", h.upload)
	rg.GET("/documents/:id", h.get)
	rg.GET("/companies/:id/documents", h.listByCompany)
}

func (h *Handler) upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		metrics.IncUploadsFailed()
		if isBodyTooLarge(err) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "payload_too_large", "file exceeds upload limit", gin.H{"maxBytes": h.MaxUploadBytes})
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		metrics.IncUploadsFailed()
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	companyID := c.PostForm("company_id")
	if companyID == "" {
		companyID = c.Query("company_id")
	}

	ctx := WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))
	contentType := fileHeader.Header.Get("Content-Type")
	doc, err := h.Svc.Upload(ctx, UploadInput{
		FileName:    fileHeader.Filename,
		ContentType: contentType,
		CompanyID:   companyID,
		Body:        file,
	})
	if err != nil {
		metrics.IncUploadsFailed()
		switch {
		case errors.Is(err, ErrUnsupportedMediaType):
			respond.Error(c, http.StatusBadRequest, "unsupported_media_type", "unsupported content-type: "+contentType, nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		case errors.Is(err, ErrCompanyNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "Company not found", nil)
		case errors.Is(err, ErrMisconfigured):
			respond.Error(c, http.StatusInternalServerError, "misconfigured", "storage bucket is not configured", nil)
		case errors.Is(err, ErrUploadFailed):
			respond.Error(c, http.StatusInternalServerError, "upload_failed", "failed to store document", nil)
		case errors.Is(err, ErrSchedulingFailed):
			respond.Error(c, http.StatusInternalServerError, "scheduling_failed", "document stored but extraction could not be scheduled", UploadResponse{
				ID:          doc.ID,
				StoragePath: doc.StoragePath,
			})
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to record document", nil)
		}
		return
	}

	metrics.IncUploadsAccepted()
	respond.JSON(c, http.StatusCreated, UploadResponse{ID: doc.ID, StoragePath: doc.StoragePath})
}

func (h *Handler) get(c *gin.Context) {
	doc, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch document", nil)
		return
	}
	respond.OK(c, toResponse(doc))
}

func (h *Handler) listByCompany(c *gin.Context) {
	limit, offset := 0, 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}
	limit, offset = normalizePage(limit, offset)

	docs, err := h.Svc.ListByCompany(c.Request.Context(), c.Param("id"), limit, offset)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "Company not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list documents", nil)
		return
	}

	resp := make([]DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		resp = append(resp, toResponse(doc))
	}
	respond.OK(c, resp)
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return true
	}
	return strings.Contains(err.Error(), "request body too large")
}
