package companies

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"investor-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches company routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/companies", h.list)
	rg.POST("/companies", h.create)
	rg.GET("/companies/:id", h.get)
	rg.GET("/companies/:id/founders", h.founders)
	rg.POST("/companies/:id/founders", h.addFounder)
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.Svc.List(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list companies", nil)
		return
	}
	respond.OK(c, items)
}

func (h *Handler) get(c *gin.Context) {
	company, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err, "failed to fetch company")
		return
	}
	respond.OK(c, company)
}

func (h *Handler) create(c *gin.Context) {
	var req createCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	in, err := req.toCompany()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}
	company, err := h.Svc.Create(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err, "failed to create company")
		return
	}
	respond.JSON(c, http.StatusCreated, company)
}

func (h *Handler) founders(c *gin.Context) {
	items, err := h.Svc.Founders(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err, "failed to list founders")
		return
	}
	respond.OK(c, items)
}

func (h *Handler) addFounder(c *gin.Context) {
	var req createFounderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	founder, err := h.Svc.AddFounder(c.Request.Context(), c.Param("id"), req.toFounder())
	if err != nil {
		h.writeError(c, err, "failed to add founder")
		return
	}
	respond.JSON(c, http.StatusCreated, founder)
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "Company not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrConflict):
		respond.Error(c, http.StatusConflict, "conflict", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
