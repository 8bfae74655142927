package dealnotes

import (
	"errors"
	"net/http"
	"strconv"

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

// RegisterRoutes attaches note routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/companies/:id/notes", h.listByCompany)
	rg.GET("/notes/unlinked", h.listUnlinked)
}

func (h *Handler) listByCompany(c *gin.Context) {
	notes, err := h.Svc.ListByCompany(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrCompanyNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "Company not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list notes", nil)
		return
	}
	respond.OK(c, notes)
}

func (h *Handler) listUnlinked(c *gin.Context) {
	limit := 50
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}

	notes, err := h.Svc.ListUnlinked(c.Request.Context(), limit)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list notes", nil)
		return
	}
	respond.OK(c, notes)
}
