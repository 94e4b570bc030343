package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nextbase/internal/app"
	"nextbase/internal/repository"
	"nextbase/internal/transport/http/response"
	"nextbase/internal/validator"
)

type AuditHandler struct {
	auditService *app.AuditService
}

func NewAuditHandler(auditService *app.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// List pages the change log, newest first. ?entity= and ?entity_id= narrow it down.
func (h *AuditHandler) List(c *gin.Context) {
	opts, ok := pageOptions(c, repository.AuditLogSource)
	if !ok {
		return
	}

	filter := repository.AuditFilter{Entity: c.Query("entity")}
	if raw := c.Query("entity_id"); raw != "" {
		res := validator.ValidateID(raw)
		if !res.Valid {
			response.Error(c, http.StatusBadRequest, response.CodeValidation, "entity_id must be a positive integer")
			return
		}
		filter.EntityID = res.ID
	}

	page, err := h.auditService.List(c.Request.Context(), opts, filter)
	if err != nil {
		writeServiceError(c, err, "list audit logs failed")
		return
	}
	response.OK(c, page, "")
}
