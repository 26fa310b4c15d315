package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"drtc/licensing/internal/middleware"
	"drtc/licensing/internal/services"
)

type AuditController struct {
	audit *services.AuditService
}

func NewAuditController(audit *services.AuditService) *AuditController {
	return &AuditController{audit: audit}
}

// ListAudit returns the newest audit entries first, paginated with
// ?limit and ?offset.
func (ctl *AuditController) ListAudit(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	entries, err := ctl.audit.List(middleware.MustActor(c), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": entries})
}
