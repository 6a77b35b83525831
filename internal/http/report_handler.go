package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ecasanas/contratos-service/internal/http/middleware"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF  = "application/pdf"
)

func (h *Handler) exportAssignments(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing actor"})
		return
	}
	contractID, err := pathUUID(c, "id")
	if err != nil {
		return
	}

	result, err := h.reports.ExportAssignments(c.Request.Context(), actor, contractID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, contentTypeXLSX, result.Content)
}

func (h *Handler) exportSummaryPDF(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing actor"})
		return
	}
	contractID, err := pathUUID(c, "id")
	if err != nil {
		return
	}

	result, err := h.reports.ExportSummaryPDF(c.Request.Context(), actor, contractID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, contentTypePDF, result.Content)
}
