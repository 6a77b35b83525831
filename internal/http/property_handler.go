package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ecasanas/contratos-service/internal/http/middleware"
	"github.com/ecasanas/contratos-service/internal/service"
)

type addPropertyRequest struct {
	PropertyID string `json:"property_id" binding:"required"`
}

func (h *Handler) addProperty(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing actor"})
		return
	}
	contractID, err := pathUUID(c, "id")
	if err != nil {
		return
	}

	var req addPropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	propertyID, err := uuid.Parse(strings.TrimSpace(req.PropertyID))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid property_id"})
		return
	}

	row, err := h.properties.AddProperty(c.Request.Context(), actor, contractID, propertyID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toPropertyAssignmentResponse(*row))
}

func (h *Handler) listProperties(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing actor"})
		return
	}
	contractID, err := pathUUID(c, "id")
	if err != nil {
		return
	}

	rows, err := h.properties.ListByContract(c.Request.Context(), actor, contractID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"properties": toPropertyAssignmentResponses(rows)})
}

type assignOperarioRequest struct {
	OperarioID string `json:"operario_id" binding:"required"`
}

func (h *Handler) assignOperario(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing actor"})
		return
	}
	rowID, err := pathUUID(c, "id")
	if err != nil {
		return
	}

	var req assignOperarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	operarioID, err := uuid.Parse(strings.TrimSpace(req.OperarioID))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid operario_id"})
		return
	}

	row, err := h.properties.AssignOperario(c.Request.Context(), actor, rowID, operarioID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPropertyAssignmentResponse(*row))
}

func (h *Handler) unassignOperario(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing actor"})
		return
	}
	rowID, err := pathUUID(c, "id")
	if err != nil {
		return
	}

	row, err := h.properties.UnassignOperario(c.Request.Context(), actor, rowID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPropertyAssignmentResponse(*row))
}

func (h *Handler) removeProperty(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing actor"})
		return
	}
	rowID, err := pathUUID(c, "id")
	if err != nil {
		return
	}

	if err := h.properties.RemoveProperty(c.Request.Context(), actor, rowID); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type bulkAssignRequest struct {
	Assignments []struct {
		PropertyID string `json:"property_id" binding:"required"`
		OperarioID string `json:"operario_id" binding:"required"`
	} `json:"assignments" binding:"required"`
}

func (h *Handler) bulkAssign(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing actor"})
		return
	}
	contractID, err := pathUUID(c, "id")
	if err != nil {
		return
	}

	var req bulkAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pairs := make([]service.BulkAssignment, 0, len(req.Assignments))
	for _, a := range req.Assignments {
		propertyID, err := uuid.Parse(strings.TrimSpace(a.PropertyID))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid property_id"})
			return
		}
		operarioID, err := uuid.Parse(strings.TrimSpace(a.OperarioID))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid operario_id"})
			return
		}
		pairs = append(pairs, service.BulkAssignment{
			PropertyUUID: propertyID,
			OperarioUUID: operarioID,
		})
	}

	result, err := h.properties.AssignBulk(c.Request.Context(), actor, contractID, pairs)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBulkAssignmentResponse(*result))
}

func (h *Handler) availableOperarios(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing actor"})
		return
	}
	contractID, err := pathUUID(c, "id")
	if err != nil {
		return
	}

	operarios, err := h.properties.AvailableOperarios(c.Request.Context(), actor, contractID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"operarios": toActorResponses(operarios)})
}

func (h *Handler) countAssignedTo(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing actor"})
		return
	}
	contractID, err := pathUUID(c, "id")
	if err != nil {
		return
	}
	operarioID, err := pathUUID(c, "operarioID")
	if err != nil {
		return
	}

	count, err := h.properties.CountAssignedTo(c.Request.Context(), actor, contractID, operarioID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}
