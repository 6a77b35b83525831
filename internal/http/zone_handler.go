package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ecasanas/contratos-service/internal/http/middleware"
	"github.com/ecasanas/contratos-service/internal/model"
	"github.com/ecasanas/contratos-service/internal/service"
)

type addZoneRequest struct {
	ZoneID string `json:"zone_id" binding:"required"`
	PlanID string `json:"plan_id" binding:"required"`
}

func (h *Handler) addZone(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing actor"})
		return
	}
	contractID, err := pathUUID(c, "id")
	if err != nil {
		return
	}

	var req addZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	zoneID, err := uuid.Parse(strings.TrimSpace(req.ZoneID))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid zone_id"})
		return
	}
	planID, err := uuid.Parse(strings.TrimSpace(req.PlanID))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid plan_id"})
		return
	}

	row, err := h.zones.AddZone(c.Request.Context(), actor, contractID, zoneID, planID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toZoneAssignmentResponse(*row))
}

func (h *Handler) listZones(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing actor"})
		return
	}
	contractID, err := pathUUID(c, "id")
	if err != nil {
		return
	}

	rows, err := h.zones.ListByContract(c.Request.Context(), actor, contractID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"zones": toZoneAssignmentResponses(rows)})
}

func (h *Handler) listUnassignedZones(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing actor"})
		return
	}
	contractID, err := pathUUID(c, "id")
	if err != nil {
		return
	}

	rows, err := h.zones.ListUnassignedCoordinator(c.Request.Context(), actor, contractID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"zones": toZoneAssignmentResponses(rows)})
}

// listMyZones returns the live zone assignments where the caller holds a
// coordinator slot.
func (h *Handler) listMyZones(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing actor"})
		return
	}

	rows, err := h.zones.ListByCoordinator(c.Request.Context(), actor)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"zones": toZoneAssignmentResponses(rows)})
}

type updateZoneRequest struct {
	PlanID                   *string `json:"plan_id"`
	ZoneCoordinatorID        *string `json:"zone_coordinator_id"`
	OperationalCoordinatorID *string `json:"operational_coordinator_id"`
	State                    *string `json:"state"`
}

func (h *Handler) updateZone(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing actor"})
		return
	}
	rowID, err := pathUUID(c, "id")
	if err != nil {
		return
	}

	var req updateZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var input service.UpdateZoneInput
	if req.PlanID != nil {
		planID, err := uuid.Parse(strings.TrimSpace(*req.PlanID))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid plan_id"})
			return
		}
		input.PlanUUID = &planID
	}
	// An empty string clears the slot; the service sees that as the nil uuid.
	if req.ZoneCoordinatorID != nil {
		id, err := optionalUUID(*req.ZoneCoordinatorID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid zone_coordinator_id"})
			return
		}
		input.ZoneCoordinatorUUID = &id
	}
	if req.OperationalCoordinatorID != nil {
		id, err := optionalUUID(*req.OperationalCoordinatorID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid operational_coordinator_id"})
			return
		}
		input.OperationalCoordinatorUUID = &id
	}
	if req.State != nil {
		state, ok := model.ParseZoneAssignmentState(strings.ToUpper(strings.TrimSpace(*req.State)))
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid state"})
			return
		}
		input.State = &state
	}

	row, err := h.zones.UpdateZone(c.Request.Context(), actor, rowID, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toZoneAssignmentResponse(*row))
}

func (h *Handler) removeZone(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing actor"})
		return
	}
	rowID, err := pathUUID(c, "id")
	if err != nil {
		return
	}

	if err := h.zones.RemoveZone(c.Request.Context(), actor, rowID); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func optionalUUID(raw string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(raw)
}
