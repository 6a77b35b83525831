package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ecasanas/contratos-service/internal/http/middleware"
	"github.com/ecasanas/contratos-service/internal/model"
	"github.com/ecasanas/contratos-service/internal/service"
)

type Handler struct {
	contracts  *service.ContractService
	zones      *service.ZoneService
	properties *service.PropertyService
	reports    *service.ReportService
	log        zerolog.Logger
}

func NewHandler(
	contracts *service.ContractService,
	zones *service.ZoneService,
	properties *service.PropertyService,
	reports *service.ReportService,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		contracts:  contracts,
		zones:      zones,
		properties: properties,
		reports:    reports,
		log:        log,
	}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	protected := router.Group("/")
	protected.Use(authMiddleware)

	protected.POST("/contracts", h.createContract)
	protected.GET("/contracts", h.listContracts)
	protected.GET("/contracts/:id", h.getContract)
	protected.PATCH("/contracts/:id", h.updateContract)
	protected.DELETE("/contracts/:id", h.deleteContract)
	protected.POST("/contracts/:id/state", h.changeContractState)
	protected.PUT("/contracts/:id/supervisor", h.assignSupervisor)
	protected.GET("/contracts/:id/stats", h.contractStats)

	protected.POST("/contracts/:id/zones", h.addZone)
	protected.GET("/contracts/:id/zones", h.listZones)
	protected.GET("/contracts/:id/zones/unassigned", h.listUnassignedZones)
	protected.GET("/zone-assignments", h.listMyZones)
	protected.PATCH("/zone-assignments/:id", h.updateZone)
	protected.DELETE("/zone-assignments/:id", h.removeZone)

	protected.POST("/contracts/:id/properties", h.addProperty)
	protected.GET("/contracts/:id/properties", h.listProperties)
	protected.POST("/contracts/:id/properties/assign", h.bulkAssign)
	protected.GET("/contracts/:id/operarios/available", h.availableOperarios)
	protected.GET("/contracts/:id/operarios/:operarioID/assignments/count", h.countAssignedTo)
	protected.PUT("/property-assignments/:id/operario", h.assignOperario)
	protected.DELETE("/property-assignments/:id/operario", h.unassignOperario)
	protected.DELETE("/property-assignments/:id", h.removeProperty)

	protected.GET("/contracts/:id/export/assignments", h.exportAssignments)
	protected.GET("/contracts/:id/export/summary", h.exportSummaryPDF)
}

type createContractRequest struct {
	Code       string `json:"code" binding:"required"`
	Objective  string `json:"objective" binding:"required"`
	StartDate  string `json:"start_date" binding:"required"`
	EndDate    string `json:"end_date" binding:"required"`
	Supervisor string `json:"supervisor_id"`
}

func (h *Handler) createContract(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing actor"})
		return
	}

	var req createContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date"})
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date"})
		return
	}

	input := service.CreateContractInput{
		Code:      req.Code,
		Objective: req.Objective,
		StartDate: start,
		EndDate:   end,
	}
	if strings.TrimSpace(req.Supervisor) != "" {
		supervisorUUID, err := uuid.Parse(strings.TrimSpace(req.Supervisor))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid supervisor_id"})
			return
		}
		input.SupervisorUUID = &supervisorUUID
	}

	contract, err := h.contracts.Create(c.Request.Context(), actor, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toContractResponse(*contract))
}

func (h *Handler) listContracts(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing actor"})
		return
	}

	contracts, err := h.contracts.List(c.Request.Context(), actor)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contracts": toContractResponses(contracts)})
}

func (h *Handler) getContract(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing actor"})
		return
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return
	}

	contract, err := h.contracts.Get(c.Request.Context(), actor, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toContractResponse(*contract))
}

type updateContractRequest struct {
	Objective *string `json:"objective"`
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
}

func (h *Handler) updateContract(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing actor"})
		return
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return
	}

	var req updateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := service.UpdateContractInput{Objective: req.Objective}
	if req.StartDate != nil {
		start, err := parseDate(*req.StartDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date"})
			return
		}
		input.StartDate = &start
	}
	if req.EndDate != nil {
		end, err := parseDate(*req.EndDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date"})
			return
		}
		input.EndDate = &end
	}

	contract, err := h.contracts.Update(c.Request.Context(), actor, id, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toContractResponse(*contract))
}

func (h *Handler) deleteContract(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing actor"})
		return
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return
	}

	if err := h.contracts.Delete(c.Request.Context(), actor, id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type changeStateRequest struct {
	State string `json:"state" binding:"required"`
}

func (h *Handler) changeContractState(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing actor"})
		return
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return
	}

	var req changeStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	state, ok := model.ParseContractState(strings.ToUpper(strings.TrimSpace(req.State)))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid state"})
		return
	}

	contract, err := h.contracts.ChangeState(c.Request.Context(), actor, id, state)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toContractResponse(*contract))
}

type assignSupervisorRequest struct {
	SupervisorID string `json:"supervisor_id" binding:"required"`
}

func (h *Handler) assignSupervisor(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing actor"})
		return
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return
	}

	var req assignSupervisorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	supervisorUUID, err := uuid.Parse(strings.TrimSpace(req.SupervisorID))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid supervisor_id"})
		return
	}

	contract, err := h.contracts.AssignSupervisor(c.Request.Context(), actor, id, supervisorUUID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toContractResponse(*contract))
}

func (h *Handler) contractStats(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing actor"})
		return
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return
	}

	stats, err := h.contracts.Stats(c.Request.Context(), actor, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toContractStatsResponse(*stats))
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrRoleMismatch):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrDependency):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// pathUUID parses a uuid path parameter and writes the 400 itself; callers
// just return on error.
func pathUUID(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param(name)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return uuid.Nil, err
	}
	return id, nil
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, service.ErrValidation
	}
	layouts := []string{
		"2006-01-02",
		time.RFC3339,
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, service.ErrValidation
}
