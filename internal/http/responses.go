package http

import (
	"time"

	"github.com/google/uuid"

	"github.com/ecasanas/contratos-service/internal/model"
	"github.com/ecasanas/contratos-service/internal/service"
)

type actorResponse struct {
	ID       uuid.UUID  `json:"id"`
	Username string     `json:"username"`
	FullName string     `json:"full_name"`
	Email    string     `json:"email,omitempty"`
	Phone    string     `json:"phone,omitempty"`
	Role     model.Role `json:"role"`
	Active   bool       `json:"active"`
}

func toActorResponse(a model.Actor) actorResponse {
	return actorResponse{
		ID:       a.UUID,
		Username: a.Username,
		FullName: a.FullName(),
		Email:    a.Email,
		Phone:    a.Phone,
		Role:     a.Role,
		Active:   a.Active,
	}
}

type contractResponse struct {
	ID         uuid.UUID           `json:"id"`
	Code       string              `json:"code"`
	Objective  string              `json:"objective"`
	StartDate  string              `json:"start_date"`
	EndDate    string              `json:"end_date"`
	State      model.ContractState `json:"state"`
	Supervisor *actorResponse      `json:"supervisor,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

func toContractResponse(c model.Contract) contractResponse {
	resp := contractResponse{
		ID:        c.UUID,
		Code:      c.Code,
		Objective: c.Objective,
		StartDate: c.StartDate.Format("2006-01-02"),
		EndDate:   c.EndDate.Format("2006-01-02"),
		State:     c.State,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if c.Supervisor != nil {
		supervisor := toActorResponse(*c.Supervisor)
		resp.Supervisor = &supervisor
	}
	return resp
}

func toContractResponses(contracts []model.Contract) []contractResponse {
	out := make([]contractResponse, 0, len(contracts))
	for _, c := range contracts {
		out = append(out, toContractResponse(c))
	}
	return out
}

type zoneAssignmentResponse struct {
	ID                         uuid.UUID                 `json:"id"`
	ContractID                 uuid.UUID                 `json:"contract_id"`
	ContractCode               string                    `json:"contract_code"`
	ZoneID                     uuid.UUID                 `json:"zone_id"`
	ZoneCode                   string                    `json:"zone_code"`
	ZoneName                   string                    `json:"zone_name"`
	PlanID                     uuid.UUID                 `json:"plan_id"`
	PlanName                   string                    `json:"plan_name"`
	ZoneCoordinatorID          *uuid.UUID                `json:"zone_coordinator_id,omitempty"`
	ZoneCoordinatorName        string                    `json:"zone_coordinator_name,omitempty"`
	OperationalCoordinatorID   *uuid.UUID                `json:"operational_coordinator_id,omitempty"`
	OperationalCoordinatorName string                    `json:"operational_coordinator_name,omitempty"`
	State                      model.ZoneAssignmentState `json:"state"`
	CreatedAt                  time.Time                 `json:"created_at"`
	UpdatedAt                  time.Time                 `json:"updated_at"`
}

func toZoneAssignmentResponse(z model.ZoneAssignment) zoneAssignmentResponse {
	return zoneAssignmentResponse{
		ID:                         z.UUID,
		ContractID:                 z.ContractUUID,
		ContractCode:               z.ContractCode,
		ZoneID:                     z.ZoneUUID,
		ZoneCode:                   z.ZoneCode,
		ZoneName:                   z.ZoneName,
		PlanID:                     z.PlanUUID,
		PlanName:                   z.PlanName,
		ZoneCoordinatorID:          z.ZoneCoordinatorUUID,
		ZoneCoordinatorName:        z.ZoneCoordinatorName,
		OperationalCoordinatorID:   z.OperationalCoordinatorUUID,
		OperationalCoordinatorName: z.OperationalCoordinatorName,
		State:                      z.State,
		CreatedAt:                  z.CreatedAt,
		UpdatedAt:                  z.UpdatedAt,
	}
}

func toZoneAssignmentResponses(rows []model.ZoneAssignment) []zoneAssignmentResponse {
	out := make([]zoneAssignmentResponse, 0, len(rows))
	for _, z := range rows {
		out = append(out, toZoneAssignmentResponse(z))
	}
	return out
}

type propertyAssignmentResponse struct {
	ID              uuid.UUID                     `json:"id"`
	ContractID      uuid.UUID                     `json:"contract_id"`
	ContractCode    string                        `json:"contract_code"`
	PropertyID      uuid.UUID                     `json:"property_id"`
	PropertyCode    string                        `json:"property_code"`
	PropertyAddress string                        `json:"property_address"`
	OperarioID      *uuid.UUID                    `json:"operario_id,omitempty"`
	OperarioName    string                        `json:"operario_name,omitempty"`
	State           model.PropertyAssignmentState `json:"state"`
	CreatedAt       time.Time                     `json:"created_at"`
	UpdatedAt       time.Time                     `json:"updated_at"`
}

func toPropertyAssignmentResponse(p model.PropertyAssignment) propertyAssignmentResponse {
	return propertyAssignmentResponse{
		ID:              p.UUID,
		ContractID:      p.ContractUUID,
		ContractCode:    p.ContractCode,
		PropertyID:      p.PropertyUUID,
		PropertyCode:    p.PropertyCode,
		PropertyAddress: p.PropertyAddress,
		OperarioID:      p.OperarioUUID,
		OperarioName:    p.OperarioName,
		State:           p.State,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func toPropertyAssignmentResponses(rows []model.PropertyAssignment) []propertyAssignmentResponse {
	out := make([]propertyAssignmentResponse, 0, len(rows))
	for _, p := range rows {
		out = append(out, toPropertyAssignmentResponse(p))
	}
	return out
}

type contractStatsResponse struct {
	TotalZones          int64   `json:"total_zones"`
	TotalProperties     int64   `json:"total_properties"`
	PropertiesPending   int64   `json:"properties_pending"`
	PropertiesAssigned  int64   `json:"properties_assigned"`
	PropertiesCompleted int64   `json:"properties_completed"`
	PercentAssigned     float64 `json:"percent_assigned"`
	PercentCompleted    float64 `json:"percent_completed"`
}

func toContractStatsResponse(s model.ContractStats) contractStatsResponse {
	return contractStatsResponse{
		TotalZones:          s.TotalZones,
		TotalProperties:     s.TotalProperties,
		PropertiesPending:   s.PropertiesPending,
		PropertiesAssigned:  s.PropertiesAssigned,
		PropertiesCompleted: s.PropertiesCompleted,
		PercentAssigned:     s.PercentAssigned,
		PercentCompleted:    s.PercentCompleted,
	}
}

type bulkAssignmentErrorResponse struct {
	PropertyID uuid.UUID `json:"property_id"`
	OperarioID uuid.UUID `json:"operario_id"`
	Reason     string    `json:"reason"`
}

type bulkAssignmentResponse struct {
	Assigned int                           `json:"assigned"`
	Errors   []bulkAssignmentErrorResponse `json:"errors"`
}

func toBulkAssignmentResponse(result service.BulkAssignmentResult) bulkAssignmentResponse {
	resp := bulkAssignmentResponse{
		Assigned: result.Assigned,
		Errors:   make([]bulkAssignmentErrorResponse, 0, len(result.Errors)),
	}
	for _, e := range result.Errors {
		resp.Errors = append(resp.Errors, bulkAssignmentErrorResponse{
			PropertyID: e.PropertyUUID,
			OperarioID: e.OperarioUUID,
			Reason:     e.Reason,
		})
	}
	return resp
}

func toActorResponses(actors []model.Actor) []actorResponse {
	out := make([]actorResponse, 0, len(actors))
	for _, a := range actors {
		out = append(out, toActorResponse(a))
	}
	return out
}
