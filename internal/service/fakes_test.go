package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ecasanas/contratos-service/internal/config"
	"github.com/ecasanas/contratos-service/internal/model"
)

// In-memory repositories backing the service tests. The fakes enforce the
// same one-live-row-per-pair rule the partial unique indexes enforce in
// postgres, so conflict paths behave like production.

type fakeActorRepo struct {
	actors map[uuid.UUID]model.Actor
}

func newFakeActorRepo() *fakeActorRepo {
	return &fakeActorRepo{actors: make(map[uuid.UUID]model.Actor)}
}

func (r *fakeActorRepo) add(actor model.Actor) model.Actor {
	r.actors[actor.UUID] = actor
	return actor
}

func (r *fakeActorRepo) GetByUUID(_ context.Context, id uuid.UUID) (*model.Actor, error) {
	actor, ok := r.actors[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := actor
	return &copied, nil
}

func (r *fakeActorRepo) ListActiveByRole(_ context.Context, role model.Role) ([]model.Actor, error) {
	var out []model.Actor
	for _, actor := range r.actors {
		if actor.Role == role && actor.Active {
			out = append(out, actor)
		}
	}
	return out, nil
}

type fakeContractRepo struct {
	contracts map[uuid.UUID]*model.Contract
	zones     *fakeZoneRepo
	props     *fakePropertyRepo
	seq       int64
}

func newFakeContractRepo(zones *fakeZoneRepo, props *fakePropertyRepo) *fakeContractRepo {
	return &fakeContractRepo{
		contracts: make(map[uuid.UUID]*model.Contract),
		zones:     zones,
		props:     props,
	}
}

func (r *fakeContractRepo) Create(_ context.Context, contract *model.Contract) (*model.Contract, error) {
	for _, existing := range r.contracts {
		if existing.Code == contract.Code {
			return nil, fmt.Errorf("%w: contract code %s", ErrConflict, contract.Code)
		}
	}
	r.seq++
	saved := *contract
	saved.ID = r.seq
	saved.UUID = uuid.New()
	r.contracts[saved.UUID] = &saved
	copied := saved
	return &copied, nil
}

func (r *fakeContractRepo) GetByUUID(_ context.Context, id uuid.UUID) (*model.Contract, error) {
	contract, ok := r.contracts[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *contract
	return &copied, nil
}

func (r *fakeContractRepo) GetByCode(_ context.Context, code string) (*model.Contract, error) {
	for _, contract := range r.contracts {
		if contract.Code == code {
			copied := *contract
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fakeContractRepo) Update(_ context.Context, contract *model.Contract) error {
	stored, ok := r.contracts[contract.UUID]
	if !ok {
		return ErrNotFound
	}
	*stored = *contract
	return nil
}

func (r *fakeContractRepo) UpdateState(_ context.Context, id uuid.UUID, state model.ContractState) error {
	stored, ok := r.contracts[id]
	if !ok {
		return ErrNotFound
	}
	stored.State = state
	return nil
}

func (r *fakeContractRepo) SetSupervisor(_ context.Context, id uuid.UUID, supervisorID int64) error {
	stored, ok := r.contracts[id]
	if !ok {
		return ErrNotFound
	}
	stored.SupervisorID = &supervisorID
	return nil
}

func (r *fakeContractRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.contracts[id]; !ok {
		return ErrNotFound
	}
	delete(r.contracts, id)
	return nil
}

func (r *fakeContractRepo) ListAccessible(ctx context.Context, actor model.Actor) ([]model.Contract, error) {
	var out []model.Contract
	for _, contract := range r.contracts {
		visible := false
		switch actor.Role {
		case model.RoleAdministrator:
			visible = true
		case model.RoleSupervisor:
			visible = contract.SupervisedBy(actor)
		case model.RoleCoordinator:
			coordinated, err := r.zones.IsCoordinatorOfContract(ctx, contract.UUID, actor.ID)
			if err != nil {
				return nil, err
			}
			visible = coordinated
		case model.RoleOperario:
			works, err := r.props.HasLiveForOperario(ctx, contract.UUID, actor.ID)
			if err != nil {
				return nil, err
			}
			visible = works
		}
		if visible {
			out = append(out, *contract)
		}
	}
	return out, nil
}

type fakeZoneRepo struct {
	rows      []*model.ZoneAssignment
	contracts *fakeContractRepo
	seq       int64
}

func newFakeZoneRepo() *fakeZoneRepo {
	return &fakeZoneRepo{}
}

func (r *fakeZoneRepo) inActiveContract(row *model.ZoneAssignment) bool {
	contract, ok := r.contracts.contracts[row.ContractUUID]
	return ok && contract.IsActive()
}

func (r *fakeZoneRepo) Create(_ context.Context, row *model.ZoneAssignment) (*model.ZoneAssignment, error) {
	for _, existing := range r.rows {
		if existing.ContractUUID == row.ContractUUID && existing.ZoneUUID == row.ZoneUUID && existing.Live() {
			return nil, fmt.Errorf("%w: zone %s already assigned to contract %s", ErrConflict, row.ZoneCode, row.ContractCode)
		}
	}
	r.seq++
	saved := *row
	saved.ID = r.seq
	saved.UUID = uuid.New()
	r.rows = append(r.rows, &saved)
	copied := saved
	return &copied, nil
}

func (r *fakeZoneRepo) get(id uuid.UUID) (*model.ZoneAssignment, bool) {
	for _, row := range r.rows {
		if row.UUID == id {
			return row, true
		}
	}
	return nil, false
}

func (r *fakeZoneRepo) GetByUUID(_ context.Context, id uuid.UUID) (*model.ZoneAssignment, error) {
	row, ok := r.get(id)
	if !ok {
		return nil, ErrNotFound
	}
	copied := *row
	return &copied, nil
}

func (r *fakeZoneRepo) Update(_ context.Context, row *model.ZoneAssignment) error {
	stored, ok := r.get(row.UUID)
	if !ok {
		return ErrNotFound
	}
	*stored = *row
	return nil
}

func (r *fakeZoneRepo) UpdateState(_ context.Context, id uuid.UUID, state model.ZoneAssignmentState) error {
	stored, ok := r.get(id)
	if !ok {
		return ErrNotFound
	}
	stored.State = state
	return nil
}

func (r *fakeZoneRepo) ListByContract(_ context.Context, contractUUID uuid.UUID) ([]model.ZoneAssignment, error) {
	var out []model.ZoneAssignment
	for _, row := range r.rows {
		if row.ContractUUID == contractUUID {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (r *fakeZoneRepo) ListByCoordinator(_ context.Context, actorID int64) ([]model.ZoneAssignment, error) {
	var out []model.ZoneAssignment
	for _, row := range r.rows {
		if !row.Live() {
			continue
		}
		if (row.ZoneCoordinatorID != nil && *row.ZoneCoordinatorID == actorID) ||
			(row.OperationalCoordinatorID != nil && *row.OperationalCoordinatorID == actorID) {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (r *fakeZoneRepo) ListUnassignedCoordinator(_ context.Context, contractUUID uuid.UUID) ([]model.ZoneAssignment, error) {
	var out []model.ZoneAssignment
	for _, row := range r.rows {
		if row.ContractUUID != contractUUID || !row.Live() {
			continue
		}
		if row.ZoneCoordinatorID == nil || row.OperationalCoordinatorID == nil {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (r *fakeZoneRepo) IsCoordinatorOfContract(_ context.Context, contractUUID uuid.UUID, actorID int64) (bool, error) {
	for _, row := range r.rows {
		if row.ContractUUID != contractUUID || !row.Live() {
			continue
		}
		if (row.ZoneCoordinatorID != nil && *row.ZoneCoordinatorID == actorID) ||
			(row.OperationalCoordinatorID != nil && *row.OperationalCoordinatorID == actorID) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeZoneRepo) CountLiveByContract(_ context.Context, contractUUID uuid.UUID) (int64, error) {
	var count int64
	for _, row := range r.rows {
		if row.ContractUUID == contractUUID && row.Live() {
			count++
		}
	}
	return count, nil
}

func (r *fakeZoneRepo) CountLiveByZoneInActiveContracts(_ context.Context, zoneUUID uuid.UUID) (int64, error) {
	var count int64
	for _, row := range r.rows {
		if row.ZoneUUID == zoneUUID && row.Live() && r.inActiveContract(row) {
			count++
		}
	}
	return count, nil
}

func (r *fakeZoneRepo) CountLiveByPlanInActiveContracts(_ context.Context, planUUID uuid.UUID) (int64, error) {
	var count int64
	for _, row := range r.rows {
		if row.PlanUUID == planUUID && row.Live() && r.inActiveContract(row) {
			count++
		}
	}
	return count, nil
}

type fakePropertyRepo struct {
	rows []*model.PropertyAssignment
	seq  int64
}

func newFakePropertyRepo() *fakePropertyRepo {
	return &fakePropertyRepo{}
}

func (r *fakePropertyRepo) Create(_ context.Context, row *model.PropertyAssignment) (*model.PropertyAssignment, error) {
	for _, existing := range r.rows {
		if existing.ContractUUID == row.ContractUUID && existing.PropertyUUID == row.PropertyUUID && existing.Live() {
			return nil, fmt.Errorf("%w: property %s already assigned to contract %s", ErrConflict, row.PropertyCode, row.ContractCode)
		}
	}
	r.seq++
	saved := *row
	saved.ID = r.seq
	saved.UUID = uuid.New()
	r.rows = append(r.rows, &saved)
	copied := saved
	return &copied, nil
}

func (r *fakePropertyRepo) get(id uuid.UUID) (*model.PropertyAssignment, bool) {
	for _, row := range r.rows {
		if row.UUID == id {
			return row, true
		}
	}
	return nil, false
}

func (r *fakePropertyRepo) GetByUUID(_ context.Context, id uuid.UUID) (*model.PropertyAssignment, error) {
	row, ok := r.get(id)
	if !ok {
		return nil, ErrNotFound
	}
	copied := *row
	return &copied, nil
}

func (r *fakePropertyRepo) GetByContractAndProperty(_ context.Context, contractUUID, propertyUUID uuid.UUID) (*model.PropertyAssignment, error) {
	for _, row := range r.rows {
		if row.ContractUUID == contractUUID && row.PropertyUUID == propertyUUID && row.Live() {
			copied := *row
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fakePropertyRepo) SetOperario(_ context.Context, id uuid.UUID, operario *model.Actor, state model.PropertyAssignmentState) error {
	stored, ok := r.get(id)
	if !ok {
		return ErrNotFound
	}
	if operario == nil {
		stored.OperarioID = nil
		stored.OperarioUUID = nil
		stored.OperarioName = ""
	} else {
		stored.OperarioID = &operario.ID
		stored.OperarioUUID = &operario.UUID
		stored.OperarioName = operario.FullName()
	}
	stored.State = state
	return nil
}

func (r *fakePropertyRepo) UpdateState(_ context.Context, id uuid.UUID, state model.PropertyAssignmentState) error {
	stored, ok := r.get(id)
	if !ok {
		return ErrNotFound
	}
	stored.State = state
	return nil
}

func (r *fakePropertyRepo) ListByContract(_ context.Context, contractUUID uuid.UUID) ([]model.PropertyAssignment, error) {
	var out []model.PropertyAssignment
	for _, row := range r.rows {
		if row.ContractUUID == contractUUID {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (r *fakePropertyRepo) HasLiveForOperario(_ context.Context, contractUUID uuid.UUID, actorID int64) (bool, error) {
	for _, row := range r.rows {
		if row.ContractUUID == contractUUID && row.Live() && row.OperarioID != nil && *row.OperarioID == actorID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakePropertyRepo) CountLiveByContract(_ context.Context, contractUUID uuid.UUID) (int64, error) {
	var count int64
	for _, row := range r.rows {
		if row.ContractUUID == contractUUID && row.Live() {
			count++
		}
	}
	return count, nil
}

func (r *fakePropertyRepo) CountByContractAndState(_ context.Context, contractUUID uuid.UUID, state model.PropertyAssignmentState) (int64, error) {
	var count int64
	for _, row := range r.rows {
		if row.ContractUUID == contractUUID && row.State == state {
			count++
		}
	}
	return count, nil
}

func (r *fakePropertyRepo) CountAssignedTo(_ context.Context, contractUUID uuid.UUID, operarioID int64) (int64, error) {
	var count int64
	for _, row := range r.rows {
		if row.ContractUUID == contractUUID && row.Live() && row.OperarioID != nil && *row.OperarioID == operarioID {
			count++
		}
	}
	return count, nil
}

type fakeActivityRepo struct {
	counts map[uuid.UUID]int64
}

func newFakeActivityRepo() *fakeActivityRepo {
	return &fakeActivityRepo{counts: make(map[uuid.UUID]int64)}
}

func (r *fakeActivityRepo) CountByAssignment(_ context.Context, assignmentUUID uuid.UUID) (int64, error) {
	return r.counts[assignmentUUID], nil
}

type fakeCatalogRepo struct {
	zones      map[uuid.UUID]model.Zone
	plans      map[uuid.UUID]model.Plan
	properties map[uuid.UUID]model.Property
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{
		zones:      make(map[uuid.UUID]model.Zone),
		plans:      make(map[uuid.UUID]model.Plan),
		properties: make(map[uuid.UUID]model.Property),
	}
}

func (r *fakeCatalogRepo) GetZoneByUUID(_ context.Context, id uuid.UUID) (*model.Zone, error) {
	zone, ok := r.zones[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := zone
	return &copied, nil
}

func (r *fakeCatalogRepo) GetPlanByUUID(_ context.Context, id uuid.UUID) (*model.Plan, error) {
	plan, ok := r.plans[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := plan
	return &copied, nil
}

func (r *fakeCatalogRepo) GetPropertyByUUID(_ context.Context, id uuid.UUID) (*model.Property, error) {
	property, ok := r.properties[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := property
	return &copied, nil
}

// fixture bundles the fakes and wired services for one test. The seeded
// actors cover every role.
type fixture struct {
	actors     *fakeActorRepo
	contracts  *fakeContractRepo
	zones      *fakeZoneRepo
	properties *fakePropertyRepo
	activities *fakeActivityRepo
	catalog    *fakeCatalogRepo

	resolver *Resolver
	guard    *ConsistencyGuard

	contractService *ContractService
	zoneService     *ZoneService
	propertyService *PropertyService

	admin       model.Actor
	supervisor  model.Actor
	coordinator model.Actor
	operario    model.Actor
}

func newFixture() *fixture {
	f := &fixture{
		actors:     newFakeActorRepo(),
		zones:      newFakeZoneRepo(),
		properties: newFakePropertyRepo(),
		activities: newFakeActivityRepo(),
		catalog:    newFakeCatalogRepo(),
	}
	f.contracts = newFakeContractRepo(f.zones, f.properties)
	f.zones.contracts = f.contracts
	f.resolver = NewResolver(f.zones, f.properties)
	f.guard = NewConsistencyGuard(f.zones, f.properties)

	cfg := &config.Config{
		Contracts: config.ContractsConfig{
			MaxPastStartDays: 365,
			MaxFutureEndDays: 3650,
		},
	}
	log := zerolog.Nop()

	f.contractService = NewContractService(f.contracts, f.actors, f.zones, f.properties, f.resolver, f.guard, cfg, log)
	f.zoneService = NewZoneService(f.contracts, f.zones, f.catalog, f.actors, f.resolver, log)
	f.propertyService = NewPropertyService(f.contracts, f.properties, f.activities, f.catalog, f.actors, f.resolver, log)

	f.admin = f.newActor(model.RoleAdministrator, "admin")
	f.supervisor = f.newActor(model.RoleSupervisor, "supervisor")
	f.coordinator = f.newActor(model.RoleCoordinator, "coordinator")
	f.operario = f.newActor(model.RoleOperario, "operario")
	return f
}

var actorSeq int64

func (f *fixture) newActor(role model.Role, username string) model.Actor {
	actorSeq++
	return f.actors.add(model.Actor{
		ID:        actorSeq,
		UUID:      uuid.New(),
		Username:  username,
		FirstName: username,
		LastName:  string(role),
		Role:      role,
		Active:    true,
	})
}

func (f *fixture) newZone(code string) model.Zone {
	zone := model.Zone{
		ID:     int64(len(f.catalog.zones) + 1),
		UUID:   uuid.New(),
		Code:   code,
		Name:   "Zone " + code,
		Active: true,
	}
	f.catalog.zones[zone.UUID] = zone
	return zone
}

func (f *fixture) newPlan(code string) model.Plan {
	plan := model.Plan{
		ID:     int64(len(f.catalog.plans) + 1),
		UUID:   uuid.New(),
		Code:   code,
		Name:   "Plan " + code,
		Active: true,
	}
	f.catalog.plans[plan.UUID] = plan
	return plan
}

func (f *fixture) newProperty(code string) model.Property {
	property := model.Property{
		ID:      int64(len(f.catalog.properties) + 1),
		UUID:    uuid.New(),
		Code:    code,
		Address: "Calle " + code,
		Type:    model.PropertyTypeUrban,
		Active:  true,
	}
	f.catalog.properties[property.UUID] = property
	return property
}
