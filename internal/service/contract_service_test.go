package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecasanas/contratos-service/internal/model"
)

func validContractInput(code string) CreateContractInput {
	now := time.Now()
	return CreateContractInput{
		Code:      code,
		Objective: "Mantenimiento de predios",
		StartDate: now,
		EndDate:   now.AddDate(1, 0, 0),
	}
}

func TestContractCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("administrator creates a contract", func(t *testing.T) {
		f := newFixture()
		contract, err := f.contractService.Create(ctx, f.admin, validContractInput("C-001"))
		require.NoError(t, err)
		assert.Equal(t, "C-001", contract.Code)
		assert.Equal(t, model.ContractStateActive, contract.State)
		assert.NotEqual(t, uuid.Nil, contract.UUID)
	})

	t.Run("non-administrator is denied", func(t *testing.T) {
		f := newFixture()
		for _, actor := range []model.Actor{f.supervisor, f.coordinator, f.operario} {
			_, err := f.contractService.Create(ctx, actor, validContractInput("C-001"))
			assert.ErrorIs(t, err, ErrPermissionDenied)
		}
	})

	t.Run("duplicate code conflicts", func(t *testing.T) {
		f := newFixture()
		_, err := f.contractService.Create(ctx, f.admin, validContractInput("C-001"))
		require.NoError(t, err)
		_, err = f.contractService.Create(ctx, f.admin, validContractInput("C-001"))
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("blank code and objective rejected", func(t *testing.T) {
		f := newFixture()
		input := validContractInput("  ")
		_, err := f.contractService.Create(ctx, f.admin, input)
		assert.ErrorIs(t, err, ErrValidation)

		input = validContractInput("C-001")
		input.Objective = "   "
		_, err = f.contractService.Create(ctx, f.admin, input)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("end before start rejected", func(t *testing.T) {
		f := newFixture()
		input := validContractInput("C-001")
		input.EndDate = input.StartDate.AddDate(0, 0, -1)
		_, err := f.contractService.Create(ctx, f.admin, input)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("dates outside the policy windows rejected", func(t *testing.T) {
		f := newFixture()

		input := validContractInput("C-001")
		input.StartDate = time.Now().AddDate(0, 0, -400)
		_, err := f.contractService.Create(ctx, f.admin, input)
		assert.ErrorIs(t, err, ErrValidation)

		input = validContractInput("C-002")
		input.EndDate = time.Now().AddDate(0, 0, 4000)
		_, err = f.contractService.Create(ctx, f.admin, input)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("offset dates land on their UTC day", func(t *testing.T) {
		f := newFixture()

		// The same instant expressed with an offset must validate exactly
		// like its UTC form, even when the local calendar day differs.
		input := validContractInput("C-001")
		input.StartDate = input.StartDate.In(time.FixedZone("UTC+7", 7*3600))
		input.EndDate = input.EndDate.In(time.FixedZone("UTC-5", -5*3600))
		_, err := f.contractService.Create(ctx, f.admin, input)
		assert.NoError(t, err)
	})

	t.Run("supervisor is attached when given", func(t *testing.T) {
		f := newFixture()
		input := validContractInput("C-001")
		input.SupervisorUUID = &f.supervisor.UUID
		contract, err := f.contractService.Create(ctx, f.admin, input)
		require.NoError(t, err)
		require.NotNil(t, contract.SupervisorID)
		assert.Equal(t, f.supervisor.ID, *contract.SupervisorID)
	})

	t.Run("supervisor slot refuses other roles", func(t *testing.T) {
		f := newFixture()
		input := validContractInput("C-001")
		input.SupervisorUUID = &f.coordinator.UUID
		_, err := f.contractService.Create(ctx, f.admin, input)
		assert.ErrorIs(t, err, ErrRoleMismatch)
	})
}

func TestContractChangeState(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*fixture, *model.Contract) {
		f := newFixture()
		contract, err := f.contractService.Create(ctx, f.admin, validContractInput("C-001"))
		require.NoError(t, err)
		return f, contract
	}

	t.Run("active to suspended and back", func(t *testing.T) {
		f, contract := setup(t)

		updated, err := f.contractService.ChangeState(ctx, f.admin, contract.UUID, model.ContractStateSuspended)
		require.NoError(t, err)
		assert.Equal(t, model.ContractStateSuspended, updated.State)

		updated, err = f.contractService.ChangeState(ctx, f.admin, contract.UUID, model.ContractStateActive)
		require.NoError(t, err)
		assert.Equal(t, model.ContractStateActive, updated.State)
	})

	t.Run("suspended cannot finalize directly", func(t *testing.T) {
		f, contract := setup(t)
		_, err := f.contractService.ChangeState(ctx, f.admin, contract.UUID, model.ContractStateSuspended)
		require.NoError(t, err)

		_, err = f.contractService.ChangeState(ctx, f.admin, contract.UUID, model.ContractStateFinalized)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("finalized is terminal", func(t *testing.T) {
		f, contract := setup(t)
		_, err := f.contractService.ChangeState(ctx, f.admin, contract.UUID, model.ContractStateFinalized)
		require.NoError(t, err)

		for _, next := range []model.ContractState{model.ContractStateActive, model.ContractStateSuspended} {
			_, err = f.contractService.ChangeState(ctx, f.admin, contract.UUID, next)
			assert.ErrorIs(t, err, ErrValidation)
		}
	})
}

func TestContractAssignSupervisor(t *testing.T) {
	ctx := context.Background()

	t.Run("administrator assigns a supervisor", func(t *testing.T) {
		f := newFixture()
		contract, err := f.contractService.Create(ctx, f.admin, validContractInput("C-001"))
		require.NoError(t, err)

		updated, err := f.contractService.AssignSupervisor(ctx, f.admin, contract.UUID, f.supervisor.UUID)
		require.NoError(t, err)
		require.NotNil(t, updated.SupervisorID)
		assert.Equal(t, f.supervisor.ID, *updated.SupervisorID)
	})

	t.Run("wrong role is rejected", func(t *testing.T) {
		f := newFixture()
		contract, err := f.contractService.Create(ctx, f.admin, validContractInput("C-001"))
		require.NoError(t, err)

		_, err = f.contractService.AssignSupervisor(ctx, f.admin, contract.UUID, f.operario.UUID)
		assert.ErrorIs(t, err, ErrRoleMismatch)
	})

	t.Run("unknown supervisor not found", func(t *testing.T) {
		f := newFixture()
		contract, err := f.contractService.Create(ctx, f.admin, validContractInput("C-001"))
		require.NoError(t, err)

		_, err = f.contractService.AssignSupervisor(ctx, f.admin, contract.UUID, uuid.New())
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("supervisor cannot reassign", func(t *testing.T) {
		f := newFixture()
		contract, err := f.contractService.Create(ctx, f.admin, validContractInput("C-001"))
		require.NoError(t, err)

		_, err = f.contractService.AssignSupervisor(ctx, f.supervisor, contract.UUID, f.supervisor.UUID)
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})
}

func TestContractDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes when ledgers are empty", func(t *testing.T) {
		f := newFixture()
		contract, err := f.contractService.Create(ctx, f.admin, validContractInput("C-001"))
		require.NoError(t, err)

		require.NoError(t, f.contractService.Delete(ctx, f.admin, contract.UUID))
		_, err = f.contractService.Get(ctx, f.admin, contract.UUID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("refused while a live zone row exists", func(t *testing.T) {
		f := newFixture()
		contract, err := f.contractService.Create(ctx, f.admin, validContractInput("C-001"))
		require.NoError(t, err)

		zone := f.newZone("Z-01")
		plan := f.newPlan("P-01")
		row, err := f.zoneService.AddZone(ctx, f.admin, contract.UUID, zone.UUID, plan.UUID)
		require.NoError(t, err)

		err = f.contractService.Delete(ctx, f.admin, contract.UUID)
		assert.ErrorIs(t, err, ErrDependency)

		// A cancelled row no longer blocks deletion.
		require.NoError(t, f.zoneService.RemoveZone(ctx, f.admin, row.UUID))
		assert.NoError(t, f.contractService.Delete(ctx, f.admin, contract.UUID))
	})
}

func TestContractStats(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	contract, err := f.contractService.Create(ctx, f.admin, validContractInput("C-001"))
	require.NoError(t, err)

	zone := f.newZone("Z-01")
	plan := f.newPlan("P-01")
	_, err = f.zoneService.AddZone(ctx, f.admin, contract.UUID, zone.UUID, plan.UUID)
	require.NoError(t, err)

	p1 := f.newProperty("PR-01")
	p2 := f.newProperty("PR-02")
	row1, err := f.propertyService.AddProperty(ctx, f.admin, contract.UUID, p1.UUID)
	require.NoError(t, err)
	_, err = f.propertyService.AddProperty(ctx, f.admin, contract.UUID, p2.UUID)
	require.NoError(t, err)

	_, err = f.propertyService.AssignOperario(ctx, f.admin, row1.UUID, f.operario.UUID)
	require.NoError(t, err)

	stats, err := f.contractService.Stats(ctx, f.admin, contract.UUID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalZones)
	assert.Equal(t, int64(2), stats.TotalProperties)
	assert.Equal(t, int64(1), stats.PropertiesPending)
	assert.Equal(t, int64(1), stats.PropertiesAssigned)
	assert.Equal(t, int64(0), stats.PropertiesCompleted)
	assert.InDelta(t, 50.0, stats.PercentAssigned, 0.01)
}

func TestContractListAccessible(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	supervised := validContractInput("C-001")
	supervised.SupervisorUUID = &f.supervisor.UUID
	c1, err := f.contractService.Create(ctx, f.admin, supervised)
	require.NoError(t, err)

	c2, err := f.contractService.Create(ctx, f.admin, validContractInput("C-002"))
	require.NoError(t, err)

	zone := f.newZone("Z-01")
	plan := f.newPlan("P-01")
	row, err := f.zoneService.AddZone(ctx, f.admin, c2.UUID, zone.UUID, plan.UUID)
	require.NoError(t, err)
	_, err = f.zoneService.UpdateZone(ctx, f.admin, row.UUID, UpdateZoneInput{
		ZoneCoordinatorUUID: &f.coordinator.UUID,
	})
	require.NoError(t, err)

	adminList, err := f.contractService.List(ctx, f.admin)
	require.NoError(t, err)
	assert.Len(t, adminList, 2)

	supervisorList, err := f.contractService.List(ctx, f.supervisor)
	require.NoError(t, err)
	require.Len(t, supervisorList, 1)
	assert.Equal(t, c1.UUID, supervisorList[0].UUID)

	coordinatorList, err := f.contractService.List(ctx, f.coordinator)
	require.NoError(t, err)
	require.Len(t, coordinatorList, 1)
	assert.Equal(t, c2.UUID, coordinatorList[0].UUID)

	operarioList, err := f.contractService.List(ctx, f.operario)
	require.NoError(t, err)
	assert.Empty(t, operarioList)
}

func TestDateOnly(t *testing.T) {
	instant := time.Date(2026, 3, 1, 23, 30, 0, 0, time.UTC)
	eastern := instant.In(time.FixedZone("UTC+7", 7*3600))

	// 2026-03-02 06:30 +07 is still 2026-03-01 in UTC.
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), dateOnly(eastern))
	assert.Equal(t, dateOnly(instant), dateOnly(eastern))
	assert.True(t, dateOnly(time.Time{}).IsZero())
}
