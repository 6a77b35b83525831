package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecasanas/contratos-service/internal/model"
)

func setupContractWithProperty(t *testing.T, f *fixture) (*model.Contract, *model.PropertyAssignment) {
	t.Helper()
	ctx := context.Background()
	input := validContractInput("C-001")
	input.SupervisorUUID = &f.supervisor.UUID
	contract, err := f.contractService.Create(ctx, f.admin, input)
	require.NoError(t, err)

	property := f.newProperty("PR-01")
	row, err := f.propertyService.AddProperty(ctx, f.admin, contract.UUID, property.UUID)
	require.NoError(t, err)
	return contract, row
}

func TestPropertyAdd(t *testing.T) {
	ctx := context.Background()

	t.Run("row starts pending", func(t *testing.T) {
		f := newFixture()
		_, row := setupContractWithProperty(t, f)
		assert.Equal(t, model.PropertyAssignmentPending, row.State)
		assert.False(t, row.HasOperario())
	})

	t.Run("duplicate live pair conflicts", func(t *testing.T) {
		f := newFixture()
		contract, row := setupContractWithProperty(t, f)
		_, err := f.propertyService.AddProperty(ctx, f.admin, contract.UUID, row.PropertyUUID)
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("operario may not add", func(t *testing.T) {
		f := newFixture()
		contract, _ := setupContractWithProperty(t, f)
		property := f.newProperty("PR-02")
		_, err := f.propertyService.AddProperty(ctx, f.operario, contract.UUID, property.UUID)
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})
}

func TestPropertyAssignOperario(t *testing.T) {
	ctx := context.Background()

	t.Run("assignment moves the row to assigned", func(t *testing.T) {
		f := newFixture()
		_, row := setupContractWithProperty(t, f)

		updated, err := f.propertyService.AssignOperario(ctx, f.admin, row.UUID, f.operario.UUID)
		require.NoError(t, err)
		assert.Equal(t, model.PropertyAssignmentAssigned, updated.State)
		require.NotNil(t, updated.OperarioID)
		assert.Equal(t, f.operario.ID, *updated.OperarioID)
	})

	t.Run("wrong role leaves the row pending", func(t *testing.T) {
		f := newFixture()
		_, row := setupContractWithProperty(t, f)

		_, err := f.propertyService.AssignOperario(ctx, f.admin, row.UUID, f.coordinator.UUID)
		assert.ErrorIs(t, err, ErrRoleMismatch)

		stored, err := f.properties.GetByUUID(ctx, row.UUID)
		require.NoError(t, err)
		assert.Equal(t, model.PropertyAssignmentPending, stored.State)
		assert.False(t, stored.HasOperario())
	})

	t.Run("unknown operario not found", func(t *testing.T) {
		f := newFixture()
		_, row := setupContractWithProperty(t, f)
		_, err := f.propertyService.AssignOperario(ctx, f.admin, row.UUID, uuid.New())
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("completed row rejects reassignment", func(t *testing.T) {
		f := newFixture()
		_, row := setupContractWithProperty(t, f)
		require.NoError(t, f.properties.UpdateState(ctx, row.UUID, model.PropertyAssignmentCompleted))

		_, err := f.propertyService.AssignOperario(ctx, f.admin, row.UUID, f.operario.UUID)
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestPropertyUnassignOperario(t *testing.T) {
	ctx := context.Background()

	t.Run("clears the slot and returns to pending", func(t *testing.T) {
		f := newFixture()
		_, row := setupContractWithProperty(t, f)
		_, err := f.propertyService.AssignOperario(ctx, f.admin, row.UUID, f.operario.UUID)
		require.NoError(t, err)

		updated, err := f.propertyService.UnassignOperario(ctx, f.admin, row.UUID)
		require.NoError(t, err)
		assert.Equal(t, model.PropertyAssignmentPending, updated.State)
		assert.False(t, updated.HasOperario())
	})

	t.Run("nothing to unassign", func(t *testing.T) {
		f := newFixture()
		_, row := setupContractWithProperty(t, f)
		_, err := f.propertyService.UnassignOperario(ctx, f.admin, row.UUID)
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestPropertyRemove(t *testing.T) {
	ctx := context.Background()

	t.Run("cancels a clean row", func(t *testing.T) {
		f := newFixture()
		contract, row := setupContractWithProperty(t, f)
		require.NoError(t, f.propertyService.RemoveProperty(ctx, f.admin, row.UUID))

		stored, err := f.properties.GetByUUID(ctx, row.UUID)
		require.NoError(t, err)
		assert.Equal(t, model.PropertyAssignmentCancelled, stored.State)

		// The pair is free again.
		_, err = f.propertyService.AddProperty(ctx, f.admin, contract.UUID, row.PropertyUUID)
		assert.NoError(t, err)
	})

	t.Run("blocked while activities reference the row", func(t *testing.T) {
		f := newFixture()
		_, row := setupContractWithProperty(t, f)
		f.activities.counts[row.UUID] = 3

		err := f.propertyService.RemoveProperty(ctx, f.admin, row.UUID)
		assert.ErrorIs(t, err, ErrDependency)

		f.activities.counts[row.UUID] = 0
		assert.NoError(t, f.propertyService.RemoveProperty(ctx, f.admin, row.UUID))
	})
}

func TestPropertyAssignBulk(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	input := validContractInput("C-001")
	input.SupervisorUUID = &f.supervisor.UUID
	contract, err := f.contractService.Create(ctx, f.admin, input)
	require.NoError(t, err)

	properties := make([]model.Property, 0, 4)
	for _, code := range []string{"PR-01", "PR-02", "PR-03", "PR-04"} {
		property := f.newProperty(code)
		properties = append(properties, property)
		if code != "PR-04" {
			_, err := f.propertyService.AddProperty(ctx, f.admin, contract.UUID, property.UUID)
			require.NoError(t, err)
		}
	}

	pairs := []BulkAssignment{
		{PropertyUUID: properties[0].UUID, OperarioUUID: f.operario.UUID},
		{PropertyUUID: properties[1].UUID, OperarioUUID: f.operario.UUID},
		// wrong role for this one
		{PropertyUUID: properties[2].UUID, OperarioUUID: f.coordinator.UUID},
		// never added to the contract
		{PropertyUUID: properties[3].UUID, OperarioUUID: f.operario.UUID},
	}

	result, err := f.propertyService.AssignBulk(ctx, f.supervisor, contract.UUID, pairs)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Assigned)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, properties[2].UUID, result.Errors[0].PropertyUUID)
	assert.Equal(t, properties[3].UUID, result.Errors[1].PropertyUUID)

	// The successful pairs persisted.
	count, err := f.propertyService.CountAssignedTo(ctx, f.supervisor, contract.UUID, f.operario.UUID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestPropertyAvailableOperarios(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	contract, row := setupContractWithProperty(t, f)
	second := f.newActor(model.RoleOperario, "operario2")

	available, err := f.propertyService.AvailableOperarios(ctx, f.admin, contract.UUID)
	require.NoError(t, err)
	assert.Len(t, available, 2)

	// One live property; once an operario works it, they drop off the list.
	_, err = f.propertyService.AssignOperario(ctx, f.admin, row.UUID, f.operario.UUID)
	require.NoError(t, err)

	available, err = f.propertyService.AvailableOperarios(ctx, f.admin, contract.UUID)
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, second.UUID, available[0].UUID)
}
