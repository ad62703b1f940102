package lifecycle

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gadgetops/resale-api/internal/domain"
	"github.com/gadgetops/resale-api/internal/domain/entity"
)

func itemIn(status, repairStatus string) *entity.Item {
	return &entity.Item{ID: "item-1", Status: status, RepairStatus: repairStatus}
}

func TestCanSendToRepair(t *testing.T) {
	cases := []struct {
		status string
		ok     bool
	}{
		{entity.StatusAvailable, true},
		{entity.StatusInStock, true},
		{entity.StatusCollected, true},
		{entity.StatusSold, true},
		{entity.StatusUnderRepair, false},
		{entity.StatusCollectedUnpaid, false},
	}
	for _, tc := range cases {
		t.Run(tc.status, func(t *testing.T) {
			err := CanSendToRepair(itemIn(tc.status, ""))
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, domain.ErrConflict)
			}
		})
	}
}

func TestCanCompleteRepair(t *testing.T) {
	assert.NoError(t, CanCompleteRepair(itemIn(entity.StatusUnderRepair, entity.RepairInProgress)))
	assert.Error(t, CanCompleteRepair(itemIn(entity.StatusUnderRepair, entity.RepairCompleted)))
	assert.Error(t, CanCompleteRepair(itemIn(entity.StatusAvailable, entity.RepairInProgress)))
}

func TestCanMarkSoldOnlyAvailable(t *testing.T) {
	assert.NoError(t, CanMarkSold(itemIn(entity.StatusAvailable, "")))
	for _, status := range []string{entity.StatusInStock, entity.StatusUnderRepair, entity.StatusSold, entity.StatusCollected, entity.StatusCollectedUnpaid} {
		assert.Error(t, CanMarkSold(itemIn(status, "")), status)
	}
}

func TestCanCollectUnpaid(t *testing.T) {
	assert.NoError(t, CanCollectUnpaid(itemIn(entity.StatusAvailable, "")))
	assert.NoError(t, CanCollectUnpaid(itemIn(entity.StatusCollected, "")))
	assert.Error(t, CanCollectUnpaid(itemIn(entity.StatusUnderRepair, "")))
	assert.Error(t, CanCollectUnpaid(itemIn(entity.StatusSold, "")))
}

func TestCanProcessReturn(t *testing.T) {
	assert.NoError(t, CanProcessReturn(itemIn(entity.StatusSold, "")))
	assert.NoError(t, CanProcessReturn(itemIn(entity.StatusCollectedUnpaid, "")))
	assert.Error(t, CanProcessReturn(itemIn(entity.StatusUnderRepair, "")))
}

func TestCanUpdatePayments(t *testing.T) {
	assert.NoError(t, CanUpdatePayments(itemIn(entity.StatusCollected, "")))
	assert.Error(t, CanUpdatePayments(itemIn(entity.StatusUnderRepair, "")))
	assert.Error(t, CanUpdatePayments(itemIn(entity.StatusSold, "")))
}

func TestStateConflictCarriesContext(t *testing.T) {
	err := CanCompleteRepair(itemIn(entity.StatusUnderRepair, entity.RepairCompleted))
	var conflict *domain.StateConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "item-1", conflict.ItemID)
	assert.Equal(t, entity.StatusUnderRepair, conflict.CurrentStatus)
	assert.Equal(t, entity.RepairCompleted, conflict.RepairStatus)
	assert.Equal(t, ActionCompleteRepair, conflict.Action)
}
