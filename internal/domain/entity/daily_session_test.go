package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucketForStatus(t *testing.T) {
	assert.Equal(t, BucketAvailable, BucketForStatus(StatusAvailable))
	assert.Equal(t, BucketAvailable, BucketForStatus(StatusInStock))
	assert.Equal(t, BucketInRepair, BucketForStatus(StatusUnderRepair))
	assert.Equal(t, BucketReserved, BucketForStatus(StatusCollected))
	assert.Equal(t, BucketReserved, BucketForStatus(StatusCollectedUnpaid))
	// Sold y Returned no se concilian.
	assert.Equal(t, "", BucketForStatus(StatusSold))
	assert.Equal(t, "", BucketForStatus(StatusReturned))
}

func TestCountsFromStatuses(t *testing.T) {
	counts := CountsFromStatuses(map[string]int{
		StatusAvailable:       3,
		StatusInStock:         2,
		StatusUnderRepair:     1,
		StatusCollectedUnpaid: 4,
		StatusSold:            9,
	})
	assert.Equal(t, 5, counts.Available)
	assert.Equal(t, 1, counts.InRepair)
	assert.Equal(t, 4, counts.Reserved)
	assert.Equal(t, 0, counts.Damaged)
	assert.Equal(t, 10, counts.Total())
}

func TestComputeDiscrepancies(t *testing.T) {
	now := time.Now()
	session := &DailyStockSession{
		OpeningCount: StatusCounts{Available: 5, InRepair: 2, Reserved: 1},
		ClosingCount: StatusCounts{Available: 3, InRepair: 2, Reserved: 2},
		ClosingTime:  &now,
	}
	discrepancies := session.ComputeDiscrepancies()
	require.Len(t, discrepancies, 2)

	byType := map[string]Discrepancy{}
	for _, d := range discrepancies {
		byType[d.Type] = d
	}
	assert.Equal(t, -2, byType[BucketAvailable].Quantity)
	assert.Contains(t, byType[BucketAvailable].Description, "disminuyó en 2")
	assert.Equal(t, 1, byType[BucketReserved].Quantity)
	assert.Contains(t, byType[BucketReserved].Description, "aumentó en 1")
}

func TestComputeDiscrepanciesNoneWhenEqual(t *testing.T) {
	session := &DailyStockSession{
		OpeningCount: StatusCounts{Available: 5},
		ClosingCount: StatusCounts{Available: 5},
	}
	assert.Empty(t, session.ComputeDiscrepancies())
}
