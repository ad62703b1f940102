package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gadgetops/resale-api/internal/application/dto"
	"github.com/gadgetops/resale-api/internal/domain"
	"github.com/gadgetops/resale-api/internal/domain/repository"
)

type fakeAnalyticsRepo struct {
	metrics  *repository.SalesMetricsResult
	snapshot *repository.InventorySnapshotResult
	revenue  decimal.Decimal
}

func (r *fakeAnalyticsRepo) GetSalesMetrics(ctx context.Context, companyID string, from, to time.Time) (*repository.SalesMetricsResult, error) {
	return r.metrics, nil
}

func (r *fakeAnalyticsRepo) GetInventorySnapshot(ctx context.Context, companyID string) (*repository.InventorySnapshotResult, error) {
	return r.snapshot, nil
}

func (r *fakeAnalyticsRepo) GetRevenueInRange(ctx context.Context, companyID string, from, to time.Time) (decimal.Decimal, error) {
	return r.revenue, nil
}

func TestGetMonthlyMetrics(t *testing.T) {
	uc := NewAnalyticsUseCase(&fakeAnalyticsRepo{
		metrics: &repository.SalesMetricsResult{
			TotalRevenue:    decimal.RequireFromString("1250.505"),
			NetProfit:       decimal.NewFromInt(400),
			UnitsSold:       3,
			AvgSellingPrice: decimal.RequireFromString("416.835"),
			TotalRepairCost: decimal.NewFromInt(120),
		},
		snapshot: &repository.InventorySnapshotResult{
			TotalItems:      12,
			Available:       7,
			UnderRepair:     2,
			CollectedUnpaid: 1,
			Returns:         2,
		},
	})

	out, err := uc.GetMonthlyMetrics(context.Background(), "comp-1")
	require.NoError(t, err)
	assert.True(t, out.TotalRevenue.Equal(decimal.RequireFromString("1250.51")))
	assert.Equal(t, 3, out.UnitsSold)
	assert.Equal(t, 12, out.InventoryCount)
	assert.Equal(t, 7, out.AvailableDevices)
	assert.Equal(t, 2, out.UnderRepair)
	assert.Equal(t, 1, out.CollectedUnpaid)
	assert.NotEmpty(t, out.Period.StartDate)
}

func TestGetRevenueInRange(t *testing.T) {
	uc := NewAnalyticsUseCase(&fakeAnalyticsRepo{revenue: decimal.NewFromInt(900)})

	out, err := uc.GetRevenueInRange(context.Background(), "comp-1", dto.RevenueRangeRequest{
		StartDate: "2025-03-01",
		EndDate:   "2025-03-10",
	})
	require.NoError(t, err)
	assert.True(t, out.Revenue.Equal(decimal.NewFromInt(900)))
	assert.Equal(t, "2025-03-01", out.Period.StartDate)
	assert.Equal(t, "2025-03-10", out.Period.EndDate)
}

func TestGetRevenueInRangeValidatesPeriod(t *testing.T) {
	uc := NewAnalyticsUseCase(&fakeAnalyticsRepo{})

	_, err := uc.GetRevenueInRange(context.Background(), "comp-1", dto.RevenueRangeRequest{
		StartDate: "2025-03-10",
		EndDate:   "2025-03-01",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.GetRevenueInRange(context.Background(), "comp-1", dto.RevenueRangeRequest{
		StartDate: "10-03-2025",
		EndDate:   "2025-03-11",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
