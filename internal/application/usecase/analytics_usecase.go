package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/gadgetops/resale-api/internal/application/dto"
	"github.com/gadgetops/resale-api/internal/domain"
	"github.com/gadgetops/resale-api/internal/domain/repository"
)

// AnalyticsUseCase orquesta las consultas de agregación: métricas del mes en
// curso (ventas, utilidad, costos de reparación) y el conteo vigente de
// inventario, más ingresos por rango arbitrario.
type AnalyticsUseCase struct {
	analyticsRepo repository.AnalyticsRepository
}

// NewAnalyticsUseCase construye el caso de uso.
func NewAnalyticsUseCase(analyticsRepo repository.AnalyticsRepository) *AnalyticsUseCase {
	return &AnalyticsUseCase{analyticsRepo: analyticsRepo}
}

// GetMonthlyMetrics métricas del mes calendario en curso. Las dos consultas
// son independientes y corren en paralelo.
func (uc *AnalyticsUseCase) GetMonthlyMetrics(ctx context.Context, companyID string) (*dto.MonthlyMetricsDTO, error) {
	now := time.Now().UTC()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	type salesResult struct {
		metrics *repository.SalesMetricsResult
		err     error
	}
	type snapshotResult struct {
		snapshot *repository.InventorySnapshotResult
		err      error
	}
	salesCh := make(chan salesResult, 1)
	snapCh := make(chan snapshotResult, 1)

	go func() {
		metrics, err := uc.analyticsRepo.GetSalesMetrics(ctx, companyID, from, to)
		salesCh <- salesResult{metrics, err}
	}()
	go func() {
		snapshot, err := uc.analyticsRepo.GetInventorySnapshot(ctx, companyID)
		snapCh <- snapshotResult{snapshot, err}
	}()

	sales := <-salesCh
	snap := <-snapCh
	if sales.err != nil {
		return nil, fmt.Errorf("analytics: ventas: %w", sales.err)
	}
	if snap.err != nil {
		return nil, fmt.Errorf("analytics: inventario: %w", snap.err)
	}

	return &dto.MonthlyMetricsDTO{
		Period: dto.PeriodDTO{
			StartDate: from.Format("2006-01-02"),
			EndDate:   to.AddDate(0, 0, -1).Format("2006-01-02"),
		},
		TotalRevenue:     sales.metrics.TotalRevenue.Round(2),
		NetProfit:        sales.metrics.NetProfit.Round(2),
		UnitsSold:        sales.metrics.UnitsSold,
		AvgSellingPrice:  sales.metrics.AvgSellingPrice.Round(2),
		TotalRepairCosts: sales.metrics.TotalRepairCost.Round(2),
		InventoryCount:   snap.snapshot.TotalItems,
		AvailableDevices: snap.snapshot.Available,
		UnderRepair:      snap.snapshot.UnderRepair,
		Returns:          snap.snapshot.Returns,
		CollectedUnpaid:  snap.snapshot.CollectedUnpaid,
	}, nil
}

// GetRevenueInRange ingresos por ventas en un rango de fechas inclusivo.
func (uc *AnalyticsUseCase) GetRevenueInRange(ctx context.Context, companyID string, req dto.RevenueRangeRequest) (*dto.RevenueRangeDTO, error) {
	from, to, err := parsePeriod(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	revenue, err := uc.analyticsRepo.GetRevenueInRange(ctx, companyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("analytics: ingresos: %w", err)
	}
	return &dto.RevenueRangeDTO{
		Period: dto.PeriodDTO{
			StartDate: from.Format("2006-01-02"),
			EndDate:   to.AddDate(0, 0, -1).Format("2006-01-02"),
		},
		Revenue: revenue.Round(2),
	}, nil
}

// parsePeriod valida el rango [start, end] y lo devuelve como [from, to) con
// el extremo superior exclusivo al día siguiente.
func parsePeriod(start, end string) (time.Time, time.Time, error) {
	from, err := time.Parse("2006-01-02", start)
	if err != nil {
		return time.Time{}, time.Time{}, domain.ErrInvalidInput
	}
	to, err := time.Parse("2006-01-02", end)
	if err != nil {
		return time.Time{}, time.Time{}, domain.ErrInvalidInput
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, domain.ErrInvalidInput
	}
	return from, to.AddDate(0, 0, 1), nil
}
