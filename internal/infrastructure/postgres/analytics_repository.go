package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/gadgetops/resale-api/internal/domain/entity"
	"github.com/gadgetops/resale-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de agregación sobre PostgreSQL. Todos los montos se
// calculan en SQL con NUMERIC y se escanean a decimal.Decimal; nada de float.
type AnalyticsRepo struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepo {
	return &AnalyticsRepo{pool: pool}
}

// GetSalesMetrics agregados de ventas en [from, to): ingreso, utilidad neta
// (venta − compra − reparaciones), unidades y ticket promedio.
func (r *AnalyticsRepo) GetSalesMetrics(ctx context.Context, companyID string, from, to time.Time) (*repository.SalesMetricsResult, error) {
	query := `
		SELECT
			COALESCE(SUM(selling_price), 0),
			COALESCE(SUM(selling_price - purchase_price - total_repair_cost), 0),
			COUNT(*),
			COALESCE(AVG(selling_price), 0),
			COALESCE(SUM(total_repair_cost), 0)
		FROM items
		WHERE company_id = $1 AND status = $2
		  AND sales_date >= $3 AND sales_date < $4`
	var out repository.SalesMetricsResult
	err := r.pool.QueryRow(ctx, query, companyID, entity.StatusSold, from, to).Scan(
		&out.TotalRevenue, &out.NetProfit, &out.UnitsSold, &out.AvgSellingPrice, &out.TotalRepairCost,
	)
	if err != nil {
		return nil, fmt.Errorf("sales metrics: %w", err)
	}
	return &out, nil
}

// GetInventorySnapshot conteos vigentes del inventario de la empresa.
func (r *AnalyticsRepo) GetInventorySnapshot(ctx context.Context, companyID string) (*repository.InventorySnapshotResult, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = $2 OR status = $3),
			COUNT(*) FILTER (WHERE status = $4),
			COUNT(*) FILTER (WHERE status = $5),
			COUNT(*) FILTER (WHERE jsonb_array_length(returns) > 0)
		FROM items
		WHERE company_id = $1`
	var out repository.InventorySnapshotResult
	err := r.pool.QueryRow(ctx, query, companyID,
		entity.StatusAvailable, entity.StatusInStock,
		entity.StatusUnderRepair, entity.StatusCollectedUnpaid,
	).Scan(
		&out.TotalItems, &out.Available, &out.UnderRepair, &out.CollectedUnpaid, &out.Returns,
	)
	if err != nil {
		return nil, fmt.Errorf("inventory snapshot: %w", err)
	}
	return &out, nil
}

// GetRevenueInRange ingreso por ventas en [from, to).
func (r *AnalyticsRepo) GetRevenueInRange(ctx context.Context, companyID string, from, to time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(selling_price), 0)
		FROM items
		WHERE company_id = $1 AND status = $2
		  AND sales_date >= $3 AND sales_date < $4`
	var revenue decimal.Decimal
	err := r.pool.QueryRow(ctx, query, companyID, entity.StatusSold, from, to).Scan(&revenue)
	if err != nil {
		return decimal.Zero, fmt.Errorf("revenue in range: %w", err)
	}
	return revenue, nil
}
