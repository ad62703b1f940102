package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SalesMetricsResult agregados de ventas de un período (SQL, decimal exacto).
type SalesMetricsResult struct {
	TotalRevenue    decimal.Decimal
	NetProfit       decimal.Decimal
	UnitsSold       int
	AvgSellingPrice decimal.Decimal
	TotalRepairCost decimal.Decimal
}

// InventorySnapshotResult conteos vigentes de inventario de la empresa.
type InventorySnapshotResult struct {
	TotalItems      int
	Available       int
	UnderRepair     int
	CollectedUnpaid int
	Returns         int
}

// AnalyticsRepository consultas de agregación para los reportes de analítica.
// Solo lectura; los cálculos monetarios se hacen en SQL con NUMERIC y se
// escanean a decimal.Decimal.
type AnalyticsRepository interface {
	GetSalesMetrics(ctx context.Context, companyID string, from, to time.Time) (*SalesMetricsResult, error)
	GetInventorySnapshot(ctx context.Context, companyID string) (*InventorySnapshotResult, error)
	GetRevenueInRange(ctx context.Context, companyID string, from, to time.Time) (decimal.Decimal, error)
}
