package dto

import "github.com/shopspring/decimal"

// MonthlyMetricsDTO métricas de ventas y stock del mes en curso.
type MonthlyMetricsDTO struct {
	Period           PeriodDTO       `json:"period"`
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	NetProfit        decimal.Decimal `json:"net_profit"`
	UnitsSold        int             `json:"units_sold"`
	AvgSellingPrice  decimal.Decimal `json:"avg_selling_price"`
	TotalRepairCosts decimal.Decimal `json:"total_repair_costs"`
	InventoryCount   int             `json:"inventory_count"`
	AvailableDevices int             `json:"available_devices"`
	UnderRepair      int             `json:"under_repair"`
	Returns          int             `json:"returns"`
	CollectedUnpaid  int             `json:"collected_unpaid"`
}

// PeriodDTO rango de fechas de un reporte.
type PeriodDTO struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// RevenueRangeRequest consulta de ingresos en un rango de fechas.
type RevenueRangeRequest struct {
	StartDate string `query:"start_date"`
	EndDate   string `query:"end_date"`
}

// RevenueRangeDTO respuesta de ingresos en rango.
type RevenueRangeDTO struct {
	Period  PeriodDTO       `json:"period"`
	Revenue decimal.Decimal `json:"revenue"`
}
