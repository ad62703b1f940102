package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Buckets de conteo para la conciliación diaria. Son más gruesos que el enum
// completo de estados: los estados sin mapeo (Sold, Returned) no se cuentan.
const (
	BucketAvailable = "available"
	BucketInRepair  = "inRepair"
	BucketReserved  = "reserved"
	BucketDamaged   = "damaged"
)

// StatusCounts conteo de inventario por bucket.
type StatusCounts struct {
	Available int `json:"available"`
	InRepair  int `json:"inRepair"`
	Reserved  int `json:"reserved"`
	Damaged   int `json:"damaged"`
}

// Total suma de todos los buckets.
func (c StatusCounts) Total() int {
	return c.Available + c.InRepair + c.Reserved + c.Damaged
}

// BucketForStatus mapea un estado del ciclo de vida a su bucket de conteo.
// Devuelve "" para estados que no se concilian (Sold, Returned).
func BucketForStatus(status string) string {
	switch status {
	case StatusAvailable, StatusInStock:
		return BucketAvailable
	case StatusUnderRepair:
		return BucketInRepair
	case StatusCollected, StatusCollectedUnpaid:
		return BucketReserved
	default:
		return ""
	}
}

// CountsFromStatuses agrega un conteo por estado crudo en buckets.
func CountsFromStatuses(byStatus map[string]int) StatusCounts {
	var c StatusCounts
	for status, n := range byStatus {
		switch BucketForStatus(status) {
		case BucketAvailable:
			c.Available += n
		case BucketInRepair:
			c.InRepair += n
		case BucketReserved:
			c.Reserved += n
		case BucketDamaged:
			c.Damaged += n
		}
	}
	return c
}

// SessionTransactions contadores de transacciones del día.
type SessionTransactions struct {
	NewAdditions     int `json:"newAdditions"`
	Sales            int `json:"sales"`
	RepairsSent      int `json:"repairsSent"`
	RepairsCompleted int `json:"repairsCompleted"`
	Returns          int `json:"returns"`
}

// CashFlow flujo de caja del día. Total siempre es Sales + Repairs.
type CashFlow struct {
	Sales   decimal.Decimal `json:"sales"`
	Repairs decimal.Decimal `json:"repairs"`
	Total   decimal.Decimal `json:"total"`
}

// Discrepancy diferencia no nula entre el conteo de cierre y el de apertura
// de un bucket. Quantity es cierre − apertura (con signo); la descripción
// incluye la magnitud absoluta.
type Discrepancy struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
}

// DailyStockSession sesión de conciliación de stock por empresa y día
// calendario. Identidad (CompanyID, Date): una sola sesión por día, y como
// máximo una abierta. Se crea con la apertura del día, acumula contadores con
// cada transacción y se congela al cierre. Nunca se borra.
type DailyStockSession struct {
	ID        string
	CompanyID string
	Date      time.Time

	OpeningTime  time.Time
	OpeningCount StatusCounts

	// ClosingTime nil mientras la sesión está abierta.
	ClosingTime  *time.Time
	ClosingCount StatusCounts

	Transactions SessionTransactions
	CashFlow     CashFlow

	Discrepancies []Discrepancy
	Notes         string
	Reconciled    bool
	ReconciledBy  string
}

// IsClosed indica si la sesión ya fue cerrada (terminal: no admite más
// transacciones).
func (s *DailyStockSession) IsClosed() bool { return s.ClosingTime != nil }

// ComputeDiscrepancies compara cierre contra apertura por bucket y devuelve
// una discrepancia por cada diferencia no nula.
func (s *DailyStockSession) ComputeDiscrepancies() []Discrepancy {
	type bucket struct {
		name          string
		opening, diff int
	}
	buckets := []bucket{
		{BucketAvailable, s.OpeningCount.Available, s.ClosingCount.Available - s.OpeningCount.Available},
		{BucketInRepair, s.OpeningCount.InRepair, s.ClosingCount.InRepair - s.OpeningCount.InRepair},
		{BucketReserved, s.OpeningCount.Reserved, s.ClosingCount.Reserved - s.OpeningCount.Reserved},
		{BucketDamaged, s.OpeningCount.Damaged, s.ClosingCount.Damaged - s.OpeningCount.Damaged},
	}
	var out []Discrepancy
	for _, b := range buckets {
		if b.diff == 0 {
			continue
		}
		abs := b.diff
		if abs < 0 {
			abs = -abs
		}
		direction := "aumentó"
		if b.diff < 0 {
			direction = "disminuyó"
		}
		out = append(out, Discrepancy{
			Type:        b.name,
			Quantity:    b.diff,
			Description: fmtDiscrepancy(b.name, direction, abs, b.opening, b.opening+b.diff),
		})
	}
	return out
}

func fmtDiscrepancy(bucket, direction string, abs, opening, closing int) string {
	return fmt.Sprintf("el conteo del bucket '%s' %s en %d unidades durante el día (apertura %d, cierre %d)",
		bucket, direction, abs, opening, closing)
}
