package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de reembolso de una devolución.
const (
	RefundFull    = "Full"
	RefundPartial = "Partial"
)

// ReturnRecord registro inmutable de una devolución: se crea una vez por
// evento de devolución y nunca se muta. El artículo vuelve a stock con el
// monto reembolsado como nuevo costo de compra.
type ReturnRecord struct {
	ID           string
	ItemID       string
	CompanyID    string
	RefundAmount decimal.Decimal
	RefundType   string
	Damage       string
	Notes        string
	ReturnDate   time.Time
}
