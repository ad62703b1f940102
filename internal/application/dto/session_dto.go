package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/gadgetops/resale-api/internal/domain/entity"
)

// Tipos de transacción aceptados por POST /sessions/transactions.
const (
	TxSale           = "sale"
	TxRepair         = "repair"
	TxRepairComplete = "repair_complete"
	TxReturn         = "return"
	TxNewAddition    = "new_addition"
)

// RecordTransactionRequest incremento manual de contadores de la sesión del día.
type RecordTransactionRequest struct {
	TransactionType string          `json:"transaction_type" validate:"required"`
	Quantity        int             `json:"quantity" validate:"min=1"`
	Amount          decimal.Decimal `json:"amount"`
}

// CloseDayRequest cierre de la sesión diaria.
type CloseDayRequest struct {
	Notes string `json:"notes"`
}

// SessionResponse proyección de la sesión diaria.
type SessionResponse struct {
	ID            string                     `json:"id"`
	CompanyID     string                     `json:"company_id"`
	Date          string                     `json:"date"`
	OpeningTime   time.Time                  `json:"opening_time"`
	ClosingTime   *time.Time                 `json:"closing_time,omitempty"`
	OpeningCount  CountsDTO                  `json:"opening_count"`
	ClosingCount  *CountsDTO                 `json:"closing_count,omitempty"`
	Transactions  entity.SessionTransactions `json:"transactions"`
	CashFlow      entity.CashFlow            `json:"cash_flow"`
	Discrepancies []entity.Discrepancy       `json:"discrepancies,omitempty"`
	Notes         string                     `json:"notes,omitempty"`
	Reconciled    bool                       `json:"reconciled"`
	ReconciledBy  string                     `json:"reconciled_by,omitempty"`
}

// CountsDTO conteo por bucket más el total.
type CountsDTO struct {
	Total     int `json:"total"`
	Available int `json:"available"`
	InRepair  int `json:"in_repair"`
	Reserved  int `json:"reserved"`
	Damaged   int `json:"damaged"`
}

func countsDTO(c entity.StatusCounts) CountsDTO {
	return CountsDTO{
		Total:     c.Total(),
		Available: c.Available,
		InRepair:  c.InRepair,
		Reserved:  c.Reserved,
		Damaged:   c.Damaged,
	}
}

// SessionFromEntity proyecta la sesión al DTO de respuesta.
func SessionFromEntity(s *entity.DailyStockSession) *SessionResponse {
	if s == nil {
		return nil
	}
	resp := &SessionResponse{
		ID:            s.ID,
		CompanyID:     s.CompanyID,
		Date:          s.Date.Format("2006-01-02"),
		OpeningTime:   s.OpeningTime,
		ClosingTime:   s.ClosingTime,
		OpeningCount:  countsDTO(s.OpeningCount),
		Transactions:  s.Transactions,
		CashFlow:      s.CashFlow,
		Discrepancies: s.Discrepancies,
		Notes:         s.Notes,
		Reconciled:    s.Reconciled,
		ReconciledBy:  s.ReconciledBy,
	}
	if s.IsClosed() {
		cc := countsDTO(s.ClosingCount)
		resp.ClosingCount = &cc
	}
	return resp
}

// SendReportRequest envío del reporte diario por correo.
type SendReportRequest struct {
	Date      string `json:"date"`
	Recipient string `json:"recipient"`
}
