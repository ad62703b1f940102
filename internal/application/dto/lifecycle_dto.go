package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/gadgetops/resale-api/internal/domain/entity"
)

// SendToRepairRequest envía el artículo a reparación con una entrada opcional
// del historial. AssignedBy se completa con el actor autenticado, no del body.
type SendToRepairRequest struct {
	Description string          `json:"description"`
	Technician  string          `json:"technician"`
	RepairCost  decimal.Decimal `json:"repair_cost"`
}

// MarkSoldRequest marca el artículo como vendido.
type MarkSoldRequest struct {
	SellingPrice    decimal.Decimal `json:"selling_price"`
	CustomerDetails *ContactDTO     `json:"customer_details"`
	SalesDate       *time.Time      `json:"sales_date"`
}

// CollectUnpaidRequest entrega el artículo a un cobrador sin pago inmediato.
type CollectUnpaidRequest struct {
	CollectedBy      ContactDTO `json:"collected_by"`
	TrustedCollector bool       `json:"trusted_collector"`
}

// BankPaymentInput un pago bancario a registrar en el libro de pagos.
// Date ausente significa la fecha del servidor.
type BankPaymentInput struct {
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
	BankName      string          `json:"bank_name"`
	AccountNumber string          `json:"account_number"`
	Date          *time.Time      `json:"date"`
}

// InstallmentInput un abono parcial a registrar.
type InstallmentInput struct {
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	PaymentMethod string          `json:"payment_method"`
	BankName      string          `json:"bank_name"`
	Description   string          `json:"description"`
	Date          *time.Time      `json:"date"`
}

// UpdatePaymentsRequest flujo combinado estado+pagos: registra pagos, fija
// cobrador y deja que el libro de pagos decida la promoción a Sold. Los
// punteros distinguen "no enviado" de "valor cero".
type UpdatePaymentsRequest struct {
	PaymentStatus      string             `json:"payment_status"`
	CollectedBy        *ContactDTO        `json:"collected_by"`
	TrustedCollector   *bool              `json:"trusted_collector"`
	SellingPrice       *decimal.Decimal   `json:"selling_price"`
	CustomerDetails    *ContactDTO        `json:"customer_details"`
	SalesDate          *time.Time         `json:"sales_date"`
	BankDetails        []BankPaymentInput `json:"bank_details"`
	InstallmentPayment *InstallmentInput  `json:"installment_payment"`
}

// ProcessReturnRequest devolución de un artículo vendido.
type ProcessReturnRequest struct {
	RefundAmount decimal.Decimal `json:"refund_amount"`
	RefundType   string          `json:"refund_type"`
	Damage       string          `json:"damage"`
	Notes        string          `json:"notes"`
	ReturnDate   *time.Time      `json:"return_date"`
}

// ReturnResponse proyección de un registro de devolución.
type ReturnResponse struct {
	ID           string          `json:"id"`
	ItemID       string          `json:"item_id"`
	CompanyID    string          `json:"company_id"`
	RefundAmount decimal.Decimal `json:"refund_amount"`
	RefundType   string          `json:"refund_type"`
	Damage       string          `json:"damage,omitempty"`
	Notes        string          `json:"notes,omitempty"`
	ReturnDate   time.Time       `json:"return_date"`
}

// ReturnFromEntity proyecta el registro de devolución al DTO.
func ReturnFromEntity(r *entity.ReturnRecord) *ReturnResponse {
	if r == nil {
		return nil
	}
	return &ReturnResponse{
		ID:           r.ID,
		ItemID:       r.ItemID,
		CompanyID:    r.CompanyID,
		RefundAmount: r.RefundAmount,
		RefundType:   r.RefundType,
		Damage:       r.Damage,
		Notes:        r.Notes,
		ReturnDate:   r.ReturnDate,
	}
}

// ChangeRecordResponse una entrada del historial de cambios.
type ChangeRecordResponse struct {
	ID         string    `json:"id"`
	ItemID     string    `json:"item_id"`
	Field      string    `json:"field"`
	OldValue   any       `json:"old_value"`
	NewValue   any       `json:"new_value"`
	ChangedBy  ActorDTO  `json:"changed_by"`
	ChangeDate time.Time `json:"change_date"`
}

// ActorDTO identidad del responsable de un cambio.
type ActorDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ChangeRecordFromEntity proyecta un registro de auditoría al DTO.
func ChangeRecordFromEntity(r entity.ChangeRecord) ChangeRecordResponse {
	return ChangeRecordResponse{
		ID:         r.ID,
		ItemID:     r.ItemID,
		Field:      r.Field,
		OldValue:   r.OldValue,
		NewValue:   r.NewValue,
		ChangedBy:  ActorDTO{ID: r.ChangedBy.ID, Name: r.ChangedBy.Name, Email: r.ChangedBy.Email},
		ChangeDate: r.ChangeDate,
	}
}
