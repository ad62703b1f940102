package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/gadgetops/resale-api/internal/domain/entity"
)

// CreateItemRequest alta de un artículo de inventario. El artículo entra con
// estado "In Stock"; los precios se fijan después con PUT /items/:id/prices.
type CreateItemRequest struct {
	DeviceType     string         `json:"device_type" validate:"required"`
	Brand          string         `json:"brand" validate:"required"`
	ModelName      string         `json:"model_name" validate:"required"`
	SerialNumber   string         `json:"serial_number" validate:"required"`
	Name           string         `json:"name" validate:"required"`
	Color          string         `json:"color" validate:"required"`
	Condition      string         `json:"condition" validate:"required"`
	Specifications map[string]any `json:"specifications"`
	Accessories    []string       `json:"accessories"`
	Notes          string         `json:"notes"`
}

// UpdatePricesRequest fija precios y deja el artículo disponible para venta.
type UpdatePricesRequest struct {
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
}

// UpdateGeneralRequest actualiza campos descriptivos (no toca el estado).
type UpdateGeneralRequest struct {
	Name           *string        `json:"name"`
	ModelName      *string        `json:"model_name"`
	Brand          *string        `json:"brand"`
	Specifications map[string]any `json:"specifications"`
	Notes          *string        `json:"notes"`
}

// ListItemsRequest filtros de listado.
type ListItemsRequest struct {
	PageRequest
	DeviceType string `query:"device_type"`
	Status     string `query:"status"`
	Search     string `query:"q"`
}

// ContactDTO nombre y contacto de cliente o cobrador.
type ContactDTO struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
}

// ItemResponse proyección de un artículo para la API.
type ItemResponse struct {
	ID                  string                      `json:"id"`
	CompanyID           string                      `json:"company_id"`
	SerialNumber        string                      `json:"serial_number"`
	Name                string                      `json:"name"`
	DeviceType          string                      `json:"device_type"`
	Brand               string                      `json:"brand"`
	ModelName           string                      `json:"model_name"`
	Color               string                      `json:"color"`
	Condition           string                      `json:"condition"`
	Specifications      map[string]any              `json:"specifications,omitempty"`
	Accessories         []string                    `json:"accessories,omitempty"`
	Notes               string                      `json:"notes,omitempty"`
	PurchasePrice       decimal.Decimal             `json:"purchase_price"`
	SellingPrice        decimal.Decimal             `json:"selling_price"`
	Status              string                      `json:"status"`
	RepairStatus        string                      `json:"repair_status,omitempty"`
	TotalRepairCost     decimal.Decimal             `json:"total_repair_cost"`
	RepairHistory       []entity.RepairEntry        `json:"repair_history,omitempty"`
	SalesDate           *time.Time                  `json:"sales_date,omitempty"`
	CustomerDetails     *ContactDTO                 `json:"customer_details,omitempty"`
	CollectedBy         *ContactDTO                 `json:"collected_by,omitempty"`
	TrustedCollector    bool                        `json:"trusted_collector"`
	PaymentStatus       string                      `json:"payment_status"`
	TotalAmountPaid     decimal.Decimal             `json:"total_amount_paid"`
	BankDetails         []entity.BankPayment        `json:"bank_details,omitempty"`
	InstallmentPayments []entity.InstallmentPayment `json:"installment_payments,omitempty"`
	StatusLogs          []entity.StatusLog          `json:"status_logs,omitempty"`
	Returns             []string                    `json:"returns,omitempty"`
	CreatedAt           time.Time                   `json:"created_at"`
	UpdatedAt           time.Time                   `json:"updated_at"`
}

// ItemListResponse listado paginado de artículos.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// ItemFromEntity proyecta la entidad al DTO de respuesta.
func ItemFromEntity(i *entity.Item) *ItemResponse {
	if i == nil {
		return nil
	}
	return &ItemResponse{
		ID:                  i.ID,
		CompanyID:           i.CompanyID,
		SerialNumber:        i.SerialNumber,
		Name:                i.Name,
		DeviceType:          i.DeviceType,
		Brand:               i.Brand,
		ModelName:           i.ModelName,
		Color:               i.Color,
		Condition:           i.Condition,
		Specifications:      i.Specifications,
		Accessories:         i.Accessories,
		Notes:               i.Notes,
		PurchasePrice:       i.PurchasePrice,
		SellingPrice:        i.SellingPrice,
		Status:              i.Status,
		RepairStatus:        i.RepairStatus,
		TotalRepairCost:     i.TotalRepairCost,
		RepairHistory:       i.RepairHistory,
		SalesDate:           i.SalesDate,
		CustomerDetails:     contactDTO(i.CustomerDetails),
		CollectedBy:         contactDTO(i.CollectedBy),
		TrustedCollector:    i.TrustedCollector,
		PaymentStatus:       i.PaymentStatus,
		TotalAmountPaid:     i.TotalAmountPaid,
		BankDetails:         i.BankDetails,
		InstallmentPayments: i.InstallmentPayments,
		StatusLogs:          i.StatusLogs,
		Returns:             i.Returns,
		CreatedAt:           i.CreatedAt,
		UpdatedAt:           i.UpdatedAt,
	}
}

func contactDTO(c *entity.Contact) *ContactDTO {
	if c == nil {
		return nil
	}
	return &ContactDTO{Name: c.Name, Contact: c.Contact}
}
