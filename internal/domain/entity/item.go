package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de un artículo. Solo el motor de ciclo de vida
// (application/lifecycle) cambia Status, y siempre vía una transición definida.
const (
	StatusAvailable       = "Available"
	StatusInStock         = "In Stock"
	StatusUnderRepair     = "Under Repair"
	StatusSold            = "Sold"
	StatusCollectedUnpaid = "Collected (Unpaid)"
	StatusCollected       = "Collected"
	StatusReturned        = "Returned"
)

// Sub-estado de reparación mientras Status == Under Repair.
const (
	RepairInProgress = "In Progress"
	RepairCompleted  = "Completed"
)

// Estado de pago de un artículo vendido o entregado a un cobrador.
const (
	PaymentNotPaid     = "Not Paid"
	PaymentInstallment = "Installment"
	PaymentPaid        = "Paid"
)

// Métodos de pago aceptados.
const (
	MethodCash     = "Cash"
	MethodTransfer = "Transfer"
	MethodCard     = "Card"
)

// DeviceTypes tipos de dispositivo admitidos (enum cerrado).
var DeviceTypes = []string{
	"Phone",
	"Laptop",
	"Speaker",
	"Headphone",
	"Tablet",
	"SmartWatch",
	"GameConsole",
	"Router",
}

// IsValidDeviceType verifica que el tipo pertenezca al enum cerrado.
func IsValidDeviceType(t string) bool {
	for _, d := range DeviceTypes {
		if d == t {
			return true
		}
	}
	return false
}

// Actor identidad del usuario que ejecuta una mutación. El núcleo nunca
// infiere identidad: siempre la recibe explícita del caller.
type Actor struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Contact nombre y dato de contacto de un cliente o cobrador.
type Contact struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
}

// RepairEntry una entrada del historial de reparaciones del artículo.
type RepairEntry struct {
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Technician  string          `json:"technician"`
	AssignedBy  Actor           `json:"assignedBy"`
	RepairCost  decimal.Decimal `json:"repairCost"`
}

// BankPayment un pago registrado contra el artículo por método bancario.
type BankPayment struct {
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"paymentMethod"`
	BankName      string          `json:"bankName,omitempty"`
	AccountNumber string          `json:"accountNumber,omitempty"`
	Date          time.Time       `json:"date"`
}

// InstallmentPayment un abono parcial contra el precio de venta pendiente.
type InstallmentPayment struct {
	AmountPaid    decimal.Decimal `json:"amountPaid"`
	Date          time.Time       `json:"date"`
	PaymentMethod string          `json:"paymentMethod"`
	BankName      string          `json:"bankName,omitempty"`
	Description   string          `json:"description,omitempty"`
}

// StatusLog registro de un cambio de estado (quién y cuándo).
type StatusLog struct {
	Status    string    `json:"status"`
	Date      time.Time `json:"date"`
	ChangedBy string    `json:"changedBy"`
}

// Item artículo físico de inventario (teléfono, laptop, accesorio) con su
// ciclo de vida completo: ingreso, reparación, venta, cobro, pago y devolución.
// SerialNumber es único dentro de cada empresa.
type Item struct {
	ID           string
	CompanyID    string
	SerialNumber string
	Name         string
	DeviceType   string
	Brand        string
	ModelName    string
	Color        string
	Condition    string

	// Specifications atributos libres por tipo de dispositivo
	// (storageCapacity, ramSize, bluetoothVersion, ...).
	Specifications map[string]any
	Accessories    []string
	Notes          string

	PurchasePrice decimal.Decimal
	SellingPrice  decimal.Decimal
	Status        string
	RepairStatus  string

	// TotalRepairCost derivado: suma de RepairHistory[].RepairCost.
	// Se recalcula en cada mutación que toca el historial de reparaciones.
	TotalRepairCost decimal.Decimal
	RepairHistory   []RepairEntry

	SalesDate       *time.Time
	CustomerDetails *Contact

	CollectedBy      *Contact
	TrustedCollector bool

	PaymentStatus string
	// TotalAmountPaid derivado: suma de BankDetails[].Amount más
	// InstallmentPayments[].AmountPaid. Solo el libro de pagos lo escribe.
	TotalAmountPaid     decimal.Decimal
	BankDetails         []BankPayment
	InstallmentPayments []InstallmentPayment

	StatusLogs []StatusLog
	// Returns IDs de los registros de devolución asociados.
	Returns []string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// RecomputeTotalRepairCost recalcula TotalRepairCost desde el historial.
func (i *Item) RecomputeTotalRepairCost() {
	total := decimal.Zero
	for _, e := range i.RepairHistory {
		total = total.Add(e.RepairCost)
	}
	i.TotalRepairCost = total
}

// RecomputeTotalPaid recalcula TotalAmountPaid como la suma exacta de ambos
// listados de pagos (recomputación idempotente, sin acumulación incremental).
func (i *Item) RecomputeTotalPaid() {
	total := decimal.Zero
	for _, b := range i.BankDetails {
		total = total.Add(b.Amount)
	}
	for _, p := range i.InstallmentPayments {
		total = total.Add(p.AmountPaid)
	}
	i.TotalAmountPaid = total
}

// AppendStatusLog registra el cambio de estado en la bitácora del artículo.
func (i *Item) AppendStatusLog(status, changedBy string, at time.Time) {
	i.StatusLogs = append(i.StatusLogs, StatusLog{Status: status, Date: at, ChangedBy: changedBy})
}

// Profit utilidad estimada del artículo según su estado actual:
// venta − compra − reparaciones si está vendido; cero si fue devuelto.
func (i *Item) Profit() decimal.Decimal {
	if i.Status != StatusSold {
		return decimal.Zero
	}
	return i.SellingPrice.Sub(i.PurchasePrice).Sub(i.TotalRepairCost)
}
