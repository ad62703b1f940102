package entity

import "time"

// Company empresa (tenant). Todo artículo, sesión y registro de auditoría
// pertenece a exactamente una empresa.
type Company struct {
	ID      string
	Name    string
	Address string
	Phone   string
	Email   string
	// ReportEmail destinatario del reporte diario de stock.
	ReportEmail string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
