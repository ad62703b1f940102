// Package dailystock implementa la conciliación diaria de stock: apertura y
// cierre de la sesión del día, registro manual de transacciones y el reporte
// diario (HTML por correo con PDF adjunto).
package dailystock

import "context"

// ReportSender puerto de envío del reporte diario por correo.
type ReportSender interface {
	Send(ctx context.Context, to, subject, htmlBody string, attachment []byte, filename string) error
}

// PDFGenerator puerto de generación del PDF del reporte diario.
type PDFGenerator interface {
	GenerateDailyReport(report *DailyReport) ([]byte, error)
}
