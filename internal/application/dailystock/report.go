package dailystock

import (
	"bytes"
	"html/template"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// moneyPrinter formatea montos con separadores de miles en español.
var moneyPrinter = message.NewPrinter(language.Spanish)

// FormatMoney presenta un monto decimal como moneda legible.
func FormatMoney(d decimal.Decimal) string {
	f, _ := d.Float64()
	return moneyPrinter.Sprintf("$%.2f", f)
}

var reportTmpl = template.Must(template.New("daily_report").Funcs(template.FuncMap{
	"money": FormatMoney,
}).Parse(`<!DOCTYPE html>
<html lang="es">
<head><meta charset="utf-8"><title>Reporte diario de stock</title></head>
<body style="font-family: Arial, sans-serif; color: #1f2933;">
  <h1 style="font-size: 20px;">{{.CompanyName}}</h1>
  <h2 style="font-size: 16px;">Reporte diario de stock {{.Date.Format "2006-01-02"}}</h2>

  <h3>Conteos</h3>
  <table border="1" cellpadding="6" cellspacing="0">
    <tr><th></th><th>Disponible</th><th>En reparación</th><th>Reservado</th><th>Dañado</th><th>Total</th></tr>
    <tr>
      <td>Apertura</td>
      <td>{{.Session.OpeningCount.Available}}</td>
      <td>{{.Session.OpeningCount.InRepair}}</td>
      <td>{{.Session.OpeningCount.Reserved}}</td>
      <td>{{.Session.OpeningCount.Damaged}}</td>
      <td>{{.Session.OpeningCount.Total}}</td>
    </tr>
    {{if .Session.IsClosed}}
    <tr>
      <td>Cierre</td>
      <td>{{.Session.ClosingCount.Available}}</td>
      <td>{{.Session.ClosingCount.InRepair}}</td>
      <td>{{.Session.ClosingCount.Reserved}}</td>
      <td>{{.Session.ClosingCount.Damaged}}</td>
      <td>{{.Session.ClosingCount.Total}}</td>
    </tr>
    {{end}}
  </table>

  <h3>Transacciones del día</h3>
  <ul>
    <li>Altas nuevas: {{.Session.Transactions.NewAdditions}}</li>
    <li>Ventas: {{.Session.Transactions.Sales}}</li>
    <li>Enviados a reparación: {{.Session.Transactions.RepairsSent}}</li>
    <li>Reparaciones completadas: {{.Session.Transactions.RepairsCompleted}}</li>
    <li>Devoluciones: {{.Session.Transactions.Returns}}</li>
  </ul>

  <h3>Flujo de caja</h3>
  <ul>
    <li>Ventas: {{money .Session.CashFlow.Sales}}</li>
    <li>Reparaciones: {{money .Session.CashFlow.Repairs}}</li>
    <li>Total: {{money .Session.CashFlow.Total}}</li>
  </ul>

  {{if .Session.Discrepancies}}
  <h3>Discrepancias</h3>
  <ul>
    {{range .Session.Discrepancies}}<li>{{.Description}}</li>
    {{end}}
  </ul>
  {{end}}

  {{if .SoldItems}}
  <h3>Artículos vendidos</h3>
  <table border="1" cellpadding="6" cellspacing="0">
    <tr><th>Serie</th><th>Artículo</th><th>Marca</th><th>Precio de venta</th></tr>
    {{range .SoldItems}}
    <tr>
      <td>{{.SerialNumber}}</td>
      <td>{{.Name}}</td>
      <td>{{.Brand}}</td>
      <td>{{money .SellingPrice}}</td>
    </tr>
    {{end}}
  </table>
  {{end}}

  {{if .Session.Notes}}<p><strong>Notas:</strong> {{.Session.Notes}}</p>{{end}}
</body>
</html>`))

// RenderHTML produce el cuerpo HTML del reporte diario.
func RenderHTML(report *DailyReport) (string, error) {
	var buf bytes.Buffer
	if err := reportTmpl.Execute(&buf, report); err != nil {
		return "", err
	}
	return buf.String(), nil
}
