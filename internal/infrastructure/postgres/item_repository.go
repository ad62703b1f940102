package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gadgetops/resale-api/internal/domain"
	"github.com/gadgetops/resale-api/internal/domain/entity"
	"github.com/gadgetops/resale-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación de ItemRepository sobre PostgreSQL (usable con pool
// o tx). Las colecciones anidadas del artículo (historial de reparaciones,
// pagos, bitácora de estados) viven como JSONB en la misma fila: se leen y
// escriben siempre junto con el artículo, bajo el mismo bloqueo de fila.
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador de artículos. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

const itemColumns = `
	id, company_id, serial_number, name, device_type, brand, model_name,
	color, condition, specifications, accessories, notes,
	purchase_price, selling_price, status, repair_status,
	total_repair_cost, repair_history, sales_date, customer_details,
	collected_by, trusted_collector, payment_status, total_amount_paid,
	bank_details, installment_payments, status_logs, returns,
	created_at, updated_at`

// Create persiste un artículo nuevo. Traduce la violación del índice único
// (company_id, serial_number) a domain.ErrDuplicate.
func (r *ItemRepo) Create(item *entity.Item) error {
	query := `
		INSERT INTO items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
		        $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26,
		        $27, $28, $29, $30)`
	_, err := r.q.Exec(context.Background(), query, itemArgs(item)...)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// GetByID obtiene un artículo por ID. Devuelve nil, nil si no existe.
func (r *ItemRepo) GetByID(id string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`
	item, err := scanItem(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// GetBySerial obtiene un artículo por número de serie dentro de la empresa.
func (r *ItemRepo) GetBySerial(companyID, serialNumber string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE company_id = $1 AND serial_number = $2`
	item, err := scanItem(r.q.QueryRow(context.Background(), query, companyID, serialNumber))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item by serial: %w", err)
	}
	return item, nil
}

// GetForUpdate obtiene el artículo bloqueando la fila (SELECT FOR UPDATE).
// Solo tiene sentido dentro de una transacción del TxRunner.
func (r *ItemRepo) GetForUpdate(id string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1 FOR UPDATE`
	item, err := scanItem(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item for update: %w", err)
	}
	return item, nil
}

// Update reescribe la fila completa del artículo.
func (r *ItemRepo) Update(item *entity.Item) error {
	query := `
		UPDATE items SET
			company_id = $2, serial_number = $3, name = $4, device_type = $5,
			brand = $6, model_name = $7, color = $8, condition = $9,
			specifications = $10, accessories = $11, notes = $12,
			purchase_price = $13, selling_price = $14, status = $15,
			repair_status = $16, total_repair_cost = $17, repair_history = $18,
			sales_date = $19, customer_details = $20, collected_by = $21,
			trusted_collector = $22, payment_status = $23, total_amount_paid = $24,
			bank_details = $25, installment_payments = $26, status_logs = $27,
			returns = $28, created_at = $29, updated_at = $30
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query, itemArgs(item)...)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un artículo de la empresa. Devuelve false si no existía.
func (r *ItemRepo) Delete(id, companyID string) (bool, error) {
	cmd, err := r.q.Exec(context.Background(),
		`DELETE FROM items WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return false, fmt.Errorf("delete item: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// List devuelve artículos de la empresa con filtros opcionales y el total sin
// paginar para los metadatos de página.
func (r *ItemRepo) List(companyID string, filter repository.ItemFilter) ([]*entity.Item, int, error) {
	where := []string{"company_id = $1"}
	args := []any{companyID}

	if filter.DeviceType != "" {
		args = append(args, filter.DeviceType)
		where = append(where, fmt.Sprintf("device_type = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		where = append(where, fmt.Sprintf(
			"(name ILIKE $%d OR brand ILIKE $%d OR model_name ILIKE $%d OR serial_number ILIKE $%d)",
			n, n, n, n))
	}
	whereClause := strings.Join(where, " AND ")

	var total int
	countQuery := `SELECT count(*) FROM items WHERE ` + whereClause
	if err := r.q.QueryRow(context.Background(), countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count items: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	args = append(args, limit, filter.Offset)
	query := fmt.Sprintf(`SELECT %s FROM items WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		itemColumns, whereClause, len(args)-1, len(args))

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var list []*entity.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, item)
	}
	return list, total, rows.Err()
}

// ListSoldBetween artículos vendidos en [from, to), ordenados por fecha de venta.
func (r *ItemRepo) ListSoldBetween(companyID string, from, to time.Time) ([]*entity.Item, error) {
	query := `SELECT ` + itemColumns + `
		FROM items
		WHERE company_id = $1 AND status = $2 AND sales_date >= $3 AND sales_date < $4
		ORDER BY sales_date`
	rows, err := r.q.Query(context.Background(), query, companyID, entity.StatusSold, from, to)
	if err != nil {
		return nil, fmt.Errorf("list sold items: %w", err)
	}
	defer rows.Close()

	var list []*entity.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sold item: %w", err)
		}
		list = append(list, item)
	}
	return list, rows.Err()
}

// CountByStatus agrega el inventario vigente de la empresa por estado crudo.
func (r *ItemRepo) CountByStatus(companyID string) (map[string]int, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT status, count(*) FROM items WHERE company_id = $1 GROUP BY status`, companyID)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// itemArgs aplana el artículo en el orden de itemColumns. Las colecciones
// anidadas se serializan como JSONB por el codec de pgx.
func itemArgs(item *entity.Item) []any {
	return []any{
		item.ID, item.CompanyID, item.SerialNumber, item.Name, item.DeviceType,
		item.Brand, item.ModelName, item.Color, item.Condition,
		item.Specifications, item.Accessories, item.Notes,
		item.PurchasePrice, item.SellingPrice, item.Status, item.RepairStatus,
		item.TotalRepairCost, item.RepairHistory, item.SalesDate, item.CustomerDetails,
		item.CollectedBy, item.TrustedCollector, item.PaymentStatus, item.TotalAmountPaid,
		item.BankDetails, item.InstallmentPayments, item.StatusLogs, item.Returns,
		item.CreatedAt, item.UpdatedAt,
	}
}

// scanItem escanea una fila en el orden de itemColumns.
func scanItem(row interface{ Scan(dest ...any) error }) (*entity.Item, error) {
	var item entity.Item
	err := row.Scan(
		&item.ID, &item.CompanyID, &item.SerialNumber, &item.Name, &item.DeviceType,
		&item.Brand, &item.ModelName, &item.Color, &item.Condition,
		&item.Specifications, &item.Accessories, &item.Notes,
		&item.PurchasePrice, &item.SellingPrice, &item.Status, &item.RepairStatus,
		&item.TotalRepairCost, &item.RepairHistory, &item.SalesDate, &item.CustomerDetails,
		&item.CollectedBy, &item.TrustedCollector, &item.PaymentStatus, &item.TotalAmountPaid,
		&item.BankDetails, &item.InstallmentPayments, &item.StatusLogs, &item.Returns,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}
