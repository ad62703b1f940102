package postgres

import (
	"context"
	"fmt"

	"github.com/gadgetops/resale-api/internal/domain/entity"
	"github.com/gadgetops/resale-api/internal/domain/repository"
)

var _ repository.ReturnRepository = (*ReturnRepo)(nil)

// ReturnRepo implementación de ReturnRepository sobre PostgreSQL. Los
// registros de devolución son inmutables una vez insertados.
type ReturnRepo struct {
	q Querier
}

// NewReturnRepository construye el adaptador de devoluciones. Pasar pool o tx (Querier).
func NewReturnRepository(q Querier) *ReturnRepo {
	return &ReturnRepo{q: q}
}

const returnColumns = `id, item_id, company_id, refund_amount, refund_type, damage, notes, return_date`

// Create persiste un registro de devolución.
func (r *ReturnRepo) Create(record *entity.ReturnRecord) error {
	query := `
		INSERT INTO returns (` + returnColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		record.ID, record.ItemID, record.CompanyID, record.RefundAmount,
		record.RefundType, record.Damage, record.Notes, record.ReturnDate,
	)
	if err != nil {
		return fmt.Errorf("insert return: %w", err)
	}
	return nil
}

// GetByID obtiene un registro de devolución. Devuelve nil, nil si no existe.
func (r *ReturnRepo) GetByID(id string) (*entity.ReturnRecord, error) {
	query := `SELECT ` + returnColumns + ` FROM returns WHERE id = $1`
	var rec entity.ReturnRecord
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&rec.ID, &rec.ItemID, &rec.CompanyID, &rec.RefundAmount,
		&rec.RefundType, &rec.Damage, &rec.Notes, &rec.ReturnDate,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get return: %w", err)
	}
	return &rec, nil
}

// ListByItem devoluciones de un artículo en orden cronológico.
func (r *ReturnRepo) ListByItem(itemID string) ([]*entity.ReturnRecord, error) {
	query := `SELECT ` + returnColumns + ` FROM returns WHERE item_id = $1 ORDER BY return_date`
	return r.queryReturns(query, itemID)
}

// ListByCompany devoluciones de la empresa, recientes primero.
func (r *ReturnRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.ReturnRecord, error) {
	query := `SELECT ` + returnColumns + `
		FROM returns WHERE company_id = $1
		ORDER BY return_date DESC LIMIT $2 OFFSET $3`
	return r.queryReturns(query, companyID, limit, offset)
}

func (r *ReturnRepo) queryReturns(query string, args ...any) ([]*entity.ReturnRecord, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list returns: %w", err)
	}
	defer rows.Close()

	var list []*entity.ReturnRecord
	for rows.Next() {
		var rec entity.ReturnRecord
		if err := rows.Scan(
			&rec.ID, &rec.ItemID, &rec.CompanyID, &rec.RefundAmount,
			&rec.RefundType, &rec.Damage, &rec.Notes, &rec.ReturnDate,
		); err != nil {
			return nil, fmt.Errorf("scan return: %w", err)
		}
		list = append(list, &rec)
	}
	return list, rows.Err()
}
