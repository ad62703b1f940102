package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gadgetops/resale-api/internal/domain/entity"
	"github.com/gadgetops/resale-api/internal/domain/repository"
)

var _ repository.ChangeLogRepository = (*ChangeLogRepo)(nil)

// ChangeLogRepo implementación append-only del historial de cambios sobre
// PostgreSQL. La tabla no tiene UPDATE ni DELETE en ninguna ruta de código.
type ChangeLogRepo struct {
	q Querier
}

// NewChangeLogRepository construye el adaptador del historial. Pasar pool o tx (Querier).
func NewChangeLogRepository(q Querier) *ChangeLogRepo {
	return &ChangeLogRepo{q: q}
}

// Append inserta los registros de cambio preservando el orden recibido.
func (r *ChangeLogRepo) Append(records []entity.ChangeRecord) error {
	query := `
		INSERT INTO change_records (id, item_id, company_id, field, old_value, new_value, changed_by, change_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for _, rec := range records {
		if rec.ID == "" {
			rec.ID = uuid.New().String()
		}
		_, err := r.q.Exec(context.Background(), query,
			rec.ID, rec.ItemID, rec.CompanyID, rec.Field,
			rec.OldValue, rec.NewValue, rec.ChangedBy, rec.ChangeDate,
		)
		if err != nil {
			return fmt.Errorf("insert change record: %w", err)
		}
	}
	return nil
}

const changeRecordColumns = `id, item_id, company_id, field, old_value, new_value, changed_by, change_date`

// ListByItem historial completo de un artículo en orden cronológico.
func (r *ChangeLogRepo) ListByItem(itemID string) ([]entity.ChangeRecord, error) {
	query := `SELECT ` + changeRecordColumns + ` FROM change_records WHERE item_id = $1 ORDER BY change_date, id`
	return r.queryRecords(query, itemID)
}

// ListByItemBetween historial de un artículo en [from, to).
func (r *ChangeLogRepo) ListByItemBetween(itemID string, from, to time.Time) ([]entity.ChangeRecord, error) {
	query := `SELECT ` + changeRecordColumns + `
		FROM change_records
		WHERE item_id = $1 AND change_date >= $2 AND change_date < $3
		ORDER BY change_date, id`
	return r.queryRecords(query, itemID, from, to)
}

func (r *ChangeLogRepo) queryRecords(query string, args ...any) ([]entity.ChangeRecord, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list change records: %w", err)
	}
	defer rows.Close()

	var list []entity.ChangeRecord
	for rows.Next() {
		var rec entity.ChangeRecord
		if err := rows.Scan(
			&rec.ID, &rec.ItemID, &rec.CompanyID, &rec.Field,
			&rec.OldValue, &rec.NewValue, &rec.ChangedBy, &rec.ChangeDate,
		); err != nil {
			return nil, fmt.Errorf("scan change record: %w", err)
		}
		list = append(list, rec)
	}
	return list, rows.Err()
}
