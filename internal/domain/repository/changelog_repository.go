package repository

import (
	"time"

	"github.com/gadgetops/resale-api/internal/domain/entity"
)

// ChangeLogRepository puerto de persistencia del historial de cambios.
// El historial es append-only: no hay Update ni Delete.
type ChangeLogRepository interface {
	Append(records []entity.ChangeRecord) error
	// ListByItem devuelve el historial completo en orden cronológico.
	ListByItem(itemID string) ([]entity.ChangeRecord, error)
	ListByItemBetween(itemID string, from, to time.Time) ([]entity.ChangeRecord, error)
}
