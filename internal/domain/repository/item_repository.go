package repository

import (
	"time"

	"github.com/gadgetops/resale-api/internal/domain/entity"
)

// ItemFilter filtros opcionales para listados de inventario.
type ItemFilter struct {
	DeviceType string
	Status     string
	// Search busca por nombre, marca, modelo o número de serie.
	Search string
	Limit  int
	Offset int
}

// ItemRepository puerto de persistencia para artículos de inventario.
// GetForUpdate bloquea la fila (SELECT FOR UPDATE) para que el motor de ciclo
// de vida pueda re-validar el guard y aplicar la mutación dentro de la misma
// transacción: de dos llamadas concurrentes solo una gana, la otra recibe el
// conflicto de estado al re-validar.
type ItemRepository interface {
	Create(item *entity.Item) error
	GetByID(id string) (*entity.Item, error)
	GetBySerial(companyID, serialNumber string) (*entity.Item, error)
	GetForUpdate(id string) (*entity.Item, error)
	Update(item *entity.Item) error
	Delete(id, companyID string) (bool, error)
	List(companyID string, filter ItemFilter) ([]*entity.Item, int, error)
	ListSoldBetween(companyID string, from, to time.Time) ([]*entity.Item, error)
	// CountByStatus agrega el inventario vigente de la empresa por estado crudo.
	CountByStatus(companyID string) (map[string]int, error)
}
