package repository

import "github.com/gadgetops/resale-api/internal/domain/entity"

// ReturnRepository puerto de persistencia para registros de devolución.
// Los registros son inmutables: solo Create y lecturas.
type ReturnRepository interface {
	Create(record *entity.ReturnRecord) error
	GetByID(id string) (*entity.ReturnRecord, error)
	ListByItem(itemID string) ([]*entity.ReturnRecord, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.ReturnRecord, error)
}
