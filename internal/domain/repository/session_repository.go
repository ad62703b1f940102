package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/gadgetops/resale-api/internal/domain/entity"
)

// SessionIncrement incrementos a aplicar atómicamente sobre los contadores y
// el flujo de caja de la sesión abierta del día.
type SessionIncrement struct {
	NewAdditions     int
	Sales            int
	RepairsSent      int
	RepairsCompleted int
	Returns          int
	SalesAmount      decimal.Decimal
	RepairsAmount    decimal.Decimal
}

// SessionRepository puerto de persistencia de la sesión diaria de stock.
//
// InsertIfAbsent es el "insert si no existe" atómico de la apertura: devuelve
// false si ya hay sesión para (companyID, date). ApplyIncrement es el
// update-con-incremento atómico: solo aplica sobre una sesión abierta y
// devuelve false si no había ninguna (inexistente o ya cerrada), de modo que
// dos callers concurrentes nunca pierden actualizaciones de contadores.
type SessionRepository interface {
	InsertIfAbsent(session *entity.DailyStockSession) (bool, error)
	Get(companyID string, date time.Time) (*entity.DailyStockSession, error)
	GetOpen(companyID string, date time.Time) (*entity.DailyStockSession, error)
	ApplyIncrement(companyID string, date time.Time, inc SessionIncrement) (bool, error)
	// Close persiste los campos de cierre; devuelve false si la sesión ya
	// estaba cerrada (guard re-validado en el mismo UPDATE).
	Close(session *entity.DailyStockSession) (bool, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.DailyStockSession, error)
}
