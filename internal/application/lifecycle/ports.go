package lifecycle

import (
	"context"

	"github.com/gadgetops/resale-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Cada transición del motor corre completa
// dentro de un Run: carga con bloqueo de fila, re-validación del guard,
// mutación, auditoría e incremento de la sesión diaria se confirman o se
// revierten juntos (la aplicación parcial es un defecto de corrección).
type TxRunner interface {
	Run(ctx context.Context, fn func(
		itemRepo repository.ItemRepository,
		logRepo repository.ChangeLogRepository,
		returnRepo repository.ReturnRepository,
		sessionRepo repository.SessionRepository,
	) error) error
}
