package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gadgetops/resale-api/internal/application/lifecycle"
	"github.com/gadgetops/resale-api/internal/domain/repository"
)

// Asegura que TxRunner implementa el puerto del motor de ciclo de vida.
var _ lifecycle.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL. El motor
// de ciclo de vida depende de que GetForUpdate, la mutación, el historial y
// los contadores de sesión compartan transacción: el Rollback diferido
// garantiza que un guard rechazado no deja efectos parciales.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	itemRepo repository.ItemRepository,
	logRepo repository.ChangeLogRepository,
	returnRepo repository.ReturnRepository,
	sessionRepo repository.SessionRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	itemRepo := NewItemRepository(tx)
	logRepo := NewChangeLogRepository(tx)
	returnRepo := NewReturnRepository(tx)
	sessionRepo := NewSessionRepository(tx)

	if err := fn(itemRepo, logRepo, returnRepo, sessionRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
