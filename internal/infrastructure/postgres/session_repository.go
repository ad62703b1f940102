package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/gadgetops/resale-api/internal/domain/entity"
	"github.com/gadgetops/resale-api/internal/domain/repository"
)

var _ repository.SessionRepository = (*SessionRepo)(nil)

// SessionRepo implementación de SessionRepository sobre PostgreSQL. La
// concurrencia de la sesión diaria se resuelve en SQL: la apertura es un
// INSERT ON CONFLICT DO NOTHING sobre la clave (company_id, date) y los
// incrementos y el cierre son UPDATEs condicionados a closing_time IS NULL,
// con el resultado decidido por filas afectadas.
type SessionRepo struct {
	q Querier
}

// NewSessionRepository construye el adaptador de sesiones. Pasar pool o tx (Querier).
func NewSessionRepository(q Querier) *SessionRepo {
	return &SessionRepo{q: q}
}

const sessionColumns = `
	id, company_id, date, opening_time,
	opening_available, opening_in_repair, opening_reserved, opening_damaged,
	closing_time,
	closing_available, closing_in_repair, closing_reserved, closing_damaged,
	tx_new_additions, tx_sales, tx_repairs_sent, tx_repairs_completed, tx_returns,
	cash_sales, cash_repairs, cash_total,
	discrepancies, notes, reconciled, reconciled_by`

// InsertIfAbsent inserta la sesión del día si no existe. Devuelve false si
// (company_id, date) ya tenía sesión.
func (r *SessionRepo) InsertIfAbsent(session *entity.DailyStockSession) (bool, error) {
	query := `
		INSERT INTO daily_sessions (` + sessionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
		        $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25)
		ON CONFLICT (company_id, date) DO NOTHING`
	cmd, err := r.q.Exec(context.Background(), query, sessionArgs(session)...)
	if err != nil {
		return false, fmt.Errorf("insert session: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// Get obtiene la sesión de un día. Devuelve nil, nil si no existe.
func (r *SessionRepo) Get(companyID string, date time.Time) (*entity.DailyStockSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM daily_sessions WHERE company_id = $1 AND date = $2`
	session, err := scanSession(r.q.QueryRow(context.Background(), query, companyID, date))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return session, nil
}

// GetOpen obtiene la sesión del día solo si sigue abierta.
func (r *SessionRepo) GetOpen(companyID string, date time.Time) (*entity.DailyStockSession, error) {
	query := `SELECT ` + sessionColumns + `
		FROM daily_sessions
		WHERE company_id = $1 AND date = $2 AND closing_time IS NULL`
	session, err := scanSession(r.q.QueryRow(context.Background(), query, companyID, date))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get open session: %w", err)
	}
	return session, nil
}

// ApplyIncrement suma contadores y flujo de caja sobre la sesión abierta del
// día en un solo UPDATE. Devuelve false si no había sesión abierta.
func (r *SessionRepo) ApplyIncrement(companyID string, date time.Time, inc repository.SessionIncrement) (bool, error) {
	query := `
		UPDATE daily_sessions SET
			tx_new_additions = tx_new_additions + $3,
			tx_sales = tx_sales + $4,
			tx_repairs_sent = tx_repairs_sent + $5,
			tx_repairs_completed = tx_repairs_completed + $6,
			tx_returns = tx_returns + $7,
			cash_sales = cash_sales + $8,
			cash_repairs = cash_repairs + $9,
			cash_total = cash_sales + $8 + cash_repairs + $9
		WHERE company_id = $1 AND date = $2 AND closing_time IS NULL`
	cmd, err := r.q.Exec(context.Background(), query,
		companyID, date,
		inc.NewAdditions, inc.Sales, inc.RepairsSent, inc.RepairsCompleted, inc.Returns,
		inc.SalesAmount, inc.RepairsAmount,
	)
	if err != nil {
		return false, fmt.Errorf("apply session increment: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// Close persiste los campos de cierre condicionado a que la sesión siga
// abierta. Devuelve false si otro caller cerró primero.
func (r *SessionRepo) Close(session *entity.DailyStockSession) (bool, error) {
	query := `
		UPDATE daily_sessions SET
			closing_time = $3,
			closing_available = $4, closing_in_repair = $5,
			closing_reserved = $6, closing_damaged = $7,
			discrepancies = $8, notes = $9, reconciled = $10, reconciled_by = $11
		WHERE company_id = $1 AND date = $2 AND closing_time IS NULL`
	cmd, err := r.q.Exec(context.Background(), query,
		session.CompanyID, session.Date, session.ClosingTime,
		session.ClosingCount.Available, session.ClosingCount.InRepair,
		session.ClosingCount.Reserved, session.ClosingCount.Damaged,
		session.Discrepancies, session.Notes, session.Reconciled, session.ReconciledBy,
	)
	if err != nil {
		return false, fmt.Errorf("close session: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// ListByCompany sesiones históricas de la empresa, recientes primero.
func (r *SessionRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.DailyStockSession, error) {
	query := `SELECT ` + sessionColumns + `
		FROM daily_sessions WHERE company_id = $1
		ORDER BY date DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var list []*entity.DailyStockSession
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		list = append(list, session)
	}
	return list, rows.Err()
}

func sessionArgs(s *entity.DailyStockSession) []any {
	return []any{
		s.ID, s.CompanyID, s.Date, s.OpeningTime,
		s.OpeningCount.Available, s.OpeningCount.InRepair, s.OpeningCount.Reserved, s.OpeningCount.Damaged,
		s.ClosingTime,
		s.ClosingCount.Available, s.ClosingCount.InRepair, s.ClosingCount.Reserved, s.ClosingCount.Damaged,
		s.Transactions.NewAdditions, s.Transactions.Sales, s.Transactions.RepairsSent,
		s.Transactions.RepairsCompleted, s.Transactions.Returns,
		s.CashFlow.Sales, s.CashFlow.Repairs, s.CashFlow.Total,
		s.Discrepancies, s.Notes, s.Reconciled, s.ReconciledBy,
	}
}

func scanSession(row interface{ Scan(dest ...any) error }) (*entity.DailyStockSession, error) {
	var s entity.DailyStockSession
	err := row.Scan(
		&s.ID, &s.CompanyID, &s.Date, &s.OpeningTime,
		&s.OpeningCount.Available, &s.OpeningCount.InRepair, &s.OpeningCount.Reserved, &s.OpeningCount.Damaged,
		&s.ClosingTime,
		&s.ClosingCount.Available, &s.ClosingCount.InRepair, &s.ClosingCount.Reserved, &s.ClosingCount.Damaged,
		&s.Transactions.NewAdditions, &s.Transactions.Sales, &s.Transactions.RepairsSent,
		&s.Transactions.RepairsCompleted, &s.Transactions.Returns,
		&s.CashFlow.Sales, &s.CashFlow.Repairs, &s.CashFlow.Total,
		&s.Discrepancies, &s.Notes, &s.Reconciled, &s.ReconciledBy,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
