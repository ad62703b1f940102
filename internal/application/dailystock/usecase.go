package dailystock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gadgetops/resale-api/internal/application/dto"
	"github.com/gadgetops/resale-api/internal/domain"
	"github.com/gadgetops/resale-api/internal/domain/entity"
	"github.com/gadgetops/resale-api/internal/domain/repository"
	"github.com/gadgetops/resale-api/pkg/logger"
)

// DailyReport datos agregados del reporte diario de una empresa.
type DailyReport struct {
	CompanyName string
	Date        time.Time
	Session     *entity.DailyStockSession
	SoldItems   []*entity.Item
}

// UseCase casos de uso de la sesión diaria de stock. La apertura, los
// incrementos y el cierre son operaciones atómicas de una sola sentencia en
// el repositorio, así que no necesitan transacción envolvente.
type UseCase struct {
	sessionRepo repository.SessionRepository
	itemRepo    repository.ItemRepository
	companyRepo repository.CompanyRepository
	sender      ReportSender
	pdf         PDFGenerator
	log         *logger.Logger
	now         func() time.Time
}

// NewUseCase construye el caso de uso. sender y pdf pueden ser nil cuando el
// despliegue no tiene SMTP configurado; en ese caso el envío de reportes
// devuelve domain.ErrInvalidInput.
func NewUseCase(
	sessionRepo repository.SessionRepository,
	itemRepo repository.ItemRepository,
	companyRepo repository.CompanyRepository,
	sender ReportSender,
	pdf PDFGenerator,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		sessionRepo: sessionRepo,
		itemRepo:    itemRepo,
		companyRepo: companyRepo,
		sender:      sender,
		pdf:         pdf,
		log:         log,
		now:         time.Now,
	}
}

// OpenDay abre la sesión del día: cuenta el inventario vigente por bucket y
// la inserta si no existe. Si el día ya tiene sesión (abierta o cerrada)
// devuelve domain.ErrDuplicate.
func (uc *UseCase) OpenDay(ctx context.Context, companyID string, actor entity.Actor) (*entity.DailyStockSession, error) {
	now := uc.now()
	byStatus, err := uc.itemRepo.CountByStatus(companyID)
	if err != nil {
		return nil, err
	}
	session := &entity.DailyStockSession{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		Date:         dateOf(now),
		OpeningTime:  now,
		OpeningCount: entity.CountsFromStatuses(byStatus),
	}
	inserted, err := uc.sessionRepo.InsertIfAbsent(session)
	if err != nil {
		return nil, err
	}
	if !inserted {
		return nil, domain.ErrDuplicate
	}
	uc.log.Info().
		Str("company_id", companyID).
		Str("session_id", session.ID).
		Int("opening_total", session.OpeningCount.Total()).
		Msg("sesión diaria abierta")
	return session, nil
}

// GetSession obtiene la sesión de un día concreto.
func (uc *UseCase) GetSession(ctx context.Context, companyID string, date time.Time) (*entity.DailyStockSession, error) {
	session, err := uc.sessionRepo.Get(companyID, dateOf(date))
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrNotFound
	}
	return session, nil
}

// GetCurrentSession obtiene la sesión abierta de hoy.
func (uc *UseCase) GetCurrentSession(ctx context.Context, companyID string) (*entity.DailyStockSession, error) {
	session, err := uc.sessionRepo.GetOpen(companyID, dateOf(uc.now()))
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrNoOpenSession
	}
	return session, nil
}

// ListSessions lista las sesiones históricas de la empresa.
func (uc *UseCase) ListSessions(ctx context.Context, companyID string, limit, offset int) ([]*entity.DailyStockSession, error) {
	return uc.sessionRepo.ListByCompany(companyID, limit, offset)
}

// RecordTransaction aplica un incremento manual sobre la sesión abierta de
// hoy. Es un ajuste operativo; las transiciones del ciclo de vida registran
// sus transacciones automáticamente.
func (uc *UseCase) RecordTransaction(ctx context.Context, companyID string, in dto.RecordTransactionRequest) (*entity.DailyStockSession, error) {
	qty := in.Quantity
	if qty == 0 {
		qty = 1
	}
	if qty < 0 {
		return nil, domain.ErrInvalidInput
	}
	var inc repository.SessionIncrement
	switch in.TransactionType {
	case dto.TxSale:
		inc.Sales = qty
		inc.SalesAmount = in.Amount
	case dto.TxRepair:
		inc.RepairsSent = qty
	case dto.TxRepairComplete:
		inc.RepairsCompleted = qty
		inc.RepairsAmount = in.Amount
	case dto.TxReturn:
		inc.Returns = qty
	case dto.TxNewAddition:
		inc.NewAdditions = qty
	default:
		return nil, domain.ErrInvalidInput
	}
	date := dateOf(uc.now())
	applied, err := uc.sessionRepo.ApplyIncrement(companyID, date, inc)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, domain.ErrNoOpenSession
	}
	return uc.sessionRepo.Get(companyID, date)
}

// CloseDay cierra la sesión abierta de hoy: recuenta el inventario, calcula
// discrepancias contra la apertura y congela la sesión. Si hay correo de
// reporte configurado el reporte del día se envía al cerrar, sin que un fallo
// de correo deshaga el cierre.
func (uc *UseCase) CloseDay(ctx context.Context, companyID string, actor entity.Actor, in dto.CloseDayRequest) (*entity.DailyStockSession, error) {
	now := uc.now()
	session, err := uc.sessionRepo.GetOpen(companyID, dateOf(now))
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrNoOpenSession
	}
	byStatus, err := uc.itemRepo.CountByStatus(companyID)
	if err != nil {
		return nil, err
	}
	closingTime := now
	session.ClosingTime = &closingTime
	session.ClosingCount = entity.CountsFromStatuses(byStatus)
	session.Discrepancies = session.ComputeDiscrepancies()
	session.Notes = in.Notes
	session.Reconciled = true
	session.ReconciledBy = actor.ID

	closed, err := uc.sessionRepo.Close(session)
	if err != nil {
		return nil, err
	}
	if !closed {
		// Otro caller cerró primero.
		return nil, domain.ErrSessionClosed
	}
	uc.log.Info().
		Str("company_id", companyID).
		Str("session_id", session.ID).
		Int("discrepancies", len(session.Discrepancies)).
		Msg("sesión diaria cerrada")

	uc.sendCloseReport(ctx, companyID, session.Date)
	return session, nil
}

// sendCloseReport envía el reporte del día recién cerrado al correo de
// reporte de la empresa. Best effort: solo loguea fallos.
func (uc *UseCase) sendCloseReport(ctx context.Context, companyID string, date time.Time) {
	if uc.sender == nil {
		return
	}
	company, err := uc.companyRepo.GetByID(companyID)
	if err != nil || company == nil || company.ReportEmail == "" {
		return
	}
	if err := uc.SendDailyReport(ctx, companyID, dto.SendReportRequest{
		Date:      date.Format("2006-01-02"),
		Recipient: company.ReportEmail,
	}); err != nil {
		uc.log.Warn().
			Err(err).
			Str("company_id", companyID).
			Msg("no se pudo enviar el reporte de cierre")
	}
}

// BuildDailyReport ensambla los datos del reporte diario: la sesión del día,
// la empresa y los artículos vendidos en ese día calendario.
func (uc *UseCase) BuildDailyReport(ctx context.Context, companyID string, date time.Time) (*DailyReport, error) {
	day := dateOf(date)
	session, err := uc.GetSession(ctx, companyID, day)
	if err != nil {
		return nil, err
	}
	company, err := uc.companyRepo.GetByID(companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	sold, err := uc.itemRepo.ListSoldBetween(companyID, day, day.Add(24*time.Hour))
	if err != nil {
		return nil, err
	}
	return &DailyReport{
		CompanyName: company.Name,
		Date:        day,
		Session:     session,
		SoldItems:   sold,
	}, nil
}

// SendDailyReport genera y envía por correo el reporte de un día: cuerpo
// HTML y PDF adjunto. Sin destinatario explícito usa el correo de reporte de
// la empresa.
func (uc *UseCase) SendDailyReport(ctx context.Context, companyID string, in dto.SendReportRequest) error {
	if uc.sender == nil || uc.pdf == nil {
		return domain.ErrInvalidInput
	}
	date := uc.now()
	if in.Date != "" {
		parsed, err := time.Parse("2006-01-02", in.Date)
		if err != nil {
			return domain.ErrInvalidInput
		}
		date = parsed
	}
	report, err := uc.BuildDailyReport(ctx, companyID, date)
	if err != nil {
		return err
	}
	recipient := in.Recipient
	if recipient == "" {
		company, err := uc.companyRepo.GetByID(companyID)
		if err != nil {
			return err
		}
		if company == nil || company.ReportEmail == "" {
			return domain.ErrInvalidInput
		}
		recipient = company.ReportEmail
	}
	html, err := RenderHTML(report)
	if err != nil {
		return fmt.Errorf("render reporte HTML: %w", err)
	}
	attachment, err := uc.pdf.GenerateDailyReport(report)
	if err != nil {
		return fmt.Errorf("generar PDF del reporte: %w", err)
	}
	subject := fmt.Sprintf("Reporte diario de stock %s (%s)", report.CompanyName, report.Date.Format("2006-01-02"))
	filename := fmt.Sprintf("reporte-diario-%s.pdf", report.Date.Format("2006-01-02"))
	if err := uc.sender.Send(ctx, recipient, subject, html, attachment, filename); err != nil {
		return fmt.Errorf("enviar reporte diario: %w", err)
	}
	uc.log.Info().
		Str("company_id", companyID).
		Str("recipient", recipient).
		Str("date", report.Date.Format("2006-01-02")).
		Msg("reporte diario enviado")
	return nil
}

// dateOf trunca un instante al día calendario UTC que identifica la sesión.
func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
