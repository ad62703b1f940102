// Package lifecycle implementa el motor de ciclo de vida del inventario:
// la máquina de estados de cada artículo, el libro de pagos, el procesador
// de devoluciones y el rastro de auditoría, todo orquestado de forma
// transaccional sobre los puertos de persistencia.
package lifecycle

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gadgetops/resale-api/internal/application/dto"
	"github.com/gadgetops/resale-api/internal/domain"
	"github.com/gadgetops/resale-api/internal/domain/audit"
	"github.com/gadgetops/resale-api/internal/domain/entity"
	"github.com/gadgetops/resale-api/internal/domain/lifecycle"
	"github.com/gadgetops/resale-api/internal/domain/repository"
)

// UseCase motor de ciclo de vida del inventario. Toda transición corre dentro
// del TxRunner: bloqueo de fila, re-validación del guard, mutación, diff de
// auditoría y contadores de la sesión diaria en la misma transacción.
type UseCase struct {
	txRunner   TxRunner
	itemRepo   repository.ItemRepository
	logRepo    repository.ChangeLogRepository
	returnRepo repository.ReturnRepository
	now        func() time.Time
}

// NewUseCase construye el motor. Los repositorios atados al pool se usan solo
// para lecturas; las mutaciones siempre pasan por el TxRunner.
func NewUseCase(txRunner TxRunner, itemRepo repository.ItemRepository, logRepo repository.ChangeLogRepository, returnRepo repository.ReturnRepository) *UseCase {
	return &UseCase{
		txRunner:   txRunner,
		itemRepo:   itemRepo,
		logRepo:    logRepo,
		returnRepo: returnRepo,
		now:        time.Now,
	}
}

// CreateItem da de alta un artículo. Entra en estado "In Stock" sin precios;
// el número de serie debe ser único dentro de la empresa (domain.ErrDuplicate).
// Si hay una sesión diaria abierta se cuenta como newAddition; el alta fuera
// del horario de la sesión sigue siendo válida.
func (uc *UseCase) CreateItem(ctx context.Context, companyID string, actor entity.Actor, in dto.CreateItemRequest) (*entity.Item, error) {
	if !entity.IsValidDeviceType(in.DeviceType) {
		return nil, domain.ErrInvalidInput
	}
	if in.Brand == "" || in.ModelName == "" || in.SerialNumber == "" || in.Name == "" || in.Condition == "" {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()
	item := &entity.Item{
		ID:              uuid.New().String(),
		CompanyID:       companyID,
		SerialNumber:    in.SerialNumber,
		Name:            in.Name,
		DeviceType:      in.DeviceType,
		Brand:           in.Brand,
		ModelName:       in.ModelName,
		Color:           in.Color,
		Condition:       in.Condition,
		Specifications:  in.Specifications,
		Accessories:     in.Accessories,
		Notes:           in.Notes,
		Status:          entity.StatusInStock,
		PaymentStatus:   entity.PaymentNotPaid,
		PurchasePrice:   decimal.Zero,
		SellingPrice:    decimal.Zero,
		TotalAmountPaid: decimal.Zero,
		TotalRepairCost: decimal.Zero,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	item.AppendStatusLog(entity.StatusInStock, actor.ID, now)

	err := uc.txRunner.Run(ctx, func(
		items repository.ItemRepository,
		_ repository.ChangeLogRepository,
		_ repository.ReturnRepository,
		sessions repository.SessionRepository,
	) error {
		if err := items.Create(item); err != nil {
			return err
		}
		// newAdditions solo si hay sesión abierta; el alta no depende de ella.
		_, err := sessions.ApplyIncrement(companyID, dateOf(now), repository.SessionIncrement{NewAdditions: 1})
		return err
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// GetItem obtiene un artículo verificando el alcance de empresa.
func (uc *UseCase) GetItem(ctx context.Context, companyID, itemID string) (*entity.Item, error) {
	item, err := uc.itemRepo.GetByID(itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if item.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return item, nil
}

// ListItems lista artículos de la empresa con filtros y paginación.
func (uc *UseCase) ListItems(ctx context.Context, companyID string, filter repository.ItemFilter) ([]*entity.Item, int, error) {
	return uc.itemRepo.List(companyID, filter)
}

// GetChangeHistory historial de cambios completo de un artículo, cronológico.
func (uc *UseCase) GetChangeHistory(ctx context.Context, companyID, itemID string) ([]entity.ChangeRecord, error) {
	if _, err := uc.GetItem(ctx, companyID, itemID); err != nil {
		return nil, err
	}
	return uc.logRepo.ListByItem(itemID)
}

// GetChangeHistoryBetween historial filtrado por rango de fechas.
func (uc *UseCase) GetChangeHistoryBetween(ctx context.Context, companyID, itemID string, from, to time.Time) ([]entity.ChangeRecord, error) {
	if _, err := uc.GetItem(ctx, companyID, itemID); err != nil {
		return nil, err
	}
	return uc.logRepo.ListByItemBetween(itemID, from, to)
}

// DeleteItem elimina un artículo de la empresa.
func (uc *UseCase) DeleteItem(ctx context.Context, companyID, itemID string) error {
	return uc.txRunner.Run(ctx, func(
		items repository.ItemRepository,
		_ repository.ChangeLogRepository,
		_ repository.ReturnRepository,
		_ repository.SessionRepository,
	) error {
		deleted, err := items.Delete(itemID, companyID)
		if err != nil {
			return err
		}
		if !deleted {
			return domain.ErrNotFound
		}
		return nil
	})
}

// UpdatePrices fija purchasePrice y sellingPrice (ambos > 0) y deja el
// artículo Available: es el paso de valoración del ingreso.
func (uc *UseCase) UpdatePrices(ctx context.Context, companyID string, actor entity.Actor, itemID string, in dto.UpdatePricesRequest) (*entity.Item, error) {
	if !in.PurchasePrice.IsPositive() || !in.SellingPrice.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	var updated *entity.Item
	err := uc.txRunner.Run(ctx, func(
		items repository.ItemRepository,
		logs repository.ChangeLogRepository,
		_ repository.ReturnRepository,
		_ repository.SessionRepository,
	) error {
		item, err := loadForUpdate(items, companyID, itemID)
		if err != nil {
			return err
		}
		now := uc.now()
		before := snapshotFields(item, "purchasePrice", "sellingPrice", "status")

		item.PurchasePrice = in.PurchasePrice
		item.SellingPrice = in.SellingPrice
		if item.Status != entity.StatusAvailable {
			item.Status = entity.StatusAvailable
			item.AppendStatusLog(entity.StatusAvailable, actor.ID, now)
		}
		item.UpdatedAt = now

		after := snapshotFields(item, "purchasePrice", "sellingPrice", "status")
		if err := items.Update(item); err != nil {
			return err
		}
		if err := logs.Append(audit.Diff(item.ID, companyID, before, after, actor, now)); err != nil {
			return err
		}
		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// UpdateGeneral actualiza campos descriptivos (nombre, modelo, marca,
// especificaciones, notas) con su diff de auditoría. No toca el estado.
func (uc *UseCase) UpdateGeneral(ctx context.Context, companyID string, actor entity.Actor, itemID string, in dto.UpdateGeneralRequest) (*entity.Item, error) {
	var updated *entity.Item
	err := uc.txRunner.Run(ctx, func(
		items repository.ItemRepository,
		logs repository.ChangeLogRepository,
		_ repository.ReturnRepository,
		_ repository.SessionRepository,
	) error {
		item, err := loadForUpdate(items, companyID, itemID)
		if err != nil {
			return err
		}
		now := uc.now()
		before := snapshotFields(item, "name", "modelName", "brand", "specifications", "notes")

		if in.Name != nil {
			item.Name = *in.Name
		}
		if in.ModelName != nil {
			item.ModelName = *in.ModelName
		}
		if in.Brand != nil {
			item.Brand = *in.Brand
		}
		if in.Specifications != nil {
			item.Specifications = in.Specifications
		}
		if in.Notes != nil {
			item.Notes = *in.Notes
		}
		item.UpdatedAt = now

		after := snapshotFields(item, "name", "modelName", "brand", "specifications", "notes")
		if err := items.Update(item); err != nil {
			return err
		}
		if err := logs.Append(audit.Diff(item.ID, companyID, before, after, actor, now)); err != nil {
			return err
		}
		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// SendToRepair Available/In Stock → Under Repair. Registra la entrada en el
// historial de reparaciones (assignedBy = actor), recalcula el costo total y
// cuenta repairsSent en la sesión del día; sin sesión abierta la operación
// completa se aborta.
func (uc *UseCase) SendToRepair(ctx context.Context, companyID string, actor entity.Actor, itemID string, in dto.SendToRepairRequest) (*entity.Item, error) {
	var updated *entity.Item
	err := uc.txRunner.Run(ctx, func(
		items repository.ItemRepository,
		logs repository.ChangeLogRepository,
		_ repository.ReturnRepository,
		sessions repository.SessionRepository,
	) error {
		item, err := loadForUpdate(items, companyID, itemID)
		if err != nil {
			return err
		}
		if err := lifecycle.CanSendToRepair(item); err != nil {
			return err
		}
		now := uc.now()
		before := snapshotFields(item, "status", "repairStatus", "totalRepairCost")

		item.Status = entity.StatusUnderRepair
		item.RepairStatus = entity.RepairInProgress
		item.RepairHistory = append(item.RepairHistory, entity.RepairEntry{
			Date:        now,
			Description: in.Description,
			Technician:  in.Technician,
			AssignedBy:  actor,
			RepairCost:  in.RepairCost,
		})
		item.RecomputeTotalRepairCost()
		item.AppendStatusLog(entity.StatusUnderRepair, actor.ID, now)
		item.UpdatedAt = now

		after := snapshotFields(item, "status", "repairStatus", "totalRepairCost")
		if err := applySession(sessions, companyID, dateOf(now), repository.SessionIncrement{RepairsSent: 1}); err != nil {
			return err
		}
		if err := items.Update(item); err != nil {
			return err
		}
		if err := logs.Append(audit.Diff(item.ID, companyID, before, after, actor, now)); err != nil {
			return err
		}
		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// CompleteRepair Under Repair (In Progress) → Available. Cuenta
// repairsCompleted y suma el costo de la última reparación al flujo de caja
// de reparaciones del día.
func (uc *UseCase) CompleteRepair(ctx context.Context, companyID string, actor entity.Actor, itemID string) (*entity.Item, error) {
	var updated *entity.Item
	err := uc.txRunner.Run(ctx, func(
		items repository.ItemRepository,
		logs repository.ChangeLogRepository,
		_ repository.ReturnRepository,
		sessions repository.SessionRepository,
	) error {
		item, err := loadForUpdate(items, companyID, itemID)
		if err != nil {
			return err
		}
		if err := lifecycle.CanCompleteRepair(item); err != nil {
			return err
		}
		now := uc.now()
		before := snapshotFields(item, "status", "repairStatus")

		item.Status = entity.StatusAvailable
		item.RepairStatus = entity.RepairCompleted
		item.AppendStatusLog(entity.StatusAvailable, actor.ID, now)
		item.UpdatedAt = now

		inc := repository.SessionIncrement{RepairsCompleted: 1}
		if n := len(item.RepairHistory); n > 0 {
			inc.RepairsAmount = item.RepairHistory[n-1].RepairCost
		}
		after := snapshotFields(item, "status", "repairStatus")
		if err := applySession(sessions, companyID, dateOf(now), inc); err != nil {
			return err
		}
		if err := items.Update(item); err != nil {
			return err
		}
		if err := logs.Append(audit.Diff(item.ID, companyID, before, after, actor, now)); err != nil {
			return err
		}
		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// MarkSold Available → Sold. Exige sellingPrice > 0, fija salesDate si no
// existía y cuenta la venta (contador y flujo de caja) en la sesión del día;
// sin sesión abierta la venta no se registra en absoluto.
func (uc *UseCase) MarkSold(ctx context.Context, companyID string, actor entity.Actor, itemID string, in dto.MarkSoldRequest) (*entity.Item, error) {
	if !in.SellingPrice.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	var updated *entity.Item
	err := uc.txRunner.Run(ctx, func(
		items repository.ItemRepository,
		logs repository.ChangeLogRepository,
		_ repository.ReturnRepository,
		sessions repository.SessionRepository,
	) error {
		item, err := loadForUpdate(items, companyID, itemID)
		if err != nil {
			return err
		}
		if err := lifecycle.CanMarkSold(item); err != nil {
			return err
		}
		now := uc.now()
		before := snapshotFields(item, "status", "sellingPrice", "customerDetails", "salesDate")

		item.Status = entity.StatusSold
		item.SellingPrice = in.SellingPrice
		if in.CustomerDetails != nil {
			item.CustomerDetails = &entity.Contact{Name: in.CustomerDetails.Name, Contact: in.CustomerDetails.Contact}
		}
		if item.SalesDate == nil {
			salesDate := now
			if in.SalesDate != nil {
				salesDate = *in.SalesDate
			}
			item.SalesDate = &salesDate
		}
		item.AppendStatusLog(entity.StatusSold, actor.ID, now)
		item.UpdatedAt = now

		after := snapshotFields(item, "status", "sellingPrice", "customerDetails", "salesDate")
		inc := repository.SessionIncrement{Sales: 1, SalesAmount: in.SellingPrice}
		if err := applySession(sessions, companyID, dateOf(now), inc); err != nil {
			return err
		}
		if err := items.Update(item); err != nil {
			return err
		}
		if err := logs.Append(audit.Diff(item.ID, companyID, before, after, actor, now)); err != nil {
			return err
		}
		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// CollectUnpaid entrega el artículo a un cobrador sin pago inmediato:
// estado Collected (Unpaid), paymentStatus Not Paid. Excluido para artículos
// en reparación o ya vendidos.
func (uc *UseCase) CollectUnpaid(ctx context.Context, companyID string, actor entity.Actor, itemID string, in dto.CollectUnpaidRequest) (*entity.Item, error) {
	if in.CollectedBy.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	var updated *entity.Item
	err := uc.txRunner.Run(ctx, func(
		items repository.ItemRepository,
		logs repository.ChangeLogRepository,
		_ repository.ReturnRepository,
		_ repository.SessionRepository,
	) error {
		item, err := loadForUpdate(items, companyID, itemID)
		if err != nil {
			return err
		}
		if err := lifecycle.CanCollectUnpaid(item); err != nil {
			return err
		}
		now := uc.now()
		before := snapshotFields(item, "status", "paymentStatus", "collectedBy", "trustedCollector")

		item.Status = entity.StatusCollectedUnpaid
		item.PaymentStatus = entity.PaymentNotPaid
		item.CollectedBy = &entity.Contact{Name: in.CollectedBy.Name, Contact: in.CollectedBy.Contact}
		item.TrustedCollector = in.TrustedCollector
		item.AppendStatusLog(entity.StatusCollectedUnpaid, actor.ID, now)
		item.UpdatedAt = now

		after := snapshotFields(item, "status", "paymentStatus", "collectedBy", "trustedCollector")
		if err := items.Update(item); err != nil {
			return err
		}
		if err := logs.Append(audit.Diff(item.ID, companyID, before, after, actor, now)); err != nil {
			return err
		}
		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

// loadForUpdate carga el artículo con bloqueo de fila y verifica empresa.
func loadForUpdate(items repository.ItemRepository, companyID, itemID string) (*entity.Item, error) {
	item, err := items.GetForUpdate(itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if item.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return item, nil
}

// applySession aplica el incremento sobre la sesión abierta del día; si no
// hay ninguna, la operación completa falla (nada de aplicación parcial).
func applySession(sessions repository.SessionRepository, companyID string, date time.Time, inc repository.SessionIncrement) error {
	ok, err := sessions.ApplyIncrement(companyID, date, inc)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNoOpenSession
	}
	return nil
}

// dateOf trunca un instante al día calendario UTC que identifica la sesión.
func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// snapshotFields construye la instantánea de auditoría de los campos pedidos.
// Los nombres coinciden con los del historial expuesto por la API.
func snapshotFields(item *entity.Item, fields ...string) audit.Snapshot {
	snap := make(audit.Snapshot, len(fields))
	for _, f := range fields {
		switch f {
		case "status":
			snap[f] = item.Status
		case "repairStatus":
			snap[f] = item.RepairStatus
		case "paymentStatus":
			snap[f] = item.PaymentStatus
		case "purchasePrice":
			snap[f] = item.PurchasePrice
		case "sellingPrice":
			snap[f] = item.SellingPrice
		case "totalAmountPaid":
			snap[f] = item.TotalAmountPaid
		case "totalRepairCost":
			snap[f] = item.TotalRepairCost
		case "salesDate":
			snap[f] = item.SalesDate
		case "customerDetails":
			snap[f] = item.CustomerDetails
		case "collectedBy":
			snap[f] = item.CollectedBy
		case "trustedCollector":
			snap[f] = item.TrustedCollector
		case "name":
			snap[f] = item.Name
		case "modelName":
			snap[f] = item.ModelName
		case "brand":
			snap[f] = item.Brand
		case "specifications":
			snap[f] = item.Specifications
		case "notes":
			snap[f] = item.Notes
		}
	}
	return snap
}
