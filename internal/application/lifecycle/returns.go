package lifecycle

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gadgetops/resale-api/internal/application/dto"
	"github.com/gadgetops/resale-api/internal/domain"
	"github.com/gadgetops/resale-api/internal/domain/audit"
	"github.com/gadgetops/resale-api/internal/domain/entity"
	"github.com/gadgetops/resale-api/internal/domain/lifecycle"
	"github.com/gadgetops/resale-api/internal/domain/repository"
)

// ProcessReturn procesa la devolución de un artículo vendido o entregado:
// crea el registro de devolución, enlaza su ID al artículo y lo reingresa al
// inventario como Available con el estado de pago reiniciado. La devolución
// cuenta en la sesión del día; sin sesión abierta se aborta completa.
func (uc *UseCase) ProcessReturn(ctx context.Context, companyID string, actor entity.Actor, itemID string, in dto.ProcessReturnRequest) (*entity.ReturnRecord, *entity.Item, error) {
	if in.RefundType != entity.RefundFull && in.RefundType != entity.RefundPartial {
		return nil, nil, domain.ErrInvalidInput
	}
	if in.RefundAmount.IsNegative() {
		return nil, nil, domain.ErrInvalidInput
	}

	var (
		record  *entity.ReturnRecord
		updated *entity.Item
	)
	err := uc.txRunner.Run(ctx, func(
		items repository.ItemRepository,
		logs repository.ChangeLogRepository,
		returns repository.ReturnRepository,
		sessions repository.SessionRepository,
	) error {
		item, err := loadForUpdate(items, companyID, itemID)
		if err != nil {
			return err
		}
		if err := lifecycle.CanProcessReturn(item); err != nil {
			return err
		}
		now := uc.now()
		returnDate := now
		if in.ReturnDate != nil {
			returnDate = *in.ReturnDate
		}
		rec := &entity.ReturnRecord{
			ID:           uuid.New().String(),
			ItemID:       item.ID,
			CompanyID:    companyID,
			RefundAmount: in.RefundAmount,
			RefundType:   in.RefundType,
			Damage:       in.Damage,
			Notes:        in.Notes,
			ReturnDate:   returnDate,
		}
		before := snapshotFields(item, "status", "paymentStatus", "collectedBy", "salesDate", "purchasePrice", "sellingPrice")

		item.Returns = append(item.Returns, rec.ID)
		item.Status = entity.StatusAvailable
		item.PaymentStatus = entity.PaymentNotPaid
		item.CollectedBy = nil
		item.TrustedCollector = false
		item.SalesDate = nil
		// El reembolso pasa a ser el costo de readquisición; el precio de venta
		// se fija de nuevo en el siguiente paso de tarificación.
		item.PurchasePrice = in.RefundAmount
		item.SellingPrice = decimal.Zero
		item.AppendStatusLog(entity.StatusAvailable, actor.ID, now)
		item.UpdatedAt = now

		after := snapshotFields(item, "status", "paymentStatus", "collectedBy", "salesDate", "purchasePrice", "sellingPrice")
		if err := applySession(sessions, companyID, dateOf(now), repository.SessionIncrement{Returns: 1}); err != nil {
			return err
		}
		if err := returns.Create(rec); err != nil {
			return err
		}
		if err := items.Update(item); err != nil {
			return err
		}
		if err := logs.Append(audit.Diff(item.ID, companyID, before, after, actor, now)); err != nil {
			return err
		}
		record = rec
		updated = item
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return record, updated, nil
}

// GetReturn obtiene una devolución por ID dentro del alcance de la empresa.
func (uc *UseCase) GetReturn(ctx context.Context, companyID, returnID string) (*entity.ReturnRecord, error) {
	rec, err := uc.returnRepo.GetByID(returnID)
	if err != nil {
		return nil, err
	}
	if rec == nil || rec.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return rec, nil
}

// ListReturns lista las devoluciones de un artículo de la empresa.
func (uc *UseCase) ListReturns(ctx context.Context, companyID, itemID string) ([]*entity.ReturnRecord, error) {
	if _, err := uc.GetItem(ctx, companyID, itemID); err != nil {
		return nil, err
	}
	return uc.returnRepo.ListByItem(itemID)
}
