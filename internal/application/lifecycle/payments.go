package lifecycle

import (
	"context"

	"github.com/gadgetops/resale-api/internal/application/dto"
	"github.com/gadgetops/resale-api/internal/domain"
	"github.com/gadgetops/resale-api/internal/domain/audit"
	"github.com/gadgetops/resale-api/internal/domain/entity"
	"github.com/gadgetops/resale-api/internal/domain/lifecycle"
	"github.com/gadgetops/resale-api/internal/domain/repository"
)

// UpdatePayments actualiza el libro de pagos de un artículo: anexa pagos
// bancarios y cuotas, recalcula el total cobrado y deriva el estado de pago.
// Cuando el acumulado cubre el precio de venta efectivo el artículo se
// promociona automáticamente a Sold y la venta se registra en la sesión del
// día. Prohibido sobre artículos en reparación o ya vendidos.
func (uc *UseCase) UpdatePayments(ctx context.Context, companyID string, actor entity.Actor, itemID string, in dto.UpdatePaymentsRequest) (*entity.Item, error) {
	if in.SellingPrice != nil && !in.SellingPrice.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	for _, bp := range in.BankDetails {
		if !bp.Amount.IsPositive() || !isValidMethod(bp.PaymentMethod) {
			return nil, domain.ErrInvalidInput
		}
	}
	if in.InstallmentPayment != nil {
		if !in.InstallmentPayment.AmountPaid.IsPositive() || !isValidMethod(in.InstallmentPayment.PaymentMethod) {
			return nil, domain.ErrInvalidInput
		}
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
		if err := lifecycle.CanUpdatePayments(item); err != nil {
			return err
		}
		now := uc.now()
		before := snapshotFields(item,
			"status", "paymentStatus", "sellingPrice", "totalAmountPaid",
			"customerDetails", "collectedBy", "trustedCollector", "salesDate")

		if in.SellingPrice != nil {
			item.SellingPrice = *in.SellingPrice
		}
		if in.CustomerDetails != nil {
			item.CustomerDetails = &entity.Contact{Name: in.CustomerDetails.Name, Contact: in.CustomerDetails.Contact}
		}
		if in.CollectedBy != nil {
			item.CollectedBy = &entity.Contact{Name: in.CollectedBy.Name, Contact: in.CollectedBy.Contact}
		}
		if in.TrustedCollector != nil {
			item.TrustedCollector = *in.TrustedCollector
		}

		for _, bp := range in.BankDetails {
			date := now
			if bp.Date != nil {
				date = *bp.Date
			}
			item.BankDetails = append(item.BankDetails, entity.BankPayment{
				Amount:        bp.Amount,
				PaymentMethod: bp.PaymentMethod,
				BankName:      bp.BankName,
				AccountNumber: bp.AccountNumber,
				Date:          date,
			})
		}
		if ip := in.InstallmentPayment; ip != nil {
			date := now
			if ip.Date != nil {
				date = *ip.Date
			}
			item.InstallmentPayments = append(item.InstallmentPayments, entity.InstallmentPayment{
				AmountPaid:    ip.AmountPaid,
				Date:          date,
				PaymentMethod: ip.PaymentMethod,
				BankName:      ip.BankName,
				Description:   ip.Description,
			})
		}
		item.RecomputeTotalPaid()

		soldNow := false
		effective := item.SellingPrice
		switch {
		case effective.IsPositive() && item.TotalAmountPaid.GreaterThanOrEqual(effective):
			item.PaymentStatus = entity.PaymentPaid
			if item.Status != entity.StatusSold {
				item.Status = entity.StatusSold
				item.AppendStatusLog(entity.StatusSold, actor.ID, now)
				soldNow = true
			}
			if item.SalesDate == nil {
				salesDate := now
				if in.SalesDate != nil {
					salesDate = *in.SalesDate
				}
				item.SalesDate = &salesDate
			}
		case in.PaymentStatus == entity.PaymentNotPaid:
			item.PaymentStatus = entity.PaymentNotPaid
			if item.Status != entity.StatusCollectedUnpaid {
				item.Status = entity.StatusCollectedUnpaid
				item.AppendStatusLog(entity.StatusCollectedUnpaid, actor.ID, now)
			}
		default:
			item.PaymentStatus = entity.PaymentInstallment
			if item.Status != entity.StatusCollected {
				item.Status = entity.StatusCollected
				item.AppendStatusLog(entity.StatusCollected, actor.ID, now)
			}
		}
		item.UpdatedAt = now

		after := snapshotFields(item,
			"status", "paymentStatus", "sellingPrice", "totalAmountPaid",
			"customerDetails", "collectedBy", "trustedCollector", "salesDate")

		if soldNow {
			inc := repository.SessionIncrement{Sales: 1, SalesAmount: effective}
			if err := applySession(sessions, companyID, dateOf(now), inc); err != nil {
				return err
			}
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

// RemoveCollector retira al cobrador de un artículo entregado y lo regresa a
// Available. El estado de pago y los pagos ya registrados se conservan.
func (uc *UseCase) RemoveCollector(ctx context.Context, companyID string, actor entity.Actor, itemID string) (*entity.Item, error) {
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
		if item.CollectedBy == nil {
			return domain.ErrInvalidInput
		}
		now := uc.now()
		before := snapshotFields(item, "status", "collectedBy", "trustedCollector")

		item.CollectedBy = nil
		item.TrustedCollector = false
		if item.Status != entity.StatusAvailable {
			item.Status = entity.StatusAvailable
			item.AppendStatusLog(entity.StatusAvailable, actor.ID, now)
		}
		item.UpdatedAt = now

		after := snapshotFields(item, "status", "collectedBy", "trustedCollector")
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

func isValidMethod(m string) bool {
	switch m {
	case entity.MethodCash, entity.MethodTransfer, entity.MethodCard:
		return true
	}
	return false
}
