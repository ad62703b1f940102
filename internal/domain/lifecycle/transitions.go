// Package lifecycle contiene las reglas puras de transición de estado de un
// artículo. No toca persistencia: cada guard recibe el artículo ya cargado y
// devuelve nil o un *domain.StateConflictError que nombra el estado actual y
// la acción intentada. Una transición rechazada nunca se aplica en silencio.
package lifecycle

import (
	"github.com/gadgetops/resale-api/internal/domain"
	"github.com/gadgetops/resale-api/internal/domain/entity"
)

// Nombres de acción usados en los errores de conflicto de estado.
const (
	ActionSendToRepair    = "sendToRepair"
	ActionCompleteRepair  = "completeRepair"
	ActionMarkSold        = "markSold"
	ActionCollectUnpaid   = "collectUnpaid"
	ActionProcessReturn   = "processReturn"
	ActionUpdatePayments  = "updateStatusAndPayments"
	ActionRemoveCollector = "removeCollector"
)

// CanSendToRepair Available/In Stock → Under Repair. Un artículo ya en
// reparación o entregado sin pago no puede volver a enviarse.
func CanSendToRepair(item *entity.Item) error {
	switch item.Status {
	case entity.StatusUnderRepair, entity.StatusCollectedUnpaid:
		return domain.NewStateConflict(item.ID, item.Status, item.RepairStatus, ActionSendToRepair)
	}
	return nil
}

// CanCompleteRepair Under Repair (In Progress) → Available.
func CanCompleteRepair(item *entity.Item) error {
	if item.Status != entity.StatusUnderRepair || item.RepairStatus != entity.RepairInProgress {
		return domain.NewStateConflict(item.ID, item.Status, item.RepairStatus, ActionCompleteRepair)
	}
	return nil
}

// CanMarkSold Available → Sold.
func CanMarkSold(item *entity.Item) error {
	if item.Status != entity.StatusAvailable {
		return domain.NewStateConflict(item.ID, item.Status, item.RepairStatus, ActionMarkSold)
	}
	return nil
}

// CanCollectUnpaid cualquier estado salvo Under Repair y Sold → Collected (Unpaid).
func CanCollectUnpaid(item *entity.Item) error {
	switch item.Status {
	case entity.StatusUnderRepair, entity.StatusSold:
		return domain.NewStateConflict(item.ID, item.Status, item.RepairStatus, ActionCollectUnpaid)
	}
	return nil
}

// CanProcessReturn un artículo en reparación nunca es elegible para devolución.
func CanProcessReturn(item *entity.Item) error {
	if item.Status == entity.StatusUnderRepair {
		return domain.NewStateConflict(item.ID, item.Status, item.RepairStatus, ActionProcessReturn)
	}
	return nil
}

// CanUpdatePayments el flujo estado+pagos excluye siempre Under Repair, y un
// artículo ya vendido no admite más cambios por esta vía.
func CanUpdatePayments(item *entity.Item) error {
	switch item.Status {
	case entity.StatusUnderRepair, entity.StatusSold:
		return domain.NewStateConflict(item.ID, item.Status, item.RepairStatus, ActionUpdatePayments)
	}
	return nil
}
