package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound      = errors.New("recurso no encontrado")
	ErrInvalidInput  = errors.New("entrada inválida")
	ErrDuplicate     = errors.New("recurso duplicado")
	ErrUnauthorized  = errors.New("no autorizado")
	ErrForbidden     = errors.New("acceso denegado")
	ErrConflict      = errors.New("conflicto con el estado actual")
	ErrNoOpenSession = errors.New("no hay sesión de stock abierta para hoy")
	ErrSessionClosed = errors.New("la sesión de stock ya está cerrada")
)

// StateConflictError describe una transición rechazada por el motor de ciclo
// de vida: nombra el estado actual del artículo y la acción intentada.
// Envuelve ErrConflict, así que errors.Is(err, ErrConflict) sigue funcionando.
type StateConflictError struct {
	ItemID        string
	CurrentStatus string
	RepairStatus  string
	Action        string
}

func (e *StateConflictError) Error() string {
	if e.RepairStatus != "" {
		return fmt.Sprintf("transición %q no permitida: el artículo %s está en estado %q (reparación: %q)",
			e.Action, e.ItemID, e.CurrentStatus, e.RepairStatus)
	}
	return fmt.Sprintf("transición %q no permitida: el artículo %s está en estado %q",
		e.Action, e.ItemID, e.CurrentStatus)
}

func (e *StateConflictError) Unwrap() error { return ErrConflict }

// NewStateConflict construye el error de transición rechazada.
func NewStateConflict(itemID, currentStatus, repairStatus, action string) *StateConflictError {
	return &StateConflictError{
		ItemID:        itemID,
		CurrentStatus: currentStatus,
		RepairStatus:  repairStatus,
		Action:        action,
	}
}
