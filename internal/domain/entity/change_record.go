package entity

import "time"

// ChangeRecord entrada inmutable de auditoría: captura el antes/después de un
// campo y el actor responsable. Se crea solo como efecto de una mutación
// aprobada; nunca se edita ni se borra. El historial completo se conserva en
// orden cronológico (append).
type ChangeRecord struct {
	ID         string
	ItemID     string
	CompanyID  string
	Field      string
	OldValue   any
	NewValue   any
	ChangedBy  Actor
	ChangeDate time.Time
}
