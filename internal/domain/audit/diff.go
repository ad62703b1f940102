// Package audit implementa el registrador de historial de cambios como una
// función pura: compara instantáneas de campos antes/después de una mutación
// y produce los registros de auditoría. Al ser puro se puede probar sin
// datastore y no hay flujo de control oculto (nada de hooks de esquema).
package audit

import (
	"reflect"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gadgetops/resale-api/internal/domain/entity"
)

// Snapshot instantánea de los campos mutables tocados por una operación.
// La clave es el nombre de campo tal como se expone en el historial.
type Snapshot map[string]any

// Diff compara cada campo presente en la mutación y devuelve un registro por
// campo cuyo valor realmente cambió (comparación profunda por valor, no por
// intención). Nunca falla: instantáneas nil o malformadas degradan a cero
// registros en lugar de abortar la transición. Los registros se devuelven en
// un orden estable por nombre de campo; el historial completo se conserva en
// orden cronológico de inserción (append).
func Diff(itemID, companyID string, before, after Snapshot, actor entity.Actor, at time.Time) []entity.ChangeRecord {
	if before == nil || after == nil {
		return nil
	}
	fields := make([]string, 0, len(after))
	for field := range after {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var records []entity.ChangeRecord
	for _, field := range fields {
		oldValue, newValue := before[field], after[field]
		if equalValues(oldValue, newValue) {
			continue
		}
		records = append(records, entity.ChangeRecord{
			ItemID:     itemID,
			CompanyID:  companyID,
			Field:      field,
			OldValue:   oldValue,
			NewValue:   newValue,
			ChangedBy:  actor,
			ChangeDate: at,
		})
	}
	return records
}

// equalValues comparación profunda por valor. Los decimales se comparan por
// magnitud (1.0 == 1.00) y los punteros de tiempo por instante.
func equalValues(a, b any) bool {
	if a == nil && b == nil {
		return true
	}
	if da, ok := a.(decimal.Decimal); ok {
		if db, ok := b.(decimal.Decimal); ok {
			return da.Equal(db)
		}
		return false
	}
	if ta, ok := asTime(a); ok {
		tb, okb := asTime(b)
		return okb && ta.Equal(tb)
	}
	return reflect.DeepEqual(a, b)
}

func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, true
	}
	return time.Time{}, false
}
