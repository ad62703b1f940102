package audit

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gadgetops/resale-api/internal/domain/entity"
)

var (
	actor = entity.Actor{ID: "user-1", Name: "Laura Ríos", Email: "laura@acme.test"}
	at    = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
)

func TestDiffDetectsChangedFields(t *testing.T) {
	before := Snapshot{"status": "Available", "sellingPrice": decimal.NewFromInt(500)}
	after := Snapshot{"status": "Sold", "sellingPrice": decimal.NewFromInt(550)}

	records := Diff("item-1", "comp-1", before, after, actor, at)
	require.Len(t, records, 2)
	// Orden estable por nombre de campo.
	assert.Equal(t, "sellingPrice", records[0].Field)
	assert.Equal(t, "status", records[1].Field)
	assert.Equal(t, "Available", records[1].OldValue)
	assert.Equal(t, "Sold", records[1].NewValue)
	for _, rec := range records {
		assert.Equal(t, "item-1", rec.ItemID)
		assert.Equal(t, "comp-1", rec.CompanyID)
		assert.Equal(t, actor, rec.ChangedBy)
		assert.Equal(t, at, rec.ChangeDate)
	}
}

func TestDiffSkipsUnchangedFields(t *testing.T) {
	before := Snapshot{"status": "Available", "notes": "sin novedades"}
	after := Snapshot{"status": "Under Repair", "notes": "sin novedades"}

	records := Diff("item-1", "comp-1", before, after, actor, at)
	require.Len(t, records, 1)
	assert.Equal(t, "status", records[0].Field)
}

func TestDiffDecimalsByMagnitude(t *testing.T) {
	// 500 y 500.00 son el mismo monto: sin registro.
	before := Snapshot{"sellingPrice": decimal.NewFromInt(500)}
	after := Snapshot{"sellingPrice": decimal.RequireFromString("500.00")}

	assert.Empty(t, Diff("item-1", "comp-1", before, after, actor, at))
}

func TestDiffTimePointers(t *testing.T) {
	sale := time.Date(2025, 3, 9, 18, 0, 0, 0, time.UTC)
	var noSale *time.Time

	records := Diff("item-1", "comp-1",
		Snapshot{"salesDate": noSale},
		Snapshot{"salesDate": &sale},
		actor, at)
	require.Len(t, records, 1)
	assert.Equal(t, "salesDate", records[0].Field)

	same := sale
	assert.Empty(t, Diff("item-1", "comp-1",
		Snapshot{"salesDate": &sale},
		Snapshot{"salesDate": &same},
		actor, at))
}

func TestDiffNestedValues(t *testing.T) {
	before := Snapshot{"customerDetails": (*entity.Contact)(nil)}
	after := Snapshot{"customerDetails": &entity.Contact{Name: "Pedro", Contact: "+57 300 111 2233"}}

	records := Diff("item-1", "comp-1", before, after, actor, at)
	require.Len(t, records, 1)
	assert.Equal(t, "customerDetails", records[0].Field)
}

func TestDiffNilSnapshotsNeverFail(t *testing.T) {
	assert.Nil(t, Diff("item-1", "comp-1", nil, Snapshot{"status": "Sold"}, actor, at))
	assert.Nil(t, Diff("item-1", "comp-1", Snapshot{"status": "Sold"}, nil, actor, at))
	assert.Nil(t, Diff("item-1", "comp-1", nil, nil, actor, at))
}
