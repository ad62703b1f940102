package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gadgetops/resale-api/internal/application/dto"
	"github.com/gadgetops/resale-api/internal/domain"
	"github.com/gadgetops/resale-api/internal/domain/entity"
	"github.com/gadgetops/resale-api/internal/domain/repository"
)

// ── Fakes en memoria ─────────────────────────────────────────────────────────

type memStore struct {
	items    map[string]*entity.Item
	logs     map[string][]entity.ChangeRecord
	returns  map[string]*entity.ReturnRecord
	sessions map[string]*entity.DailyStockSession
}

func newMemStore() *memStore {
	return &memStore{
		items:    map[string]*entity.Item{},
		logs:     map[string][]entity.ChangeRecord{},
		returns:  map[string]*entity.ReturnRecord{},
		sessions: map[string]*entity.DailyStockSession{},
	}
}

func sessionKey(companyID string, date time.Time) string {
	return companyID + "|" + date.Format("2006-01-02")
}

func copyItem(it *entity.Item) *entity.Item {
	if it == nil {
		return nil
	}
	dup := *it
	return &dup
}

type memItemRepo struct{ s *memStore }

func (r *memItemRepo) Create(item *entity.Item) error {
	for _, existing := range r.s.items {
		if existing.CompanyID == item.CompanyID && existing.SerialNumber == item.SerialNumber {
			return domain.ErrDuplicate
		}
	}
	r.s.items[item.ID] = copyItem(item)
	return nil
}

func (r *memItemRepo) GetByID(id string) (*entity.Item, error) {
	return copyItem(r.s.items[id]), nil
}

func (r *memItemRepo) GetBySerial(companyID, serialNumber string) (*entity.Item, error) {
	for _, it := range r.s.items {
		if it.CompanyID == companyID && it.SerialNumber == serialNumber {
			return copyItem(it), nil
		}
	}
	return nil, nil
}

func (r *memItemRepo) GetForUpdate(id string) (*entity.Item, error) {
	return copyItem(r.s.items[id]), nil
}

func (r *memItemRepo) Update(item *entity.Item) error {
	r.s.items[item.ID] = copyItem(item)
	return nil
}

func (r *memItemRepo) Delete(id, companyID string) (bool, error) {
	it, ok := r.s.items[id]
	if !ok || it.CompanyID != companyID {
		return false, nil
	}
	delete(r.s.items, id)
	return true, nil
}

func (r *memItemRepo) List(companyID string, filter repository.ItemFilter) ([]*entity.Item, int, error) {
	var out []*entity.Item
	for _, it := range r.s.items {
		if it.CompanyID != companyID {
			continue
		}
		if filter.Status != "" && it.Status != filter.Status {
			continue
		}
		if filter.DeviceType != "" && it.DeviceType != filter.DeviceType {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(it.Name+it.Brand+it.ModelName+it.SerialNumber), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, copyItem(it))
	}
	return out, len(out), nil
}

func (r *memItemRepo) ListSoldBetween(companyID string, from, to time.Time) ([]*entity.Item, error) {
	var out []*entity.Item
	for _, it := range r.s.items {
		if it.CompanyID == companyID && it.Status == entity.StatusSold && it.SalesDate != nil &&
			!it.SalesDate.Before(from) && it.SalesDate.Before(to) {
			out = append(out, copyItem(it))
		}
	}
	return out, nil
}

func (r *memItemRepo) CountByStatus(companyID string) (map[string]int, error) {
	counts := map[string]int{}
	for _, it := range r.s.items {
		if it.CompanyID == companyID {
			counts[it.Status]++
		}
	}
	return counts, nil
}

type memLogRepo struct{ s *memStore }

func (r *memLogRepo) Append(records []entity.ChangeRecord) error {
	for _, rec := range records {
		r.s.logs[rec.ItemID] = append(r.s.logs[rec.ItemID], rec)
	}
	return nil
}

func (r *memLogRepo) ListByItem(itemID string) ([]entity.ChangeRecord, error) {
	return r.s.logs[itemID], nil
}

func (r *memLogRepo) ListByItemBetween(itemID string, from, to time.Time) ([]entity.ChangeRecord, error) {
	var out []entity.ChangeRecord
	for _, rec := range r.s.logs[itemID] {
		if !rec.ChangeDate.Before(from) && rec.ChangeDate.Before(to) {
			out = append(out, rec)
		}
	}
	return out, nil
}

type memReturnRepo struct{ s *memStore }

func (r *memReturnRepo) Create(record *entity.ReturnRecord) error {
	r.s.returns[record.ID] = record
	return nil
}

func (r *memReturnRepo) GetByID(id string) (*entity.ReturnRecord, error) {
	return r.s.returns[id], nil
}

func (r *memReturnRepo) ListByItem(itemID string) ([]*entity.ReturnRecord, error) {
	var out []*entity.ReturnRecord
	for _, rec := range r.s.returns {
		if rec.ItemID == itemID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *memReturnRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.ReturnRecord, error) {
	var out []*entity.ReturnRecord
	for _, rec := range r.s.returns {
		if rec.CompanyID == companyID {
			out = append(out, rec)
		}
	}
	return out, nil
}

type memSessionRepo struct{ s *memStore }

func (r *memSessionRepo) InsertIfAbsent(session *entity.DailyStockSession) (bool, error) {
	key := sessionKey(session.CompanyID, session.Date)
	if _, ok := r.s.sessions[key]; ok {
		return false, nil
	}
	dup := *session
	r.s.sessions[key] = &dup
	return true, nil
}

func (r *memSessionRepo) Get(companyID string, date time.Time) (*entity.DailyStockSession, error) {
	return r.s.sessions[sessionKey(companyID, date)], nil
}

func (r *memSessionRepo) GetOpen(companyID string, date time.Time) (*entity.DailyStockSession, error) {
	sess := r.s.sessions[sessionKey(companyID, date)]
	if sess == nil || sess.IsClosed() {
		return nil, nil
	}
	return sess, nil
}

func (r *memSessionRepo) ApplyIncrement(companyID string, date time.Time, inc repository.SessionIncrement) (bool, error) {
	sess := r.s.sessions[sessionKey(companyID, date)]
	if sess == nil || sess.IsClosed() {
		return false, nil
	}
	sess.Transactions.NewAdditions += inc.NewAdditions
	sess.Transactions.Sales += inc.Sales
	sess.Transactions.RepairsSent += inc.RepairsSent
	sess.Transactions.RepairsCompleted += inc.RepairsCompleted
	sess.Transactions.Returns += inc.Returns
	sess.CashFlow.Sales = sess.CashFlow.Sales.Add(inc.SalesAmount)
	sess.CashFlow.Repairs = sess.CashFlow.Repairs.Add(inc.RepairsAmount)
	sess.CashFlow.Total = sess.CashFlow.Sales.Add(sess.CashFlow.Repairs)
	return true, nil
}

func (r *memSessionRepo) Close(session *entity.DailyStockSession) (bool, error) {
	sess := r.s.sessions[sessionKey(session.CompanyID, session.Date)]
	if sess == nil || sess.IsClosed() {
		return false, nil
	}
	*sess = *session
	return true, nil
}

func (r *memSessionRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.DailyStockSession, error) {
	var out []*entity.DailyStockSession
	for _, sess := range r.s.sessions {
		if sess.CompanyID == companyID {
			out = append(out, sess)
		}
	}
	return out, nil
}

type memTxRunner struct{ s *memStore }

func (t *memTxRunner) Run(ctx context.Context, fn func(
	repository.ItemRepository,
	repository.ChangeLogRepository,
	repository.ReturnRepository,
	repository.SessionRepository,
) error) error {
	return fn(&memItemRepo{t.s}, &memLogRepo{t.s}, &memReturnRepo{t.s}, &memSessionRepo{t.s})
}

// ── Arneses ──────────────────────────────────────────────────────────────────

const (
	testCompany = "comp-1"
	otherCo     = "comp-2"
)

var (
	testActor = entity.Actor{ID: "user-1", Name: "Laura Ríos", Email: "laura@acme.test"}
	testNow   = time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC)
)

func newTestUseCase(s *memStore) *UseCase {
	uc := NewUseCase(&memTxRunner{s}, &memItemRepo{s}, &memLogRepo{s}, &memReturnRepo{s})
	uc.now = func() time.Time { return testNow }
	return uc
}

func openSession(s *memStore, companyID string) {
	date := time.Date(testNow.Year(), testNow.Month(), testNow.Day(), 0, 0, 0, 0, time.UTC)
	s.sessions[sessionKey(companyID, date)] = &entity.DailyStockSession{
		ID:          "sess-" + companyID,
		CompanyID:   companyID,
		Date:        date,
		OpeningTime: testNow.Add(-6 * time.Hour),
	}
}

func seedItem(s *memStore, id, status string) *entity.Item {
	item := &entity.Item{
		ID:            id,
		CompanyID:     testCompany,
		SerialNumber:  "SN-" + id,
		Name:          "iPhone 13",
		DeviceType:    "Phone",
		Brand:         "Apple",
		ModelName:     "A2633",
		Condition:     "Used",
		Status:        status,
		PaymentStatus: entity.PaymentNotPaid,
		PurchasePrice: decimal.NewFromInt(300),
		SellingPrice:  decimal.NewFromInt(500),
		CreatedAt:     testNow.Add(-48 * time.Hour),
		UpdatedAt:     testNow.Add(-48 * time.Hour),
	}
	s.items[id] = item
	return item
}

// ── Altas y actualizaciones ──────────────────────────────────────────────────

func TestCreateItem(t *testing.T) {
	s := newMemStore()
	openSession(s, testCompany)
	uc := newTestUseCase(s)

	item, err := uc.CreateItem(context.Background(), testCompany, testActor, dto.CreateItemRequest{
		SerialNumber: "SN-001",
		Name:         "Galaxy S22",
		DeviceType:   "Phone",
		Brand:        "Samsung",
		ModelName:    "SM-S901",
		Condition:    "New",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusInStock, item.Status)
	assert.Equal(t, entity.PaymentNotPaid, item.PaymentStatus)
	assert.True(t, item.PurchasePrice.IsZero())
	require.Len(t, item.StatusLogs, 1)
	assert.Equal(t, entity.StatusInStock, item.StatusLogs[0].Status)

	sess, _ := (&memSessionRepo{s}).Get(testCompany, dateOf(testNow))
	assert.Equal(t, 1, sess.Transactions.NewAdditions)
}

func TestCreateItemWithoutSessionStillSucceeds(t *testing.T) {
	s := newMemStore()
	uc := newTestUseCase(s)

	_, err := uc.CreateItem(context.Background(), testCompany, testActor, dto.CreateItemRequest{
		SerialNumber: "SN-002",
		Name:         "MacBook Air",
		DeviceType:   "Laptop",
		Brand:        "Apple",
		ModelName:    "M2",
		Condition:    "Used",
	})
	require.NoError(t, err)
}

func TestCreateItemRejectsUnknownDeviceType(t *testing.T) {
	s := newMemStore()
	uc := newTestUseCase(s)

	_, err := uc.CreateItem(context.Background(), testCompany, testActor, dto.CreateItemRequest{
		SerialNumber: "SN-003",
		Name:         "Dron X",
		DeviceType:   "Drone",
		Brand:        "DJI",
		ModelName:    "Mini",
		Condition:    "New",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateItemDuplicateSerial(t *testing.T) {
	s := newMemStore()
	seedItem(s, "item-1", entity.StatusAvailable)
	uc := newTestUseCase(s)

	_, err := uc.CreateItem(context.Background(), testCompany, testActor, dto.CreateItemRequest{
		SerialNumber: "SN-item-1",
		Name:         "iPhone 13",
		DeviceType:   "Phone",
		Brand:        "Apple",
		ModelName:    "A2633",
		Condition:    "Used",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestUpdatePricesMakesAvailable(t *testing.T) {
	s := newMemStore()
	item := seedItem(s, "item-1", entity.StatusInStock)
	item.PurchasePrice = decimal.Zero
	item.SellingPrice = decimal.Zero
	uc := newTestUseCase(s)

	updated, err := uc.UpdatePrices(context.Background(), testCompany, testActor, "item-1", dto.UpdatePricesRequest{
		PurchasePrice: decimal.NewFromInt(250),
		SellingPrice:  decimal.NewFromInt(420),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusAvailable, updated.Status)
	assert.True(t, updated.SellingPrice.Equal(decimal.NewFromInt(420)))

	logs, _ := uc.GetChangeHistory(context.Background(), testCompany, "item-1")
	fields := map[string]bool{}
	for _, rec := range logs {
		fields[rec.Field] = true
		assert.Equal(t, testActor.ID, rec.ChangedBy.ID)
	}
	assert.True(t, fields["purchasePrice"])
	assert.True(t, fields["sellingPrice"])
	assert.True(t, fields["status"])
}

func TestUpdatePricesRejectsNonPositive(t *testing.T) {
	s := newMemStore()
	seedItem(s, "item-1", entity.StatusInStock)
	uc := newTestUseCase(s)

	_, err := uc.UpdatePrices(context.Background(), testCompany, testActor, "item-1", dto.UpdatePricesRequest{
		PurchasePrice: decimal.Zero,
		SellingPrice:  decimal.NewFromInt(420),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdateGeneralPartial(t *testing.T) {
	s := newMemStore()
	seedItem(s, "item-1", entity.StatusAvailable)
	uc := newTestUseCase(s)

	notes := "pantalla con rayón leve"
	updated, err := uc.UpdateGeneral(context.Background(), testCompany, testActor, "item-1", dto.UpdateGeneralRequest{
		Notes: &notes,
	})
	require.NoError(t, err)
	assert.Equal(t, notes, updated.Notes)
	assert.Equal(t, "iPhone 13", updated.Name)

	logs, _ := uc.GetChangeHistory(context.Background(), testCompany, "item-1")
	require.Len(t, logs, 1)
	assert.Equal(t, "notes", logs[0].Field)
	assert.Equal(t, notes, logs[0].NewValue)
}

func TestGetItemScopedByCompany(t *testing.T) {
	s := newMemStore()
	seedItem(s, "item-1", entity.StatusAvailable)
	uc := newTestUseCase(s)

	_, err := uc.GetItem(context.Background(), otherCo, "item-1")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.GetItem(context.Background(), testCompany, "no-such")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ── Reparaciones ─────────────────────────────────────────────────────────────

func TestSendToRepair(t *testing.T) {
	s := newMemStore()
	openSession(s, testCompany)
	seedItem(s, "item-1", entity.StatusAvailable)
	uc := newTestUseCase(s)

	updated, err := uc.SendToRepair(context.Background(), testCompany, testActor, "item-1", dto.SendToRepairRequest{
		Description: "cambio de pantalla",
		Technician:  "Marcos",
		RepairCost:  decimal.NewFromInt(80),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusUnderRepair, updated.Status)
	assert.Equal(t, entity.RepairInProgress, updated.RepairStatus)
	require.Len(t, updated.RepairHistory, 1)
	assert.Equal(t, testActor, updated.RepairHistory[0].AssignedBy)
	assert.True(t, updated.TotalRepairCost.Equal(decimal.NewFromInt(80)))

	sess, _ := (&memSessionRepo{s}).Get(testCompany, dateOf(testNow))
	assert.Equal(t, 1, sess.Transactions.RepairsSent)
}

func TestSendToRepairRequiresOpenSession(t *testing.T) {
	s := newMemStore()
	seedItem(s, "item-1", entity.StatusAvailable)
	uc := newTestUseCase(s)

	_, err := uc.SendToRepair(context.Background(), testCompany, testActor, "item-1", dto.SendToRepairRequest{
		Description: "cambio de batería",
		RepairCost:  decimal.NewFromInt(40),
	})
	assert.ErrorIs(t, err, domain.ErrNoOpenSession)

	// Sin sesión abierta nada se persiste.
	stored := s.items["item-1"]
	assert.Equal(t, entity.StatusAvailable, stored.Status)
	assert.Empty(t, stored.RepairHistory)
}

func TestSendToRepairConflicts(t *testing.T) {
	for _, status := range []string{entity.StatusUnderRepair, entity.StatusCollectedUnpaid} {
		t.Run(status, func(t *testing.T) {
			s := newMemStore()
			openSession(s, testCompany)
			seedItem(s, "item-1", status)
			uc := newTestUseCase(s)

			_, err := uc.SendToRepair(context.Background(), testCompany, testActor, "item-1", dto.SendToRepairRequest{})
			assert.ErrorIs(t, err, domain.ErrConflict)

			var conflict *domain.StateConflictError
			require.True(t, errors.As(err, &conflict))
			assert.Equal(t, status, conflict.CurrentStatus)
		})
	}
}

func TestCompleteRepair(t *testing.T) {
	s := newMemStore()
	openSession(s, testCompany)
	item := seedItem(s, "item-1", entity.StatusUnderRepair)
	item.RepairStatus = entity.RepairInProgress
	item.RepairHistory = []entity.RepairEntry{{
		Date:       testNow.Add(-24 * time.Hour),
		RepairCost: decimal.NewFromInt(80),
	}}
	uc := newTestUseCase(s)

	updated, err := uc.CompleteRepair(context.Background(), testCompany, testActor, "item-1")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusAvailable, updated.Status)
	assert.Equal(t, entity.RepairCompleted, updated.RepairStatus)

	sess, _ := (&memSessionRepo{s}).Get(testCompany, dateOf(testNow))
	assert.Equal(t, 1, sess.Transactions.RepairsCompleted)
	assert.True(t, sess.CashFlow.Repairs.Equal(decimal.NewFromInt(80)))
}

func TestCompleteRepairRequiresInProgress(t *testing.T) {
	s := newMemStore()
	openSession(s, testCompany)
	seedItem(s, "item-1", entity.StatusAvailable)
	uc := newTestUseCase(s)

	_, err := uc.CompleteRepair(context.Background(), testCompany, testActor, "item-1")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

// ── Ventas y entregas ────────────────────────────────────────────────────────

func TestMarkSold(t *testing.T) {
	s := newMemStore()
	openSession(s, testCompany)
	seedItem(s, "item-1", entity.StatusAvailable)
	uc := newTestUseCase(s)

	updated, err := uc.MarkSold(context.Background(), testCompany, testActor, "item-1", dto.MarkSoldRequest{
		SellingPrice:    decimal.NewFromInt(550),
		CustomerDetails: &dto.ContactDTO{Name: "Pedro", Contact: "+57 300 111 2233"},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusSold, updated.Status)
	require.NotNil(t, updated.SalesDate)
	assert.Equal(t, testNow, *updated.SalesDate)
	assert.Equal(t, "Pedro", updated.CustomerDetails.Name)

	sess, _ := (&memSessionRepo{s}).Get(testCompany, dateOf(testNow))
	assert.Equal(t, 1, sess.Transactions.Sales)
	assert.True(t, sess.CashFlow.Sales.Equal(decimal.NewFromInt(550)))
}

func TestMarkSoldRequiresOpenSession(t *testing.T) {
	s := newMemStore()
	seedItem(s, "item-1", entity.StatusAvailable)
	uc := newTestUseCase(s)

	_, err := uc.MarkSold(context.Background(), testCompany, testActor, "item-1", dto.MarkSoldRequest{
		SellingPrice: decimal.NewFromInt(550),
	})
	assert.ErrorIs(t, err, domain.ErrNoOpenSession)
	assert.Equal(t, entity.StatusAvailable, s.items["item-1"].Status)
}

func TestMarkSoldOnlyFromAvailable(t *testing.T) {
	for _, status := range []string{entity.StatusInStock, entity.StatusUnderRepair, entity.StatusSold, entity.StatusCollected} {
		t.Run(status, func(t *testing.T) {
			s := newMemStore()
			openSession(s, testCompany)
			seedItem(s, "item-1", status)
			uc := newTestUseCase(s)

			_, err := uc.MarkSold(context.Background(), testCompany, testActor, "item-1", dto.MarkSoldRequest{
				SellingPrice: decimal.NewFromInt(550),
			})
			assert.ErrorIs(t, err, domain.ErrConflict)
		})
	}
}

func TestMarkSoldRejectsZeroPrice(t *testing.T) {
	s := newMemStore()
	openSession(s, testCompany)
	seedItem(s, "item-1", entity.StatusAvailable)
	uc := newTestUseCase(s)

	_, err := uc.MarkSold(context.Background(), testCompany, testActor, "item-1", dto.MarkSoldRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCollectUnpaid(t *testing.T) {
	s := newMemStore()
	seedItem(s, "item-1", entity.StatusAvailable)
	uc := newTestUseCase(s)

	updated, err := uc.CollectUnpaid(context.Background(), testCompany, testActor, "item-1", dto.CollectUnpaidRequest{
		CollectedBy:      dto.ContactDTO{Name: "Andrés", Contact: "+57 301 222 3344"},
		TrustedCollector: true,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCollectedUnpaid, updated.Status)
	assert.Equal(t, entity.PaymentNotPaid, updated.PaymentStatus)
	assert.True(t, updated.TrustedCollector)
	require.NotNil(t, updated.CollectedBy)
	assert.Equal(t, "Andrés", updated.CollectedBy.Name)
}

func TestCollectUnpaidConflicts(t *testing.T) {
	for _, status := range []string{entity.StatusUnderRepair, entity.StatusSold} {
		t.Run(status, func(t *testing.T) {
			s := newMemStore()
			seedItem(s, "item-1", status)
			uc := newTestUseCase(s)

			_, err := uc.CollectUnpaid(context.Background(), testCompany, testActor, "item-1", dto.CollectUnpaidRequest{
				CollectedBy: dto.ContactDTO{Name: "Andrés"},
			})
			assert.ErrorIs(t, err, domain.ErrConflict)
		})
	}
}

func TestRemoveCollector(t *testing.T) {
	s := newMemStore()
	item := seedItem(s, "item-1", entity.StatusCollectedUnpaid)
	item.CollectedBy = &entity.Contact{Name: "Andrés"}
	item.TrustedCollector = true
	uc := newTestUseCase(s)

	updated, err := uc.RemoveCollector(context.Background(), testCompany, testActor, "item-1")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusAvailable, updated.Status)
	assert.Nil(t, updated.CollectedBy)
	assert.False(t, updated.TrustedCollector)
	// El estado de pago no se toca al retirar al cobrador.
	assert.Equal(t, entity.PaymentNotPaid, updated.PaymentStatus)
}

// ── Libro de pagos ───────────────────────────────────────────────────────────

func TestUpdatePaymentsInstallment(t *testing.T) {
	s := newMemStore()
	openSession(s, testCompany)
	seedItem(s, "item-1", entity.StatusAvailable)
	uc := newTestUseCase(s)

	updated, err := uc.UpdatePayments(context.Background(), testCompany, testActor, "item-1", dto.UpdatePaymentsRequest{
		PaymentStatus: entity.PaymentInstallment,
		InstallmentPayment: &dto.InstallmentInput{
			AmountPaid:    decimal.NewFromInt(200),
			PaymentMethod: entity.MethodCash,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentInstallment, updated.PaymentStatus)
	assert.Equal(t, entity.StatusCollected, updated.Status)
	assert.True(t, updated.TotalAmountPaid.Equal(decimal.NewFromInt(200)))
}

func TestUpdatePaymentsAutoPromotesToSold(t *testing.T) {
	s := newMemStore()
	openSession(s, testCompany)
	item := seedItem(s, "item-1", entity.StatusCollected)
	item.PaymentStatus = entity.PaymentInstallment
	item.InstallmentPayments = []entity.InstallmentPayment{{
		AmountPaid:    decimal.NewFromInt(300),
		Date:          testNow.Add(-24 * time.Hour),
		PaymentMethod: entity.MethodCash,
	}}
	item.TotalAmountPaid = decimal.NewFromInt(300)
	uc := newTestUseCase(s)

	updated, err := uc.UpdatePayments(context.Background(), testCompany, testActor, "item-1", dto.UpdatePaymentsRequest{
		InstallmentPayment: &dto.InstallmentInput{
			AmountPaid:    decimal.NewFromInt(200),
			PaymentMethod: entity.MethodTransfer,
			BankName:      "Bancolombia",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentPaid, updated.PaymentStatus)
	assert.Equal(t, entity.StatusSold, updated.Status)
	require.NotNil(t, updated.SalesDate)
	assert.True(t, updated.TotalAmountPaid.Equal(decimal.NewFromInt(500)))

	// La promoción automática cuenta como venta del día.
	sess, _ := (&memSessionRepo{s}).Get(testCompany, dateOf(testNow))
	assert.Equal(t, 1, sess.Transactions.Sales)
	assert.True(t, sess.CashFlow.Sales.Equal(decimal.NewFromInt(500)))
}

func TestUpdatePaymentsNotPaidGoesCollectedUnpaid(t *testing.T) {
	s := newMemStore()
	seedItem(s, "item-1", entity.StatusAvailable)
	uc := newTestUseCase(s)

	updated, err := uc.UpdatePayments(context.Background(), testCompany, testActor, "item-1", dto.UpdatePaymentsRequest{
		PaymentStatus: entity.PaymentNotPaid,
		CollectedBy:   &dto.ContactDTO{Name: "Andrés"},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCollectedUnpaid, updated.Status)
	assert.Equal(t, entity.PaymentNotPaid, updated.PaymentStatus)
}

func TestUpdatePaymentsLedgerSum(t *testing.T) {
	s := newMemStore()
	seedItem(s, "item-1", entity.StatusAvailable)
	uc := newTestUseCase(s)

	updated, err := uc.UpdatePayments(context.Background(), testCompany, testActor, "item-1", dto.UpdatePaymentsRequest{
		PaymentStatus: entity.PaymentInstallment,
		BankDetails: []dto.BankPaymentInput{
			{Amount: decimal.NewFromInt(100), PaymentMethod: entity.MethodTransfer, BankName: "Davivienda"},
			{Amount: decimal.NewFromInt(150), PaymentMethod: entity.MethodCard},
		},
		InstallmentPayment: &dto.InstallmentInput{
			AmountPaid:    decimal.NewFromInt(50),
			PaymentMethod: entity.MethodCash,
		},
	})
	require.NoError(t, err)
	// totalAmountPaid es siempre la suma derivada de ambos libros.
	assert.True(t, updated.TotalAmountPaid.Equal(decimal.NewFromInt(300)),
		fmt.Sprintf("totalAmountPaid = %s", updated.TotalAmountPaid))
	assert.Len(t, updated.BankDetails, 2)
	assert.Len(t, updated.InstallmentPayments, 1)
}

func TestUpdatePaymentsRejectsInvalidMethod(t *testing.T) {
	s := newMemStore()
	seedItem(s, "item-1", entity.StatusAvailable)
	uc := newTestUseCase(s)

	_, err := uc.UpdatePayments(context.Background(), testCompany, testActor, "item-1", dto.UpdatePaymentsRequest{
		InstallmentPayment: &dto.InstallmentInput{
			AmountPaid:    decimal.NewFromInt(50),
			PaymentMethod: "Cheque",
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdatePaymentsBlockedStates(t *testing.T) {
	for _, status := range []string{entity.StatusUnderRepair, entity.StatusSold} {
		t.Run(status, func(t *testing.T) {
			s := newMemStore()
			seedItem(s, "item-1", status)
			uc := newTestUseCase(s)

			_, err := uc.UpdatePayments(context.Background(), testCompany, testActor, "item-1", dto.UpdatePaymentsRequest{
				InstallmentPayment: &dto.InstallmentInput{
					AmountPaid:    decimal.NewFromInt(50),
					PaymentMethod: entity.MethodCash,
				},
			})
			assert.ErrorIs(t, err, domain.ErrConflict)
		})
	}
}

// ── Devoluciones ─────────────────────────────────────────────────────────────

func TestProcessReturn(t *testing.T) {
	s := newMemStore()
	openSession(s, testCompany)
	item := seedItem(s, "item-1", entity.StatusSold)
	item.PaymentStatus = entity.PaymentPaid
	salesDate := testNow.Add(-72 * time.Hour)
	item.SalesDate = &salesDate
	uc := newTestUseCase(s)

	rec, updated, err := uc.ProcessReturn(context.Background(), testCompany, testActor, "item-1", dto.ProcessReturnRequest{
		RefundAmount: decimal.NewFromInt(500),
		RefundType:   entity.RefundFull,
		Damage:       "altavoz dañado",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusAvailable, updated.Status)
	assert.Equal(t, entity.PaymentNotPaid, updated.PaymentStatus)
	assert.Nil(t, updated.SalesDate)
	assert.True(t, updated.PurchasePrice.Equal(decimal.NewFromInt(500)),
		"el reembolso debe quedar como costo de readquisición")
	assert.True(t, updated.SellingPrice.IsZero(),
		"el precio de venta debe reiniciarse tras la devolución")
	require.Len(t, updated.Returns, 1)
	assert.Equal(t, rec.ID, updated.Returns[0])
	assert.Equal(t, entity.RefundFull, rec.RefundType)

	stored, _ := (&memReturnRepo{s}).GetByID(rec.ID)
	require.NotNil(t, stored)
	assert.Equal(t, "item-1", stored.ItemID)

	sess, _ := (&memSessionRepo{s}).Get(testCompany, dateOf(testNow))
	assert.Equal(t, 1, sess.Transactions.Returns)
}

func TestProcessReturnRequiresOpenSession(t *testing.T) {
	s := newMemStore()
	seedItem(s, "item-1", entity.StatusSold)
	uc := newTestUseCase(s)

	_, _, err := uc.ProcessReturn(context.Background(), testCompany, testActor, "item-1", dto.ProcessReturnRequest{
		RefundAmount: decimal.NewFromInt(500),
		RefundType:   entity.RefundFull,
	})
	assert.ErrorIs(t, err, domain.ErrNoOpenSession)
	assert.Equal(t, entity.StatusSold, s.items["item-1"].Status)
	assert.Empty(t, s.returns)
}

func TestProcessReturnRejectsUnderRepair(t *testing.T) {
	s := newMemStore()
	openSession(s, testCompany)
	seedItem(s, "item-1", entity.StatusUnderRepair)
	uc := newTestUseCase(s)

	_, _, err := uc.ProcessReturn(context.Background(), testCompany, testActor, "item-1", dto.ProcessReturnRequest{
		RefundAmount: decimal.NewFromInt(100),
		RefundType:   entity.RefundPartial,
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestProcessReturnValidatesRefundType(t *testing.T) {
	s := newMemStore()
	openSession(s, testCompany)
	seedItem(s, "item-1", entity.StatusSold)
	uc := newTestUseCase(s)

	_, _, err := uc.ProcessReturn(context.Background(), testCompany, testActor, "item-1", dto.ProcessReturnRequest{
		RefundAmount: decimal.NewFromInt(100),
		RefundType:   "Store Credit",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ── Historial de cambios ─────────────────────────────────────────────────────

func TestChangeHistoryAccumulatesAcrossTransitions(t *testing.T) {
	s := newMemStore()
	openSession(s, testCompany)
	seedItem(s, "item-1", entity.StatusAvailable)
	uc := newTestUseCase(s)

	_, err := uc.SendToRepair(context.Background(), testCompany, testActor, "item-1", dto.SendToRepairRequest{
		Description: "cambio de pantalla",
		RepairCost:  decimal.NewFromInt(80),
	})
	require.NoError(t, err)
	_, err = uc.CompleteRepair(context.Background(), testCompany, testActor, "item-1")
	require.NoError(t, err)

	logs, err := uc.GetChangeHistory(context.Background(), testCompany, "item-1")
	require.NoError(t, err)
	// Dos transiciones: status+repairStatus+totalRepairCost, luego status+repairStatus.
	assert.GreaterOrEqual(t, len(logs), 4)
	for _, rec := range logs {
		assert.Equal(t, "item-1", rec.ItemID)
		assert.Equal(t, testCompany, rec.CompanyID)
	}
}

func TestChangeHistoryScopedByCompany(t *testing.T) {
	s := newMemStore()
	seedItem(s, "item-1", entity.StatusAvailable)
	uc := newTestUseCase(s)

	_, err := uc.GetChangeHistory(context.Background(), otherCo, "item-1")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
