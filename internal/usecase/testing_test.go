package usecase

import (
	"context"
	"sync"
	"time"

	"gym-booking/internal/data/entity"
	"gym-booking/internal/data/repository"
	"gym-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// memStore backs the fake repositories. The fake transaction holds the store
// mutex between Begin and Commit/Rollback, which gives the tests serializable
// transactions — the same guarantee the real store provides.
type memStore struct {
	mu sync.Mutex

	classes       map[uuid.UUID]*entity.Class
	packages      map[uuid.UUID]*entity.GymPackage
	members       map[uuid.UUID]*entity.Member
	bookings      []*entity.Booking
	registrations map[uuid.UUID]*entity.Registration
	payments      map[uuid.UUID]*entity.Payment
	gateways      map[string]*entity.PaymentGateway
	notifications []*entity.Notification
}

func newMemStore() *memStore {
	return &memStore{
		classes:       map[uuid.UUID]*entity.Class{},
		packages:      map[uuid.UUID]*entity.GymPackage{},
		members:       map[uuid.UUID]*entity.Member{},
		registrations: map[uuid.UUID]*entity.Registration{},
		payments:      map[uuid.UUID]*entity.Payment{},
		gateways:      map[string]*entity.PaymentGateway{},
	}
}

func newTestRepo(store *memStore) *repository.Repository {
	return &repository.Repository{
		DB:             &fakeDB{store: store},
		Member:         &fakeMemberRepo{store: store},
		Class:          &fakeClassRepo{store: store},
		Package:        &fakePackageRepo{store: store},
		Booking:        &fakeBookingRepo{store: store},
		Registration:   &fakeRegistrationRepo{store: store},
		Payment:        &fakePaymentRepo{store: store},
		PaymentGateway: &fakeGatewayRepo{store: store},
		Notification:   &fakeNotificationRepo{store: store},
	}
}

// ---------- fake database ----------

type fakeDB struct {
	store *memStore
}

func (db *fakeDB) Query(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
	panic("not used by fakes")
}

func (db *fakeDB) QueryRow(_ context.Context, _ string, _ ...any) pgx.Row {
	panic("not used by fakes")
}

func (db *fakeDB) Exec(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (db *fakeDB) Begin(_ context.Context) (database.Tx, error) {
	db.store.mu.Lock()
	return &fakeTx{store: db.store}, nil
}

func (db *fakeDB) Ping(_ context.Context) error { return nil }
func (db *fakeDB) Close()                       {}

type fakeTx struct {
	store *memStore
	done  bool
}

func (tx *fakeTx) Query(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
	panic("not used by fakes")
}

func (tx *fakeTx) QueryRow(_ context.Context, _ string, _ ...any) pgx.Row {
	panic("not used by fakes")
}

func (tx *fakeTx) Exec(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (tx *fakeTx) Commit(_ context.Context) error {
	if !tx.done {
		tx.done = true
		tx.store.mu.Unlock()
	}
	return nil
}

func (tx *fakeTx) Rollback(_ context.Context) error {
	if !tx.done {
		tx.done = true
		tx.store.mu.Unlock()
	}
	return nil
}

// ---------- fake repositories ----------

type fakeClassRepo struct{ store *memStore }

func (r *fakeClassRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Class, error) {
	class, ok := r.store.classes[id]
	if !ok {
		return nil, nil
	}
	copyItem := *class
	return &copyItem, nil
}

type fakePackageRepo struct{ store *memStore }

func (r *fakePackageRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.GymPackage, error) {
	pkg, ok := r.store.packages[id]
	if !ok {
		return nil, nil
	}
	copyItem := *pkg
	return &copyItem, nil
}

type fakeMemberRepo struct{ store *memStore }

func (r *fakeMemberRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Member, error) {
	member, ok := r.store.members[id]
	if !ok {
		return nil, nil
	}
	copyItem := *member
	return &copyItem, nil
}

func (r *fakeMemberRepo) FindStaff(_ context.Context) ([]*entity.Member, error) {
	var staff []*entity.Member
	for _, member := range r.store.members {
		if member.Role == entity.RoleAdmin && member.IsActive {
			copyItem := *member
			staff = append(staff, &copyItem)
		}
	}
	return staff, nil
}

type fakeBookingRepo struct{ store *memStore }

func (r *fakeBookingRepo) CreateTx(_ context.Context, _ database.Querier, booking *entity.Booking) error {
	copyItem := *booking
	r.store.bookings = append(r.store.bookings, &copyItem)
	return nil
}

func (r *fakeBookingRepo) CountBookedTx(_ context.Context, _ database.Querier, classID uuid.UUID, date time.Time) (int, error) {
	count := 0
	for _, b := range r.store.bookings {
		if b.ClassID == classID && b.Date.Equal(date) && b.Status == entity.BookingStatusBooked {
			count++
		}
	}
	return count, nil
}

func (r *fakeBookingRepo) ExistsBookedTx(_ context.Context, _ database.Querier, memberID, classID uuid.UUID, date time.Time) (bool, error) {
	for _, b := range r.store.bookings {
		if b.MemberID == memberID && b.ClassID == classID && b.Date.Equal(date) && b.Status == entity.BookingStatusBooked {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	for _, b := range r.store.bookings {
		if b.ID == id {
			copyItem := *b
			return &copyItem, nil
		}
	}
	return nil, nil
}

func (r *fakeBookingRepo) FindByMemberID(_ context.Context, memberID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	var out []*entity.Booking
	for _, b := range r.store.bookings {
		if b.MemberID == memberID {
			copyItem := *b
			out = append(out, &copyItem)
		}
	}
	if offset > len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeBookingRepo) CountByMemberID(_ context.Context, memberID uuid.UUID) (int64, error) {
	var count int64
	for _, b := range r.store.bookings {
		if b.MemberID == memberID {
			count++
		}
	}
	return count, nil
}

func (r *fakeBookingRepo) UpdateStatus(_ context.Context, bookingID uuid.UUID, status entity.BookingStatus) error {
	for _, b := range r.store.bookings {
		if b.ID == bookingID {
			b.Status = status
			return nil
		}
	}
	return nil
}

type fakeRegistrationRepo struct{ store *memStore }

func (r *fakeRegistrationRepo) Create(_ context.Context, reg *entity.Registration) error {
	copyItem := *reg
	r.store.registrations[reg.ID] = &copyItem
	return nil
}

func (r *fakeRegistrationRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Registration, error) {
	reg, ok := r.store.registrations[id]
	if !ok {
		return nil, nil
	}
	copyItem := *reg
	return &copyItem, nil
}

func (r *fakeRegistrationRepo) FindByMemberID(_ context.Context, memberID uuid.UUID, _, _ int) ([]*entity.Registration, error) {
	var out []*entity.Registration
	for _, reg := range r.store.registrations {
		if reg.MemberID == memberID {
			copyItem := *reg
			out = append(out, &copyItem)
		}
	}
	return out, nil
}

func (r *fakeRegistrationRepo) CountByMemberID(_ context.Context, memberID uuid.UUID) (int64, error) {
	var count int64
	for _, reg := range r.store.registrations {
		if reg.MemberID == memberID {
			count++
		}
	}
	return count, nil
}

func (r *fakeRegistrationRepo) FindActiveExpiredBefore(_ context.Context, cutoff time.Time) ([]*entity.Registration, error) {
	var out []*entity.Registration
	for _, reg := range r.store.registrations {
		if reg.Status == entity.RegistrationStatusActive && reg.EndDate != nil && !reg.EndDate.After(cutoff) {
			copyItem := *reg
			out = append(out, &copyItem)
		}
	}
	return out, nil
}

func (r *fakeRegistrationRepo) UpdateLifecycleTx(_ context.Context, _ database.Querier, reg *entity.Registration, from entity.RegistrationStatus) (bool, error) {
	current, ok := r.store.registrations[reg.ID]
	if !ok || current.Status != from {
		return false, nil
	}
	copyItem := *reg
	r.store.registrations[reg.ID] = &copyItem
	return true, nil
}

type fakePaymentRepo struct{ store *memStore }

func (r *fakePaymentRepo) Create(_ context.Context, payment *entity.Payment) error {
	copyItem := *payment
	r.store.payments[payment.ID] = &copyItem
	return nil
}

func (r *fakePaymentRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Payment, error) {
	payment, ok := r.store.payments[id]
	if !ok {
		return nil, nil
	}
	copyItem := *payment
	return &copyItem, nil
}

func (r *fakePaymentRepo) FindByRegistrationID(_ context.Context, registrationID uuid.UUID) ([]*entity.Payment, error) {
	var out []*entity.Payment
	for _, p := range r.store.payments {
		if p.RegistrationID != nil && *p.RegistrationID == registrationID {
			copyItem := *p
			out = append(out, &copyItem)
		}
	}
	return out, nil
}

func (r *fakePaymentRepo) ResolveTx(_ context.Context, _ database.Querier, paymentID uuid.UUID, status entity.PaymentStatus, paidAt time.Time) (bool, error) {
	payment, ok := r.store.payments[paymentID]
	if !ok || payment.Status != entity.PaymentStatusPending {
		return false, nil
	}
	payment.Status = status
	payment.PaidAt = &paidAt
	payment.UpdatedAt = paidAt
	return true, nil
}

type fakeGatewayRepo struct{ store *memStore }

func (r *fakeGatewayRepo) Create(_ context.Context, record *entity.PaymentGateway) error {
	copyItem := *record
	r.store.gateways[record.OrderID] = &copyItem
	return nil
}

func (r *fakeGatewayRepo) FindByOrderID(_ context.Context, orderID string) (*entity.PaymentGateway, error) {
	record, ok := r.store.gateways[orderID]
	if !ok {
		return nil, nil
	}
	copyItem := *record
	return &copyItem, nil
}

func (r *fakeGatewayRepo) FindByPaymentID(_ context.Context, paymentID uuid.UUID) (*entity.PaymentGateway, error) {
	for _, record := range r.store.gateways {
		if record.PaymentID == paymentID {
			copyItem := *record
			return &copyItem, nil
		}
	}
	return nil, nil
}

func (r *fakeGatewayRepo) MarkResolvedTx(_ context.Context, _ database.Querier, orderID, responseCode, transactionNo, message string, callbackAt time.Time) (bool, error) {
	record, ok := r.store.gateways[orderID]
	if !ok || record.CallbackAt != nil {
		return false, nil
	}
	record.ResponseCode = &responseCode
	record.TransactionNo = &transactionNo
	record.Message = message
	record.CallbackAt = &callbackAt
	return true, nil
}

type fakeNotificationRepo struct{ store *memStore }

func (r *fakeNotificationRepo) Create(_ context.Context, notification *entity.Notification) error {
	copyItem := *notification
	r.store.notifications = append(r.store.notifications, &copyItem)
	return nil
}

// ---------- fake notifier ----------

type recordedNotification struct {
	RecipientID uuid.UUID
	Title       string
	Category    entity.NotificationCategory
	Staff       bool
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []recordedNotification
}

func (n *fakeNotifier) Notify(recipientID uuid.UUID, title, _ string, category entity.NotificationCategory) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, recordedNotification{RecipientID: recipientID, Title: title, Category: category})
}

func (n *fakeNotifier) NotifyStaff(title, _ string, category entity.NotificationCategory) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, recordedNotification{Title: title, Category: category, Staff: true})
}
