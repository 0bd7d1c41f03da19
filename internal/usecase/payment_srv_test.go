package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"gym-booking/internal/data/entity"
	"gym-booking/internal/dto/request"
	"gym-booking/internal/gateway/vnpay"
	"gym-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func testGateway() *vnpay.Client {
	return vnpay.NewClient(utils.VNPayConfig{
		TmnCode:    "TESTCODE",
		HashSecret: "test-secret",
		PayURL:     "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html",
		ReturnURL:  "https://gym.example.com/api/payment/vnpay/callback",
	})
}

func seedPackage(store *memStore, durationDays int) *entity.GymPackage {
	pkg := &entity.GymPackage{
		Base:         entity.Base{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now()},
		Name:         "1 Month",
		DurationDays: durationDays,
		Price:        500000,
		IsActive:     true,
	}
	store.packages[pkg.ID] = pkg
	return pkg
}

func seedPendingRegistration(store *memStore, pkg *entity.GymPackage) *entity.Registration {
	now := time.Now()
	pkgID := pkg.ID
	reg := &entity.Registration{
		Base:       entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		MemberID:   uuid.New(),
		PackageID:  &pkgID,
		Kind:       entity.RegistrationKindPackage,
		StartDate:  time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		Status:     entity.RegistrationStatusPendingPayment,
		StatusNote: "awaiting payment",
	}
	store.registrations[reg.ID] = reg
	return reg
}

func TestCreateCashPayment(t *testing.T) {
	store := newMemStore()
	pkg := seedPackage(store, 30)
	reg := seedPendingRegistration(store, pkg)
	svc := NewPaymentService(newTestRepo(store), testGateway(), &fakeNotifier{}, zap.NewNop())

	regID := reg.ID.String()
	resp, err := svc.CreatePayment(context.Background(), reg.MemberID.String(), "10.0.0.1", &request.CreatePaymentRequest{
		RegistrationID: &regID,
		Amount:         pkg.Price,
		Method:         "cash",
	})
	if err != nil {
		t.Fatalf("CreatePayment failed: %v", err)
	}
	if resp.Payment.Status != entity.PaymentStatusPending {
		t.Errorf("expected pending payment, got %s", resp.Payment.Status)
	}
	if resp.PaymentURL != "" {
		t.Errorf("cash payment must not carry a redirect URL")
	}
	if len(store.gateways) != 0 {
		t.Errorf("cash payment must not create a gateway record")
	}
}

func TestCreateGatewayPayment(t *testing.T) {
	store := newMemStore()
	pkg := seedPackage(store, 30)
	reg := seedPendingRegistration(store, pkg)
	svc := NewPaymentService(newTestRepo(store), testGateway(), &fakeNotifier{}, zap.NewNop())

	regID := reg.ID.String()
	resp, err := svc.CreatePayment(context.Background(), reg.MemberID.String(), "10.0.0.1", &request.CreatePaymentRequest{
		RegistrationID: &regID,
		Amount:         pkg.Price,
		Method:         "vnpay",
	})
	if err != nil {
		t.Fatalf("CreatePayment failed: %v", err)
	}
	if resp.PaymentURL == "" {
		t.Fatal("gateway payment must return a redirect URL")
	}
	if !strings.Contains(resp.PaymentURL, "vnp_SecureHash=") {
		t.Errorf("redirect URL is not signed: %s", resp.PaymentURL)
	}
	if len(store.gateways) != 1 {
		t.Fatalf("expected 1 gateway record, got %d", len(store.gateways))
	}
	for _, record := range store.gateways {
		if record.CallbackAt != nil {
			t.Errorf("fresh gateway record must be unresolved")
		}
	}
}

func TestCreatePaymentRejectsResolvedRegistration(t *testing.T) {
	store := newMemStore()
	pkg := seedPackage(store, 30)
	reg := seedPendingRegistration(store, pkg)
	store.registrations[reg.ID].Status = entity.RegistrationStatusActive
	svc := NewPaymentService(newTestRepo(store), testGateway(), &fakeNotifier{}, zap.NewNop())

	regID := reg.ID.String()
	_, err := svc.CreatePayment(context.Background(), reg.MemberID.String(), "10.0.0.1", &request.CreatePaymentRequest{
		RegistrationID: &regID,
		Amount:         pkg.Price,
		Method:         "cash",
	})
	if !errors.Is(err, ErrAlreadyProcessed) {
		t.Errorf("expected ErrAlreadyProcessed for active registration, got %v", err)
	}
}

func TestProcessCashPaymentActivatesRegistration(t *testing.T) {
	store := newMemStore()
	pkg := seedPackage(store, 30)
	reg := seedPendingRegistration(store, pkg)
	notifier := &fakeNotifier{}
	svc := NewPaymentService(newTestRepo(store), testGateway(), notifier, zap.NewNop())

	regID := reg.ID.String()
	created, err := svc.CreatePayment(context.Background(), reg.MemberID.String(), "10.0.0.1", &request.CreatePaymentRequest{
		RegistrationID: &regID,
		Amount:         pkg.Price,
		Method:         "cash",
	})
	if err != nil {
		t.Fatalf("CreatePayment failed: %v", err)
	}

	resp, err := svc.ProcessCashPayment(context.Background(), created.Payment.ID)
	if err != nil {
		t.Fatalf("ProcessCashPayment failed: %v", err)
	}
	if resp.Status != entity.PaymentStatusSuccess {
		t.Errorf("expected success payment, got %s", resp.Status)
	}
	if resp.PaidAt == nil {
		t.Errorf("settled payment must carry paid_at")
	}

	stored := store.registrations[reg.ID]
	if stored.Status != entity.RegistrationStatusActive {
		t.Fatalf("registration not activated, status %s", stored.Status)
	}
	wantEnd := reg.StartDate.AddDate(0, 0, pkg.DurationDays)
	if stored.EndDate == nil || !stored.EndDate.Equal(wantEnd) {
		t.Errorf("end date not stamped from package duration: got %v want %v", stored.EndDate, wantEnd)
	}

	// Member notification plus staff broadcast.
	if len(notifier.sent) == 0 {
		t.Errorf("expected payment notifications")
	}

	// Settling twice is rejected.
	if _, err := svc.ProcessCashPayment(context.Background(), created.Payment.ID); !errors.Is(err, ErrAlreadyProcessed) {
		t.Errorf("expected ErrAlreadyProcessed on second settle, got %v", err)
	}
}

func createGatewayPayment(t *testing.T, svc PaymentService, store *memStore, reg *entity.Registration, amount float64) (paymentID, orderID string) {
	t.Helper()

	regID := reg.ID.String()
	created, err := svc.CreatePayment(context.Background(), reg.MemberID.String(), "10.0.0.1", &request.CreatePaymentRequest{
		RegistrationID: &regID,
		Amount:         amount,
		Method:         "vnpay",
	})
	if err != nil {
		t.Fatalf("CreatePayment failed: %v", err)
	}
	for id := range store.gateways {
		orderID = id
	}
	return created.Payment.ID, orderID
}

func TestResolveGatewayPaymentSuccess(t *testing.T) {
	store := newMemStore()
	pkg := seedPackage(store, 30)
	reg := seedPendingRegistration(store, pkg)
	svc := NewPaymentService(newTestRepo(store), testGateway(), &fakeNotifier{}, zap.NewNop())

	paymentID, orderID := createGatewayPayment(t, svc, store, reg, pkg.Price)

	outcome, err := svc.ResolveGatewayPayment(context.Background(), orderID, "00", "14567890")
	if err != nil {
		t.Fatalf("ResolveGatewayPayment failed: %v", err)
	}
	if !outcome.Success || outcome.Replayed {
		t.Errorf("expected fresh success outcome, got %+v", outcome)
	}
	if outcome.PaymentID.String() != paymentID {
		t.Errorf("outcome references wrong payment")
	}

	if store.registrations[reg.ID].Status != entity.RegistrationStatusActive {
		t.Errorf("successful callback must activate the registration")
	}
	record := store.gateways[orderID]
	if record.CallbackAt == nil || record.ResponseCode == nil || *record.ResponseCode != "00" {
		t.Errorf("gateway record not stamped: %+v", record)
	}
}

func TestResolveGatewayPaymentFailureCancelsRegistration(t *testing.T) {
	store := newMemStore()
	pkg := seedPackage(store, 30)
	reg := seedPendingRegistration(store, pkg)
	svc := NewPaymentService(newTestRepo(store), testGateway(), &fakeNotifier{}, zap.NewNop())

	paymentID, orderID := createGatewayPayment(t, svc, store, reg, pkg.Price)

	outcome, err := svc.ResolveGatewayPayment(context.Background(), orderID, "24", "")
	if err != nil {
		t.Fatalf("ResolveGatewayPayment failed: %v", err)
	}
	if outcome.Success {
		t.Errorf("code 24 must not be a success")
	}

	id := uuid.MustParse(paymentID)
	if store.payments[id].Status != entity.PaymentStatusFailed {
		t.Errorf("payment not failed, status %s", store.payments[id].Status)
	}
	stored := store.registrations[reg.ID]
	if stored.Status != entity.RegistrationStatusCancelled {
		t.Errorf("failed payment must cancel the registration, status %s", stored.Status)
	}
	if stored.CancelReason == nil || *stored.CancelReason != "payment failed" {
		t.Errorf("cancel reason not recorded: %v", stored.CancelReason)
	}
}

// A replayed callback returns the first recorded outcome and mutates nothing,
// even when the replay carries a different response code.
func TestResolveGatewayPaymentReplay(t *testing.T) {
	store := newMemStore()
	pkg := seedPackage(store, 30)
	reg := seedPendingRegistration(store, pkg)
	svc := NewPaymentService(newTestRepo(store), testGateway(), &fakeNotifier{}, zap.NewNop())

	paymentID, orderID := createGatewayPayment(t, svc, store, reg, pkg.Price)

	if _, err := svc.ResolveGatewayPayment(context.Background(), orderID, "00", "14567890"); err != nil {
		t.Fatalf("first callback failed: %v", err)
	}

	outcome, err := svc.ResolveGatewayPayment(context.Background(), orderID, "24", "99999999")
	if err != nil {
		t.Fatalf("replayed callback failed: %v", err)
	}
	if !outcome.Replayed {
		t.Errorf("expected replayed outcome")
	}
	if !outcome.Success {
		t.Errorf("replay must report the first recorded outcome, not the replayed code")
	}

	id := uuid.MustParse(paymentID)
	if store.payments[id].Status != entity.PaymentStatusSuccess {
		t.Errorf("replay mutated the payment: %s", store.payments[id].Status)
	}
	record := store.gateways[orderID]
	if *record.ResponseCode != "00" || *record.TransactionNo != "14567890" {
		t.Errorf("replay mutated the gateway record: %+v", record)
	}
	if store.registrations[reg.ID].Status != entity.RegistrationStatusActive {
		t.Errorf("replay mutated the registration")
	}
}

func TestResolveGatewayPaymentUnknownOrder(t *testing.T) {
	store := newMemStore()
	svc := NewPaymentService(newTestRepo(store), testGateway(), &fakeNotifier{}, zap.NewNop())

	_, err := svc.ResolveGatewayPayment(context.Background(), "GYM-20260901-000000-000000", "00", "")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown order, got %v", err)
	}
}

// Cash settlement while the member sits on the gateway page: the later
// callback stamps the gateway record but must not touch payment or
// registration again.
func TestResolveGatewayPaymentAfterCashSettlement(t *testing.T) {
	store := newMemStore()
	pkg := seedPackage(store, 30)
	reg := seedPendingRegistration(store, pkg)
	svc := NewPaymentService(newTestRepo(store), testGateway(), &fakeNotifier{}, zap.NewNop())

	paymentID, orderID := createGatewayPayment(t, svc, store, reg, pkg.Price)

	if _, err := svc.ProcessCashPayment(context.Background(), paymentID); err != nil {
		t.Fatalf("cash settlement failed: %v", err)
	}

	if _, err := svc.ResolveGatewayPayment(context.Background(), orderID, "24", ""); err != nil {
		t.Fatalf("late callback failed: %v", err)
	}

	id := uuid.MustParse(paymentID)
	if store.payments[id].Status != entity.PaymentStatusSuccess {
		t.Errorf("late callback overwrote the settled payment")
	}
	if store.registrations[reg.ID].Status != entity.RegistrationStatusActive {
		t.Errorf("late callback moved the activated registration")
	}
	if store.gateways[orderID].CallbackAt == nil {
		t.Errorf("late callback should still stamp the gateway record")
	}
}

func TestGetRegistrationPayments(t *testing.T) {
	store := newMemStore()
	pkg := seedPackage(store, 30)
	reg := seedPendingRegistration(store, pkg)
	svc := NewPaymentService(newTestRepo(store), testGateway(), &fakeNotifier{}, zap.NewNop())

	createGatewayPayment(t, svc, store, reg, pkg.Price)

	payments, err := svc.GetRegistrationPayments(context.Background(), reg.MemberID, string(entity.RoleMember), reg.ID.String())
	if err != nil {
		t.Fatalf("GetRegistrationPayments failed: %v", err)
	}
	if len(payments) != 1 {
		t.Fatalf("expected 1 payment, got %d", len(payments))
	}
	if payments[0].Gateway == nil {
		t.Errorf("gateway payment must include gateway detail")
	}

	if _, err := svc.GetRegistrationPayments(context.Background(), uuid.New(), string(entity.RoleMember), reg.ID.String()); !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden for stranger, got %v", err)
	}
}

func TestGetPaymentAuthorization(t *testing.T) {
	store := newMemStore()
	pkg := seedPackage(store, 30)
	reg := seedPendingRegistration(store, pkg)
	svc := NewPaymentService(newTestRepo(store), testGateway(), &fakeNotifier{}, zap.NewNop())

	paymentID, _ := createGatewayPayment(t, svc, store, reg, pkg.Price)

	// Owner can read it.
	if _, err := svc.GetPayment(context.Background(), reg.MemberID, string(entity.RoleMember), paymentID); err != nil {
		t.Errorf("owner read failed: %v", err)
	}

	// A stranger cannot.
	if _, err := svc.GetPayment(context.Background(), uuid.New(), string(entity.RoleMember), paymentID); !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden for stranger, got %v", err)
	}

	// An admin can.
	resp, err := svc.GetPayment(context.Background(), uuid.New(), string(entity.RoleAdmin), paymentID)
	if err != nil {
		t.Fatalf("admin read failed: %v", err)
	}
	if resp.Gateway == nil {
		t.Errorf("gateway detail missing from payment response")
	}
}
