package entity

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func pendingRegistration() *Registration {
	now := time.Now()
	return &Registration{
		Base:       Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		MemberID:   uuid.New(),
		Kind:       RegistrationKindPackage,
		StartDate:  now,
		Status:     RegistrationStatusPendingPayment,
		StatusNote: "awaiting payment",
	}
}

func TestRegistrationActivate(t *testing.T) {
	reg := pendingRegistration()
	end := time.Now().AddDate(0, 1, 0)

	if err := reg.Activate(end, time.Now()); err != nil {
		t.Fatalf("Activate from pending_payment failed: %v", err)
	}
	if reg.Status != RegistrationStatusActive {
		t.Errorf("expected active, got %s", reg.Status)
	}
	if reg.EndDate == nil || !reg.EndDate.Equal(end) {
		t.Errorf("end date not stamped")
	}

	// Activation is only defined from pending_payment.
	if err := reg.Activate(end, time.Now()); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition on second Activate, got %v", err)
	}
}

func TestRegistrationCancelEdges(t *testing.T) {
	now := time.Now()

	// pending_payment -> cancelled
	reg := pendingRegistration()
	if err := reg.Cancel("payment failed", now); err != nil {
		t.Fatalf("Cancel from pending_payment failed: %v", err)
	}
	if reg.CancelReason == nil || *reg.CancelReason != "payment failed" {
		t.Errorf("cancel reason not recorded")
	}

	// active -> cancelled
	reg = pendingRegistration()
	if err := reg.Activate(now.AddDate(0, 1, 0), now); err != nil {
		t.Fatalf("Activate failed: %v", err)
	}
	if err := reg.Cancel("member request", now); err != nil {
		t.Fatalf("Cancel from active failed: %v", err)
	}

	// cancelled and expired are terminal.
	if err := reg.Cancel("again", now); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition cancelling a cancelled registration, got %v", err)
	}
	if err := reg.Activate(now, now); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition activating a cancelled registration, got %v", err)
	}
}

func TestRegistrationExpire(t *testing.T) {
	now := time.Now()

	reg := pendingRegistration()
	if err := reg.Expire(now); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("pending_payment must not expire, got %v", err)
	}

	if err := reg.Activate(now.AddDate(0, 0, -1), now); err != nil {
		t.Fatalf("Activate failed: %v", err)
	}
	if err := reg.Expire(now); err != nil {
		t.Fatalf("Expire past end date failed: %v", err)
	}
	if reg.Status != RegistrationStatusExpired {
		t.Errorf("expected expired, got %s", reg.Status)
	}

	// A registration still inside its period does not expire.
	reg = pendingRegistration()
	if err := reg.Activate(now.AddDate(0, 0, 7), now); err != nil {
		t.Fatalf("Activate failed: %v", err)
	}
	if err := reg.Expire(now); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition before end date, got %v", err)
	}
	if reg.Status != RegistrationStatusActive {
		t.Errorf("failed Expire must leave the record unchanged")
	}
}
