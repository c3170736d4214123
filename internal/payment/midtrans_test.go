package payment

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"jariyah/internal/models"
)

func TestStatus_Settled(t *testing.T) {
	for status, want := range map[string]bool{
		"settlement": true,
		"capture":    true,
		"pending":    false,
		"deny":       false,
		"expire":     false,
	} {
		if got := (Status{TransactionStatus: status}).Settled(); got != want {
			t.Errorf("Settled() for %q = %v, want %v", status, got, want)
		}
	}
}

func TestCreatePayment_RejectsFractionalAmount(t *testing.T) {
	m := NewMidtrans("SB-Mid-server-test", false)
	_, err := m.CreatePayment(context.Background(), models.Checkout{
		OrderID: "JARIYAH-1", Amount: decimal.RequireFromString("10.50"),
	}, "Donor")
	if !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("CreatePayment() error = %v, want ErrInvalidInput", err)
	}
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := NewMidtrans("SB-Mid-server-test", false)

	if _, err := m.CreatePayment(ctx, models.Checkout{Amount: decimal.NewFromInt(10)}, ""); !errors.Is(err, context.Canceled) {
		t.Errorf("CreatePayment() error = %v, want context.Canceled", err)
	}
	if _, err := m.PaymentStatus(ctx, "JARIYAH-1"); !errors.Is(err, context.Canceled) {
		t.Errorf("PaymentStatus() error = %v, want context.Canceled", err)
	}
}
