package service

import (
	"context"
	"fmt"
	"log"

	"jariyah/internal/models"
	"jariyah/internal/recorder"
)

// CheckoutResult tells the client where to pay.
type CheckoutResult struct {
	OrderID     string `json:"orderId"`
	RedirectURL string `json:"redirectUrl"`
}

// StartCheckout stores a pending online donation to a catalog charity and
// opens a payment for it. Nothing is recorded until the payment settles.
func (s *DonorService) StartCheckout(ctx context.Context, userID string, req recorder.Request) (CheckoutResult, error) {
	if s.payments == nil {
		return CheckoutResult{}, fmt.Errorf("%w: online payments are not configured", models.ErrGatewayUnavailable)
	}
	req.Date = nil
	if err := s.recorder.Validate(req); err != nil {
		return CheckoutResult{}, err
	}
	if req.CharityID == "" {
		return CheckoutResult{}, fmt.Errorf("%w: online donations need a charity", models.ErrInvalidDonation)
	}
	if !req.Amount.IsInteger() {
		return CheckoutResult{}, fmt.Errorf("%w: amount %s must be a whole number for online payment", models.ErrInvalidInput, req.Amount)
	}
	if _, err := s.Charity(ctx, req.CharityID); err != nil {
		return CheckoutResult{}, err
	}

	donorName := userID
	if p, err := s.gateway.LoadProfile(ctx, userID); err == nil {
		donorName = p.Username
	}

	checkout := models.Checkout{
		OrderID:     s.newOrderID(),
		UserID:      userID,
		CharityID:   req.CharityID,
		Amount:      req.Amount,
		IsRecurring: req.IsRecurring,
		Status:      models.CheckoutPending,
		CreatedAt:   s.Now().UTC(),
	}
	if req.IsRecurring {
		checkout.Frequency = req.Frequency
	}
	if err := s.gateway.SaveCheckout(ctx, checkout); err != nil {
		return CheckoutResult{}, err
	}

	url, err := s.payments.CreatePayment(ctx, checkout, donorName)
	if err != nil {
		return CheckoutResult{}, err
	}
	return CheckoutResult{OrderID: checkout.OrderID, RedirectURL: url}, nil
}

// SettleResult reports what a payment notification did.
type SettleResult struct {
	OrderID   string           `json:"orderId"`
	Status    string           `json:"status"`
	Donation  *models.Donation `json:"donation,omitempty"`
	Duplicate bool             `json:"duplicate,omitempty"`
}

// SettleCheckout verifies orderID with the payment provider and records the
// donation once it has settled. Repeated notifications for a settled order
// change nothing.
func (s *DonorService) SettleCheckout(ctx context.Context, orderID string) (SettleResult, error) {
	if s.payments == nil {
		return SettleResult{}, fmt.Errorf("%w: online payments are not configured", models.ErrGatewayUnavailable)
	}
	status, err := s.payments.PaymentStatus(ctx, orderID)
	if err != nil {
		return SettleResult{}, err
	}
	result := SettleResult{OrderID: orderID, Status: status.TransactionStatus}
	if !status.Settled() {
		log.Println("Received non-settled transaction status:", status.TransactionStatus)
		return result, nil
	}

	pending, err := s.gateway.LoadCheckout(ctx, orderID)
	if err != nil {
		return SettleResult{}, err
	}
	unlock := s.locks.Lock(pending.UserID)
	defer unlock()

	// reload under the donor's lock so concurrent notifications see each other
	checkout, err := s.gateway.LoadCheckout(ctx, orderID)
	if err != nil {
		return SettleResult{}, err
	}
	if checkout.Status == models.CheckoutSettled {
		log.Println("Duplicate webhook, already settled:", orderID)
		result.Duplicate = true
		return result, nil
	}
	if !status.GrossAmount.Equal(checkout.Amount) {
		return SettleResult{}, fmt.Errorf("%w: order %s paid %s but expected %s",
			models.ErrInvalidInput, orderID, status.GrossAmount, checkout.Amount)
	}

	donated, err := s.donateLocked(ctx, checkout.UserID, recorder.Request{
		ID:          checkout.OrderID,
		CharityID:   checkout.CharityID,
		Amount:      checkout.Amount,
		IsRecurring: checkout.IsRecurring,
		Frequency:   checkout.Frequency,
	})
	if err != nil {
		return SettleResult{}, err
	}

	checkout.Status = models.CheckoutSettled
	checkout.DonationID = donated.Donation.ID
	if err := s.gateway.SaveCheckout(ctx, *checkout); err != nil {
		return SettleResult{}, err
	}
	result.Donation = &donated.Donation
	result.Duplicate = donated.Duplicate
	return result, nil
}
