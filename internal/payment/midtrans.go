// Package payment turns checkouts into Midtrans Snap payments and reads
// their settlement status back through the Core API.
package payment

import (
	"context"
	"fmt"
	"log"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/shopspring/decimal"

	"jariyah/internal/models"
)

// Status is what the payment provider reports for an order.
type Status struct {
	OrderID           string
	TransactionID     string
	TransactionStatus string
	GrossAmount       decimal.Decimal
}

// Settled reports whether the money has been received.
func (s Status) Settled() bool {
	return s.TransactionStatus == "settlement" || s.TransactionStatus == "capture"
}

// Midtrans is the Snap/Core API client pair.
type Midtrans struct {
	SnapClient snap.Client
	CoreClient coreapi.Client
}

// NewMidtrans returns a client for serverKey, against the sandbox unless
// production is set.
func NewMidtrans(serverKey string, production bool) *Midtrans {
	env := midtrans.Sandbox
	if production {
		env = midtrans.Production
	}

	var s snap.Client
	s.New(serverKey, env)

	var c coreapi.Client
	c.New(serverKey, env)

	return &Midtrans{SnapClient: s, CoreClient: c}
}

// CreatePayment opens a Snap transaction for checkout and returns the URL
// the donor pays at. Midtrans only accepts whole amounts.
func (m *Midtrans) CreatePayment(ctx context.Context, checkout models.Checkout, donorName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !checkout.Amount.IsInteger() {
		return "", fmt.Errorf("%w: amount %s must be a whole number for online payment", models.ErrInvalidInput, checkout.Amount)
	}

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  checkout.OrderID,
			GrossAmt: checkout.Amount.IntPart(),
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: donorName,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    checkout.CharityID,
				Price: checkout.Amount.IntPart(),
				Qty:   1,
				Name:  "Donation",
			},
		},
	}

	resp, merr := m.SnapClient.CreateTransaction(req)
	if resp == nil {
		log.Println("Failed to create Midtrans transaction (nil response):", merr)
		return "", fmt.Errorf("%w: create payment: %s", models.ErrGatewayUnavailable, errMessage(merr))
	}
	if merr != nil {
		log.Printf("Midtrans returned a valid response but also a non-nil error: %v", merr.Message)
	}
	return resp.RedirectURL, nil
}

// PaymentStatus asks the Core API for the current state of orderID.
func (m *Midtrans) PaymentStatus(ctx context.Context, orderID string) (Status, error) {
	if err := ctx.Err(); err != nil {
		return Status{}, err
	}

	resp, merr := m.CoreClient.CheckTransaction(orderID)
	if resp == nil {
		log.Println("Failed to verify transaction (nil response) with Midtrans Core API:", merr)
		return Status{}, fmt.Errorf("%w: check payment %s: %s", models.ErrGatewayUnavailable, orderID, errMessage(merr))
	}
	if merr != nil {
		log.Printf("Midtrans Core API returned a valid response but also a non-nil error: %v", merr.Message)
	}

	gross, err := decimal.NewFromString(resp.GrossAmount)
	if err != nil {
		return Status{}, fmt.Errorf("check payment %s: gross amount %q: %w", orderID, resp.GrossAmount, err)
	}
	return Status{
		OrderID:           resp.OrderID,
		TransactionID:     resp.TransactionID,
		TransactionStatus: resp.TransactionStatus,
		GrossAmount:       gross,
	}, nil
}

func errMessage(merr *midtrans.Error) string {
	if merr == nil {
		return "no response"
	}
	return merr.Message
}
