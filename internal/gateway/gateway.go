// Package gateway defines the persistence contract the donor service
// depends on. Implementations live in the subpackages.
package gateway

//go:generate mockgen -source=gateway.go -destination=mock/mock_gateway.go -package=mockgateway

import (
	"context"

	"jariyah/internal/models"
)

// Gateway loads and stores profiles, the charity catalog and donation records.
// LoadProfile, LoadCheckout return models.ErrNotFound for unknown ids, and
// implementations wrap transport failures in models.ErrGatewayUnavailable.
type Gateway interface {
	LoadProfile(ctx context.Context, userID string) (*models.UserProfile, error)
	SaveProfile(ctx context.Context, profile *models.UserProfile) error
	LoadCharityCatalog(ctx context.Context) ([]models.Charity, error)
	AppendDonationRecord(ctx context.Context, userID string, donation models.Donation) error
	SaveCharity(ctx context.Context, charity models.Charity) error
	SaveCheckout(ctx context.Context, checkout models.Checkout) error
	LoadCheckout(ctx context.Context, orderID string) (*models.Checkout, error)
}
