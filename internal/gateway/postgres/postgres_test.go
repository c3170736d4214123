package postgres

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"

	"jariyah/internal/models"
)

func TestProfileRowRoundTrip(t *testing.T) {
	p := models.DefaultProfile()
	p.Donations = []models.Donation{{
		ID: "d1", CharityID: "1", Amount: decimal.RequireFromString("10.10"),
		Date: time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC),
	}}
	p.TotalDonated = decimal.RequireFromString("10.1")
	p.DonationHistory = map[string]models.Interaction{"1": {InteractionCount: 1, LastInteraction: p.Donations[0].Date}}
	p.UnlockedBadges = []string{"first-donation"}

	row, err := toProfileRow(&p)
	if err != nil {
		t.Fatalf("toProfileRow() error = %v", err)
	}
	got, err := row.toModel(p.Donations)
	if err != nil {
		t.Fatalf("toModel() error = %v", err)
	}
	if got.Username != p.Username || len(got.Interests) != 3 || got.UnlockedBadges[0] != "first-donation" {
		t.Errorf("profile = %+v", got)
	}
	if got.DonationHistory["1"].InteractionCount != 1 {
		t.Errorf("history = %+v", got.DonationHistory)
	}
}

func TestProfileRow_TotalMismatch(t *testing.T) {
	p := models.NewProfile("u1")
	p.TotalDonated = decimal.NewFromInt(5)
	row, err := toProfileRow(&p)
	if err != nil {
		t.Fatalf("toProfileRow() error = %v", err)
	}
	if _, err := row.toModel(nil); err == nil {
		t.Error("toModel() accepted a total with no donations behind it")
	}
}

func TestCharityRow(t *testing.T) {
	valid := charityRow{
		ID: "1", Name: "Fund", Goal: decimal.NewFromInt(100),
		Impact: types.JSONText(`{"description":"d","metrics":[{"amount":"10","impact":"a book"}]}`),
		Tags:   types.JSONText(`["education"]`),
		Causes: types.JSONText(`[]`),
	}
	c, err := valid.toModel()
	if err != nil {
		t.Fatalf("toModel() error = %v", err)
	}
	if len(c.Impact.Metrics) != 1 || !c.Impact.Metrics[0].Amount.Equal(decimal.NewFromInt(10)) {
		t.Errorf("impact = %+v", c.Impact)
	}

	noGoal := valid
	noGoal.Goal = decimal.Zero
	if _, err := noGoal.toModel(); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("toModel() with zero goal error = %v, want ErrInvalidInput", err)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"no rows", sql.ErrNoRows, models.ErrNotFound},
		{"connection refused", errors.New("dial tcp: connection refused"), models.ErrGatewayUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classify("op", tt.err); !errors.Is(got, tt.want) {
				t.Errorf("classify() = %v, want %v", got, tt.want)
			}
		})
	}

	got := classify("op", &pgconn.PgError{Code: "23514", Message: "check violation"})
	if errors.Is(got, models.ErrGatewayUnavailable) || errors.Is(got, models.ErrNotFound) {
		t.Errorf("classify() of a server error = %v, want it passed through", got)
	}
}
