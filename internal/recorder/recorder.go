// Package recorder validates donation requests and applies them to a
// profile. It never persists anything; callers hand the returned profile
// to the persistence gateway.
package recorder

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"jariyah/internal/models"
)

// ManualPrefix marks charity ids of donations made outside the catalog.
const ManualPrefix = "manual-"

// EpochFloor is the earliest date accepted on a manual entry.
var EpochFloor = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

// Request is a donation as submitted by a donor. Date is nil for online
// donations and set for manual entries. ID is only set internally, for
// donations whose id must be stable across retries.
type Request struct {
	ID          string           `json:"-"`
	CharityID   string           `json:"charityId"`
	Amount      decimal.Decimal  `json:"amount"`
	IsRecurring bool             `json:"isRecurring"`
	Frequency   models.Frequency `json:"frequency,omitempty"`
	Date        *time.Time       `json:"date,omitempty"`
}

// Recorder applies donation requests to profiles.
type Recorder struct {
	now   func() time.Time
	newID func() string
}

// Option customizes a Recorder.
type Option func(*Recorder)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Recorder) { r.now = now }
}

// WithIDs replaces the uuid id source.
func WithIDs(newID func() string) Option {
	return func(r *Recorder) { r.newID = newID }
}

// New returns a Recorder using the wall clock and random uuids.
func New(opts ...Option) *Recorder {
	r := &Recorder{now: time.Now, newID: uuid.NewString}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Now is the recorder's clock.
func (r *Recorder) Now() time.Time { return r.now() }

// Validate checks req without applying it.
func (r *Recorder) Validate(req Request) error {
	if !req.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be greater than zero, got %s", models.ErrInvalidDonation, req.Amount)
	}
	if req.IsRecurring && !req.Frequency.Valid() {
		return fmt.Errorf("%w: recurring donation needs a weekly, monthly or yearly frequency, got %q",
			models.ErrInvalidDonation, req.Frequency)
	}
	if req.Date != nil {
		if req.Date.After(r.now()) {
			return fmt.Errorf("%w: date %s is in the future", models.ErrInvalidDonation, req.Date.Format(time.RFC3339))
		}
		if req.Date.Before(EpochFloor) {
			return fmt.Errorf("%w: date %s is before %d", models.ErrInvalidDonation,
				req.Date.Format(time.RFC3339), EpochFloor.Year())
		}
	}
	return nil
}

// Record validates req and returns a copy of profile with the donation
// appended, the total incremented and the charity's history entry updated.
// On error the returned profile is profile unchanged.
func (r *Recorder) Record(profile models.UserProfile, req Request) (models.UserProfile, models.Donation, error) {
	if err := r.Validate(req); err != nil {
		return profile, models.Donation{}, err
	}

	date := r.now().UTC()
	if req.Date != nil {
		date = req.Date.UTC()
	}
	charityID := req.CharityID
	if charityID == "" {
		charityID = ManualPrefix + r.newID()
	}

	id := req.ID
	if id == "" {
		id = r.newID()
	}

	donation := models.Donation{
		ID:          id,
		CharityID:   charityID,
		Amount:      req.Amount,
		Date:        date,
		IsRecurring: req.IsRecurring,
	}
	if req.IsRecurring {
		donation.Frequency = req.Frequency
	}

	updated := profile.Clone()
	updated.Donations = append(updated.Donations, donation)
	updated.TotalDonated = updated.TotalDonated.Add(donation.Amount)

	h := updated.DonationHistory[charityID]
	h.InteractionCount++
	h.LastInteraction = date
	updated.DonationHistory[charityID] = h

	return updated, donation, nil
}
