// Package service is the donor-facing application layer. It loads state
// through the persistence gateway, runs the pure engines over it and writes
// results back, serializing writes per profile.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"jariyah/internal/gateway"
	"jariyah/internal/impact"
	"jariyah/internal/models"
	"jariyah/internal/payment"
	"jariyah/internal/recommend"
	"jariyah/internal/recorder"
)

// DashboardRecommendations is how many charities the dashboard suggests.
const DashboardRecommendations = 4

// Notifier receives an alert after every stored donation.
type Notifier interface {
	Publish(alert models.ImpactAlert)
}

// Payments opens online payments and reports their status.
type Payments interface {
	CreatePayment(ctx context.Context, checkout models.Checkout, donorName string) (string, error)
	PaymentStatus(ctx context.Context, orderID string) (payment.Status, error)
}

type DonorService struct {
	gateway    gateway.Gateway
	recorder   *recorder.Recorder
	tiers      []impact.Tier
	badges     []impact.BadgeDefinition
	notifier   Notifier
	payments   Payments
	newOrderID func() string

	locks keyedMutex
}

type Option func(*DonorService)

func WithRecorder(r *recorder.Recorder) Option {
	return func(s *DonorService) { s.recorder = r }
}

func WithNotifier(n Notifier) Option {
	return func(s *DonorService) { s.notifier = n }
}

func WithPayments(p Payments) Option {
	return func(s *DonorService) { s.payments = p }
}

func WithTiers(tiers []impact.Tier) Option {
	return func(s *DonorService) { s.tiers = tiers }
}

func WithBadges(defs []impact.BadgeDefinition) Option {
	return func(s *DonorService) { s.badges = defs }
}

// WithOrderIDs replaces the checkout order id source.
func WithOrderIDs(newID func() string) Option {
	return func(s *DonorService) { s.newOrderID = newID }
}

func New(gw gateway.Gateway, opts ...Option) *DonorService {
	s := &DonorService{
		gateway:    gw,
		recorder:   recorder.New(),
		tiers:      impact.DefaultTiers,
		badges:     impact.DefaultBadges,
		newOrderID: func() string { return "JARIYAH-" + uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now is the service clock.
func (s *DonorService) Now() time.Time { return s.recorder.Now() }

// withBadges fills in badge progress. Badges the profile has unlocked
// before stay unlocked even if their rule no longer holds.
func (s *DonorService) withBadges(p models.UserProfile) models.UserProfile {
	p.Badges = impact.EvaluateBadges(p, s.badges)
	for i := range p.Badges {
		if p.HasUnlocked(p.Badges[i].ID) {
			p.Badges[i].Unlocked = true
			p.Badges[i].Progress = 100
		}
	}
	return p
}

func (s *DonorService) loadOrNew(ctx context.Context, userID string) (models.UserProfile, error) {
	p, err := s.gateway.LoadProfile(ctx, userID)
	if errors.Is(err, models.ErrNotFound) {
		return models.NewProfile(userID), nil
	}
	if err != nil {
		return models.UserProfile{}, err
	}
	return *p, nil
}

// Profile returns the stored profile of userID with badges evaluated.
func (s *DonorService) Profile(ctx context.Context, userID string) (models.UserProfile, error) {
	p, err := s.gateway.LoadProfile(ctx, userID)
	if err != nil {
		return models.UserProfile{}, err
	}
	return s.withBadges(*p), nil
}

// ProfileOrDefault is Profile, except that an unreachable gateway yields
// the default profile. The second result reports whether it did.
func (s *DonorService) ProfileOrDefault(ctx context.Context, userID string) (models.UserProfile, bool, error) {
	p, err := s.Profile(ctx, userID)
	if errors.Is(err, models.ErrGatewayUnavailable) {
		log.Println("Gateway unavailable, serving default profile:", err)
		return s.withBadges(models.DefaultProfile()), true, nil
	}
	return p, false, err
}

// ProfilePatch lists the profile fields a donor may edit. Nil fields are
// left untouched.
type ProfilePatch struct {
	Username        *string   `json:"username"`
	Interests       *[]string `json:"interests"`
	PreferredCauses *[]string `json:"preferredCauses"`
}

func (p ProfilePatch) apply(profile *models.UserProfile) error {
	if p.Username != nil {
		if *p.Username == "" {
			return fmt.Errorf("%w: username cannot be empty", models.ErrInvalidInput)
		}
		profile.Username = *p.Username
	}
	if p.Interests != nil {
		profile.Interests = slices.Clone(*p.Interests)
	}
	if p.PreferredCauses != nil {
		profile.PreferredCauses = slices.Clone(*p.PreferredCauses)
	}
	return nil
}

// UpdateProfile merges patch into the stored profile, creating it if
// needed, and saves the whole profile.
func (s *DonorService) UpdateProfile(ctx context.Context, userID string, patch ProfilePatch) (models.UserProfile, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	p, err := s.loadOrNew(ctx, userID)
	if err != nil {
		return models.UserProfile{}, err
	}
	p = p.Clone()
	if err := patch.apply(&p); err != nil {
		return models.UserProfile{}, err
	}
	if err := s.gateway.SaveProfile(ctx, &p); err != nil {
		return models.UserProfile{}, err
	}
	return s.withBadges(p), nil
}

// DonationResult is everything that changed because of one donation.
type DonationResult struct {
	Profile   models.UserProfile `json:"profile"`
	Donation  models.Donation    `json:"donation"`
	Tier      impact.TierState   `json:"tier"`
	TierUp    bool               `json:"tierUp"`
	NewBadges []models.Badge     `json:"newBadges"`
	Duplicate bool               `json:"duplicate,omitempty"`
}

// Donate records a donation for userID. The profile is saved and the
// donation appended to the ledger before success is reported; any gateway
// failure is returned as is.
func (s *DonorService) Donate(ctx context.Context, userID string, req recorder.Request) (DonationResult, error) {
	if err := s.recorder.Validate(req); err != nil {
		return DonationResult{}, err
	}
	unlock := s.locks.Lock(userID)
	defer unlock()
	return s.donateLocked(ctx, userID, req)
}

// donateLocked does the work of Donate. Callers hold the userID lock.
func (s *DonorService) donateLocked(ctx context.Context, userID string, req recorder.Request) (DonationResult, error) {
	profile, err := s.loadOrNew(ctx, userID)
	if err != nil {
		return DonationResult{}, err
	}
	if req.ID != "" {
		if i := slices.IndexFunc(profile.Donations, func(d models.Donation) bool { return d.ID == req.ID }); i >= 0 {
			// the first attempt may have saved the profile but missed the ledger
			if err := s.gateway.AppendDonationRecord(ctx, userID, profile.Donations[i]); err != nil {
				return DonationResult{}, fmt.Errorf("append donation %s: %w", req.ID, err)
			}
			return DonationResult{
				Profile:   s.withBadges(profile),
				Donation:  profile.Donations[i],
				Tier:      impact.ComputeTierState(profile, s.tiers),
				Duplicate: true,
			}, nil
		}
	}

	var charity *models.Charity
	if req.CharityID != "" {
		catalog, err := s.gateway.LoadCharityCatalog(ctx)
		if err != nil {
			return DonationResult{}, err
		}
		if i := slices.IndexFunc(catalog, func(c models.Charity) bool { return c.ID == req.CharityID }); i >= 0 {
			charity = &catalog[i]
		}
	}

	before := impact.ComputeTierState(profile, s.tiers)
	updated, donation, err := s.recorder.Record(profile, req)
	if err != nil {
		return DonationResult{}, err
	}

	if charity != nil {
		if updated.ImpactMetrics == nil {
			updated.ImpactMetrics = map[string]int{}
		}
		for _, u := range impact.ImpactUnits(*charity, donation.Amount) {
			updated.ImpactMetrics[u.Impact] += int(u.Units)
		}
	}

	var newBadges []models.Badge
	for _, id := range impact.UnlockedIDs(updated, s.badges) {
		if updated.HasUnlocked(id) {
			continue
		}
		def := s.badges[slices.IndexFunc(s.badges, func(d impact.BadgeDefinition) bool { return d.ID == id })]
		updated.UnlockedBadges = append(updated.UnlockedBadges, id)
		newBadges = append(newBadges, def.Badge(updated))
	}

	if err := s.gateway.SaveProfile(ctx, &updated); err != nil {
		return DonationResult{}, fmt.Errorf("save profile %s: %w", userID, err)
	}
	if err := s.gateway.AppendDonationRecord(ctx, userID, donation); err != nil {
		return DonationResult{}, fmt.Errorf("append donation %s: %w", donation.ID, err)
	}

	after := impact.ComputeTierState(updated, s.tiers)
	result := DonationResult{
		Profile:   s.withBadges(updated),
		Donation:  donation,
		Tier:      after,
		TierUp:    after.Current.Level > before.Current.Level,
		NewBadges: newBadges,
	}
	log.Printf("SUCCESS: Recorded donation %s of %s for user %s", donation.ID, donation.Amount, userID)

	if s.notifier != nil {
		s.notifier.Publish(models.ImpactAlert{
			UserID:       userID,
			Donation:     donation,
			TotalDonated: updated.TotalDonated,
			Tier:         after.Current.Name,
			TierUp:       result.TierUp,
			NewBadges:    newBadges,
		})
	}
	return result, nil
}

// Recommendation is a ranked charity as shown to a donor.
type Recommendation struct {
	recommend.Scored
	MatchPercent float64 `json:"matchPercent"`
}

func recommendations(ranked []recommend.Scored) []Recommendation {
	out := make([]Recommendation, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, Recommendation{Scored: r, MatchPercent: r.MatchPercent()})
	}
	return out
}

// Dashboard is the impact overview of one donor over one window.
type Dashboard struct {
	Profile         models.UserProfile     `json:"profile"`
	Tier            impact.TierState       `json:"tier"`
	Window          impact.Window          `json:"window"`
	Summary         impact.Summary         `json:"summary"`
	ImpactByCharity []impact.CharityImpact `json:"impactByCharity"`
	Recommendations []Recommendation       `json:"recommendations"`
}

// Dashboard loads the profile and catalog concurrently and derives the
// overview for window.
func (s *DonorService) Dashboard(ctx context.Context, userID string, window impact.Window) (Dashboard, error) {
	if err := window.Validate(); err != nil {
		return Dashboard{}, err
	}

	var (
		profile *models.UserProfile
		catalog []models.Charity
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		profile, err = s.gateway.LoadProfile(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		catalog, err = s.gateway.LoadCharityCatalog(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}

	p := s.withBadges(*profile)
	inWindow := impact.FilterByWindow(p.Donations, window)
	return Dashboard{
		Profile:         p,
		Tier:            impact.ComputeTierState(p, s.tiers),
		Window:          window,
		Summary:         impact.Summarize(inWindow),
		ImpactByCharity: impact.ImpactByCharity(inWindow, catalog),
		Recommendations: recommendations(recommend.Top(recommend.Rank(catalog, p), DashboardRecommendations)),
	}, nil
}

// Recommendations ranks the catalog for userID. A limit of zero or less
// returns the whole ranking.
func (s *DonorService) Recommendations(ctx context.Context, userID string, limit int) ([]Recommendation, error) {
	profile, err := s.gateway.LoadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	catalog, err := s.gateway.LoadCharityCatalog(ctx)
	if err != nil {
		return nil, err
	}
	ranked := recommend.Rank(catalog, *profile)
	if limit > 0 {
		ranked = recommend.Top(ranked, limit)
	}
	return recommendations(ranked), nil
}

func (s *DonorService) Catalog(ctx context.Context) ([]models.Charity, error) {
	return s.gateway.LoadCharityCatalog(ctx)
}

// Charity returns the catalog entry with id.
func (s *DonorService) Charity(ctx context.Context, id string) (models.Charity, error) {
	catalog, err := s.gateway.LoadCharityCatalog(ctx)
	if err != nil {
		return models.Charity{}, err
	}
	for _, c := range catalog {
		if c.ID == id {
			return c, nil
		}
	}
	return models.Charity{}, fmt.Errorf("charity %s: %w", id, models.ErrNotFound)
}

// Donations returns the donations of userID that fall in window.
func (s *DonorService) Donations(ctx context.Context, userID string, window impact.Window) ([]models.Donation, error) {
	if err := window.Validate(); err != nil {
		return nil, err
	}
	profile, err := s.gateway.LoadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return impact.FilterByWindow(profile.Donations, window), nil
}
