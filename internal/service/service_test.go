package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	mockgateway "jariyah/internal/gateway/mock"
	"jariyah/internal/gateway/rows"
	"jariyah/internal/impact"
	"jariyah/internal/models"
	"jariyah/internal/recorder"
)

var testNow = time.Date(2024, 7, 15, 12, 0, 0, 0, time.UTC)

type capturingNotifier struct {
	mu     sync.Mutex
	alerts []models.ImpactAlert
}

func (n *capturingNotifier) Publish(a models.ImpactAlert) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = append(n.alerts, a)
}

func fixedRecorder() *recorder.Recorder {
	return recorder.New(recorder.WithClock(func() time.Time { return testNow }))
}

// newSeeded returns a service over an in-memory store holding the sample
// catalog.
func newSeeded(t *testing.T, opts ...Option) (*DonorService, *rows.Gateway) {
	t.Helper()
	gw := rows.New(rows.NewMemoryTable())
	for _, c := range models.SampleCharities() {
		if err := gw.SaveCharity(context.Background(), c); err != nil {
			t.Fatalf("SaveCharity() error = %v", err)
		}
	}
	opts = append([]Option{WithRecorder(fixedRecorder())}, opts...)
	return New(gw, opts...), gw
}

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestDonate_FirstDonation(t *testing.T) {
	ctx := context.Background()
	notifier := &capturingNotifier{}
	svc, gw := newSeeded(t, WithNotifier(notifier))

	res, err := svc.Donate(ctx, "u1", recorder.Request{CharityID: "1", Amount: money("60")})
	if err != nil {
		t.Fatalf("Donate() error = %v", err)
	}

	if !res.Profile.TotalDonated.Equal(money("60")) || len(res.Profile.Donations) != 1 {
		t.Errorf("profile total/donations = %s/%d", res.Profile.TotalDonated, len(res.Profile.Donations))
	}
	if len(res.NewBadges) != 1 || res.NewBadges[0].ID != "first-donation" {
		t.Errorf("NewBadges = %+v, want first-donation", res.NewBadges)
	}
	if res.TierUp || res.Tier.Current.Name != "Supporter" {
		t.Errorf("tier = %+v, tierUp = %v", res.Tier.Current, res.TierUp)
	}
	if res.Profile.ImpactMetrics["1 month of school supplies"] != 6 || res.Profile.ImpactMetrics["1 semester of textbooks"] != 1 {
		t.Errorf("ImpactMetrics = %v", res.Profile.ImpactMetrics)
	}

	stored, err := gw.LoadProfile(ctx, "u1")
	if err != nil {
		t.Fatalf("LoadProfile() error = %v", err)
	}
	if !stored.HasUnlocked("first-donation") || stored.DonationHistory["1"].InteractionCount != 1 {
		t.Errorf("stored profile = %+v", stored)
	}
	ledger, _ := gw.DonationRecords(ctx, "u1")
	if len(ledger) != 1 || ledger[0].ID != res.Donation.ID {
		t.Errorf("ledger = %+v", ledger)
	}
	if len(notifier.alerts) != 1 || notifier.alerts[0].UserID != "u1" || !notifier.alerts[0].TotalDonated.Equal(money("60")) {
		t.Errorf("alerts = %+v", notifier.alerts)
	}
}

func TestDonate_TierUpAndBadges(t *testing.T) {
	ctx := context.Background()
	svc, _ := newSeeded(t)

	if _, err := svc.Donate(ctx, "u1", recorder.Request{CharityID: "2", Amount: money("499.99")}); err != nil {
		t.Fatalf("Donate() error = %v", err)
	}
	res, err := svc.Donate(ctx, "u1", recorder.Request{CharityID: "3", Amount: money("0.01"), IsRecurring: true, Frequency: models.FrequencyMonthly})
	if err != nil {
		t.Fatalf("Donate() error = %v", err)
	}
	if !res.TierUp || res.Tier.Current.Name != "Champion" {
		t.Errorf("tier = %s, tierUp = %v; want Champion after reaching 500", res.Tier.Current.Name, res.TierUp)
	}
	if len(res.NewBadges) != 1 || res.NewBadges[0].ID != "recurring-donor" {
		t.Errorf("NewBadges = %+v, want recurring-donor", res.NewBadges)
	}
	if !res.Profile.TotalDonated.Equal(money("500")) {
		t.Errorf("TotalDonated = %s, want exactly 500", res.Profile.TotalDonated)
	}
}

func TestDonate_InvalidRequestTouchesNothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	gw := mockgateway.NewMockGateway(ctrl)
	svc := New(gw, WithRecorder(fixedRecorder()))

	tests := []recorder.Request{
		{CharityID: "1", Amount: decimal.Zero},
		{CharityID: "1", Amount: money("-5")},
		{CharityID: "1", Amount: money("5"), IsRecurring: true},
	}
	for _, req := range tests {
		if _, err := svc.Donate(context.Background(), "u1", req); !errors.Is(err, models.ErrInvalidDonation) {
			t.Errorf("Donate(%+v) error = %v, want ErrInvalidDonation", req, err)
		}
	}
}

func TestDonate_GatewayFailures(t *testing.T) {
	boom := fmt.Errorf("%w: sheets down", models.ErrGatewayUnavailable)

	t.Run("save fails", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		gw := mockgateway.NewMockGateway(ctrl)
		notifier := &capturingNotifier{}
		svc := New(gw, WithRecorder(fixedRecorder()), WithNotifier(notifier))

		gw.EXPECT().LoadProfile(gomock.Any(), "u1").Return(nil, models.ErrNotFound)
		gw.EXPECT().LoadCharityCatalog(gomock.Any()).Return(models.SampleCharities(), nil)
		gw.EXPECT().SaveProfile(gomock.Any(), gomock.Any()).Return(boom)

		_, err := svc.Donate(context.Background(), "u1", recorder.Request{CharityID: "1", Amount: money("10")})
		if !errors.Is(err, models.ErrGatewayUnavailable) {
			t.Errorf("Donate() error = %v, want ErrGatewayUnavailable", err)
		}
		if len(notifier.alerts) != 0 {
			t.Error("alert published for a donation that was not stored")
		}
	})

	t.Run("ledger append fails", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		gw := mockgateway.NewMockGateway(ctrl)
		svc := New(gw, WithRecorder(fixedRecorder()))

		gw.EXPECT().LoadProfile(gomock.Any(), "u1").Return(nil, models.ErrNotFound)
		gw.EXPECT().LoadCharityCatalog(gomock.Any()).Return(nil, nil)
		gw.EXPECT().SaveProfile(gomock.Any(), gomock.Any()).Return(nil)
		gw.EXPECT().AppendDonationRecord(gomock.Any(), "u1", gomock.Any()).Return(boom)

		if _, err := svc.Donate(context.Background(), "u1", recorder.Request{CharityID: "1", Amount: money("10")}); !errors.Is(err, models.ErrGatewayUnavailable) {
			t.Errorf("Donate() error = %v, want ErrGatewayUnavailable", err)
		}
	})

	t.Run("load fails", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		gw := mockgateway.NewMockGateway(ctrl)
		svc := New(gw, WithRecorder(fixedRecorder()))

		gw.EXPECT().LoadProfile(gomock.Any(), "u1").Return(nil, boom)

		if _, err := svc.Donate(context.Background(), "u1", recorder.Request{Amount: money("10")}); !errors.Is(err, models.ErrGatewayUnavailable) {
			t.Errorf("Donate() error = %v, want ErrGatewayUnavailable", err)
		}
	})
}

// flakyLedger fails the first ledger append.
type flakyLedger struct {
	*rows.Gateway
	failed bool
}

func (f *flakyLedger) AppendDonationRecord(ctx context.Context, userID string, d models.Donation) error {
	if !f.failed {
		f.failed = true
		return fmt.Errorf("%w: sheets down", models.ErrGatewayUnavailable)
	}
	return f.Gateway.AppendDonationRecord(ctx, userID, d)
}

func TestDonate_RetryWithSameIDCountsOnce(t *testing.T) {
	ctx := context.Background()
	_, base := newSeeded(t)
	gw := &flakyLedger{Gateway: base}
	svc := New(gw, WithRecorder(fixedRecorder()))
	req := recorder.Request{ID: "key-1", CharityID: "1", Amount: money("40")}

	if _, err := svc.Donate(ctx, "u1", req); !errors.Is(err, models.ErrGatewayUnavailable) {
		t.Fatalf("first Donate() error = %v, want ErrGatewayUnavailable", err)
	}
	res, err := svc.Donate(ctx, "u1", req)
	if err != nil {
		t.Fatalf("retried Donate() error = %v", err)
	}
	if !res.Duplicate || res.Donation.ID != "key-1" {
		t.Errorf("retry result = %+v, want duplicate of key-1", res)
	}
	if !res.Profile.TotalDonated.Equal(money("40")) || len(res.Profile.Donations) != 1 {
		t.Errorf("TotalDonated = %s over %d donations, want 40 over 1", res.Profile.TotalDonated, len(res.Profile.Donations))
	}

	records, err := base.DonationRecords(ctx, "u1")
	if err != nil {
		t.Fatalf("DonationRecords() error = %v", err)
	}
	if len(records) != 1 || records[0].ID != "key-1" {
		t.Errorf("ledger = %+v, want the retried donation once", records)
	}

	if _, err := svc.Donate(ctx, "u1", req); err != nil {
		t.Fatalf("third Donate() error = %v", err)
	}
	if records, _ := base.DonationRecords(ctx, "u1"); len(records) != 1 {
		t.Errorf("ledger has %d records after a repeat, want 1", len(records))
	}
}

func TestDonate_ConcurrentDonationsAreAllKept(t *testing.T) {
	ctx := context.Background()
	svc, gw := newSeeded(t)

	const n = 50
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Donate(ctx, "u1", recorder.Request{CharityID: "2", Amount: money("1.10")})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("Donate() error = %v", err)
		}
	}

	p, err := gw.LoadProfile(ctx, "u1")
	if err != nil {
		t.Fatalf("LoadProfile() error = %v", err)
	}
	if len(p.Donations) != n || !p.TotalDonated.Equal(money("55")) {
		t.Errorf("donations/total = %d/%s, want %d/55", len(p.Donations), p.TotalDonated, n)
	}
	if p.DonationHistory["2"].InteractionCount != n {
		t.Errorf("InteractionCount = %d, want %d", p.DonationHistory["2"].InteractionCount, n)
	}
	ledger, _ := gw.DonationRecords(ctx, "u1")
	if len(ledger) != n {
		t.Errorf("ledger has %d entries, want %d", len(ledger), n)
	}
}

func TestManualDonation(t *testing.T) {
	svc, _ := newSeeded(t)
	date := testNow.AddDate(0, -2, 0)

	res, err := svc.Donate(context.Background(), "u1", recorder.Request{Amount: money("20"), Date: &date})
	if err != nil {
		t.Fatalf("Donate() error = %v", err)
	}
	if !res.Donation.Date.Equal(date) || len(res.Donation.CharityID) <= len(recorder.ManualPrefix) {
		t.Errorf("donation = %+v", res.Donation)
	}
	if len(res.Profile.ImpactMetrics) != 0 {
		t.Errorf("manual donation produced impact metrics %v", res.Profile.ImpactMetrics)
	}
}

func TestProfileOrDefault(t *testing.T) {
	ctrl := gomock.NewController(t)
	gw := mockgateway.NewMockGateway(ctrl)
	svc := New(gw)

	gw.EXPECT().LoadProfile(gomock.Any(), "u1").Return(nil, fmt.Errorf("%w: timeout", models.ErrGatewayUnavailable))
	p, fallback, err := svc.ProfileOrDefault(context.Background(), "u1")
	if err != nil || !fallback || p.ID != models.DefaultUserID {
		t.Errorf("ProfileOrDefault() = %s, %v, %v; want default profile", p.ID, fallback, err)
	}
	if len(p.Badges) != len(impact.DefaultBadges) {
		t.Errorf("default profile has %d badges evaluated", len(p.Badges))
	}

	gw.EXPECT().LoadProfile(gomock.Any(), "u2").Return(nil, models.ErrNotFound)
	if _, fallback, err := svc.ProfileOrDefault(context.Background(), "u2"); !errors.Is(err, models.ErrNotFound) || fallback {
		t.Errorf("ProfileOrDefault() for unknown user = %v, %v; want ErrNotFound without fallback", fallback, err)
	}
}

func TestProfile_UnlockedBadgesStayUnlocked(t *testing.T) {
	ctx := context.Background()
	svc, gw := newSeeded(t)

	p := models.NewProfile("u1")
	p.UnlockedBadges = []string{"milestone-1000"}
	if err := gw.SaveProfile(ctx, &p); err != nil {
		t.Fatalf("SaveProfile() error = %v", err)
	}

	got, err := svc.Profile(ctx, "u1")
	if err != nil {
		t.Fatalf("Profile() error = %v", err)
	}
	for _, b := range got.Badges {
		if b.ID == "milestone-1000" && (!b.Unlocked || b.Progress != 100) {
			t.Errorf("badge = %+v, want unlocked", b)
		}
		if b.ID == "first-donation" && b.Unlocked {
			t.Errorf("first-donation unlocked without donations")
		}
	}
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	svc, gw := newSeeded(t)
	if _, err := svc.Donate(ctx, "u1", recorder.Request{CharityID: "1", Amount: money("5")}); err != nil {
		t.Fatalf("Donate() error = %v", err)
	}

	name := "Khadija"
	causes := []string{"health"}
	got, err := svc.UpdateProfile(ctx, "u1", ProfilePatch{Username: &name, PreferredCauses: &causes})
	if err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}
	if got.Username != "Khadija" || len(got.PreferredCauses) != 1 || len(got.Donations) != 1 {
		t.Errorf("profile = %+v", got)
	}
	stored, _ := gw.LoadProfile(ctx, "u1")
	if stored.Username != "Khadija" || !stored.TotalDonated.Equal(money("5")) {
		t.Errorf("stored = %+v", stored)
	}

	empty := ""
	if _, err := svc.UpdateProfile(ctx, "u1", ProfilePatch{Username: &empty}); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("UpdateProfile() with empty name error = %v, want ErrInvalidInput", err)
	}
}

func TestDashboard(t *testing.T) {
	ctx := context.Background()
	svc, gw := newSeeded(t)

	p := models.DefaultProfile()
	p.Donations = []models.Donation{
		{ID: "old", CharityID: "1", Amount: money("100"), Date: testNow.AddDate(0, -3, 0)},
		{ID: "a", CharityID: "3", Amount: money("40"), Date: testNow.AddDate(0, 0, -3)},
		{ID: "b", CharityID: "gone", Amount: money("10"), Date: testNow.AddDate(0, 0, -1)},
	}
	p.TotalDonated = money("150")
	if err := gw.SaveProfile(ctx, &p); err != nil {
		t.Fatalf("SaveProfile() error = %v", err)
	}

	w, _ := impact.WindowFor(impact.Preset30d, testNow)
	d, err := svc.Dashboard(ctx, p.ID, w)
	if err != nil {
		t.Fatalf("Dashboard() error = %v", err)
	}
	if d.Summary.Count != 2 || !d.Summary.Total.Equal(money("50")) {
		t.Errorf("summary = %+v", d.Summary)
	}
	if len(d.ImpactByCharity) != 2 || d.ImpactByCharity[0].Name != "Tech Empowerment" || d.ImpactByCharity[1].Name != "gone" {
		t.Errorf("impact by charity = %+v", d.ImpactByCharity)
	}
	if len(d.Recommendations) != 3 || d.Recommendations[0].Charity.ID != "3" {
		t.Errorf("recommendations = %+v", d.Recommendations)
	}
	if d.Tier.Current.Name != "Supporter" {
		t.Errorf("tier = %+v", d.Tier)
	}

	if _, err := svc.Dashboard(ctx, "nobody", w); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Dashboard(nobody) error = %v, want ErrNotFound", err)
	}
	if _, err := svc.Dashboard(ctx, p.ID, impact.Window{From: testNow, To: testNow.AddDate(0, 0, -1)}); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("Dashboard() with inverted window error = %v, want ErrInvalidInput", err)
	}
}

func TestRecommendationsAndCatalog(t *testing.T) {
	ctx := context.Background()
	svc, gw := newSeeded(t)
	p := models.DefaultProfile()
	if err := gw.SaveProfile(ctx, &p); err != nil {
		t.Fatalf("SaveProfile() error = %v", err)
	}

	recs, err := svc.Recommendations(ctx, p.ID, 2)
	if err != nil {
		t.Fatalf("Recommendations() error = %v", err)
	}
	if len(recs) != 2 || recs[0].Charity.ID != "3" || recs[0].Score != 6 || recs[0].MatchPercent != 60 {
		t.Errorf("recommendations = %+v", recs)
	}

	if _, err := svc.Charity(ctx, "2"); err != nil {
		t.Errorf("Charity(2) error = %v", err)
	}
	if _, err := svc.Charity(ctx, "99"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Charity(99) error = %v, want ErrNotFound", err)
	}
}
