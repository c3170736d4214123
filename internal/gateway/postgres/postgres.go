// Package postgres implements the persistence gateway on PostgreSQL
// (Supabase in production) through sqlx and the pgx stdlib driver.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"

	_ "github.com/jackc/pgx/v5/stdlib"

	"jariyah/internal/models"
)

// Schema creates every table the gateway uses. It is safe to run twice.
const Schema = `
CREATE TABLE IF NOT EXISTS profiles (
	id               TEXT PRIMARY KEY,
	username         TEXT NOT NULL DEFAULT '',
	total_donated    NUMERIC NOT NULL DEFAULT 0 CHECK (total_donated >= 0),
	impact_metrics   JSONB NOT NULL DEFAULT '{}',
	interests        JSONB NOT NULL DEFAULT '[]',
	preferred_causes JSONB NOT NULL DEFAULT '[]',
	donation_history JSONB NOT NULL DEFAULT '{}',
	unlocked_badges  JSONB NOT NULL DEFAULT '[]',
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS donations (
	seq          BIGSERIAL,
	id           TEXT PRIMARY KEY,
	user_id      TEXT NOT NULL,
	charity_id   TEXT NOT NULL,
	amount       NUMERIC NOT NULL CHECK (amount > 0),
	date         TIMESTAMPTZ NOT NULL,
	is_recurring BOOLEAN NOT NULL DEFAULT false,
	frequency    TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS donations_user_idx ON donations (user_id, seq);

CREATE TABLE IF NOT EXISTS charities (
	seq          BIGSERIAL,
	id           TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	description  TEXT NOT NULL DEFAULT '',
	category     TEXT NOT NULL DEFAULT '',
	image_url    TEXT NOT NULL DEFAULT '',
	impact       JSONB NOT NULL DEFAULT '{}',
	total_raised NUMERIC NOT NULL DEFAULT 0 CHECK (total_raised >= 0),
	goal         NUMERIC NOT NULL CHECK (goal > 0),
	tags         JSONB NOT NULL DEFAULT '[]',
	causes       JSONB NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS checkouts (
	order_id     TEXT PRIMARY KEY,
	user_id      TEXT NOT NULL,
	charity_id   TEXT NOT NULL DEFAULT '',
	amount       NUMERIC NOT NULL,
	is_recurring BOOLEAN NOT NULL DEFAULT false,
	frequency    TEXT NOT NULL DEFAULT '',
	status       TEXT NOT NULL,
	donation_id  TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMPTZ NOT NULL
);
`

// Gateway stores donor data in PostgreSQL.
type Gateway struct {
	DB *sqlx.DB
}

// Connect opens a pool for dsn and checks it is reachable.
func Connect(ctx context.Context, dsn string) (*Gateway, error) {
	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: connect: %v", models.ErrGatewayUnavailable, err)
	}
	return &Gateway{DB: db}, nil
}

// NewGateway wraps an open pool.
func NewGateway(db *sqlx.DB) *Gateway {
	return &Gateway{DB: db}
}

// Migrate applies Schema.
func (g *Gateway) Migrate(ctx context.Context) error {
	if _, err := g.DB.ExecContext(ctx, Schema); err != nil {
		return classify("migrate", err)
	}
	return nil
}

// classify wraps err for the caller. Errors the server answered with are
// returned as is; anything else means the database could not be reached.
func classify(op string, err error) error {
	var pgErr *pgconn.PgError
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	case errors.As(err, &pgErr):
		return fmt.Errorf("%s: %w", op, err)
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("%s: %w", op, err)
	default:
		return fmt.Errorf("%s: %w: %v", op, models.ErrGatewayUnavailable, err)
	}
}

type profileRow struct {
	ID              string          `db:"id"`
	Username        string          `db:"username"`
	TotalDonated    decimal.Decimal `db:"total_donated"`
	ImpactMetrics   types.JSONText  `db:"impact_metrics"`
	Interests       types.JSONText  `db:"interests"`
	PreferredCauses types.JSONText  `db:"preferred_causes"`
	DonationHistory types.JSONText  `db:"donation_history"`
	UnlockedBadges  types.JSONText  `db:"unlocked_badges"`
}

func marshalJSON(v any) (types.JSONText, error) {
	b, err := json.Marshal(v)
	return types.JSONText(b), err
}

func toProfileRow(p *models.UserProfile) (profileRow, error) {
	row := profileRow{ID: p.ID, Username: p.Username, TotalDonated: p.TotalDonated}
	fields := []struct {
		dst *types.JSONText
		v   any
	}{
		{&row.ImpactMetrics, orEmptyMap(p.ImpactMetrics)},
		{&row.Interests, orEmpty(p.Interests)},
		{&row.PreferredCauses, orEmpty(p.PreferredCauses)},
		{&row.DonationHistory, orEmptyMap(p.DonationHistory)},
		{&row.UnlockedBadges, orEmpty(p.UnlockedBadges)},
	}
	for _, f := range fields {
		b, err := marshalJSON(f.v)
		if err != nil {
			return profileRow{}, err
		}
		*f.dst = b
	}
	return row, nil
}

// toModel rebuilds a profile from its row and its donations in insertion
// order. The stored total must match the donations.
func (r profileRow) toModel(donations []models.Donation) (*models.UserProfile, error) {
	p := models.NewProfile(r.ID)
	p.Username = r.Username
	p.TotalDonated = r.TotalDonated
	p.Donations = append(p.Donations, donations...)

	for _, f := range []struct {
		src types.JSONText
		dst any
	}{
		{r.ImpactMetrics, &p.ImpactMetrics},
		{r.Interests, &p.Interests},
		{r.PreferredCauses, &p.PreferredCauses},
		{r.DonationHistory, &p.DonationHistory},
		{r.UnlockedBadges, &p.UnlockedBadges},
	} {
		if err := f.src.Unmarshal(f.dst); err != nil {
			return nil, fmt.Errorf("profile %s: %w", r.ID, err)
		}
	}
	p = p.Clone()
	if p.ImpactMetrics == nil {
		p.ImpactMetrics = map[string]int{}
	}
	if sum := models.SumDonations(p.Donations); !sum.Equal(p.TotalDonated) {
		return nil, fmt.Errorf("profile %s: total %s does not match donation sum %s", r.ID, p.TotalDonated, sum)
	}
	return &p, nil
}

func (g *Gateway) LoadProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	var row profileRow
	query := `SELECT id, username, total_donated, impact_metrics, interests,
	                 preferred_causes, donation_history, unlocked_badges
	          FROM profiles WHERE id = $1`
	if err := g.DB.GetContext(ctx, &row, query, userID); err != nil {
		return nil, classify("load profile "+userID, err)
	}
	donations, err := g.DonationRecords(ctx, userID)
	if err != nil {
		return nil, err
	}
	return row.toModel(donations)
}

// SaveProfile upserts the profile and inserts any of its donations that
// are not stored yet, in one transaction.
func (g *Gateway) SaveProfile(ctx context.Context, profile *models.UserProfile) error {
	row, err := toProfileRow(profile)
	if err != nil {
		return err
	}

	tx, err := g.DB.BeginTxx(ctx, nil)
	if err != nil {
		return classify("begin", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO profiles
		  (id, username, total_donated, impact_metrics, interests,
		   preferred_causes, donation_history, unlocked_badges)
		VALUES
		  (:id, :username, :total_donated, :impact_metrics, :interests,
		   :preferred_causes, :donation_history, :unlocked_badges)
		ON CONFLICT (id) DO UPDATE SET
		  username = EXCLUDED.username,
		  total_donated = EXCLUDED.total_donated,
		  impact_metrics = EXCLUDED.impact_metrics,
		  interests = EXCLUDED.interests,
		  preferred_causes = EXCLUDED.preferred_causes,
		  donation_history = EXCLUDED.donation_history,
		  unlocked_badges = EXCLUDED.unlocked_badges,
		  updated_at = now()
	`
	if _, err := tx.NamedExecContext(ctx, query, row); err != nil {
		return classify("save profile "+profile.ID, err)
	}
	for _, d := range profile.Donations {
		if err := insertDonation(ctx, tx, profile.ID, d); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return classify("commit profile "+profile.ID, err)
	}
	return nil
}

func insertDonation(ctx context.Context, tx sqlx.ExtContext, userID string, d models.Donation) error {
	query := `
		INSERT INTO donations (id, user_id, charity_id, amount, date, is_recurring, frequency)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := tx.ExecContext(ctx, query, d.ID, userID, d.CharityID, d.Amount, d.Date, d.IsRecurring, string(d.Frequency))
	if err != nil {
		return classify("insert donation "+d.ID, err)
	}
	return nil
}

// AppendDonationRecord stores the donation unless its id is already known.
func (g *Gateway) AppendDonationRecord(ctx context.Context, userID string, donation models.Donation) error {
	return insertDonation(ctx, g.DB, userID, donation)
}

// DonationRecords returns the stored donations of userID in insertion order.
func (g *Gateway) DonationRecords(ctx context.Context, userID string) ([]models.Donation, error) {
	var donations []models.Donation
	query := `SELECT id, charity_id, amount, date, is_recurring, frequency
	          FROM donations WHERE user_id = $1 ORDER BY seq`
	if err := g.DB.SelectContext(ctx, &donations, query, userID); err != nil {
		return nil, classify("load donations "+userID, err)
	}
	for i := range donations {
		donations[i].Date = donations[i].Date.UTC()
	}
	return donations, nil
}

type charityRow struct {
	ID          string          `db:"id"`
	Name        string          `db:"name"`
	Description string          `db:"description"`
	Category    string          `db:"category"`
	ImageURL    string          `db:"image_url"`
	Impact      types.JSONText  `db:"impact"`
	TotalRaised decimal.Decimal `db:"total_raised"`
	Goal        decimal.Decimal `db:"goal"`
	Tags        types.JSONText  `db:"tags"`
	Causes      types.JSONText  `db:"causes"`
}

func (r charityRow) toModel() (models.Charity, error) {
	c := models.Charity{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Category:    r.Category,
		ImageURL:    r.ImageURL,
		TotalRaised: r.TotalRaised,
		Goal:        r.Goal,
	}
	if err := r.Impact.Unmarshal(&c.Impact); err != nil {
		return models.Charity{}, fmt.Errorf("charity %s impact: %w", r.ID, err)
	}
	if err := r.Tags.Unmarshal(&c.Tags); err != nil {
		return models.Charity{}, fmt.Errorf("charity %s tags: %w", r.ID, err)
	}
	if err := r.Causes.Unmarshal(&c.Causes); err != nil {
		return models.Charity{}, fmt.Errorf("charity %s causes: %w", r.ID, err)
	}
	return c, c.Validate()
}

func (g *Gateway) LoadCharityCatalog(ctx context.Context) ([]models.Charity, error) {
	var rows []charityRow
	query := `SELECT id, name, description, category, image_url, impact,
	                 total_raised, goal, tags, causes
	          FROM charities ORDER BY seq`
	if err := g.DB.SelectContext(ctx, &rows, query); err != nil {
		return nil, classify("load charities", err)
	}
	charities := make([]models.Charity, 0, len(rows))
	for _, r := range rows {
		c, err := r.toModel()
		if err != nil {
			log.Println("Skipping charity row:", err)
			continue
		}
		charities = append(charities, c)
	}
	return charities, nil
}

func (g *Gateway) SaveCharity(ctx context.Context, charity models.Charity) error {
	if err := charity.Validate(); err != nil {
		return err
	}
	impact, err := marshalJSON(charity.Impact)
	if err != nil {
		return err
	}
	tags, _ := marshalJSON(orEmpty(charity.Tags))
	causes, _ := marshalJSON(orEmpty(charity.Causes))

	query := `
		INSERT INTO charities
		  (id, name, description, category, image_url, impact, total_raised, goal, tags, causes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
		  name = EXCLUDED.name,
		  description = EXCLUDED.description,
		  category = EXCLUDED.category,
		  image_url = EXCLUDED.image_url,
		  impact = EXCLUDED.impact,
		  total_raised = EXCLUDED.total_raised,
		  goal = EXCLUDED.goal,
		  tags = EXCLUDED.tags,
		  causes = EXCLUDED.causes
	`
	_, err = g.DB.ExecContext(ctx, query,
		charity.ID, charity.Name, charity.Description, charity.Category, charity.ImageURL,
		impact, charity.TotalRaised, charity.Goal, tags, causes,
	)
	if err != nil {
		return classify("save charity "+charity.ID, err)
	}
	return nil
}

func (g *Gateway) SaveCheckout(ctx context.Context, checkout models.Checkout) error {
	query := `
		INSERT INTO checkouts
		  (order_id, user_id, charity_id, amount, is_recurring, frequency, status, donation_id, created_at)
		VALUES
		  (:order_id, :user_id, :charity_id, :amount, :is_recurring, :frequency, :status, :donation_id, :created_at)
		ON CONFLICT (order_id) DO UPDATE SET
		  status = EXCLUDED.status,
		  donation_id = EXCLUDED.donation_id
	`
	if _, err := g.DB.NamedExecContext(ctx, query, checkout); err != nil {
		return classify("save checkout "+checkout.OrderID, err)
	}
	return nil
}

func (g *Gateway) LoadCheckout(ctx context.Context, orderID string) (*models.Checkout, error) {
	var c models.Checkout
	query := `SELECT order_id, user_id, charity_id, amount, is_recurring, frequency,
	                 status, donation_id, created_at
	          FROM checkouts WHERE order_id = $1`
	if err := g.DB.GetContext(ctx, &c, query, orderID); err != nil {
		return nil, classify("load checkout "+orderID, err)
	}
	c.CreatedAt = c.CreatedAt.UTC()
	return &c, nil
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func orEmptyMap[K comparable, V any](m map[K]V) map[K]V {
	if m == nil {
		return map[K]V{}
	}
	return m
}
