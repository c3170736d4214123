package rows

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"jariyah/internal/models"
)

// ErrMalformedRow is returned for rows whose cells do not decode.
var ErrMalformedRow = errors.New("malformed row")

// Sheet names.
const (
	SheetUsers     = "Users"
	SheetCharities = "Charities"
	SheetDonations = "Donations"
	SheetCheckouts = "Checkouts"
)

// Column lists per sheet. The first column is the row key.
var (
	userColumns = []string{
		"id", "username", "totalDonated", "donations", "impactMetrics",
		"interests", "preferredCauses", "donationHistory", "unlockedBadges",
	}
	charityColumns = []string{
		"id", "name", "description", "category", "imageUrl",
		"impact", "totalRaised", "goal", "tags", "causes",
	}
	donationColumns = []string{
		"id", "userId", "charityId", "amount", "date", "isRecurring", "frequency",
	}
	checkoutColumns = []string{
		"orderId", "userId", "charityId", "amount", "isRecurring", "frequency",
		"status", "donationId", "createdAt",
	}
)

// Columns returns the schema of sheet.
func Columns(sheet string) []string {
	switch sheet {
	case SheetUsers:
		return userColumns
	case SheetCharities:
		return charityColumns
	case SheetDonations:
		return donationColumns
	case SheetCheckouts:
		return checkoutColumns
	}
	return nil
}

// header maps column names to their position in a sheet's first row.
type header map[string]int

func parseHeader(sheet string, first []string) (header, error) {
	h := make(header, len(first))
	for i, name := range first {
		h[strings.TrimSpace(name)] = i
	}
	for _, col := range Columns(sheet) {
		if _, ok := h[col]; !ok {
			return nil, fmt.Errorf("%w: %s header is missing column %q", ErrMalformedRow, sheet, col)
		}
	}
	return h, nil
}

// width is the number of cells a row laid out with h needs.
func (h header) width() int {
	n := 0
	for _, i := range h {
		n = max(n, i+1)
	}
	return n
}

// layout places values into a row ordered by h.
func (h header) layout(values map[string]string) []string {
	row := make([]string, h.width())
	for col, v := range values {
		if i, ok := h[col]; ok {
			row[i] = v
		}
	}
	return row
}

func (h header) cell(cells []string, col string) string {
	i, ok := h[col]
	if !ok || i >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[i])
}

// decoder reads typed cells from one row and keeps the first failure.
type decoder struct {
	sheet string
	line  int
	h     header
	cells []string
	err   error
}

func (d *decoder) fail(col string, err error) {
	if d.err == nil {
		d.err = fmt.Errorf("%w: %s row %d column %s: %v", ErrMalformedRow, d.sheet, d.line, col, err)
	}
}

func (d *decoder) text(col string) string {
	return d.h.cell(d.cells, col)
}

func (d *decoder) required(col string) string {
	v := d.text(col)
	if v == "" {
		d.fail(col, errors.New("empty"))
	}
	return v
}

func (d *decoder) money(col string) decimal.Decimal {
	v, err := decimal.NewFromString(d.text(col))
	if err != nil {
		d.fail(col, err)
		return decimal.Zero
	}
	return v
}

func (d *decoder) timestamp(col string) time.Time {
	v, err := time.Parse(time.RFC3339Nano, d.text(col))
	if err != nil {
		d.fail(col, err)
		return time.Time{}
	}
	return v.UTC()
}

func (d *decoder) flag(col string) bool {
	v, err := strconv.ParseBool(d.text(col))
	if err != nil {
		d.fail(col, err)
	}
	return v
}

func (d *decoder) frequency(col string, recurring bool) models.Frequency {
	f := models.Frequency(d.text(col))
	switch {
	case recurring && !f.Valid():
		d.fail(col, fmt.Errorf("recurring donation has frequency %q", f))
	case !recurring && f != "":
		d.fail(col, fmt.Errorf("one-off donation has frequency %q", f))
	}
	return f
}

func (d *decoder) jsonValue(col string, v any) {
	raw := d.text(col)
	if raw == "" {
		raw = "null"
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		d.fail(col, err)
	}
}

func formatMoney(v decimal.Decimal) string { return v.String() }

func formatTime(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

func formatJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeProfile(h header, line int, cells []string) (*models.UserProfile, error) {
	d := &decoder{sheet: SheetUsers, line: line, h: h, cells: cells}
	p := models.NewProfile(d.required("id"))
	p.Username = d.text("username")
	p.TotalDonated = d.money("totalDonated")
	d.jsonValue("donations", &p.Donations)
	d.jsonValue("impactMetrics", &p.ImpactMetrics)
	d.jsonValue("interests", &p.Interests)
	d.jsonValue("preferredCauses", &p.PreferredCauses)
	d.jsonValue("donationHistory", &p.DonationHistory)
	d.jsonValue("unlockedBadges", &p.UnlockedBadges)
	if d.err != nil {
		return nil, d.err
	}

	// a "null" cell leaves a nil collection behind
	p = p.Clone()
	if p.ImpactMetrics == nil {
		p.ImpactMetrics = map[string]int{}
	}
	for _, don := range p.Donations {
		if don.IsRecurring != (don.Frequency != "") || (don.IsRecurring && !don.Frequency.Valid()) {
			d.fail("donations", fmt.Errorf("donation %s has frequency %q with recurring=%t", don.ID, don.Frequency, don.IsRecurring))
		}
	}
	if sum := models.SumDonations(p.Donations); !sum.Equal(p.TotalDonated) {
		d.fail("totalDonated", fmt.Errorf("total %s does not match donation sum %s", p.TotalDonated, sum))
	}
	if d.err != nil {
		return nil, d.err
	}
	return &p, nil
}

func encodeProfile(p *models.UserProfile) (map[string]string, error) {
	out := map[string]string{
		"id":           p.ID,
		"username":     p.Username,
		"totalDonated": formatMoney(p.TotalDonated),
	}
	fields := map[string]any{
		"donations":       nonNil(p.Donations),
		"impactMetrics":   p.ImpactMetrics,
		"interests":       nonNil(p.Interests),
		"preferredCauses": nonNil(p.PreferredCauses),
		"donationHistory": p.DonationHistory,
		"unlockedBadges":  nonNil(p.UnlockedBadges),
	}
	for col, v := range fields {
		s, err := formatJSON(v)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", col, err)
		}
		out[col] = s
	}
	return out, nil
}

func decodeCharity(h header, line int, cells []string) (models.Charity, error) {
	d := &decoder{sheet: SheetCharities, line: line, h: h, cells: cells}
	c := models.Charity{
		ID:          d.required("id"),
		Name:        d.required("name"),
		Description: d.text("description"),
		Category:    d.text("category"),
		ImageURL:    d.text("imageUrl"),
		TotalRaised: d.money("totalRaised"),
		Goal:        d.money("goal"),
	}
	d.jsonValue("impact", &c.Impact)
	d.jsonValue("tags", &c.Tags)
	d.jsonValue("causes", &c.Causes)
	if d.err != nil {
		return models.Charity{}, d.err
	}
	if err := c.Validate(); err != nil {
		return models.Charity{}, fmt.Errorf("%w: %s row %d: %v", ErrMalformedRow, SheetCharities, line, err)
	}
	return c, nil
}

func encodeCharity(c models.Charity) (map[string]string, error) {
	out := map[string]string{
		"id":          c.ID,
		"name":        c.Name,
		"description": c.Description,
		"category":    c.Category,
		"imageUrl":    c.ImageURL,
		"totalRaised": formatMoney(c.TotalRaised),
		"goal":        formatMoney(c.Goal),
	}
	fields := map[string]any{
		"impact": c.Impact,
		"tags":   nonNil(c.Tags),
		"causes": nonNil(c.Causes),
	}
	for col, v := range fields {
		s, err := formatJSON(v)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", col, err)
		}
		out[col] = s
	}
	return out, nil
}

func encodeDonation(userID string, don models.Donation) map[string]string {
	return map[string]string{
		"id":          don.ID,
		"userId":      userID,
		"charityId":   don.CharityID,
		"amount":      formatMoney(don.Amount),
		"date":        formatTime(don.Date),
		"isRecurring": strconv.FormatBool(don.IsRecurring),
		"frequency":   string(don.Frequency),
	}
}

func decodeDonation(h header, line int, cells []string) (string, models.Donation, error) {
	d := &decoder{sheet: SheetDonations, line: line, h: h, cells: cells}
	userID := d.required("userId")
	don := models.Donation{
		ID:          d.required("id"),
		CharityID:   d.required("charityId"),
		Amount:      d.money("amount"),
		Date:        d.timestamp("date"),
		IsRecurring: d.flag("isRecurring"),
	}
	don.Frequency = d.frequency("frequency", don.IsRecurring)
	if d.err != nil {
		return "", models.Donation{}, d.err
	}
	return userID, don, nil
}

func decodeCheckout(h header, line int, cells []string) (*models.Checkout, error) {
	d := &decoder{sheet: SheetCheckouts, line: line, h: h, cells: cells}
	c := models.Checkout{
		OrderID:     d.required("orderId"),
		UserID:      d.required("userId"),
		CharityID:   d.text("charityId"),
		Amount:      d.money("amount"),
		IsRecurring: d.flag("isRecurring"),
		Status:      models.CheckoutStatus(d.required("status")),
		DonationID:  d.text("donationId"),
		CreatedAt:   d.timestamp("createdAt"),
	}
	c.Frequency = d.frequency("frequency", c.IsRecurring)
	if d.err != nil {
		return nil, d.err
	}
	return &c, nil
}

func encodeCheckout(c models.Checkout) map[string]string {
	return map[string]string{
		"orderId":     c.OrderID,
		"userId":      c.UserID,
		"charityId":   c.CharityID,
		"amount":      formatMoney(c.Amount),
		"isRecurring": strconv.FormatBool(c.IsRecurring),
		"frequency":   string(c.Frequency),
		"status":      string(c.Status),
		"donationId":  c.DonationID,
		"createdAt":   formatTime(c.CreatedAt),
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
