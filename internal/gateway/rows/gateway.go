// Package rows implements the persistence gateway on top of any
// spreadsheet-like table: named sheets of string cells with a header row.
// Every sheet has a fixed schema and cells are decoded into typed fields;
// rows that do not decode are rejected instead of coerced.
package rows

import (
	"context"
	"fmt"
	"log"
	"sync"

	"jariyah/internal/models"
)

// Table is a row store. Row 0 of every sheet is the header; indexes passed
// to UpdateRow count the header. Reading a sheet that does not exist yet
// returns no rows.
type Table interface {
	ReadRows(ctx context.Context, sheet string) ([][]string, error)
	AppendRow(ctx context.Context, sheet string, row []string) error
	UpdateRow(ctx context.Context, sheet string, index int, row []string) error
}

// Gateway stores profiles, charities, donations and checkouts in a Table.
type Gateway struct {
	table Table
	// mu keeps find-then-write sequences from interleaving and loads from
	// seeing a sheet between them.
	mu sync.RWMutex
}

// New returns a Gateway over table.
func New(table Table) *Gateway {
	return &Gateway{table: table}
}

// sheetRows reads a sheet and parses its header. A missing sheet yields a
// nil header and no rows.
func (g *Gateway) sheetRows(ctx context.Context, sheet string) (header, [][]string, error) {
	all, err := g.table.ReadRows(ctx, sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", sheet, err)
	}
	if len(all) == 0 {
		return nil, nil, nil
	}
	h, err := parseHeader(sheet, all[0])
	if err != nil {
		return nil, nil, err
	}
	return h, all, nil
}

// find returns the index of the row whose key column equals key, or -1.
func find(h header, all [][]string, keyCol, key string) int {
	for i := 1; i < len(all); i++ {
		if h.cell(all[i], keyCol) == key {
			return i
		}
	}
	return -1
}

// upsert writes values to the row keyed by values[keyCol], appending when
// absent and creating the header on first write. Callers hold g.mu.
func (g *Gateway) upsert(ctx context.Context, sheet, keyCol string, values map[string]string) error {
	h, all, err := g.sheetRows(ctx, sheet)
	if err != nil {
		return err
	}
	if h == nil {
		cols := Columns(sheet)
		if err := g.table.AppendRow(ctx, sheet, cols); err != nil {
			return fmt.Errorf("write %s header: %w", sheet, err)
		}
		h, _ = parseHeader(sheet, cols)
	}

	row := h.layout(values)
	if i := find(h, all, keyCol, values[keyCol]); i > 0 {
		if err := g.table.UpdateRow(ctx, sheet, i, row); err != nil {
			return fmt.Errorf("update %s row %d: %w", sheet, i, err)
		}
		return nil
	}
	if err := g.table.AppendRow(ctx, sheet, row); err != nil {
		return fmt.Errorf("append %s row: %w", sheet, err)
	}
	return nil
}

// LoadProfile returns the profile stored for userID.
func (g *Gateway) LoadProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	h, all, err := g.sheetRows(ctx, SheetUsers)
	if err != nil {
		return nil, err
	}
	i := find(h, all, "id", userID)
	if i < 0 {
		return nil, fmt.Errorf("profile %s: %w", userID, models.ErrNotFound)
	}
	return decodeProfile(h, i+1, all[i])
}

// SaveProfile replaces the stored profile, creating it if needed.
func (g *Gateway) SaveProfile(ctx context.Context, profile *models.UserProfile) error {
	values, err := encodeProfile(profile)
	if err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	return g.upsert(ctx, SheetUsers, "id", values)
}

// LoadCharityCatalog returns every charity that decodes and satisfies the
// catalog invariants, in sheet order. Bad rows are logged and skipped.
func (g *Gateway) LoadCharityCatalog(ctx context.Context) ([]models.Charity, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	h, all, err := g.sheetRows(ctx, SheetCharities)
	if err != nil {
		return nil, err
	}
	charities := make([]models.Charity, 0, len(all))
	for i := 1; i < len(all); i++ {
		c, err := decodeCharity(h, i+1, all[i])
		if err != nil {
			log.Println("Skipping charity row:", err)
			continue
		}
		charities = append(charities, c)
	}
	return charities, nil
}

// AppendDonationRecord adds a donation to the Donations ledger sheet.
// A donation id that is already present is left as is.
func (g *Gateway) AppendDonationRecord(ctx context.Context, userID string, donation models.Donation) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	h, all, err := g.sheetRows(ctx, SheetDonations)
	if err != nil {
		return err
	}
	if h != nil && find(h, all, "id", donation.ID) > 0 {
		return nil
	}
	return g.upsert(ctx, SheetDonations, "id", encodeDonation(userID, donation))
}

// DonationRecords returns the ledger entries of userID in sheet order.
func (g *Gateway) DonationRecords(ctx context.Context, userID string) ([]models.Donation, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	h, all, err := g.sheetRows(ctx, SheetDonations)
	if err != nil {
		return nil, err
	}
	var out []models.Donation
	for i := 1; i < len(all); i++ {
		owner, d, err := decodeDonation(h, i+1, all[i])
		if err != nil {
			return nil, err
		}
		if owner == userID {
			out = append(out, d)
		}
	}
	return out, nil
}

// SaveCharity inserts or replaces a catalog entry.
func (g *Gateway) SaveCharity(ctx context.Context, charity models.Charity) error {
	if err := charity.Validate(); err != nil {
		return err
	}
	values, err := encodeCharity(charity)
	if err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	return g.upsert(ctx, SheetCharities, "id", values)
}

// SaveCheckout inserts or replaces a checkout by order id.
func (g *Gateway) SaveCheckout(ctx context.Context, checkout models.Checkout) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.upsert(ctx, SheetCheckouts, "orderId", encodeCheckout(checkout))
}

// LoadCheckout returns the checkout for orderID.
func (g *Gateway) LoadCheckout(ctx context.Context, orderID string) (*models.Checkout, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	h, all, err := g.sheetRows(ctx, SheetCheckouts)
	if err != nil {
		return nil, err
	}
	i := find(h, all, "orderId", orderID)
	if i < 0 {
		return nil, fmt.Errorf("checkout %s: %w", orderID, models.ErrNotFound)
	}
	return decodeCheckout(h, i+1, all[i])
}
