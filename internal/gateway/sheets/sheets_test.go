package sheets

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"

	"jariyah/internal/gateway/rows"
	"jariyah/internal/models"
)

const spreadsheet = "sheet-123"

// fakeSheets serves the subset of the values API the table uses.
type fakeSheets struct {
	t      *testing.T
	pub    *rsa.PublicKey
	mu     sync.Mutex
	sheets map[string][][]string
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	_, err := jwt.Parse(token, func(*jwt.Token) (any, error) { return f.pub, nil },
		jwt.WithAudience(audience), jwt.WithIssuer("svc@example.iam.gserviceaccount.com"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	base := "/v4/spreadsheets/" + spreadsheet
	path := r.URL.Path
	switch {
	case path == base && r.Method == http.MethodGet:
		type props struct {
			Title string `json:"title"`
		}
		var out struct {
			Sheets []struct {
				Properties props `json:"properties"`
			} `json:"sheets"`
		}
		for name := range f.sheets {
			out.Sheets = append(out.Sheets, struct {
				Properties props `json:"properties"`
			}{props{name}})
		}
		json.NewEncoder(w).Encode(out)

	case path == base+":batchUpdate":
		var body struct {
			Requests []struct {
				AddSheet struct {
					Properties struct {
						Title string `json:"title"`
					} `json:"properties"`
				} `json:"addSheet"`
			} `json:"requests"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		for _, req := range body.Requests {
			f.sheets[req.AddSheet.Properties.Title] = [][]string{}
		}
		w.Write([]byte("{}"))

	case strings.HasPrefix(path, base+"/values/"):
		rng := strings.TrimPrefix(path, base+"/values/")
		var body valueRange
		if r.Body != nil {
			json.NewDecoder(r.Body).Decode(&body)
		}
		switch r.Method {
		case http.MethodGet:
			rowsOf, ok := f.sheets[rng]
			if !ok {
				http.Error(w, "Unable to parse range: "+rng, http.StatusBadRequest)
				return
			}
			json.NewEncoder(w).Encode(valueRange{Values: rowsOf})
		case http.MethodPost:
			name := strings.TrimSuffix(rng, "!A1:append")
			f.sheets[name] = append(f.sheets[name], body.Values...)
			w.Write([]byte("{}"))
		case http.MethodPut:
			name, cell, _ := strings.Cut(rng, "!A")
			n, _ := strconv.Atoi(cell)
			f.sheets[name][n-1] = body.Values[0]
			w.Write([]byte("{}"))
		}

	default:
		http.NotFound(w, r)
	}
}

func newTestTable(t *testing.T, handler func(*rsa.PublicKey) http.Handler) *Table {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("GenerateKey() error = %v", err)
	}
	block := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})

	srv := httptest.NewServer(handler(&key.PublicKey))
	t.Cleanup(srv.Close)

	table, err := New(Config{
		SpreadsheetID: spreadsheet,
		ClientEmail:   "svc@example.iam.gserviceaccount.com",
		// keys from env files carry escaped newlines
		PrivateKey: strings.ReplaceAll(string(block), "\n", `\n`),
		BaseURL:    srv.URL,
		Timeout:    2 * time.Second,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return table
}

func TestNew_MissingCredentials(t *testing.T) {
	_, err := New(Config{SpreadsheetID: spreadsheet})
	if !errors.Is(err, models.ErrGatewayUnavailable) {
		t.Errorf("New() error = %v, want ErrGatewayUnavailable", err)
	}
	_, err = New(Config{SpreadsheetID: spreadsheet, ClientEmail: "a@b", PrivateKey: "not a key"})
	if !errors.Is(err, models.ErrGatewayUnavailable) {
		t.Errorf("New() with bad key error = %v, want ErrGatewayUnavailable", err)
	}
}

func TestTable_RoundTrip(t *testing.T) {
	ctx := context.Background()
	fake := &fakeSheets{t: t, sheets: map[string][][]string{}}
	table := newTestTable(t, func(pub *rsa.PublicKey) http.Handler {
		fake.pub = pub
		return fake
	})
	g := rows.New(table)

	if _, err := g.LoadProfile(ctx, "u1"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("LoadProfile() on empty spreadsheet error = %v, want ErrNotFound", err)
	}

	p := models.NewProfile("u1")
	p.Username = "Umar"
	p.Donations = []models.Donation{{
		ID: "d1", CharityID: "3", Amount: decimal.NewFromInt(25),
		Date: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), IsRecurring: true, Frequency: models.FrequencyWeekly,
	}}
	p.TotalDonated = decimal.NewFromInt(25)
	if err := g.SaveProfile(ctx, &p); err != nil {
		t.Fatalf("SaveProfile() error = %v", err)
	}
	p.Username = "Umar A."
	if err := g.SaveProfile(ctx, &p); err != nil {
		t.Fatalf("SaveProfile() update error = %v", err)
	}

	got, err := g.LoadProfile(ctx, "u1")
	if err != nil {
		t.Fatalf("LoadProfile() error = %v", err)
	}
	if got.Username != "Umar A." || !got.TotalDonated.Equal(decimal.NewFromInt(25)) {
		t.Errorf("profile = %+v", got)
	}
	if n := len(fake.sheets[rows.SheetUsers]); n != 2 {
		t.Errorf("Users sheet has %d rows, want header + 1", n)
	}
}

func TestTable_UnavailableStatuses(t *testing.T) {
	for _, status := range []int{
		http.StatusServiceUnavailable,
		http.StatusTooManyRequests,
		http.StatusUnauthorized,
		http.StatusForbidden,
	} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			table := newTestTable(t, func(*rsa.PublicKey) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					http.Error(w, "backend error", status)
				})
			})

			_, err := table.ReadRows(context.Background(), rows.SheetUsers)
			if !errors.Is(err, models.ErrGatewayUnavailable) {
				t.Errorf("ReadRows() on %d error = %v, want ErrGatewayUnavailable", status, err)
			}
		})
	}
}

func TestTable_ReusesToken(t *testing.T) {
	table := newTestTable(t, func(*rsa.PublicKey) http.Handler { return http.NotFoundHandler() })

	first, err := table.accessToken()
	if err != nil {
		t.Fatalf("accessToken() error = %v", err)
	}
	second, _ := table.accessToken()
	if first != second {
		t.Error("accessToken() minted a new token before the old one expired")
	}
}
