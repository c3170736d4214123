// Package sheets stores gateway sheets in a Google Sheets spreadsheet
// through the v4 values API, authenticated as a service account.
package sheets

import (
	"bytes"
	"context"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"jariyah/internal/models"
)

const (
	DefaultBaseURL = "https://sheets.googleapis.com"
	audience       = "https://sheets.googleapis.com/"
	tokenLifetime  = time.Hour
)

// Config holds the spreadsheet and service account credentials.
type Config struct {
	SpreadsheetID string
	ClientEmail   string
	PrivateKey    string // PEM, literal "\n" sequences allowed
	BaseURL       string
	Timeout       time.Duration
}

// Table is a rows.Table backed by a spreadsheet.
type Table struct {
	client        *http.Client
	baseURL       string
	spreadsheetID string
	email         string
	key           *rsa.PrivateKey

	mu       sync.Mutex
	token    string
	tokenExp time.Time
	known    map[string]bool
}

// New validates the credentials and returns a Table. Missing credentials
// are reported as models.ErrGatewayUnavailable.
func New(cfg Config) (*Table, error) {
	if cfg.SpreadsheetID == "" || cfg.ClientEmail == "" || cfg.PrivateKey == "" {
		return nil, fmt.Errorf("%w: google sheets credentials are not configured", models.ErrGatewayUnavailable)
	}
	pem := strings.ReplaceAll(cfg.PrivateKey, `\n`, "\n")
	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(pem))
	if err != nil {
		return nil, fmt.Errorf("%w: parse service account key: %v", models.ErrGatewayUnavailable, err)
	}
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Table{
		client:        &http.Client{Timeout: timeout},
		baseURL:       strings.TrimRight(base, "/"),
		spreadsheetID: cfg.SpreadsheetID,
		email:         cfg.ClientEmail,
		key:           key,
		known:         make(map[string]bool),
	}, nil
}

// accessToken returns a self-signed service account JWT, reusing it until
// shortly before it expires.
func (t *Table) accessToken() (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	if t.token != "" && now.Add(time.Minute).Before(t.tokenExp) {
		return t.token, nil
	}
	exp := now.Add(tokenLifetime)
	claims := jwt.RegisteredClaims{
		Issuer:    t.email,
		Subject:   t.email,
		Audience:  jwt.ClaimStrings{audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(t.key)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	t.token, t.tokenExp = signed, exp
	return signed, nil
}

type valueRange struct {
	Values [][]string `json:"values"`
}

type apiError struct {
	Status int
	Body   string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("sheets api returned %d: %s", e.Status, e.Body)
}

// do sends one API call and decodes the JSON response into out when out is
// not nil. Transport failures and 5xx responses wrap ErrGatewayUnavailable.
func (t *Table) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, t.baseURL+path, reader)
	if err != nil {
		return err
	}
	token, err := t.accessToken()
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		apiErr := &apiError{Status: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
		switch {
		case resp.StatusCode >= 500, resp.StatusCode == http.StatusTooManyRequests,
			// bad service-account key or a spreadsheet not shared with it
			resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
			return fmt.Errorf("%w: %v", models.ErrGatewayUnavailable, apiErr)
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", models.ErrGatewayUnavailable, err)
	}
	return nil
}

func (t *Table) valuesPath(rng string) string {
	return "/v4/spreadsheets/" + url.PathEscape(t.spreadsheetID) + "/values/" + url.PathEscape(rng)
}

// ensureSheet creates sheet unless the spreadsheet already has it.
func (t *Table) ensureSheet(ctx context.Context, sheet string) error {
	t.mu.Lock()
	ok := t.known[sheet]
	t.mu.Unlock()
	if ok {
		return nil
	}

	var meta struct {
		Sheets []struct {
			Properties struct {
				Title string `json:"title"`
			} `json:"properties"`
		} `json:"sheets"`
	}
	base := "/v4/spreadsheets/" + url.PathEscape(t.spreadsheetID)
	if err := t.do(ctx, http.MethodGet, base+"?fields=sheets.properties.title", nil, &meta); err != nil {
		return err
	}
	for _, s := range meta.Sheets {
		if s.Properties.Title == sheet {
			ok = true
		}
	}
	if !ok {
		log.Println("Creating sheet", sheet)
		add := map[string]any{
			"requests": []any{
				map[string]any{"addSheet": map[string]any{"properties": map[string]string{"title": sheet}}},
			},
		}
		if err := t.do(ctx, http.MethodPost, base+":batchUpdate", add, nil); err != nil {
			return fmt.Errorf("create sheet %s: %w", sheet, err)
		}
	}

	t.mu.Lock()
	t.known[sheet] = true
	t.mu.Unlock()
	return nil
}

func (t *Table) ReadRows(ctx context.Context, sheet string) ([][]string, error) {
	var vr valueRange
	err := t.do(ctx, http.MethodGet, t.valuesPath(sheet), nil, &vr)
	var apiErr *apiError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusBadRequest {
		// the API cannot parse a range naming a sheet that does not exist
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return vr.Values, nil
}

func (t *Table) AppendRow(ctx context.Context, sheet string, row []string) error {
	if err := t.ensureSheet(ctx, sheet); err != nil {
		return err
	}
	path := t.valuesPath(sheet+"!A1") + ":append?valueInputOption=RAW&insertDataOption=INSERT_ROWS"
	return t.do(ctx, http.MethodPost, path, valueRange{Values: [][]string{row}}, nil)
}

func (t *Table) UpdateRow(ctx context.Context, sheet string, index int, row []string) error {
	path := t.valuesPath(fmt.Sprintf("%s!A%d", sheet, index+1)) + "?valueInputOption=RAW"
	return t.do(ctx, http.MethodPut, path, valueRange{Values: [][]string{row}}, nil)
}
