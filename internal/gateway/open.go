package gateway

import (
	"context"
	"fmt"
	"log"

	"jariyah/internal/config"
	"jariyah/internal/gateway/postgres"
	"jariyah/internal/gateway/rows"
	"jariyah/internal/gateway/sheets"
	"jariyah/internal/gateway/workbook"
)

// Open builds the gateway selected by cfg.STORE. The returned func
// releases whatever the store holds open.
func Open(ctx context.Context, cfg config.Config) (Gateway, func() error, error) {
	noop := func() error { return nil }

	switch cfg.STORE {
	case config.StoreMemory:
		log.Println("Using in-memory store, data is lost on exit")
		return rows.New(rows.NewMemoryTable()), noop, nil

	case config.StoreWorkbook:
		table, err := workbook.Open(cfg.WORKBOOK_PATH)
		if err != nil {
			return nil, nil, err
		}
		log.Println("Using workbook store at", cfg.WORKBOOK_PATH)
		return rows.New(table), table.Close, nil

	case config.StoreSheets:
		table, err := sheets.New(sheets.Config{
			SpreadsheetID: cfg.GOOGLE_SHEETS_SPREADSHEET_ID,
			ClientEmail:   cfg.GOOGLE_SHEETS_CLIENT_EMAIL,
			PrivateKey:    cfg.GOOGLE_SHEETS_PRIVATE_KEY,
			BaseURL:       cfg.GOOGLE_SHEETS_BASE_URL,
			Timeout:       cfg.GATEWAY_TIMEOUT,
		})
		if err != nil {
			return nil, nil, err
		}
		log.Println("Using Google Sheets store", cfg.GOOGLE_SHEETS_SPREADSHEET_ID)
		return rows.New(table), noop, nil

	case config.StorePostgres:
		ctx, cancel := context.WithTimeout(ctx, cfg.GATEWAY_TIMEOUT)
		defer cancel()
		pg, err := postgres.Connect(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		log.Println("Successfully connected to Supabase (PostgreSQL)!")
		return pg, pg.DB.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown store %q", cfg.STORE)
}
