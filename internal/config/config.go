// Package config loads settings from config.env and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"jariyah/internal/zakat"
)

// Store backends.
const (
	StoreMemory   = "memory"
	StoreWorkbook = "workbook"
	StoreSheets   = "sheets"
	StorePostgres = "postgres"
)

// Config mirrors the keys of config.env. Environment variables with the
// same names override the file.
type Config struct {
	PORT     string `mapstructure:"PORT"`
	GIN_MODE string `mapstructure:"GIN_MODE"`

	STORE         string `mapstructure:"STORE"`
	DSN           string `mapstructure:"DSN"`
	WORKBOOK_PATH string `mapstructure:"WORKBOOK_PATH"`

	GOOGLE_SHEETS_SPREADSHEET_ID string `mapstructure:"GOOGLE_SHEETS_SPREADSHEET_ID"`
	GOOGLE_SHEETS_CLIENT_EMAIL   string `mapstructure:"GOOGLE_SHEETS_CLIENT_EMAIL"`
	GOOGLE_SHEETS_PRIVATE_KEY    string `mapstructure:"GOOGLE_SHEETS_PRIVATE_KEY"`
	GOOGLE_SHEETS_BASE_URL       string `mapstructure:"GOOGLE_SHEETS_BASE_URL"`

	GATEWAY_TIMEOUT time.Duration `mapstructure:"GATEWAY_TIMEOUT"`
	REQUEST_TIMEOUT time.Duration `mapstructure:"REQUEST_TIMEOUT"`

	MIDTRANS_SERVER_KEY string `mapstructure:"MIDTRANS_SERVER_KEY"`
	MIDTRANS_PRODUCTION bool   `mapstructure:"MIDTRANS_PRODUCTION"`

	CORS_ORIGINS string `mapstructure:"CORS_ORIGINS"`

	ZAKAT_GOLD_PRICE   string `mapstructure:"ZAKAT_GOLD_PRICE"`
	ZAKAT_SILVER_PRICE string `mapstructure:"ZAKAT_SILVER_PRICE"`
}

var defaults = map[string]any{
	"PORT":                         "8080",
	"GIN_MODE":                     "debug",
	"STORE":                        StoreMemory,
	"DSN":                          "",
	"WORKBOOK_PATH":                "jariyah.xlsx",
	"GOOGLE_SHEETS_SPREADSHEET_ID": "",
	"GOOGLE_SHEETS_CLIENT_EMAIL":   "",
	"GOOGLE_SHEETS_PRIVATE_KEY":    "",
	"GOOGLE_SHEETS_BASE_URL":       "",
	"GATEWAY_TIMEOUT":              "10s",
	"REQUEST_TIMEOUT":              "15s",
	"MIDTRANS_SERVER_KEY":          "",
	"MIDTRANS_PRODUCTION":          false,
	"CORS_ORIGINS":                 "*",
	"ZAKAT_GOLD_PRICE":             "60",
	"ZAKAT_SILVER_PRICE":           "0.80",
}

// Load reads path, or config.env in the working directory when path is
// empty. A missing file is fine; defaults and the environment still apply.
func Load(path string) (config Config, err error) {
	v := viper.New()
	if path == "" {
		v.AddConfigPath(".")
		v.SetConfigName("config")
	} else {
		v.SetConfigFile(path)
	}
	v.SetConfigType("env")
	v.AutomaticEnv()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return config, fmt.Errorf("read config: %w", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("decode config: %w", err)
	}
	return config, config.validate()
}

func (c Config) validate() error {
	switch c.STORE {
	case StoreMemory, StoreWorkbook, StoreSheets:
	case StorePostgres:
		if c.DSN == "" {
			return errors.New("STORE=postgres needs DSN")
		}
	default:
		return fmt.Errorf("unknown STORE %q", c.STORE)
	}
	if _, err := c.ZakatRates(); err != nil {
		return err
	}
	return nil
}

// Origins splits CORS_ORIGINS on commas.
func (c Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.CORS_ORIGINS, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// ZakatRates returns the default rates with the configured metal prices.
func (c Config) ZakatRates() (zakat.Rates, error) {
	rates := zakat.DefaultRates()
	gold, err := decimal.NewFromString(c.ZAKAT_GOLD_PRICE)
	if err != nil {
		return rates, fmt.Errorf("ZAKAT_GOLD_PRICE: %w", err)
	}
	silver, err := decimal.NewFromString(c.ZAKAT_SILVER_PRICE)
	if err != nil {
		return rates, fmt.Errorf("ZAKAT_SILVER_PRICE: %w", err)
	}
	rates.GoldPricePerGram = gold
	rates.SilverPricePerGram = silver
	return rates, nil
}
