// Command jariyahctl administers a jariyah store from the shell.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"jariyah/internal/config"
	"jariyah/internal/gateway"
	"jariyah/internal/service"
)

var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "jariyahctl",
		Short:         "jariyahctl - manage donors, charities and payments of a jariyah store",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			decimal.MarshalJSONWithoutQuotes = true
		},
	}
	rootCmd.PersistentFlags().String("config", "", "path to a config.env file (default ./config.env)")

	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(rankCmd())
	rootCmd.AddCommand(summaryCmd())
	rootCmd.AddCommand(recordCmd())
	rootCmd.AddCommand(zakatCmd())
	rootCmd.AddCommand(migrateCmd())
	return rootCmd
}

// app is what a command gets after loading config and opening the store.
type app struct {
	cfg     config.Config
	gateway gateway.Gateway
	service *service.DonorService
	close   func() error
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, fmt.Errorf("cannot load config: %w", err)
	}
	return cfg, nil
}

func openApp(ctx context.Context, cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	gw, closeFn, err := gateway.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("cannot open store: %w", err)
	}
	return &app{cfg: cfg, gateway: gw, service: service.New(gw), close: closeFn}, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
