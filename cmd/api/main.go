package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"jariyah/internal/config"
	"jariyah/internal/gateway"
	"jariyah/internal/gateway/postgres"
	"jariyah/internal/handlers"
	"jariyah/internal/models"
	"jariyah/internal/payment"
	"jariyah/internal/service"
	ws "jariyah/internal/websocket"
)

func main() {
	log.Println("Starting jariyah donor server...")
	decimal.MarshalJSONWithoutQuotes = true

	// Load Configuration
	cfg, err := config.Load("")
	if err != nil {
		log.Fatal("cannot load config:", err)
	}
	gin.SetMode(cfg.GIN_MODE)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Open the configured store
	gw, closeStore, err := gateway.Open(ctx, cfg)
	if err != nil {
		log.Fatal("cannot open store:", err)
	}
	defer closeStore()

	if pg, ok := gw.(*postgres.Gateway); ok {
		if err := pg.Migrate(ctx); err != nil {
			log.Fatal("cannot migrate database:", err)
		}
	}
	seedMemoryCatalog(ctx, cfg, gw)

	hub := ws.NewHub()
	go hub.Run(ctx)

	opts := []service.Option{service.WithNotifier(hub)}
	if cfg.MIDTRANS_SERVER_KEY != "" {
		opts = append(opts, service.WithPayments(payment.NewMidtrans(cfg.MIDTRANS_SERVER_KEY, cfg.MIDTRANS_PRODUCTION)))
	} else {
		log.Println("MIDTRANS_SERVER_KEY not set, online checkout disabled")
	}
	svc := service.New(gw, opts...)

	rates, err := cfg.ZakatRates()
	if err != nil {
		log.Fatal("invalid zakat rates:", err)
	}

	r := handlers.NewRouter(handlers.Deps{
		Service:        svc,
		Hub:            hub,
		ZakatRates:     rates,
		RequestTimeout: cfg.REQUEST_TIMEOUT,
		CORSOrigins:    cfg.Origins(),
	})

	// Start the server
	srv := &http.Server{Addr: ":" + cfg.PORT, Handler: r}
	log.Println("Server starting on http://localhost:" + cfg.PORT)
	if err := serve(ctx, srv, shutdownGrace); err != nil {
		log.Fatal("could not start server:", err)
	}
	log.Println("Server stopped")
}

const shutdownGrace = 10 * time.Second

// serve runs srv until ctx is done, then lets in-flight requests finish
// within grace.
func serve(ctx context.Context, srv *http.Server, grace time.Duration) error {
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// seedMemoryCatalog loads the sample charities into an empty in-memory
// store so the API has something to serve.
func seedMemoryCatalog(ctx context.Context, cfg config.Config, gw gateway.Gateway) {
	if cfg.STORE != config.StoreMemory {
		return
	}
	for _, charity := range models.SampleCharities() {
		if err := gw.SaveCharity(ctx, charity); err != nil {
			log.Println("seed charity", charity.ID, "failed:", err)
		}
	}
}
