// Package metrics registers the client's Prometheus collectors and can
// expose them on a local listener for long-running dashboard sessions.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrijs2005/escrowdeck/internal/logging"
)

var (
	APIRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "escrowdeck_api_requests_total",
			Help: "Backend API requests by method and response status",
		},
		[]string{"method", "status"},
	)

	TokenRefreshes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "escrowdeck_token_refreshes_total",
			Help: "Access token refresh attempts by outcome",
		},
		[]string{"outcome"},
	)

	WalletRPCErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "escrowdeck_wallet_rpc_errors_total",
			Help: "Wallet provider RPC failures by method",
		},
		[]string{"method"},
	)

	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "escrowdeck_cache_lookups_total",
			Help: "Escrow cache lookups by result (hit/miss)",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(APIRequests, TokenRefreshes, WalletRPCErrors, CacheLookups)
}

// Serve exposes /metrics on addr until ctx is done. Intended to be run in
// its own goroutine; listener errors are logged, not fatal.
func Serve(ctx context.Context, addr string, log logging.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info(ctx, "metrics listener started", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error(ctx, "metrics listener failed", "error", err)
	}
}
