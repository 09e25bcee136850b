package health

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mazyy/RobbinOdds/internal/pkg/health/handlers"
)

func init() {
	handlers.SetGetOddsFunc(GetMatchEventOdds)
	handlers.SetGetOddsByMatchFunc(GetMatchEventOddsByMatch)
	handlers.SetGetRecordsFunc(GetRecords)
	handlers.SetGetParsersFunc(GetParsers)
}

func Run(ctx context.Context, addr string, service string, readHeaderTimeout time.Duration) {
	mux := http.NewServeMux()

	// Health endpoints
	mux.HandleFunc("/ping", handlers.HandlePing)
	mux.HandleFunc("/health", handlers.HandleHealth)

	// Prometheus metrics
	mux.Handle("/metrics", promhttp.Handler())

	// Data endpoints
	mux.HandleFunc("/odds", handlers.HandleOdds)
	mux.HandleFunc("/records", handlers.HandleRecords)

	// Manual parse endpoint
	mux.HandleFunc("/parse", handlers.HandleParse)

	if readHeaderTimeout <= 0 {
		slog.Error("read_header_timeout must be specified in config")
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	go func() {
		slog.Info("Health server listening", "service", service, "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Health server error", "service", service, "error", err)
		}
	}()
}

func AddrFor(port int) string {
	if port <= 0 {
		slog.Error("port must be greater than 0")
		os.Exit(1)
	}
	return fmt.Sprintf(":%d", port)
}
