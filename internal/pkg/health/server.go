package health

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/Vodeneev/premwsfeed/internal/pkg/health/handlers"
)

// Run starts the introspection HTTP server: /ping, /health, /metrics, and
// the premws engine queries under /premws/. It stops gracefully when ctx is
// canceled.
//
// The /premws/ endpoints are backed by a livefeed.Engine wired via
// handlers.SetGetPremwsAllMatchesFunc and friends from cmd/premws-watch;
// until an engine is wired they return empty results.
func Run(ctx context.Context, addr string, service string, readHeaderTimeout time.Duration) {
	if readHeaderTimeout <= 0 {
		readHeaderTimeout = 5 * time.Second
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ping", handlers.HandlePing)
	mux.HandleFunc("/health", handlers.HandleHealth)
	mux.HandleFunc("/metrics", handlers.HandleMetrics)
	mux.HandleFunc("/premws/matches", handlers.HandlePremwsMatches)
	mux.HandleFunc("/premws/matches/live", handlers.HandlePremwsLiveMatches)
	mux.HandleFunc("/premws/matches/sport", handlers.HandlePremwsMatchesBySport)

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
		log.Printf("%s: health server listening on %s", service, addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("%s: health server error: %v", service, err)
		}
	}()
}

// AddrFor returns a consistent default health listen address.
func AddrFor(port int) string {
	if port <= 0 {
		port = 8080
	}
	return fmt.Sprintf(":%d", port)
}
