package monitoring

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"vyapaar-backend/pkg/logger"
)

// Serve runs the metrics sidecar on its own port, separate from the
// API server so scrapes never compete with chat traffic.
func Serve(port int) error {
	log := logger.WithComponent("monitoring")

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info().Int("port", port).Msg("metrics server listening")
	return srv.ListenAndServe()
}
