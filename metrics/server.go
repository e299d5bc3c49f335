package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler returns the Prometheus scrape handler for embedding into an
// existing mux.
func Handler() http.Handler { return promhttp.Handler() }

// ListenAndServe exposes /metrics on the given port. It blocks; run it in a
// goroutine.
func ListenAndServe(port int) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	return http.ListenAndServe(fmt.Sprintf(":%d", port), mux)
}
