package metrics

import (
	"net/http"
	"time"

	"evocpi/internal/config"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewServer returns the exposition server, nil when metrics are disabled
func NewServer(conf *config.Config) *http.Server {
	if !conf.Metrics.Enabled {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return &http.Server{
		Addr:              conf.Metrics.BindIP + ":" + conf.Metrics.Port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
