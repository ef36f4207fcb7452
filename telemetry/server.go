package telemetry

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// LatestStats holds the most recent window for the status endpoints. The
// simulation writes it from its own goroutine while handlers read it.
type LatestStats struct {
	mu    sync.RWMutex
	stats WindowStats
	ok    bool
}

// Set stores a flushed window.
func (l *LatestStats) Set(stats WindowStats) {
	l.mu.Lock()
	l.stats = stats
	l.ok = true
	l.mu.Unlock()
}

// Get returns the last window and whether one has been flushed yet.
func (l *LatestStats) Get() (WindowStats, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.stats, l.ok
}

// NewRouter serves /metrics, /stats and /healthz.
func NewRouter(latest *LatestStats) *mux.Router {
	r := mux.NewRouter()

	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	r.HandleFunc("/stats", statsHandler(latest)).Methods("GET")
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods("GET")

	return r
}

func statsHandler(latest *LatestStats) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		stats, ok := latest.Get()
		if !ok {
			http.Error(w, "no window flushed yet", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(stats)
	}
}
