package observability

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
)

// Metrics tracks operational counters for a scrape run.
type Metrics struct {
	// Faculty metrics
	FacultiesVisited atomic.Int64
	FacultiesNoTable atomic.Int64

	// Row metrics
	RowsDecoded    atomic.Int64
	CellsDefaulted atomic.Int64
	CellsSkipped   atomic.Int64

	// Output metrics
	MajorsScraped atomic.Int64
	MajorsDropped atomic.Int64
	MajorsStored  atomic.Int64

	logger *slog.Logger
}

// NewMetrics creates a new Metrics instance.
func NewMetrics(logger *slog.Logger) *Metrics {
	return &Metrics{
		logger: logger.With("component", "metrics"),
	}
}

// ServeHTTP serves metrics in Prometheus text exposition format.
func (m *Metrics) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")

	metrics := []struct {
		name  string
		help  string
		value int64
	}{
		{"netsat_faculties_visited_total", "Faculties selected and processed", m.FacultiesVisited.Load()},
		{"netsat_faculties_no_table_total", "Faculties whose score table never appeared", m.FacultiesNoTable.Load()},
		{"netsat_rows_decoded_total", "Table body rows decoded", m.RowsDecoded.Load()},
		{"netsat_cells_defaulted_total", "Numeric cells that fell back to zero", m.CellsDefaulted.Load()},
		{"netsat_cells_skipped_total", "Cells without a column descriptor", m.CellsSkipped.Load()},
		{"netsat_majors_scraped_total", "Majors emitted by the scraper", m.MajorsScraped.Load()},
		{"netsat_majors_dropped_total", "Majors dropped by the pipeline", m.MajorsDropped.Load()},
		{"netsat_majors_stored_total", "Majors handed to storage", m.MajorsStored.Load()},
	}

	for _, metric := range metrics {
		fmt.Fprintf(w, "# HELP %s %s\n", metric.name, metric.help)
		fmt.Fprintf(w, "# TYPE %s counter\n", metric.name)
		fmt.Fprintf(w, "%s %d\n", metric.name, metric.value)
	}
}

// StartServer starts the metrics HTTP server in the background.
func (m *Metrics) StartServer(port int, path string) error {
	mux := http.NewServeMux()
	mux.Handle(path, m)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "ok")
	})

	addr := fmt.Sprintf(":%d", port)
	m.logger.Info("metrics server starting", "addr", addr, "path", path)

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			m.logger.Error("metrics server error", "error", err)
		}
	}()

	return nil
}

// Snapshot returns all metrics as a map.
func (m *Metrics) Snapshot() map[string]int64 {
	return map[string]int64{
		"faculties_visited":  m.FacultiesVisited.Load(),
		"faculties_no_table": m.FacultiesNoTable.Load(),
		"rows_decoded":       m.RowsDecoded.Load(),
		"cells_defaulted":    m.CellsDefaulted.Load(),
		"cells_skipped":      m.CellsSkipped.Load(),
		"majors_scraped":     m.MajorsScraped.Load(),
		"majors_dropped":     m.MajorsDropped.Load(),
		"majors_stored":      m.MajorsStored.Load(),
	}
}
