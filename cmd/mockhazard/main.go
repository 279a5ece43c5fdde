// Command mockhazard serves an in-memory stand-in for the raster analytics
// service, speaking the same REST surface the aqueduct adapter consumes.
// Depths are synthetic but deterministic: the same coordinates and
// parameters always produce the same values, so it is usable for local
// development and manual testing of the API service.
//
// Coverage rules, chosen to exercise the pipeline's fallback paths:
//
//   - model-filtered queries have layers only for NorESM1-M and GFDL-ESM2M
//     (others trigger the model fallback)
//   - scenario "rcp2p6" has no layers at all (triggers the coverage gap)
//
// Usage:
//
//	go run ./cmd/mockhazard -addr :9090
package main

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"net/http"
	"strings"
	"sync"
)

func main() {
	addr := flag.String("addr", ":9090", "listen address")
	flag.Parse()

	s := newServer()
	log.Printf("mock hazard service listening on %s", *addr)
	if err := http.ListenAndServe(*addr, s.routes()); err != nil {
		log.Fatal(err)
	}
}

type datasetFilter struct {
	FloodType    string `json:"flood_type"`
	Scenario     string `json:"scenario"`
	ReturnPeriod int    `json:"return_period"`
	Year         int    `json:"year"`
	Model        string `json:"model,omitempty"`
}

type server struct {
	mu       sync.Mutex
	datasets map[string]datasetFilter // handle -> filter
	nextID   int
}

func newServer() *server {
	return &server{datasets: make(map[string]datasetFilter)}
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/ping", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("POST /v1/datasets/query", s.handleQuery)
	mux.HandleFunc("GET /v1/datasets/{id}/size", s.handleSize)
	mux.HandleFunc("POST /v1/datasets/{id}/sample", s.handleSample)
	mux.HandleFunc("POST /v1/datasets/{id}/zonal", s.handleZonal)
	return mux
}

func (s *server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var filter datasetFilter
	if err := json.NewDecoder(r.Body).Decode(&filter); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.nextID++
	handle := fmt.Sprintf("ds-%04d", s.nextID)
	s.datasets[handle] = filter
	s.mu.Unlock()

	writeJSON(w, map[string]string{"dataset_id": handle})
}

func (s *server) handleSize(w http.ResponseWriter, r *http.Request) {
	filter, ok := s.lookup(r.PathValue("id"))
	if !ok {
		http.Error(w, "unknown dataset", http.StatusNotFound)
		return
	}
	writeJSON(w, map[string]int{"size": layerCount(filter)})
}

// layerCount implements the documented coverage rules.
func layerCount(filter datasetFilter) int {
	if strings.EqualFold(filter.Scenario, "rcp2p6") {
		return 0
	}
	if filter.Model == "" {
		return 2
	}
	switch filter.Model {
	case "NorESM1-M", "GFDL-ESM2M":
		return 1
	default:
		return 0
	}
}

type samplePayload struct {
	Points []struct {
		ID  int     `json:"id"`
		Lon float64 `json:"lon"`
		Lat float64 `json:"lat"`
	} `json:"points"`
	RadiusMeters float64 `json:"radius_m"`
}

func (s *server) handleSample(w http.ResponseWriter, r *http.Request) {
	filter, ok := s.lookup(r.PathValue("id"))
	if !ok {
		http.Error(w, "unknown dataset", http.StatusNotFound)
		return
	}

	var payload samplePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	type sample struct {
		ID    int     `json:"id"`
		Depth float64 `json:"depth"`
	}
	samples := make([]sample, len(payload.Points))
	for i, p := range payload.Points {
		samples[i] = sample{ID: p.ID, Depth: syntheticDepth(filter, p.Lon, p.Lat)}
	}
	writeJSON(w, map[string]any{"samples": samples})
}

func (s *server) handleZonal(w http.ResponseWriter, r *http.Request) {
	filter, ok := s.lookup(r.PathValue("id"))
	if !ok {
		http.Error(w, "unknown dataset", http.StatusNotFound)
		return
	}

	var payload samplePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	type sample struct {
		ID   int     `json:"id"`
		Mean float64 `json:"mean"`
		Max  float64 `json:"max"`
	}
	samples := make([]sample, len(payload.Points))
	for i, p := range payload.Points {
		depth := syntheticDepth(filter, p.Lon, p.Lat)
		// A buffer catches deeper cells than the center point; widen with radius.
		factor := 1 + math.Log1p(payload.RadiusMeters/1000)/4
		samples[i] = sample{ID: p.ID, Mean: depth * 0.6, Max: depth * factor}
	}
	writeJSON(w, map[string]any{"samples": samples})
}

func (s *server) lookup(handle string) (datasetFilter, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	filter, ok := s.datasets[handle]
	return filter, ok
}

// syntheticDepth derives a stable pseudo-random depth in [0, ~4.5) meters
// from the coordinates, scaled by the return period (rarer floods run
// deeper). Roughly a third of locations come out dry.
func syntheticDepth(filter datasetFilter, lon, lat float64) float64 {
	input := fmt.Sprintf("%s|%s|%d|%.4f|%.4f", filter.FloodType, filter.Scenario, filter.Year, lon, lat)
	hash := sha256.Sum256([]byte(input))
	u := float64(binary.BigEndian.Uint32(hash[:4])) / float64(math.MaxUint32)

	if u < 0.33 {
		return 0
	}
	base := (u - 0.33) * 3
	return base * (1 + math.Log10(float64(max(filter.ReturnPeriod, 1)))/2)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort mock response
}
