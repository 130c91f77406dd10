package webd

import (
	"encoding/json"
	"net/http"

	"github.com/rotblauer/wayward/types/trace"
)

func (s *WebDaemon) pingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"ping":"pong"}`))
}

// itineraryHandler accepts a trace (GPX or NDJSON points, sniffed) and
// responds with the enriched stop list as a JSON array.
func (s *WebDaemon) itineraryHandler(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	pts, err := trace.Decode(r.Body)
	if err != nil {
		s.logger.Warn("Failed to decode trace", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	stops, err := s.planner.Itinerary(r.Context(), pts)
	if err != nil {
		s.logger.Error("Itinerary failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(stops); err != nil {
		s.logger.Error("Failed to encode response", "error", err)
	}
}
