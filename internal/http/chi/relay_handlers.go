package chi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/marcelsud/webhook-relay/catalog"
	"github.com/marcelsud/webhook-relay/relay"
)

/* HTTP layer DTOs for the relay API
 * Separate from domain entities to avoid leaking internal structure
 */

// enqueueResponse is returned when a producer event is accepted
type enqueueResponse struct {
	EventType string `json:"event_type"`
	Queued    bool   `json:"queued"`
}

// retryResponse reports how many failed events were reset
type retryResponse struct {
	Reset int `json:"reset"`
}

// resolveResponse confirms an error acknowledgement
type resolveResponse struct {
	ID       string `json:"id"`
	Resolved bool   `json:"resolved"`
}

// postEvent handles POST /v1/events/{event_type}
func postEvent(engine relay.UseCase, cat *catalog.Loader) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		eventType := chi.URLParam(r, "event_type")
		if eventType == "" {
			http.Error(w, "event_type is required", http.StatusBadRequest)
			return
		}

		// The engine transports opaque payloads; the edge checks the name
		if cat != nil && !cat.Exists(eventType) {
			http.Error(w, fmt.Sprintf("unknown event type: %s", eventType), http.StatusNotFound)
			return
		}

		var payload map[string]any
		if r.Body != nil {
			defer r.Body.Close()
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				http.Error(w, "payload must be a JSON object", http.StatusBadRequest)
				return
			}
		}

		if !engine.Send(eventType, payload) {
			// Only false case: no endpoint configured
			http.Error(w, "no webhook endpoint configured", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		if err := json.NewEncoder(w).Encode(enqueueResponse{EventType: eventType, Queued: true}); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}

// getStatus handles GET /v1/status
func getStatus(engine relay.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, engine.QueueStatus())
	})
}

// getLogs handles GET /v1/logs?limit=
func getLogs(engine relay.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, engine.TransmissionLogs(queryLimit(r)))
	})
}

// getStats handles GET /v1/logs/stats
func getStats(engine relay.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, engine.TransmissionStats())
	})
}

// getErrors handles GET /v1/errors?limit=
func getErrors(engine relay.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, engine.ErrorLogs(queryLimit(r)))
	})
}

// postResolve handles POST /v1/errors/{id}/resolve
func postResolve(engine relay.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			http.Error(w, "id is required", http.StatusBadRequest)
			return
		}
		if !engine.MarkErrorResolved(r.Context(), id) {
			http.Error(w, fmt.Sprintf("log entry not found: %s", id), http.StatusNotFound)
			return
		}
		writeJSON(w, resolveResponse{ID: id, Resolved: true})
	})
}

// postRetry handles POST /v1/retry
func postRetry(engine relay.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, retryResponse{Reset: engine.RetryAllFailed()})
	})
}

// postProbe handles POST /v1/probe
func postProbe(engine relay.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		result := engine.TestConnection(r.Context())
		writeProbe(w, result)
	})
}

// postSync handles POST /v1/sync
func postSync(engine relay.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		result := engine.SyncStructure(r.Context())
		writeProbe(w, result)
	})
}

// getCatalog handles GET /v1/catalog
func getCatalog(cat *catalog.Loader) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cat == nil {
			writeJSON(w, []catalog.EventDef{})
			return
		}
		writeJSON(w, cat.List())
	})
}

// queryLimit parses the optional limit query parameter; 0 means engine default
func queryLimit(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}

// writeProbe maps a probe outcome onto the response status
func writeProbe(w http.ResponseWriter, result relay.ProbeResult) {
	w.Header().Set("Content-Type", "application/json")
	if !result.Success {
		w.WriteHeader(http.StatusBadGateway)
	}
	_ = json.NewEncoder(w).Encode(result)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
