// Package http exposes the agent's REST and WebSocket surface.
//
// Desktop endpoints (/connection/generate-code, /connection/pending-requests,
// /connection/active, /connection/respond, /system-metrics) are called by
// the local UI and carry no auth. Mobile endpoints under /mobile/ and
// /ws/screen require an active session code.
package http

import (
	"net/http"

	"github.com/rs/cors"

	"github.com/codencytech/smartdesk-mirror/internal/config"
	"github.com/codencytech/smartdesk-mirror/internal/gateway"
	"github.com/codencytech/smartdesk-mirror/internal/pairing"
	"github.com/codencytech/smartdesk-mirror/internal/sessions"
)

// Deps bundles the state objects the HTTP surface serves.
type Deps struct {
	Registry *pairing.Registry
	Workflow *pairing.Workflow
	Sessions *sessions.Store
	Gateway  *gateway.Gateway
	Config   config.Config
}

// NewHandler assembles the full route table with CORS and request logging.
func NewHandler(d Deps) http.Handler {
	conn := NewConnectionHandler(d.Registry, d.Workflow, d.Sessions, d.Config.Port, d.Config.HostName)
	mobile := NewMobileHandler(d.Gateway)
	stream := NewScreenStreamHandler(d.Gateway, d.Config.StreamInterval())

	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", home)
	mux.HandleFunc("GET /system-metrics", systemMetrics(d.Gateway))

	mux.HandleFunc("GET /connection/generate-code", conn.GenerateCode)
	mux.HandleFunc("GET /connection/pending-requests", conn.Pending)
	mux.HandleFunc("GET /connection/active", conn.Active)
	mux.HandleFunc("POST /connection/respond", conn.Respond)
	mux.HandleFunc("POST /connection/request", conn.Request)
	mux.HandleFunc("GET /connection/status/{code}", conn.Status)

	mux.HandleFunc("GET /mobile/screen", mobile.Screen)
	mux.HandleFunc("POST /mobile/execute-command", mobile.ExecuteCommand)
	mux.HandleFunc("GET /mobile/system-info", mobile.SystemInfo)

	mux.Handle("GET /ws/screen", stream)

	// The Electron desktop shell loads from file:// and its dev server, so
	// cross-origin calls are expected.
	return cors.AllowAll().Handler(withLogging(mux))
}

func home(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "PC Agent Running"})
}

func systemMetrics(gw *gateway.Gateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := gw.Metrics()
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, apiError{Error: "Failed to get metrics: " + err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}
