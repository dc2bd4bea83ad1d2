package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/codencytech/smartdesk-mirror/internal/gateway"
	"github.com/codencytech/smartdesk-mirror/pkg/protocol"
)

const unauthorizedMessage = "No active connection or connection not approved"

// MobileHandler serves the privileged /mobile/* endpoints. Every request
// carries the session code in the x-connection-code header and is checked
// against the session store before any provider runs.
type MobileHandler struct {
	gw *gateway.Gateway
}

// NewMobileHandler creates the privileged endpoint handler.
func NewMobileHandler(gw *gateway.Gateway) *MobileHandler {
	return &MobileHandler{gw: gw}
}

// Screen handles GET /mobile/screen: one frame as a plain-text data URL.
func (h *MobileHandler) Screen(w http.ResponseWriter, r *http.Request) {
	frame, err := h.gw.Screen(connectionCode(r))
	if err != nil {
		if errors.Is(err, gateway.ErrUnauthorized) {
			writeJSON(w, http.StatusUnauthorized, apiError{Error: unauthorizedMessage})
			return
		}
		writeJSON(w, http.StatusInternalServerError, apiError{Error: "Screen capture failed: " + err.Error()})
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte(frame))
}

// ExecuteCommand handles POST /mobile/execute-command.
func (h *MobileHandler) ExecuteCommand(w http.ResponseWriter, r *http.Request) {
	code := connectionCode(r)
	if !h.gw.Authorize(code) {
		writeJSON(w, http.StatusUnauthorized, apiError{Error: unauthorizedMessage})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var req protocol.CommandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "malformed request body"})
		return
	}

	result, err := h.gw.Execute(code, req.Type, req.Data)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, apiError{Error: "Command execution failed: " + err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// SystemInfo handles GET /mobile/system-info.
func (h *MobileHandler) SystemInfo(w http.ResponseWriter, r *http.Request) {
	result, err := h.gw.SystemInfo(connectionCode(r))
	if err != nil {
		if errors.Is(err, gateway.ErrUnauthorized) {
			writeJSON(w, http.StatusUnauthorized, apiError{Error: unauthorizedMessage})
			return
		}
		writeJSON(w, http.StatusInternalServerError, apiError{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, result)
}
