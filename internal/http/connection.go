package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/codencytech/smartdesk-mirror/internal/discovery"
	"github.com/codencytech/smartdesk-mirror/internal/pairing"
	"github.com/codencytech/smartdesk-mirror/internal/qr"
	"github.com/codencytech/smartdesk-mirror/internal/sessions"
)

// ConnectionHandler serves the desktop- and mobile-facing pairing endpoints
// under /connection/*.
type ConnectionHandler struct {
	registry    *pairing.Registry
	workflow    *pairing.Workflow
	store       *sessions.Store
	servicePort int
	hostName    string
}

// NewConnectionHandler creates the pairing endpoint handler. servicePort
// and hostName are embedded in the QR payload.
func NewConnectionHandler(registry *pairing.Registry, workflow *pairing.Workflow, store *sessions.Store, servicePort int, hostName string) *ConnectionHandler {
	return &ConnectionHandler{
		registry:    registry,
		workflow:    workflow,
		store:       store,
		servicePort: servicePort,
		hostName:    hostName,
	}
}

// GenerateCode handles GET /connection/generate-code.
func (h *ConnectionHandler) GenerateCode(w http.ResponseWriter, r *http.Request) {
	code, err := h.registry.Generate()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, apiMessage{Message: "Failed to generate code: " + err.Error()})
		return
	}

	payload := qr.NewPayload(code.Value, discovery.LocalIP(), h.servicePort, h.hostName)
	image, err := qr.DataURL(payload)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, apiMessage{Message: "Failed to render QR: " + err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"code":              code.Value,
		"qr_code":           image,
		"valid_for_minutes": int(pairing.CodeTTL.Minutes()),
		"expires_at":        code.CreatedAt.Add(pairing.CodeTTL).Unix(),
	})
}

// Pending handles GET /connection/pending-requests.
func (h *ConnectionHandler) Pending(w http.ResponseWriter, r *http.Request) {
	reqs := h.workflow.Pending()
	if reqs == nil {
		reqs = []pairing.Request{}
	}
	writeJSON(w, http.StatusOK, reqs)
}

// Active handles GET /connection/active.
func (h *ConnectionHandler) Active(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.List())
}

type respondRequest struct {
	RequestID *int64 `json:"request_id"`
	Accepted  bool   `json:"accepted"`
}

// Respond handles POST /connection/respond: the operator's decision.
func (h *ConnectionHandler) Respond(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	var req respondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RequestID == nil {
		writeJSON(w, http.StatusBadRequest, apiMessage{Message: "request_id is required"})
		return
	}

	if err := h.workflow.Decide(*req.RequestID, req.Accepted); err != nil {
		// Business rejection, not a transport failure: the client handles
		// it from the success flag.
		writeJSON(w, http.StatusOK, apiMessage{Message: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, apiMessage{Success: true, Message: "Connection response processed"})
}

type connectRequest struct {
	Code       string `json:"code"`
	DeviceInfo string `json:"device_info"`
}

// Request handles POST /connection/request: a mobile device submitting a
// pairing code.
func (h *ConnectionHandler) Request(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	var req connectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiMessage{Message: "malformed request body"})
		return
	}
	if req.Code == "" {
		writeJSON(w, http.StatusBadRequest, apiMessage{Message: "Code is required"})
		return
	}
	if req.DeviceInfo == "" {
		req.DeviceInfo = "Unknown Mobile Device"
	}

	deviceInfo := deviceType(r.UserAgent()) + " (" + req.DeviceInfo + ")"

	id, err := h.workflow.Submit(req.Code, deviceInfo)
	if err != nil {
		if errors.Is(err, pairing.ErrInvalidCode) {
			writeJSON(w, http.StatusOK, apiMessage{Message: "Invalid or expired code"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, apiMessage{Message: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"request_id": id,
		"message":    "Connection request sent. Waiting for approval.",
	})
}

// Status handles GET /connection/status/{code}.
func (h *ConnectionHandler) Status(w http.ResponseWriter, r *http.Request) {
	active := h.store.IsActive(r.PathValue("code"))

	message := "Connection not active or pending"
	if active {
		message = "Connection active"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"active":  active,
		"message": message,
	})
}

// deviceType derives a friendly device class from the User-Agent so the
// operator sees "Android Phone (Pixel 8)" instead of a raw string.
func deviceType(userAgent string) string {
	ua := strings.ToLower(userAgent)
	switch {
	case strings.Contains(ua, "android"):
		return "Android Phone"
	case strings.Contains(ua, "iphone"), strings.Contains(ua, "ipad"):
		return "Apple Device"
	case strings.Contains(ua, "windows"):
		return "Windows Device"
	case strings.Contains(ua, "mac"):
		return "Mac Device"
	case strings.Contains(ua, "linux"):
		return "Linux Device"
	default:
		return "Mobile Device"
	}
}
