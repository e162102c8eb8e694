package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/bulkexchange/accesscard/internal/observability"
	"github.com/bulkexchange/accesscard/internal/xapi"
)

type upstreamErrorBody struct {
	Error string          `json:"error"`
	Raw   json.RawMessage `json:"raw"`
}

// profile proxies GET /api/x-profile?username=.
func (s *Server) profile(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(strings.TrimLeft(r.URL.Query().Get("username"), "@"))
	if username == "" {
		writeError(w, http.StatusBadRequest, "Missing username")
		return
	}

	log := observability.FromContext(r.Context())
	p, err := s.profiles.UserByUsername(r.Context(), username)
	if err != nil {
		if ue, ok := xapi.AsUpstream(err); ok {
			detail := ue.Detail
			if detail == "" {
				detail = "X API error"
			}
			raw := ue.Raw
			if len(raw) == 0 {
				raw = json.RawMessage("null")
			}
			log.Warn("upstream profile lookup failed", zap.Int("upstream_status", ue.Status), zap.String("detail", ue.Detail))
			writeJSON(w, ue.Status, upstreamErrorBody{Error: detail, Raw: raw})
			return
		}
		log.Error("profile lookup failed", zap.String("username", username), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Unexpected server error")
		return
	}
	writeJSON(w, http.StatusOK, p)
}
