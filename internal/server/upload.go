package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/bulkexchange/accesscard/internal/imagehost"
	"github.com/bulkexchange/accesscard/internal/observability"
)

type uploadRequest struct {
	DataURL string `json:"dataUrl"`
}

type uploadFailure struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

// uploadCard handles POST /api/upload-card.
func (s *Server) uploadCard(w http.ResponseWriter, r *http.Request) {
	log := observability.FromContext(r.Context())
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	var req uploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Image too large")
			return
		}
		log.Error("decode upload body", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, uploadFailure{Error: "Upload failed", Details: err.Error()})
		return
	}
	if err := imagehost.ValidateDataURL(req.DataURL); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid image dataUrl")
		return
	}

	url, err := s.uploader.Upload(r.Context(), req.DataURL)
	if err != nil {
		log.Error("card upload failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, uploadFailure{Error: "Upload failed", Details: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}
