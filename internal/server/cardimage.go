package server

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/bulkexchange/accesscard/internal/observability"
	"github.com/bulkexchange/accesscard/pkg/card"
)

// cardImage renders GET /card.png?u=&name=&region= so shared card links
// resolve to an image.
func (s *Server) cardImage(w http.ResponseWriter, r *http.Request) {
	log := observability.FromContext(r.Context())

	store := card.NewStore(s.now())
	store.Hydrate(card.DecodeQuery(r.URL.Query()))

	if handle := store.Input().Handle; handle != "" && s.profiles != nil {
		p, err := s.profiles.UserByUsername(r.Context(), handle)
		if err != nil {
			log.Debug("card profile unavailable", zap.String("handle", handle), zap.Error(err))
		} else {
			store.SetProfile(p)
		}
	}

	art, err := s.exporter.Export(r.Context(), store.View())
	if err != nil {
		log.Error("render card", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Render failed")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(art.PNG)))
	w.Header().Set("Content-Disposition", `inline; filename="`+art.FileName+`"`)
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.WriteHeader(http.StatusOK)
	w.Write(art.PNG) //nolint:errcheck // client went away
}
