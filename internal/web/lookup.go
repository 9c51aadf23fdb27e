package web

import (
	"net/http"

	"github.com/erazemk/odprema/internal/model"
)

// LookupAction handles GET /lookup/{target}?query=. It proxies the
// backend's search endpoints for the select widgets. Queries shorter
// than the minimum and superseded results both return not_modified so
// the dropdown keeps whatever it is showing.
func (s *Server) LookupAction(w http.ResponseWriter, r *http.Request) {
	sess := SessionFrom(r.Context())
	target := r.PathValue("target")

	searcher, ok := s.runtime(sess).searchers[target]
	if !ok {
		jsonError(w, http.StatusNotFound, "unknown lookup target")
		return
	}

	options, fresh := searcher.Search(r.Context(), r.URL.Query().Get("query"))
	if !fresh {
		jsonResponse(w, http.StatusOK, map[string]any{"not_modified": true})
		return
	}
	if options == nil {
		options = []model.Ref{}
	}
	jsonResponse(w, http.StatusOK, map[string]any{"options": options})
}
