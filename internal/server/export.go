package server

import (
	"net/http"

	"brk-portal/internal/logger"
	"brk-portal/internal/standings"
	"brk-portal/internal/util"
)

// ExportToken is the token an organiser link must carry to download the
// standings of a category.
func ExportToken(secret, championship, category string) string {
	return util.HMACSHA256Hex(secret, exportMessage(championship, category))
}

func exportMessage(championship, category string) string {
	return "export:" + championship + ":" + category
}

// CSV export (organiser link with token = HMAC)
func (s *Server) exportStandings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	champ, season, category, token := q.Get("championship"), q.Get("season"), q.Get("category"), q.Get("token")
	if champ == "" || category == "" || token == "" {
		http.Error(w, "championship, category and token required", http.StatusBadRequest)
		return
	}
	if !util.ValidHMAC(s.cfg.ExportSecret, exportMessage(champ, category), token) {
		http.Error(w, "invalid token", http.StatusForbidden)
		return
	}

	st, err := s.portal.Standings(r.Context(), champ, season, category)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="standings_`+util.Slug(champ)+`_`+util.Slug(category)+`.csv"`)
	if err := standings.WriteCSV(w, st.Table); err != nil {
		logger.Error("export standings: %v", err)
	}
}
