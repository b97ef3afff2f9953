package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"brk-portal/internal/events"
	"brk-portal/internal/leads"
	"brk-portal/internal/portal"
)

// notFoundOr redirects to the list page when err is portal.ErrNotFound and
// reports whether it handled the error.
func notFoundOr(w http.ResponseWriter, r *http.Request, err error, fallback string) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, portal.ErrNotFound):
		http.Redirect(w, r, fallback, http.StatusFound)
	case errors.Is(err, events.ErrUnknownMonth):
		fail(w, http.StatusBadRequest, err.Error())
	default:
		fail(w, http.StatusBadGateway, err.Error())
	}
	return true
}

// ---------- Championships ----------

func (s *Server) listChampionships(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	success(w, s.portal.Championships(r.Context(), q.Get("q"), q.Get("status")))
}

func (s *Server) getChampionship(w http.ResponseWriter, r *http.Request) {
	d, err := s.portal.Championship(r.Context(), mux.Vars(r)["slug"], r.URL.Query().Get("season"))
	if notFoundOr(w, r, err, fallbackChampionships) {
		return
	}
	success(w, d)
}

func (s *Server) getCalendar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	cal, err := s.portal.Calendar(r.Context(), mux.Vars(r)["slug"], q.Get("season"), q.Get("month"))
	if notFoundOr(w, r, err, fallbackChampionships) {
		return
	}
	success(w, cal)
}

func (s *Server) getCountdown(w http.ResponseWriter, r *http.Request) {
	snap, err := s.portal.Countdown(r.Context(), mux.Vars(r)["slug"], r.URL.Query().Get("season"))
	if notFoundOr(w, r, err, fallbackChampionships) {
		return
	}
	success(w, snap)
}

func (s *Server) getStandings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	st, err := s.portal.Standings(r.Context(), mux.Vars(r)["slug"], q.Get("season"), q.Get("category"))
	if notFoundOr(w, r, err, fallbackChampionships) {
		return
	}
	success(w, st)
}

func (s *Server) getRegulations(w http.ResponseWriter, r *http.Request) {
	groups, err := s.portal.Regulations(r.Context(), mux.Vars(r)["slug"])
	if notFoundOr(w, r, err, fallbackChampionships) {
		return
	}
	success(w, groups)
}

// ---------- Clubs, pilots, ranking ----------

func (s *Server) listClubs(w http.ResponseWriter, r *http.Request) {
	success(w, s.portal.Clubs(r.Context()))
}

func (s *Server) getClub(w http.ResponseWriter, r *http.Request) {
	c, err := s.portal.Club(r.Context(), mux.Vars(r)["alias"])
	if notFoundOr(w, r, err, fallbackClubs) {
		return
	}
	success(w, c)
}

func (s *Server) getPilot(w http.ResponseWriter, r *http.Request) {
	p, err := s.portal.Pilot(r.Context(), mux.Vars(r)["slug"])
	if notFoundOr(w, r, err, fallbackPilots) {
		return
	}
	success(w, p)
}

func (s *Server) getRanking(w http.ResponseWriter, r *http.Request) {
	success(w, s.portal.Ranking(r.Context()))
}

// ---------- Leads ----------

func (s *Server) preRegister(w http.ResponseWriter, r *http.Request) {
	var in leads.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		fail(w, http.StatusBadRequest, "invalid json body")
		return
	}

	var form leads.Form
	form.Set(leads.FieldName, in.Name)
	form.Set(leads.FieldEmail, in.Email)

	if form.Submit(r.Context(), s.leads) {
		writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: form.Values, Message: form.Message})
		return
	}
	if form.Errors != nil {
		writeJSON(w, http.StatusUnprocessableEntity, APIResponse{Success: false, Fields: form.Errors})
		return
	}
	fail(w, http.StatusBadGateway, form.SubmitError)
}
