package server

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"brk-portal/internal/config"
	"brk-portal/internal/countdown"
	"brk-portal/internal/leads"
	"brk-portal/internal/portal"
)

const (
	fallbackChampionships = "/api/championships"
	fallbackClubs         = "/api/clubs"
	fallbackPilots        = "/api/ranking"
)

type Server struct {
	cfg    config.Config
	portal *portal.Service
	leads  leads.Submitter

	// Engine drives the countdown stream.
	Engine *countdown.Engine
}

func New(cfg config.Config, p *portal.Service, l leads.Submitter) *Server {
	return &Server{cfg: cfg, portal: p, leads: l, Engine: countdown.New()}
}

// HTTP wraps the router in a server listening on the configured address.
func (s *Server) HTTP() *http.Server {
	return &http.Server{
		Addr:              s.cfg.HTTPAddr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(loggerMiddleware)

	r.HandleFunc("/healthz", s.health).Methods(http.MethodGet)
	r.HandleFunc("/export/standings.csv", s.exportStandings).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	// Championships
	api.HandleFunc("/championships", s.listChampionships).Methods(http.MethodGet)
	api.HandleFunc("/championships/{slug}", s.getChampionship).Methods(http.MethodGet)
	api.HandleFunc("/championships/{slug}/calendar", s.getCalendar).Methods(http.MethodGet)
	api.HandleFunc("/championships/{slug}/countdown", s.getCountdown).Methods(http.MethodGet)
	api.HandleFunc("/championships/{slug}/countdown/stream", s.streamCountdown).Methods(http.MethodGet)
	api.HandleFunc("/championships/{slug}/standings", s.getStandings).Methods(http.MethodGet)
	api.HandleFunc("/championships/{slug}/regulations", s.getRegulations).Methods(http.MethodGet)

	// Clubs, pilots, ranking
	api.HandleFunc("/clubs", s.listClubs).Methods(http.MethodGet)
	api.HandleFunc("/clubs/{alias}", s.getClub).Methods(http.MethodGet)
	api.HandleFunc("/pilots/{slug}", s.getPilot).Methods(http.MethodGet)
	api.HandleFunc("/ranking", s.getRanking).Methods(http.MethodGet)

	// Leads
	api.HandleFunc("/vip-preregister", s.preRegister).Methods(http.MethodPost)

	api.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fail(w, http.StatusNotFound, "route not found")
	})

	return cors(s.cfg.AppURL, r)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	success(w, map[string]string{"status": "ok"})
}
