package webui

import (
	"net/http"
)

func (u *UI) setupRoutes() {
	u.handlers = &Handlers{
		ui: u,
	}

	var (
		r = u.router
		h = u.handlers
	)

	// routes
	r.HandleFunc("/", h.MustAuth(h.Home)).Methods("GET")
	r.HandleFunc("/leaderboard", h.MustAuth(h.Teams)).Methods("GET")
	r.HandleFunc("/leaderboard/{team}", h.MustAuth(h.Leaderboard)).Methods("GET")
	r.HandleFunc(`/leaderboard/{team}/{limit:\d+}`, h.MustAuth(h.Leaderboard)).Methods("GET")

	if u.Config.Metrics != nil {
		r.Handle("/metrics", u.Config.Metrics).Methods("GET")
	}

	// custom handlers
	r.NotFoundHandler = http.HandlerFunc(h.NotFound)
}
