package webui

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/kamaln7/leaderboard/database"
	"github.com/kamaln7/leaderboard/ledger"
	"github.com/kamaln7/leaderboard/report"
	"github.com/kamaln7/leaderboard/subject"

	"github.com/gorilla/mux"
)

// Handlers contains all the http.HandlerFuncs
// that serve the web UI's routes.
type Handlers struct {
	ui *UI
}

type row struct {
	Name  string
	Score int
}

// MustAuth wraps an http.HandlerFunc and ensures that the
// user is authenticated before the said HandlerFunc is
// executed.
func (h *Handlers) MustAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authed, err := h.ui.authenticator.Authenticate(w, r)
		if err != nil {
			h.ui.renderError(w, http.StatusInternalServerError, err)
			return
		}

		if !authed {
			h.ui.renderError(w, http.StatusUnauthorized, errors.New(`your session has expired. Please ask the bot for the leaderboard and click on its title`))
			return
		}

		next(w, r)
	}
}

// Home redirects to the list of leaderboards.
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/leaderboard", http.StatusFound)
}

// Teams lists every team with a leaderboard.
func (h *Handlers) Teams(w http.ResponseWriter, r *http.Request) {
	h.ui.renderTemplate(w, http.StatusOK, "teams.html", &templateData{
		Data: &struct {
			Teams []string
		}{
			Teams: h.ui.Config.Ledgers.Teams(),
		},
	})
}

// Leaderboard serves a team's leaderboard view.
func (h *Handlers) Leaderboard(w http.ResponseWriter, r *http.Request) {
	var (
		config = h.ui.Config
		vars   = mux.Vars(r)
		team   = vars["team"]
		limit  = config.LeaderboardLimit
		ll     = config.Log.KV("team", team)
	)

	if limitS := vars["limit"]; limitS != "" {
		var err error
		limit, err = strconv.Atoi(limitS)
		if err != nil {
			h.ui.renderError(w, http.StatusBadRequest, err)
			return
		}
	}

	entries, err := config.Ledgers.Snapshot(team)
	if errors.Is(err, ledger.ErrNoLedger) {
		h.ui.renderError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		ll.Err(err).Error("could not read leaderboard")
		h.ui.renderError(w, http.StatusInternalServerError, err)
		return
	}

	roster := h.roster()
	top, bottom := report.Rank(entries, limit)

	data := &struct {
		Team        string
		TotalPoints int
		Top, Bottom []row
		History     []*database.Points
	}{
		Team:   team,
		Top:    rows(top, roster),
		Bottom: rows(bottom, roster),
	}

	if config.DB != nil {
		data.TotalPoints, err = config.DB.GetTotalPoints(team)
		if err != nil {
			ll.Err(err).Error("could not count points")
		}

		data.History, err = config.DB.GetHistory(team, config.HistoryLimit)
		if err != nil && !errors.Is(err, database.ErrNoHistory) {
			ll.Err(err).Error("could not read history")
		}
		for _, p := range data.History {
			p.To = report.Substitute(p.To, roster)
		}
	}

	h.ui.renderTemplate(w, http.StatusOK, "leaderboard.html", &templateData{
		Config: &templateConfig{
			LeaderboardLimit: limit,
		},
		Data: data,
	})
}

func (h *Handlers) roster() subject.Roster {
	if h.ui.Config.Roster == nil {
		return nil
	}

	roster, err := h.ui.Config.Roster()
	if err != nil {
		h.ui.Config.Log.Err(err).Error("could not fetch roster")
		return nil
	}

	return roster
}

func rows(entries []ledger.Entry, roster subject.Roster) []row {
	out := make([]row, len(entries))
	for i, e := range entries {
		out[i] = row{
			Name:  report.Substitute(e.Key, roster),
			Score: e.Score,
		}
	}

	return out
}

// NotFound handles invalid URIs that do not
// have a matching route.
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	h.ui.renderError(w, http.StatusNotFound, fmt.Errorf("page [%s] not found", r.RequestURI))
}
