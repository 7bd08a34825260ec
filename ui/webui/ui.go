package webui

import (
	"html/template"
	"net/http"

	"github.com/kamaln7/leaderboard/ui/webui/auth"

	"github.com/gorilla/mux"
)

// A UI is the part of the web UI that handles
// everything HTTP i.e. the actual web UI.
type UI struct {
	Config *Config

	handlers      *Handlers
	router        *mux.Router
	templates     *template.Template
	authenticator *auth.Authenticator
}

func newUI(config *Config) (*UI, error) {
	ui := &UI{
		Config: config,
		router: mux.NewRouter(),
		authenticator: auth.New(&auth.Config{
			Token: config.TOTP,
			Log:   config.Log.KV("service", "auth"),
			Clock: config.Clock,
		}),
	}

	if err := ui.Init(); err != nil {
		return nil, err
	}

	return ui, nil
}

// Init initializes the web UI by parsing the HTML
// templates and setting up the HTTP routes.
func (u *UI) Init() error {
	if err := u.setupTemplates(); err != nil {
		return err
	}
	u.setupRoutes()

	return nil
}

// Listen starts the actual HTTP server.
func (u *UI) Listen() error {
	u.Config.Log.KV("address", u.Config.ListenAddr).Info("starting http server")

	return http.ListenAndServe(u.Config.ListenAddr, u.router)
}
