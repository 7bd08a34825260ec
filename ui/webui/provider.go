package webui

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/kamaln7/leaderboard/database"
	"github.com/kamaln7/leaderboard/ledger"
	"github.com/kamaln7/leaderboard/subject"
	"github.com/kamaln7/leaderboard/ui"

	"github.com/aybabtme/log"
	"github.com/jonboulle/clockwork"
	"github.com/pquerna/otp/totp"
)

// ErrNoTOTPKey is returned by New when no TOTP key was configured.
var ErrNoTOTPKey = errors.New("a totp key is required to serve the web ui")

// Ledgers is the read side of the leaderboards.
type Ledgers interface {
	Teams() []string
	Snapshot(teamID string) ([]ledger.Entry, error)
}

// History is the read side of the score history.
type History interface {
	GetHistory(team string, limit int) ([]*database.Points, error)
	GetTotalPoints(team string) (int, error)
}

// Config contains all the necessary config
// options to start and serve a web UI.
type Config struct {
	ListenAddr, URL, TOTP          string
	LeaderboardLimit, HistoryLimit int
	Log                            *log.Log
	Debug                          bool
	Ledgers                        Ledgers
	// DB is optional
	DB History
	// Roster resolves user ids to names, optional
	Roster func() (subject.Roster, error)
	// Metrics is served on /metrics when set
	Metrics http.Handler
	Clock   clockwork.Clock
}

// A Provider provides a UI service that can be
// attached to the bot.
type Provider struct {
	Config *Config
	ui     *UI
}

// ensure that Provider implements the ui.Provider interface
var _ ui.Provider = new(Provider)

// New returns a new instance the web UI provider. Without a TOTP key
// it logs a freshly generated one and returns ErrNoTOTPKey.
func New(config *Config) (*Provider, error) {
	if config.URL == "" {
		config.URL = fmt.Sprintf("http://%s", config.ListenAddr)
	}
	if config.HistoryLimit == 0 {
		config.HistoryLimit = 20
	}

	if config.TOTP == "" {
		key, err := totp.Generate(totp.GenerateOpts{
			Issuer:      "leaderboard",
			AccountName: "slack",
		})

		if err != nil {
			config.Log.Err(err).Error("an error occurred while generating a TOTP key")
		} else {
			config.Log.KV("totpKey", key.Secret()).Error("please use the following TOTP key")
		}

		return nil, ErrNoTOTPKey
	}

	u, err := newUI(config)
	if err != nil {
		return nil, err
	}

	provider := &Provider{
		Config: config,
		ui:     u,
	}

	return provider, nil
}

// Listen starts the HTTP server.
func (p *Provider) Listen() error {
	p.Config.Log.Info("webui listening")
	go p.ui.authenticator.ExpireClients()

	return p.ui.Listen()
}

// GetURL returns the passed URI as a full URL
// with an authentication token that is valid
// for 30 seconds.
func (p *Provider) GetURL(URI string) (string, error) {
	token, err := p.ui.authenticator.GetToken()
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s%s?token=%s", p.Config.URL, URI, token), nil
}
