package auth

import (
	"net/http"
	"sync"
	"time"

	"github.com/aybabtme/log"
	"github.com/jonboulle/clockwork"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	uuid "github.com/satori/go.uuid"
)

// CookieName is the name of the session cookie.
const CookieName = "session"

// Config contains the TOTP secret and session options.
type Config struct {
	Token      string
	Log        *log.Log
	Clock      clockwork.Clock
	SessionTTL time.Duration
}

// An Authenticator hands out session cookies to clients that
// present a valid TOTP token.
type Authenticator struct {
	Config *Config

	clientsMutex  sync.RWMutex
	authedClients map[string]time.Time
}

var validateOpts = totp.ValidateOpts{
	Period:    30,
	Skew:      1,
	Digits:    otp.DigitsSix,
	Algorithm: otp.AlgorithmSHA1,
}

// New returns an Authenticator. Call ExpireClients in a goroutine to
// drop stale sessions.
func New(config *Config) *Authenticator {
	if config.Clock == nil {
		config.Clock = clockwork.NewRealClock()
	}
	if config.SessionTTL == 0 {
		config.SessionTTL = 48 * time.Hour
	}

	return &Authenticator{
		Config:        config,
		authedClients: make(map[string]time.Time),
	}
}

// Authenticate reports whether the request carries a known session
// cookie or a valid token, in which case a new session is started.
func (a *Authenticator) Authenticate(w http.ResponseWriter, r *http.Request) (bool, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil && err != http.ErrNoCookie {
		a.Config.Log.Err(err).Error("could not authenticate user")
		return false, err
	}

	if cookie != nil && a.hasSession(cookie.Value) {
		return true, nil
	}

	if !a.hasValidToken(r) {
		return false, nil
	}

	cookie = &http.Cookie{
		Name:     CookieName,
		Value:    uuid.NewV4().String(),
		Path:     "/",
		HttpOnly: true,
	}

	a.clientsMutex.Lock()
	a.authedClients[cookie.Value] = a.Config.Clock.Now()
	a.clientsMutex.Unlock()

	http.SetCookie(w, cookie)
	return true, nil
}

func (a *Authenticator) hasSession(id string) bool {
	a.clientsMutex.RLock()
	defer a.clientsMutex.RUnlock()

	added, ok := a.authedClients[id]
	return ok && a.Config.Clock.Since(added) < a.Config.SessionTTL
}

func (a *Authenticator) hasValidToken(r *http.Request) bool {
	token := r.URL.Query().Get("token")
	if token == "" {
		return false
	}

	valid, err := totp.ValidateCustom(token, a.Config.Token, a.Config.Clock.Now().UTC(), validateOpts)
	if err != nil {
		return false
	}

	return valid
}

// ExpireClients drops stale sessions every two minutes. It never returns.
func (a *Authenticator) ExpireClients() {
	for {
		<-a.Config.Clock.After(2 * time.Minute)
		a.expire()
	}
}

func (a *Authenticator) expire() {
	now := a.Config.Clock.Now()

	a.clientsMutex.Lock()
	defer a.clientsMutex.Unlock()

	for id, added := range a.authedClients {
		if now.Sub(added) >= a.Config.SessionTTL {
			delete(a.authedClients, id)
		}
	}
}

// Sessions returns the number of live sessions.
func (a *Authenticator) Sessions() int {
	a.clientsMutex.RLock()
	defer a.clientsMutex.RUnlock()

	return len(a.authedClients)
}

// GetToken generates a TOTP token valid for the current period.
func (a *Authenticator) GetToken() (string, error) {
	return totp.GenerateCode(a.Config.Token, a.Config.Clock.Now())
}
