package webui

import (
	"html"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/kamaln7/leaderboard/database"
	"github.com/kamaln7/leaderboard/ledger"
	"github.com/kamaln7/leaderboard/subject"

	"github.com/aybabtme/log"
	"github.com/jonboulle/clockwork"
	"github.com/pquerna/otp/totp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProvider(t *testing.T) (*Provider, *ledger.Collection) {
	t.Helper()

	key, err := totp.Generate(totp.GenerateOpts{Issuer: "leaderboard", AccountName: "test"})
	require.NoError(t, err)

	db, err := database.New(&database.Config{})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ledgers := ledger.NewCollection()
	for i := 0; i < 3; i++ {
		ledgers.Score("T1", "U1", ledger.Increment)
	}
	ledgers.Score("T1", "pizza", ledger.Decrement)
	require.NoError(t, db.InsertPoints(&database.Points{Team: "T1", From: "U2", To: "U1", Points: 1, Reason: "shipping it"}))

	p, err := New(&Config{
		ListenAddr: "localhost:9000",
		TOTP:       key.Secret(),
		Log:        log.KV("test", t.Name()),
		Ledgers:    ledgers,
		DB:         db,
		Roster: func() (subject.Roster, error) {
			return subject.Roster{"U1": "alice"}, nil
		},
		Metrics: promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{}),
		Clock:   clockwork.NewFakeClockAt(time.Now()),
	})
	require.NoError(t, err)

	return p, ledgers
}

func get(t *testing.T, p *Provider, URI string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	r := httptest.NewRequest(http.MethodGet, URI, nil)
	for _, c := range cookies {
		r.AddCookie(c)
	}
	w := httptest.NewRecorder()
	p.ui.router.ServeHTTP(w, r)

	return w
}

func authedGet(t *testing.T, p *Provider, URI string) *httptest.ResponseRecorder {
	t.Helper()

	full, err := p.GetURL(URI)
	require.NoError(t, err)
	u, err := url.Parse(full)
	require.NoError(t, err)

	return get(t, p, u.RequestURI())
}

func TestNewRequiresTOTP(t *testing.T) {
	_, err := New(&Config{Log: log.KV("test", t.Name())})
	assert.ErrorIs(t, err, ErrNoTOTPKey)
}

func TestGetURL(t *testing.T) {
	p, _ := newProvider(t)

	URL, err := p.GetURL("/leaderboard/T1")
	require.NoError(t, err)
	assert.Regexp(t, `^http://localhost:9000/leaderboard/T1\?token=\d{6}$`, URL)
}

func TestUnauthenticated(t *testing.T) {
	p, _ := newProvider(t)

	w := get(t, p, "/leaderboard/T1")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "session has expired")
}

func TestLeaderboardPage(t *testing.T) {
	p, _ := newProvider(t)

	w := authedGet(t, p, "/leaderboard/T1")
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "Leaderboard for T1")
	assert.Contains(t, body, "@alice")
	assert.Contains(t, body, "pizza")
	assert.Contains(t, body, "shipping it")
	assert.Contains(t, html.UnescapeString(body), "+1")

	// the session cookie works without a token
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	w = get(t, p, "/leaderboard", cookies...)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `href="/leaderboard/T1"`)
}

func TestLeaderboardUnknownTeam(t *testing.T) {
	p, _ := newProvider(t)

	w := authedGet(t, p, "/leaderboard/T404")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), ledger.ErrNoLedger.Error())
}

func TestLeaderboardLimit(t *testing.T) {
	p, ledgers := newProvider(t)
	ledgers.Score("T1", "tacos", ledger.Increment)

	w := authedGet(t, p, "/leaderboard/T1/1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "@alice")
	assert.NotContains(t, w.Body.String(), "tacos")
}

func TestHomeRedirects(t *testing.T) {
	p, _ := newProvider(t)

	w := authedGet(t, p, "/")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/leaderboard", w.Header().Get("Location"))
}

func TestNotFound(t *testing.T) {
	p, _ := newProvider(t)

	w := get(t, p, "/nope")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "page [/nope] not found")
}

func TestMetricsRoute(t *testing.T) {
	p, _ := newProvider(t)

	w := get(t, p, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
}
