package main

import (
	"flag"

	"github.com/kamaln7/leaderboard"
	"github.com/kamaln7/leaderboard/database"
	"github.com/kamaln7/leaderboard/ledger"
	"github.com/kamaln7/leaderboard/metrics"
	leaderboardui "github.com/kamaln7/leaderboard/ui"
	"github.com/kamaln7/leaderboard/ui/blankui"
	"github.com/kamaln7/leaderboard/ui/webui"

	"github.com/aybabtme/log"
	"github.com/kamaln7/envy"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// cli flags
var (
	token            = flag.String("token", "", "slack RTM token")
	dbpath           = flag.String("db", database.MemoryPath, "path to the sqlite score history database")
	leaderboardlimit = flag.Int("leaderboardlimit", 0, "the maximum amount of entries on each side of the leaderboard (0 lists everyone)")
	debug            = flag.Bool("debug", false, "set debug mode")
	webuitotp        = flag.String("webui.totp", "", "totp key")
	webuilistenaddr  = flag.String("webui.listenaddr", "", "address to listen and serve the web ui on")
	webuiurl         = flag.String("webui.url", "", "url address for accessing the web ui")
	keywords         = make(leaderboard.StringList)
)

func main() {
	// logging

	ll := log.KV("version", leaderboard.Version)

	// cli flags

	flag.Var(&keywords, "keyword", "word that asks the bot for the leaderboard when it is mentioned (repeatable, default \"leaderboard\")")
	envy.Parse("LEADERBOARD")
	flag.Parse()

	// startup

	ll.Info("starting leaderboard")

	// database

	db, err := database.New(&database.Config{
		Path: *dbpath,
		Log:  ll.KV("service", "database"),
	})
	if err != nil {
		ll.KV("path", *dbpath).Err(err).Fatal("could not open sqlite db")
	}
	defer db.Close()

	// slack

	if *token == "" {
		ll.Fatal("please pass the slack RTM token (see `leaderboard -h` for help)")
	}

	sc := leaderboard.NewSlack(*token, *debug)

	// metrics

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)
	ledgers := ledger.NewCollection()

	// ui

	var ui leaderboardui.Provider
	if *webuilistenaddr != "" {
		ui, err = webui.New(&webui.Config{
			ListenAddr:       *webuilistenaddr,
			URL:              *webuiurl,
			TOTP:             *webuitotp,
			LeaderboardLimit: *leaderboardlimit,
			Log:              ll.KV("provider", "webui"),
			Debug:            *debug,
			Ledgers:          ledgers,
			DB:               db,
			Roster:           sc.Roster,
			Metrics:          promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		})

		if err != nil {
			ll.Err(err).Fatal("could not initialize web ui")
		}
	} else {
		ui = blankui.New()
	}

	go func() {
		if err := ui.Listen(); err != nil {
			ll.Err(err).Fatal("web ui stopped")
		}
	}()

	// bot

	bot := leaderboard.New(&leaderboard.Config{
		Slack:            sc,
		UI:               ui,
		DB:               db,
		Ledgers:          ledgers,
		Metrics:          m,
		Keywords:         keywords,
		LeaderboardLimit: *leaderboardlimit,
		Debug:            *debug,
		Log:              ll,
	})

	bot.Listen()
}
