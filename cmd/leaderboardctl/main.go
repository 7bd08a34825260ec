package main

import (
	"os"

	"github.com/kamaln7/leaderboard"
	"github.com/kamaln7/leaderboard/ctlcommands"

	"github.com/aybabtme/log"
	"github.com/urfave/cli"
)

var (
	ll *log.Log
)

func main() {
	// logging

	ll = log.KV("version", leaderboard.Version)

	// commands

	cc := &ctlcommands.Commands{
		Logger: ll,
	}

	// app
	app := cli.NewApp()
	app.Name = "leaderboardctl"
	app.Version = leaderboard.Version
	app.Usage = "inspect the leaderboard score history"

	// general flags

	dbpath := cli.StringFlag{
		Name:   "db",
		Value:  "./db.sqlite3",
		Usage:  "path to the sqlite score history database",
		EnvVar: "LEADERBOARD_DB",
	}

	team := cli.StringFlag{
		Name:  "team",
		Usage: "slack team id",
	}

	// webui

	webuiCommands := []cli.Command{
		{
			Name:  "totp",
			Usage: "generate a TOTP token, and a key if none is passed",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:   "totp",
					Usage:  "totp key",
					EnvVar: "LEADERBOARD_WEBUI_TOTP",
				},
			},
			Action: cc.Mktotp,
		},
	}

	// history

	historyCommands := []cli.Command{
		{
			Name:  "list",
			Usage: "list a team's latest score changes",
			Flags: []cli.Flag{
				dbpath,
				team,
				cli.IntFlag{
					Name:  "limit",
					Value: 20,
				},
			},
			Action: cc.History,
		},
		{
			Name:   "total",
			Usage:  "count the points given or taken in a team",
			Flags:  []cli.Flag{dbpath, team},
			Action: cc.Total,
		},
		{
			Name:   "teams",
			Usage:  "list the teams with recorded history",
			Flags:  []cli.Flag{dbpath},
			Action: cc.Teams,
		},
	}

	// main app

	app.Commands = []cli.Command{
		{
			Name:        "history",
			Subcommands: historyCommands,
		},
		{
			Name:        "webui",
			Subcommands: webuiCommands,
		},
	}

	if err := app.Run(os.Args); err != nil {
		ll.Err(err).Fatal("command failed")
	}
}
