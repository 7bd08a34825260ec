package ctlcommands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/kamaln7/leaderboard/database"

	"github.com/aybabtme/log"
	"github.com/dustin/go-humanize"
	"github.com/pquerna/otp/totp"
	"github.com/urfave/cli"
)

// Commands implements the leaderboardctl actions.
type Commands struct {
	Logger *log.Log
	Out    io.Writer
}

func (cc *Commands) out() io.Writer {
	if cc.Out == nil {
		return os.Stdout
	}
	return cc.Out
}

// Mktotp prints a token for the given TOTP key.
func (cc *Commands) Mktotp(c *cli.Context) error {
	TOTP := c.String("totp")
	if TOTP == "" {
		key, err := totp.Generate(totp.GenerateOpts{
			Issuer:      "leaderboard",
			AccountName: "slack",
		})
		if err != nil {
			cc.Logger.Err(err).Error("could not generate totp key")
			return err
		}

		cc.Logger.KV("totpKey", key.Secret()).Info("generated totp key")
		TOTP = key.Secret()
	}

	token, err := totp.GenerateCode(TOTP, time.Now())
	if err != nil {
		cc.Logger.Err(err).Error("could not generate token")
		return err
	}

	cc.Logger.KV("token", token).Info("generated token")

	return nil
}

// History prints a team's latest score operations.
func (cc *Commands) History(c *cli.Context) error {
	var (
		team  = c.String("team")
		limit = c.Int("limit")
	)

	if team == "" {
		return cli.NewExitError("please pass a valid team to the `team` option", 1)
	}

	db, err := cc.getDB(c.String("db"))
	if err != nil {
		return err
	}
	defer db.Close()

	history, err := db.GetHistory(team, limit)
	if errors.Is(err, database.ErrNoHistory) {
		cc.Logger.KV("team", team).Info("no history")
		return nil
	}
	if err != nil {
		cc.Logger.Err(err).KV("team", team).Error("could not look up history")
		return err
	}

	for _, p := range history {
		line := fmt.Sprintf("%s %+d from %s (%s)", p.To, p.Points, p.From, humanize.Time(p.Timestamp))
		if p.Reason != "" {
			line += " for " + p.Reason
		}
		fmt.Fprintln(cc.out(), line)
	}

	return nil
}

// Total prints the points given or taken within a team.
func (cc *Commands) Total(c *cli.Context) error {
	team := c.String("team")
	if team == "" {
		return cli.NewExitError("please pass a valid team to the `team` option", 1)
	}

	db, err := cc.getDB(c.String("db"))
	if err != nil {
		return err
	}
	defer db.Close()

	total, err := db.GetTotalPoints(team)
	if err != nil {
		cc.Logger.Err(err).KV("team", team).Error("could not count points")
		return err
	}

	fmt.Fprintf(cc.out(), "%s points given or taken in %s\n", humanize.Comma(int64(total)), team)
	return nil
}

// Teams prints every team with recorded history.
func (cc *Commands) Teams(c *cli.Context) error {
	db, err := cc.getDB(c.String("db"))
	if err != nil {
		return err
	}
	defer db.Close()

	teams, err := db.GetTeams()
	if err != nil {
		cc.Logger.Err(err).Error("could not list teams")
		return err
	}

	for _, team := range teams {
		fmt.Fprintln(cc.out(), team)
	}

	return nil
}

func (cc *Commands) getDB(path string) (*database.DB, error) {
	if path == "" || path == database.MemoryPath {
		return nil, cli.NewExitError("please pass the path of a history database file to the `db` option", 1)
	}

	db, err := database.New(&database.Config{
		Path: path,
		Log:  cc.Logger,
	})
	if err != nil {
		cc.Logger.KV("path", path).Err(err).Error("could not open sqlite db")
		return nil, err
	}

	return db, nil
}
