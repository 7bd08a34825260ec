package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aybabtme/log"
	// sqlite
	_ "github.com/mattn/go-sqlite3"
)

// MemoryPath keeps the history in memory for the lifetime of the process.
const MemoryPath = ":memory:"

// ErrNoHistory is returned when a team has no recorded operations.
var ErrNoHistory = errors.New("no history for this team")

// Config contains the options needed to open the history database.
type Config struct {
	Path string
	Log  *log.Log
}

// DB records score operations in sqlite.
type DB struct {
	Config *Config
	SQL    *sql.DB
}

// Points describes a single score operation.
type Points struct {
	Team, From, To, Reason string
	Points                 int
	Timestamp              time.Time
}

// New opens the database and creates the schema if needed.
func New(config *Config) (*DB, error) {
	if config.Path == "" {
		config.Path = MemoryPath
	}

	instance := &DB{
		Config: config,
	}

	err := instance.Init()
	if err != nil {
		return nil, err
	}

	return instance, nil
}

// Init opens the sqlite connection.
func (db *DB) Init() error {
	sqlite, err := sql.Open("sqlite3", db.Config.Path)
	if err != nil {
		return fmt.Errorf("could not open sqlite database: %w", err)
	}

	// every connection to :memory: is a separate database
	if db.Config.Path == MemoryPath {
		sqlite.SetMaxOpenConns(1)
	}

	db.SQL = sqlite
	return db.createTable()
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.SQL.Close()
}

func (db *DB) createTable() error {
	schema := `
		create table if not exists history (
		^id^ integer primary key,
		^team^ text not null,
		^from^ text not null,
		^to^ text not null,
		^points^ integer not null,
		^reason^ text not null default '',
		^timestamp^ datetime not null
	)`
	schema = strings.Replace(schema, "^", "`", -1)

	_, err := db.SQL.Exec(schema)
	if err != nil {
		return fmt.Errorf("could not create history table: %w", err)
	}

	indexes := "create index if not exists idx_team on history(`team`);"

	_, err = db.SQL.Exec(indexes)
	if err != nil {
		return fmt.Errorf("could not create indexes: %w", err)
	}

	return nil
}

// InsertPoints records a score operation.
func (db *DB) InsertPoints(points *Points) error {
	if points.Timestamp.IsZero() {
		points.Timestamp = time.Now().UTC()
	}

	stmt, err := db.SQL.Prepare("insert into history (`team`, `from`, `to`, `reason`, `points`, `timestamp`) values(?, ?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	_, err = stmt.Exec(points.Team, points.From, points.To, points.Reason, points.Points, points.Timestamp)

	return err
}

// GetHistory returns the latest limit operations of a team, newest first.
func (db *DB) GetHistory(team string, limit int) ([]*Points, error) {
	rows, err := db.SQL.Query("select `team`, `from`, `to`, `reason`, `points`, `timestamp` from history where `team` = ? order by `id` desc limit ?", team, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []*Points
	for rows.Next() {
		p := &Points{}
		err := rows.Scan(&p.Team, &p.From, &p.To, &p.Reason, &p.Points, &p.Timestamp)
		if err != nil {
			return nil, err
		}

		history = append(history, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(history) == 0 {
		return nil, ErrNoHistory
	}

	return history, nil
}

// GetTotalPoints returns the amount of points given or taken
// within a team.
func (db *DB) GetTotalPoints(team string) (int, error) {
	var res sql.NullInt64
	err := db.SQL.QueryRow("select sum(abs(`points`)) from history where `team` = ?", team).Scan(&res)
	if err != nil {
		return 0, err
	}

	return int(res.Int64), nil
}

// GetTeams returns every team that has recorded history.
func (db *DB) GetTeams() ([]string, error) {
	rows, err := db.SQL.Query("select distinct `team` from history order by `team`")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teams []string
	for rows.Next() {
		var team string
		if err := rows.Scan(&team); err != nil {
			return nil, err
		}
		teams = append(teams, team)
	}

	return teams, rows.Err()
}
