// Package ledger keeps the per-team score tables.
package ledger

import (
	"errors"
	"sort"
	"sync"
)

var (
	// ErrNoLedger is returned when a team has not scored anything yet.
	ErrNoLedger = errors.New("no leaderboard for this team yet")
	// ErrNoSuchSubject is returned by Apply for keys that were never initialized.
	ErrNoSuchSubject = errors.New("no such subject")
)

// Delta is the amount a single trigger moves a score by.
type Delta int

const (
	Increment Delta = 1
	Decrement Delta = -1
)

// Entry is a subject key and its score.
type Entry struct {
	Key   string
	Score int
}

// A Ledger holds the scores of a single team. It is not safe for
// concurrent use; go through a Collection instead.
type Ledger struct {
	TeamID string
	scores map[string]int
}

// New returns an empty ledger for teamID.
func New(teamID string) *Ledger {
	return &Ledger{
		TeamID: teamID,
		scores: make(map[string]int),
	}
}

// GetOrInit makes sure key exists, starting it at zero.
func (l *Ledger) GetOrInit(key string) {
	if _, ok := l.scores[key]; !ok {
		l.scores[key] = 0
	}
}

// Apply moves the score of an existing key by delta.
func (l *Ledger) Apply(key string, delta Delta) error {
	if _, ok := l.scores[key]; !ok {
		return ErrNoSuchSubject
	}

	l.scores[key] += int(delta)
	return nil
}

// Score returns the current score of key.
func (l *Ledger) Score(key string) (int, bool) {
	score, ok := l.scores[key]
	return score, ok
}

// Len returns the number of subjects in the ledger.
func (l *Ledger) Len() int {
	return len(l.scores)
}

// Entries returns a copy of the ledger sorted by key.
func (l *Ledger) Entries() []Entry {
	entries := make([]Entry, 0, len(l.scores))
	for key, score := range l.scores {
		entries = append(entries, Entry{Key: key, Score: score})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key < entries[j].Key
	})

	return entries
}

// A Collection owns every team's ledger. All access is serialized
// by a single mutex.
type Collection struct {
	mu      sync.Mutex
	ledgers map[string]*Ledger
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{
		ledgers: make(map[string]*Ledger),
	}
}

// LedgerFor returns the ledger of teamID, creating it if needed.
// The returned ledger must not be used outside of Update.
func (c *Collection) LedgerFor(teamID string) *Ledger {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.ledgerFor(teamID)
}

func (c *Collection) ledgerFor(teamID string) *Ledger {
	l, ok := c.ledgers[teamID]
	if !ok {
		l = New(teamID)
		c.ledgers[teamID] = l
	}

	return l
}

// Lookup reports whether teamID has a ledger without creating one.
func (c *Collection) Lookup(teamID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.ledgers[teamID]
	return ok
}

// Update runs fn with the team's ledger while holding the lock.
func (c *Collection) Update(teamID string, fn func(l *Ledger) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return fn(c.ledgerFor(teamID))
}

// Score initializes key if needed, applies delta and returns the
// new score.
func (c *Collection) Score(teamID, key string, delta Delta) (int, error) {
	var score int
	err := c.Update(teamID, func(l *Ledger) error {
		l.GetOrInit(key)
		if err := l.Apply(key, delta); err != nil {
			return err
		}

		score, _ = l.Score(key)
		return nil
	})

	return score, err
}

// Snapshot returns a copy of the team's entries sorted by key.
func (c *Collection) Snapshot(teamID string) ([]Entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	l, ok := c.ledgers[teamID]
	if !ok {
		return nil, ErrNoLedger
	}

	return l.Entries(), nil
}

// Teams returns the ids of every team with a ledger, sorted.
func (c *Collection) Teams() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	teams := make([]string, 0, len(c.ledgers))
	for id := range c.ledgers {
		teams = append(teams, id)
	}
	sort.Strings(teams)

	return teams
}
