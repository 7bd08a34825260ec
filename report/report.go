// Package report renders a team ledger into the two ranked text
// blocks shown in chat.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kamaln7/leaderboard/ledger"
	"github.com/kamaln7/leaderboard/subject"
)

// Report holds the rendered top and bottom blocks.
type Report struct {
	Top, Bottom string
}

// Rank splits entries into positive scores, highest first, and
// negative scores, lowest first. Zero scores appear in neither.
// Equal scores keep key order. A positive limit caps both lists.
func Rank(entries []ledger.Entry, limit int) (top, bottom []ledger.Entry) {
	for _, e := range entries {
		switch {
		case e.Score > 0:
			top = append(top, e)
		case e.Score < 0:
			bottom = append(bottom, e)
		}
	}

	sort.Slice(top, func(i, j int) bool {
		return ranksBefore(top[i], top[j], true)
	})
	sort.Slice(bottom, func(i, j int) bool {
		return ranksBefore(bottom[i], bottom[j], false)
	})

	if limit > 0 {
		if len(top) > limit {
			top = top[:limit]
		}
		if len(bottom) > limit {
			bottom = bottom[:limit]
		}
	}

	return top, bottom
}

// ranksBefore orders by score, highest first when desc is set, then
// by key.
func ranksBefore(a, b ledger.Entry, desc bool) bool {
	if a.Score != b.Score {
		if desc {
			return a.Score > b.Score
		}
		return a.Score < b.Score
	}

	return a.Key < b.Key
}

// Render ranks entries and renders each side as "<subject> (<score>)"
// lines, then swaps known user ids for display names.
func Render(entries []ledger.Entry, roster subject.Roster, limit int) *Report {
	top, bottom := Rank(entries, limit)

	return &Report{
		Top:    Substitute(lines(top), roster),
		Bottom: Substitute(lines(bottom), roster),
	}
}

func lines(entries []ledger.Entry) string {
	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "%s (%d)\n", e.Key, e.Score)
	}

	return b.String()
}

// Substitute replaces every occurrence of each roster id in text
// with "@<name>". This is a plain substring replace: an id that is
// part of a longer token is replaced too.
func Substitute(text string, roster subject.Roster) string {
	ids := make([]string, 0, len(roster))
	for id := range roster {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if id == "" {
			continue
		}
		text = strings.ReplaceAll(text, id, "@"+roster[id])
	}

	return text
}
