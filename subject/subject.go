// Package subject extracts the entity a score operation refers to
// and resolves it against the team's user roster.
package subject

import (
	"strings"
	"unicode"
)

// Triggers and the mention marker recognised in message text.
const (
	Increment     = "++"
	Decrement     = "--"
	MentionMarker = "@"
)

// Roster maps user ids to display names. It is a read-only
// snapshot handed in by the chat service for a single message.
type Roster map[string]string

// Kind tells whether a subject was matched to a user in the roster.
type Kind int

const (
	Literal Kind = iota
	UserID
)

func (k Kind) String() string {
	if k == UserID {
		return "user"
	}

	return "literal"
}

// A Subject is the ledger key a score operation applies to.
type Subject struct {
	Kind Kind
	Key  string
}

// Extract returns the text between the nearest marker preceding the
// first occurrence of trigger and the trigger itself. Later triggers
// in the same text are ignored. The result may be empty when the
// marker sits right before the trigger.
func Extract(text, trigger, marker string) (string, bool) {
	end := strings.Index(text, trigger)
	if end < 0 {
		return "", false
	}

	start := strings.LastIndex(text[:end], marker)
	if start < 0 {
		return "", false
	}

	return text[start+len(marker) : end], true
}

// Normalize trims leading and trailing runes that are neither
// letters, numbers nor combining marks.
func Normalize(raw string) string {
	return strings.TrimFunc(raw, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && !unicode.IsMark(r)
	})
}

// Resolve matches raw against the roster. A match yields the
// normalized user id; anything else is kept verbatim as a literal
// label, decoration included.
func Resolve(raw string, roster Roster) Subject {
	id := Normalize(raw)
	if _, ok := roster[id]; ok {
		return Subject{Kind: UserID, Key: id}
	}

	return Subject{Kind: Literal, Key: raw}
}
