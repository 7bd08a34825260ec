package subject

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	tt := []struct {
		Name, Text, Trigger string
		Want                string
		OK                  bool
	}{
		{Name: "plain increment", Text: "@alice++", Trigger: Increment, Want: "alice", OK: true},
		{Name: "plain decrement", Text: "@bob--", Trigger: Decrement, Want: "bob", OK: true},
		{Name: "slack mention", Text: "<@U123>++", Trigger: Increment, Want: "U123>", OK: true},
		{Name: "mid sentence", Text: "thanks @alice++ for the review", Trigger: Increment, Want: "alice", OK: true},
		{Name: "nearest marker wins", Text: "@bob and @carol++", Trigger: Increment, Want: "carol", OK: true},
		{Name: "spaces are kept", Text: "@the build ++", Trigger: Increment, Want: "the build ", OK: true},
		{Name: "first trigger only", Text: "@alice++ @bob++", Trigger: Increment, Want: "alice", OK: true},
		{Name: "marker after trigger is ignored", Text: "++ @alice", Trigger: Increment, OK: false},
		{Name: "no marker", Text: "alice++", Trigger: Increment, OK: false},
		{Name: "bare trigger", Text: "++", Trigger: Increment, OK: false},
		{Name: "trigger absent", Text: "@alice", Trigger: Increment, OK: false},
		{Name: "empty subject", Text: "@++", Trigger: Increment, Want: "", OK: true},
	}

	for _, tc := range tt {
		got, ok := Extract(tc.Text, tc.Trigger, MentionMarker)
		if ok != tc.OK {
			t.Errorf("%s: Extract(%q) ok = %v; want %v", tc.Name, tc.Text, ok, tc.OK)
			continue
		}
		if got != tc.Want {
			t.Errorf("%s: Extract(%q) = %q; want %q", tc.Name, tc.Text, got, tc.Want)
		}
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "U123", Normalize("<@U123>"))
	assert.Equal(t, "U123", Normalize("U123>"))
	assert.Equal(t, "the build", Normalize(" the build! "))
	assert.Equal(t, "a-b", Normalize("*a-b*"), "inner punctuation is kept")
	assert.Equal(t, "café", Normalize("café:"))
	assert.Equal(t, "", Normalize("<>"))
	assert.Equal(t, "Ⅻ", Normalize("Ⅻ:"), "letter numbers are kept")
	assert.Equal(t, "x²", Normalize("x²"), "superscripts are kept")
}

func TestResolve(t *testing.T) {
	roster := Roster{"U123": "alice", "U456": "bob"}

	t.Run("decorated id resolves to the bare id", func(t *testing.T) {
		got := Resolve("U123>", roster)
		assert.Equal(t, Subject{Kind: UserID, Key: "U123"}, got)
	})

	t.Run("unknown token keeps its decoration", func(t *testing.T) {
		got := Resolve("pizza!", roster)
		assert.Equal(t, Subject{Kind: Literal, Key: "pizza!"}, got)
	})

	t.Run("display names are not ids", func(t *testing.T) {
		got := Resolve("alice", roster)
		assert.Equal(t, Literal, got.Kind)
		assert.Equal(t, "alice", got.Key)
	})

	t.Run("empty roster", func(t *testing.T) {
		got := Resolve("U123", nil)
		assert.Equal(t, Subject{Kind: Literal, Key: "U123"}, got)
	})

	t.Run("empty subject", func(t *testing.T) {
		got := Resolve("", roster)
		assert.Equal(t, Subject{Kind: Literal, Key: ""}, got)
	})
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "user", UserID.String())
	assert.Equal(t, "literal", Literal.String())
}
