package report

import (
	"testing"

	"github.com/kamaln7/leaderboard/ledger"
	"github.com/kamaln7/leaderboard/subject"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	entries := []ledger.Entry{
		{Key: "a", Score: 3},
		{Key: "b", Score: 1},
		{Key: "c", Score: -2},
		{Key: "d", Score: -5},
		{Key: "zero", Score: 0},
	}

	r := Render(entries, nil, 0)
	assert.Equal(t, "a (3)\nb (1)\n", r.Top)
	assert.Equal(t, "d (-5)\nc (-2)\n", r.Bottom)
	assert.NotContains(t, r.Top+r.Bottom, "zero")
}

func TestRenderTiesUseKeyOrder(t *testing.T) {
	entries := []ledger.Entry{
		{Key: "y", Score: 2},
		{Key: "x", Score: 2},
		{Key: "m", Score: -1},
		{Key: "k", Score: -1},
	}

	r := Render(entries, nil, 0)
	assert.Equal(t, "x (2)\ny (2)\n", r.Top)
	assert.Equal(t, "k (-1)\nm (-1)\n", r.Bottom)
}

func TestRenderEmpty(t *testing.T) {
	r := Render(nil, nil, 0)
	assert.Equal(t, "", r.Top)
	assert.Equal(t, "", r.Bottom)
}

func TestRenderLimit(t *testing.T) {
	entries := []ledger.Entry{
		{Key: "a", Score: 3},
		{Key: "b", Score: 2},
		{Key: "c", Score: 1},
		{Key: "d", Score: -1},
	}

	r := Render(entries, nil, 2)
	assert.Equal(t, "a (3)\nb (2)\n", r.Top)
	assert.Equal(t, "d (-1)\n", r.Bottom)
}

func TestRenderSubstitutesUserIDs(t *testing.T) {
	roster := subject.Roster{"U1": "alice"}
	entries := []ledger.Entry{{Key: "U1", Score: 3}, {Key: "pizza", Score: -1}}

	r := Render(entries, roster, 0)
	assert.Equal(t, "@alice (3)\n", r.Top)
	assert.Equal(t, "pizza (-1)\n", r.Bottom)
}

func TestRankOrdersByScoreThenKey(t *testing.T) {
	entries := []ledger.Entry{
		{Key: "q", Score: -3},
		{Key: "b", Score: 4},
		{Key: "p", Score: -3},
		{Key: "c", Score: 9},
		{Key: "a", Score: 4},
		{Key: "r", Score: -7},
	}

	top, bottom := Rank(entries, 0)
	assert.Equal(t, []ledger.Entry{{Key: "c", Score: 9}, {Key: "a", Score: 4}, {Key: "b", Score: 4}}, top)
	assert.Equal(t, []ledger.Entry{{Key: "r", Score: -7}, {Key: "p", Score: -3}, {Key: "q", Score: -3}}, bottom)
}

func TestRankDoesNotMutateInput(t *testing.T) {
	entries := []ledger.Entry{{Key: "b", Score: 1}, {Key: "a", Score: 5}}
	Rank(entries, 0)
	assert.Equal(t, "b", entries[0].Key)
}

func TestSubstitute(t *testing.T) {
	roster := subject.Roster{"U1": "alice", "U2": "bob"}

	assert.Equal(t, "@alice (3)", Substitute("U1 (3)", roster))
	assert.Equal(t, "@alice and @bob", Substitute("U1 and U2", roster))
	assert.Equal(t, "nobody (1)", Substitute("nobody (1)", roster))
}

// Substitution is not token aware: an id inside a longer label is
// replaced as well.
func TestSubstituteReplacesInsideOtherTokens(t *testing.T) {
	roster := subject.Roster{"U1": "alice"}

	assert.Equal(t, "@alice0 (2)", Substitute("U10 (2)", roster))
	assert.Equal(t, "sp@alice (1)", Substitute("spU1 (1)", roster))
}
