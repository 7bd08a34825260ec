package leaderboard

import (
	"errors"
	"flag"
	"sort"
	"strings"
)

// StringList is an object that accepts multiple strings and implements flag.Value
type StringList map[string]struct{}

var _ flag.Value = new(StringList)

func (sl *StringList) String() string {
	keys := sl.Values()
	return strings.Join(keys, ", ")
}

// ErrEmptyValue is returned by Set for empty strings.
var ErrEmptyValue = errors.New("value must not be empty")

// Set receives a string and appends it to the internal map
func (sl *StringList) Set(value string) error {
	if value == "" {
		return ErrEmptyValue
	}

	if *sl == nil {
		*sl = make(StringList)
	}

	(*sl)[value] = struct{}{}
	return nil
}

// Values returns the list's strings, sorted.
func (sl *StringList) Values() []string {
	var (
		keys = make([]string, len(*sl))
		i    = 0
	)

	for k := range *sl {
		keys[i] = k
		i++
	}
	sort.Strings(keys)

	return keys
}
