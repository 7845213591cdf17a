package models

import (
	"errors"
	"fmt"
	"strings"
)

// League identifies one of the hockey leagues whose channel is tracked
type League string

const (
	LeagueSHL   League = "shl"
	LeagueSMJHL League = "smjhl"
	LeagueWJC   League = "wjc"
	LeagueIIHF  League = "iihf"
)

// Leagues is the fixed order in which leagues are fetched and written
var Leagues = []League{LeagueSHL, LeagueSMJHL, LeagueWJC, LeagueIIHF}

// ErrUnknownLeague is returned when a name does not match any tracked league
var ErrUnknownLeague = errors.New("unknown league")

// ParseLeague resolves a league name case-insensitively
func ParseLeague(name string) (League, error) {
	key := League(strings.ToLower(strings.TrimSpace(name)))
	for _, l := range Leagues {
		if l == key {
			return l, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLeague, name)
}

// String returns the lowercase key used in the youtube_data table
func (l League) String() string {
	return string(l)
}
