package tournamenttypes

import "time"

// Metadata is supplied by the caller alongside the tournament file.
type Metadata struct {
	Title string    `json:"title"`
	Date  time.Time `json:"date"`
	Link  *string   `json:"link,omitempty"`
}

// ParsedTournament is the result of parsing one tournament file.
type ParsedTournament struct {
	Version int       `json:"version"`
	Matches []Match   `json:"matches"`
	Date    time.Time `json:"date"`
	Title   string    `json:"title"`
	Link    *string   `json:"link,omitempty"`
}

// Match is one round of the bracket. Players are kept in file order, which is
// also their finishing order within the match.
type Match struct {
	MatchType  MatchType      `json:"match_type"`
	MatchIndex int            `json:"match_index"`
	Players    []PlayerResult `json:"players"`
}

// PlayerResult is a single player line inside a match block.
type PlayerResult struct {
	Username     string       `json:"username"`
	UserID       string       `json:"user_id"`
	Rank         int          `json:"rank"`
	LifeStatus   LifeStatus   `json:"life_status"`
	ImmuneStatus ImmuneStatus `json:"immune_status"`
}

// PlayerCount returns the number of player lines across all matches.
func (t *ParsedTournament) PlayerCount() int {
	n := 0
	for _, m := range t.Matches {
		n += len(m.Players)
	}
	return n
}
