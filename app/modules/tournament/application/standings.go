package tournamentservice

import (
	tournamenttypes "github.com/Black-And-White-Club/tournament-uploader/app/modules/tournament/domain/types"
)

// RankingAward is what one overall list entry earns.
type RankingAward struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Points   int    `json:"points"`
	Win      bool   `json:"win"`
}

// OverallPlayerList returns the players who scored in the tournament: every
// player of a Final, and every player who did not survive any other match.
// Entries follow match order, then file order within a match. A player can
// appear more than once.
func OverallPlayerList(matches []tournamenttypes.Match) []tournamenttypes.PlayerResult {
	list := []tournamenttypes.PlayerResult{}
	for _, m := range matches {
		for _, p := range m.Players {
			if m.MatchType == tournamenttypes.MatchTypeFinal || p.LifeStatus != tournamenttypes.LifeStatusAlive {
				list = append(list, p)
			}
		}
	}
	return list
}

// RankingAwards maps the overall list to credits: the first entry wins, and
// the entry at position i earns len-i ranking points.
func RankingAwards(list []tournamenttypes.PlayerResult) []RankingAward {
	awards := make([]RankingAward, 0, len(list))
	for i, p := range list {
		awards = append(awards, RankingAward{
			UserID:   p.UserID,
			Username: p.Username,
			Points:   len(list) - i,
			Win:      i == 0,
		})
	}
	return awards
}
