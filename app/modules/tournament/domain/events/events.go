package tournamentevents

import "time"

// TournamentUploadedV1 is the default subject for upload notifications.
const TournamentUploadedV1 = "tournament.uploaded.v1"

// TournamentUploadedPayloadV1 is published once an upload has been committed.
type TournamentUploadedPayloadV1 struct {
	TournamentID int64        `json:"tournament_id"`
	Title        string       `json:"title"`
	Version      int          `json:"version"`
	Date         time.Time    `json:"date"`
	Link         *string      `json:"link,omitempty"`
	MatchCount   int          `json:"match_count"`
	Winner       *StandingV1  `json:"winner,omitempty"`
	Standings    []StandingV1 `json:"standings"`
}

// StandingV1 is one entry of the overall list with the points it earned.
type StandingV1 struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Points   int    `json:"points"`
	Win      bool   `json:"win"`
}
