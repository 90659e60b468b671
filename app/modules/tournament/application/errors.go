package tournamentservice

import "errors"

var (
	// ErrEmptyStandings is logged when a tournament credits nobody.
	ErrEmptyStandings = errors.New("overall player list is empty")

	// ErrNoRepository is returned by persistence operations on a service
	// built without a repository.
	ErrNoRepository = errors.New("no tournament repository configured")

	ErrNilTournament = errors.New("tournament is nil")
)
