package testutils

import (
	"time"

	"github.com/brianvoe/gofakeit/v7"

	tournamenttypes "github.com/Black-And-White-Club/tournament-uploader/app/modules/tournament/domain/types"
)

// TestDataGenerator provides methods to create test data for integration tests
type TestDataGenerator struct {
	faker *gofakeit.Faker
	seed  int64
}

// NewTestDataGenerator creates a new test data generator with optional seed
func NewTestDataGenerator(seed ...int64) *TestDataGenerator {
	var s int64
	if len(seed) > 0 {
		s = seed[0]
	} else {
		s = time.Now().UnixNano()
	}

	return &TestDataGenerator{
		faker: gofakeit.New(uint64(s)),
		seed:  s,
	}
}

// Seed returns the seed, for reproducing a failure.
func (g *TestDataGenerator) Seed() int64 {
	return g.seed
}

// GeneratePlayers creates a roster of distinct players.
func (g *TestDataGenerator) GeneratePlayers(count int) []tournamenttypes.PlayerResult {
	players := make([]tournamenttypes.PlayerResult, count)
	seen := make(map[string]bool, count)
	for i := range players {
		id := g.faker.Numerify("##################")
		for seen[id] {
			id = g.faker.Numerify("##################")
		}
		seen[id] = true
		players[i] = tournamenttypes.PlayerResult{
			UserID:       id,
			Username:     g.faker.Username(),
			LifeStatus:   tournamenttypes.LifeStatusAlive,
			ImmuneStatus: tournamenttypes.ImmuneStatusNone,
		}
	}
	return players
}

// GenerateTournament builds a bracket of group games followed by a Final. In
// every group game the top half survives and the rest are eliminated; the
// survivors of the last game play the Final.
func (g *TestDataGenerator) GenerateTournament(groupGames, playersPerGame int) *tournamenttypes.ParsedTournament {
	link := g.faker.URL()
	t := &tournamenttypes.ParsedTournament{
		Version: g.faker.Number(1, 5),
		Title:   g.faker.Company() + " Cup",
		Date:    g.faker.DateRange(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)).Truncate(time.Second).UTC(),
		Link:    &link,
	}

	gameTypes := []tournamenttypes.MatchType{
		tournamenttypes.MatchTypeGame1,
		tournamenttypes.MatchTypeGame2,
		tournamenttypes.MatchTypeGame3,
		tournamenttypes.MatchTypeGame4,
	}

	var survivors []tournamenttypes.PlayerResult
	for i := 0; i < groupGames && i < len(gameTypes); i++ {
		players := g.GeneratePlayers(playersPerGame)
		for rank := range players {
			players[rank].Rank = rank + 1
			if rank >= playersPerGame/2 {
				players[rank].LifeStatus = tournamenttypes.LifeStatusEliminated
			}
		}
		survivors = players[:playersPerGame/2]
		t.Matches = append(t.Matches, tournamenttypes.Match{
			MatchType:  gameTypes[i],
			MatchIndex: len(t.Matches),
			Players:    players,
		})
	}

	final := make([]tournamenttypes.PlayerResult, len(survivors))
	for i, p := range survivors {
		p.Rank = i + 1
		if i > 0 {
			p.LifeStatus = tournamenttypes.LifeStatusEliminated
		}
		final[i] = p
	}
	t.Matches = append(t.Matches, tournamenttypes.Match{
		MatchType:  tournamenttypes.MatchTypeFinal,
		MatchIndex: len(t.Matches),
		Players:    final,
	})
	return t
}
