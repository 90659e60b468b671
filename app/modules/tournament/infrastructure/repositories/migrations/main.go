package tournamentmigrations

import "github.com/uptrace/bun/migrate"

var Migrations = migrate.NewMigrations()

func init() {
	// Each migration's ID comes from the name of the file that registers it.
	if err := Migrations.DiscoverCaller(); err != nil {
		panic(err)
	}
}
