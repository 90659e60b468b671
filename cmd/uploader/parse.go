package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/Black-And-White-Club/tournament-uploader/app"
	tournamentservice "github.com/Black-And-White-Club/tournament-uploader/app/modules/tournament/application"
	tournamenttypes "github.com/Black-And-White-Club/tournament-uploader/app/modules/tournament/domain/types"
	tournamentexporters "github.com/Black-And-White-Club/tournament-uploader/app/modules/tournament/infrastructure/exporters"
)

func parseCommand() *cli.Command {
	return &cli.Command{
		Name:      "parse",
		Usage:     "parse a tournament file and print what an upload would store",
		ArgsUsage: "FILE",
		Flags:     metadataFlags(),
		Action: func(c *cli.Context) error {
			parsed, err := parseFromArgs(c)
			if err != nil {
				return err
			}
			printTournament(c.App.Writer, parsed)
			return nil
		},
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "parse a tournament file and export it as a workbook and chart",
		ArgsUsage: "FILE",
		Flags: append(metadataFlags(),
			&cli.PathFlag{Name: "xlsx", Usage: "write an Excel workbook to `PATH`"},
			&cli.PathFlag{Name: "chart", Usage: "write a PNG standings chart to `PATH`"},
		),
		Action: func(c *cli.Context) error {
			if c.Path("xlsx") == "" && c.Path("chart") == "" {
				return fmt.Errorf("nothing to export: set --xlsx or --chart")
			}

			parsed, err := parseFromArgs(c)
			if err != nil {
				return err
			}
			awards := tournamentservice.RankingAwards(tournamentservice.OverallPlayerList(parsed.Matches))

			if path := c.Path("xlsx"); path != "" {
				var buf bytes.Buffer
				if err := tournamentexporters.WriteWorkbook(&buf, parsed, awards); err != nil {
					return err
				}
				if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
					return fmt.Errorf("failed to write workbook: %w", err)
				}
				fmt.Fprintf(c.App.Writer, "Wrote workbook %s\n", path)
			}

			if path := c.Path("chart"); path != "" {
				png, err := tournamentexporters.RenderStandingsChart(awards)
				if err != nil {
					return err
				}
				if err := os.WriteFile(path, png, 0o644); err != nil {
					return fmt.Errorf("failed to write chart: %w", err)
				}
				fmt.Fprintf(c.App.Writer, "Wrote chart %s\n", path)
			}
			return nil
		},
	}
}

// parseFromArgs parses the file named by the first argument without touching
// the database or the event bus.
func parseFromArgs(c *cli.Context) (*tournamenttypes.ParsedTournament, error) {
	path := c.Args().First()
	if path == "" {
		return nil, errMissingFile
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	meta, err := resolveMetadata(c)
	if err != nil {
		return nil, err
	}

	a, err := app.NewApp(c.Context, cfg, app.Options{NoEvents: true, LogOutput: logOutput(c)})
	if err != nil {
		return nil, err
	}
	defer a.Close()

	return a.Tournament.TournamentService.ParseFile(c.Context, path, meta)
}

func printTournament(w io.Writer, t *tournamenttypes.ParsedTournament) {
	fmt.Fprintf(w, "%s (v%d) %s\n", t.Title, t.Version, t.Date.Format("2006-01-02 15:04"))
	if t.Link != nil {
		fmt.Fprintf(w, "%s\n", *t.Link)
	}

	for _, m := range t.Matches {
		fmt.Fprintf(w, "\n#%d %s\n", m.MatchIndex+1, m.MatchType)
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, p := range m.Players {
			fmt.Fprintf(tw, "  %d\t%s\t%s\t%s\t%s\n", p.Rank, p.Username, p.UserID, p.LifeStatus.WireToken(), p.ImmuneStatus.WireToken())
		}
		tw.Flush()
	}

	awards := tournamentservice.RankingAwards(tournamentservice.OverallPlayerList(t.Matches))
	fmt.Fprintln(w, "\nOverall")
	if len(awards) == 0 {
		fmt.Fprintln(w, "  nobody is credited")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, a := range awards {
		win := ""
		if a.Win {
			win = "win"
		}
		fmt.Fprintf(tw, "  %d.\t%s\t%s\t+%d\t%s\n", i+1, a.Username, a.UserID, a.Points, win)
	}
	tw.Flush()
}
