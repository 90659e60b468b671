package main

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/Black-And-White-Club/tournament-uploader/app"
	"github.com/Black-And-White-Club/tournament-uploader/app/modules/tournament/application/prompt"
	tournamenttypes "github.com/Black-And-White-Club/tournament-uploader/app/modules/tournament/domain/types"
)

var errMissingFile = errors.New("missing tournament file argument")

func metadataFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "title", Usage: "tournament title"},
		&cli.StringFlag{Name: "date", Usage: "tournament date, " + prompt.DateLayout + " or natural language; empty means now"},
		&cli.StringFlag{Name: "link", Usage: "link to the tournament recording"},
		&cli.BoolFlag{Name: "no-prompt", Usage: "never ask for missing metadata"},
	}
}

func uploadCommand() *cli.Command {
	return &cli.Command{
		Name:      "upload",
		Usage:     "parse a tournament file and store it",
		ArgsUsage: "FILE",
		Flags:     metadataFlags(),
		Action:    runUpload,
	}
}

func runUpload(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return errMissingFile
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if err := cfg.RequireDatabase(); err != nil {
		return err
	}

	out := c.App.Writer
	fmt.Fprint(out, "<- Party Bots Tournament Upload CLI ->\n\n")

	meta, err := resolveMetadata(c)
	if err != nil {
		return err
	}

	a, err := app.NewApp(c.Context, cfg, app.Options{LogOutput: logOutput(c)})
	if err != nil {
		return err
	}
	defer a.Close()

	p := newProgress(out, uploadSteps)

	p.step(1, "Parsing tournament file...")
	parsed, err := a.Tournament.TournamentService.ParseFile(c.Context, path, meta)
	if err != nil {
		return err
	}
	p.step(2, "Finished parsing file (%d matches, %d players)", len(parsed.Matches), parsed.PlayerCount())

	p.step(3, "Connecting to Postgres database...")
	if err := a.ConnectDatabase(c.Context); err != nil {
		return err
	}
	p.step(4, "Established database connection [%s]", databaseName(cfg.Postgres.DSN))

	p.step(5, "Inserting into database...")
	result, err := a.Tournament.TournamentService.Upload(c.Context, parsed)
	if err != nil {
		return err
	}
	p.step(6, "Finished inserting tournament into database")

	fmt.Fprintf(out, "\n[Finished uploading tournament #%d]\n", result.TournamentID)
	if winner := result.Winner(); winner != nil {
		fmt.Fprintf(out, "Winner: %s (%s)\n", winner.Username, winner.UserID)
	}
	fmt.Fprintf(out, "Upload took: %.3fs\n", p.elapsed().Seconds())

	if err := a.WriteMetrics(); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}

// resolveMetadata takes metadata from flags and asks for whatever is missing,
// unless prompting is disabled.
func resolveMetadata(c *cli.Context) (tournamenttypes.Metadata, error) {
	p := prompt.New(c.App.Reader, c.App.Writer)
	noPrompt := c.Bool("no-prompt")

	meta := tournamenttypes.Metadata{Title: strings.TrimSpace(c.String("title"))}
	if meta.Title == "" {
		if noPrompt {
			return meta, errors.New("--title is required with --no-prompt")
		}
		title, err := p.Title(c.Context)
		if err != nil {
			return meta, err
		}
		meta.Title = title
	}

	if c.IsSet("date") || noPrompt {
		date, err := p.ParseDate(c.String("date"))
		if err != nil {
			return meta, fmt.Errorf("invalid --date: %w", err)
		}
		meta.Date = date
	} else {
		date, err := p.Date(c.Context)
		if err != nil {
			return meta, err
		}
		meta.Date = date
	}

	switch {
	case c.IsSet("link") || noPrompt:
		if link := strings.TrimSpace(c.String("link")); link != "" {
			meta.Link = &link
		}
	default:
		link, err := p.Link(c.Context)
		if err != nil {
			return meta, err
		}
		meta.Link = link
	}

	return meta, nil
}

func databaseName(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || strings.Trim(u.Path, "/") == "" {
		return "postgres"
	}
	return strings.Trim(u.Path, "/")
}
