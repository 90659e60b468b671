package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/urfave/cli/v2"

	"github.com/Black-And-White-Club/tournament-uploader/app"
	authdomain "github.com/Black-And-White-Club/tournament-uploader/app/modules/auth/domain"
	authjwt "github.com/Black-And-White-Club/tournament-uploader/app/modules/auth/infrastructure/jwt"
	tournamentevents "github.com/Black-And-White-Club/tournament-uploader/app/modules/tournament/domain/events"
)

var errNoJWTSecret = errors.New("no JWT secret configured: set JWT_SECRET or jwt.secret")

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP API",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			if cfg.JWT.Secret == "" {
				return errNoJWTSecret
			}

			ctx, stop := app.WithShutdownSignal(c.Context)
			defer stop()

			a, err := app.NewApp(ctx, cfg, app.Options{ConnectDB: true, LogOutput: c.App.ErrWriter})
			if err != nil {
				return err
			}
			defer a.Close()

			return a.Serve(ctx)
		},
	}
}

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "print upload notifications as they are published",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			if cfg.NATS.URL == "" {
				return errors.New("watch needs a NATS server: set NATS_URL or nats.url")
			}

			ctx, stop := app.WithShutdownSignal(c.Context)
			defer stop()

			a, err := app.NewApp(ctx, cfg, app.Options{LogOutput: logOutput(c)})
			if err != nil {
				return err
			}
			defer a.Close()

			messages, err := a.EventBus.Subscribe(ctx, cfg.NATS.Subject)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "Watching %s\n", cfg.NATS.Subject)

			for {
				select {
				case <-ctx.Done():
					return nil
				case msg, ok := <-messages:
					if !ok {
						return nil
					}
					var payload tournamentevents.TournamentUploadedPayloadV1
					if err := json.Unmarshal(msg.Payload, &payload); err != nil {
						fmt.Fprintf(c.App.ErrWriter, "skipping malformed message %s: %v\n", msg.UUID, err)
						msg.Ack()
						continue
					}
					printNotification(c, &payload, msg.Metadata.Get(middleware.CorrelationIDMetadataKey))
					msg.Ack()
				}
			}
		},
	}
}

func printNotification(c *cli.Context, p *tournamentevents.TournamentUploadedPayloadV1, correlationID string) {
	w := c.App.Writer
	fmt.Fprintf(w, "#%d %s (%s, %d matches) [%s]\n", p.TournamentID, p.Title, p.Date.Format("2006-01-02 15:04"), p.MatchCount, correlationID)
	if p.Winner != nil {
		fmt.Fprintf(w, "  winner: %s (%s)\n", p.Winner.Username, p.Winner.UserID)
	}
	fmt.Fprintf(w, "  %d players credited\n", len(p.Standings))
}

func tokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "issue an API token",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "subject", Required: true, Usage: "who the token is issued to"},
			&cli.StringFlag{Name: "role", Value: string(authdomain.RoleUploader), Usage: "viewer, uploader or admin"},
			&cli.DurationFlag{Name: "ttl", Usage: "token lifetime; defaults to jwt.default_ttl"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			if cfg.JWT.Secret == "" {
				return errNoJWTSecret
			}

			ttl := cfg.JWT.DefaultTTL
			if c.IsSet("ttl") {
				ttl = c.Duration("ttl")
			}
			if ttl <= 0 {
				return fmt.Errorf("invalid ttl %s", ttl)
			}

			token, err := authjwt.NewProviderFromConfig(cfg.JWT).GenerateToken(&authdomain.Claims{
				Subject: c.String("subject"),
				Role:    authdomain.Role(c.String("role")),
			}, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, token)
			fmt.Fprintf(c.App.ErrWriter, "expires %s\n", time.Now().Add(ttl).Format(time.RFC3339))
			return nil
		},
	}
}
