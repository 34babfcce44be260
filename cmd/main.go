package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"meetsched/internal/attendee"
	"meetsched/internal/config"
	"meetsched/internal/google"
	"meetsched/internal/models"
	"meetsched/internal/scheduler"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/urfave/cli/v2"
	"golang.org/x/oauth2"
)

func main() {
	// Load .env file first, but don't error if it doesn't exist.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "meetsched",
		Usage: "Schedule a meeting from a CSV of attendees and email them the invite.",
		Commands: []*cli.Command{
			authCommand(),
			scheduleCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("Application failed", "error", err)
		os.Exit(1)
	}
}

func authCommand() *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Authorize access to Google Calendar and Gmail and cache the token.",
		Action: func(c *cli.Context) error {
			logger := setupLogger("info")
			logger.Info("Starting Google authorization flow.")

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			oauthCfg, err := google.GetOAuthConfigForAuthFlow(cfg.ClientID, cfg.ClientSecret, cfg.CredentialsFile)
			if err != nil {
				return fmt.Errorf("failed to get google oauth config: %w", err)
			}

			authURL := oauthCfg.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
			fmt.Printf("Go to the following link in your browser then type the "+
				"authorization code: \n%v\n", authURL)

			fmt.Print("Enter Authorization Code: ")
			reader := bufio.NewReader(os.Stdin)
			authCode, _ := reader.ReadString('\n')
			authCode = strings.TrimSpace(authCode)

			token, err := google.TokenFromWeb(oauthCfg, authCode)
			if err != nil {
				return fmt.Errorf("unable to retrieve token from web: %w", err)
			}

			if err := google.SaveToken(cfg.TokenFile, token); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			logger.Info("Successfully authorized and saved token.", "file", cfg.TokenFile)
			return nil
		},
	}
}

func scheduleCommand() *cli.Command {
	return &cli.Command{
		Name:  "schedule",
		Usage: "Create the calendar event and send invitation emails.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "csv", Required: true, Usage: "CSV file with an 'email' column of attendees."},
			&cli.StringFlag{Name: "date", Required: true, Usage: "Meeting date (YYYY-MM-DD)."},
			&cli.StringFlag{Name: "time", Required: true, Usage: "Meeting start time (HH:MM)."},
			&cli.IntFlag{Name: "duration", Value: 30, Usage: "Duration in minutes."},
			&cli.StringFlag{Name: "topic", Value: "Team Meeting", Usage: "Meeting topic."},
			&cli.StringFlag{Name: "description", Usage: "Meeting description."},
			&cli.StringFlag{Name: "location", Usage: "Meeting location."},
			&cli.StringFlag{Name: "recurrence", Value: "none", Usage: "Repeat: none, daily, weekly or monthly."},
			&cli.BoolFlag{Name: "skip-email", Usage: "Create the event but send no invitation emails."},
		},
		Action: func(c *cli.Context) error {
			logLevel := os.Getenv("LOG_LEVEL")
			if logLevel == "" {
				logLevel = "info"
			}
			logger := setupLogger(logLevel)

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			loc, err := cfg.Location()
			if err != nil {
				return err
			}

			attendees, err := attendee.LoadFile(c.String("csv"))
			if err != nil {
				return err
			}
			logger.Info("Loaded attendees.", "count", len(attendees))

			recurrence, err := models.ParseRecurrence(c.String("recurrence"))
			if err != nil {
				return err
			}

			start, err := models.ParseStart(c.String("date"), c.String("time"), loc)
			if err != nil {
				return err
			}

			req := &models.MeetingRequest{
				Start:           start,
				DurationMinutes: c.Int("duration"),
				Topic:           c.String("topic"),
				Description:     c.String("description"),
				Location:        c.String("location"),
				Attendees:       attendees,
				Recurrence:      recurrence,
			}

			httpClient, err := google.NewHTTPClient(c.Context, logger, cfg.ClientID, cfg.ClientSecret, cfg.CredentialsFile, cfg.TokenFile)
			if err != nil {
				return err
			}

			calClient, err := google.NewCalendarClient(c.Context, logger, httpClient, cfg.CalendarID, cfg.Timezone, cfg.ReminderEmailMinutes, cfg.ReminderPopupMinutes)
			if err != nil {
				return fmt.Errorf("failed to create calendar client: %w", err)
			}

			mailClient, err := google.NewGmailClient(c.Context, logger, httpClient)
			if err != nil {
				return fmt.Errorf("failed to create gmail client: %w", err)
			}

			s := scheduler.New(logger, calClient, mailClient, cfg)
			event, err := s.Schedule(c.Context, req, !c.Bool("skip-email"))
			if err != nil {
				return err
			}

			fmt.Printf("Meeting Scheduled\nGoogle Meet: %s\n", event.MeetLink)
			return nil
		},
	}
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      logLevel,
		TimeFormat: time.RFC1123Z,
	}))
}
