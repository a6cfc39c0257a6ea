package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	_ "time/tzdata"

	"github.com/dsb-tools/billet2ics/internal/api"
	"github.com/dsb-tools/billet2ics/internal/calendar"
	"github.com/dsb-tools/billet2ics/internal/config"
	"github.com/dsb-tools/billet2ics/internal/converter"
	"github.com/dsb-tools/billet2ics/internal/pdftext"
	"github.com/dsb-tools/billet2ics/internal/storage/sqlite"
	"github.com/dsb-tools/billet2ics/internal/ticket"
	"github.com/dsb-tools/billet2ics/pkg/logger"
)

func main() {
	app := &cli.App{
		Name:  "billet2ics",
		Usage: "Convert DSB ticket PDFs into ICS calendar events",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.toml",
				Usage:   "Path to the TOML config file",
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			convertCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP conversion API",
		Action: func(c *cli.Context) error {
			cfg, err := config.Load(c.String("config"))
			if err != nil {
				return err
			}

			log, err := logger.New(logger.Config{
				Level:  cfg.Logging.Level,
				Format: cfg.Logging.Format,
			})
			if err != nil {
				return err
			}
			defer log.Sync()

			service, closeStorage, err := buildService(cfg, log)
			if err != nil {
				return err
			}
			defer closeStorage()

			router := api.NewRouter(service, cfg, log)
			server := &http.Server{
				Addr:         cfg.Server.Addr(),
				Handler:      router.Routes(),
				ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
				WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				log.Info("HTTP server listening", logger.String("addr", server.Addr))
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				log.Info("signal received, shutting down", logger.String("signal", sig.String()))
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(),
				time.Duration(cfg.Server.ShutdownTimeoutSeconds)*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	}
}

func convertCommand() *cli.Command {
	return &cli.Command{
		Name:      "convert",
		Usage:     "Convert a single ticket PDF to an ICS file",
		ArgsUsage: "<input.pdf> [output.ics]",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return cli.Exit("Usage: billet2ics convert <input.pdf> [output.ics]", 1)
			}

			input := c.Args().Get(0)
			output := c.Args().Get(1)
			if output == "" {
				base := filepath.Base(input)
				output = strings.TrimSuffix(base, filepath.Ext(base)) + ".ics"
			}

			if _, err := os.Stat(input); err != nil {
				return cli.Exit(fmt.Sprintf("Error: File '%s' not found.", input), 1)
			}

			// CLI conversions log warnings only; results go to stdout.
			log, err := logger.New(logger.Config{Level: "warn", Format: "console"})
			if err != nil {
				return err
			}
			defer log.Sync()

			service := converter.NewService(ticket.NewEngine(), pdftext.NewExtractor(log), nil, log)

			fmt.Printf("Processing: %s\n", input)
			rec, err := service.ExtractFromPDF(input)
			if err != nil {
				return cli.Exit(fmt.Sprintf("Error parsing PDF: %v", err), 1)
			}

			printRecord(rec)

			if !rec.IsComplete() {
				fmt.Println("\nWarning: Some required information is missing.")
				fmt.Printf("Cannot create a calendar event without: %s\n",
					strings.Join(rec.MissingFields(), ", "))
				return cli.Exit("", 1)
			}

			fmt.Println("\nCreating ICS file...")
			data, err := calendar.Compose(rec, time.Now())
			if err != nil {
				return cli.Exit(fmt.Sprintf("Error creating calendar: %v", err), 1)
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return cli.Exit(fmt.Sprintf("Error writing ICS file: %v", err), 1)
			}

			fmt.Printf("ICS file created: %s\n", output)
			return nil
		},
	}
}

func printRecord(rec *ticket.JourneyRecord) {
	orNA := func(s string) string {
		if s == "" {
			return "N/A"
		}
		return s
	}

	fmt.Println("\nExtracted Information:")
	fmt.Printf("  From: %s\n", orNA(rec.FromStation))
	fmt.Printf("  To: %s\n", orNA(rec.ToStation))
	if d := rec.FormattedDeparture(); d != "" {
		fmt.Printf("  Departure: %s\n", d)
	}
	if a := rec.FormattedArrival(); a != "" {
		fmt.Printf("  Arrival: %s\n", a)
	}
	if rec.TrainType != "" && rec.TrainNumber != "" {
		fmt.Printf("  Train: %s %s\n", rec.TrainType, rec.TrainNumber)
	}
	if rec.Wagon != "" {
		fmt.Printf("  Wagon: %s\n", rec.Wagon)
	}
	if rec.Seat != "" {
		fmt.Printf("  Seat: %s\n", rec.Seat)
	}
	if rec.TravelClass != "" {
		fmt.Printf("  Class: %s\n", rec.TravelClass)
	}
	if rec.Price != "" {
		fmt.Printf("  Price: %s kr.\n", rec.Price)
	}
}

// buildService assembles the conversion service, opening the history storage
// when it is enabled. The returned func closes the storage.
func buildService(cfg *config.Config, log *logger.Logger) (*converter.Service, func(), error) {
	var history *sqlite.ConversionStorage
	closeStorage := func() {}

	if cfg.Storage.Enabled {
		db, err := sqlite.Open(cfg.Storage.Path)
		if err != nil {
			return nil, nil, err
		}
		history, err = sqlite.NewConversionStorage(db, log)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		closeStorage = func() { db.Close() }
		log.Info("conversion history enabled", logger.String("path", cfg.Storage.Path))
	}

	service := converter.NewService(ticket.NewEngine(), pdftext.NewExtractor(log), history, log)
	return service, closeStorage, nil
}
