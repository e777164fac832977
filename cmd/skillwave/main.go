package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/ChathuminaK/SkillWave-sub000/api"
	"github.com/ChathuminaK/SkillWave-sub000/auth"
	"github.com/ChathuminaK/SkillWave-sub000/credentials"
	"github.com/ChathuminaK/SkillWave-sub000/internal/config"
	"github.com/ChathuminaK/SkillWave-sub000/token"
	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func main() {
	logout := flag.Bool("logout", false, "end the stored session and exit")
	flag.Parse()

	if err := run(*logout); err != nil {
		log.Fatalf("Error running client: %s\n", err)
	}
	log.Printf("Client stopped\n")
}

func run(logout bool) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	godotenv.Load()
	c := config.New()
	displayAppname(c.GetAppName())
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	store, err := credentials.NewFileStore(c.GetCredentialsFile())
	if err != nil {
		return fmt.Errorf("credentials.NewFileStore: %w", err)
	}

	apiClient, err := api.NewClient(c.GetAPIBaseURL(), store,
		api.WithTimeout(c.GetRequestTimeout()),
		api.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("api.NewClient: %w", err)
	}

	inspector := token.NewInspector(c.GetRefreshThreshold())
	manager, err := auth.NewSessionManager(apiClient, store, inspector,
		auth.WithLogger(logger),
		auth.WithCheckInterval(c.GetRefreshCheckInterval()))
	if err != nil {
		return fmt.Errorf("auth.NewSessionManager: %w", err)
	}
	defer manager.Close()

	ctx := context.Background()
	if logout {
		// The stored session must be resumed first; logging out of a
		// freshly constructed (anonymous) manager is a no-op.
		if err := manager.Resume(ctx); err != nil {
			logger.Warn().Err(err).Msg("stored session could not be resumed")
		}
		manager.Logout(ctx)
		logger.Info().Msg("logged out")
		return nil
	}

	events, cancel := manager.Subscribe()
	defer cancel()
	go printEvents(logger, events)

	if err := manager.Resume(ctx); err != nil {
		logger.Warn().Err(err).Msg("stored session could not be resumed")
	}

	if !manager.IsAuthenticated() {
		email, password := os.Getenv("SKILLWAVE_EMAIL"), os.Getenv("SKILLWAVE_PASSWORD")
		if email != "" && password != "" {
			if _, err := manager.Login(ctx, email, password); err != nil {
				return fmt.Errorf("manager.Login: %w", err)
			}
		} else {
			logger.Info().Msg("no stored session and no SKILLWAVE_EMAIL/SKILLWAVE_PASSWORD set; staying anonymous")
		}
	}

	waitForStopSignal()
	return nil
}

func printEvents(logger zerolog.Logger, events <-chan auth.Event) {
	for event := range events {
		entry := logger.Info().Str("status", event.Status.String())
		if event.User != nil {
			entry = entry.Str("user", event.User.Email)
		}
		if event.SessionExpired {
			entry = entry.Bool("sessionExpired", true)
		}
		entry.Msg("session event")
	}
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
