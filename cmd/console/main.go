package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"

	"github.com/Kihomy-Mariel/agrocoop-console/actions"
	"github.com/Kihomy-Mariel/agrocoop-console/auth"
	"github.com/Kihomy-Mariel/agrocoop-console/directory"
	"github.com/Kihomy-Mariel/agrocoop-console/gate"
	"github.com/Kihomy-Mariel/agrocoop-console/internal/config"
	"github.com/Kihomy-Mariel/agrocoop-console/session"
	"github.com/Kihomy-Mariel/agrocoop-console/transport"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error running console: %s\n", err)
	}
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	displayAppname(c.GetAppName())
	logger := newLogger(c)

	api, err := transport.New(c.GetAPIBaseURL(), transport.Mode(c.GetCredentialMode()),
		transport.WithTimeout(c.GetHTTPTimeout()),
		transport.WithToken(c.GetAPIToken()),
		transport.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	store := session.NewStore()
	svc, err := auth.NewService(store, auth.NewHTTPTransport(api, auth.WithTransportLogger(logger)),
		auth.WithLogger(logger))
	if err != nil {
		return err
	}

	coord, err := actions.NewCoordinator(store, actions.WithLogger(logger))
	if err != nil {
		return err
	}
	users, err := directory.NewService(directory.NewClient(api), coord, store,
		directory.WithServiceLogger(logger))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := svc.ProbeSession(ctx); err != nil {
		logger.Warn().Err(err).Msg("session probe failed")
	}

	g := gate.New(store)
	if g.Decide(gate.Requirement{RequireAuth: true}) == gate.RedirectToLogin {
		username, password := c.GetLoginUsername(), c.GetLoginPassword()
		if username == "" {
			logger.Info().Msg("no session; set CONSOLE_USERNAME and CONSOLE_PASSWORD to log in")
			return nil
		}
		if err := svc.Login(ctx, auth.Credentials{Username: username, Password: password}); err != nil {
			return err
		}
	}

	snapshot := store.Current()
	if !snapshot.Authenticated() {
		logger.Info().Str("status", string(snapshot.Status)).Msg("not authenticated; nothing to show")
		return nil
	}
	logger.Info().
		Str("user", snapshot.Principal.Username).
		Bool("admin", snapshot.Principal.Staff).
		Msg("authenticated")

	if err := users.Refresh(ctx); err != nil {
		return err
	}
	for _, u := range users.Users() {
		logger.Info().
			Str("id", u.ID).
			Str("user", u.Username).
			Str("name", u.FullName()).
			Str("status", string(u.Status)).
			Bool("admin", u.Staff).
			Msg("directory entry")
	}
	return nil
}

func newLogger(c config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(c.GetLogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
