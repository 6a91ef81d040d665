// cmd/identserver/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/Spaceonmymind/even-cookie-fp/internal/config"
	"github.com/Spaceonmymind/even-cookie-fp/internal/frame"
	"github.com/Spaceonmymind/even-cookie-fp/internal/logsink"
	"github.com/Spaceonmymind/even-cookie-fp/internal/results"
	"github.com/Spaceonmymind/even-cookie-fp/internal/server"
	"github.com/Spaceonmymind/even-cookie-fp/internal/validator"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "identserver: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		cfgPath   string
		listen    string
		publicURL string
		backend   string
	)

	flags := pflag.NewFlagSet("identserver", pflag.ContinueOnError)
	flags.StringVarP(&cfgPath, "config", "c", "", "path to YAML config (defaults apply when empty)")
	flags.StringVar(&listen, "listen", "", "listen address (overrides identserver.listen)")
	flags.StringVar(&publicURL, "public-url", "", "public base URL (overrides identserver.public_url)")
	flags.StringVar(&backend, "sink", "", "log sink backend: jsonl, sqlite, redis, memory")
	if err := flags.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	cfg, err := config.Resolve(cfgPath, func(c *config.Config) {
		if listen != "" {
			c.IdentServer.Listen = listen
		}
		if publicURL != "" {
			c.IdentServer.PublicURL = publicURL
		}
		if backend != "" {
			c.IdentServer.Sink.Backend = backend
		}
	})
	if err != nil {
		return err
	}
	logger := cfg.Log.NewLogger(os.Stderr)

	if err := frame.CheckScript(); err != nil {
		return err
	}

	is := cfg.IdentServer

	images, err := validator.New(validator.Config{
		Width:  is.Image.Width,
		MaxAge: is.Image.MaxAge(),
		Logger: logger.With("component", "validator"),
	})
	if err != nil {
		return err
	}

	logs, err := logsink.Open(is.Sink, logger.With("component", "logsink"))
	if err != nil {
		return err
	}
	defer logs.Close()

	res, err := results.NewFileStore(is.Results.Path, logger.With("component", "results"))
	if err != nil {
		return err
	}

	h, err := server.IdentServer{
		Images:      images,
		Logs:        logs,
		Results:     res,
		Width:       is.Image.Width,
		ReadTimeout: cfg.Client.ReadTimeout(),
		Logger:      logger,
	}.Router()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("identserver starting",
		"public_url", is.PublicURL,
		"sink", is.Sink.Backend,
		"results", is.Results.Path,
	)
	return server.Serve(ctx, is.Listen, h, logger)
}
