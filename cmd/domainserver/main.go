// cmd/domainserver/main.go
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
	"github.com/Spaceonmymind/even-cookie-fp/internal/relay"
	"github.com/Spaceonmymind/even-cookie-fp/internal/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "domainserver: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		cfgPath  string
		listen   string
		identURL string
	)

	flags := pflag.NewFlagSet("domainserver", pflag.ContinueOnError)
	flags.StringVarP(&cfgPath, "config", "c", "", "path to YAML config (defaults apply when empty)")
	flags.StringVar(&listen, "listen", "", "listen address (overrides domain.listen)")
	flags.StringVar(&identURL, "identserver-url", "", "identity server base URL (overrides domain.identserver_url)")
	if err := flags.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	cfg, err := config.Resolve(cfgPath, func(c *config.Config) {
		if listen != "" {
			c.Domain.Listen = listen
		}
		if identURL != "" {
			c.Domain.IdentServerURL = identURL
		}
	})
	if err != nil {
		return err
	}
	logger := cfg.Log.NewLogger(os.Stderr)

	if err := frame.CheckScript(); err != nil {
		return err
	}

	d := cfg.Domain

	rl, err := relay.New(relay.Config{
		Upstream: d.IdentServerURL + "/cache-image",
		Timeout:  d.RelayTimeout(),
		Logger:   logger.With("component", "relay"),
	})
	if err != nil {
		return err
	}

	h, err := server.Domain{
		IdentServerURL: d.IdentServerURL,
		Relay:          rl,
		Width:          cfg.Client.Width,
		ReadTimeout:    cfg.Client.ReadTimeout(),
		Logger:         logger,
	}.Router()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("domainserver starting", "identserver", d.IdentServerURL)
	return server.Serve(ctx, d.Listen, h, logger)
}
