// Command postctl is a terminal client for the post scheduler API. It keeps
// the signed in session in a local SQLite file between runs.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/jrsteele09/post-scheduler/client/api"
	"github.com/jrsteele09/post-scheduler/client/session"
	"github.com/jrsteele09/post-scheduler/internal/logging"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	c, err := loadConfig(env.Options{})
	if err != nil {
		return err
	}
	logger := logging.Setup("DEV", c.LogLevel)

	if err := os.MkdirAll(filepath.Dir(c.SessionDB), 0o700); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}
	storage, err := session.OpenSQLiteStorage(ctx, c.SessionDB)
	if err != nil {
		return err
	}
	defer storage.Close()

	manager := session.NewManager(storage, terminalNavigator{out: os.Stdout}, session.WithLogger(logger))
	client := api.New(c.APIURL,
		api.WithTimeout(c.APITimeout),
		api.WithTokenSource(manager),
		api.WithLogger(logger),
	)

	return NewApp(client, manager, os.Stdin, os.Stdout).Run(ctx, args)
}
