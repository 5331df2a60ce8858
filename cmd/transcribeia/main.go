package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/transcribeia/transcribeia/internal/app"
	"github.com/transcribeia/transcribeia/internal/cli"
	"github.com/transcribeia/transcribeia/internal/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	application, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("initializing app: %w", err)
	}

	return cli.NewRootCmd(application).Execute()
}

func loadConfig() (*config.Config, error) {
	path := os.Getenv("TRANSCRIBEIA_CONFIG")
	if path == "" {
		path = "config.yaml"
	}

	cfg, err := config.Load(path)
	if err == nil {
		return cfg, nil
	}
	// A missing default config file is fine; an explicit one is not.
	if os.Getenv("TRANSCRIBEIA_CONFIG") == "" && errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	return nil, err
}
