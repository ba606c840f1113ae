package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/sheikhrachel/go-life/utils"
)

var errInterrupted = errors.New("interrupted")

func main() {
	logger := log.New(os.Stderr, "go-life: ", log.LstdFlags)

	config := utils.DefaultConfig()
	configPath := flag.String("config", "config.json", "path to a JSON configuration file")
	config.Bind(flag.CommandLine)
	flag.Parse()

	// Load configuration - fallback to defaults if file doesn't exist
	loaded, err := utils.LoadConfig(*configPath)
	switch {
	case err == nil:
		config = loaded
		// flags win over the file
		if err = flag.CommandLine.Parse(os.Args[1:]); err != nil {
			logger.Fatalf("%+v", err)
		}
	case errors.Is(err, os.ErrNotExist):
		fmt.Printf("Using default configuration (%s not found)\n", *configPath)
	default:
		logger.Fatalf("%+v", err)
	}
	if err = config.Validate(); err != nil {
		logger.Fatalf("%+v", err)
	}

	g, err := initializeGame(config, os.Stdout, logger)
	if err != nil {
		logger.Fatalf("%+v", err)
	}

	eg, ctx := errgroup.WithContext(context.Background())

	// Handle Ctrl+C gracefully
	eg.Go(func() error {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)

		select {
		case <-sigChan:
			fmt.Println("\nShutting down gracefully...")
			return errInterrupted
		case <-ctx.Done():
			return nil
		}
	})

	eg.Go(func() error {
		if err := g.run(ctx); err != nil {
			return err
		}
		// the loop finished on its own; release the signal watcher
		return context.Canceled
	})

	if err = eg.Wait(); err != nil && !errors.Is(err, errInterrupted) && !errors.Is(err, context.Canceled) {
		logger.Printf("%+v", err)
	}
	g.printFinalStats()
}
