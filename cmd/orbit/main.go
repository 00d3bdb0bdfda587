package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/orbit/internal/cli"
	"github.com/alexanderramin/orbit/internal/config"
	"github.com/alexanderramin/orbit/internal/db"
	"github.com/alexanderramin/orbit/internal/logging"
	"github.com/alexanderramin/orbit/internal/repository"
	"github.com/alexanderramin/orbit/internal/service"
	"github.com/mattn/go-isatty"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, closeLog, err := logging.Open(cfg.Log.Path, cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("opening log: %w", err)
	}
	defer closeLog()

	// Open database
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repository and unit of work
	snapshots := repository.NewSQLiteSnapshotRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	// Wire services
	board := service.NewBoard(snapshots, uow,
		service.WithSaveInterval(cfg.SaveInterval),
		service.WithLogger(logger),
		service.WithObserver(service.NewSlogUseCaseObserver(logger)),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := board.Load(ctx); err != nil {
		return fmt.Errorf("loading board: %w", err)
	}
	defer func() {
		if err := board.Flush(context.Background()); err != nil {
			logger.Error("final save failed", "error", err)
		}
	}()

	app := &cli.App{
		Board:    board,
		Transfer: service.NewTransferService(board, snapshots, service.NewSlogUseCaseObserver(logger)),
		Config:   cfg,
		Logger:   logger,
		Version:  version,
	}

	// Detect interactive terminal for forms and the board view.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	// Execute root command
	rootCmd := cli.NewRootCmd(app)
	return rootCmd.ExecuteContext(ctx)
}
