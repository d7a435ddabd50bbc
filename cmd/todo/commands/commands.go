package commands

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/timoncotraci/To-Do-List-Checker/internal/adapters/storage"
	"github.com/timoncotraci/To-Do-List-Checker/internal/application/state"
	"github.com/timoncotraci/To-Do-List-Checker/internal/infrastructure/config"
	"github.com/timoncotraci/To-Do-List-Checker/internal/infrastructure/logger"
	"github.com/timoncotraci/To-Do-List-Checker/internal/infrastructure/server"
	"github.com/timoncotraci/To-Do-List-Checker/internal/ports"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the To-Do List Checker server",
		Long:  "Start the task list server with the configured store backend",
		Run: func(cmd *cobra.Command, args []string) {
			runServer()
		},
	}
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the application version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("To-Do List Checker v1.0.0")
		},
	}
}

func runServer() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Close()

	store, closeStore, err := openStore(cfg.Store)
	if err != nil {
		appLogger.Fatal("Failed to open store", "error", err)
	}
	defer closeStore()

	st, err := state.Load(context.Background(), store)
	if err != nil {
		appLogger.Fatal("Failed to load application state", "error", err)
	}

	srv, err := server.New(cfg, st, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize server", "error", err)
	}

	appLogger.Info("Starting To-Do List Checker",
		"address", cfg.Server.Address(),
		"store_backend", cfg.Store.Backend,
		"environment", cfg.App.Environment,
	)

	if err := srv.Start(cfg.Server.Address()); err != nil {
		appLogger.Fatal("Server failed to start", "error", err)
	}
}

func openStore(cfg config.StoreConfig) (ports.StateStore, func(), error) {
	noop := func() {}

	switch cfg.Backend {
	case "sqlite":
		store, err := storage.NewSQLiteStore(cfg.Path)
		if err != nil {
			return nil, noop, err
		}
		return store, func() { store.Close() }, nil
	case "memory":
		store, err := storage.NewFileStore(afero.NewMemMapFs(), "state.json")
		return store, noop, err
	default:
		store, err := storage.NewFileStore(afero.NewOsFs(), cfg.Path)
		return store, noop, err
	}
}
