// Package app wires configuration, logging, storage and services into the
// shared core used by cmd/folio-server and the HTTP layer's tests.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dansutton/folio/internal/common"
	"github.com/dansutton/folio/internal/interfaces"
	"github.com/dansutton/folio/internal/services/investment"
	"github.com/dansutton/folio/internal/storage/surrealdb"
)

// App holds all initialized services and storage.
type App struct {
	Config            *common.Config
	Logger            *common.Logger
	Storage           interfaces.StorageManager
	InvestmentService interfaces.InvestmentService
	StartupTime       time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes storage and services. configPath may be empty, in which
// case FOLIO_CONFIG and then the binary directory are checked.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	binDir := getBinaryDir()

	if configPath == "" {
		configPath = os.Getenv("FOLIO_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "folio.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/folio.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLogger(config.Logging.Level)

	storageManager, err := surrealdb.NewManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	investmentService := investment.NewService(storageManager, logger)

	a := &App{
		Config:            config,
		Logger:            logger,
		Storage:           storageManager,
		InvestmentService: investmentService,
		StartupTime:       startupStart,
	}

	logger.Info().Dur("startup", time.Since(startupStart)).Msg("App initialized")

	return a, nil
}

// Close releases all resources held by the App.
func (a *App) Close() {
	if a.Storage != nil {
		a.Storage.Close()
		a.Storage = nil
	}
}
