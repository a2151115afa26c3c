package main

import (
	"context"
	crand "crypto/rand"
	"database/sql"
	"encoding/binary"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/phrazzld/arcana-api/internal/catalog"
	"github.com/phrazzld/arcana-api/internal/config"
	"github.com/phrazzld/arcana-api/internal/deck"
	"github.com/phrazzld/arcana-api/internal/interpret"
	"github.com/phrazzld/arcana-api/internal/platform/gemini"
	"github.com/phrazzld/arcana-api/internal/platform/memory"
	"github.com/phrazzld/arcana-api/internal/platform/postgres"
	"github.com/phrazzld/arcana-api/internal/service"
	"github.com/phrazzld/arcana-api/internal/store"
	"github.com/phrazzld/arcana-api/internal/task"
)

// application holds the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	// db is nil when the memory store backend is selected.
	db *sql.DB

	cardCatalog   *catalog.CardCatalog
	spreadCatalog *catalog.SpreadCatalog
	readingStore  store.ReadingStore

	assembler      *interpret.Assembler
	readingService service.ReadingService

	taskRunner *task.Runner
}

// newApplication creates an application instance with all dependencies
// initialized: catalogs, the configured store backend, the narrative
// generator when an API key is present, the interpretation worker pool,
// and the reading service.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	app.cardCatalog = catalog.NewCardCatalog()
	app.spreadCatalog = catalog.NewSpreadCatalog()
	logger.Info("catalogs loaded",
		slog.Int("cards", app.cardCatalog.Size()),
		slog.Int("spreads", len(app.spreadCatalog.ListSpreads())))

	if err := app.setupReadingStore(ctx); err != nil {
		return nil, err
	}

	narrative, err := setupNarrativeGenerator(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	app.assembler = interpret.NewAssembler(narrative, logger)

	app.taskRunner = task.NewRunner(task.RunnerConfig{
		WorkerCount: cfg.Engine.InterpretWorkers,
		QueueSize:   cfg.Engine.InterpretQueueSize,
	}, logger)
	app.taskRunner.Start()

	app.readingService, err = service.NewReadingService(
		app.cardCatalog,
		app.spreadCatalog,
		app.readingStore,
		app.assembler,
		app.taskRunner,
		newRandomSource,
		cfg.Engine.ReversalChance,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create reading service: %w", err)
	}

	logger.Info("application initialized")
	return app, nil
}

// setupReadingStore wires the configured store backend, running migrations
// for postgres.
func (app *application) setupReadingStore(ctx context.Context) error {
	switch app.config.Store.Backend {
	case "postgres":
		db, err := openDatabase(ctx, app.config.Database.URL)
		if err != nil {
			return err
		}
		app.db = db

		if err := postgres.RunMigrations(db, app.logger); err != nil {
			_ = db.Close()
			return fmt.Errorf("failed to run migrations: %w", err)
		}

		app.readingStore = postgres.NewPostgresReadingStore(db, app.logger)
		app.logger.Info("postgres reading store initialized")

	case "memory":
		app.readingStore = memory.NewMemoryReadingStore()
		app.logger.Info("in-memory reading store initialized")

	default:
		return fmt.Errorf("unknown store backend %q", app.config.Store.Backend)
	}

	return nil
}

// setupNarrativeGenerator builds the Gemini generator when an API key is
// configured. Without a key the assembler runs fallback-only, which is a
// supported mode rather than an error.
func setupNarrativeGenerator(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
) (interpret.NarrativeGenerator, error) {
	if cfg.LLM.GeminiAPIKey == "" {
		logger.Info("no Gemini API key configured, narrative generation uses deterministic fallback")
		return nil, nil
	}

	generator, err := gemini.NewNarrativeGenerator(ctx, logger, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize narrative generator: %w", err)
	}
	logger.Info("Gemini narrative generator initialized",
		slog.String("model", cfg.LLM.ModelName))
	return generator, nil
}

// Run starts the HTTP server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.taskRunner != nil {
		app.taskRunner.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}

	app.logger.Info("application shutdown completed")
}

// newRandomSource seeds a fresh deck randomness source from crypto-quality
// entropy, falling back to the clock if the entropy source fails.
func newRandomSource() deck.Source {
	var seed int64
	if err := binary.Read(crand.Reader, binary.BigEndian, &seed); err != nil {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}
