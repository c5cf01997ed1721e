package bootstrap

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	goredis "github.com/redis/go-redis/v9"

	"github.com/jonesrussell/north-cloud/review-responder/internal/artifact"
	"github.com/jonesrussell/north-cloud/review-responder/internal/cache"
	"github.com/jonesrussell/north-cloud/review-responder/internal/capability"
	"github.com/jonesrussell/north-cloud/review-responder/internal/config"
	"github.com/jonesrussell/north-cloud/review-responder/internal/database"
	infralogger "github.com/jonesrussell/north-cloud/review-responder/internal/infrastructure/logger"
	infraredis "github.com/jonesrussell/north-cloud/review-responder/internal/infrastructure/redis"
	"github.com/jonesrussell/north-cloud/review-responder/internal/llm"
	"github.com/jonesrussell/north-cloud/review-responder/internal/processor"
	"github.com/jonesrussell/north-cloud/review-responder/internal/telemetry"
)

// Components are the long-lived collaborators shared by the serve and
// process commands.
type Components struct {
	Service   *processor.Service
	Telemetry *telemetry.Provider
	// History is nil when the database is disabled.
	History *database.HistoryRepository
	DB      *sqlx.DB
	Redis   *goredis.Client

	logger infralogger.Logger
}

// Build wires providers, the optional response cache, the optional history
// store and the process controller. An artifact that exists but cannot be
// parsed is a startup error.
func Build(ctx context.Context, cfg *config.Config, log infralogger.Logger) (*Components, error) {
	app := &Components{Telemetry: telemetry.NewProvider(), logger: log}

	draftProgram, verifyProgram, err := loadArtifacts(cfg, log)
	if err != nil {
		return nil, err
	}

	sender := llm.NewMessageSender(llm.ClientConfig{
		APIKey:     cfg.Anthropic.APIKey,
		BaseURL:    cfg.Anthropic.BaseURL,
		Timeout:    cfg.Anthropic.Timeout,
		MaxRetries: cfg.Anthropic.Retries(),
	})

	var generator capability.DraftGenerator = llm.NewDraftGenerator(sender, llm.ProgramConfig{
		Model:       cfg.Draft.Model,
		Temperature: *cfg.Draft.Temperature,
		MaxTokens:   cfg.Draft.MaxTokens,
		Program:     draftProgram,
	}, app.Telemetry, log)

	var verifier capability.ComplianceVerifier = llm.NewComplianceVerifier(sender, llm.ProgramConfig{
		Model:       cfg.Verify.Model,
		Temperature: *cfg.Verify.Temperature,
		MaxTokens:   cfg.Verify.MaxTokens,
		Program:     verifyProgram,
	}, app.Telemetry, log)

	if cfg.Redis.Enabled {
		client, redisErr := infraredis.NewClient(ctx, infraredis.Config{
			Address:  cfg.Redis.URL,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if redisErr != nil {
			return nil, fmt.Errorf("failed to setup redis: %w", redisErr)
		}
		app.Redis = client

		store := cache.NewStore(client, cfg.Redis.TTL, app.Telemetry, log)
		generator = cache.NewDraftGenerator(generator, store, cfg.Draft.Model)
		verifier = cache.NewComplianceVerifier(verifier, store, cfg.Verify.Model)
		log.Info("Provider response cache enabled",
			infralogger.String("address", cfg.Redis.URL),
			infralogger.Duration("ttl", cfg.Redis.TTL),
		)
	}

	var history processor.HistoryRecorder
	if cfg.Database.Enabled {
		db, dbErr := SetupDatabase(ctx, cfg)
		if dbErr != nil {
			app.Close()
			return nil, fmt.Errorf("failed to setup database: %w", dbErr)
		}
		app.DB = db
		app.History = database.NewHistoryRepository(db)
		history = app.History
		log.Info("Database connection established")
	}

	app.Service = processor.NewService(processor.Config{
		ProgramVersion: cfg.Service.ProgramVersion,
		DraftModel:     cfg.Draft.Model,
		VerifyModel:    cfg.Verify.Model,
		MaxAttempts:    cfg.Service.MaxAttempts,
	}, generator, verifier, history, app.Telemetry, log)

	program := app.Service.Program()
	log.Info("Review controller ready",
		infralogger.String("draft_model", cfg.Draft.Model),
		infralogger.String("verify_model", cfg.Verify.Model),
		infralogger.String("draft_artifact_version", program.DraftArtifactVersion),
		infralogger.String("verify_artifact_version", program.VerifyArtifactVersion),
	)

	return app, nil
}

// Close releases the database and Redis connections.
func (a *Components) Close() {
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			a.logger.Error("Failed to close database connection", infralogger.Error(err))
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.logger.Error("Failed to close redis connection", infralogger.Error(err))
		}
	}
}

func loadArtifacts(cfg *config.Config, log infralogger.Logger) (draft, verify *artifact.Program, err error) {
	draft, err = artifact.Load(cfg.Draft.ArtifactPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load draft artifact: %w", err)
	}
	verify, err = artifact.Load(cfg.Verify.ArtifactPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load verify artifact: %w", err)
	}

	for name, p := range map[string]*artifact.Program{"draft": draft, "verify": verify} {
		if p.ArtifactVersion() == capability.ArtifactMissing {
			log.Warn("Program artifact not found, using base instructions",
				infralogger.String("program", name),
			)
		}
	}
	return draft, verify, nil
}
