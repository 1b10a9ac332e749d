package cmd

import (
	"context"
	"fmt"

	"bulkdozer/core/cache"
	"bulkdozer/core/config"
	"bulkdozer/core/database"
	"bulkdozer/core/logger"
	"bulkdozer/core/remote"
	"bulkdozer/core/session"
	"bulkdozer/core/storage"
	"bulkdozer/core/tabular"
	"bulkdozer/feature/bulk"
	"bulkdozer/feature/cm"
	"bulkdozer/feature/integrity"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// counterName is the session counter shared by every workbook of a database.
const counterName = "bulkdozer"

// app holds the collaborators built from configuration.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	db      *gorm.DB
	store   *tabular.SQLStore
	counter *session.SQLCounter
	shared  cache.Cache
	storage storage.Client
	remote  remote.Service
}

// newApp loads configuration and connects the workbook database. When
// withRemote is set the Campaign Manager service is built as well; the
// profile id falls back to the Store table of the workbook.
func newApp(ctx context.Context, withRemote bool) (*app, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	store := tabular.NewSQLStore(db)
	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to migrate workbook: %w", err)
	}
	counter := session.NewSQLCounter(db, counterName)
	if err := counter.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to migrate session counter: %w", err)
	}

	shared, err := cache.NewSharedFromConfig(ctx, cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("failed to create shared cache: %w", err)
	}

	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	a := &app{
		cfg:     cfg,
		logger:  logg,
		db:      db,
		store:   store,
		counter: counter,
		shared:  shared,
		storage: client,
	}

	if withRemote {
		if err := a.connectRemote(ctx); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// connectRemote builds the Campaign Manager service.
func (a *app) connectRemote(ctx context.Context) error {
	profileID, err := bulk.ProfileID(ctx, a.store, a.cfg.Sync.StoreTable, a.cfg.Remote.ProfileID)
	if err != nil {
		return fmt.Errorf("failed to resolve profile id: %w", err)
	}
	svc, err := remote.NewHTTPService(a.cfg.Remote, profileID)
	if err != nil {
		return fmt.Errorf("failed to create remote service: %w", err)
	}
	a.remote = svc
	a.logger.Info("Using Campaign Manager profile", zap.String("profile_id", profileID))
	return nil
}

func (a *app) bulkDeps() bulk.Deps {
	return bulk.Deps{
		Remote:       a.remote,
		Store:        a.store,
		Registry:     cm.NewRegistry(),
		Counter:      a.counter,
		Shared:       a.shared,
		Storage:      a.storage,
		Bucket:       a.cfg.Storage.Bucket,
		Logger:       a.logger,
		RemoteConfig: a.cfg.Remote,
		CacheConfig:  a.cfg.Cache,
		Sync:         a.cfg.Sync,
	}
}

func (a *app) integrityDeps() integrity.Deps {
	return integrity.Deps{
		Store:        a.store,
		Registry:     cm.NewRegistry(),
		DB:           a.db,
		Storage:      a.storage,
		Bucket:       a.cfg.Storage.Bucket,
		StoreTable:   a.cfg.Sync.StoreTable,
		ExportPrefix: a.cfg.Sync.ExportPrefix,
		Logger:       a.logger,
	}
}

// bulkService builds the sync service.
func (a *app) bulkService() *bulk.Service {
	return bulk.NewService(a.bulkDeps())
}

// ensureBucket creates the storage bucket when it is missing.
func (a *app) ensureBucket(ctx context.Context) error {
	if err := storage.EnsureBucket(ctx, a.storage, a.cfg.Storage.Bucket, a.cfg.Storage.Region); err != nil {
		return fmt.Errorf("failed to ensure bucket %s: %w", a.cfg.Storage.Bucket, err)
	}
	return nil
}

func (a *app) close() {
	_ = a.logger.Sync()
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
