package bulk

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"bulkdozer/core/cache"
	"bulkdozer/core/config"
	"bulkdozer/core/entity"
	"bulkdozer/core/idstore"
	"bulkdozer/core/remote"
	"bulkdozer/core/session"
	"bulkdozer/core/storage"
	"bulkdozer/core/tabular"

	"go.uber.org/zap"
)

// ErrNoStorage is returned by exports and backups when no object storage
// client is configured.
var ErrNoStorage = errors.New("object storage is not configured")

// Deps are the collaborators of a Service.
type Deps struct {
	Remote   remote.Service
	Store    tabular.Store
	Registry *entity.Registry
	Counter  session.Counter
	Shared   cache.Cache
	Storage  storage.Client
	Bucket   string
	Logger   *zap.Logger

	RemoteConfig remote.Config
	CacheConfig  cache.Config
	Sync         config.SyncConfig
}

// Service runs load and push jobs against one workbook.
type Service struct {
	remote   remote.Service
	store    tabular.Store
	registry *entity.Registry
	counter  session.Counter
	shared   cache.Cache
	ids      *idstore.Store
	storage  storage.Client
	bucket   string
	logger   *zap.Logger

	remoteCfg remote.Config
	cacheCfg  cache.Config
	sync      config.SyncConfig

	// mu serializes operations that touch the id map.
	mu sync.Mutex
}

// NewService creates a service from deps.
func NewService(deps Deps) *Service {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Counter == nil {
		deps.Counter = session.NewMemoryCounter()
	}
	if deps.Shared == nil {
		deps.Shared = cache.NewShared()
	}
	return &Service{
		remote:    deps.Remote,
		store:     deps.Store,
		registry:  deps.Registry,
		counter:   deps.Counter,
		shared:    deps.Shared,
		ids:       idstore.New(deps.Store, deps.Sync.StoreTable),
		storage:   deps.Storage,
		bucket:    deps.Bucket,
		logger:    deps.Logger,
		remoteCfg: deps.RemoteConfig,
		cacheCfg:  deps.CacheConfig,
		sync:      deps.Sync,
	}
}

// Engine returns an engine whose remote client embeds generation in its
// cache keys.
func (s *Service) Engine(generation int64) *entity.Engine {
	opts := []remote.Option{
		remote.WithGeneration(generation),
		remote.WithRetryPolicy(s.remoteCfg.RetryPolicy()),
		remote.WithChunkSize(s.remoteCfg.ChunkSize),
		remote.WithLogger(s.logger),
	}
	if s.cacheCfg.TTL > 0 {
		opts = append(opts, remote.WithTTL(s.cacheCfg.TTL))
	}
	if s.cacheCfg.MaxEntrySize > 0 {
		opts = append(opts, remote.WithMaxEntrySize(s.cacheCfg.MaxEntrySize))
	}

	env := &entity.Env{
		Client: remote.NewClient(s.remote, opts...),
		IDs:    s.ids,
		Store:  s.store,
		Logger: s.logger,
		Shared: s.shared,
	}
	return entity.NewEngine(env, s.registry)
}

// Store returns the workbook.
func (s *Service) Store() tabular.Store {
	return s.store
}

// InitializeJob starts a sync session and returns its generation.
func (s *Service) InitializeJob(ctx context.Context) (int64, error) {
	g, err := s.counter.Next(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to initialize job: %w", err)
	}
	s.logger.Info("Initialized job", zap.Int64("generation", g))
	return g, nil
}

// LoadIDMap reads the persisted id map.
func (s *Service) LoadIDMap(ctx context.Context) (idstore.Data, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ids.Load(ctx); err != nil {
		return nil, err
	}
	return s.ids.Data(), nil
}

// SaveIDMap replaces the in-session id map with data and persists it.
func (s *Service) SaveIDMap(ctx context.Context, data idstore.Data) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids.Initialize(data)
	return s.ids.Store(ctx)
}

// ClearIDMap empties the persisted id map.
func (s *Service) ClearIDMap(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ids.Clear(ctx)
}

// EntityConfigs reads the Entity Configs table. When the table is missing
// and a profile is configured, the table is seeded from the profile first.
func (s *Service) EntityConfigs(ctx context.Context) (EntityConfigs, error) {
	if s.sync.ProfilePath != "" {
		ok, err := s.store.TableExists(ctx, ConfigsTable)
		if err != nil {
			return nil, err
		}
		if !ok {
			p, err := LoadProfile(s.sync.ProfilePath)
			if err != nil {
				return nil, err
			}
			if err := WriteEntityConfigs(ctx, s.store, p.Entities); err != nil {
				return nil, err
			}
			s.logger.Info("Seeded entity configs from profile", zap.String("path", s.sync.ProfilePath))
		}
	}
	return ReadEntityConfigs(ctx, s.store)
}

// ActiveOnly reports whether loads are restricted to active items, either
// by configuration or by the workbook setting.
func (s *Service) ActiveOnly(ctx context.Context) (bool, error) {
	if s.sync.ActiveOnly {
		return true, nil
	}
	settings, err := ReadSettings(ctx, s.store, s.ids.Table())
	if err != nil {
		return false, err
	}
	return settings.ActiveOnly, nil
}

// IdentifyItemsToLoad runs the engine operation for job.
func (s *Service) IdentifyItemsToLoad(ctx context.Context, job *entity.Job) error {
	return s.Engine(job.Generation).IdentifyItemsToLoad(ctx, job)
}

// FetchItemsToLoad runs the engine operation for job.
func (s *Service) FetchItemsToLoad(ctx context.Context, job *entity.Job) ([]remote.Entity, error) {
	return s.Engine(job.Generation).FetchItemsToLoad(ctx, job)
}

// LoadEntity identifies and loads the items of one entity.
func (s *Service) LoadEntity(ctx context.Context, job *entity.Job) error {
	e := s.Engine(job.Generation)
	if len(job.IDsToLoad) == 0 {
		if err := e.IdentifyItemsToLoad(ctx, job); err != nil {
			return err
		}
	}
	return e.Load(ctx, job)
}

// PushEntity pushes every row of one entity and writes the feed back. The
// persisted id map is used unless the job carries one. Rows
// keep going after a failure when continue on error is set; otherwise the
// first failure stops the batch. The feed and the id map are written in
// both cases.
func (s *Service) PushEntity(ctx context.Context, job *entity.Job) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job.IDMap == nil {
		if err := s.ids.Load(ctx); err != nil {
			return 0, err
		}
	}
	return s.pushEntity(ctx, s.Engine(job.Generation), job)
}

func (s *Service) pushEntity(ctx context.Context, e *entity.Engine, job *entity.Job) (int, error) {
	if job.IDMap == nil {
		job.IDMap = s.ids.Data()
	}
	if err := e.CreatePushJobs(ctx, job); err != nil {
		return 0, err
	}

	failed := 0
	var pushErr error
	for _, pj := range job.Jobs {
		if err := ctx.Err(); err != nil {
			pushErr = err
			break
		}
		if err := e.Push(ctx, pj); err != nil {
			failed++
			if !s.sync.ContinueOnError {
				pushErr = err
				break
			}
		}
	}

	if err := e.UpdateFeed(ctx, job); err != nil {
		return failed, err
	}
	job.IDMap = s.ids.Data()
	if err := s.ids.Store(ctx); err != nil {
		return failed, err
	}
	return failed, pushErr
}
