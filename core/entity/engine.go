package entity

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"bulkdozer/core/cache"
	"bulkdozer/core/feed"
	"bulkdozer/core/idstore"
	"bulkdozer/core/logger"
	"bulkdozer/core/remote"
	"bulkdozer/core/utils"

	"go.uber.org/zap"
)

// PreFetchChunk bounds the number of filter values sent in one list call.
const PreFetchChunk = 200

// Engine orchestrates load and push for the registered strategies.
type Engine struct {
	env      *Env
	registry *Registry
}

// NewEngine creates an engine over env and registry.
func NewEngine(env *Env, registry *Registry) *Engine {
	if env.Shared == nil {
		env.Shared = cache.NewShared()
	}
	return &Engine{env: env, registry: registry}
}

// Env returns the engine collaborators.
func (e *Engine) Env() *Env {
	return e.env
}

// Registry returns the strategy registry.
func (e *Engine) Registry() *Registry {
	return e.registry
}

func (e *Engine) strategy(name string) (Strategy, error) {
	s, ok := e.registry.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEntity, name)
	}
	return s, nil
}

func (e *Engine) log(job *Job) *zap.Logger {
	return logger.WithJob(e.env.logger(), job.Entity, job.Generation)
}

// IdentifyItemsToLoad collects the concrete ids present in the entity table
// into job.IDsToLoad. Blank, "null" and temporary ids are skipped.
func (e *Engine) IdentifyItemsToLoad(ctx context.Context, job *Job) error {
	s, err := e.strategy(job.Entity)
	if err != nil {
		return err
	}
	d := s.Descriptor()
	job.Log("Identifying items to load: %s", d.Label)

	f, err := feed.Open(ctx, e.env.Store, d.Tables, d.Keys...)
	if err != nil {
		return err
	}
	if err := f.Load(ctx); err != nil {
		return err
	}

	job.IDsToLoad = nil
	for row := f.Next(); row != nil; row = f.Next() {
		id := strings.TrimSpace(utils.ToString(row.Get(d.IDField)))
		lower := strings.ToLower(id)
		if id == "" || lower == "null" || strings.HasPrefix(lower, "ext") {
			continue
		}
		job.IDsToLoad = PushUnique(job.IDsToLoad, id)
	}
	return nil
}

// FetchItemsToLoad retrieves the remote entities selected by the job.
// Nothing is fetched when neither ids nor cascade filters are present.
func (e *Engine) FetchItemsToLoad(ctx context.Context, job *Job) ([]remote.Entity, error) {
	s, err := e.strategy(job.Entity)
	if err != nil {
		return nil, err
	}
	return e.fetch(ctx, s, job)
}

func (e *Engine) fetch(ctx context.Context, s Strategy, job *Job) ([]remote.Entity, error) {
	d := s.Descriptor()

	if f, ok := s.(ItemFetcher); ok {
		job.Log("Fetching %s from campaign manager", d.Label)
		return f.FetchItemsToLoad(ctx, e.env, job)
	}

	opts := remote.Options{}
	filtered := false
	if len(job.IDsToLoad) > 0 {
		opts["ids"] = job.IDsToLoad
		filtered = true
	}
	if p, ok := s.(SearchOptionsProcessor); ok && p.ProcessSearchOptions(job, opts) {
		filtered = true
	}

	job.Log("Fetching %s from campaign manager", d.Label)
	if !filtered {
		return nil, nil
	}

	if _, byIDs := opts["ids"]; byIDs && len(opts) == 1 {
		return e.env.Client.ChunkFetch(ctx, d.RemoteType, d.ListField, job.IDsToLoad)
	}
	return e.env.Client.List(ctx, d.RemoteType, d.ListField, opts)
}

// Load fetches the selected entities, maps them to rows and overwrites the
// entity table. Nothing is written when fetching or mapping fails.
func (e *Engine) Load(ctx context.Context, job *Job) error {
	s, err := e.strategy(job.Entity)
	if err != nil {
		return err
	}
	d := s.Descriptor()
	l := e.log(job)
	l.Info("Loading entity", zap.String("label", d.Label))

	e.env.Client.SetCache(cache.NewMemory())

	items, err := e.fetch(ctx, s, job)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", d.Label, err)
	}
	job.ItemsToLoad = items

	if len(items) > 0 {
		for _, cfg := range job.PreFetchConfigs {
			var values []string
			for _, item := range items {
				if v := utils.ToString(item[cfg.FieldName]); v != "" {
					values = PushUnique(values, v)
				}
			}
			if err := e.preFetch(ctx, cfg, values); err != nil {
				return err
			}
		}
	}

	job.Log("Mapping %s to the feed", d.Label)

	var rows []map[string]any
	job.LoadedIDs = nil
	if m, ok := s.(RowMapper); ok {
		for _, item := range items {
			mapped, err := m.MapRow(ctx, e.env, item)
			if err != nil {
				return fmt.Errorf("failed to map %s %s: %w", d.Label, remote.ID(item), err)
			}
			rows = append(rows, mapped...)
			job.LoadedIDs = append(job.LoadedIDs, remote.ID(item))
		}
	}

	table, err := e.ensureTable(ctx, d, rows)
	if err != nil {
		return err
	}

	f := feed.New(e.env.Store, table, d.Keys...)
	f.SetFeed(rows)
	if err := f.Save(ctx); err != nil {
		return err
	}

	l.Info("Loaded entity", zap.String("label", d.Label), zap.Int("items", len(items)), zap.Int("rows", len(rows)))
	return nil
}

// ensureTable returns the entity table, creating it with the default
// columns, or the mapped field names, when missing.
func (e *Engine) ensureTable(ctx context.Context, d Descriptor, rows []map[string]any) (string, error) {
	table, err := e.env.WhichTable(ctx, d.Tables...)
	if err != nil {
		return "", err
	}
	if table != "" || len(d.Tables) == 0 {
		return table, nil
	}

	header := d.Columns
	if len(header) == 0 {
		header = fieldNames(rows)
	}
	if len(header) == 0 {
		return "", nil
	}

	table = d.Tables[0]
	values := make([]any, len(header))
	for i, h := range header {
		values[i] = h
	}
	if err := e.env.Store.WriteCells(ctx, table, "A1", [][]any{values}); err != nil {
		return "", fmt.Errorf("failed to create table %s: %w", table, err)
	}
	return table, nil
}

func fieldNames(rows []map[string]any) []string {
	seen := make(map[string]bool)
	var out []string
	for _, row := range rows {
		for k := range row {
			if !seen[k] {
				seen[k] = true
				out = append(out, k)
			}
		}
	}
	sort.Strings(out)
	return out
}

// preFetch lists entity in chunks of filter values only to warm the cache.
func (e *Engine) preFetch(ctx context.Context, cfg PreFetchConfig, values []string) error {
	if cfg.FilterName == "" {
		return nil
	}
	for start := 0; start < len(values); start += PreFetchChunk {
		end := start + PreFetchChunk
		if end > len(values) {
			end = len(values)
		}
		opts := remote.Options{cfg.FilterName: append([]string(nil), values[start:end]...)}
		if _, err := e.env.Client.List(ctx, cfg.Entity, cfg.ListField, opts); err != nil {
			return fmt.Errorf("failed to pre-fetch %s: %w", cfg.Entity, err)
		}
	}
	return nil
}

// CreatePushJobs reads the deduplicated table and creates one push job per
// visible row. job.Feed receives the rows for UpdateFeed.
func (e *Engine) CreatePushJobs(ctx context.Context, job *Job) error {
	s, err := e.strategy(job.Entity)
	if err != nil {
		return err
	}
	d := s.Descriptor()

	f, err := feed.Open(ctx, e.env.Store, d.Tables, d.Keys...)
	if err != nil {
		return err
	}
	if err := f.Load(ctx); err != nil {
		return err
	}

	if !f.IsEmpty() {
		e.env.Client.SetCache(e.env.Shared)
		for _, cfg := range job.PreFetchConfigs {
			var values []string
			for _, row := range f.Rows() {
				v := row.Get(cfg.FieldName)
				if isNumber(v) && utils.IsTruthy(v) {
					values = PushUnique(values, utils.ToString(v))
				}
			}
			if err := e.preFetch(ctx, cfg, values); err != nil {
				return err
			}
		}
	}

	if job.IDMap == nil {
		job.IDMap = idstore.Data{}
	}
	job.Jobs = nil
	preparer, _ := s.(PushJobPreparer)
	for row := f.Next(); row != nil; row = f.Next() {
		pj := &PushJob{Entity: job.Entity, Row: row, IDMap: job.IDMap, State: StateNew}
		if preparer != nil {
			preparer.PreparePushJob(job, pj)
		}
		job.Jobs = append(job.Jobs, pj)
	}
	job.Feed = f.Rows()
	return nil
}

func isNumber(v any) bool {
	switch v.(type) {
	case int, int64, int32, int16, int8, uint, uint64, uint32, uint16, uint8, float64, float32:
		return true
	default:
		return false
	}
}

// Push maps one row to a remote entity and commits it. On failure the
// error is recorded in the job log, the job is marked failed and the error
// is returned.
func (e *Engine) Push(ctx context.Context, job *PushJob) error {
	s, err := e.strategy(job.Entity)
	if err != nil {
		return err
	}
	d := s.Descriptor()

	if job.Row.Unkeyed {
		job.Log("%s is empty for %s. Skipping", d.IDField, d.Label)
		job.State = StateDone
		return nil
	}

	e.env.Client.SetCache(e.env.Shared)

	idValue := job.Row.Get(d.IDField)
	if job.IDMap != nil {
		e.env.IDs.Initialize(job.IDMap)
	}
	job.IDMap = e.env.IDs.Data()

	job.Log("Processing %s: %v", d.Label, idValue)

	if err := e.push(ctx, s, job, idValue); err != nil {
		job.Log("Error processing %s: %v", d.Label, idValue)
		job.Log("Error Message: %s", err.Error())
		job.State = StateFailed
		e.env.logger().Warn("Push failed",
			zap.String("entity", job.Entity),
			zap.Any("id", idValue),
			zap.Error(err))
		return err
	}
	job.State = StateDone
	return nil
}

func (e *Engine) push(ctx context.Context, s Strategy, job *PushJob, idValue any) error {
	d := s.Descriptor()
	row := job.Row

	table, err := e.env.TableOf(ctx, d)
	if err != nil {
		return err
	}

	job.State = StateFetchingBase
	job.Remote = remote.Entity{}
	temporary := IsTemporaryID(idValue)
	if utils.IsTruthy(idValue) && !temporary {
		base, err := e.env.Client.Get(ctx, d.RemoteType, idValue)
		if err != nil {
			return err
		}
		if base != nil {
			job.Remote = base
		}
	}

	job.State = StateResolvingChildren
	for _, child := range d.Children {
		if err := e.attachChildren(ctx, table, child, row); err != nil {
			return err
		}
	}

	job.State = StateResolvingReferences
	for _, ref := range d.References {
		v := row.Get(ref.Field)
		if !utils.IsTruthy(v) {
			continue
		}
		resolved, err := e.env.ResolveID(ctx, job, ref.Table, ref.Field, v)
		if err != nil {
			return err
		}
		row.Set(ref.Field, resolved)
	}

	job.State = StateMappingFields
	if p, ok := s.(PushPreProcessor); ok {
		if err := p.PreProcessPush(ctx, e.env, job); err != nil {
			return err
		}
	}
	if err := s.ProcessPush(ctx, e.env, job); err != nil {
		return err
	}

	job.State = StateCommitting
	committed, err := e.env.Client.Update(ctx, d.RemoteType, job.Remote)
	if err != nil {
		return err
	}
	job.Remote = committed
	newID := remote.ID(committed)
	row.Set(d.IDField, newID)

	if temporary {
		job.State = StateRecordingID
		e.env.IDs.AddID(table, newID, utils.ToString(idValue))
		for _, child := range d.Children {
			for _, c := range row.Children[child.ListField] {
				if IsTemporaryID(c.Get(child.JoinField)) {
					c.Set(child.JoinField, newID)
				}
			}
		}
	}

	job.State = StatePostProcessing
	if p, ok := s.(PushPostProcessor); ok {
		if err := p.PostProcessPush(ctx, e.env, job); err != nil {
			return err
		}
	}
	return nil
}

// attachChildren groups the rows of the child table by their join value,
// translated against the parent table, and attaches the group matching row.
func (e *Engine) attachChildren(ctx context.Context, table string, child ChildRelationship, row *feed.Row) error {
	f, err := feed.Open(ctx, e.env.Store, child.Tables)
	if err != nil {
		return err
	}
	if err := f.Load(ctx); err != nil {
		return err
	}

	groups := make(map[string][]*feed.Row)
	for c := f.Next(); c != nil; c = f.Next() {
		key, _, err := e.env.TranslateID(ctx, table, c.Get(child.JoinField))
		if err != nil {
			return err
		}
		c.Set(child.JoinField, key)
		k := utils.ToString(key)
		groups[k] = append(groups[k], c)
	}

	if group, ok := groups[utils.ToString(row.Get(child.JoinField))]; ok {
		row.SetChildren(child.ListField, group)
	}
	return nil
}

// UpdateFeed writes job.Feed back to the entity table, copying edits onto
// duplicate rows, and writes attached child rows back to their tables.
// Child rows of parents outside job.Feed are kept.
func (e *Engine) UpdateFeed(ctx context.Context, job *Job) error {
	s, err := e.strategy(job.Entity)
	if err != nil {
		return err
	}
	d := s.Descriptor()

	table, err := e.env.WhichTable(ctx, d.Tables...)
	if err != nil {
		return err
	}
	f := feed.New(e.env.Store, table, d.Keys...)
	f.SetRows(job.Feed)
	if err := f.Save(ctx); err != nil {
		return err
	}

	for _, child := range d.Children {
		if err := e.updateChildFeed(ctx, table, child, job.Feed); err != nil {
			return err
		}
	}
	return nil
}

func claim(claimed map[string]bool, v any) {
	if k := utils.ToString(v); k != "" {
		claimed[k] = true
	}
}

func (e *Engine) updateChildFeed(ctx context.Context, table string, child ChildRelationship, parents []*feed.Row) error {
	var attached []*feed.Row
	claimed := make(map[string]bool)
	for _, p := range parents {
		kids, ok := p.Children[child.ListField]
		if !ok {
			continue
		}
		attached = append(attached, kids...)
		claim(claimed, p.Get(child.JoinField))
		for _, k := range kids {
			claim(claimed, k.Get(child.JoinField))
		}
	}
	if len(claimed) == 0 {
		return nil
	}

	cf, err := feed.Open(ctx, e.env.Store, child.Tables)
	if err != nil {
		return err
	}
	if err := cf.Load(ctx); err != nil {
		return err
	}

	rows := attached
	for _, c := range cf.Rows() {
		key, _, err := e.env.TranslateID(ctx, table, c.Get(child.JoinField))
		if err != nil {
			return err
		}
		if claimed[utils.ToString(key)] || claimed[utils.ToString(c.Get(child.JoinField))] {
			continue
		}
		rows = append(rows, c)
	}

	cf.SetRows(rows)
	return cf.Save(ctx)
}
