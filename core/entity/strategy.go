package entity

import (
	"context"

	"bulkdozer/core/remote"
)

// Strategy supplies the entity specific parts of load and push.
// Optional behavior is added by implementing the hook interfaces below.
type Strategy interface {
	Descriptor() Descriptor
	// ProcessPush maps job.Row onto job.Remote.
	ProcessPush(ctx context.Context, env *Env, job *PushJob) error
}

// RowMapper turns one remote entity into zero or more rows.
type RowMapper interface {
	MapRow(ctx context.Context, env *Env, item remote.Entity) ([]map[string]any, error)
}

// PushPreProcessor runs before ProcessPush, typically to normalize row values.
type PushPreProcessor interface {
	PreProcessPush(ctx context.Context, env *Env, job *PushJob) error
}

// PushPostProcessor runs after the commit, typically to refresh
// informational fields of the row.
type PushPostProcessor interface {
	PostProcessPush(ctx context.Context, env *Env, job *PushJob) error
}

// SearchOptionsProcessor adds cascade filters to a load. It reports whether
// it contributed a filter.
type SearchOptionsProcessor interface {
	ProcessSearchOptions(job *Job, opts remote.Options) bool
}

// PushJobPreparer adjusts each push job when it is created.
type PushJobPreparer interface {
	PreparePushJob(job *Job, pushJob *PushJob)
}

// ItemFetcher replaces the default list based fetch.
type ItemFetcher interface {
	FetchItemsToLoad(ctx context.Context, env *Env, job *Job) ([]remote.Entity, error)
}
