package entity

import (
	"context"
	"fmt"
	"strings"

	"bulkdozer/core/cache"
	"bulkdozer/core/idstore"
	"bulkdozer/core/remote"
	"bulkdozer/core/tabular"
	"bulkdozer/core/utils"

	"go.uber.org/zap"
)

// QATable is the fallback table consulted when an entity table is missing.
const QATable = "QA"

// Env holds the collaborators shared by the engine and the strategies.
type Env struct {
	Client *remote.Client
	IDs    *idstore.Store
	Store  tabular.Store
	Logger *zap.Logger
	// Shared is the cache installed for push; load always uses a private one.
	Shared cache.Cache
}

// WhichTable returns the first existing table among candidates.
func (e *Env) WhichTable(ctx context.Context, candidates ...string) (string, error) {
	return tabular.WhichTable(ctx, e.Store, candidates...)
}

// TableOf returns the table of d, defaulting to its first candidate when
// none exists yet.
func (e *Env) TableOf(ctx context.Context, d Descriptor) (string, error) {
	table, err := e.WhichTable(ctx, d.Tables...)
	if err != nil {
		return "", err
	}
	if table == "" && len(d.Tables) > 0 {
		table = d.Tables[0]
	}
	return table, nil
}

// TranslateID resolves a temporary id against table, falling back to the QA
// table namespace. Concrete ids are returned unchanged with ok set. An
// unresolved temporary id is returned unchanged with ok unset.
func (e *Env) TranslateID(ctx context.Context, table string, value any) (any, bool, error) {
	if !IsTemporaryID(value) {
		return value, true, nil
	}

	namespace, err := e.WhichTable(ctx, table, QATable)
	if err != nil {
		return nil, false, fmt.Errorf("failed to resolve table %s: %w", table, err)
	}
	if namespace == "" {
		namespace = table
	}

	if id, ok := e.IDs.Translate(namespace, value); ok {
		return id, true, nil
	}
	return value, false, nil
}

// ResolveID translates value like TranslateID and records a job warning
// when a temporary id stays unresolved.
func (e *Env) ResolveID(ctx context.Context, job *PushJob, table, field string, value any) (any, error) {
	id, ok, err := e.TranslateID(ctx, table, value)
	if err != nil {
		return nil, err
	}
	if !ok {
		job.Log("Warning: %s %v has no match in %s", field, value, table)
		e.logger().Warn("Unresolved reference",
			zap.String("table", table),
			zap.String("field", field),
			zap.Any("value", value))
	}
	return id, nil
}

func (e *Env) logger() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}

// IsTemporaryID reports whether value is a workbook assigned id ("ext...").
func IsTemporaryID(value any) bool {
	s := strings.ToLower(strings.TrimSpace(utils.ToString(value)))
	return strings.HasPrefix(s, "ext")
}
