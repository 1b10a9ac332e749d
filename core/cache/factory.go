package cache

import (
	"context"
	"fmt"
)

// NewSharedFromConfig builds the shared cache selected by cfg.SharedBackend.
func NewSharedFromConfig(ctx context.Context, cfg Config) (Cache, error) {
	switch cfg.SharedBackend {
	case BackendMemory, "":
		return NewShared(WithMaxEntries(cfg.MaxEntries)), nil
	case BackendDynamoDB:
		return NewDynamoFromConfig(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown shared cache backend: %s", cfg.SharedBackend)
	}
}
