package cache

import "time"

// Backends for the shared cache.
const (
	BackendMemory   = "memory"
	BackendDynamoDB = "dynamodb"
)

// Config holds configuration for the entity caches.
type Config struct {
	// SharedBackend selects the push-phase cache (memory, dynamodb).
	SharedBackend string `mapstructure:"shared_backend" default:"memory"`
	// TTL is how long shared entries stay valid.
	TTL time.Duration `mapstructure:"ttl" default:"6h"`
	// MaxEntrySize is the largest encoded entity that will be cached.
	MaxEntrySize int `mapstructure:"max_entry_size" default:"100000"`
	// MaxEntries bounds the in-process shared cache.
	MaxEntries int `mapstructure:"max_entries" default:"50000"`
	// DynamoTable is the DynamoDB table backing the shared cache.
	DynamoTable string `mapstructure:"dynamodb_table" default:"bulkdozer-cache"`
	// DynamoRegion overrides the AWS region.
	DynamoRegion string `mapstructure:"dynamodb_region" default:""`
	// DynamoProfile selects a shared AWS config profile.
	DynamoProfile string `mapstructure:"dynamodb_profile" default:""`
	// DynamoEndpoint points at DynamoDB Local or another compatible endpoint.
	DynamoEndpoint string `mapstructure:"dynamodb_endpoint" default:""`
}
