// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind the Client interface so that AWS S3 and
// self-hosted MinIO are interchangeable and tests can use core/storage/mocks.
// bulkdozer stores hierarchy exports and identifier map backups as JSON objects.
//
// # Helpers
//
//   - EnsureBucket: creates the export bucket on first use.
//   - PutJSON / GetJSON: upload and download JSON documents.
//   - Keys / Latest: list keys under a timestamped prefix, or the newest one.
//   - Prune: drops the oldest objects beyond a retention count.
//   - FolderExists / MakeFolder: probe and create folder marker objects.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	err = storage.PutJSON(ctx, client, cfg.Storage.Bucket, "exports/tree.json", tree)
package storage
