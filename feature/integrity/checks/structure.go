package checks

import (
	"context"
	"errors"
	"fmt"
	"path"

	"bulkdozer/core/storage"

	"go.uber.org/zap"
)

// ErrBucketMissing is returned when the export bucket has not been created.
var ErrBucketMissing = errors.New("bucket does not exist")

// RequiredFolders lists the folders exports and backups are written to.
func RequiredFolders(prefix string) []string {
	return []string{
		path.Join(prefix, "hierarchy"),
		path.Join(prefix, "idmap"),
	}
}

// CheckStructure returns the folders missing from the bucket.
func CheckStructure(ctx context.Context, client storage.Client, bucket string, folders []string) ([]string, error) {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", bucket, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrBucketMissing, bucket)
	}

	var missing []string
	for _, folder := range folders {
		ok, err := storage.FolderExists(ctx, client, bucket, folder)
		if err != nil {
			return nil, err
		}
		if !ok {
			missing = append(missing, folder)
		}
	}
	return missing, nil
}

// FixStructure writes a marker for every missing folder. It stops at the
// first failure.
func FixStructure(ctx context.Context, client storage.Client, bucket string, logger *zap.Logger, missing []string) error {
	for _, folder := range missing {
		if err := storage.MakeFolder(ctx, client, bucket, folder); err != nil {
			logger.Error("Failed to create folder", zap.String("folder", folder), zap.Error(err))
			return err
		}
		logger.Info("Created missing folder", zap.String("folder", folder))
	}
	return nil
}
