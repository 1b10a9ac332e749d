package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/minio/minio-go/v7"
)

// ErrObjectNotFound is returned when no object matches a lookup.
var ErrObjectNotFound = errors.New("object not found")

// EnsureBucket creates the bucket when it does not exist yet.
func EnsureBucket(ctx context.Context, c Client, bucket, region string) error {
	exists, err := c.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", bucket, err)
	}
	if exists {
		return nil
	}
	if err := c.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
	}
	return nil
}

// PutJSON encodes v with indentation and uploads it as objectName.
func PutJSON(ctx context.Context, c Client, bucket, objectName string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", objectName, err)
	}
	_, err = c.PutObject(ctx, bucket, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", objectName, err)
	}
	return nil
}

// GetJSON downloads objectName and decodes it into v.
func GetJSON(ctx context.Context, c Client, bucket, objectName string, v any) error {
	obj, err := c.GetObject(ctx, bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", objectName, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		var resp minio.ErrorResponse
		if errors.As(err, &resp) && resp.Code == "NoSuchKey" {
			return fmt.Errorf("%w: %s", ErrObjectNotFound, objectName)
		}
		return fmt.Errorf("failed to read %s: %w", objectName, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", objectName, err)
	}
	return nil
}

// Latest returns the greatest object key under prefix. Keys are expected to
// embed a sortable timestamp.
func Latest(ctx context.Context, c Client, bucket, prefix string) (string, error) {
	keys, err := Keys(ctx, c, bucket, prefix)
	if err != nil {
		return "", err
	}
	if len(keys) == 0 {
		return "", fmt.Errorf("%w: %s", ErrObjectNotFound, prefix)
	}
	return keys[len(keys)-1], nil
}

// Keys returns the object keys under prefix in ascending order, skipping
// folder markers.
func Keys(ctx context.Context, c Client, bucket, prefix string) ([]string, error) {
	var keys []string
	for obj := range c.ListObjects(ctx, bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", prefix, obj.Err)
		}
		if strings.HasSuffix(obj.Key, "/") {
			continue
		}
		keys = append(keys, obj.Key)
	}
	sort.Strings(keys)
	return keys, nil
}

// Prune removes the oldest objects under prefix so that at most keep remain.
// It returns the removed keys. keep <= 0 removes nothing.
func Prune(ctx context.Context, c Client, bucket, prefix string, keep int) ([]string, error) {
	if keep <= 0 {
		return nil, nil
	}
	keys, err := Keys(ctx, c, bucket, prefix)
	if err != nil {
		return nil, err
	}
	if len(keys) <= keep {
		return nil, nil
	}
	stale := keys[:len(keys)-keep]
	for _, key := range stale {
		if err := c.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{}); err != nil {
			return nil, fmt.Errorf("failed to remove %s: %w", key, err)
		}
	}
	return stale, nil
}

// folderKey returns the marker key of folder.
func folderKey(folder string) string {
	if strings.HasSuffix(folder, "/") {
		return folder
	}
	return folder + "/"
}

// FolderExists reports whether any object lives under folder.
func FolderExists(ctx context.Context, c Client, bucket, folder string) (bool, error) {
	// Cancelling stops the listing goroutine after the first object.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts := minio.ListObjectsOptions{Prefix: folderKey(folder), MaxKeys: 1}
	for obj := range c.ListObjects(ctx, bucket, opts) {
		if obj.Err != nil {
			return false, fmt.Errorf("failed to list %s: %w", folder, obj.Err)
		}
		return true, nil
	}
	return false, nil
}

// MakeFolder writes the empty marker object of folder.
func MakeFolder(ctx context.Context, c Client, bucket, folder string) error {
	if _, err := c.PutObject(ctx, bucket, folderKey(folder), bytes.NewReader(nil), 0, minio.PutObjectOptions{}); err != nil {
		return fmt.Errorf("failed to create folder %s: %w", folder, err)
	}
	return nil
}
