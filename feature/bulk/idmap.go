package bulk

import (
	"context"
	"path"

	"bulkdozer/core/idstore"
	"bulkdozer/core/storage"

	"go.uber.org/zap"
)

// BackupIDMap uploads the persisted id map and returns the object name.
func (s *Service) BackupIDMap(ctx context.Context) (string, error) {
	if s.storage == nil {
		return "", ErrNoStorage
	}
	data, err := s.LoadIDMap(ctx)
	if err != nil {
		return "", err
	}
	name := path.Join(s.sync.ExportPrefix, "idmap", timestamp()+".json")
	if err := storage.PutJSON(ctx, s.storage, s.bucket, name, data); err != nil {
		return "", err
	}
	s.logger.Info("Backed up id map", zap.String("object", name))

	// A failed prune leaves extra backups behind but the new one is written.
	pruned, err := storage.Prune(ctx, s.storage, s.bucket, path.Join(s.sync.ExportPrefix, "idmap")+"/", s.sync.BackupKeep)
	if err != nil {
		s.logger.Warn("Failed to prune id map backups", zap.Error(err))
	} else if len(pruned) > 0 {
		s.logger.Info("Pruned id map backups", zap.Int("count", len(pruned)))
	}
	return name, nil
}

// RestoreIDMap replaces the persisted id map with the backup named object,
// or with the latest backup when object is empty. It returns the object used.
func (s *Service) RestoreIDMap(ctx context.Context, object string) (string, error) {
	if s.storage == nil {
		return "", ErrNoStorage
	}
	if object == "" {
		latest, err := storage.Latest(ctx, s.storage, s.bucket, path.Join(s.sync.ExportPrefix, "idmap")+"/")
		if err != nil {
			return "", err
		}
		object = latest
	}

	var data idstore.Data
	if err := storage.GetJSON(ctx, s.storage, s.bucket, object, &data); err != nil {
		return "", err
	}
	if err := s.SaveIDMap(ctx, data); err != nil {
		return "", err
	}
	s.logger.Info("Restored id map", zap.String("object", object))
	return object, nil
}
