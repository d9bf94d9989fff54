package publish

import (
	"context"
	"io/fs"
	"path"
	"path/filepath"

	"github.com/bryanwahyu/scanbridge/internal/domain/integration"
)

// PersistRepository walks rootDir and uploads every file whose
// extension is in the supported set, keyed by session path plus the
// file's path relative to rootDir. Files outside the policy table are
// skipped silently. The first upload failure aborts the walk; each
// file is attempted at most once and no retry happens at this layer.
func (s *Service) PersistRepository(ctx context.Context, sess *integration.Session, rootDir string) error {
	if !sess.IsConfigured() {
		return &integration.InvariantViolation{Reason: "repository upload attempted on unconfigured session"}
	}
	log := s.logger()

	return filepath.WalkDir(rootDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := s.Extensions[filepath.Ext(p)]; !ok {
			return nil
		}
		rel, err := filepath.Rel(rootDir, p)
		if err != nil {
			return err
		}
		key := path.Join(sess.Path, filepath.ToSlash(rel))
		if err := sess.Store.PutFile(ctx, sess.Bucket, key, p); err != nil {
			return &integration.UploadError{Key: key, Path: p, Err: err}
		}
		log.Debug("persisted file", "file", p, "key", key)
		return nil
	})
}
