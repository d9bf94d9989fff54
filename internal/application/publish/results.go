package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"path"

	"github.com/bryanwahyu/scanbridge/internal/domain/integration"
	"github.com/bryanwahyu/scanbridge/internal/domain/reports"
)

const (
	// resultsObjectKey is the fixed, well-known key of the canonical
	// result document under the session path.
	resultsObjectKey = "checkov_results.json"

	// metadataPrefix holds the per-check metadata documents.
	metadataPrefix = "checks_metadata"
)

// PersistScanResults reduces the scan reports into one document,
// publishes per-check metadata, merges the metadata path map into the
// document and uploads it. Any upload failure aborts; nothing is
// retried and no partial result document is committed.
func (s *Service) PersistScanResults(ctx context.Context, sess *integration.Session, scanReports []reports.ScanReport) error {
	if !sess.IsConfigured() {
		return &integration.InvariantViolation{Reason: "result upload attempted on unconfigured session"}
	}
	log := s.logger()

	reduced, collisions := reports.Reduce(scanReports)
	for _, key := range collisions {
		// Keys are unique by construction; a duplicate means an
		// upstream checker emitted colliding identities.
		log.Warn("duplicate composite key in scan reports, keeping later record", "key", key)
	}

	metadataPaths, err := s.publishChecksMetadata(ctx, sess, scanReports)
	if err != nil {
		return err
	}
	reports.Merge(reduced, metadataPaths)

	data, err := json.Marshal(reduced)
	if err != nil {
		return fmt.Errorf("encode result document: %w", err)
	}
	key := path.Join(sess.Path, resultsObjectKey)
	if err := sess.Store.PutBytes(ctx, sess.Bucket, key, data, "application/json"); err != nil {
		return &integration.UploadError{Key: key, Err: err}
	}
	log.Info("persisted scan results", "key", key, "check_types", len(scanReports))
	return nil
}

// publishChecksMetadata uploads the metadata document of every distinct
// check referenced by the reports, skipping documents already present,
// and returns the path map shaped so that merging it into the reduced
// document annotates each result record with its metadata_path.
func (s *Service) publishChecksMetadata(ctx context.Context, sess *integration.Session, scanReports []reports.ScanReport) (reports.Document, error) {
	paths := reports.Document{}
	published := map[string]string{}

	for _, report := range scanReports {
		byKey, ok := paths[report.CheckType].(map[string]any)
		if !ok {
			byKey = map[string]any{}
			paths[report.CheckType] = byKey
		}
		for _, res := range report.Results {
			key, seen := published[res.CheckID]
			if !seen {
				key = path.Join(sess.Path, metadataPrefix, res.CheckID+".json")
				if err := s.putMetadataDocument(ctx, sess, key, res.Metadata); err != nil {
					return nil, err
				}
				published[res.CheckID] = key
			}
			byKey[reports.CompositeKey(res)] = map[string]any{"metadata_path": key}
		}
	}
	return paths, nil
}

func (s *Service) putMetadataDocument(ctx context.Context, sess *integration.Session, key string, metadata map[string]any) error {
	present, err := sess.Store.Exists(ctx, sess.Bucket, key)
	if err != nil {
		return &integration.UploadError{Key: key, Err: err}
	}
	if present {
		return nil
	}
	if metadata == nil {
		metadata = map[string]any{}
	}
	data, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("encode metadata document %s: %w", key, err)
	}
	if err := sess.Store.PutBytes(ctx, sess.Bucket, key, data, "application/json"); err != nil {
		return &integration.UploadError{Key: key, Err: err}
	}
	return nil
}
