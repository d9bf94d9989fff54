package storage

import (
	"bytes"
	"context"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/bryanwahyu/scanbridge/internal/domain/integration"
)

// Region is fixed for the platform-issued buckets; not configurable.
const Region = "us-west-2"

// Store implements integration.ObjectStore on a minio client bound to
// the temporary session credentials. The bucket is platform-owned and
// pre-provisioned, so the store never creates or probes buckets.
type Store struct {
	client *minio.Client
}

// New builds a store from the credential triple issued for a session.
func New(endpoint string, creds integration.Credentials, useSSL bool) (*Store, error) {
	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(creds.AccessKeyID, creds.SecretAccessKey, creds.SessionToken),
		Secure: useSSL,
		Region: Region,
	})
	if err != nil {
		return nil, err
	}
	return &Store{client: cli}, nil
}

// Factory returns an integration.StoreFactory closed over the endpoint
// and TLS setting, for injection into the credential broker.
func Factory(endpoint string, useSSL bool) integration.StoreFactory {
	return func(creds integration.Credentials) (integration.ObjectStore, error) {
		return New(endpoint, creds, useSSL)
	}
}

func (s *Store) PutFile(ctx context.Context, bucket, key, localPath string) error {
	_, err := s.client.FPutObject(ctx, bucket, key, localPath, minio.PutObjectOptions{
		ContentType: contentTypeFor(localPath),
	})
	return err
}

func (s *Store) PutBytes(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := s.client.PutObject(ctx, bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	return err
}

// Exists probes for an object; a missing key is not an error.
func (s *Store) Exists(ctx context.Context, bucket, key string) (bool, error) {
	_, err := s.client.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" || resp.Code == "NotFound" {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func contentTypeFor(localPath string) string {
	switch filepath.Ext(localPath) {
	case ".json", ".template":
		return "application/json"
	case ".yml", ".yaml":
		return "application/x-yaml"
	case ".tf":
		return "text/plain"
	default:
		return "application/octet-stream"
	}
}
