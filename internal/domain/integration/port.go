package integration

import "context"

// PlatformAPI port (interface to the remote security platform)
type PlatformAPI interface {
	// RequestCredentials exchanges an API key and repository identifier
	// for a session-scoped credential grant. No internal retry.
	RequestCredentials(ctx context.Context, apiKey, repoID string) (CredentialGrant, error)

	// CommitSession finalizes the session identified by sessionPath.
	// The remote effect is not guaranteed idempotent; callers own the
	// at-most-once guard.
	CommitSession(ctx context.Context, apiKey, sessionPath string) error
}

// ObjectStore port (interface to session-scoped object storage)
type ObjectStore interface {
	// PutFile uploads a local file under key.
	PutFile(ctx context.Context, bucket, key, localPath string) error

	// PutBytes uploads an in-memory document under key.
	PutBytes(ctx context.Context, bucket, key string, data []byte, contentType string) error

	// Exists reports whether an object is already present at key.
	Exists(ctx context.Context, bucket, key string) (bool, error)
}

// StoreFactory builds an ObjectStore bound to the temporary credentials
// of a grant. Injected so the broker can be tested without a live
// storage backend.
type StoreFactory func(creds Credentials) (ObjectStore, error)
