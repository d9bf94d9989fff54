package integration

// State enum for the session lifecycle
type State string

const (
	StateUninitialized State = "uninitialized"
	StateOpen          State = "open"
	StateCommitted     State = "committed"
	StateFailed        State = "failed"
)

// Credentials value object: the temporary storage credential triple
// issued by the platform for one session.
type Credentials struct {
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
}

// CredentialGrant is what a successful credential exchange yields:
// the bucket/path pair split out of the platform response plus the
// credential triple. Timestamp is the final segment of Path.
type CredentialGrant struct {
	Bucket      string
	Path        string
	Timestamp   string
	Credentials Credentials
}

// Aggregate Root: Session
//
// One credentialed, path-scoped upload lifecycle from setup to commit.
// Write-once: every field except the lifecycle state is fixed at
// construction, so concurrent readers during upload need no locking.
type Session struct {
	APIKey       string
	RepositoryID string
	Bucket       string
	Path         string
	Timestamp    string
	Credentials  Credentials
	Store        ObjectStore

	state State
}

// NewSession binds a credential grant to a constructed storage client.
// The caller must have validated the grant first: a Session never
// exists partially initialized.
func NewSession(apiKey, repoID string, grant CredentialGrant, store ObjectStore) *Session {
	return &Session{
		APIKey:       apiKey,
		RepositoryID: repoID,
		Bucket:       grant.Bucket,
		Path:         grant.Path,
		Timestamp:    grant.Timestamp,
		Credentials:  grant.Credentials,
		Store:        store,
		state:        StateOpen,
	}
}

// IsConfigured reports whether the session can accept uploads: session
// path, credentials and storage client must all be present.
func (s *Session) IsConfigured() bool {
	if s == nil {
		return false
	}
	return s.Path != "" &&
		s.Credentials != (Credentials{}) &&
		s.Store != nil
}

func (s *Session) State() State {
	if s == nil {
		return StateUninitialized
	}
	return s.state
}

// BeginCommit guards the at-most-once commit. It must be called before
// the commit request goes out; a session that already reached a
// terminal state is a programming error, not a retryable condition.
func (s *Session) BeginCommit() error {
	switch s.state {
	case StateOpen:
		return nil
	case StateCommitted:
		return &InvariantViolation{Reason: "commit called on already committed session " + s.Path}
	default:
		return &InvariantViolation{Reason: "commit called on " + string(s.state) + " session " + s.Path}
	}
}

// MarkCommitted moves the session to its terminal success state.
func (s *Session) MarkCommitted() { s.state = StateCommitted }

// MarkFailed moves the session to its terminal failure state. The
// caller must not run further pipeline stages afterwards.
func (s *Session) MarkFailed() { s.state = StateFailed }
