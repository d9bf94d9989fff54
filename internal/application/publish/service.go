package publish

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bryanwahyu/scanbridge/internal/application"
	"github.com/bryanwahyu/scanbridge/internal/domain/integration"
	"github.com/bryanwahyu/scanbridge/internal/domain/reports"
)

// Service implements the publish pipeline: credential setup, repository
// upload, result upload, commit. One Service handles one session at a
// time; stages run strictly in that order and the first failure aborts
// the run.
type Service struct {
	Platform   integration.PlatformAPI
	NewStore   integration.StoreFactory
	Extensions map[string]struct{}

	// SettleDelay is the minimum wait between credential issuance and
	// the first upload, giving the freshly granted access policy time
	// to propagate. Zero disables it (tests).
	SettleDelay time.Duration

	Clock application.Clock
	Log   *slog.Logger
}

// PublishCommand carries everything one run needs.
type PublishCommand struct {
	APIKey       string
	RepositoryID string
	RootDir      string
	Reports      []reports.ScanReport
}

// Run executes the full pipeline. Errors are wrapped with the stage
// name so the caller can tell how far the run got.
func (s *Service) Run(ctx context.Context, cmd PublishCommand) error {
	log := s.logger().With("run_id", uuid.New().String(), "repo_id", cmd.RepositoryID)
	start := s.clock().Now()

	sess, err := s.SetupCredentials(ctx, cmd.APIKey, cmd.RepositoryID)
	if err != nil {
		return fmt.Errorf("setup credentials: %w", err)
	}
	log = log.With("session_path", sess.Path)
	log.Info("session open", "bucket", sess.Bucket, "timestamp", sess.Timestamp)

	if err := s.PersistRepository(ctx, sess, cmd.RootDir); err != nil {
		sess.MarkFailed()
		return fmt.Errorf("persist repository: %w", err)
	}
	if err := s.PersistScanResults(ctx, sess, cmd.Reports); err != nil {
		sess.MarkFailed()
		return fmt.Errorf("persist scan results: %w", err)
	}
	if err := s.CommitSession(ctx, sess); err != nil {
		return fmt.Errorf("commit session: %w", err)
	}

	log.Info("publish complete", "elapsed", s.clock().Now().Sub(start))
	return nil
}

// SetupCredentials exchanges the API key for a session: request the
// grant, bind a storage client to its credentials, then hold for the
// settle delay. Any failure is fatal to the run; no retry here.
func (s *Service) SetupCredentials(ctx context.Context, apiKey, repoID string) (*integration.Session, error) {
	grant, err := s.Platform.RequestCredentials(ctx, apiKey, repoID)
	if err != nil {
		return nil, err
	}
	store, err := s.NewStore(grant.Credentials)
	if err != nil {
		return nil, fmt.Errorf("construct storage client: %w", err)
	}
	sess := integration.NewSession(apiKey, repoID, grant, store)

	// Wait for the access policy to propagate. A fixed minimum wait,
	// deliberately not a poll loop.
	if err := s.settle(ctx); err != nil {
		return nil, err
	}
	return sess, nil
}

// CommitSession finalizes the session, at most once. A failed commit is
// terminal; the caller must not retry or continue.
func (s *Service) CommitSession(ctx context.Context, sess *integration.Session) error {
	if err := sess.BeginCommit(); err != nil {
		return err
	}
	if err := s.Platform.CommitSession(ctx, sess.APIKey, sess.Path); err != nil {
		sess.MarkFailed()
		return err
	}
	sess.MarkCommitted()
	return nil
}

func (s *Service) settle(ctx context.Context) error {
	if s.SettleDelay <= 0 {
		return nil
	}
	t := time.NewTimer(s.SettleDelay)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Service) clock() application.Clock {
	if s.Clock == nil {
		return application.SystemClock{}
	}
	return s.Clock
}

func (s *Service) logger() *slog.Logger {
	if s.Log == nil {
		return slog.Default()
	}
	return s.Log
}
