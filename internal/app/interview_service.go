package app

import (
	"context"
	"fmt"

	"mock-interview-service/internal/bank"
	"mock-interview-service/internal/domain"
	"mock-interview-service/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionRepository abstracts where live sessions are kept (in-memory, Redis-aware, etc).
type SessionRepository interface {
	Put(session *Session)
	Get(sessionID string) (*Session, bool)
	Delete(sessionID string)
}

// CatalogRepository loads question catalogs (from cache/backing store).
type CatalogRepository interface {
	GetCatalog(ctx context.Context, catalogID string) (domain.Catalog, error)
}

// InterviewService hosts many independent interview sessions.
type InterviewService struct {
	sessions SessionRepository
	catalogs CatalogRepository
	scorer   Scorer
	cfg      SessionConfig
	logger   *zap.Logger
	newID    func() string
}

func NewInterviewService(store SessionRepository, catalogs CatalogRepository, scorer Scorer, cfg SessionConfig) *InterviewService {
	cfg = cfg.withDefaults()
	return &InterviewService{
		sessions: store,
		catalogs: catalogs,
		scorer:   scorer,
		cfg:      cfg,
		logger:   logger.OrNop(cfg.Logger),
		newID:    uuid.NewString,
	}
}

// Create opens a session over the given catalog and starts it.
func (s *InterviewService) Create(ctx context.Context, catalogID string) (domain.Snapshot, error) {
	if catalogID == "" {
		catalogID = bank.DefaultCatalogID
	}
	catalog, err := s.catalogs.GetCatalog(ctx, catalogID)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("load catalog %q: %w", catalogID, err)
	}

	session := NewSession(s.newID(), bank.New(catalog.Questions), s.scorer, s.cfg)
	snap, err := session.Start()
	if err != nil {
		return domain.Snapshot{}, err
	}
	s.sessions.Put(session)
	s.logger.Debug("session created", zap.String(logger.FieldSession, session.ID()), zap.String("catalog_id", catalogID))
	return snap, nil
}

// Get returns the current snapshot of a session.
func (s *InterviewService) Get(_ context.Context, sessionID string) (domain.Snapshot, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return domain.Snapshot{}, err
	}
	return session.Snapshot(), nil
}

// Submit scores an answer and returns it together with the resulting snapshot.
func (s *InterviewService) Submit(ctx context.Context, sessionID string, submission domain.AnswerSubmission) (domain.Response, domain.Snapshot, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return domain.Response{}, domain.Snapshot{}, err
	}
	response, err := session.Submit(ctx, submission)
	if err != nil {
		return domain.Response{}, session.Snapshot(), err
	}
	return response, session.Snapshot(), nil
}

// Restart re-samples questions and discards all progress.
func (s *InterviewService) Restart(_ context.Context, sessionID string) (domain.Snapshot, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return domain.Snapshot{}, err
	}
	return session.Restart()
}

// StartTimer arms the countdown for the current question.
func (s *InterviewService) StartTimer(_ context.Context, sessionID string) (domain.Snapshot, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return domain.Snapshot{}, err
	}
	if err := session.StartTimer(); err != nil {
		return session.Snapshot(), err
	}
	return session.Snapshot(), nil
}

// ResetTimer stops the countdown and restores the full limit.
func (s *InterviewService) ResetTimer(_ context.Context, sessionID string) (domain.Snapshot, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return domain.Snapshot{}, err
	}
	if err := session.ResetTimer(); err != nil {
		return session.Snapshot(), err
	}
	return session.Snapshot(), nil
}

// SetPresence records whether the candidate is visible on camera.
func (s *InterviewService) SetPresence(_ context.Context, sessionID string, visible bool) (domain.Snapshot, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return domain.Snapshot{}, err
	}
	return session.SetPresence(visible), nil
}

// Results summarizes a session's responses.
func (s *InterviewService) Results(_ context.Context, sessionID string) (domain.Results, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return domain.Results{}, err
	}
	return session.Results(), nil
}

// Subscribe returns a channel that receives snapshots for a session.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *InterviewService) Subscribe(_ context.Context, sessionID string) (<-chan domain.Snapshot, func(), error) {
	session, err := s.session(sessionID)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := session.Subscribe()
	return ch, cancel, nil
}

// End stops a session and forgets it.
func (s *InterviewService) End(_ context.Context, sessionID string) error {
	session, err := s.session(sessionID)
	if err != nil {
		return err
	}
	session.Close()
	s.sessions.Delete(sessionID)
	s.cfg.Metrics.IncrementSessionsEnded()
	return nil
}

func (s *InterviewService) session(sessionID string) (*Session, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}
