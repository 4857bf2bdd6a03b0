package app

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"mock-interview-service/internal/countdown"
	"mock-interview-service/internal/domain"
	"mock-interview-service/internal/logger"
	"mock-interview-service/internal/metrics"

	"go.uber.org/zap"
)

const (
	DefaultQuestionsPerSession = 5
	DefaultTimeLimit           = 120
	DefaultTick                = time.Second
)

// QuestionSampler draws the ordered question sequence for one interview.
type QuestionSampler interface {
	Sample(count int) ([]domain.Question, error)
}

// Scorer grades one answer. Errors are absorbed by the session's fallback.
type Scorer interface {
	Evaluate(ctx context.Context, questionText, answerText string) (domain.Evaluation, error)
}

// SessionConfig tunes a session. Zero values pick the defaults.
type SessionConfig struct {
	Questions int
	TimeLimit int
	Tick      time.Duration
	Tickers   countdown.TickerFactory
	Clock     func() time.Time
	Logger    *zap.Logger
	Metrics   *metrics.Metrics
}

func (c SessionConfig) withDefaults() SessionConfig {
	if c.Questions <= 0 {
		c.Questions = DefaultQuestionsPerSession
	}
	if c.TimeLimit <= 0 {
		c.TimeLimit = DefaultTimeLimit
	}
	if c.Tick <= 0 {
		c.Tick = DefaultTick
	}
	if c.Tickers == nil {
		c.Tickers = countdown.RealTicker
	}
	if c.Clock == nil {
		c.Clock = time.Now
	}
	c.Logger = logger.OrNop(c.Logger)
	return c
}

// Session is one candidate's interview: question progression, countdown,
// scoring and completion. All state changes happen under mu; the scoring
// call runs outside it, guarded by the evaluating flag and the round.
type Session struct {
	id        string
	sampler   QuestionSampler
	scorer    Scorer
	cfg       SessionConfig
	countdown *countdown.Countdown
	logger    *zap.Logger
	now       func() time.Time

	mu          sync.RWMutex
	state       domain.State
	questions   []domain.Question
	responses   []domain.Response
	index       int
	totalScore  int
	evaluating  bool
	visible     bool
	round       uint64
	closed      bool
	startedAt   time.Time
	completedAt *time.Time
	updatedAt   time.Time
	subscribers map[chan domain.Snapshot]struct{}
}

type pendingAnswer struct {
	question domain.Question
	text     string
	round    uint64
	expired  bool
}

// NewSession builds a session in the NotStarted state.
func NewSession(id string, sampler QuestionSampler, scorer Scorer, cfg SessionConfig) *Session {
	cfg = cfg.withDefaults()
	s := &Session{
		id:          id,
		sampler:     sampler,
		scorer:      scorer,
		cfg:         cfg,
		logger:      logger.WithSession(cfg.Logger, id),
		now:         cfg.Clock,
		state:       domain.StateNotStarted,
		questions:   []domain.Question{},
		responses:   []domain.Response{},
		visible:     true,
		subscribers: make(map[chan domain.Snapshot]struct{}),
	}
	s.countdown = countdown.New(cfg.TimeLimit, cfg.Tick, cfg.Tickers, s.onTick)
	s.updatedAt = s.now()
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Start samples a fresh question sequence and resets all progress. It is
// valid from any state. An answer still being scored from the previous
// round is discarded when its score arrives.
func (s *Session) Start() (domain.Snapshot, error) {
	questions, err := s.sampler.Sample(s.cfg.Questions)
	if err != nil {
		return s.Snapshot(), fmt.Errorf("sample questions: %w", err)
	}
	if len(questions) == 0 {
		return s.Snapshot(), domain.ErrCatalogEmpty
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.countdown.Reset()
	s.state = domain.StateInProgress
	s.questions = questions
	s.responses = make([]domain.Response, 0, len(questions))
	s.index = 0
	s.totalScore = 0
	s.evaluating = false
	s.round++
	s.startedAt = now
	s.completedAt = nil
	s.updatedAt = now

	s.cfg.Metrics.IncrementSessionsStarted()
	s.logger.Info("interview started", zap.Int("questions", len(questions)))
	return s.broadcastLocked(), nil
}

// Restart is Start under the name the results screen uses.
func (s *Session) Restart() (domain.Snapshot, error) {
	return s.Start()
}

// SubmitAnswer answers whatever question is current.
func (s *Session) SubmitAnswer(ctx context.Context, text string) (domain.Response, error) {
	return s.Submit(ctx, domain.AnswerSubmission{Text: text})
}

// Submit stops the countdown, scores the answer and advances the interview.
// It blocks until the scorer responds; scorer failures are replaced by the
// fallback evaluation. Rejections leave the session untouched.
func (s *Session) Submit(ctx context.Context, submission domain.AnswerSubmission) (domain.Response, error) {
	s.mu.Lock()
	pending, err := s.beginLocked(submission, false)
	s.mu.Unlock()
	if err != nil {
		return domain.Response{}, err
	}
	// scoring is never cancelled mid-call; a dropped client must not lose the answer
	return s.complete(context.WithoutCancel(ctx), pending)
}

// StartTimer arms the countdown for the current question from the full limit.
func (s *Session) StartTimer() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != domain.StateInProgress {
		return domain.ErrNotInProgress
	}
	if s.evaluating {
		return domain.ErrSubmissionInFlight
	}
	s.startCountdownLocked()
	s.updatedAt = s.now()
	s.broadcastLocked()
	return nil
}

// ResetTimer stops the countdown and restores the full limit.
func (s *Session) ResetTimer() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != domain.StateInProgress {
		return domain.ErrNotInProgress
	}
	s.countdown.Reset()
	s.updatedAt = s.now()
	s.broadcastLocked()
	return nil
}

// SetPresence records whether the candidate is in the camera view.
func (s *Session) SetPresence(visible bool) domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.visible != visible {
		s.visible = visible
		s.updatedAt = s.now()
		if !visible {
			s.logger.Info("candidate left the camera view")
		}
	}
	return s.broadcastLocked()
}

// Snapshot returns a consistent copy of the session.
func (s *Session) Snapshot() domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Results summarizes the responses collected so far.
func (s *Session) Results() domain.Results {
	return Summarize(s.Snapshot())
}

// Subscribe returns a channel of snapshots, primed with the current one.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *Session) Subscribe() (<-chan domain.Snapshot, func()) {
	ch := make(chan domain.Snapshot, 8)

	s.mu.Lock()
	if s.closed {
		ch <- s.snapshotLocked()
		close(ch)
		s.mu.Unlock()
		return ch, func() {}
	}
	s.subscribers[ch] = struct{}{}
	// the buffer is still empty, so this cannot block and no broadcast can get ahead of it
	ch <- s.snapshotLocked()
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

// Close stops the countdown and releases every subscriber.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.round++
	s.countdown.Reset()
	for ch := range s.subscribers {
		delete(s.subscribers, ch)
		close(ch)
	}
}

func (s *Session) beginLocked(submission domain.AnswerSubmission, expired bool) (pendingAnswer, error) {
	if s.state != domain.StateInProgress {
		return pendingAnswer{}, domain.ErrNotInProgress
	}
	if s.evaluating {
		return pendingAnswer{}, domain.ErrSubmissionInFlight
	}
	question := s.questions[s.index]
	if submission.QuestionID != 0 && submission.QuestionID != question.ID {
		return pendingAnswer{}, domain.ErrQuestionMismatch
	}
	text := strings.TrimSpace(submission.Text)
	if !expired {
		if text == "" {
			return pendingAnswer{}, domain.ErrEmptyAnswer
		}
		if !s.visible {
			return pendingAnswer{}, domain.ErrCandidateNotVisible
		}
	}

	s.countdown.Stop()
	s.evaluating = true
	s.updatedAt = s.now()
	s.broadcastLocked()

	return pendingAnswer{question: question, text: text, round: s.round, expired: expired}, nil
}

func (s *Session) complete(ctx context.Context, p pendingAnswer) (domain.Response, error) {
	eval, fallback := s.evaluate(ctx, p)

	s.mu.Lock()
	defer s.mu.Unlock()

	if p.round != s.round {
		s.logger.Info("discarding score for a restarted interview", zap.Int("question_id", p.question.ID))
		return domain.Response{}, domain.ErrSessionReset
	}

	now := s.now()
	response := domain.Response{
		QuestionID: p.question.ID,
		Text:       p.text,
		Score:      eval.Score,
		Feedback:   eval.Feedback,
		Fallback:   fallback,
		AnsweredAt: now,
	}
	s.responses = append(s.responses, response)
	s.totalScore += response.Score
	s.evaluating = false
	s.round++
	s.updatedAt = now
	s.cfg.Metrics.IncrementAnswerScored(fallback)

	if s.index == len(s.questions)-1 {
		s.state = domain.StateCompleted
		s.completedAt = &now
		s.countdown.Reset()
		s.cfg.Metrics.IncrementSessionsCompleted()
		s.logger.Info("interview completed", zap.Int("total_score", s.totalScore))
	} else {
		s.index++
		s.startCountdownLocked()
	}

	s.broadcastLocked()
	return response, nil
}

func (s *Session) evaluate(ctx context.Context, p pendingAnswer) (domain.Evaluation, bool) {
	eval, err := s.scorer.Evaluate(ctx, p.question.Text, p.text)
	if err != nil {
		s.logger.Warn("scorer failed, using fallback score",
			zap.Int("question_id", p.question.ID),
			zap.Error(err),
		)
		eval = domain.Evaluation{Score: domain.FallbackScore, Feedback: domain.FallbackFeedback}
		return clampEvaluation(eval, p.question.MaxScore), true
	}
	return clampEvaluation(eval, p.question.MaxScore), false
}

func clampEvaluation(eval domain.Evaluation, maxScore int) domain.Evaluation {
	if maxScore <= 0 {
		maxScore = domain.DefaultMaxScore
	}
	if eval.Score < 0 {
		eval.Score = 0
	}
	if eval.Score > maxScore {
		eval.Score = maxScore
	}
	return eval
}

// startCountdownLocked arms the countdown for the current round only.
func (s *Session) startCountdownLocked() {
	round := s.round
	s.countdown.Start(func() { s.expire(round) })
}

// expire submits the time-expired answer unless the round already moved on.
func (s *Session) expire(round uint64) {
	s.mu.Lock()
	if s.round != round || s.state != domain.StateInProgress || s.evaluating {
		s.mu.Unlock()
		return
	}
	pending, err := s.beginLocked(domain.AnswerSubmission{Text: domain.TimeExpiredAnswer}, true)
	s.mu.Unlock()
	if err != nil {
		return
	}

	s.cfg.Metrics.IncrementCountdownExpiries()
	s.logger.Info("countdown expired", zap.Int("question_id", pending.question.ID))
	if _, err := s.complete(context.Background(), pending); err != nil {
		s.logger.Debug("expired answer discarded", zap.Int("question_id", pending.question.ID), zap.Error(err))
	}
}

func (s *Session) onTick(int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.subscribers) > 0 {
		s.broadcastLocked()
	}
}

func (s *Session) broadcastLocked() domain.Snapshot {
	snap := s.snapshotLocked()
	for ch := range s.subscribers {
		select {
		case ch <- snap:
		default:
			// drop the oldest pending snapshot so a slow reader never blocks the session
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
	return snap
}

func (s *Session) snapshotLocked() domain.Snapshot {
	questions := make([]domain.Question, len(s.questions))
	copy(questions, s.questions)
	responses := make([]domain.Response, len(s.responses))
	copy(responses, s.responses)

	progress := 0
	if len(questions) > 0 {
		progress = len(responses) * 100 / len(questions)
	}

	var completedAt *time.Time
	if s.completedAt != nil {
		t := *s.completedAt
		completedAt = &t
	}

	return domain.Snapshot{
		SessionID:    s.id,
		State:        s.state,
		CurrentIndex: s.index,
		Questions:    questions,
		Responses:    responses,
		Complete:     s.state == domain.StateCompleted,
		TotalScore:   s.totalScore,
		Evaluating:   s.evaluating,
		Visible:      s.visible,
		Progress:     progress,
		Countdown: domain.Countdown{
			Remaining: s.countdown.Remaining(),
			Limit:     s.countdown.Limit(),
			Running:   s.countdown.Running(),
		},
		Transcript:  transcript(s.state, questions, responses, s.index),
		StartedAt:   s.startedAt,
		CompletedAt: completedAt,
		UpdatedAt:   s.updatedAt,
	}
}

func transcript(state domain.State, questions []domain.Question, responses []domain.Response, index int) []domain.TranscriptLine {
	lines := make([]domain.TranscriptLine, 0, 2*len(responses)+1)
	for i, r := range responses {
		if i < len(questions) {
			lines = append(lines, domain.TranscriptLine{Speaker: domain.SpeakerInterviewer, Text: questions[i].Text})
		}
		lines = append(lines, domain.TranscriptLine{Speaker: domain.SpeakerCandidate, Text: r.Text})
	}
	if state == domain.StateInProgress && index < len(questions) {
		lines = append(lines, domain.TranscriptLine{Speaker: domain.SpeakerInterviewer, Text: questions[index].Text})
	}
	return lines
}
