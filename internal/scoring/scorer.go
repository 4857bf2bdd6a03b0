// Package scoring turns a candidate's answer into a score and feedback by asking a language model.
package scoring

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"mock-interview-service/internal/domain"
	"mock-interview-service/internal/logger"

	"go.uber.org/zap"
)

const (
	// SystemPrompt frames the model as the interviewer.
	SystemPrompt = "You are an expert interviewer evaluating communication skills. Score responses from 0-10 and provide constructive feedback."

	defaultMaxLogLength = 200
)

var (
	// ErrUnparseableScore means the model reply carried no standalone 0-10 integer.
	ErrUnparseableScore = errors.New("scorer reply has no score")
	// ErrScorerDisabled is returned by Disabled for every call.
	ErrScorerDisabled = errors.New("scorer is not configured")

	scorePattern = regexp.MustCompile(`\b(10|[0-9])\b`)
)

// Generator sends one system+user exchange to a model and returns its text reply.
type Generator interface {
	GenerateContent(ctx context.Context, system, prompt string) (string, error)
}

// LLMScorer scores answers with a Generator.
type LLMScorer struct {
	generator Generator
	logger    *zap.Logger
	maxLogLen int
}

func NewLLMScorer(generator Generator, l *zap.Logger, maxLogLength int) *LLMScorer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	return &LLMScorer{
		generator: generator,
		logger:    logger.OrNop(l),
		maxLogLen: maxLogLength,
	}
}

// Evaluate asks the model to grade answerText as a reply to questionText.
func (s *LLMScorer) Evaluate(ctx context.Context, questionText, answerText string) (domain.Evaluation, error) {
	prompt := BuildPrompt(questionText, answerText)

	s.logger.Debug("scorer request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, s.maxLogLen)),
	)

	raw, err := s.generator.GenerateContent(ctx, SystemPrompt, prompt)
	if err != nil {
		return domain.Evaluation{}, fmt.Errorf("generate evaluation: %w", err)
	}

	s.logger.Debug("scorer response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, s.maxLogLen)),
	)

	return ParseEvaluation(raw)
}

// BuildPrompt renders the user turn sent to the model.
func BuildPrompt(questionText, answerText string) string {
	return fmt.Sprintf(
		"Question: %q\nCandidate's Response: %q\n\nPlease evaluate this response and provide a score (0-10) and brief feedback. Focus on communication effectiveness, clarity, and structure.",
		strings.TrimSpace(questionText),
		strings.TrimSpace(answerText),
	)
}

// ParseEvaluation takes the first standalone integer 0-10 as the score and
// the rest of the reply, with that integer removed, as the feedback.
func ParseEvaluation(raw string) (domain.Evaluation, error) {
	loc := scorePattern.FindStringSubmatchIndex(raw)
	if loc == nil {
		return domain.Evaluation{}, ErrUnparseableScore
	}
	score, err := strconv.Atoi(raw[loc[2]:loc[3]])
	if err != nil {
		return domain.Evaluation{}, fmt.Errorf("%w: %v", ErrUnparseableScore, err)
	}
	feedback := strings.TrimSpace(raw[:loc[0]] + raw[loc[1]:])
	return domain.Evaluation{Score: score, Feedback: feedback}, nil
}

// Disabled is used when no model is configured; every answer falls back.
type Disabled struct{}

func (Disabled) Evaluate(context.Context, string, string) (domain.Evaluation, error) {
	return domain.Evaluation{}, ErrScorerDisabled
}
