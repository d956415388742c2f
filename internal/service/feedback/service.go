package feedback

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/salaryrep/backend/internal/model/feedback"
	"github.com/salaryrep/backend/internal/model/negotiation"
	"github.com/salaryrep/backend/internal/model/scenario"
	"github.com/salaryrep/backend/internal/service/ai"
)

var (
	ErrGenerationFailed     = errors.New("feedback generation failed")
	ErrEvaluationInFlight   = errors.New("an evaluation is already in flight for this session")
	ErrGeneratorUnavailable = errors.New("feedback generation unavailable")
	ErrEmptyTranscript      = errors.New("transcript is empty")
)

// Generator is the model boundary for the evaluation call. It returns the raw
// model output; shape validation happens here, not at the boundary.
type Generator interface {
	GenerateFeedback(ctx context.Context, evaluationPrompt string) (string, error)
}

// Service evaluates ended sessions. At most one evaluation runs per session at
// a time, and a session that has been evaluated successfully keeps its result:
// repeated requests return the stored result without another model call.
type Service struct {
	mu       sync.Mutex
	inFlight map[string]bool
	results  map[string]feedback.Result
	gen      Generator
	logger   *zap.Logger
}

// NewService wires the evaluation boundary. gen may be nil, in which case
// Evaluate fails with ErrGeneratorUnavailable.
func NewService(gen Generator, logger *zap.Logger) *Service {
	return &Service{
		inFlight: make(map[string]bool),
		results:  make(map[string]feedback.Result),
		gen:      gen,
		logger:   logger,
	}
}

// Evaluate runs the coach prompt over the frozen transcript and validates the
// structured result. A malformed response is reported the same way as a
// transport failure; nothing partial is ever returned.
func (s *Service) Evaluate(ctx context.Context, sessionID string, sc scenario.Descriptor, transcript []negotiation.Turn) (feedback.Result, error) {
	if s.gen == nil {
		return feedback.Result{}, ErrGeneratorUnavailable
	}
	if len(transcript) == 0 {
		return feedback.Result{}, ErrEmptyTranscript
	}

	s.mu.Lock()
	if result, ok := s.results[sessionID]; ok {
		s.mu.Unlock()
		return result, nil
	}
	if s.inFlight[sessionID] {
		s.mu.Unlock()
		return feedback.Result{}, ErrEvaluationInFlight
	}
	s.inFlight[sessionID] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.inFlight, sessionID)
		s.mu.Unlock()
	}()

	raw, err := s.gen.GenerateFeedback(ctx, ai.BuildFeedbackPrompt(sc, transcript))
	if err != nil {
		s.logger.Warn("feedback generation failed",
			zap.String("session", sessionID),
			zap.Error(err))
		return feedback.Result{}, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	payload, err := extractJSONObject(raw)
	if err != nil {
		return feedback.Result{}, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	result, err := feedback.Parse([]byte(payload))
	if err != nil {
		s.logger.Warn("feedback result rejected",
			zap.String("session", sessionID),
			zap.Error(err))
		return feedback.Result{}, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	s.mu.Lock()
	s.results[sessionID] = result
	s.mu.Unlock()

	s.logger.Info("feedback produced",
		zap.String("session", sessionID),
		zap.Int("score", result.OverallScore))
	return result, nil
}

// Result returns the stored evaluation for a session, if one succeeded.
func (s *Service) Result(sessionID string) (feedback.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result, ok := s.results[sessionID]
	return result, ok
}

// extractJSONObject pulls the outermost JSON object out of the model output,
// tolerating prose or code fences around it.
func extractJSONObject(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start == -1 || end == -1 || end <= start {
		return "", fmt.Errorf("missing json object")
	}
	return trimmed[start : end+1], nil
}
