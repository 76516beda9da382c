// Package service provides the core quiz engine service that implements the
// dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/whichracket/advisor/internal/adapters/feed"
	"github.com/whichracket/advisor/internal/adapters/repository"
	"github.com/whichracket/advisor/internal/domain/catalog"
	"github.com/whichracket/advisor/internal/domain/match"
	"github.com/whichracket/advisor/internal/domain/profile"
	"github.com/whichracket/advisor/internal/domain/style"
	"github.com/whichracket/advisor/internal/domain/types"
	"github.com/whichracket/advisor/pkg/logger"
	"github.com/whichracket/advisor/pkg/metrics"
)

// Service owns the catalog, the matching engine, the style classifier, and
// the live quiz sessions.
type Service struct {
	mu sync.RWMutex

	// Input data
	items     []catalog.Item
	questions []feed.Question

	// Core components, built on Start
	store      *catalog.Store
	engine     *match.Engine
	classifier *style.Classifier
	sessions   repository.Store

	// Configuration
	topK                 int
	focusCount           int
	effectScale          float64
	styleHybridThreshold float64
	styleDisplayRange    float64
	sessionCapacity      int
	sessionShardCount    int

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithCatalogItems sets the ingested catalog feed.
func WithCatalogItems(items []catalog.Item) Option {
	return func(s *Service) {
		s.items = items
	}
}

// WithQuestions sets the question feed served to the UI.
func WithQuestions(questions []feed.Question) Option {
	return func(s *Service) {
		s.questions = questions
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTopK sets the default number of recommendations returned.
func WithTopK(k int) Option {
	return func(s *Service) {
		if k > 0 {
			s.topK = k
		}
	}
}

// WithFocusCount sets the attribute focus count for strength/weakness modes.
func WithFocusCount(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.focusCount = n
		}
	}
}

// WithEffectScale sets the factor applied to every answer effect delta.
func WithEffectScale(scale float64) Option {
	return func(s *Service) {
		if scale > 0 {
			s.effectScale = scale
		}
	}
}

// WithStyleHybridThreshold sets the hybrid classification threshold.
func WithStyleHybridThreshold(t float64) Option {
	return func(s *Service) {
		if t >= 0 {
			s.styleHybridThreshold = t
		}
	}
}

// WithStyleDisplayRange sets the symmetric style intensity display range.
func WithStyleDisplayRange(m float64) Option {
	return func(s *Service) {
		if m > 0 {
			s.styleDisplayRange = m
		}
	}
}

// WithSessionCapacity bounds the number of live sessions.
func WithSessionCapacity(capacity int) Option {
	return func(s *Service) {
		if capacity > 0 {
			s.sessionCapacity = capacity
		}
	}
}

// WithSessionShardCount sets the session store shard count.
func WithSessionShardCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.sessionShardCount = count
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		topK:                 3,
		focusCount:           3,
		effectScale:          1.0,
		styleHybridThreshold: 3,
		styleDisplayRange:    16,
		sessionCapacity:      10_000,
		sessionShardCount:    8,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start builds the catalog store, matching engine, style classifier, and
// session store. The baseline is computed here, once, before any session can
// exist.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting quiz engine service...")

	s.store = catalog.NewStore(s.items)
	s.engine = match.NewEngine(s.store,
		match.WithTopK(s.topK),
		match.WithFocusCount(s.focusCount),
	)
	s.classifier = style.NewClassifier(profile.Styles,
		style.WithHybridThreshold(s.styleHybridThreshold),
		style.WithDisplayRange(s.styleDisplayRange),
	)
	s.sessions = repository.NewShardedStore(ctx,
		repository.WithCapacity(s.sessionCapacity),
		repository.WithShardCount(s.sessionShardCount),
	)

	metrics.UpdateCatalogItems(s.store.Len())

	s.started = true
	s.logger.Info(ctx, "quiz engine service started",
		logger.Int("catalogItems", s.store.Len()),
		logger.Int("questions", len(s.questions)),
		logger.Int("sessionCapacity", s.sessionCapacity),
	)
	return nil
}

// Stop shuts the service down. Sessions are in-memory only and simply
// dropped.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "quiz engine service stopped")
}

// StartSession creates a new session with a profile initialized from the
// catalog baseline.
func (s *Service) StartSession(ctx context.Context) (types.SessionState, error) {
	if err := s.ensureStarted(); err != nil {
		return types.SessionState{}, err
	}

	acc := profile.NewAccumulator(s.store.Baseline(),
		profile.WithEffectScale(s.effectScale),
	)
	sess := repository.NewSession(uuid.NewString(), acc)
	if err := s.sessions.Put(ctx, sess); err != nil {
		return types.SessionState{}, fmt.Errorf("register session: %w", err)
	}

	metrics.RecordSessionStarted()
	s.logger.Debug(ctx, "session started", logger.String("sessionID", sess.ID))
	return s.state(sess.ID, 0), nil
}

// Session returns the progress summary for a session.
func (s *Service) Session(ctx context.Context, id string) (types.SessionState, error) {
	sess, err := s.lookup(ctx, id)
	if err != nil {
		return types.SessionState{}, err
	}
	var depth int
	sess.With(func(acc *profile.Accumulator) { depth = acc.Depth() })
	return s.state(id, depth), nil
}

// EndSession removes a session.
func (s *Service) EndSession(ctx context.Context, id string) error {
	if err := s.ensureStarted(); err != nil {
		return err
	}
	if !s.sessions.Delete(ctx, id) {
		return repository.ErrNotFound
	}
	return nil
}

// ResetSession restarts the quiz in place: history dropped, profile
// re-initialized from the baseline, session ID kept.
func (s *Service) ResetSession(ctx context.Context, id string) (types.SessionState, error) {
	sess, err := s.lookup(ctx, id)
	if err != nil {
		return types.SessionState{}, err
	}
	sess.With(func(acc *profile.Accumulator) { acc.Reset() })
	s.logger.Debug(ctx, "session reset", logger.String("sessionID", id))
	return s.state(id, 0), nil
}

// SubmitAnswer records an answered question and applies its effects to the
// session profile. Unknown effect keys inside the map are ignored.
func (s *Service) SubmitAnswer(ctx context.Context, id string, questionIndex int, effects map[string]float64) (types.SessionState, error) {
	sess, err := s.lookup(ctx, id)
	if err != nil {
		return types.SessionState{}, err
	}
	if questionIndex < 0 || (len(s.questions) > 0 && questionIndex >= len(s.questions)) {
		return types.SessionState{}, fmt.Errorf("%w: index %d", ErrBadQuestionIndex, questionIndex)
	}

	var depth int
	sess.With(func(acc *profile.Accumulator) {
		acc.Apply(profile.AnswerEvent{
			QuestionIndex: questionIndex,
			Effect:        effects,
		})
		depth = acc.Depth()
	})

	metrics.RecordAnswerApplied()
	return s.state(id, depth), nil
}

// UndoAnswer removes the most recent answer and rebuilds the profile by
// replaying the remaining history. Undoing an empty history is a no-op.
func (s *Service) UndoAnswer(ctx context.Context, id string) (types.SessionState, error) {
	sess, err := s.lookup(ctx, id)
	if err != nil {
		return types.SessionState{}, err
	}

	var depth int
	var undone bool
	sess.With(func(acc *profile.Accumulator) {
		undone = acc.Back()
		depth = acc.Depth()
	})

	if undone {
		metrics.RecordAnswerUndone()
	}
	return s.state(id, depth), nil
}

// Profile returns a read-only snapshot of the session profile.
func (s *Service) Profile(ctx context.Context, id string) (profile.Profile, error) {
	sess, err := s.lookup(ctx, id)
	if err != nil {
		return profile.Profile{}, err
	}
	var snap profile.Profile
	sess.With(func(acc *profile.Accumulator) { snap = acc.Snapshot() })
	return snap, nil
}

// Recommend ranks the catalog against the session profile under mode.
func (s *Service) Recommend(ctx context.Context, id string, mode match.Mode, limit int) ([]types.Recommendation, error) {
	sess, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	var snap profile.Profile
	sess.With(func(acc *profile.Accumulator) { snap = acc.Snapshot() })

	start := time.Now()
	ranked := s.engine.Rank(snap, mode, limit)
	metrics.RecordRecommendation(mode.String(), float64(time.Since(start).Microseconds())/1000)
	return ranked, nil
}

// StyleLabel classifies the session's play style.
func (s *Service) StyleLabel(ctx context.Context, id string) (types.StyleLabel, error) {
	sess, err := s.lookup(ctx, id)
	if err != nil {
		return types.StyleLabel{}, err
	}

	var snap profile.Profile
	sess.With(func(acc *profile.Accumulator) { snap = acc.Snapshot() })

	label := s.classifier.Classify(snap.Styles)
	kind := "single"
	if label.Hybrid {
		kind = "hybrid"
	}
	metrics.RecordStyleClassification(kind)
	return label, nil
}

// Questions returns the question feed for the UI collaborator.
func (s *Service) Questions(_ context.Context) []feed.Question {
	return s.questions
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":   s.started,
		"topK":      s.topK,
		"questions": len(s.questions),
	}
	if s.started {
		stats["catalogItems"] = s.store.Len()
		stats["activeSessions"] = s.sessions.Count(context.Background())
	}
	return stats
}

func (s *Service) ensureStarted() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

func (s *Service) lookup(ctx context.Context, id string) (*repository.Session, error) {
	if err := s.ensureStarted(); err != nil {
		return nil, err
	}
	return s.sessions.Get(ctx, id)
}

func (s *Service) state(id string, answered int) types.SessionState {
	return types.SessionState{
		ID:             id,
		Answered:       answered,
		QuestionsTotal: len(s.questions),
	}
}
