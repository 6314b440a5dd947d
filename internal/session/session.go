package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sawdustofmind/nfe-predictor/internal/fixtures"
	"github.com/sawdustofmind/nfe-predictor/internal/log"
	"github.com/sawdustofmind/nfe-predictor/internal/models"
	"github.com/sawdustofmind/nfe-predictor/internal/prediction"
)

const (
	MsgEmptyQuery   = "Please enter match details"
	MsgUnknownMatch = "Selected match is no longer available"
)

var (
	ErrEmptyQuery    = errors.New("empty query")
	ErrUnknownMatch  = errors.New("unknown match")
	ErrUnknownLeague = errors.New("unknown league")
	ErrBusy          = errors.New("a prediction is already in progress")
	// ErrSuperseded is returned when a reset or a newer lookup made the
	// result of a call irrelevant; the result was dropped.
	ErrSuperseded = errors.New("request superseded")
)

type Fixtures interface {
	// Validate asks the live provider, bypassing any cache.
	Validate(ctx context.Context, code string) fixtures.Result
	Lookup(ctx context.Context, code string) fixtures.Result
}

type Predictor interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// ProviderStatus tracks whether the live fixtures provider was validated for
// this session.
type ProviderStatus string

const (
	ProviderUnknown  ProviderStatus = "unknown"
	ProviderUsable   ProviderStatus = "usable"
	ProviderUnusable ProviderStatus = "unusable"
)

// Query is one prediction request. MatchID wins over Text; when both are
// empty the stored draft is used.
type Query struct {
	Text    string
	MatchID int
}

// Session holds the state of one user's analysis screen.
type Session struct {
	id        string
	fixtures  Fixtures
	predictor Predictor
	logger    *zap.Logger
	now       func() time.Time

	mu              sync.Mutex
	league          models.League
	matches         []models.Match
	warning         string
	provider        ProviderStatus
	messages        []models.Message
	draft           string
	lastErr         string
	predicting      bool
	loadingFixtures bool
	predictionGen   uint64
	fixtureGen      uint64
	lastSeen        time.Time
}

func New(id string, f Fixtures, p Predictor) *Session {
	s := &Session{
		id:        id,
		fixtures:  f,
		predictor: p,
		logger:    log.With(zap.String("session_id", id)),
		now:       time.Now,
		league:    models.DefaultLeague(),
		matches:   fixtures.Fallback(),
		provider:  ProviderUnknown,
	}
	s.lastSeen = s.now()
	return s
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Open performs the one lookup that decides whether the live provider is
// used for the rest of the session.
func (s *Session) Open(ctx context.Context) {
	s.mu.Lock()
	code := s.league.Code
	gen := s.beginFixtureLoad()
	s.mu.Unlock()

	res := s.fixtures.Validate(ctx, code)

	s.mu.Lock()
	defer s.mu.Unlock()
	// The provider verdict holds even if a league switch made the matches stale.
	switch {
	case res.Live:
		s.provider = ProviderUsable
	case res.Unusable:
		s.provider = ProviderUnusable
	}
	s.applyFixtures(gen, res)
	s.logger.Info("Session opened",
		zap.String("league", code),
		zap.String("provider", string(s.provider)),
		zap.Int("matches", len(s.matches)),
	)
}

// SelectLeague switches the competition. Live fixtures are fetched only when
// the provider was validated; otherwise the sample matches are shown.
func (s *Session) SelectLeague(ctx context.Context, slug string) error {
	league, ok := models.LeagueBySlug(slug)
	if !ok {
		return ErrUnknownLeague
	}

	s.mu.Lock()
	s.touch()
	s.league = league
	if s.provider != ProviderUsable {
		s.fixtureGen++
		s.loadingFixtures = false
		s.matches = fixtures.Fallback()
		if s.warning == "" {
			s.warning = fixtures.WarnUnavailable
		}
		s.mu.Unlock()
		return nil
	}
	gen := s.beginFixtureLoad()
	s.mu.Unlock()

	res := s.fixtures.Lookup(ctx, league.Code)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.applyFixtures(gen, res) {
		return ErrSuperseded
	}
	if res.Unusable {
		s.provider = ProviderUnusable
	}
	return nil
}

func (s *Session) beginFixtureLoad() uint64 {
	s.fixtureGen++
	s.loadingFixtures = true
	return s.fixtureGen
}

// applyFixtures must be called with mu held. It reports false when gen is
// stale and the result was dropped.
func (s *Session) applyFixtures(gen uint64, res fixtures.Result) bool {
	if gen != s.fixtureGen {
		s.logger.Debug("Dropping stale fixture result", zap.Uint64("generation", gen))
		return false
	}
	s.loadingFixtures = false
	s.matches = res.Matches
	s.warning = res.Warning
	return true
}

// SetDraft stores the text being typed and clears the last error.
func (s *Session) SetDraft(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.draft = text
	s.lastErr = ""
}

// Predict runs one prediction request. On success the query and the answer
// are appended together; on failure only the error string changes.
func (s *Session) Predict(ctx context.Context, q Query) error {
	s.mu.Lock()
	s.touch()
	if s.predicting {
		s.mu.Unlock()
		return ErrBusy
	}

	prompt, err := s.resolvePrompt(q)
	if err != nil {
		s.mu.Unlock()
		return err
	}

	s.predicting = true
	s.lastErr = ""
	s.predictionGen++
	gen := s.predictionGen
	user := prediction.UserPrompt(s.league, prompt, s.matches, models.BettingPlatforms())
	league := s.league.Code
	s.mu.Unlock()

	start := s.now()
	text, err := s.predictor.Complete(ctx, prediction.SystemPrompt, user)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.predictionGen {
		s.logger.Info("Dropping stale prediction", zap.Uint64("generation", gen))
		return ErrSuperseded
	}
	s.predicting = false

	if err != nil {
		s.lastErr = describeError(err)
		s.logger.Error("Prediction failed",
			zap.String("league", league),
			zap.Duration("elapsed", s.now().Sub(start)),
			zap.Error(err),
		)
		return err
	}

	s.messages = append(s.messages,
		models.Message{Role: models.RoleUser, Text: prompt},
		models.Message{Role: models.RoleResponse, Text: text},
	)
	s.draft = ""
	s.logger.Info("Prediction appended",
		zap.String("league", league),
		zap.Duration("elapsed", s.now().Sub(start)),
		zap.Int("messages", len(s.messages)),
	)
	return nil
}

// resolvePrompt must be called with mu held. Rejections set the error string.
func (s *Session) resolvePrompt(q Query) (string, error) {
	if q.MatchID != 0 {
		for _, m := range s.matches {
			if m.ID == q.MatchID {
				return prediction.FormatMatch(m), nil
			}
		}
		s.lastErr = MsgUnknownMatch
		return "", ErrUnknownMatch
	}

	prompt := strings.TrimSpace(q.Text)
	if prompt == "" {
		prompt = strings.TrimSpace(s.draft)
	}
	if prompt == "" {
		s.lastErr = MsgEmptyQuery
		return "", ErrEmptyQuery
	}
	return prompt, nil
}

// Reset starts a new analysis. Any prediction still in flight is discarded
// when it returns.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.messages = nil
	s.lastErr = ""
	s.predicting = false
	s.predictionGen++
}

func (s *Session) touch() {
	s.lastSeen = s.now()
}

// describeError turns a provider error into the text shown to the user.
func describeError(err error) string {
	var apiErr *prediction.APIError
	switch {
	case errors.Is(err, prediction.ErrNoAPIKey):
		return "Prediction API key not configured"
	case errors.As(err, &apiErr):
		return "Prediction API error: " + apiErr.Message
	case errors.Is(err, prediction.ErrMalformedResponse):
		return "Invalid response format from prediction API"
	case errors.Is(err, context.DeadlineExceeded):
		return "Prediction request timed out. Please try again."
	default:
		return "Prediction failed. Please try again."
	}
}
