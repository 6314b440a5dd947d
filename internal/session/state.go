package session

import "github.com/sawdustofmind/nfe-predictor/internal/models"

// State is a point-in-time copy of a session for rendering.
type State struct {
	ID              string           `json:"id"`
	League          models.League    `json:"league"`
	Matches         []models.Match   `json:"matches"`
	FixtureWarning  string           `json:"fixture_warning,omitempty"`
	FixtureProvider ProviderStatus   `json:"fixture_provider"`
	LoadingFixtures bool             `json:"loading_fixtures"`
	Messages        []models.Message `json:"messages"`
	Draft           string           `json:"draft"`
	Error           string           `json:"error,omitempty"`
	Predicting      bool             `json:"predicting"`
}

func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	matches := make([]models.Match, len(s.matches))
	copy(matches, s.matches)
	messages := make([]models.Message, len(s.messages))
	copy(messages, s.messages)

	return State{
		ID:              s.id,
		League:          s.league,
		Matches:         matches,
		FixtureWarning:  s.warning,
		FixtureProvider: s.provider,
		LoadingFixtures: s.loadingFixtures,
		Messages:        messages,
		Draft:           s.draft,
		Error:           s.lastErr,
		Predicting:      s.predicting,
	}
}
