package prediction

import (
	"fmt"
	"strings"

	"github.com/sawdustofmind/nfe-predictor/internal/models"
)

// fixtureSnippetSize bounds how many current fixtures are quoted to the model.
const fixtureSnippetSize = 3

const SystemPrompt = `You are an expert football analyst AI. Analyze these factors for prediction:
- Last 5 matches performance for both teams
- Head-to-head statistics
- Current league position
- Injury reports and key player availability
- Home/away performance
- Recent tactical formations
- Weather conditions
- Referee statistics

Provide prediction with this EXACT format:

**Match Prediction**  
[Home Team] vs [Away Team] - [Date] [Time]  

**Predicted Winner**: [Team] (Confidence: [X]%)  

**Key Factors**:  
- Factor 1  
- Factor 2  
- Factor 3  

**Tactical Analysis**:  
[Detailed tactical breakdown]  

**Recommended Bet**: [Bet type] @ [Odds]  
Available at: [Betting Platform Links]  

**Risk Assessment**: [Risk level and explanation]  

Use bold for section headers and proper markdown formatting. Include current statistics and form.`

// FormatMatch renders a match as the prompt text sent for it.
func FormatMatch(m models.Match) string {
	kickoff := m.Kickoff.UTC()
	return fmt.Sprintf("%s vs %s on %s at %s (%s)",
		m.HomeTeam.Name,
		m.AwayTeam.Name,
		kickoff.Format("2006-01-02"),
		kickoff.Format("15:04 UTC"),
		m.Competition,
	)
}

// UserPrompt builds the per-request message: the league and the resolved
// prompt, grounded with a few current fixtures and the bookmakers the answer
// may link to.
func UserPrompt(league models.League, prompt string, fixtures []models.Match, platforms []models.BettingPlatform) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s match prediction request:\n%s", league.Name, prompt)

	if len(fixtures) > 0 {
		b.WriteString("\n\nCurrent fixtures:")
		for i, m := range fixtures {
			if i == fixtureSnippetSize {
				break
			}
			fmt.Fprintf(&b, "\n- %s [%s]", FormatMatch(m), m.Status)
			if m.Score != nil {
				fmt.Fprintf(&b, " %d-%d", m.Score.Home, m.Score.Away)
			}
		}
	}

	if len(platforms) > 0 {
		b.WriteString("\n\nBetting platforms:")
		for _, p := range platforms {
			fmt.Fprintf(&b, "\n- [%s](%s)", p.Name, p.URL)
		}
	}

	return b.String()
}
