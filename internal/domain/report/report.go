// Package report renders a validation result as a human-readable text
// block. Rendering is pure formatting: it never mutates its input and
// is safe to call any number of times or skip entirely.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/arbiterhq/arbiter/internal/domain/model"
	"github.com/arbiterhq/arbiter/internal/domain/verdict"
)

// Render formats the result for one match record as an ordered text
// block: summary line, score and rating, then bulleted issues and
// warnings.
func Render(rec model.MatchRecord, res verdict.Result) string {
	var b strings.Builder

	status := "VALID"
	if !res.IsValid {
		status = "SUSPICIOUS"
	}

	fmt.Fprintf(&b, "Match %s: %s %d-%d %s (%s), reported by %s\n",
		rec.MatchID, rec.HomeTeam, rec.HomeScore, rec.AwayScore, rec.AwayTeam, rec.Outcome, rec.PlayerID)
	fmt.Fprintf(&b, "Verdict: %s\n", status)
	fmt.Fprintf(&b, "Fairness score: %.0f/100 (%s)\n", res.Score, verdict.Rating(res.Score))
	fmt.Fprintf(&b, "Validated at: %s\n", res.Timestamp.Format(time.RFC3339))

	if len(res.Issues) > 0 {
		fmt.Fprintf(&b, "\nIssues (%d):\n", len(res.Issues))
		for _, issue := range res.Issues {
			fmt.Fprintf(&b, "  - [%s] %s: %s (-%.0f)\n", issue.Severity, issue.Code, issue.Message, issue.ScoreDeduction)
		}
	}

	if len(res.Warnings) > 0 {
		fmt.Fprintf(&b, "\nWarnings (%d):\n", len(res.Warnings))
		for _, warning := range res.Warnings {
			fmt.Fprintf(&b, "  - [%s] %s: %s (-%.0f)\n", warning.Severity, warning.Code, warning.Message, warning.ScoreDeduction)
		}
	}

	if len(res.Issues) == 0 && len(res.Warnings) == 0 {
		b.WriteString("\nNo findings.\n")
	}

	return b.String()
}
