// Package verdict defines the validation outcome types shared across
// the pipeline: severities, issues, warnings, and the aggregated result.
package verdict

import "time"

// Severity classifies how damning a finding is.
type Severity string

// Severity levels, strongest first. Critical findings describe logically
// impossible data, high strongly implausible data, medium inconsistent
// secondary stats, and warning statistically unusual but possible data.
const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityWarning  Severity = "warning"
)

// Blocking reports whether a severity invalidates the match on its own.
func (s Severity) Blocking() bool {
	return s == SeverityCritical || s == SeverityHigh
}

// Issue is a concrete rule violation found in a match record.
type Issue struct {
	Code           string   `json:"code"`
	Severity       Severity `json:"severity"`
	Message        string   `json:"message"`
	ScoreDeduction float64  `json:"score_deduction"`
}

// Warning has the same shape as Issue but is non-blocking; it marks
// statistically unusual data rather than rule violations.
type Warning struct {
	Code           string   `json:"code"`
	Severity       Severity `json:"severity"`
	Message        string   `json:"message"`
	ScoreDeduction float64  `json:"score_deduction"`
}

// Result is the aggregated outcome of validating one match record.
// It is a pure function of the validator's inputs: two calls with
// identical inputs produce identical results.
type Result struct {
	IsValid   bool      `json:"is_valid"`
	Score     float64   `json:"score"`
	Issues    []Issue   `json:"issues"`
	Warnings  []Warning `json:"warnings"`
	Timestamp time.Time `json:"timestamp"`
}

// Rating score bands used only for display labeling; validity never
// depends on these thresholds.
const (
	ratingExcellent = 95
	ratingGood      = 80
	ratingFair      = 60
)

// Rating maps a fairness score to its UI label.
func Rating(score float64) string {
	switch {
	case score >= ratingExcellent:
		return "excellent"
	case score >= ratingGood:
		return "good"
	case score >= ratingFair:
		return "fair"
	default:
		return "poor"
	}
}
