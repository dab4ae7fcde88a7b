package verdict

// Issue codes emitted by the rule validator.
const (
	CodeNegativeScore        = "NEGATIVE_SCORE"
	CodeExcessiveScore       = "EXCESSIVE_SCORE"
	CodeResultMismatch       = "RESULT_MISMATCH"
	CodePlayerGoalsExceed    = "PLAYER_GOALS_EXCEED_TEAM_SCORE"
	CodeExcessivePlayerGoals = "EXCESSIVE_PLAYER_GOALS"
	CodeExcessiveAssists     = "EXCESSIVE_PLAYER_ASSISTS"
	CodeNegativeStats        = "NEGATIVE_STATS"
	CodeInvalidDuration      = "INVALID_DURATION"
	CodeFutureMatch          = "FUTURE_MATCH"
	CodeStaleMatch           = "STALE_MATCH"
	CodePossessionMismatch   = "POSSESSION_SUM_MISMATCH"
	CodeInvalidPassAccuracy  = "INVALID_PASS_ACCURACY"
	CodeNegativeTeamStats    = "NEGATIVE_TEAM_STATS"
)

// Warning codes emitted by the rule validator and the anomaly detector.
const (
	CodeVeryShortMatch  = "VERY_SHORT_MATCH"
	CodeVeryLongMatch   = "VERY_LONG_MATCH"
	CodeAnomalyGoals    = "ANOMALY_GOALS"
	CodeAnomalyAssists  = "ANOMALY_ASSISTS"
	CodeAnomalyDuration = "ANOMALY_DURATION"
	CodeUnlikelyStreak  = "UNLIKELY_STREAK"
	CodeFormReversal    = "FORM_REVERSAL"
)

// Weight is one row of the scoring rubric: the severity a code carries
// and the points it removes from the fairness score.
type Weight struct {
	Severity  Severity
	Deduction float64
}

// catalog is the declarative scoring rubric keyed by code. Severity and
// deduction live here, not in rule logic, so the rubric can be tuned and
// tested independently of the checks that emit the codes.
var catalog = map[string]Weight{
	CodeNegativeScore:        {SeverityCritical, 25},
	CodeResultMismatch:       {SeverityCritical, 25},
	CodePlayerGoalsExceed:    {SeverityCritical, 25},
	CodeFutureMatch:          {SeverityCritical, 25},
	CodeNegativeStats:        {SeverityCritical, 22},
	CodeInvalidDuration:      {SeverityCritical, 20},
	CodeExcessiveScore:       {SeverityHigh, 15},
	CodeExcessivePlayerGoals: {SeverityHigh, 12},
	CodeExcessiveAssists:     {SeverityHigh, 10},
	CodeStaleMatch:           {SeverityHigh, 10},
	CodePossessionMismatch:   {SeverityMedium, 6},
	CodeInvalidPassAccuracy:  {SeverityMedium, 6},
	CodeNegativeTeamStats:    {SeverityMedium, 5},

	CodeUnlikelyStreak:  {SeverityWarning, 7},
	CodeAnomalyGoals:    {SeverityWarning, 6},
	CodeAnomalyAssists:  {SeverityWarning, 5},
	CodeFormReversal:    {SeverityWarning, 5},
	CodeAnomalyDuration: {SeverityWarning, 4},
	CodeVeryShortMatch:  {SeverityWarning, 4},
	CodeVeryLongMatch:   {SeverityWarning, 3},
}

// DefaultWeights returns a copy of the scoring rubric so callers can
// tune it without mutating the package default.
func DefaultWeights() map[string]Weight {
	out := make(map[string]Weight, len(catalog))
	for code, w := range catalog {
		out[code] = w
	}
	return out
}

// Lookup returns the rubric row for a code, or a zero Weight when the
// code is unknown.
func Lookup(code string) (Weight, bool) {
	w, ok := catalog[code]
	return w, ok
}

// NewIssue builds an Issue for a cataloged code, filling in its severity
// and deduction from the rubric.
func NewIssue(code, message string) Issue {
	w := catalog[code]
	return Issue{Code: code, Severity: w.Severity, Message: message, ScoreDeduction: w.Deduction}
}

// NewWarning builds a Warning for a cataloged code.
func NewWarning(code, message string) Warning {
	w := catalog[code]
	return Warning{Code: code, Severity: SeverityWarning, Message: message, ScoreDeduction: w.Deduction}
}
