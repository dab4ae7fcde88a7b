package testmatches

import "time"

// Config holds configuration for the match submission test
type Config struct {
	BaseURL    string        // Base URL of the service
	NumMatches int           // Number of matches to generate
	NumPlayers int           // Number of distinct reporting players
	TamperPct  int           // Percentage of matches to tamper with
	TopN       int           // Number of suspect entries to fetch
	Workers    int           // Number of concurrent workers
	Timeout    time.Duration // HTTP request timeout
	OutputFile string        // Output file for matches
	LogFile    string        // Log file for test output
	Verbose    bool          // Enable verbose logging
}

// Match represents a match submission
type Match struct {
	MatchID       string `json:"match_id"`
	HomeTeam      string `json:"home_team"`
	AwayTeam      string `json:"away_team"`
	HomeScore     int    `json:"home_score"`
	AwayScore     int    `json:"away_score"`
	Result        string `json:"result"`
	PlayerID      string `json:"player_id"`
	PlayerGoals   int    `json:"player_goals"`
	PlayerAssists int    `json:"player_assists"`
	DurationMin   int    `json:"duration_min"`
	PlayedAt      string `json:"played_at"`

	// Tampered marks matches that were deliberately corrupted before
	// submission. Not part of the wire format.
	Tampered bool `json:"-"`
}

// SuspectEntry represents one entry from the suspects listing
type SuspectEntry struct {
	Rank     int     `json:"rank"`
	MatchID  string  `json:"match_id"`
	PlayerID string  `json:"player_id"`
	Score    float64 `json:"score"`
	IsValid  bool    `json:"is_valid"`
}

// VerdictResult is the validation outcome inside a stored verdict
type VerdictResult struct {
	IsValid bool    `json:"is_valid"`
	Score   float64 `json:"score"`
}

// VerdictResponse represents the response from a verdict lookup
type VerdictResponse struct {
	Record Match         `json:"record"`
	Result VerdictResult `json:"result"`
}

// AckResponse represents the response from match submission
type AckResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// Stats holds test statistics
type Stats struct {
	MatchesGenerated  int
	MatchesTampered   int
	MatchesSubmitted  int
	MatchesSuccessful int
	MatchesDuplicate  int
	MatchesFailed     int
	VerdictsRetrieved int
	VerdictsFlagged   int
	SuspectEntries    int
	StartTime         time.Time
	EndTime           time.Time
	Duration          time.Duration
}
