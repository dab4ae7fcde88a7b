package testmatches

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/arbiterhq/arbiter/pkg/logger"
	"github.com/google/uuid"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
	matchIDDivisor     = 10000
	scoreShapeDivisor  = 8
	tamperKindDivisor  = 6
)

// Constants for score generation.
const (
	maxPlausibleGoals = 5
	drawChanceDivisor = 5
)

// Constants for match duration (minutes).
const (
	baseDuration      = 88
	durationJitter    = 12
	tamperedDuration  = 400
	tamperedHomeGoals = 80
)

// Constants for timestamp spread.
const (
	maxAgeDays   = 60
	hoursPerDay  = 24
	futureOffset = 48 * time.Hour
)

// Tamper kinds.
const (
	tamperResultMismatch = 0
	tamperInflatedGoals  = 1
	tamperNegativeScore  = 2
	tamperAbsurdDuration = 3
	tamperFutureMatch    = 4
	tamperExcessiveScore = 5
)

// getRandomInt returns a random int in [0, n) using crypto/rand.
func getRandomInt(n int64) int64 {
	v, _ := rand.Int(rand.Reader, big.NewInt(n))
	return v.Int64()
}

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// generateMatches creates the specified number of match reports across a
// pool of reporting players, tampering with a configured share of them.
func generateMatches(ctx context.Context, config *Config, stats *Stats) ([]Match, error) {
	logger.Get().Info(ctx, "generating matches",
		logger.Int("numMatches", config.NumMatches),
		logger.Int("numPlayers", config.NumPlayers),
		logger.Int("tamperPct", config.TamperPct))

	// Pre-allocate the player pool so every player accumulates history
	playerIDs := make([]string, config.NumPlayers)
	for i := range playerIDs {
		playerIDs[i] = uuid.New().String()
	}

	matches := make([]Match, config.NumMatches)

	type matchResult struct {
		index int
		match Match
		err   error
	}

	resultChan := make(chan matchResult, config.NumMatches)

	// Use worker pool for match generation
	workerCount := minInt(config.Workers, config.NumMatches)
	matchesPerWorker := config.NumMatches / workerCount

	for worker := 0; worker < workerCount; worker++ {
		start := worker * matchesPerWorker
		end := start + matchesPerWorker
		if worker == workerCount-1 {
			end = config.NumMatches // Last worker gets remaining matches
		}

		go func(start, end int) {
			for i := start; i < end; i++ {
				select {
				case <-ctx.Done():
					resultChan <- matchResult{index: i, err: ctx.Err()}
					return
				default:
					playerID := playerIDs[int(getRandomInt(int64(len(playerIDs))))]
					match := generateSingleMatch(i, playerID)
					if int(getRandomInt(PercentageMultiplier)) < config.TamperPct {
						tamperMatch(&match)
					}
					resultChan <- matchResult{index: i, match: match, err: nil}
				}
			}
		}(start, end)
	}

	// Collect results
	tampered := 0
	for i := 0; i < config.NumMatches; i++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled during match generation: %w", ctx.Err())
		case result := <-resultChan:
			if result.err != nil {
				return nil, fmt.Errorf("failed to generate match %d: %w", result.index, result.err)
			}
			matches[result.index] = result.match
			if result.match.Tampered {
				tampered++
			}
		}
	}

	stats.MatchesGenerated = len(matches)
	stats.MatchesTampered = tampered
	logger.Get().Info(ctx, "generated matches successfully",
		logger.Int("count", len(matches)),
		logger.Int("tampered", tampered))

	return matches, nil
}

// generateSingleMatch creates one internally consistent match report.
func generateSingleMatch(index int, playerID string) Match {
	homeScore := generateGoals()
	awayScore := generateGoals()

	// Nudge some matches into draws so the outcome mix is realistic
	if getRandomInt(drawChanceDivisor) == 0 {
		awayScore = homeScore
	}

	result := "draw"
	switch {
	case homeScore > awayScore:
		result = "home_win"
	case homeScore < awayScore:
		result = "away_win"
	}

	playerGoals := 0
	if homeScore > 0 {
		playerGoals = int(getRandomInt(int64(homeScore + 1)))
	}
	playerAssists := 0
	if homeScore-playerGoals > 0 {
		playerAssists = int(getRandomInt(int64(homeScore - playerGoals + 1)))
	}

	duration := baseDuration + int(getRandomInt(durationJitter))

	// Spread timestamps over the recent past
	ageHours := getRandomInt(maxAgeDays * hoursPerDay)
	playedAt := time.Now().UTC().Add(-time.Duration(ageHours) * time.Hour)

	randNum := getRandomInt(matchIDDivisor)
	matchID := "match_" + strconv.FormatInt(int64(index), 10) + "_" + strconv.FormatInt(time.Now().Unix(), 10) + "_" + strconv.FormatInt(randNum, 10)

	return Match{
		MatchID:       matchID,
		HomeTeam:      "team_" + playerID[:8],
		AwayTeam:      "opponents_" + strconv.FormatInt(getRandomInt(matchIDDivisor), 10),
		HomeScore:     homeScore,
		AwayScore:     awayScore,
		Result:        result,
		PlayerID:      playerID,
		PlayerGoals:   playerGoals,
		PlayerAssists: playerAssists,
		DurationMin:   duration,
		PlayedAt:      playedAt.Format(time.RFC3339),
	}
}

// generateGoals returns a team score skewed toward low values.
func generateGoals() int {
	switch getRandomInt(scoreShapeDivisor) {
	case 0, 1, 2:
		return int(getRandomInt(2)) // 0-1, most common
	case 3, 4, 5:
		return 2 + int(getRandomInt(2)) // 2-3
	default:
		return 4 + int(getRandomInt(maxPlausibleGoals-3)) // 4-5, rare
	}
}

// tamperMatch corrupts one aspect of an otherwise consistent report.
func tamperMatch(m *Match) {
	m.Tampered = true

	switch getRandomInt(tamperKindDivisor) {
	case tamperResultMismatch:
		if m.HomeScore > m.AwayScore {
			m.Result = "away_win"
		} else {
			m.Result = "home_win"
		}
	case tamperInflatedGoals:
		m.PlayerGoals = m.HomeScore + 1 + int(getRandomInt(3))
	case tamperNegativeScore:
		m.AwayScore = -1
		// keep the declared result; the mismatch is part of the corruption
	case tamperAbsurdDuration:
		m.DurationMin = tamperedDuration
	case tamperFutureMatch:
		m.PlayedAt = time.Now().UTC().Add(futureOffset).Format(time.RFC3339)
	case tamperExcessiveScore:
		m.HomeScore = tamperedHomeGoals
	}
}

// minInt returns the minimum of two integers.
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
