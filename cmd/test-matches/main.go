package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/arbiterhq/arbiter/internal/testmatches"
)

// Default configuration constants.
const (
	defaultNumMatches  = 5000
	defaultPlayerRatio = 25 // matches per player when -players is not set
	defaultTamperPct   = 5
	defaultTopN        = 50
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 30 * time.Second
	defaultTestTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9080", "Base URL of the service")
		numMatches = flag.Int("matches", defaultNumMatches, "Number of matches to generate and submit")
		numPlayers = flag.Int("players", 0, "Number of distinct reporting players (default matches/25)")
		tamperPct  = flag.Int("tamper", defaultTamperPct, "Percentage of matches to tamper with")
		topN       = flag.Int("top", defaultTopN, "Number of suspect entries to fetch")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		outputFile = flag.String("output", "", "Output file for generated matches (default: generated_matches_TIMESTAMP.json)")
		logFile    = flag.String("log", "", "Log file for test output (default: test_log_TIMESTAMP.log)")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		testmatches.ShowHelp()
		return
	}

	players := *numPlayers
	if players <= 0 {
		players = *numMatches / defaultPlayerRatio
		if players < 1 {
			players = 1
		}
	}

	// Setup logging
	if err := testmatches.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	// Create test configuration
	config := &testmatches.Config{
		BaseURL:    *baseURL,
		NumMatches: *numMatches,
		NumPlayers: players,
		TamperPct:  *tamperPct,
		TopN:       *topN,
		Workers:    *workers,
		Timeout:    *timeout,
		OutputFile: *outputFile,
		LogFile:    *logFile,
		Verbose:    *verbose,
	}

	// Run the test
	if err := testmatches.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Test failed: " + err.Error() + "\n")
		return
	}
}
