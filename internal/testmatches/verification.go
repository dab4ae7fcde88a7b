package testmatches

import (
	"fmt"
	"log"
)

// verifyResults checks verdict and suspect consistency after a run.
func verifyResults(config *Config, matches []Match, verdicts []VerdictResponse, suspects []SuspectEntry, stats *Stats) error {
	log.Println("🔍 Verifying results...")

	if len(verdicts) == 0 {
		return fmt.Errorf("no verdicts to verify")
	}

	tamperedByID := make(map[string]bool, len(matches))
	for _, m := range matches {
		if m.Tampered {
			tamperedByID[m.MatchID] = true
		}
	}

	// Every tampered match must score below 100; clean matches must not
	// be flagged as invalid by the hard rules.
	var (
		tamperedSeen    int
		tamperedCaught  int
		cleanFlagged    int
		scoreOutOfRange int
	)
	for _, v := range verdicts {
		if v.Result.Score < 0 || v.Result.Score > 100 {
			scoreOutOfRange++
		}
		if tamperedByID[v.Record.MatchID] {
			tamperedSeen++
			if v.Result.Score < 100 {
				tamperedCaught++
			} else if config.Verbose {
				log.Printf("⚠️  Tampered match %s scored 100", v.Record.MatchID)
			}
		} else if !v.Result.IsValid {
			cleanFlagged++
			if config.Verbose {
				log.Printf("⚠️  Clean match %s flagged invalid (score %.1f)", v.Record.MatchID, v.Result.Score)
			}
		}
	}

	if scoreOutOfRange > 0 {
		return fmt.Errorf("%d verdicts scored outside the 0-100 range", scoreOutOfRange)
	}

	log.Printf("✅ Tampered matches caught: %d/%d", tamperedCaught, tamperedSeen)
	if cleanFlagged > 0 {
		// Statistical checks can legitimately flag clean outliers, so
		// this is informational rather than fatal.
		log.Printf("ℹ️  Clean matches flagged invalid: %d", cleanFlagged)
	}

	// Verify suspects ordering if we have suspect data
	if len(suspects) > 0 {
		if err := verifySuspectOrdering(suspects); err != nil {
			return fmt.Errorf("suspect ordering check failed: %w", err)
		}
		log.Println("✅ Suspect ordering verified")
	}

	displaySuspects(suspects, config.Verbose)

	log.Println("✅ Result verification completed")
	return nil
}

// verifySuspectOrdering checks that suspects come back worst first.
func verifySuspectOrdering(suspects []SuspectEntry) error {
	for i := 1; i < len(suspects); i++ {
		if suspects[i].Score < suspects[i-1].Score {
			return fmt.Errorf("entry %d has lower score than entry %d", i, i-1)
		}
		if suspects[i].Rank != suspects[i-1].Rank+1 {
			return fmt.Errorf("entry %d has non-consecutive rank %d", i, suspects[i].Rank)
		}
	}
	return nil
}

// displaySuspects shows the worst-scoring matches from the run.
func displaySuspects(suspects []SuspectEntry, verbose bool) {
	topN := 10
	if len(suspects) < topN {
		topN = len(suspects)
	}
	if topN == 0 {
		return
	}

	log.Printf("🔎 Top %d suspects:", topN)
	for i := 0; i < topN; i++ {
		entry := suspects[i]
		log.Printf("   %d. %s (player %s) - Score: %.1f valid=%v",
			entry.Rank, entry.MatchID, entry.PlayerID, entry.Score, entry.IsValid)
	}

	if verbose && len(suspects) > 0 {
		sum := 0.0
		for _, entry := range suspects {
			sum += entry.Score
		}
		log.Printf("📊 Average suspect score: %.1f", sum/float64(len(suspects)))
	}
}
