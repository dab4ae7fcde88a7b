package testmatches

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// retrieveVerdicts fetches verdicts for all submitted matches concurrently.
func retrieveVerdicts(ctx context.Context, config *Config, matches []Match, stats *Stats) ([]VerdictResponse, error) {
	log.Printf("⚖️  Retrieving verdicts for %d matches with %d workers...", len(matches), config.Workers)

	client := newHTTPClient(config.Timeout)

	// Results storage
	verdicts := make([]VerdictResponse, len(matches))
	var (
		retrieved int64
		failed    int64
	)

	// Progress reporting
	var lastReport time.Time
	reportInterval := 1 * time.Second

	// Create worker pool
	indexChan := make(chan int, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	// Start workers
	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for index := range indexChan {
				select {
				case <-ctx.Done():
					return
				default:
					matchID := matches[index].MatchID
					verdict, err := retrieveSingleVerdict(ctx, client, config.BaseURL, matchID)

					if err != nil {
						atomic.AddInt64(&failed, 1)
						if config.Verbose {
							log.Printf("⚠️  Failed to get verdict for %s: %v", matchID, err)
						}
					} else {
						verdicts[index] = verdict
						atomic.AddInt64(&retrieved, 1)
					}

					// Progress reporting
					if time.Since(lastReport) >= reportInterval {
						lastReport = time.Now()
						total := atomic.LoadInt64(&retrieved) + atomic.LoadInt64(&failed)
						ret := atomic.LoadInt64(&retrieved)
						fail := atomic.LoadInt64(&failed)

						log.Printf("⚖️  Verdicts: %d/%d retrieved (success: %d, failed: %d)",
							total, len(matches), ret, fail)
					}
				}
			}
		}()
	}

	// Send match indices to workers
	go func() {
		defer close(indexChan)
		for i := range matches {
			select {
			case <-ctx.Done():
				return
			case indexChan <- i:
			}
		}
	}()

	// Wait for all workers to complete
	wg.Wait()

	// Filter out empty entries (failed retrievals)
	validVerdicts := make([]VerdictResponse, 0, len(verdicts))
	flagged := 0
	for _, v := range verdicts {
		if v.Record.MatchID == "" { // Empty MatchID indicates failed retrieval
			continue
		}
		validVerdicts = append(validVerdicts, v)
		if !v.Result.IsValid {
			flagged++
		}
	}

	// Update stats
	stats.VerdictsRetrieved = len(validVerdicts)
	stats.VerdictsFlagged = flagged

	log.Printf(`✅ Verdict retrieval completed:
   Retrieved: %d
   Flagged: %d
   Failed: %d
`, len(validVerdicts), flagged, int(atomic.LoadInt64(&failed)))

	return validVerdicts, nil
}

// retrieveSingleVerdict fetches the verdict for a single match.
func retrieveSingleVerdict(ctx context.Context, client *HTTPClient, baseURL, matchID string) (VerdictResponse, error) {
	url := fmt.Sprintf("%s/verdicts/%s", baseURL, matchID)

	resp, err := client.Get(ctx, url)
	if err != nil {
		return VerdictResponse{}, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode != StatusOK {
		body, _ := readResponseBody(resp)
		return VerdictResponse{}, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return VerdictResponse{}, fmt.Errorf("failed to read response: %w", err)
	}

	var verdict VerdictResponse
	if err := unmarshalJSON(body, &verdict); err != nil {
		return VerdictResponse{}, fmt.Errorf("failed to parse response: %w", err)
	}

	return verdict, nil
}

// getSuspects retrieves the top N suspect entries.
func getSuspects(ctx context.Context, config *Config, stats *Stats) ([]SuspectEntry, error) {
	log.Printf("🔎 Getting top %d suspect entries...", config.TopN)

	client := newHTTPClient(config.Timeout)
	url := fmt.Sprintf("%s/suspects?limit=%d", config.BaseURL, config.TopN)

	resp, err := client.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode != StatusOK {
		body, _ := readResponseBody(resp)
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var suspects []SuspectEntry
	if err := unmarshalJSON(body, &suspects); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	stats.SuspectEntries = len(suspects)
	log.Printf("✅ Retrieved %d suspect entries", len(suspects))

	return suspects, nil
}
