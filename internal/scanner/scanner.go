// Package scanner drives the concurrent probing of a credential batch:
// deduplication, bounded-concurrency scheduling of probe pipelines, and
// single-writer aggregation of the finished results.
package scanner

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/keysift/keysift/internal/core"
	"github.com/keysift/keysift/internal/tiers"
)

// DefaultMaxInFlight bounds concurrent probe pipelines unless configured.
const DefaultMaxInFlight = 20

// Pipeline runs the full per-credential probe sequence. The production
// implementation is probe.Prober; tests substitute stubs.
type Pipeline interface {
	Check(ctx context.Context, key string) core.ProbeResult
}

// Options configures a Scanner.
type Options struct {
	// MaxInFlight caps concurrently running pipelines; values below 1 fall
	// back to DefaultMaxInFlight.
	MaxInFlight int
	Logger      *zap.Logger
}

// Scanner schedules probe pipelines over a batch of credentials.
type Scanner struct {
	pipeline    Pipeline
	reg         *tiers.Registry
	maxInFlight int
	log         *zap.Logger
	runID       string
}

func New(pipeline Pipeline, reg *tiers.Registry, opts Options) *Scanner {
	maxInFlight := opts.MaxInFlight
	if maxInFlight < 1 {
		maxInFlight = DefaultMaxInFlight
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	runID := uuid.NewString()
	return &Scanner{
		pipeline:    pipeline,
		reg:         reg,
		maxInFlight: maxInFlight,
		log:         log.With(zap.String("run_id", runID)),
		runID:       runID,
	}
}

// RunID identifies this scanner's run in logs and backups.
func (s *Scanner) RunID() string { return s.runID }

// Dedupe trims and deduplicates raw input lines, dropping blanks. Each
// distinct credential is scheduled exactly once regardless of how often it
// appears in the input.
func Dedupe(keys []string) []string {
	trimmed := lo.FilterMap(keys, func(k string, _ int) (string, bool) {
		k = strings.TrimSpace(k)
		return k, k != ""
	})
	return lo.Uniq(trimmed)
}

// Scan probes every distinct credential in keys and returns the frozen
// summary once all pipelines have finished. Work is taken from the tail of
// the deduplicated list (LIFO), so completion order — the only order the
// summary reflects — has no relation to input order.
func (s *Scanner) Scan(ctx context.Context, keys []string) Summary {
	queue := Dedupe(keys)
	s.log.Info("starting scan",
		zap.Int("unique_keys", len(queue)),
		zap.Int("max_in_flight", s.maxInFlight))

	sem := make(chan struct{}, s.maxInFlight)
	results := make(chan core.ProbeResult)

	go func() {
		var wg sync.WaitGroup
		for len(queue) > 0 {
			key := queue[len(queue)-1]
			queue = queue[:len(queue)-1]

			sem <- struct{}{} // blocks while the in-flight cap is reached
			wg.Add(1)
			go func(k string) {
				defer wg.Done()
				s.log.Debug("checking key", zap.String("key", fingerprint(k)))
				res := s.pipeline.Check(ctx, k)
				<-sem
				results <- res
			}(key)
		}
		wg.Wait()
		close(results)
	}()

	agg := newAggregator(s.reg)
	scheduled := 0
	for res := range results {
		scheduled++
		s.log.Debug("pipeline finished",
			zap.String("key", fingerprint(res.Key)),
			zap.String("verdict", string(res.Verdict)),
			zap.String("tier", string(res.ProbedTier)))
		agg.add(res)
	}

	sum := agg.freeze(s.runID, scheduled)
	s.log.Info("scan complete",
		zap.Int("scheduled", sum.Scheduled),
		zap.Int("working", sum.TotalWorking()),
		zap.Int("over_quota", len(sum.OverQuota)))
	return sum
}

// fingerprint shortens a key for log lines so full credentials never land in
// diagnostic output.
func fingerprint(key string) string {
	if len(key) <= 12 {
		return "****"
	}
	return key[:8] + "..." + key[len(key)-4:]
}
