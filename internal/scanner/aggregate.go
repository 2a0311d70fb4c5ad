package scanner

import (
	"github.com/samber/lo"

	"github.com/keysift/keysift/internal/core"
	"github.com/keysift/keysift/internal/tiers"
)

// aggregator collects finished probe results into per-tier buckets. It is
// owned by the single consumer loop in Scan; nothing else ever writes to it,
// which is the whole concurrency story for aggregation.
type aggregator struct {
	reg       *tiers.Registry
	buckets   map[core.Tier][]core.ProbeResult
	overQuota []core.ProbeResult
}

func newAggregator(reg *tiers.Registry) *aggregator {
	return &aggregator{
		reg:     reg,
		buckets: make(map[core.Tier][]core.ProbeResult),
	}
}

// add files one completed result. Working results are classified against the
// tier baseline and appended to the bucket of their probed tier; quota-
// exhausted keys are kept separately; everything else is dropped.
func (a *aggregator) add(res core.ProbeResult) {
	switch {
	case res.Working():
		res.Class = a.classify(res)
		a.buckets[res.ProbedTier] = append(a.buckets[res.ProbedTier], res)
	case res.OverQuota():
		a.overQuota = append(a.overQuota, res)
	}
}

func (a *aggregator) classify(res core.ProbeResult) core.LimitClass {
	limit := res.ProbedLimit()
	if limit == nil {
		return core.LimitUnknown
	}
	baseline, ok := a.reg.Baseline(res.ProbedTier)
	if !ok {
		return core.LimitUnknown
	}
	switch delta := *limit - baseline; {
	case delta < 0:
		return core.LimitTrial
	case delta > 0:
		return core.LimitElevated
	default:
		return core.LimitStandard
	}
}

// freeze produces the immutable run summary: one bucket per registry tier,
// most capable first, in completion order within each bucket.
func (a *aggregator) freeze(runID string, scheduled int) Summary {
	sum := Summary{
		RunID:     runID,
		Scheduled: scheduled,
		OverQuota: a.overQuota,
	}
	for _, t := range a.reg.Order() {
		baseline, _ := a.reg.Baseline(t)
		sum.Buckets = append(sum.Buckets, TierBucket{
			Tier:     t,
			Baseline: baseline,
			Results:  a.buckets[t],
		})
	}
	return sum
}

// TierBucket is the per-tier slice of working results exposed to reporting.
type TierBucket struct {
	Tier     core.Tier
	Baseline int
	Results  []core.ProbeResult
}

// Summary is the frozen, read-only outcome of one scan run. The reporter
// consumes it as-is and performs no further classification.
type Summary struct {
	RunID string
	// Scheduled is the number of distinct credentials actually probed.
	Scheduled int
	// Buckets holds one entry per tracked tier, most capable first, including
	// empty ones so reporting stays positional.
	Buckets   []TierBucket
	OverQuota []core.ProbeResult
}

// TotalWorking counts working keys across all tiers.
func (s Summary) TotalWorking() int {
	return lo.SumBy(s.Buckets, func(b TierBucket) int { return len(b.Results) })
}
