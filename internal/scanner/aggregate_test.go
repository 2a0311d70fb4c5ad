package scanner

import (
	"testing"

	"github.com/keysift/keysift/internal/core"
	"github.com/keysift/keysift/internal/tiers"
)

func TestClassifyAgainstBaseline(t *testing.T) {
	agg := newAggregator(tiers.NewRegistry())

	tests := []struct {
		name  string
		tier  core.Tier
		limit *int
		want  core.LimitClass
	}{
		{name: "below baseline is trial", tier: "gpt-3.5-turbo", limit: intPtr(150), want: core.LimitTrial},
		{name: "equal baseline is standard", tier: "gpt-4", limit: intPtr(200), want: core.LimitStandard},
		{name: "above baseline is elevated", tier: "gpt-4", limit: intPtr(1000), want: core.LimitElevated},
		{name: "absent limit is unknown", tier: "gpt-4", limit: nil, want: core.LimitUnknown},
		{name: "zero limit is trial", tier: "gpt-4-32k", limit: intPtr(0), want: core.LimitTrial},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := working("sk-x", tt.tier, tt.limit)
			if got := agg.classify(res); got != tt.want {
				t.Fatalf("classify() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAddIgnoresNonWorkingVerdicts(t *testing.T) {
	agg := newAggregator(tiers.NewRegistry())

	agg.add(core.ProbeResult{Key: "sk-invalid", Verdict: core.VerdictInvalid})
	agg.add(core.ProbeResult{Key: "sk-unreachable", Verdict: core.VerdictUnreachable})
	agg.add(core.ProbeResult{Key: "sk-quota", Verdict: core.VerdictQuotaExhausted})

	sum := agg.freeze("run", 3)
	if got := sum.TotalWorking(); got != 0 {
		t.Fatalf("TotalWorking() = %d, want 0", got)
	}
	if len(sum.OverQuota) != 1 {
		t.Fatalf("OverQuota = %d entries, want 1", len(sum.OverQuota))
	}
}

func TestFreezeEmitsBucketsMostCapableFirst(t *testing.T) {
	agg := newAggregator(tiers.NewRegistry())
	agg.add(working("sk-a", "gpt-3.5-turbo", intPtr(3500)))

	sum := agg.freeze("run", 1)

	if len(sum.Buckets) != 3 {
		t.Fatalf("Buckets = %d, want 3", len(sum.Buckets))
	}
	if sum.Buckets[0].Tier != "gpt-4-32k" || sum.Buckets[2].Tier != "gpt-3.5-turbo" {
		t.Fatalf("bucket order = [%s %s %s]", sum.Buckets[0].Tier, sum.Buckets[1].Tier, sum.Buckets[2].Tier)
	}
	if sum.Buckets[2].Baseline != 3500 {
		t.Fatalf("turbo baseline = %d, want 3500", sum.Buckets[2].Baseline)
	}
	if len(sum.Buckets[2].Results) != 1 {
		t.Fatalf("turbo bucket has %d results, want 1", len(sum.Buckets[2].Results))
	}
}

func TestFreezeAssignsClassOnAppend(t *testing.T) {
	agg := newAggregator(tiers.NewRegistry())
	agg.add(working("sk-a", "gpt-4", intPtr(40)))

	sum := agg.freeze("run", 1)
	for _, b := range sum.Buckets {
		if b.Tier != "gpt-4" {
			continue
		}
		if b.Results[0].Class != core.LimitTrial {
			t.Fatalf("Class = %q, want trial", b.Results[0].Class)
		}
		return
	}
	t.Fatal("gpt-4 bucket missing")
}
