package core

import "strings"

// Tier is a named service capability level (e.g. "gpt-4"). Tiers are ranked;
// the ranking lives in the tiers.Registry, not here.
type Tier string

// Verdict is the outcome of probing a single credential.
type Verdict string

const (
	// VerdictWorking means the service authenticated the key and rejected the
	// probe on request validation or rate limiting — both only happen for
	// live, quota-bearing keys.
	VerdictWorking Verdict = "WORKING"
	// VerdictInvalid means the service refused the key outright.
	VerdictInvalid Verdict = "INVALID"
	// VerdictQuotaExhausted means the key authenticated but is out of quota,
	// billing-blocked, or terminated.
	VerdictQuotaExhausted Verdict = "QUOTA_EXHAUSTED"
	// VerdictUnreachable covers transport failures and unrecognized response
	// shapes. The key is not retried this run.
	VerdictUnreachable Verdict = "UNREACHABLE"
)

// LimitClass classifies a probed rate limit against the tier baseline.
type LimitClass string

const (
	LimitTrial    LimitClass = "trial"    // probed limit below baseline
	LimitStandard LimitClass = "standard" // probed limit equals baseline
	LimitElevated LimitClass = "elevated" // probed limit above baseline
	LimitUnknown  LimitClass = "unknown"  // limit header absent
)

// AnonymousOrg is the organization marker used when the service returns no
// organization header for a key.
const AnonymousOrg = "user-anonymous"

// NotableOrg reports whether an organization identifier is worth surfacing,
// i.e. it is not the service's default personal-account naming.
func NotableOrg(org string) bool {
	return org != "" && !strings.HasPrefix(org, "user-")
}

// ProbeResult is the immutable record produced when the probe pipeline
// finishes for one credential.
type ProbeResult struct {
	Key     string
	Verdict Verdict

	// Tiers the key is authorized for, in the order the service listed them.
	Tiers []Tier
	// ProbedTier is the tier the completion probe ran against; empty when the
	// pipeline stopped before probing.
	ProbedTier Tier
	// RateLimit holds the probed requests-per-minute limit keyed by tier.
	// Only the probed tier ever has an entry; a nil value means the limit
	// header was absent.
	RateLimit map[Tier]*int
	// Organization is the owning-organization identifier from the probe
	// response, or AnonymousOrg when the service sent none.
	Organization string

	// Class is assigned by the aggregator from RateLimit vs. baseline.
	Class LimitClass

	// Raw holds redacted response headers from the completion probe when the
	// run is verbose; nil otherwise.
	Raw map[string]string
}

// Working reports whether the key proved usable.
func (r ProbeResult) Working() bool { return r.Verdict == VerdictWorking }

// OverQuota reports whether the key authenticated but cannot spend.
func (r ProbeResult) OverQuota() bool { return r.Verdict == VerdictQuotaExhausted }

// ProbedLimit returns the rate limit measured for the probed tier, or nil
// when it is unknown.
func (r ProbeResult) ProbedLimit() *int {
	if r.RateLimit == nil {
		return nil
	}
	return r.RateLimit[r.ProbedTier]
}
