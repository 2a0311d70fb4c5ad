// Package report turns a frozen scan summary into console and file output.
// All classification happened upstream; this package only renders.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/keysift/keysift/internal/core"
	"github.com/keysift/keysift/internal/scanner"
)

// Reporter renders a scan summary. The console stream and the output
// directory are both fixed at construction.
type Reporter struct {
	out io.Writer
	dir string
}

func New(out io.Writer, dir string) *Reporter {
	return &Reporter{out: out, dir: dir}
}

// Render prints the per-key details and the per-tier totals to the console
// stream. Buckets display least capable first, mirroring how the service
// lists its tiers.
func (r *Reporter) Render(sum scanner.Summary) {
	for i := len(sum.Buckets) - 1; i >= 0; i-- {
		for _, res := range sum.Buckets[i].Results {
			fmt.Fprint(r.out, renderKey(res))
		}
	}

	fmt.Fprintf(r.out, "\n%s\n", totalStyle.Render(fmt.Sprintf("Total good keys: %d", sum.TotalWorking())))
	for i := len(sum.Buckets) - 1; i >= 0; i-- {
		b := sum.Buckets[i]
		if len(b.Results) == 0 {
			continue
		}
		fmt.Fprintf(r.out, "%s\n", subtextStyle.Render(
			fmt.Sprintf("Number of good keys for %s: %d", b.Tier, len(b.Results))))
	}
	if n := len(sum.OverQuota); n > 0 {
		fmt.Fprintf(r.out, "%s\n", subtextStyle.Render(
			fmt.Sprintf("Keys over quota: %d", n)))
	}
}

func renderKey(res core.ProbeResult) string {
	var b strings.Builder
	b.WriteString(dimStyle.Render("---") + "\n")
	b.WriteString(keyStyle.Render(res.Key) + "\n")

	for _, t := range res.Tiers {
		if t == res.ProbedTier {
			b.WriteString(modelStyle.Render(
				fmt.Sprintf("  - %s (RPM: %s)", t, limitText(res.ProbedLimit()))) + "\n")
		} else {
			b.WriteString(modelStyle.Render(fmt.Sprintf("  - %s", t)) + "\n")
		}
	}

	switch res.Class {
	case core.LimitTrial:
		b.WriteString(trialStyle.Render("  - !trial key!") + "\n")
	case core.LimitElevated:
		b.WriteString(elevatedStyle.Render(
			fmt.Sprintf("  - elevated limit: %s RPM", limitText(res.ProbedLimit()))) + "\n")
	}

	if core.NotableOrg(res.Organization) {
		b.WriteString(orgStyle.Render(fmt.Sprintf("Org: %s", res.Organization)) + "\n")
	}

	b.WriteString(dimStyle.Render("---") + "\n\n")
	return b.String()
}

func limitText(limit *int) string {
	if limit == nil {
		return "unknown"
	}
	return strconv.Itoa(*limit)
}

// fileLine is the plain-text form written to the per-tier result files:
// the key followed by its annotations, if any.
func fileLine(res core.ProbeResult) string {
	var addons []string
	if core.NotableOrg(res.Organization) {
		addons = append(addons, fmt.Sprintf("org '%s'", res.Organization))
	}
	switch res.Class {
	case core.LimitTrial:
		addons = append(addons, "trial")
	case core.LimitElevated:
		addons = append(addons, fmt.Sprintf("elevated RPM %s", limitText(res.ProbedLimit())))
	}

	if len(addons) == 0 {
		return res.Key
	}
	return res.Key + " (" + strings.Join(addons, ", ") + ")"
}
