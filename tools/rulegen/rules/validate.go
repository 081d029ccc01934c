package rules

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// KnownMetrics is the set of series exported by ecofinder plus the standard
// Prometheus series the rules reference. Recording rule names are added
// by Validate.
var KnownMetrics = map[string]bool{
	"ecofinder_http_request_duration_seconds": true,
	"ecofinder_http_requests_total":           true,
	"ecofinder_healthz_up":                    true,
	"ecofinder_readyz_up":                     true,

	"ecofinder_meli_api_calls_total":        true,
	"ecofinder_meli_retries_total":          true,
	"ecofinder_meli_daily_usage":            true,
	"ecofinder_meli_daily_limit_hits_total": true,

	"ecofinder_token_refreshes_total":          true,
	"ecofinder_token_expiry_timestamp_seconds": true,

	"ecofinder_pipeline_strategy_total":                 true,
	"ecofinder_pipeline_exhausted_total":                true,
	"ecofinder_pipeline_search_duration_seconds_bucket": true,
	"ecofinder_pipeline_search_duration_seconds_count":  true,

	"ecofinder_notification_failures_total": true,

	"up": true,
}

var (
	seriesRe = regexp.MustCompile(`[a-zA-Z_:][a-zA-Z0-9_:]*`)
	// Braces and quoted strings hold label matchers, not series names.
	matcherRe = regexp.MustCompile(`\{[^}]*\}|"[^"]*"|\[[^\]]*\]|\b(?:by|ignoring)\s*\([^)]*\)`)
)

var promqlWords = map[string]bool{
	"sum": true, "rate": true, "increase": true, "absent": true,
	"histogram_quantile": true, "time": true,
}

// Validate checks that every rule is well formed and references only known
// series or recording rules defined in crs.
func Validate(crs ...PrometheusRule) error {
	known := make(map[string]bool, len(KnownMetrics))
	for name := range KnownMetrics {
		known[name] = true
	}
	for _, cr := range crs {
		for _, g := range cr.Spec.Groups {
			for _, r := range g.Rules {
				if r.Record != "" {
					known[r.Record] = true
				}
			}
		}
	}

	var problems []string
	for _, cr := range crs {
		for _, g := range cr.Spec.Groups {
			for _, r := range g.Rules {
				problems = append(problems, checkRule(r, known)...)
			}
		}
	}
	if len(problems) > 0 {
		slices.Sort(problems)
		return fmt.Errorf("invalid rules:\n  %s", strings.Join(problems, "\n  "))
	}
	return nil
}

func checkRule(r Rule, known map[string]bool) []string {
	name := r.Record
	if name == "" {
		name = r.Alert
	}

	var problems []string
	switch {
	case r.Record == "" && r.Alert == "":
		problems = append(problems, fmt.Sprintf("rule %q: neither record nor alert set", r.Expr))
	case r.Record != "" && r.Alert != "":
		problems = append(problems, fmt.Sprintf("%s: both record and alert set", name))
	}
	if r.Expr == "" {
		problems = append(problems, fmt.Sprintf("%s: empty expr", name))
	}
	if r.Alert != "" && r.Labels["severity"] == "" {
		problems = append(problems, fmt.Sprintf("%s: missing severity label", name))
	}

	for _, ref := range SeriesRefs(r.Expr) {
		if !known[ref] {
			problems = append(problems, fmt.Sprintf("%s: unknown series %q", name, ref))
		}
	}
	return problems
}

// SeriesRefs returns the series and recording rule names an expression
// references.
func SeriesRefs(expr string) []string {
	stripped := matcherRe.ReplaceAllString(expr, " ")

	var refs []string
	for _, tok := range seriesRe.FindAllString(stripped, -1) {
		if promqlWords[tok] || slices.Contains(refs, tok) {
			continue
		}
		refs = append(refs, tok)
	}
	return refs
}
