package rules

// RecordingRules returns the pre-computed rates referenced by the alert rules.
func RecordingRules() PrometheusRule {
	return newRule("ecofinder-recording-rules", RuleGroup{
		Name: "ecofinder-recording",
		Rules: []Rule{
			{
				Record: "ecofinder:http_requests:rate5m",
				Expr:   `sum(rate(ecofinder_http_requests_total[5m]))`,
			},
			{
				Record: "ecofinder:http_errors:rate5m",
				Expr:   `sum(rate(ecofinder_http_requests_total{status=~"5.."}[5m]))`,
			},
			{
				Record: "ecofinder:meli_api_calls:rate5m",
				Expr:   `sum by (endpoint) (rate(ecofinder_meli_api_calls_total[5m]))`,
			},
			{
				Record: "ecofinder:token_refresh_failures:rate15m",
				Expr:   `sum(rate(ecofinder_token_refreshes_total{result="error"}[15m]))`,
			},
			{
				Record: "ecofinder:pipeline_strategy:rate5m",
				Expr:   `sum by (strategy, outcome) (rate(ecofinder_pipeline_strategy_total[5m]))`,
			},
			{
				Record: "ecofinder:pipeline_exhausted:rate5m",
				Expr:   `rate(ecofinder_pipeline_exhausted_total[5m])`,
			},
			{
				Record: "ecofinder:pipeline_search_duration:p95_5m",
				Expr:   `histogram_quantile(0.95, sum by (le) (rate(ecofinder_pipeline_search_duration_seconds_bucket[5m])))`,
			},
		},
	})
}
