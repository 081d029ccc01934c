package rules

// AlertRules returns the operational alerts for ecofinder.
func AlertRules() PrometheusRule {
	return newRule("ecofinder-alerts", RuleGroup{
		Name: "ecofinder-alerts",
		Rules: []Rule{
			{
				Alert:  "EcofinderDown",
				Expr:   `absent(up{job="ecofinder"})`,
				For:    "2m",
				Labels: map[string]string{"severity": "critical"},
				Annotations: map[string]string{
					"summary":     "ecofinder is down",
					"description": "The ecofinder job has been absent for more than 2 minutes.",
				},
			},
			{
				Alert:  "EcofinderReadinessDown",
				Expr:   `ecofinder_readyz_up == 0`,
				For:    "2m",
				Labels: map[string]string{"severity": "critical"},
				Annotations: map[string]string{
					"summary":     "ecofinder readiness check is failing",
					"description": "The credential store has been unreachable for more than 2 minutes.",
				},
			},
			{
				Alert:  "EcofinderHighErrorRate",
				Expr:   `ecofinder:http_errors:rate5m / ecofinder:http_requests:rate5m > 0.05`,
				For:    "5m",
				Labels: map[string]string{"severity": "warning"},
				Annotations: map[string]string{
					"summary":     "High HTTP error rate on ecofinder",
					"description": "More than 5% of HTTP requests are returning 5xx errors over the last 5 minutes.",
				},
			},
			{
				Alert:  "EcofinderTokenRefreshFailing",
				Expr:   `ecofinder:token_refresh_failures:rate15m > 0`,
				For:    "15m",
				Labels: map[string]string{"severity": "critical"},
				Annotations: map[string]string{
					"summary":     "MercadoLibre token refresh is failing",
					"description": "Refresh attempts have failed for 15 minutes. The refresh token may be revoked; run `ecofinder refresh-token` with new credentials.",
				},
			},
			{
				Alert:  "EcofinderTokenExpiringSoon",
				Expr:   `ecofinder_token_expiry_timestamp_seconds - time() < 600`,
				For:    "5m",
				Labels: map[string]string{"severity": "warning"},
				Annotations: map[string]string{
					"summary":     "MercadoLibre access token expires in under 10 minutes",
					"description": "The keep-alive refresh has not renewed the access token.",
				},
			},
			{
				Alert:  "EcofinderSearchesExhausted",
				Expr:   `sum(ecofinder:pipeline_exhausted:rate5m) / sum(rate(ecofinder_pipeline_search_duration_seconds_count[5m])) > 0.5`,
				For:    "10m",
				Labels: map[string]string{"severity": "warning"},
				Annotations: map[string]string{
					"summary":     "Most searches are exhausting every strategy",
					"description": "More than half of searches returned no results after all fallbacks for 10 minutes.",
				},
			},
			{
				Alert:  "EcofinderMeliLimitReached",
				Expr:   `increase(ecofinder_meli_daily_limit_hits_total[5m]) > 0`,
				For:    "0m",
				Labels: map[string]string{"severity": "critical"},
				Annotations: map[string]string{
					"summary":     "MercadoLibre daily call budget has been reached",
					"description": "Outbound MercadoLibre calls are being refused until the rolling window frees up.",
				},
			},
			{
				Alert:  "EcofinderNotificationFailures",
				Expr:   `increase(ecofinder_notification_failures_total[5m]) > 0`,
				For:    "1m",
				Labels: map[string]string{"severity": "warning"},
				Annotations: map[string]string{
					"summary":     "Notification delivery failures detected",
					"description": "One or more auth notifications (Discord webhooks) have failed to send.",
				},
			},
		},
	})
}
