package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/ecofinder/internal/meli"
)

// QuotaHandler provides the MercadoLibre API quota status endpoint.
type QuotaHandler struct {
	rl *meli.RateLimiter
}

// NewQuotaHandler creates a new QuotaHandler.
func NewQuotaHandler(rl *meli.RateLimiter) *QuotaHandler {
	return &QuotaHandler{rl: rl}
}

// QuotaOutput is the response body for the quota endpoint.
type QuotaOutput struct {
	Body struct {
		DailyLimit int64     `json:"daily_limit" example:"5000"                 doc:"Configured daily API call limit, 0 when uncapped"`
		DailyUsed  int64     `json:"daily_used"  example:"142"                  doc:"API calls used in the current 24-hour window"`
		Remaining  int64     `json:"remaining"   example:"4858"                 doc:"API calls remaining in the current window"`
		ResetAt    time.Time `json:"reset_at"    example:"2025-06-16T14:30:00Z" doc:"When the current 24-hour window expires"`
	}
}

// GetQuota returns the current MercadoLibre API quota status.
func (h *QuotaHandler) GetQuota(_ context.Context, _ *struct{}) (*QuotaOutput, error) {
	resp := &QuotaOutput{}
	if h.rl == nil {
		return resp, nil
	}

	q := h.rl.Quota()
	resp.Body.DailyLimit = q.Limit
	resp.Body.DailyUsed = q.Used
	resp.Body.Remaining = q.Remaining
	resp.Body.ResetAt = q.ResetAt

	return resp, nil
}

// RegisterQuotaRoutes registers the quota endpoint with the Huma API.
func RegisterQuotaRoutes(api huma.API, h *QuotaHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "get-quota",
		Method:      http.MethodGet,
		Path:        "/api/v1/quota",
		Summary:     "Get MercadoLibre API quota status",
		Description: "Returns the current daily API call usage, remaining quota, and window reset time.",
		Tags:        []string{"mercadolibre"},
	}, h.GetQuota)
}
