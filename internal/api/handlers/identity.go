package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/ecofinder/internal/meli"
)

// IdentityClient resolves the account behind the configured credential.
type IdentityClient interface {
	Me(ctx context.Context) (*meli.User, error)
}

// IdentityHandler checks that the MercadoLibre credential works end to end.
type IdentityHandler struct {
	client IdentityClient
	log    *slog.Logger
}

// NewIdentityHandler creates a new IdentityHandler.
func NewIdentityHandler(client IdentityClient, log *slog.Logger) *IdentityHandler {
	return &IdentityHandler{client: client, log: log}
}

// IdentityBody is the JSON body of the identity check.
type IdentityBody struct {
	OK    bool       `json:"ok"`
	User  *meli.User `json:"user,omitempty"`
	Error string     `json:"error,omitempty"`
}

// IdentityOutput is the response of the identity check.
type IdentityOutput struct {
	Status int
	Body   IdentityBody
}

// Health calls users/me with the current access token.
func (h *IdentityHandler) Health(ctx context.Context, _ *struct{}) (*IdentityOutput, error) {
	out := &IdentityOutput{Status: http.StatusOK}

	user, err := h.client.Me(ctx)
	if err != nil {
		h.log.Error("identity check failed", "err", err)
		out.Status = http.StatusBadGateway
		out.Body.Error = err.Error()
		return out, nil
	}

	out.Body.OK = true
	out.Body.User = user
	return out, nil
}

// RegisterIdentityRoutes registers the identity check with the Huma API.
func RegisterIdentityRoutes(api huma.API, h *IdentityHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "ml-health",
		Method:      http.MethodGet,
		Path:        "/api/v1/ml/health",
		Summary:     "Check the MercadoLibre credential",
		Description: "Calls users/me with the current access token. Returns 502 when the call fails.",
		Tags:        []string{"mercadolibre"},
	}, h.Health)
}
