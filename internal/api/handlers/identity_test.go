package handlers_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/ecofinder/internal/api/handlers"
	"github.com/donaldgifford/ecofinder/internal/api/handlers/mocks"
	"github.com/donaldgifford/ecofinder/internal/meli"
)

func TestIdentityHandler_Health(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		setupMock  func(*mocks.MockIdentityClient)
		wantStatus int
		wantBody   []string
		notBody    []string
	}{
		{
			name: "valid credential returns user",
			setupMock: func(m *mocks.MockIdentityClient) {
				m.EXPECT().Me(mock.Anything).Return(&meli.User{
					ID: 123456789, Nickname: "ECOFINDER", SiteID: "MLC",
				}, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   []string{`"ok":true`, `"nickname":"ECOFINDER"`, `"site_id":"MLC"`},
			notBody:    []string{`"error"`},
		},
		{
			name: "failed identity call returns 502",
			setupMock: func(m *mocks.MockIdentityClient) {
				m.EXPECT().Me(mock.Anything).
					Return(nil, errors.New("fetching current user: unexpected status 401")).
					Once()
			},
			wantStatus: http.StatusBadGateway,
			wantBody:   []string{`"ok":false`, `unexpected status 401`},
			notBody:    []string{`"user"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := mocks.NewMockIdentityClient(t)
			tt.setupMock(m)

			_, api := humatest.New(t)
			handlers.RegisterIdentityRoutes(api, handlers.NewIdentityHandler(m, quietLogger()))

			resp := api.Get("/api/v1/ml/health")
			require.Equal(t, tt.wantStatus, resp.Code)
			for _, want := range tt.wantBody {
				assert.Contains(t, resp.Body.String(), want)
			}
			for _, not := range tt.notBody {
				assert.NotContains(t, resp.Body.String(), not)
			}
		})
	}
}
