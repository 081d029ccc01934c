package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	domain "github.com/donaldgifford/ecofinder/pkg/types"
)

func TestCredential_Valid(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		cred *domain.Credential
		want bool
	}{
		{name: "nil credential", cred: nil, want: false},
		{name: "empty access token", cred: &domain.Credential{ExpiresAt: now.Add(time.Hour)}, want: false},
		{
			name: "well before expiry",
			cred: &domain.Credential{AccessToken: "t", ExpiresAt: now.Add(time.Hour)},
			want: true,
		},
		{
			name: "inside margin",
			cred: &domain.Credential{AccessToken: "t", ExpiresAt: now.Add(30 * time.Second)},
			want: false,
		},
		{
			name: "exactly at margin",
			cred: &domain.Credential{AccessToken: "t", ExpiresAt: now.Add(60 * time.Second)},
			want: false,
		},
		{
			name: "already expired",
			cred: &domain.Credential{AccessToken: "t", ExpiresAt: now.Add(-time.Minute)},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.cred.Valid(now, 60*time.Second))
		})
	}
}

func TestPaging_Offsets(t *testing.T) {
	t.Parallel()

	p := domain.Paging{Total: 100, Limit: 24, Offset: 24}
	assert.True(t, p.HasMore())
	assert.Equal(t, 48, p.NextOffset())
	assert.Equal(t, 0, p.PrevOffset())

	last := domain.Paging{Total: 30, Limit: 24, Offset: 24}
	assert.False(t, last.HasMore())
	assert.Equal(t, 0, domain.Paging{Limit: 24}.PrevOffset())
}
