package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/ecofinder/internal/notify"
	notifyMocks "github.com/donaldgifford/ecofinder/internal/notify/mocks"
)

type fakeRefresher struct {
	errs   []error
	calls  int
	expiry time.Time
}

func (f *fakeRefresher) ForceRefresh(context.Context) (string, error) {
	var err error
	if f.calls < len(f.errs) {
		err = f.errs[f.calls]
	}
	f.calls++
	if err != nil {
		return "", err
	}
	return "APP_USR-fresh", nil
}

func (f *fakeRefresher) Expiry() time.Time { return f.expiry }

func quietLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestNew_RegistersCronEntry(t *testing.T) {
	t.Parallel()

	sched, err := New(&fakeRefresher{}, 6*time.Hour, notifyMocks.NewMockNotifier(t), "MLC", quietLogger())
	require.NoError(t, err)
	assert.Len(t, sched.Entries(), 1)
}

func TestNew_RejectsNonPositiveInterval(t *testing.T) {
	t.Parallel()

	_, err := New(&fakeRefresher{}, 0, notifyMocks.NewMockNotifier(t), "MLC", quietLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be positive")
}

func TestScheduler_StartStop(t *testing.T) {
	t.Parallel()

	sched, err := New(&fakeRefresher{}, time.Hour, notifyMocks.NewMockNotifier(t), "MLC", quietLogger())
	require.NoError(t, err)

	sched.Start()
	ctx := sched.Stop()
	<-ctx.Done()
}

func TestScheduler_RunKeepAlive(t *testing.T) {
	t.Parallel()

	expiry := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	refreshErr := errors.New("credential exchange failed: invalid_grant")

	tests := []struct {
		name          string
		errs          []error
		runs          int
		setupNotifier func(*notifyMocks.MockNotifier)
		wantErr       []bool
	}{
		{
			name:          "success sends nothing",
			runs:          1,
			setupNotifier: func(*notifyMocks.MockNotifier) {},
			wantErr:       []bool{false},
		},
		{
			name: "failure notifies",
			errs: []error{refreshErr},
			runs: 1,
			setupNotifier: func(n *notifyMocks.MockNotifier) {
				n.EXPECT().
					SendAuthFailure(mock.Anything, &notify.AuthEvent{
						Site:       "MLC",
						Error:      refreshErr.Error(),
						ExpiresAt:  expiry,
						OccurredAt: now,
					}).
					Return(nil).
					Once()
			},
			wantErr: []bool{true},
		},
		{
			name: "recovery after failure notifies once",
			errs: []error{refreshErr, nil, nil},
			runs: 3,
			setupNotifier: func(n *notifyMocks.MockNotifier) {
				n.EXPECT().SendAuthFailure(mock.Anything, mock.Anything).Return(nil).Once()
				n.EXPECT().
					SendAuthRecovered(mock.Anything, mock.MatchedBy(func(e *notify.AuthEvent) bool {
						return e.Site == "MLC" && e.Error == ""
					})).
					Return(nil).
					Once()
			},
			wantErr: []bool{true, false, false},
		},
		{
			name: "notifier error does not change the result",
			errs: []error{refreshErr},
			runs: 1,
			setupNotifier: func(n *notifyMocks.MockNotifier) {
				n.EXPECT().
					SendAuthFailure(mock.Anything, mock.Anything).
					Return(errors.New("discord returned 500")).
					Once()
			},
			wantErr: []bool{true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			n := notifyMocks.NewMockNotifier(t)
			tt.setupNotifier(n)

			tokens := &fakeRefresher{errs: tt.errs, expiry: expiry}
			sched, err := New(tokens, time.Hour, n, "MLC", quietLogger())
			require.NoError(t, err)
			sched.nowFunc = func() time.Time { return now }

			for i := range tt.runs {
				err := sched.RunKeepAlive(context.Background())
				if tt.wantErr[i] {
					require.ErrorIs(t, err, refreshErr)
				} else {
					require.NoError(t, err)
				}
			}
			assert.Equal(t, tt.runs, tokens.calls)
		})
	}
}
