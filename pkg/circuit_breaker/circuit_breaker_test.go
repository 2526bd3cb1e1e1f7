package circuit_breaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var errService = errors.New("service error")

func Test_circuitBreaker_Call(t *testing.T) {
	t.Parallel()
	type fields struct {
		window        int
		cooldown      time.Duration
		threshold     float64
		recoveryCalls int
	}
	tests := []struct {
		name      string
		fields    fields
		calls     []error
		wantState Status
	}{
		{
			name:      "stays closed on success",
			fields:    fields{window: 10, cooldown: time.Second, threshold: 0.3, recoveryCalls: 2},
			calls:     []error{nil, nil, nil, nil, nil},
			wantState: Closed,
		},
		{
			name:      "stays closed below threshold",
			fields:    fields{window: 10, cooldown: time.Second, threshold: 0.3, recoveryCalls: 2},
			calls:     []error{errService, nil, errService, nil, nil},
			wantState: Closed,
		},
		{
			name:      "opens at threshold",
			fields:    fields{window: 10, cooldown: time.Second, threshold: 0.3, recoveryCalls: 2},
			calls:     []error{errService, errService, errService},
			wantState: Open,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cb := New(tt.fields.window, tt.fields.cooldown, tt.fields.threshold, tt.fields.recoveryCalls)
			for _, callErr := range tt.calls {
				callErr := callErr
				err := cb.Call(func() error { return callErr })
				require.Equal(t, callErr, err)
			}
			require.Equal(t, tt.wantState, cb.State())
		})
	}
}

func Test_circuitBreaker_Recovery(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cb := New(2, time.Minute, 0.5, 2).(*circuitBreaker)
	cb.now = func() time.Time { return now }

	require.ErrorIs(t, cb.Call(func() error { return errService }), errService)
	require.Equal(t, Open, cb.State())

	called := false
	require.ErrorIs(t, cb.Call(func() error { called = true; return nil }), ErrOpenCB)
	require.False(t, called)

	now = now.Add(2 * time.Minute)
	require.NoError(t, cb.Call(func() error { return nil }))
	require.Equal(t, HalfOpen, cb.State())

	require.ErrorIs(t, cb.Call(func() error { return errService }), errService)
	require.Equal(t, Open, cb.State())

	now = now.Add(2 * time.Minute)
	require.NoError(t, cb.Call(func() error { return nil }))
	require.NoError(t, cb.Call(func() error { return nil }))
	require.Equal(t, Closed, cb.State())

	cb.Reset()
	require.Equal(t, Closed, cb.State())
}
