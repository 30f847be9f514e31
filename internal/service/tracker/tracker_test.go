package tracker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/cafetec/cafetec-client/config"
	"github.com/cafetec/cafetec-client/internal/domain/order"
	"github.com/cafetec/cafetec-client/internal/mocks"
)

func newTracker(t *testing.T, interval time.Duration) (*Tracker, *mocks.MockOrderAPI) {
	t.Helper()
	ctrl := gomock.NewController(t)
	api := mocks.NewMockOrderAPI(ctrl)
	tr := New(TrackerOptions{
		API:    api,
		Config: config.TrackerConfig{PollInterval: interval},
	})
	return tr, api
}

func TestRun_StopsOnTerminalStatus(t *testing.T) {
	tr, api := newTracker(t, 5*time.Millisecond)

	gomock.InOrder(
		api.EXPECT().Status(gomock.Any(), "tok-1", int64(5)).Return(order.StatusPending, nil),
		api.EXPECT().Status(gomock.Any(), "tok-1", int64(5)).Return(order.StatusPreparing, nil),
		api.EXPECT().Status(gomock.Any(), "tok-1", int64(5)).Return(order.StatusCompleted, nil),
	)

	var updates []Update
	final, err := tr.Run(context.Background(), "tok-1", 5, func(u Update) {
		updates = append(updates, u)
	})
	require.NoError(t, err)
	assert.Equal(t, order.StatusCompleted, final)

	require.Len(t, updates, 3, "callback fires once per status change")
	assert.Equal(t, order.StatusPending, updates[0].Status)
	assert.Equal(t, order.StatusPreparing, updates[1].Status)
	assert.Equal(t, order.StatusCompleted, updates[2].Status)
}

func TestRun_ImmediateTerminalSkipsTicker(t *testing.T) {
	tr, api := newTracker(t, time.Hour)

	api.EXPECT().Status(gomock.Any(), "tok-1", int64(5)).Return(order.StatusCancelled, nil)

	start := time.Now()
	final, err := tr.Run(context.Background(), "tok-1", 5, nil)
	require.NoError(t, err)
	assert.Equal(t, order.StatusCancelled, final)
	assert.Less(t, time.Since(start), time.Second, "first poll happens without waiting a tick")
}

func TestRun_UnchangedStatusDoesNotRefire(t *testing.T) {
	tr, api := newTracker(t, 5*time.Millisecond)

	gomock.InOrder(
		api.EXPECT().Status(gomock.Any(), "tok-1", int64(5)).Return(order.StatusPending, nil).Times(3),
		api.EXPECT().Status(gomock.Any(), "tok-1", int64(5)).Return(order.StatusCompleted, nil),
	)

	var updates []Update
	_, err := tr.Run(context.Background(), "tok-1", 5, func(u Update) {
		updates = append(updates, u)
	})
	require.NoError(t, err)
	assert.Len(t, updates, 2, "pending reported once, completed once")
}

func TestRun_SurvivesTransientFailures(t *testing.T) {
	tr, api := newTracker(t, 5*time.Millisecond)

	gomock.InOrder(
		api.EXPECT().Status(gomock.Any(), "tok-1", int64(5)).Return(order.Status(""), errors.New("gateway timeout")),
		api.EXPECT().Status(gomock.Any(), "tok-1", int64(5)).Return(order.StatusReady, nil),
		api.EXPECT().Status(gomock.Any(), "tok-1", int64(5)).Return(order.StatusCompleted, nil),
	)

	final, err := tr.Run(context.Background(), "tok-1", 5, nil)
	require.NoError(t, err)
	assert.Equal(t, order.StatusCompleted, final)
}

func TestRun_CancelledContext(t *testing.T) {
	tr, api := newTracker(t, time.Hour)

	api.EXPECT().Status(gomock.Any(), "tok-1", int64(5)).Return(order.StatusPending, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	var final order.Status
	var err error
	go func() {
		defer close(done)
		final, err = tr.Run(ctx, "tok-1", 5, nil)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("tracker did not stop on cancellation")
	}

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, order.StatusPending, final, "last known status is returned")
}

func TestCountdown(t *testing.T) {
	at := func(h, m int) time.Time {
		return time.Date(2026, 8, 31, h, m, 0, 0, time.UTC)
	}

	tests := []struct {
		name  string
		start string
		now   time.Time
		want  string
	}{
		{"minutes away", "12:30", at(12, 5), "25m"},
		{"hours away", "14:00", at(11, 45), "2h 15m"},
		{"already open", "09:00", at(10, 0), "ahora"},
		{"exactly now", "10:00", at(10, 0), "ahora"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			tr := New(TrackerOptions{
				API: mocks.NewMockOrderAPI(ctrl),
				Now: func() time.Time { return tt.now },
			})

			got, err := tr.Countdown(order.Slot{ID: 1, Start: tt.start})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCountdown_MalformedSlot(t *testing.T) {
	ctrl := gomock.NewController(t)
	tr := New(TrackerOptions{API: mocks.NewMockOrderAPI(ctrl)})

	_, err := tr.Countdown(order.Slot{ID: 1, Start: "mediodía"})
	assert.Error(t, err)
}
