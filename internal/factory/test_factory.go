package factory

import (
	"io"
	"log/slog"
	"time"

	"github.com/tgilmour/broadside/internal/dependencies/mocks"
	"github.com/tgilmour/broadside/internal/push"
	"github.com/tgilmour/broadside/internal/storage/memory"
)

// TestApp extends App with controllable dependencies for testing
type TestApp struct {
	*App

	MockClock *mocks.MockClock
}

// NewTestApp creates an App backed by in-memory storage, a pinned clock,
// and the given event sender
func NewTestApp(sender push.Sender, now time.Time) *TestApp {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	mockClock := mocks.NewMockClock(now)

	app := newWithDependencies(memory.New(), mockClock, sender, logger)

	return &TestApp{
		App:       app,
		MockClock: mockClock,
	}
}
