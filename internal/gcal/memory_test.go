package gcal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omriShneor/booking_assistant/internal/agent"
)

func newTestMemoryCalendar() *MemoryCalendar {
	m := NewMemoryCalendar(time.UTC)
	m.now = func() time.Time { return refNow }
	return m
}

func TestMemoryCalendar_CreateAndList(t *testing.T) {
	ctx := context.Background()
	m := newTestMemoryCalendar()

	start := time.Date(2026, 3, 12, 14, 0, 0, 0, time.UTC)
	res, err := m.CreateEvent(ctx, agent.EventRequest{
		Title:     "Sync Meeting",
		Start:     start,
		End:       start.Add(time.Hour),
		Attendees: []string{"a@x.com"},
	})
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.NotEmpty(t, res.EventID)
	assert.Contains(t, res.EventLink, res.EventID)

	events, err := m.ListEvents(ctx, 7)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Sync Meeting", events[0].Title)
	assert.Equal(t, []string{"a@x.com"}, events[0].Attendees)

	events, err = m.ListEvents(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestMemoryCalendar_RejectsInvertedRange(t *testing.T) {
	m := newTestMemoryCalendar()

	res, err := m.CreateEvent(context.Background(), agent.EventRequest{Start: refNow, End: refNow})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Error)
}

func TestMemoryCalendar_Availability(t *testing.T) {
	ctx := context.Background()
	m := newTestMemoryCalendar()

	start := time.Date(2026, 3, 12, 10, 0, 0, 0, time.UTC)
	_, err := m.CreateEvent(ctx, agent.EventRequest{Title: "Demo", Start: start, End: start.Add(time.Hour)})
	require.NoError(t, err)

	free, err := m.CheckAvailability(ctx, start.Add(30*time.Minute), start.Add(90*time.Minute))
	require.NoError(t, err)
	assert.False(t, free)

	free, err = m.CheckAvailability(ctx, start.Add(time.Hour), start.Add(2*time.Hour))
	require.NoError(t, err)
	assert.True(t, free)

	slots, err := m.AvailableSlots(ctx, refNow, 1, 60)
	require.NoError(t, err)
	for _, s := range slots {
		assert.NotEqual(t, 10, s.Start.Hour())
	}
	assert.Len(t, slots, 7)
}

func TestMemoryCalendar_Delete(t *testing.T) {
	ctx := context.Background()
	m := newTestMemoryCalendar()

	start := time.Date(2026, 3, 12, 10, 0, 0, 0, time.UTC)
	created, err := m.CreateEvent(ctx, agent.EventRequest{Title: "Demo", Start: start, End: start.Add(time.Hour)})
	require.NoError(t, err)

	res, err := m.DeleteEvent(ctx, created.EventID)
	require.NoError(t, err)
	assert.True(t, res.Success)

	res, err = m.DeleteEvent(ctx, created.EventID)
	assert.True(t, IsEventNotFound(err))
	assert.False(t, res.Success)
}

func TestMemoryCalendar_VerifyAccess(t *testing.T) {
	assert.NoError(t, newTestMemoryCalendar().VerifyAccess(context.Background()))
}
