package agent

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingBooking_Merge(t *testing.T) {
	at := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)

	t.Run("absent datetime keeps prior value", func(t *testing.T) {
		var p PendingBooking
		p.Merge(BookingInfo{DateTime: &at, DurationMinutes: 60, Title: "Meeting"})
		p.Merge(BookingInfo{DurationMinutes: 60, Title: "Meeting"})

		require.NotNil(t, p.DateTime)
		assert.Equal(t, at, *p.DateTime)
	})

	t.Run("new datetime wins", func(t *testing.T) {
		later := at.Add(2 * time.Hour)
		var p PendingBooking
		p.Merge(BookingInfo{DateTime: &at, DurationMinutes: 60, Title: "Meeting"})
		p.Merge(BookingInfo{DateTime: &later, DurationMinutes: 60, Title: "Meeting"})

		assert.Equal(t, later, *p.DateTime)
	})

	t.Run("defaults do not overwrite explicit values", func(t *testing.T) {
		var p PendingBooking
		p.Merge(BookingInfo{DurationMinutes: 30, DurationExplicit: true, Title: "Call", TitleExplicit: true})
		p.Merge(BookingInfo{DurationMinutes: 60, Title: "Meeting"})

		info := p.Resolve()
		assert.Equal(t, 30, info.DurationMinutes)
		assert.Equal(t, "Call", info.Title)
	})

	t.Run("explicit values overwrite explicit values", func(t *testing.T) {
		var p PendingBooking
		p.Merge(BookingInfo{DurationMinutes: 30, DurationExplicit: true, Title: "Call", TitleExplicit: true})
		p.Merge(BookingInfo{DurationMinutes: 120, DurationExplicit: true, Title: "Demo", TitleExplicit: true})

		info := p.Resolve()
		assert.Equal(t, 120, info.DurationMinutes)
		assert.Equal(t, "Demo", info.Title)
	})

	t.Run("empty attendees keep prior list", func(t *testing.T) {
		var p PendingBooking
		p.Merge(BookingInfo{Attendees: []string{"a@example.com"}})
		p.Merge(BookingInfo{Attendees: []string{}})

		assert.Equal(t, []string{"a@example.com"}, p.Attendees)
	})

	t.Run("merge copies the datetime", func(t *testing.T) {
		local := at
		var p PendingBooking
		p.Merge(BookingInfo{DateTime: &local})
		local = local.Add(time.Hour)

		assert.Equal(t, at, *p.DateTime)
	})
}

func TestPendingBooking_Resolve(t *testing.T) {
	var p PendingBooking
	assert.True(t, p.IsEmpty())

	info := p.Resolve()
	assert.Nil(t, info.DateTime)
	assert.Equal(t, DefaultDurationMinutes, info.DurationMinutes)
	assert.Equal(t, DefaultTitle, info.Title)
	assert.Empty(t, info.Attendees)
	assert.NotNil(t, info.Attendees)
	assert.True(t, info.End().IsZero())
}

func TestBookingInfo_End(t *testing.T) {
	start := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	info := BookingInfo{DateTime: &start, DurationMinutes: 45}

	assert.Equal(t, start.Add(45*time.Minute), info.End())
}

func TestPendingBooking_IgnoresOutOfRangeDuration(t *testing.T) {
	var p PendingBooking
	p.Merge(BookingInfo{DurationMinutes: 45, DurationExplicit: true, Title: DefaultTitle})
	p.Merge(BookingInfo{DurationMinutes: MaxDurationMinutes + 1, DurationExplicit: true, Title: DefaultTitle})

	require.NotNil(t, p.DurationMinutes)
	assert.Equal(t, 45, *p.DurationMinutes)

	huge := 153722880
	p = PendingBooking{DurationMinutes: &huge}
	assert.Equal(t, DefaultDurationMinutes, p.Resolve().DurationMinutes)
}

func TestTimeRange_Overlaps(t *testing.T) {
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	r := TimeRange{Start: base, End: base.Add(time.Hour)}

	assert.True(t, r.Overlaps(TimeRange{Start: base.Add(30 * time.Minute), End: base.Add(90 * time.Minute)}))
	assert.False(t, r.Overlaps(TimeRange{Start: base.Add(time.Hour), End: base.Add(2 * time.Hour)}))
	assert.False(t, r.Overlaps(TimeRange{Start: base.Add(-time.Hour), End: base}))
}
