package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

func TestResolveWindow(t *testing.T) {
	weekly := &StaffSchedule{
		StaffID:   1,
		Weekday:   1,
		StartTime: "09:00",
		EndTime:   "17:00",
		IsActive:  true,
	}

	t.Run("weekly schedule applies without exception", func(t *testing.T) {
		window, ok := ResolveWindow(weekly, nil)
		require.True(t, ok)
		assert.Equal(t, types.TimeString("09:00"), window.Start)
		assert.Equal(t, types.TimeString("17:00"), window.End)
	})

	t.Run("no schedule row means unavailable", func(t *testing.T) {
		_, ok := ResolveWindow(nil, nil)
		assert.False(t, ok)
	})

	t.Run("inactive row means unavailable", func(t *testing.T) {
		inactive := *weekly
		inactive.IsActive = false
		_, ok := ResolveWindow(&inactive, nil)
		assert.False(t, ok)
	})

	t.Run("day off exception overrides weekly", func(t *testing.T) {
		exc := &ScheduleException{StaffID: 1, IsDayOff: true}
		_, ok := ResolveWindow(weekly, exc)
		assert.False(t, ok)
	})

	t.Run("special hours exception overrides weekly", func(t *testing.T) {
		exc := &ScheduleException{
			StaffID:   1,
			StartTime: ptr.Ptr(types.TimeString("12:00")),
			EndTime:   ptr.Ptr(types.TimeString("15:00")),
		}
		window, ok := ResolveWindow(weekly, exc)
		require.True(t, ok)
		assert.Equal(t, types.TimeString("12:00"), window.Start)
		assert.Equal(t, types.TimeString("15:00"), window.End)
	})

	t.Run("special hours exception applies even without weekly row", func(t *testing.T) {
		exc := &ScheduleException{
			StaffID:   1,
			StartTime: ptr.Ptr(types.TimeString("10:00")),
			EndTime:   ptr.Ptr(types.TimeString("14:00")),
		}
		window, ok := ResolveWindow(nil, exc)
		require.True(t, ok)
		assert.Equal(t, types.TimeString("10:00"), window.Start)
		assert.Equal(t, types.TimeString("14:00"), window.End)
	})

	t.Run("exception without hours means unavailable", func(t *testing.T) {
		exc := &ScheduleException{StaffID: 1, IsDayOff: false}
		_, ok := ResolveWindow(weekly, exc)
		assert.False(t, ok)
	})
}

func TestBlockingStatuses(t *testing.T) {
	assert.Equal(t, []AppointmentStatus{StatusConfirmed}, BlockingStatuses(false))
	assert.Equal(t, []AppointmentStatus{StatusConfirmed, StatusPending}, BlockingStatuses(true))
}

func TestAppointment_Lifecycle(t *testing.T) {
	appt := &Appointment{
		StartTime:       "10:00",
		DurationMinutes: 90,
		Status:          StatusPending,
	}

	assert.True(t, appt.IsActive())
	assert.True(t, appt.CanBeCancelled())

	end, err := appt.EndTime()
	require.NoError(t, err)
	assert.Equal(t, types.TimeString("11:30"), end)

	appt.Status = StatusCompleted
	assert.True(t, appt.IsActive())
	assert.False(t, appt.CanBeCancelled())

	appt.Status = StatusCancelled
	now := time.Now()
	appt.CancelledAt = &now
	assert.False(t, appt.IsActive())
	assert.True(t, appt.IsCancelled())
}

func TestValidStatus(t *testing.T) {
	for _, valid := range []string{"pending", "confirmed", "cancelled", "completed"} {
		_, ok := ValidStatus(valid)
		assert.True(t, ok, valid)
	}

	_, ok := ValidStatus("no_show")
	assert.False(t, ok)
}

func TestResourceAssignment(t *testing.T) {
	assigned := Assigned(42)
	assert.True(t, assigned.IsAssigned())
	id, ok := assigned.ResourceID()
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)

	unassigned := Unassigned()
	assert.False(t, unassigned.IsAssigned())
	_, ok = unassigned.ResourceID()
	assert.False(t, ok)
}

func TestService_OccupiedSpanMinutes(t *testing.T) {
	svc := &Service{DurationMinutes: 60, BufferBeforeMinutes: 10, BufferAfterMinutes: 15}
	assert.Equal(t, 85, svc.OccupiedSpanMinutes())

	noBuffers := &Service{DurationMinutes: 30}
	assert.Equal(t, 30, noBuffers.OccupiedSpanMinutes())
}
