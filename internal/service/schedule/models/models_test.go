package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

func TestSaveWeeklyScheduleRequest_ToDomainSchedules(t *testing.T) {
	t.Run("converts valid days", func(t *testing.T) {
		req := &SaveWeeklyScheduleRequest{
			Days: []WeeklyScheduleDay{
				{Weekday: 1, StartTime: "09:00", EndTime: "17:00", IsActive: true},
				{Weekday: 6, StartTime: "10:00", EndTime: "14:00", IsActive: false},
			},
		}

		schedules, err := req.ToDomainSchedules(10)
		require.NoError(t, err)
		require.Len(t, schedules, 2)

		assert.Equal(t, int64(10), schedules[0].StaffID)
		assert.Equal(t, 1, schedules[0].Weekday)
		assert.Equal(t, types.TimeString("09:00"), schedules[0].StartTime)
		assert.Equal(t, types.TimeString("17:00"), schedules[0].EndTime)
		assert.True(t, schedules[0].IsActive)
		assert.False(t, schedules[1].IsActive)
	})

	t.Run("rejects weekday out of range", func(t *testing.T) {
		req := &SaveWeeklyScheduleRequest{
			Days: []WeeklyScheduleDay{{Weekday: 7, StartTime: "09:00", EndTime: "17:00"}},
		}
		_, err := req.ToDomainSchedules(10)
		assert.ErrorIs(t, err, ErrInvalidWeekday)

		req.Days[0].Weekday = -1
		_, err = req.ToDomainSchedules(10)
		assert.ErrorIs(t, err, ErrInvalidWeekday)
	})

	t.Run("rejects duplicate weekday", func(t *testing.T) {
		req := &SaveWeeklyScheduleRequest{
			Days: []WeeklyScheduleDay{
				{Weekday: 2, StartTime: "09:00", EndTime: "12:00"},
				{Weekday: 2, StartTime: "13:00", EndTime: "17:00"},
			},
		}
		_, err := req.ToDomainSchedules(10)
		assert.ErrorIs(t, err, ErrInvalidWeekday)
	})

	t.Run("rejects malformed time", func(t *testing.T) {
		req := &SaveWeeklyScheduleRequest{
			Days: []WeeklyScheduleDay{{Weekday: 1, StartTime: "9:00", EndTime: "17:00"}},
		}
		_, err := req.ToDomainSchedules(10)
		assert.ErrorIs(t, err, ErrInvalidTimeRange)
	})

	t.Run("rejects start not before end", func(t *testing.T) {
		req := &SaveWeeklyScheduleRequest{
			Days: []WeeklyScheduleDay{{Weekday: 1, StartTime: "17:00", EndTime: "09:00"}},
		}
		_, err := req.ToDomainSchedules(10)
		assert.ErrorIs(t, err, ErrInvalidTimeRange)

		req.Days[0].EndTime = "17:00"
		_, err = req.ToDomainSchedules(10)
		assert.ErrorIs(t, err, ErrInvalidTimeRange)
	})

	t.Run("empty request yields empty schedule", func(t *testing.T) {
		req := &SaveWeeklyScheduleRequest{}
		schedules, err := req.ToDomainSchedules(10)
		require.NoError(t, err)
		assert.Empty(t, schedules)
	})
}

func TestFromDomainException(t *testing.T) {
	assert.Nil(t, FromDomainException(nil))

	start := types.TimeString("12:00")
	end := types.TimeString("15:00")
	exc := &domain.ScheduleException{
		ID:        3,
		StaffID:   10,
		IsDayOff:  false,
		StartTime: &start,
		EndTime:   &end,
	}

	resp := FromDomainException(exc)
	require.NotNil(t, resp)
	assert.Equal(t, int64(3), resp.ID)
	require.NotNil(t, resp.StartTime)
	assert.Equal(t, "12:00", *resp.StartTime)
	require.NotNil(t, resp.EndTime)
	assert.Equal(t, "15:00", *resp.EndTime)
}
