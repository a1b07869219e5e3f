package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

func TestParseDate(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)

	d, err := ParseDate("2026-09-15", loc)
	require.NoError(t, err)
	assert.Equal(t, 2026, d.Year())
	assert.Equal(t, time.September, d.Month())
	assert.Equal(t, 15, d.Day())
	assert.Equal(t, loc, d.Location())

	_, err = ParseDate("15.09.2026", loc)
	assert.ErrorIs(t, err, ErrInvalidTimeFormat)

	_, err = ParseDate("", loc)
	assert.ErrorIs(t, err, ErrInvalidTimeFormat)
}

func TestParseDateTime(t *testing.T) {
	moment, err := ParseDateTime("2026-09-15", types.TimeString("10:30"), time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 9, 15, 10, 30, 0, 0, time.UTC), moment)

	_, err = ParseDateTime("2026-09-15", types.TimeString("bad"), time.UTC)
	assert.ErrorIs(t, err, ErrInvalidTimeFormat)
}

func TestWeekdayIndex(t *testing.T) {
	// 2026-09-13 - воскресенье
	sunday := time.Date(2026, 9, 13, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, WeekdayIndex(sunday))
	assert.Equal(t, 1, WeekdayIndex(sunday.AddDate(0, 0, 1)))
	assert.Equal(t, 6, WeekdayIndex(sunday.AddDate(0, 0, 6)))
}

func TestIsSameDay(t *testing.T) {
	a := time.Date(2026, 9, 15, 23, 59, 0, 0, time.UTC)
	b := time.Date(2026, 9, 15, 0, 1, 0, 0, time.UTC)
	c := time.Date(2026, 9, 16, 0, 0, 0, 0, time.UTC)

	assert.True(t, IsSameDay(a, b))
	assert.False(t, IsSameDay(a, c))
}

func TestIsDateInPast(t *testing.T) {
	now := time.Date(2026, 9, 15, 12, 0, 0, 0, time.UTC)

	assert.True(t, IsDateInPast(now.AddDate(0, 0, -1), now))
	// Сегодняшний день не считается прошлым, даже если время уже позднее
	assert.False(t, IsDateInPast(time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC), now))
	assert.False(t, IsDateInPast(now.AddDate(0, 0, 1), now))
}

func TestDateOnly(t *testing.T) {
	moment := time.Date(2026, 9, 15, 18, 45, 12, 99, time.UTC)
	assert.Equal(t, time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC), DateOnly(moment))
}
