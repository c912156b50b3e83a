package temporal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/pods/internal/models"
)

func millisIn(t *testing.T, tz string, y int, m time.Month, d, hh, mm int) int64 {
	t.Helper()
	loc, err := time.LoadLocation(tz)
	require.NoError(t, err)
	return time.Date(y, m, d, hh, mm, 0, 0, loc).UnixMilli()
}

func TestIsValidTimeZone(t *testing.T) {
	tests := []struct {
		tz   string
		want bool
	}{
		{"UTC", true},
		{"America/New_York", true},
		{"Europe/Riga", true},
		{"", false},
		{"Mars/Olympus_Mons", false},
	}
	for _, tc := range tests {
		t.Run(tc.tz, func(t *testing.T) {
			require.Equal(t, tc.want, IsValidTimeZone(tc.tz))
		})
	}
}

func TestCalendarDaysBetween_SameDayIsZero(t *testing.T) {
	start := millisIn(t, "UTC", 2024, time.March, 15, 0, 1)
	end := millisIn(t, "UTC", 2024, time.March, 15, 23, 59)
	require.Equal(t, 0, CalendarDaysBetween(start, end, "UTC"))
}

func TestCalendarDaysBetween_MidnightBoundaryIsOne(t *testing.T) {
	// Two minutes apart, but on opposite sides of a local midnight.
	start := millisIn(t, "UTC", 2024, time.March, 15, 23, 59)
	end := millisIn(t, "UTC", 2024, time.March, 16, 0, 1)
	require.Equal(t, 1, CalendarDaysBetween(start, end, "UTC"))
}

func TestCalendarDaysBetween_TimezoneLocalBoundaries(t *testing.T) {
	tz := "America/New_York"

	// 23:30 local on Jan 1 vs 00:05 local on Jan 2: one boundary crossed.
	start := millisIn(t, tz, 2024, time.January, 1, 23, 30)
	end := millisIn(t, tz, 2024, time.January, 2, 0, 5)
	require.Equal(t, 1, CalendarDaysBetween(start, end, tz))

	// Same instants observed in UTC are both on Jan 2: zero boundaries.
	require.Equal(t, 0, CalendarDaysBetween(start, end, "UTC"))
}

func TestCalendarDaysBetween_InvalidTimezoneFallsBackToUTC(t *testing.T) {
	start := millisIn(t, "UTC", 2024, time.March, 15, 23, 59)
	end := millisIn(t, "UTC", 2024, time.March, 16, 0, 1)
	require.Equal(t, 1, CalendarDaysBetween(start, end, "Nowhere/Invalid"))
	require.Equal(t, 1, CalendarDaysBetween(start, end, ""))
}

func TestCalendarDaysBetween_DSTTransition(t *testing.T) {
	tz := "America/New_York"
	// The 23-hour day of the spring-forward transition still counts as one
	// calendar day.
	start := millisIn(t, tz, 2024, time.March, 9, 12, 0)
	end := millisIn(t, tz, 2024, time.March, 10, 12, 0)
	require.Equal(t, 1, CalendarDaysBetween(start, end, tz))
}

func TestIsExpired(t *testing.T) {
	party := &models.Party{ID: "42", Timezone: "America/New_York"}
	created := millisIn(t, party.Timezone, 2024, time.January, 1, 23, 30)

	tests := []struct {
		name string
		card models.Card
		now  int64
		want bool
	}{
		{
			name: "same day not expired",
			card: models.Card{Timestamp: created},
			now:  millisIn(t, party.Timezone, 2024, time.January, 1, 23, 45),
			want: false,
		},
		{
			name: "next calendar day still visible",
			card: models.Card{Timestamp: created},
			now:  millisIn(t, party.Timezone, 2024, time.January, 2, 0, 5),
			want: false,
		},
		{
			name: "two days later expired",
			card: models.Card{Timestamp: created},
			now:  millisIn(t, party.Timezone, 2024, time.January, 3, 0, 5),
			want: true,
		},
		{
			name: "permanent card never expires",
			card: models.Card{Timestamp: created, IsPermanent: true},
			now:  millisIn(t, party.Timezone, 2024, time.June, 1, 0, 0),
			want: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, IsExpired(tc.card, party, tc.now))
		})
	}
}

func TestIsExpired_NilPartyDefaultsToUTC(t *testing.T) {
	created := millisIn(t, "UTC", 2024, time.January, 1, 12, 0)
	now := millisIn(t, "UTC", 2024, time.January, 3, 0, 1)
	require.True(t, IsExpired(models.Card{Timestamp: created}, nil, now))
}

func TestStatusOf(t *testing.T) {
	party := &models.Party{ID: "42", Timezone: "America/New_York"}
	created := millisIn(t, party.Timezone, 2024, time.January, 1, 23, 30)

	tests := []struct {
		name string
		card models.Card
		now  int64
		want CardStatus
	}{
		{
			name: "created today",
			card: models.Card{Timestamp: created},
			now:  millisIn(t, party.Timezone, 2024, time.January, 1, 23, 45),
			want: StatusStable,
		},
		{
			name: "expiring at end of day",
			card: models.Card{Timestamp: created},
			now:  millisIn(t, party.Timezone, 2024, time.January, 2, 0, 5),
			want: StatusExpiring,
		},
		{
			name: "expired",
			card: models.Card{Timestamp: created},
			now:  millisIn(t, party.Timezone, 2024, time.January, 3, 0, 5),
			want: StatusExpired,
		},
		{
			name: "permanent short-circuits",
			card: models.Card{Timestamp: created, IsPermanent: true},
			now:  millisIn(t, party.Timezone, 2030, time.January, 1, 0, 0),
			want: StatusPermanent,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, StatusOf(tc.card, party, tc.now))
		})
	}
}
