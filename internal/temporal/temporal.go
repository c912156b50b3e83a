// Package temporal computes calendar-day differences in an arbitrary
// timezone and derives card visibility and expiry from them.
//
// The expiry rule: a card created on day D expires at the end of day D+1 in
// the owning party's timezone. Day boundaries are calendar boundaries as
// observed in that zone, not 24-hour multiples.
package temporal

import (
	"math"
	"time"

	"github.com/dmitrijs2005/pods/internal/models"
)

// CardStatus is the non-authoritative, display-facing expiry state of a card.
type CardStatus string

const (
	// StatusPermanent — the card never expires.
	StatusPermanent CardStatus = "permanent"
	// StatusStable — created today, expires tomorrow.
	StatusStable CardStatus = "stable"
	// StatusExpiring — created yesterday, expires at the end of today.
	StatusExpiring CardStatus = "expiring"
	// StatusExpired — past its expiry boundary, filtered from view.
	StatusExpired CardStatus = "expired"
)

// IsValidTimeZone reports whether tz names a loadable IANA timezone.
// The empty string is not valid.
func IsValidTimeZone(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

// location resolves tz, silently falling back to UTC when the identifier is
// absent or unknown.
func location(tz string) *time.Location {
	if tz == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC
	}
	return loc
}

// CalendarDaysBetween returns the number of calendar-day boundaries crossed
// between two epoch-millisecond instants as observed in tz.
//
// A start at 23:59 and an end at 00:01 the next day yields 1, regardless of
// the two-minute gap. Both instants on the same local calendar day yield 0.
// An invalid timezone falls back to UTC rather than failing.
func CalendarDaysBetween(startMillis, endMillis int64, tz string) int {
	loc := location(tz)

	start := time.UnixMilli(startMillis).In(loc)
	end := time.UnixMilli(endMillis).In(loc)

	// Compare timezone-naive midnights of the two local dates. Using UTC
	// for the naive instants keeps DST transitions out of the subtraction.
	startDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	endDay := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)

	return int(math.Round(endDay.Sub(startDay).Hours() / 24))
}

// partyTimezone returns the timezone to evaluate a card against.
func partyTimezone(party *models.Party) string {
	if party == nil {
		return "UTC"
	}
	return party.Timezone
}

// IsExpired reports whether the card is past its visibility window at the
// given instant. Permanent cards never expire.
func IsExpired(card models.Card, party *models.Party, nowMillis int64) bool {
	if card.IsPermanent {
		return false
	}
	daysPassed := CalendarDaysBetween(card.Timestamp, nowMillis, partyTimezone(party))
	return daysPassed > 1
}

// StatusOf derives the display status of a card at the given instant. It
// shares the exact boundary arithmetic with IsExpired.
func StatusOf(card models.Card, party *models.Party, nowMillis int64) CardStatus {
	if card.IsPermanent {
		return StatusPermanent
	}
	daysPassed := CalendarDaysBetween(card.Timestamp, nowMillis, partyTimezone(party))
	switch {
	case daysPassed <= 0:
		return StatusStable
	case daysPassed == 1:
		return StatusExpiring
	default:
		return StatusExpired
	}
}
