package revenue

import (
	"time"

	"fastzila-analytics/internal/storage"
)

// RateKey addresses the single effective tariff for one work day.
type RateKey struct {
	Date         time.Time
	RegionID     int64
	SpecialityID int64
}

// Day truncates a timestamp to its calendar date at midnight UTC, the
// granularity every tariff decision is made at.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// deadSuperseded reports whether a superseded tariff can never price work:
// its revocation date was never recorded, or it was revoked the same day it
// was created, which marks a transient entry mistake.
func deadSuperseded(t storage.Tariff) bool {
	if t.StateID != storage.TariffStateSuperseded {
		return false
	}
	if !t.StateDate.Valid {
		return true
	}
	return Day(t.Created).Equal(Day(t.StateDate.Time))
}

// effectiveStop returns the last day a tariff applies to. A superseded tariff
// stops at its state-change date regardless of the stored stop date; an active
// tariff without a stop date is open-ended.
func effectiveStop(t storage.Tariff) (time.Time, bool) {
	if t.StateID == storage.TariffStateSuperseded && t.StateDate.Valid {
		return Day(t.StateDate.Time), true
	}
	if t.DateStop.Valid {
		return Day(t.DateStop.Time), true
	}
	return time.Time{}, false
}

// validOn reports whether the tariff's validity window covers the given day.
func validOn(t storage.Tariff, day time.Time) bool {
	if day.Before(Day(t.DateStart)) {
		return false
	}
	if stop, ok := effectiveStop(t); ok && day.After(stop) {
		return false
	}
	return true
}

// ResolveTariffs picks, for every requested day, the effective tariff version
// per (region, speciality). When several versions cover the same day the one
// with the highest id wins, matching how tariff history is appended. An empty
// result is valid: uncovered shifts simply wait for tariffs to appear.
func ResolveTariffs(tariffs []storage.Tariff, days []time.Time) map[RateKey]storage.Tariff {
	resolved := make(map[RateKey]storage.Tariff)
	for _, d := range days {
		day := Day(d)
		for _, t := range tariffs {
			if deadSuperseded(t) || !validOn(t, day) {
				continue
			}
			key := RateKey{Date: day, RegionID: t.RegionID, SpecialityID: t.SpecialityID}
			if current, ok := resolved[key]; !ok || t.ID > current.ID {
				resolved[key] = t
			}
		}
	}
	return resolved
}
