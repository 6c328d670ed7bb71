package revenue

import (
	"math"
	"time"

	"fastzila-analytics/internal/storage"
)

// Day-window boundaries in fractional hours. Work before 06:00 and after
// 22:00 is paid at the night rate.
const (
	morningEnd   = 6.0
	eveningStart = 22.0
	dayEnd       = 24.0
)

// PickerPay is one side's priced components for a picker shift.
type PickerPay struct {
	HourDay   float64
	HourNight float64
	SKU       float64
	Total     float64
}

// ClockHours converts a timestamp to fractional hours since that day's
// midnight, e.g. 08:30 becomes 8.5.
func ClockHours(t time.Time) float64 {
	return float64(t.Hour()) + float64(t.Minute())/60
}

// windowHours returns how much of [start, finish] falls inside the window.
func windowHours(start, finish, windowStart, windowEnd float64) float64 {
	lo := math.Max(start, windowStart)
	hi := math.Min(finish, windowEnd)
	if hi <= lo {
		return 0
	}
	return hi - lo
}

// SplitShift divides a shift into daytime hours and night hours, where night
// is the morning window before 06:00 plus the evening window after 22:00.
func SplitShift(start, finish float64) (day, night float64) {
	morning := windowHours(start, finish, 0, morningEnd)
	day = windowHours(start, finish, morningEnd, eveningStart)
	evening := windowHours(start, finish, eveningStart, dayEnd)
	return day, morning + evening
}

// CalculatePicker prices one picker shift against one side's rates. SKU pay
// spreads the shift's picking rate over its daytime hours; a shift with zero
// active hours earns no SKU pay rather than dividing by zero.
func CalculatePicker(s storage.PickerShift, r Rates) PickerPay {
	var start, finish float64
	if s.FirstActivation.Valid {
		start = ClockHours(s.FirstActivation.Time)
	}
	if s.LastDeactivation.Valid {
		finish = ClockHours(s.LastDeactivation.Time)
	}

	day, night := SplitShift(start, finish)

	var p PickerPay
	p.HourDay = finite(day * r.Hour)
	p.HourNight = finite(night * r.NightHour)
	if s.ActiveHours > 0 {
		p.SKU = finite(s.PickedSKU / s.ActiveHours * day * r.SKU)
	}
	p.Total = p.HourDay + p.HourNight + p.SKU
	return p
}

// PickerPaymentFor prices both sides of one joined row and flattens them onto
// the shift's payment columns.
func PickerPaymentFor(row PickerRow) storage.PickerPayment {
	doer := CalculatePicker(row.Shift, row.Card.Cost)
	client := CalculatePicker(row.Shift, row.Card.Amount)

	return storage.PickerPayment{
		RecordID:        row.Shift.ID,
		HourDayClient:   client.HourDay,
		HourDayDoer:     doer.HourDay,
		HourNightClient: client.HourNight,
		HourNightDoer:   doer.HourNight,
		PickedSKUClient: client.SKU,
		PickedSKUDoer:   doer.SKU,
		FullClient:      client.Total,
		FullDoer:        doer.Total,
	}
}
