package revenue

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"fastzila-analytics/internal/storage"
)

func pickerShift(start, finish time.Time, hours, sku float64) storage.PickerShift {
	return storage.PickerShift{
		ID:               1,
		ActiveHours:      hours,
		PickedSKU:        sku,
		FirstActivation:  sql.NullTime{Time: start, Valid: true},
		LastDeactivation: sql.NullTime{Time: finish, Valid: true},
	}
}

func clock(hour, minute int) time.Time {
	return time.Date(2024, time.March, 15, hour, minute, 0, 0, time.UTC)
}

func TestClockHours(t *testing.T) {
	assert.Equal(t, 8.5, ClockHours(clock(8, 30)))
	assert.Equal(t, 0.0, ClockHours(clock(0, 0)))
	assert.InDelta(t, 23.75, ClockHours(clock(23, 45)), 1e-9)
}

func TestSplitShift(t *testing.T) {
	tests := []struct {
		name      string
		start     float64
		finish    float64
		wantDay   float64
		wantNight float64
	}{
		{"daytime only", 8.5, 20, 11.5, 0},
		{"early start", 4, 10, 4, 2},
		{"late finish", 20, 23.5, 2, 1.5},
		{"full day", 0, 24, 16, 8},
		{"night only", 22, 24, 0, 2},
		{"inverted clock times", 22, 2, 0, 0},
		{"zero-length shift", 10, 10, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			day, night := SplitShift(tt.start, tt.finish)
			assert.InDelta(t, tt.wantDay, day, 1e-9)
			assert.InDelta(t, tt.wantNight, night, 1e-9)
		})
	}
}

func TestSplitShift_NeverExceedsFullDay(t *testing.T) {
	for start := 0.0; start < 24; start += 1.5 {
		for finish := start; finish <= 24; finish += 1.5 {
			day, night := SplitShift(start, finish)
			assert.LessOrEqual(t, day+night, 24.0)
			assert.InDelta(t, finish-start, day+night, 1e-9,
				"start %.1f finish %.1f", start, finish)
		}
	}
}

func TestCalculatePicker_DaytimeShift(t *testing.T) {
	rates := Rates{Hour: 40, NightHour: 25}

	pay := CalculatePicker(pickerShift(clock(8, 30), clock(20, 0), 11.5, 0), rates)

	assert.InDelta(t, 460.0, pay.HourDay, 1e-9)
	assert.Equal(t, 0.0, pay.HourNight)
	assert.InDelta(t, 460.0, pay.Total, 1e-9)
}

func TestCalculatePicker_NightHours(t *testing.T) {
	rates := Rates{Hour: 40, NightHour: 25}

	// 04:00-10:00: two morning hours at the night rate, four day hours.
	pay := CalculatePicker(pickerShift(clock(4, 0), clock(10, 0), 6, 0), rates)

	assert.InDelta(t, 160.0, pay.HourDay, 1e-9)
	assert.InDelta(t, 50.0, pay.HourNight, 1e-9)
}

func TestCalculatePicker_SKUPay(t *testing.T) {
	rates := Rates{SKU: 2}

	// 120 SKU over 8 active hours, all of them daytime.
	pay := CalculatePicker(pickerShift(clock(10, 0), clock(18, 0), 8, 120), rates)

	assert.InDelta(t, 240.0, pay.SKU, 1e-9)
}

func TestCalculatePicker_ZeroActiveHoursGuardsSKUPay(t *testing.T) {
	rates := Rates{Hour: 40, SKU: 2}

	pay := CalculatePicker(pickerShift(clock(10, 0), clock(18, 0), 0, 120), rates)

	assert.Equal(t, 0.0, pay.SKU)
	assert.InDelta(t, 320.0, pay.Total, 1e-9) // hour pay still applies
}

func TestCalculatePicker_MissingRatesYieldZeroTotal(t *testing.T) {
	pay := CalculatePicker(pickerShift(clock(8, 0), clock(20, 0), 12, 300), Rates{})

	assert.Equal(t, 0.0, pay.Total)
}

func TestCalculatePicker_Idempotent(t *testing.T) {
	rates := Rates{Hour: 40, NightHour: 25, SKU: 2}
	shift := pickerShift(clock(5, 30), clock(23, 0), 16, 250)

	assert.Equal(t, CalculatePicker(shift, rates), CalculatePicker(shift, rates))
}

func TestPickerPaymentFor_SidesAreIndependent(t *testing.T) {
	row := PickerRow{
		Shift: pickerShift(clock(10, 0), clock(18, 0), 8, 80),
		Card: RateCard{
			Cost:   Rates{Hour: 40, SKU: 2},
			Amount: Rates{Hour: 60, SKU: 3},
		},
	}

	payment := PickerPaymentFor(row)

	assert.Equal(t, int64(1), payment.RecordID)
	assert.InDelta(t, 320.0, payment.HourDayDoer, 1e-9)
	assert.InDelta(t, 160.0, payment.PickedSKUDoer, 1e-9)
	assert.InDelta(t, 480.0, payment.FullDoer, 1e-9)
	assert.InDelta(t, 480.0, payment.HourDayClient, 1e-9)
	assert.InDelta(t, 240.0, payment.PickedSKUClient, 1e-9)
	assert.InDelta(t, 720.0, payment.FullClient, 1e-9)
}
